// Package wire 提供依赖注入配置
package wire

import (
	"scenra/internal/application/quota"
	"scenra/internal/application/roundtable"
	"scenra/internal/config"
	"scenra/internal/domain/repository"
	"scenra/internal/infrastructure/persistence/postgres"
	"scenra/internal/infrastructure/persistence/redis"
	"scenra/internal/interfaces/http/handler"
	workflowprompt "scenra/internal/workflow/prompt"
)

// DataLayer 数据层依赖容器（bootstrap 用）
type DataLayer struct {
	PgClient      *postgres.Client
	TxManager     *postgres.TxManager
	UserRepo      *postgres.UserRepository
	APIKeyRepo    *postgres.APIKeyRepository
	SeriesRepo    *postgres.SeriesRepository
	CharacterRepo *postgres.CharacterRepository
	EpisodeRepo   *postgres.EpisodeRepository
	VideoRepo     *postgres.VideoRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideOrchestrator 提供圆桌编排器
func ProvideOrchestrator(factory roundtable.ChatModelFactory, registry *workflowprompt.Registry, cfg *config.Config) *roundtable.Orchestrator {
	return roundtable.NewOrchestrator(factory, registry, cfg.Roundtable, cfg.LLM.DefaultProvider)
}

// ProvideQuotaService 提供生成配额服务
func ProvideQuotaService(videoRepo repository.VideoRepository, cfg *config.Config) *quota.Service {
	return quota.NewService(videoRepo, cfg.Quota)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(pg *postgres.Client, redisClient *redis.Client, cfg *config.Config) *handler.HealthHandler {
	return handler.NewHealthHandler(pg, redisClient, cfg.App.Version)
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(userRepo repository.UserRepository, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(userRepo, cfg.Security.JWT)
}
