//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"scenra/internal/application/consistency"
	"scenra/internal/application/generation"
	"scenra/internal/application/roundtable"
	"scenra/internal/config"
	"scenra/internal/domain/repository"
	"scenra/internal/infrastructure/llm"
	"scenra/internal/infrastructure/persistence/postgres"
	"scenra/internal/infrastructure/persistence/redis"
	"scenra/internal/interfaces/http/handler"
	"scenra/internal/interfaces/http/router"
	workflowprompt "scenra/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeDataLayer 初始化数据层（用于 bootstrap）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		RepoSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewAPIKeyRepository,
	postgres.NewSeriesRepository,
	postgres.NewCharacterRepository,
	postgres.NewEpisodeRepository,
	postgres.NewVideoRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.APIKeyRepository), new(*postgres.APIKeyRepository)),
	wire.Bind(new(repository.SeriesRepository), new(*postgres.SeriesRepository)),
	wire.Bind(new(repository.CharacterRepository), new(*postgres.CharacterRepository)),
	wire.Bind(new(repository.EpisodeRepository), new(*postgres.EpisodeRepository)),
	wire.Bind(new(repository.VideoRepository), new(*postgres.VideoRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
)

// GenerationSet 生成链路提供者集合
var GenerationSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(roundtable.ChatModelFactory), new(*llm.EinoFactory)),
	workflowprompt.NewRegistry,
	ProvideOrchestrator,
	consistency.NewValidator,
	ProvideQuotaService,
	generation.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	ProvideAuthHandler,
	handler.NewSeriesHandler,
	handler.NewCharacterHandler,
	handler.NewEpisodeHandler,
	handler.NewGenerateHandler,
	handler.NewVideoHandler,
	handler.NewAPIKeyHandler,
	handler.NewUsageHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
