// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"
	"time"

	"scenra/internal/domain/repository"
	"scenra/pkg/logger"
	"scenra/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// SkipPaths 跳过认证的路径
	SkipPaths []string
	// Enabled 是否启用认证
	Enabled bool
}

// DefaultSkipPaths 默认跳过认证的路径
var DefaultSkipPaths = []string{
	"/health",
	"/live",
	"/ready",
	"/metrics",
	"/v1/auth",
}

// Auth 认证中间件。
// 同时接受两种凭证：Bearer JWT（控制台）和 scn_ 前缀的 API Key（程序化调用）。
func Auth(cfg AuthConfig, userRepo repository.UserRepository, keyRepo repository.APIKeyRepository) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	skipPaths := cfg.SkipPaths
	if len(skipPaths) == 0 {
		skipPaths = DefaultSkipPaths
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		for _, path := range skipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}
		token := parts[1]

		var userID, plan string
		if utils.IsAPIKey(token) {
			var ok bool
			userID, plan, ok = authenticateAPIKey(c, token, userRepo, keyRepo)
			if !ok {
				return
			}
		} else {
			claims, err := jwtManager.ParseToken(token)
			if err != nil {
				msg := "invalid token"
				if err == utils.ErrExpiredToken {
					msg = "token expired"
				}
				abortUnauthorized(c, msg)
				return
			}
			if claims.Type != "access" {
				abortUnauthorized(c, "invalid token type")
				return
			}
			userID = claims.UserID
			plan = claims.Plan
		}

		// 注入用户信息到 Context
		c.Set("user_id", userID)
		c.Set("plan", plan)

		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// authenticateAPIKey 校验 API Key 并解析所属用户
func authenticateAPIKey(c *gin.Context, token string, userRepo repository.UserRepository, keyRepo repository.APIKeyRepository) (userID, plan string, ok bool) {
	ctx := c.Request.Context()

	key, err := keyRepo.GetByHash(ctx, utils.HashAPIKey(token))
	if err != nil {
		logger.Error(ctx, "api key lookup failed", err)
		abortUnauthorized(c, "invalid api key")
		return "", "", false
	}
	if key == nil {
		abortUnauthorized(c, "invalid api key")
		return "", "", false
	}
	if key.Revoked() {
		abortUnauthorized(c, "api key revoked")
		return "", "", false
	}

	user, err := userRepo.GetByID(ctx, key.UserID)
	if err != nil || user == nil {
		abortUnauthorized(c, "invalid api key")
		return "", "", false
	}

	// 更新最近使用时间，失败不影响请求
	if err := keyRepo.TouchLastUsed(ctx, key.ID, time.Now().UTC()); err != nil {
		logger.Warn(ctx, "failed to touch api key last_used_at", "key_id", key.ID)
	}

	return user.ID, string(user.Plan), true
}

// GetUserIDFromGin 从 Gin Context 获取当前用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetPlanFromGin 从 Gin Context 获取当前用户套餐
func GetPlanFromGin(c *gin.Context) string {
	return c.GetString("plan")
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     401,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
