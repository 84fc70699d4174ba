// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// 系列管理
	series := v1.Group("/series")
	{
		series.GET("", h.Series.ListSeries)
		series.POST("", h.Series.CreateSeries)
		series.GET("/:sid", h.Series.GetSeries)
		series.PUT("/:sid", h.Series.UpdateSeries)
		series.DELETE("/:sid", h.Series.DeleteSeries)
		series.PUT("/:sid/sora-settings", h.Series.UpdateSoraSettings)

		// 系列下的场景设定
		series.GET("/:sid/settings", h.Series.ListSettings)
		series.POST("/:sid/settings", h.Series.CreateSetting)

		// 系列下的视觉资产
		series.GET("/:sid/assets", h.Series.ListVisualAssets)
		series.POST("/:sid/assets", h.Series.CreateVisualAsset)

		// 系列下的角色关系
		series.GET("/:sid/relationships", h.Series.ListRelationships)
		series.POST("/:sid/relationships", h.Series.CreateRelationship)

		// 系列下的角色
		series.GET("/:sid/characters", h.Character.ListCharacters)
		series.POST("/:sid/characters", h.Character.CreateCharacter)
		series.GET("/:sid/characters/:cid", h.Character.GetCharacter)
		series.PUT("/:sid/characters/:cid", h.Character.UpdateCharacter)
		series.DELETE("/:sid/characters/:cid", h.Character.DeleteCharacter)

		// 系列下的剧集
		series.GET("/:sid/episodes", h.Episode.ListEpisodes)
		series.POST("/:sid/episodes", h.Episode.CreateEpisode)
		series.GET("/:sid/episodes/:eid", h.Episode.GetEpisode)
		series.PUT("/:sid/episodes/:eid", h.Episode.UpdateEpisode)
		series.DELETE("/:sid/episodes/:eid", h.Episode.DeleteEpisode)
	}

	// 生成与校验
	v1.POST("/generate", h.Generate.Generate)
	v1.POST("/generate/stream", h.Generate.GenerateStream) // SSE
	v1.POST("/validate", h.Generate.Validate)

	// 视频管理
	videos := v1.Group("/videos")
	{
		videos.GET("", h.Video.ListVideos)
		videos.GET("/:vid", h.Video.GetVideo)
		videos.DELETE("/:vid", h.Video.DeleteVideo)
		videos.POST("/:vid/metrics", h.Video.RecordMetrics)
		videos.GET("/:vid/metrics", h.Video.ListMetrics)
	}

	// API Key 管理
	apikeys := v1.Group("/apikeys")
	{
		apikeys.GET("", h.APIKey.ListKeys)
		apikeys.POST("", h.APIKey.CreateKey)
		apikeys.DELETE("/:kid", h.APIKey.RevokeKey)
	}

	// 用量查询
	v1.GET("/usage", h.Usage.GetUsage)
}
