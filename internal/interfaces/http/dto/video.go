// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"scenra/internal/domain/entity"
)

// RecordMetricsRequest 记录视频表现指标请求。
// 同一视频同一平台重复提交时覆盖旧值。
type RecordMetricsRequest struct {
	Platform string `json:"platform" binding:"required"`
	Views    int64  `json:"views" binding:"min=0"`
	Likes    int64  `json:"likes" binding:"min=0"`
	Comments int64  `json:"comments" binding:"min=0"`
	Shares   int64  `json:"shares" binding:"min=0"`
}

// VideoMetricsResponse 视频表现指标响应
type VideoMetricsResponse struct {
	Platform       string    `json:"platform"`
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	Shares         int64     `json:"shares"`
	EngagementRate float64   `json:"engagement_rate"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// ToVideoMetricsResponse 将领域指标转换为 DTO
func ToVideoMetricsResponse(m *entity.VideoMetrics) *VideoMetricsResponse {
	if m == nil {
		return nil
	}
	return &VideoMetricsResponse{
		Platform:       string(m.Platform),
		Views:          m.Views,
		Likes:          m.Likes,
		Comments:       m.Comments,
		Shares:         m.Shares,
		EngagementRate: m.EngagementRate(),
		RecordedAt:     m.RecordedAt,
	}
}
