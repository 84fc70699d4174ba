// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Video 一次生成产出的视频提示词记录
type Video struct {
	ID        string `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string `json:"user_id" gorm:"type:varchar(36);not null;index"`
	SeriesID  string `json:"series_id,omitempty" gorm:"type:varchar(36);index"`
	EpisodeID string `json:"episode_id,omitempty" gorm:"type:varchar(36);index"`

	Brief    string   `json:"brief" gorm:"type:text;not null"`
	Platform Platform `json:"platform" gorm:"type:varchar(16);not null"`

	OptimizedPrompt string `json:"optimized_prompt" gorm:"type:text;not null"`
	CharacterCount  int    `json:"character_count"`

	// Breakdown 合成阶段产出的结构化技术拆解（原样保存）
	Breakdown json.RawMessage `json:"breakdown,omitempty" gorm:"type:jsonb"`
	// Shots 建议分镜列表
	Shots json.RawMessage `json:"shots,omitempty" gorm:"type:jsonb"`
	// Discussion 两轮圆桌讨论全文
	Discussion json.RawMessage `json:"discussion,omitempty" gorm:"type:jsonb"`

	Hashtags pq.StringArray `json:"hashtags,omitempty" gorm:"type:text[]"`

	// QualityScore 角色一致性校验得分（0-100），未校验时为 nil
	QualityScore *int `json:"quality_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// VideoMetrics 视频发布后的表现指标
type VideoMetrics struct {
	ID       string   `json:"id" gorm:"type:varchar(36);primaryKey"`
	VideoID  string   `json:"video_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_video_metrics_video_platform"`
	Platform Platform `json:"platform" gorm:"type:varchar(16);not null;uniqueIndex:idx_video_metrics_video_platform"`

	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`

	RecordedAt time.Time `json:"recorded_at"`
}

// EngagementRate 互动率（likes+comments+shares）/views，views 为 0 时返回 0
func (m *VideoMetrics) EngagementRate() float64 {
	if m == nil || m.Views <= 0 {
		return 0
	}
	return float64(m.Likes+m.Comments+m.Shares) / float64(m.Views)
}
