// Package entity 定义领域实体
package entity

import (
	"time"
)

// Platform 目标发布平台
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformBoth      Platform = "both"
)

// IsValid 平台取值是否合法
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformYouTube, PlatformBoth:
		return true
	}
	return false
}

// SoraStyleSettings 系列级的 Sora 风格设定。
// 聚合时可被单次请求的覆盖值逐字段替换（请求优先）。
type SoraStyleSettings struct {
	CameraStyle     string `json:"camera_style,omitempty"`
	LightingMood    string `json:"lighting_mood,omitempty"`
	ColorPalette    string `json:"color_palette,omitempty"`
	OverallTone     string `json:"overall_tone,omitempty"`
	NarrativePrefix string `json:"narrative_prefix,omitempty"`
}

// Merge 返回以 override 优先逐字段合并后的设定
func (s *SoraStyleSettings) Merge(override *SoraStyleSettings) *SoraStyleSettings {
	if s == nil {
		return override
	}
	if override == nil {
		return s
	}
	merged := *s
	if override.CameraStyle != "" {
		merged.CameraStyle = override.CameraStyle
	}
	if override.LightingMood != "" {
		merged.LightingMood = override.LightingMood
	}
	if override.ColorPalette != "" {
		merged.ColorPalette = override.ColorPalette
	}
	if override.OverallTone != "" {
		merged.OverallTone = override.OverallTone
	}
	if override.NarrativePrefix != "" {
		merged.NarrativePrefix = override.NarrativePrefix
	}
	return &merged
}

// Series 视频系列
type Series struct {
	ID          string   `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID      string   `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Title       string   `json:"title" gorm:"type:varchar(255);not null"`
	Description string   `json:"description,omitempty" gorm:"type:text"`
	Platform    Platform `json:"platform" gorm:"type:varchar(16);not null"`

	// SoraSettings 系列级风格设定，可为空
	SoraSettings *SoraStyleSettings `json:"sora_settings,omitempty" gorm:"type:jsonb;serializer:json"`

	// VisualTemplate 不透明的视觉风格模板（前端编辑，核心原样传递）
	VisualTemplate map[string]string `json:"visual_template,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting 系列的固定场景设定（地点等）
type Setting struct {
	ID            string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	SeriesID      string    `json:"series_id" gorm:"type:varchar(36);not null;index"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Description   string    `json:"description,omitempty" gorm:"type:text"`
	VisualDetails string    `json:"visual_details,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VisualAsset 系列视觉资产（参考图/道具等）
type VisualAsset struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	SeriesID    string    `json:"series_id" gorm:"type:varchar(36);not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	AssetType   string    `json:"asset_type,omitempty" gorm:"type:varchar(64)"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	URL         string    `json:"url,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// CharacterRelationship 角色间关系
type CharacterRelationship struct {
	ID               string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	SeriesID         string    `json:"series_id" gorm:"type:varchar(36);not null;index"`
	CharacterAID     string    `json:"character_a_id" gorm:"type:varchar(36);not null"`
	CharacterBID     string    `json:"character_b_id" gorm:"type:varchar(36);not null"`
	RelationshipType string    `json:"relationship_type" gorm:"type:varchar(64);not null"`
	CreatedAt        time.Time `json:"created_at"`
}
