// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"scenra/internal/domain/entity"
)

// SoraSettingsRequest 系列级 Sora 风格设定
type SoraSettingsRequest struct {
	CameraStyle     string `json:"camera_style,omitempty"`
	LightingMood    string `json:"lighting_mood,omitempty"`
	ColorPalette    string `json:"color_palette,omitempty"`
	OverallTone     string `json:"overall_tone,omitempty"`
	NarrativePrefix string `json:"narrative_prefix,omitempty"`
}

// ToEntity 转换为领域设定，所有字段为空时返回 nil
func (r *SoraSettingsRequest) ToEntity() *entity.SoraStyleSettings {
	if r == nil {
		return nil
	}
	s := &entity.SoraStyleSettings{
		CameraStyle:     r.CameraStyle,
		LightingMood:    r.LightingMood,
		ColorPalette:    r.ColorPalette,
		OverallTone:     r.OverallTone,
		NarrativePrefix: r.NarrativePrefix,
	}
	if *s == (entity.SoraStyleSettings{}) {
		return nil
	}
	return s
}

// CreateSeriesRequest 创建系列请求
type CreateSeriesRequest struct {
	Title          string               `json:"title" binding:"required,max=255"`
	Description    string               `json:"description,omitempty"`
	Platform       string               `json:"platform" binding:"required"`
	SoraSettings   *SoraSettingsRequest `json:"sora_settings,omitempty"`
	VisualTemplate map[string]string    `json:"visual_template,omitempty"`
}

// UpdateSeriesRequest 更新系列请求
type UpdateSeriesRequest struct {
	Title          string            `json:"title,omitempty" binding:"omitempty,max=255"`
	Description    *string           `json:"description,omitempty"`
	Platform       string            `json:"platform,omitempty"`
	VisualTemplate map[string]string `json:"visual_template,omitempty"`
}

// CreateSettingRequest 创建场景设定请求
type CreateSettingRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Description   string `json:"description,omitempty"`
	VisualDetails string `json:"visual_details,omitempty"`
}

// CreateVisualAssetRequest 创建视觉资产请求
type CreateVisualAssetRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	AssetType   string `json:"asset_type,omitempty" binding:"omitempty,max=64"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// CreateRelationshipRequest 创建角色关系请求
type CreateRelationshipRequest struct {
	CharacterAID     string `json:"character_a_id" binding:"required,uuid"`
	CharacterBID     string `json:"character_b_id" binding:"required,uuid"`
	RelationshipType string `json:"relationship_type" binding:"required,max=64"`
}
