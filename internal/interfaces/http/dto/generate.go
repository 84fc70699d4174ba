// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"scenra/internal/application/generation"
	"scenra/internal/domain/entity"
)

// GenerateRequest 视频提示词生成请求
type GenerateRequest struct {
	Brief    string `json:"brief" binding:"required"`
	Platform string `json:"platform" binding:"required"`

	SeriesID    string `json:"series_id,omitempty" binding:"omitempty,uuid"`
	EpisodeID   string `json:"episode_id,omitempty" binding:"omitempty,uuid"`
	SceneNumber int    `json:"scene_number,omitempty" binding:"omitempty,min=1"`

	// CharacterIDs 本次视频出场的角色，为空时使用系列全部角色
	CharacterIDs []string `json:"character_ids,omitempty"`
	// SettingIDs 本次视频使用的场景设定，为空时使用系列全部设定
	SettingIDs []string `json:"setting_ids,omitempty"`

	// SoraSettings 单次请求的风格覆盖，优先于系列级设定
	SoraSettings *SoraSettingsRequest `json:"sora_settings,omitempty"`
}

// ToInput 转换为生成服务输入
func (r *GenerateRequest) ToInput(userID string, plan entity.Plan) *generation.Input {
	return &generation.Input{
		UserID:       userID,
		Plan:         plan,
		Brief:        r.Brief,
		Platform:     r.Platform,
		SeriesID:     r.SeriesID,
		EpisodeID:    r.EpisodeID,
		SceneNumber:  r.SceneNumber,
		CharacterIDs: r.CharacterIDs,
		SettingIDs:   r.SettingIDs,
		SoraOverride: r.SoraSettings.ToEntity(),
	}
}

// ValidateRequest 独立一致性校验请求
type ValidateRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	SeriesID     string   `json:"series_id" binding:"required,uuid"`
	CharacterIDs []string `json:"character_ids,omitempty"`
}
