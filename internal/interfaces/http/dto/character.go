// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"scenra/internal/domain/entity"
)

// VisualFingerprintRequest 角色视觉指纹
type VisualFingerprintRequest struct {
	Hair            string `json:"hair,omitempty"`
	Ethnicity       string `json:"ethnicity,omitempty"`
	SkinTone        string `json:"skin_tone,omitempty"`
	Eyes            string `json:"eyes,omitempty"`
	DefaultClothing string `json:"default_clothing,omitempty"`
	Age             string `json:"age,omitempty"`
}

// ToEntity 转换为领域指纹，所有字段为空时返回 nil
func (r *VisualFingerprintRequest) ToEntity() *entity.VisualFingerprint {
	if r == nil {
		return nil
	}
	f := &entity.VisualFingerprint{
		Hair:            r.Hair,
		Ethnicity:       r.Ethnicity,
		SkinTone:        r.SkinTone,
		Eyes:            r.Eyes,
		DefaultClothing: r.DefaultClothing,
		Age:             r.Age,
	}
	if f.IsEmpty() {
		return nil
	}
	return f
}

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name                string                    `json:"name" binding:"required,max=255"`
	Description         string                    `json:"description,omitempty"`
	VisualFingerprint   *VisualFingerprintRequest `json:"visual_fingerprint,omitempty"`
	ConsistencyPriority string                    `json:"consistency_priority,omitempty" binding:"omitempty,oneof=high medium low"`
	SoraPromptTemplate  string                    `json:"sora_prompt_template,omitempty"`
}

// UpdateCharacterRequest 更新角色请求
type UpdateCharacterRequest struct {
	Name                string                    `json:"name,omitempty" binding:"omitempty,max=255"`
	Description         *string                   `json:"description,omitempty"`
	VisualFingerprint   *VisualFingerprintRequest `json:"visual_fingerprint,omitempty"`
	ConsistencyPriority string                    `json:"consistency_priority,omitempty" binding:"omitempty,oneof=high medium low"`
	SoraPromptTemplate  *string                   `json:"sora_prompt_template,omitempty"`
}
