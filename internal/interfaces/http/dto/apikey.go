// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"scenra/internal/domain/entity"
)

// CreateAPIKeyRequest 创建 API Key 请求
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// APIKeyDTO API Key 展示信息（不含明文与哈希）
type APIKeyDTO struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyHint    string     `json:"key_hint"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateAPIKeyResponse 创建响应，Key 明文只在此处返回一次
type CreateAPIKeyResponse struct {
	APIKeyDTO
	Key string `json:"key"`
}

// ToAPIKeyDTO 将领域实体转换为 DTO
func ToAPIKeyDTO(k *entity.APIKey) *APIKeyDTO {
	if k == nil {
		return nil
	}
	return &APIKeyDTO{
		ID:         k.ID,
		Name:       k.Name,
		KeyHint:    k.KeyHint,
		LastUsedAt: k.LastUsedAt,
		RevokedAt:  k.RevokedAt,
		CreatedAt:  k.CreatedAt,
	}
}

// ToAPIKeyDTOs 批量转换
func ToAPIKeyDTOs(keys []*entity.APIKey) []*APIKeyDTO {
	out := make([]*APIKeyDTO, 0, len(keys))
	for _, k := range keys {
		out = append(out, ToAPIKeyDTO(k))
	}
	return out
}
