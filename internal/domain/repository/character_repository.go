// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"scenra/internal/domain/entity"
)

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	// Create 创建角色
	Create(ctx context.Context, character *entity.Character) error

	// GetByID 根据 ID 获取角色
	GetByID(ctx context.Context, id string) (*entity.Character, error)

	// Update 更新角色
	Update(ctx context.Context, character *entity.Character) error

	// Delete 删除角色
	Delete(ctx context.Context, id string) error

	// ListBySeries 获取系列的全部角色
	ListBySeries(ctx context.Context, seriesID string) ([]*entity.Character, error)

	// ListByIDs 按 ID 集合获取角色，保持入参顺序；未命中的 ID 静默跳过
	ListByIDs(ctx context.Context, seriesID string, ids []string) ([]*entity.Character, error)
}
