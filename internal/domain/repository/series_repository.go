// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"scenra/internal/domain/entity"
)

// SeriesRepository 系列仓储接口
type SeriesRepository interface {
	// Create 创建系列
	Create(ctx context.Context, series *entity.Series) error

	// GetByID 根据 ID 获取系列
	GetByID(ctx context.Context, id string) (*entity.Series, error)

	// Update 更新系列
	Update(ctx context.Context, series *entity.Series) error

	// Delete 删除系列
	Delete(ctx context.Context, id string) error

	// ListByUser 获取用户的系列列表
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Series], error)

	// UpdateSoraSettings 更新系列级 Sora 风格设定
	UpdateSoraSettings(ctx context.Context, id string, settings *entity.SoraStyleSettings) error

	// ListSettings 获取系列的场景设定
	ListSettings(ctx context.Context, seriesID string) ([]*entity.Setting, error)

	// ListSettingsByIDs 按 ID 集合获取场景设定（未命中的 ID 静默跳过）
	ListSettingsByIDs(ctx context.Context, seriesID string, ids []string) ([]*entity.Setting, error)

	// CreateSetting 创建场景设定
	CreateSetting(ctx context.Context, setting *entity.Setting) error

	// ListVisualAssets 获取系列的视觉资产
	ListVisualAssets(ctx context.Context, seriesID string) ([]*entity.VisualAsset, error)

	// CreateVisualAsset 创建视觉资产
	CreateVisualAsset(ctx context.Context, asset *entity.VisualAsset) error

	// ListRelationships 获取系列的角色关系
	ListRelationships(ctx context.Context, seriesID string) ([]*entity.CharacterRelationship, error)

	// CreateRelationship 创建角色关系
	CreateRelationship(ctx context.Context, rel *entity.CharacterRelationship) error
}
