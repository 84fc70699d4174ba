// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"scenra/internal/domain/entity"
)

// EpisodeRepository 剧集仓储接口
type EpisodeRepository interface {
	// Create 创建剧集
	Create(ctx context.Context, episode *entity.Episode) error

	// GetByID 根据 ID 获取剧集
	GetByID(ctx context.Context, id string) (*entity.Episode, error)

	// Update 更新剧集
	Update(ctx context.Context, episode *entity.Episode) error

	// Delete 删除剧集
	Delete(ctx context.Context, id string) error

	// ListBySeries 获取系列的剧集列表（按集号排序）
	ListBySeries(ctx context.Context, seriesID string, pagination Pagination) (*PagedResult[*entity.Episode], error)
}
