package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
)

// EpisodeRepository 剧集仓储实现
type EpisodeRepository struct {
	client *Client
}

// NewEpisodeRepository 创建剧集仓储
func NewEpisodeRepository(client *Client) *EpisodeRepository {
	return &EpisodeRepository{client: client}
}

// Create 创建剧集
func (r *EpisodeRepository) Create(ctx context.Context, episode *entity.Episode) error {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.Create")
	defer span.End()

	if err := r.client.getDB(ctx).Create(episode).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create episode: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取剧集，未找到返回 nil
func (r *EpisodeRepository) GetByID(ctx context.Context, id string) (*entity.Episode, error) {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.GetByID")
	defer span.End()

	var episode entity.Episode
	err := r.client.getDB(ctx).First(&episode, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	return &episode, nil
}

// Update 更新剧集
func (r *EpisodeRepository) Update(ctx context.Context, episode *entity.Episode) error {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.Update")
	defer span.End()

	if err := r.client.getDB(ctx).Save(episode).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update episode: %w", err)
	}
	return nil
}

// Delete 删除剧集
func (r *EpisodeRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.Delete")
	defer span.End()

	if err := r.client.getDB(ctx).Delete(&entity.Episode{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete episode: %w", err)
	}
	return nil
}

// ListBySeries 获取系列的剧集列表，按集号升序
func (r *EpisodeRepository) ListBySeries(ctx context.Context, seriesID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Episode], error) {
	ctx, span := tracer.Start(ctx, "postgres.EpisodeRepository.ListBySeries")
	defer span.End()

	db := r.client.getDB(ctx).Model(&entity.Episode{}).Where("series_id = ?", seriesID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count episodes: %w", err)
	}

	var items []*entity.Episode
	err := db.Order("number ASC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return repository.NewPagedResult(items, total, pagination), nil
}
