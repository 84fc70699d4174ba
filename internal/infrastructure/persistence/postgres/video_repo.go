package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
)

// VideoRepository 视频仓储实现
type VideoRepository struct {
	client *Client
}

// NewVideoRepository 创建视频仓储
func NewVideoRepository(client *Client) *VideoRepository {
	return &VideoRepository{client: client}
}

// Create 创建视频记录
func (r *VideoRepository) Create(ctx context.Context, video *entity.Video) error {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.Create")
	defer span.End()

	if err := r.client.getDB(ctx).Create(video).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取视频，未找到返回 nil
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*entity.Video, error) {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.GetByID")
	defer span.End()

	var video entity.Video
	err := r.client.getDB(ctx).First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

// Delete 删除视频记录
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.Delete")
	defer span.End()

	if err := r.client.getDB(ctx).Delete(&entity.Video{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// ListByUser 获取用户的视频列表
func (r *VideoRepository) ListByUser(ctx context.Context, userID string, filter *repository.VideoFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Video], error) {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.ListByUser")
	defer span.End()

	db := r.client.getDB(ctx).Model(&entity.Video{}).Where("user_id = ?", userID)
	if filter != nil {
		if filter.SeriesID != "" {
			db = db.Where("series_id = ?", filter.SeriesID)
		}
		if filter.Platform != "" {
			db = db.Where("platform = ?", filter.Platform)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	var items []*entity.Video
	err := db.Order("created_at DESC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return repository.NewPagedResult(items, total, pagination), nil
}

// CountByUserSince 统计用户自某时刻起的生成次数
func (r *VideoRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.CountByUserSince")
	defer span.End()

	var total int64
	err := r.client.getDB(ctx).Model(&entity.Video{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&total).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return total, nil
}

// UpsertMetrics 写入或更新视频表现指标，按 video_id+platform 幂等
func (r *VideoRepository) UpsertMetrics(ctx context.Context, metrics *entity.VideoMetrics) error {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.UpsertMetrics")
	defer span.End()

	err := r.client.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"views", "likes", "comments", "shares", "recorded_at",
		}),
	}).Create(metrics).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert video metrics: %w", err)
	}
	return nil
}

// ListMetrics 获取视频的表现指标
func (r *VideoRepository) ListMetrics(ctx context.Context, videoID string) ([]*entity.VideoMetrics, error) {
	ctx, span := tracer.Start(ctx, "postgres.VideoRepository.ListMetrics")
	defer span.End()

	var items []*entity.VideoMetrics
	err := r.client.getDB(ctx).
		Where("video_id = ?", videoID).
		Order("recorded_at DESC").
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list video metrics: %w", err)
	}
	return items, nil
}
