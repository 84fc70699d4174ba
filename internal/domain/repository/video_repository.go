// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"scenra/internal/domain/entity"
)

// VideoFilter 视频列表过滤条件
type VideoFilter struct {
	SeriesID string
	Platform entity.Platform
}

// VideoRepository 视频仓储接口
type VideoRepository interface {
	// Create 创建视频记录
	Create(ctx context.Context, video *entity.Video) error

	// GetByID 根据 ID 获取视频
	GetByID(ctx context.Context, id string) (*entity.Video, error)

	// Delete 删除视频记录
	Delete(ctx context.Context, id string) error

	// ListByUser 获取用户的视频列表
	ListByUser(ctx context.Context, userID string, filter *VideoFilter, pagination Pagination) (*PagedResult[*entity.Video], error)

	// CountByUserSince 统计用户自某时刻起的生成次数（配额用）
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)

	// UpsertMetrics 写入或更新视频表现指标（按 video_id+platform 幂等）
	UpsertMetrics(ctx context.Context, metrics *entity.VideoMetrics) error

	// ListMetrics 获取视频的表现指标
	ListMetrics(ctx context.Context, videoID string) ([]*entity.VideoMetrics, error)
}
