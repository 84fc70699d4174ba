package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"scenra/internal/domain/entity"
)

// APIKeyRepository API Key 仓储实现
type APIKeyRepository struct {
	client *Client
}

// NewAPIKeyRepository 创建 API Key 仓储
func NewAPIKeyRepository(client *Client) *APIKeyRepository {
	return &APIKeyRepository{client: client}
}

// Create 创建 API Key
func (r *APIKeyRepository) Create(ctx context.Context, key *entity.APIKey) error {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.Create")
	defer span.End()

	if err := r.client.getDB(ctx).Create(key).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// GetByHash 根据哈希获取 API Key，未找到返回 nil
func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*entity.APIKey, error) {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.GetByHash")
	defer span.End()

	var key entity.APIKey
	err := r.client.getDB(ctx).First(&key, "key_hash = ?", keyHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return &key, nil
}

// ListByUser 获取用户的全部 API Key
func (r *APIKeyRepository) ListByUser(ctx context.Context, userID string) ([]*entity.APIKey, error) {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.ListByUser")
	defer span.End()

	var items []*entity.APIKey
	err := r.client.getDB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return items, nil
}

// Revoke 吊销 API Key
func (r *APIKeyRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.Revoke")
	defer span.End()

	err := r.client.getDB(ctx).Model(&entity.APIKey{}).
		Where("id = ?", id).
		Update("revoked_at", at).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	return nil
}

// TouchLastUsed 更新最近使用时间
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.TouchLastUsed")
	defer span.End()

	err := r.client.getDB(ctx).Model(&entity.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to touch api key: %w", err)
	}
	return nil
}
