// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"scenra/internal/domain/entity"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update 更新用户
	Update(ctx context.Context, user *entity.User) error
}

// APIKeyRepository API Key 仓储接口
type APIKeyRepository interface {
	// Create 创建 API Key
	Create(ctx context.Context, key *entity.APIKey) error

	// GetByHash 根据哈希获取 API Key（认证路径）
	GetByHash(ctx context.Context, keyHash string) (*entity.APIKey, error)

	// ListByUser 获取用户的全部 API Key
	ListByUser(ctx context.Context, userID string) ([]*entity.APIKey, error)

	// Revoke 吊销 API Key
	Revoke(ctx context.Context, id string, at time.Time) error

	// TouchLastUsed 更新最近使用时间（尽力而为，不保证成功）
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}
