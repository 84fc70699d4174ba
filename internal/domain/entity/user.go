// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Plan 订阅套餐
type Plan string

const (
	PlanFree   Plan = "free"
	PlanPro    Plan = "pro"
	PlanStudio Plan = "studio"
)

// User 用户
type User struct {
	ID           string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
	Name         string `json:"name,omitempty" gorm:"type:varchar(255)"`
	Plan         Plan   `json:"plan" gorm:"type:varchar(16);default:free"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword 哈希并设置密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// APIKey 用户 API Key（仅存哈希）
type APIKey struct {
	ID      string `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID  string `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Name    string `json:"name" gorm:"type:varchar(255);not null"`
	KeyHash string `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	KeyHint string `json:"key_hint" gorm:"type:varchar(32)"`

	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Revoked Key 是否已吊销
func (k *APIKey) Revoked() bool {
	return k != nil && k.RevokedAt != nil
}
