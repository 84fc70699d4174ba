// Package utils 提供通用工具函数
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// APIKeyPrefix 对外展示的 Key 前缀
const APIKeyPrefix = "scn_"

// GenerateAPIKey 生成一个新的 API Key 明文。
// 明文只在创建时返回一次，存储层只保留哈希。
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}

// HashAPIKey 计算 API Key 的存储哈希
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// APIKeyHint 返回用于列表展示的掩码片段（前缀 + 末 4 位）
func APIKeyHint(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:len(APIKeyPrefix)+4] + "..." + key[len(key)-4:]
}

// IsAPIKey 判断凭证是否为 API Key 形态
func IsAPIKey(token string) bool {
	return strings.HasPrefix(token, APIKeyPrefix)
}
