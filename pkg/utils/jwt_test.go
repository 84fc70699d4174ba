package utils

import (
	"errors"
	"testing"
	"time"
)

// TestGenerateAndParseTokenPair 验证双 Token 的签发与解析。
// 场景：签发后解析 access 与 refresh，声明字段与类型标记正确。
func TestGenerateAndParseTokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", "scenra")

	pair, err := m.GenerateTokenPair("u1", "pro", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, err := m.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access failed: %v", err)
	}
	if access.UserID != "u1" || access.Plan != "pro" || access.Type != "access" {
		t.Fatalf("unexpected access claims: %+v", access)
	}
	if access.Issuer != "scenra" {
		t.Fatalf("unexpected issuer %q", access.Issuer)
	}

	refresh, err := m.ParseToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh failed: %v", err)
	}
	if refresh.Type != "refresh" {
		t.Fatalf("expected refresh type, got %q", refresh.Type)
	}
}

// TestParseTokenWrongSecret 验证密钥不匹配时解析失败。
// 场景：用另一密钥签发的 Token 应被拒绝为无效。
func TestParseTokenWrongSecret(t *testing.T) {
	other := NewJWTManager("other-secret", "scenra")
	token, err := other.GenerateToken("u1", "free", "access", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewJWTManager("test-secret", "scenra")
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

// TestParseTokenExpired 验证过期 Token 返回专用错误。
// 场景：TTL 为负使 Token 立即过期，解析应返回过期错误。
func TestParseTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", "scenra")
	token, err := m.GenerateToken("u1", "free", "access", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

// TestParseTokenGarbage 验证非法字符串解析失败。
// 场景：输入不是 JWT，应返回无效错误。
func TestParseTokenGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", "scenra")
	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}
