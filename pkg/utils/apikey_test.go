package utils

import (
	"strings"
	"testing"
)

// TestGenerateAPIKeyShape 验证生成的 Key 形态。
// 场景：生成的 Key 应带固定前缀，且两次生成互不相同。
func TestGenerateAPIKeyShape(t *testing.T) {
	key1, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key1, APIKeyPrefix) {
		t.Fatalf("expected prefix %q, got %q", APIKeyPrefix, key1)
	}
	if len(key1) != len(APIKeyPrefix)+48 {
		t.Fatalf("unexpected key length %d", len(key1))
	}

	key2, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key1 == key2 {
		t.Fatalf("keys must be unique")
	}
}

// TestHashAPIKeyDeterministic 验证哈希确定且不等于明文。
// 场景：同一 Key 两次哈希结果一致，不同 Key 哈希不同。
func TestHashAPIKeyDeterministic(t *testing.T) {
	h1 := HashAPIKey("scn_abc")
	h2 := HashAPIKey("scn_abc")
	if h1 != h2 {
		t.Fatalf("hash must be deterministic")
	}
	if h1 == "scn_abc" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if HashAPIKey("scn_abd") == h1 {
		t.Fatalf("different keys must hash differently")
	}
}

// TestAPIKeyHint 验证掩码片段只露出前缀和末 4 位。
// 场景：完整 Key 被掩码，短输入原样返回。
func TestAPIKeyHint(t *testing.T) {
	key := "scn_0123456789abcdef"
	hint := APIKeyHint(key)
	if hint != "scn_0123...cdef" {
		t.Fatalf("unexpected hint %q", hint)
	}
	if APIKeyHint("scn_1") != "scn_1" {
		t.Fatalf("short input should pass through")
	}
}

// TestIsAPIKey 验证凭证形态判断。
// 场景：带前缀的是 API Key，JWT 形态的不是。
func TestIsAPIKey(t *testing.T) {
	if !IsAPIKey("scn_deadbeef") {
		t.Fatalf("prefixed token should be an api key")
	}
	if IsAPIKey("eyJhbGciOiJIUzI1NiJ9.e30.sig") {
		t.Fatalf("jwt should not be an api key")
	}
}
