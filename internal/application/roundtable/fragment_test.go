package roundtable

import (
	"strings"
	"testing"

	"scenra/internal/domain/entity"
)

// TestResolveCharacterBlockPrefersTemplate 验证角色自带模板优先于指纹。
// 场景：角色同时携带提示词模板与视觉指纹，锁定块应使用模板原文并标记来源为 template。
func TestResolveCharacterBlockPrefersTemplate(t *testing.T) {
	ch := entity.NewCharacter("s1", "Maya")
	ch.SoraPromptTemplate = "Maya, a wiry courier in a yellow slicker."
	ch.VisualFingerprint = &entity.VisualFingerprint{Hair: "black bob"}

	res := ResolveCharacterBlock(ch)

	if res.Source != BlockSourceTemplate {
		t.Fatalf("expected source template, got %s", res.Source)
	}
	if res.Block != ch.SoraPromptTemplate {
		t.Fatalf("expected template text verbatim, got %q", res.Block)
	}
}

// TestResolveCharacterBlockFingerprintFallback 验证无模板时由指纹生成锁定块。
// 场景：角色只有视觉指纹，来源应为 fingerprint 且块内包含属性展示名。
func TestResolveCharacterBlockFingerprintFallback(t *testing.T) {
	ch := entity.NewCharacter("s1", "Maya")
	ch.VisualFingerprint = &entity.VisualFingerprint{
		Hair:            "black bob",
		SkinTone:        "warm tan",
		DefaultClothing: "yellow slicker",
	}

	res := ResolveCharacterBlock(ch)

	if res.Source != BlockSourceFingerprint {
		t.Fatalf("expected source fingerprint, got %s", res.Source)
	}
	for _, want := range []string{"Maya:", "hair: black bob", "skin tone: warm tan", "wearing: yellow slicker"} {
		if !strings.Contains(res.Block, want) {
			t.Fatalf("block missing %q: %q", want, res.Block)
		}
	}
}

// TestResolveCharacterBlockNameFallback 验证模板与指纹皆无时退化为角色名。
// 场景：角色只有名字，来源应为 name，块即角色名。
func TestResolveCharacterBlockNameFallback(t *testing.T) {
	ch := entity.NewCharacter("s1", "Maya")

	res := ResolveCharacterBlock(ch)

	if res.Source != BlockSourceName {
		t.Fatalf("expected source name, got %s", res.Source)
	}
	if res.Block != "Maya" {
		t.Fatalf("expected bare name, got %q", res.Block)
	}
}

// TestFingerprintBlockAttributeOrder 验证指纹块属性顺序固定且缺失属性不出现。
// 场景：只设置眼睛与发色，块中发色在前、眼睛在后，不含其他属性标签。
func TestFingerprintBlockAttributeOrder(t *testing.T) {
	ch := entity.NewCharacter("s1", "Jun")
	ch.VisualFingerprint = &entity.VisualFingerprint{
		Eyes: "green eyes",
		Hair: "red curls",
	}

	block := FingerprintBlock(ch)

	hairIdx := strings.Index(block, "hair:")
	eyesIdx := strings.Index(block, "eyes:")
	if hairIdx < 0 || eyesIdx < 0 || hairIdx > eyesIdx {
		t.Fatalf("expected hair before eyes, got %q", block)
	}
	if strings.Contains(block, "ethnicity") || strings.Contains(block, "wearing") {
		t.Fatalf("unset attributes should not appear: %q", block)
	}
}
