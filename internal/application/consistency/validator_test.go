package consistency

import (
	"strings"
	"testing"

	"scenra/internal/domain/entity"
)

func fingerprintCharacter(name string, fp *entity.VisualFingerprint) *entity.Character {
	ch := entity.NewCharacter("series-1", name)
	ch.ID = "char-" + name
	ch.VisualFingerprint = fp
	return ch
}

// TestValidateNoCharactersIsVacuouslyValid 验证无角色时校验为空真。
// 场景：角色列表为空，报告应为满分、有效、无违规，且属性计数全为零。
func TestValidateNoCharactersIsVacuouslyValid(t *testing.T) {
	v := NewValidator()

	report := v.Validate("a woman walks through a neon city", nil)

	if !report.Valid {
		t.Fatalf("expected valid report, got violations %v", report.Violations)
	}
	if report.QualityScore != 100 {
		t.Fatalf("expected score 100, got %d", report.QualityScore)
	}
	if report.Tier != TierExcellent {
		t.Fatalf("expected tier excellent, got %s", report.Tier)
	}
	if report.Details.TotalAttributes != 0 {
		t.Fatalf("expected zero attributes, got %d", report.Details.TotalAttributes)
	}
	if report.Violations == nil || len(report.Violations) != 0 {
		t.Fatalf("expected empty non-nil violations slice, got %v", report.Violations)
	}
}

// TestValidateNilFingerprintSkipped 验证无指纹角色不参与校验。
// 场景：角色没有视觉指纹，即使提示词完全不提及该角色也不产生违规。
func TestValidateNilFingerprintSkipped(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Maya", nil),
		nil,
	}

	report := v.Validate("an empty street at dawn", characters)

	if !report.Valid || report.QualityScore != 100 {
		t.Fatalf("expected vacuous pass, got valid=%v score=%d", report.Valid, report.QualityScore)
	}
}

// TestValidateAllAttributesPreserved 验证属性全部保留时满分。
// 场景：提示词包含指纹的每个属性，报告满分且计数一致。
func TestValidateAllAttributesPreserved(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Maya", &entity.VisualFingerprint{
			Hair:      "long black hair",
			Ethnicity: "east asian",
			Eyes:      "brown eyes",
		}),
	}
	prompt := "Maya, an East Asian woman with long black hair and warm brown eyes, crosses the street."

	report := v.Validate(prompt, characters)

	if !report.Valid {
		t.Fatalf("expected valid, got violations %v", report.Violations)
	}
	if report.Details.TotalAttributes != 3 || report.Details.PreservedAttributes != 3 {
		t.Fatalf("unexpected details %+v", report.Details)
	}
}

// TestValidateMissingAttributesProduceViolations 验证缺失属性逐条记为违规。
// 场景：提示词未体现任何指纹属性，每个属性产生一条违规，分数为 0，档位为 poor。
func TestValidateMissingAttributesProduceViolations(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Maya", &entity.VisualFingerprint{
			Hair:      "silver bob",
			Ethnicity: "korean",
		}),
	}

	report := v.Validate("a dog runs across a field", characters)

	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if len(report.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(report.Violations))
	}
	if report.QualityScore != 0 || report.Tier != TierPoor {
		t.Fatalf("expected score 0 poor, got %d %s", report.QualityScore, report.Tier)
	}
	for _, vio := range report.Violations {
		if vio.CharacterName != "Maya" {
			t.Fatalf("violation should name the character, got %q", vio.CharacterName)
		}
		if vio.Expected == "" || vio.Issue == "" {
			t.Fatalf("violation missing expected value or issue: %+v", vio)
		}
	}
}

// TestValidateEmptyPromptViolatesEveryAttribute 验证空提示词逐属性违规。
// 场景：提示词为空串且角色设置了全部六个属性，每个属性各产生一条违规，
// 分数为 0 且报告无效。
func TestValidateEmptyPromptViolatesEveryAttribute(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Maya", &entity.VisualFingerprint{
			Hair:            "black bob",
			Ethnicity:       "korean",
			SkinTone:        "warm tan",
			Eyes:            "brown eyes",
			DefaultClothing: "yellow slicker",
			Age:             "early thirties",
		}),
	}

	report := v.Validate("", characters)

	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if len(report.Violations) != 6 {
		t.Fatalf("expected one violation per attribute, got %d", len(report.Violations))
	}
	if report.QualityScore != 0 {
		t.Fatalf("expected score 0, got %d", report.QualityScore)
	}
	if report.Details.TotalAttributes != 6 || report.Details.ViolatedAttributes != 6 {
		t.Fatalf("unexpected details %+v", report.Details)
	}
}

// TestValidatePartialPreservationScore 验证部分保留时按比例计分并四舍五入。
// 场景：3 个属性保留 2 个，分数应为 67，档位为 fair。
func TestValidatePartialPreservationScore(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Jun", &entity.VisualFingerprint{
			Hair:      "red curls",
			Eyes:      "green eyes",
			Ethnicity: "irish",
		}),
	}
	prompt := "Jun with bright red curls and piercing green eyes waits at the bus stop"

	report := v.Validate(prompt, characters)

	if report.QualityScore != 67 {
		t.Fatalf("expected score 67, got %d", report.QualityScore)
	}
	if report.Tier != TierFair {
		t.Fatalf("expected tier fair, got %s", report.Tier)
	}
	if report.Details.ViolatedAttributes != 1 {
		t.Fatalf("expected 1 violated attribute, got %d", report.Details.ViolatedAttributes)
	}
}

// TestValidateCaseInsensitive 验证匹配双向忽略大小写。
// 场景：指纹值大写提示词小写、或提示词大写指纹值小写，均应视为保留。
func TestValidateCaseInsensitive(t *testing.T) {
	v := NewValidator()

	upperValue := []*entity.Character{
		fingerprintCharacter("Ana", &entity.VisualFingerprint{Ethnicity: "AFRO-BRAZILIAN"}),
	}
	report := v.Validate("ana, an afro-brazilian dancer, spins under the lights", upperValue)
	if !report.Valid {
		t.Fatalf("uppercase fingerprint should match lowercase prompt, got %v", report.Violations)
	}

	upperPrompt := []*entity.Character{
		fingerprintCharacter("Ana", &entity.VisualFingerprint{Hair: "blonde hair"}),
	}
	report = v.Validate("A HERO WITH BLONDE HAIR", upperPrompt)
	if !report.Valid {
		t.Fatalf("uppercase prompt should match lowercase fingerprint, got %v", report.Violations)
	}
}

// TestValidateTokenMatchIgnoresStopwords 验证词元匹配跳过虚词。
// 场景：发色值仅有虚词出现在提示词中，不应视为保留；任一实词出现即保留。
func TestValidateTokenMatchIgnoresStopwords(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Kit", &entity.VisualFingerprint{
			Hair: "a mess of curls",
		}),
	}

	// "a" 和 "of" 是虚词，提示词仅含虚词不算保留
	report := v.Validate("a portrait of the city", characters)
	if report.Valid {
		t.Fatalf("stopword-only overlap should not count as preserved")
	}

	// 实词 "curls" 出现即保留
	report = v.Validate("kit shakes out their curls", characters)
	if !report.Valid {
		t.Fatalf("content token match should preserve, got %v", report.Violations)
	}
}

// TestValidateSkinToneGenericPhrase 验证肤色接受通用提法。
// 场景：提示词未包含具体肤色值但包含 "skin tone" 短语，应视为保留。
func TestValidateSkinToneGenericPhrase(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Noor", &entity.VisualFingerprint{
			SkinTone: "deep umber",
		}),
	}

	report := v.Validate("noor, with a rich skin tone, looks toward the camera", characters)

	if !report.Valid {
		t.Fatalf("generic skin tone phrase should satisfy the rule, got %v", report.Violations)
	}
}

// TestValidateClothingViolationIsSoft 验证默认着装缺失记为软违规。
// 场景：默认着装未体现，违规应标记 soft 并在说明中提示简报可覆盖。
func TestValidateClothingViolationIsSoft(t *testing.T) {
	v := NewValidator()
	characters := []*entity.Character{
		fingerprintCharacter("Rex", &entity.VisualFingerprint{
			DefaultClothing: "leather jacket",
		}),
	}

	report := v.Validate("rex sprints across the rooftop", characters)

	if len(report.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(report.Violations))
	}
	vio := report.Violations[0]
	if !vio.Soft {
		t.Fatalf("clothing violation should be soft")
	}
	if !strings.Contains(vio.Issue, "brief can override") {
		t.Fatalf("issue should mention override note, got %q", vio.Issue)
	}
}

// TestTierForScoreBoundaries 验证分数档位的边界取值。
// 场景：90 及以上为 excellent，75 到 89 为 good，60 到 74 为 fair，59 及以下为 poor。
func TestTierForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  QualityTier
	}{
		{100, TierExcellent},
		{90, TierExcellent},
		{89, TierGood},
		{75, TierGood},
		{74, TierFair},
		{60, TierFair},
		{59, TierPoor},
		{0, TierPoor},
	}
	for _, tc := range cases {
		if got := tierForScore(tc.score); got != tc.want {
			t.Fatalf("score %d: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}
