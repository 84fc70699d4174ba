// Package consistency 校验生成提示词对角色视觉指纹的保持程度
package consistency

import (
	"fmt"
	"math"
	"strings"

	"scenra/internal/domain/entity"
	"scenra/pkg/metrics"
)

// QualityTier 一致性评分档位
type QualityTier string

const (
	TierExcellent QualityTier = "excellent"
	TierGood      QualityTier = "good"
	TierFair      QualityTier = "fair"
	TierPoor      QualityTier = "poor"
)

// Violation 单条一致性违规
type Violation struct {
	CharacterName string `json:"character_name"`
	Attribute     string `json:"attribute"`
	Expected      string `json:"expected"`
	Issue         string `json:"issue"`
	// Soft 软违规不计入硬性失败，仅提示
	Soft bool `json:"soft,omitempty"`
}

// ReportDetails 校验属性计数明细
type ReportDetails struct {
	TotalAttributes     int `json:"total_attributes"`
	PreservedAttributes int `json:"preserved_attributes"`
	ViolatedAttributes  int `json:"violated_attributes"`
}

// Report 一次校验的完整结果
type Report struct {
	Valid        bool          `json:"valid"`
	QualityScore int           `json:"quality_score"`
	Tier         QualityTier   `json:"tier"`
	Assessment   string        `json:"assessment"`
	Violations   []Violation   `json:"violations"`
	Details      ReportDetails `json:"details"`
}

// matchKind 属性值在提示词中的匹配策略
type matchKind int

const (
	// matchAnyToken 期望值的任一词元出现即通过
	matchAnyToken matchKind = iota
	// matchFullPhrase 期望值整体短语出现才通过
	matchFullPhrase
	// matchPhraseOrGeneric 整体短语或通用标记词出现即通过
	matchPhraseOrGeneric
)

// attributeRule 单属性校验规则
type attributeRule struct {
	kind    matchKind
	generic string
	soft    bool
	note    string
}

// attributeRules 属性校验规则表。
// 取值宽松程度按属性语义区分：发色发型按词元匹配，
// 族裔要求整体短语，肤色与默认着装接受通用提法。
var attributeRules = map[string]attributeRule{
	entity.AttrHair:      {kind: matchAnyToken},
	entity.AttrEthnicity: {kind: matchFullPhrase},
	entity.AttrSkinTone:  {kind: matchPhraseOrGeneric, generic: "skin tone"},
	entity.AttrEyes:      {kind: matchAnyToken},
	entity.AttrDefaultClothing: {
		kind:    matchPhraseOrGeneric,
		generic: "wearing",
		soft:    true,
		note:    "brief can override",
	},
	entity.AttrAge: {kind: matchAnyToken},
}

// tokenStopwords 词元匹配时忽略的虚词
var tokenStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "to": true, "with": true,
	"their": true, "her": true, "his": true,
}

// Validator 角色一致性校验器
type Validator struct{}

// NewValidator 创建一致性校验器
func NewValidator() *Validator {
	return &Validator{}
}

// Validate 校验提示词对给定角色集的视觉一致性。
// 无可校验属性时为空真：满分且无违规。
func (v *Validator) Validate(prompt string, characters []*entity.Character) *Report {
	lowered := strings.ToLower(prompt)

	total := 0
	preserved := 0
	var violations []Violation

	for _, ch := range characters {
		if ch == nil || !ch.HasFingerprint() {
			continue
		}
		for _, attr := range ch.VisualFingerprint.Attributes() {
			rule, ok := attributeRules[attr.Name]
			if !ok {
				continue
			}
			total++
			if matchAttribute(lowered, attr.Value, rule) {
				preserved++
				continue
			}
			violations = append(violations, newViolation(ch.Name, attr, rule))
			metrics.ConsistencyViolationsTotal.WithLabelValues(attr.Name).Inc()
		}
	}

	score := 100
	if total > 0 {
		score = int(math.Round(100 * float64(preserved) / float64(total)))
	}
	tier := tierForScore(score)
	metrics.ConsistencyScore.WithLabelValues(string(tier)).Observe(float64(score))

	if violations == nil {
		violations = []Violation{}
	}
	return &Report{
		Valid:        len(violations) == 0,
		QualityScore: score,
		Tier:         tier,
		Assessment:   assessment(tier),
		Violations:   violations,
		Details: ReportDetails{
			TotalAttributes:     total,
			PreservedAttributes: preserved,
			ViolatedAttributes:  total - preserved,
		},
	}
}

// matchAttribute 按规则检查属性值是否保留在提示词中，全程忽略大小写
func matchAttribute(loweredPrompt, expected string, rule attributeRule) bool {
	value := strings.ToLower(strings.TrimSpace(expected))
	if value == "" {
		return true
	}
	switch rule.kind {
	case matchFullPhrase:
		return strings.Contains(loweredPrompt, value)
	case matchPhraseOrGeneric:
		return strings.Contains(loweredPrompt, value) ||
			strings.Contains(loweredPrompt, rule.generic)
	default:
		return anyTokenMatch(loweredPrompt, value)
	}
}

// anyTokenMatch 期望值的任一非虚词词元出现即视为保留
func anyTokenMatch(loweredPrompt, value string) bool {
	for _, token := range strings.Fields(value) {
		token = strings.Trim(token, ",.;:()")
		if token == "" || tokenStopwords[token] {
			continue
		}
		if strings.Contains(loweredPrompt, token) {
			return true
		}
	}
	return false
}

func newViolation(name string, attr entity.VisualAttribute, rule attributeRule) Violation {
	issue := fmt.Sprintf("locked %s %q is not reflected in the prompt", attr.Name, attr.Value)
	if rule.note != "" {
		issue = fmt.Sprintf("%s (%s)", issue, rule.note)
	}
	return Violation{
		CharacterName: name,
		Attribute:     attr.Name,
		Expected:      attr.Value,
		Issue:         issue,
		Soft:          rule.soft,
	}
}

// tierForScore 分数映射到档位，阈值为 90/75/60
func tierForScore(score int) QualityTier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 75:
		return TierGood
	case score >= 60:
		return TierFair
	default:
		return TierPoor
	}
}

// assessment 每个档位的固定文案
func assessment(tier QualityTier) string {
	switch tier {
	case TierExcellent:
		return "Excellent character consistency. The prompt preserves the locked visual identity."
	case TierGood:
		return "Good consistency. Most locked attributes are preserved, review the noted gaps."
	case TierFair:
		return "Fair consistency. Several locked attributes are missing, consider regenerating."
	default:
		return "Poor consistency. The prompt has drifted from the locked character descriptions."
	}
}
