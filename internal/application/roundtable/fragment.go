package roundtable

import (
	"fmt"
	"strings"

	"scenra/internal/domain/entity"
)

// 角色锁定块的来源
const (
	BlockSourceTemplate    = "template"
	BlockSourceFingerprint = "fingerprint"
	BlockSourceName        = "name"
)

// BlockResolution 单个角色锁定块的解析结果
type BlockResolution struct {
	Source string
	Block  string
}

// attributeLabels 视觉指纹属性在锁定块中的展示名
var attributeLabels = map[string]string{
	entity.AttrHair:            "hair",
	entity.AttrEthnicity:       "ethnicity",
	entity.AttrSkinTone:        "skin tone",
	entity.AttrEyes:            "eyes",
	entity.AttrDefaultClothing: "wearing",
	entity.AttrAge:             "age",
}

// ResolveCharacterBlock 解析角色的锁定描述块。
// 优先使用角色自带模板，其次由视觉指纹生成，两者皆无时退化为角色名。
func ResolveCharacterBlock(ch *entity.Character) BlockResolution {
	if tpl := strings.TrimSpace(ch.SoraPromptTemplate); tpl != "" {
		return BlockResolution{Source: BlockSourceTemplate, Block: tpl}
	}
	if ch.HasFingerprint() {
		return BlockResolution{Source: BlockSourceFingerprint, Block: FingerprintBlock(ch)}
	}
	return BlockResolution{Source: BlockSourceName, Block: ch.Name}
}

// FingerprintBlock 由视觉指纹生成确定性的角色描述段落。
// 属性按固定顺序枚举，缺失的属性不出现。
func FingerprintBlock(ch *entity.Character) string {
	attrs := ch.VisualFingerprint.Attributes()
	if len(attrs) == 0 {
		return ch.Name
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, fmt.Sprintf("%s: %s", attributeLabels[a.Name], a.Value))
	}
	return fmt.Sprintf("%s: %s.", ch.Name, strings.Join(parts, "; "))
}
