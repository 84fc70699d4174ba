// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// ConsistencyPriority 角色一致性优先级
type ConsistencyPriority string

const (
	PriorityHigh   ConsistencyPriority = "high"
	PriorityMedium ConsistencyPriority = "medium"
	PriorityLow    ConsistencyPriority = "low"
)

// 视觉指纹属性名
const (
	AttrHair            = "hair"
	AttrEthnicity       = "ethnicity"
	AttrSkinTone        = "skin_tone"
	AttrEyes            = "eyes"
	AttrDefaultClothing = "default_clothing"
	AttrAge             = "age"
)

// VisualFingerprint 角色的锁定视觉属性。
// 字段为空字符串表示该属性未设置；整个指纹可为 nil（角色无视觉约束）。
type VisualFingerprint struct {
	Hair            string `json:"hair,omitempty"`
	Ethnicity       string `json:"ethnicity,omitempty"`
	SkinTone        string `json:"skin_tone,omitempty"`
	Eyes            string `json:"eyes,omitempty"`
	DefaultClothing string `json:"default_clothing,omitempty"`
	Age             string `json:"age,omitempty"`
}

// VisualAttribute 指纹中的单个属性
type VisualAttribute struct {
	Name  string
	Value string
}

// Attributes 按固定顺序返回已设置的属性。
// 顺序决定了角色锁定块和校验报告中的属性顺序。
func (f *VisualFingerprint) Attributes() []VisualAttribute {
	if f == nil {
		return nil
	}
	all := []VisualAttribute{
		{AttrHair, f.Hair},
		{AttrEthnicity, f.Ethnicity},
		{AttrSkinTone, f.SkinTone},
		{AttrEyes, f.Eyes},
		{AttrDefaultClothing, f.DefaultClothing},
		{AttrAge, f.Age},
	}
	present := make([]VisualAttribute, 0, len(all))
	for _, a := range all {
		if strings.TrimSpace(a.Value) != "" {
			present = append(present, a)
		}
	}
	return present
}

// IsEmpty 指纹是否没有任何已设置属性
func (f *VisualFingerprint) IsEmpty() bool {
	return len(f.Attributes()) == 0
}

// Character 系列角色
type Character struct {
	ID       string `json:"id" gorm:"type:varchar(36);primaryKey"`
	SeriesID string `json:"series_id" gorm:"type:varchar(36);not null;index"`
	Name     string `json:"name" gorm:"type:varchar(255);not null"`

	Description string `json:"description,omitempty" gorm:"type:text"`

	// VisualFingerprint 锁定视觉属性，nil 表示角色不参与一致性校验
	VisualFingerprint *VisualFingerprint `json:"visual_fingerprint,omitempty" gorm:"type:jsonb;serializer:json"`

	ConsistencyPriority ConsistencyPriority `json:"consistency_priority" gorm:"type:varchar(16);default:medium"`

	// SoraPromptTemplate 预先撰写的角色描述块；设置后优先于指纹生成的块
	SoraPromptTemplate string `json:"sora_prompt_template,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCharacter 创建新角色
func NewCharacter(seriesID, name string) *Character {
	now := time.Now()
	return &Character{
		SeriesID:            seriesID,
		Name:                name,
		ConsistencyPriority: PriorityMedium,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// HasFingerprint 角色是否携带非空视觉指纹
func (c *Character) HasFingerprint() bool {
	return c != nil && c.VisualFingerprint != nil && !c.VisualFingerprint.IsEmpty()
}
