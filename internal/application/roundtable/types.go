// Package roundtable 实现五人格两轮圆桌的提示词生成流程
package roundtable

import (
	"scenra/internal/domain/entity"
)

// Persona 圆桌人格
type Persona string

const (
	PersonaDirector        Persona = "director"
	PersonaCinematographer Persona = "cinematographer"
	PersonaEditor          Persona = "editor"
	PersonaColorist        Persona = "colorist"
	PersonaPlatformExpert  Persona = "platform_expert"
)

// Personas 按固定顺序返回全部人格。
// 该顺序即讨论记录的输出顺序，与调用完成顺序无关。
func Personas() []Persona {
	return []Persona{
		PersonaDirector,
		PersonaCinematographer,
		PersonaEditor,
		PersonaColorist,
		PersonaPlatformExpert,
	}
}

// GenerationRequest 一次生成运行的全部输入。
// 由 Aggregate 构建，运行期间不可变。
type GenerationRequest struct {
	Brief    string          `json:"brief"`
	Platform entity.Platform `json:"platform"`
	UserID   string          `json:"user_id"`

	SeriesID  string `json:"series_id,omitempty"`
	EpisodeID string `json:"episode_id,omitempty"`

	// SoraSettings 系列设定与请求覆盖合并后的风格设定
	SoraSettings *entity.SoraStyleSettings `json:"sora_settings,omitempty"`

	// VisualTemplate 不透明风格模板，原样进入上下文
	VisualTemplate map[string]string `json:"visual_template,omitempty"`

	Characters    []*entity.Character             `json:"characters,omitempty"`
	Settings      []*entity.Setting               `json:"settings,omitempty"`
	VisualAssets  []*entity.VisualAsset           `json:"visual_assets,omitempty"`
	Relationships []*entity.CharacterRelationship `json:"relationships,omitempty"`

	// CharacterContext 角色锁定块拼装结果（可为空）
	CharacterContext string `json:"character_context,omitempty"`
	// ScreenplayContext 剧本场景上下文（可为空）
	ScreenplayContext string `json:"screenplay_context,omitempty"`
}

// DiscussionTurn 讨论记录中的一次发言
type DiscussionTurn struct {
	Agent    Persona `json:"agent"`
	Response string  `json:"response"`

	// RespondingTo 仅第二轮使用：被回应的人格
	RespondingTo Persona `json:"responding_to,omitempty"`
	// IsChallenge 是否对 RespondingTo 的立场提出质疑
	IsChallenge bool `json:"is_challenge,omitempty"`
	// BuildingOn 采纳立场的人格集合
	BuildingOn []Persona `json:"building_on,omitempty"`
}

// Discussion 两轮讨论全文，顺序即生成顺序
type Discussion struct {
	Round1 []DiscussionTurn `json:"round1"`
	Round2 []DiscussionTurn `json:"round2"`
}

// Breakdown 合成阶段产出的结构化技术拆解
type Breakdown struct {
	Format      string `json:"format,omitempty"`
	Lens        string `json:"lens,omitempty"`
	Grade       string `json:"grade,omitempty"`
	Lighting    string `json:"lighting,omitempty"`
	Location    string `json:"location,omitempty"`
	Wardrobe    string `json:"wardrobe,omitempty"`
	Sound       string `json:"sound,omitempty"`
	ShotList    string `json:"shot_list,omitempty"`
	CameraNotes string `json:"camera_notes,omitempty"`
	Finishing   string `json:"finishing,omitempty"`
}

// Shot 建议分镜
type Shot struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// GenerationResult 一次生成运行的最终产出，返回后不可变
type GenerationResult struct {
	OptimizedPrompt string `json:"optimized_prompt"`
	// CharacterCount 最终提示词的字符数
	CharacterCount    int        `json:"character_count"`
	DetailedBreakdown Breakdown  `json:"detailed_breakdown"`
	Hashtags          []string   `json:"hashtags"`
	SuggestedShots    []Shot     `json:"suggested_shots"`
	Discussion        Discussion `json:"discussion"`
}
