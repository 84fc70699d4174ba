package roundtable

import (
	"fmt"
	"sort"
	"strings"

	apperrors "scenra/pkg/errors"

	"scenra/internal/domain/entity"
)

// RawInputs 聚合前的原始生成输入，由各仓储查询结果组装
type RawInputs struct {
	UserID   string
	Brief    string
	Platform string

	Series        *entity.Series
	Characters    []*entity.Character
	Settings      []*entity.Setting
	VisualAssets  []*entity.VisualAsset
	Relationships []*entity.CharacterRelationship

	Episode     *entity.Episode
	SceneNumber int

	// SoraOverride 请求级风格覆盖，非空字段覆盖系列设定
	SoraOverride *entity.SoraStyleSettings
}

// Aggregate 校验原始输入并聚合为不可变的生成请求。
// brief 与 platform 为必填，其余上下文缺失时对应区块为空。
func Aggregate(in RawInputs) (*GenerationRequest, error) {
	brief := strings.TrimSpace(in.Brief)
	if brief == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "brief is required")
	}
	platform := entity.Platform(strings.ToLower(strings.TrimSpace(in.Platform)))
	if !platform.IsValid() {
		return nil, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("unsupported platform: %s", in.Platform))
	}

	req := &GenerationRequest{
		Brief:         brief,
		Platform:      platform,
		UserID:        in.UserID,
		Characters:    in.Characters,
		Settings:      in.Settings,
		VisualAssets:  in.VisualAssets,
		Relationships: in.Relationships,
	}

	if in.Series != nil {
		req.SeriesID = in.Series.ID
		req.VisualTemplate = in.Series.VisualTemplate
		req.SoraSettings = mergeSoraSettings(in.Series.SoraSettings, in.SoraOverride)
	} else if in.SoraOverride != nil {
		req.SoraSettings = in.SoraOverride
	}

	req.CharacterContext = buildCharacterContext(in.Characters)
	if in.Episode != nil {
		req.EpisodeID = in.Episode.ID
		req.ScreenplayContext = buildScreenplayContext(in.Episode, in.SceneNumber)
	}
	return req, nil
}

// mergeSoraSettings 逐字段合并风格设定，请求覆盖优先
func mergeSoraSettings(base, override *entity.SoraStyleSettings) *entity.SoraStyleSettings {
	return base.Merge(override)
}

// buildCharacterContext 拼装角色锁定上下文。
// 每个角色一个描述块，块之间空行分隔，末尾附锁定指令。
func buildCharacterContext(chars []*entity.Character) string {
	if len(chars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CHARACTERS IN THIS VIDEO:\n")
	for _, ch := range chars {
		b.WriteString("\n")
		b.WriteString(ResolveCharacterBlock(ch).Block)
		b.WriteString("\n")
	}
	b.WriteString("\nThe character descriptions above are LOCKED. ")
	b.WriteString("Use them exactly as provided for consistency across videos.")
	return b.String()
}

// buildScreenplayContext 拼装剧本场景上下文。
// sceneNumber 大于 0 且命中时仅包含该场景，否则包含全部场景。
func buildScreenplayContext(ep *entity.Episode, sceneNumber int) string {
	scenes := ep.Scenes
	if sceneNumber > 0 {
		if sc := ep.SceneByNumber(sceneNumber); sc != nil {
			scenes = []entity.ScreenplayScene{*sc}
		}
	}
	if len(scenes) == 0 && ep.Synopsis == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("EPISODE SCREENPLAY CONTEXT\n")
	fmt.Fprintf(&b, "Episode %d: %s\n", ep.Number, ep.Title)
	if ep.Synopsis != "" {
		fmt.Fprintf(&b, "Synopsis: %s\n", ep.Synopsis)
	}
	for _, sc := range scenes {
		b.WriteString("\n")
		fmt.Fprintf(&b, "SCENE %d: %s", sc.Number, sc.Location)
		if sc.TimeOfDay != "" {
			fmt.Fprintf(&b, " / %s", sc.TimeOfDay)
		}
		b.WriteString("\n")
		if sc.TimePeriod != "" {
			fmt.Fprintf(&b, "Time period: %s\n", sc.TimePeriod)
		}
		if sc.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", sc.Description)
		}
		if len(sc.Characters) > 0 {
			fmt.Fprintf(&b, "Characters: %s\n", strings.Join(sc.Characters, ", "))
		}
		if len(sc.ActionBeats) > 0 {
			b.WriteString("Action beats:\n")
			for _, beat := range sc.ActionBeats {
				fmt.Fprintf(&b, "- %s\n", beat)
			}
		}
		if len(sc.Dialogue) > 0 {
			b.WriteString("Dialogue:\n")
			for _, d := range sc.Dialogue {
				fmt.Fprintf(&b, "%s: %s\n", d.Character, d.Line)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// styleBlock 将风格设定与风格模板渲染为讨论上下文片段
func styleBlock(req *GenerationRequest) string {
	var lines []string
	if s := req.SoraSettings; s != nil {
		if s.CameraStyle != "" {
			lines = append(lines, "Camera style: "+s.CameraStyle)
		}
		if s.LightingMood != "" {
			lines = append(lines, "Lighting mood: "+s.LightingMood)
		}
		if s.ColorPalette != "" {
			lines = append(lines, "Color palette: "+s.ColorPalette)
		}
		if s.OverallTone != "" {
			lines = append(lines, "Overall tone: "+s.OverallTone)
		}
		if s.NarrativePrefix != "" {
			lines = append(lines, "Narrative prefix: "+s.NarrativePrefix)
		}
	}
	for _, key := range sortedKeys(req.VisualTemplate) {
		lines = append(lines, fmt.Sprintf("%s: %s", key, req.VisualTemplate[key]))
	}
	if len(lines) == 0 {
		return ""
	}
	return "SERIES STYLE:\n" + strings.Join(lines, "\n")
}

// assetsBlock 将场景设定与视觉资产渲染为讨论上下文片段
func assetsBlock(req *GenerationRequest) string {
	var lines []string
	for _, s := range req.Settings {
		lines = append(lines, fmt.Sprintf("Setting %s: %s", s.Name, s.Description))
	}
	for _, a := range req.VisualAssets {
		lines = append(lines, fmt.Sprintf("Asset %s (%s): %s", a.Name, a.AssetType, a.Description))
	}
	if len(req.Relationships) > 0 {
		names := make(map[string]string, len(req.Characters))
		for _, ch := range req.Characters {
			names[ch.ID] = ch.Name
		}
		for _, r := range req.Relationships {
			a, b := names[r.CharacterAID], names[r.CharacterBID]
			if a == "" || b == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("Relationship: %s and %s are %s", a, b, r.RelationshipType))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "WORLD CONTEXT:\n" + strings.Join(lines, "\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
