package roundtable

import (
	"strings"
	"testing"

	"scenra/internal/domain/entity"
	apperrors "scenra/pkg/errors"
)

// TestAggregateRequiresBrief 验证缺失简报时聚合失败。
// 场景：brief 为空白串，应返回参数错误且不产生请求。
func TestAggregateRequiresBrief(t *testing.T) {
	_, err := Aggregate(RawInputs{Brief: "   ", Platform: "tiktok"})
	if err == nil {
		t.Fatalf("expected error for empty brief")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidParam {
		t.Fatalf("expected invalid param code, got %v", err)
	}
}

// TestAggregateNormalizesPlatform 验证平台解析忽略大小写与首尾空白。
// 场景：平台写作 " YouTube "，聚合后应为规范小写值。
func TestAggregateNormalizesPlatform(t *testing.T) {
	req, err := Aggregate(RawInputs{Brief: "a chase scene", Platform: " YouTube "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Platform != entity.PlatformYouTube {
		t.Fatalf("expected youtube, got %s", req.Platform)
	}
}

// TestAggregateRejectsUnknownPlatform 验证未知平台被拒绝。
// 场景：平台为 vimeo，应返回参数错误并在消息中回显原始输入。
func TestAggregateRejectsUnknownPlatform(t *testing.T) {
	_, err := Aggregate(RawInputs{Brief: "a chase scene", Platform: "vimeo"})
	if err == nil {
		t.Fatalf("expected error for unknown platform")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidParam {
		t.Fatalf("expected invalid param code, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "vimeo") {
		t.Fatalf("message should echo the input, got %q", appErr.Message)
	}
}

// TestAggregateMergesSoraSettings 验证请求覆盖优先于系列设定。
// 场景：系列设定镜头与灯光，请求只覆盖灯光，合并结果保留系列镜头、采用请求灯光。
func TestAggregateMergesSoraSettings(t *testing.T) {
	series := &entity.Series{
		ID:       "series-1",
		Platform: entity.PlatformTikTok,
		SoraSettings: &entity.SoraStyleSettings{
			CameraStyle:  "handheld",
			LightingMood: "golden hour",
		},
	}
	override := &entity.SoraStyleSettings{LightingMood: "neon night"}

	req, err := Aggregate(RawInputs{
		Brief:        "a rooftop standoff",
		Platform:     "tiktok",
		Series:       series,
		SoraOverride: override,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SeriesID != "series-1" {
		t.Fatalf("expected series id carried over, got %q", req.SeriesID)
	}
	if req.SoraSettings.CameraStyle != "handheld" {
		t.Fatalf("base camera style should survive, got %q", req.SoraSettings.CameraStyle)
	}
	if req.SoraSettings.LightingMood != "neon night" {
		t.Fatalf("override lighting should win, got %q", req.SoraSettings.LightingMood)
	}
	// 原系列设定不可被合并修改
	if series.SoraSettings.LightingMood != "golden hour" {
		t.Fatalf("merge must not mutate the series settings")
	}
}

// TestAggregateOverrideWithoutSeries 验证无系列时请求覆盖直接生效。
// 场景：只有请求级风格覆盖，聚合结果应原样采用。
func TestAggregateOverrideWithoutSeries(t *testing.T) {
	override := &entity.SoraStyleSettings{OverallTone: "melancholic"}

	req, err := Aggregate(RawInputs{Brief: "an empty diner", Platform: "instagram", SoraOverride: override})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SoraSettings == nil || req.SoraSettings.OverallTone != "melancholic" {
		t.Fatalf("expected override settings, got %+v", req.SoraSettings)
	}
}

// TestAggregateBuildsCharacterContext 验证角色上下文包含锁定指令。
// 场景：两个角色参与生成，上下文应包含每个角色的描述块与 LOCKED 指令。
func TestAggregateBuildsCharacterContext(t *testing.T) {
	maya := entity.NewCharacter("series-1", "Maya")
	maya.VisualFingerprint = &entity.VisualFingerprint{Hair: "black bob"}
	rex := entity.NewCharacter("series-1", "Rex")
	rex.SoraPromptTemplate = "Rex, a retired boxer with a crooked nose."

	req, err := Aggregate(RawInputs{
		Brief:      "two old friends argue over coffee",
		Platform:   "tiktok",
		Characters: []*entity.Character{maya, rex},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := req.CharacterContext
	if !strings.Contains(ctx, "CHARACTERS IN THIS VIDEO:") {
		t.Fatalf("missing header: %q", ctx)
	}
	if !strings.Contains(ctx, "hair: black bob") || !strings.Contains(ctx, "crooked nose") {
		t.Fatalf("missing character blocks: %q", ctx)
	}
	const lockInstruction = "The character descriptions above are LOCKED. " +
		"Use them exactly as provided for consistency across videos."
	if !strings.Contains(ctx, lockInstruction) {
		t.Fatalf("missing lock instruction: %q", ctx)
	}
}

// TestAggregateScreenplayNarrowsToScene 验证指定场景号时只包含该场景。
// 场景：剧集有两个场景，请求场景 2，上下文只含场景 2 的内容。
func TestAggregateScreenplayNarrowsToScene(t *testing.T) {
	ep := &entity.Episode{
		ID:     "ep-1",
		Number: 3,
		Title:  "The Drop",
		Scenes: []entity.ScreenplayScene{
			{Number: 1, Location: "rooftop", Description: "a tense wait"},
			{Number: 2, Location: "alley", TimeOfDay: "night", Description: "the handoff"},
		},
	}

	req, err := Aggregate(RawInputs{
		Brief:       "the handoff goes wrong",
		Platform:    "tiktok",
		Episode:     ep,
		SceneNumber: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := req.ScreenplayContext
	if req.EpisodeID != "ep-1" {
		t.Fatalf("expected episode id carried over, got %q", req.EpisodeID)
	}
	if !strings.Contains(ctx, "SCENE 2: alley / night") {
		t.Fatalf("missing requested scene: %q", ctx)
	}
	if strings.Contains(ctx, "rooftop") {
		t.Fatalf("other scenes should be excluded: %q", ctx)
	}
}

// TestAggregateScreenplayUnknownSceneKeepsAll 验证场景号未命中时包含全部场景。
// 场景：请求的场景号不存在，上下文退化为整集剧本。
func TestAggregateScreenplayUnknownSceneKeepsAll(t *testing.T) {
	ep := &entity.Episode{
		ID:     "ep-1",
		Number: 3,
		Title:  "The Drop",
		Scenes: []entity.ScreenplayScene{
			{Number: 1, Location: "rooftop"},
			{Number: 2, Location: "alley"},
		},
	}

	req, err := Aggregate(RawInputs{
		Brief:       "the handoff goes wrong",
		Platform:    "tiktok",
		Episode:     ep,
		SceneNumber: 9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(req.ScreenplayContext, "rooftop") || !strings.Contains(req.ScreenplayContext, "alley") {
		t.Fatalf("expected all scenes, got %q", req.ScreenplayContext)
	}
}

// TestStyleBlockRendersSettingsAndTemplate 验证风格区块渲染设定与模板键值。
// 场景：请求同时携带风格设定与视觉模板，区块按字段行渲染且模板键有序。
func TestStyleBlockRendersSettingsAndTemplate(t *testing.T) {
	req := &GenerationRequest{
		SoraSettings: &entity.SoraStyleSettings{CameraStyle: "locked-off wide"},
		VisualTemplate: map[string]string{
			"film_stock": "16mm",
			"aspect":     "9:16",
		},
	}

	block := styleBlock(req)

	if !strings.HasPrefix(block, "SERIES STYLE:") {
		t.Fatalf("missing header: %q", block)
	}
	if !strings.Contains(block, "Camera style: locked-off wide") {
		t.Fatalf("missing camera line: %q", block)
	}
	// 模板键按字典序渲染
	aspectIdx := strings.Index(block, "aspect: 9:16")
	stockIdx := strings.Index(block, "film_stock: 16mm")
	if aspectIdx < 0 || stockIdx < 0 || aspectIdx > stockIdx {
		t.Fatalf("template keys should be sorted, got %q", block)
	}
}

// TestAssetsBlockSkipsUnknownRelationshipEnds 验证关系两端缺失角色时跳过该行。
// 场景：一条关系引用未加载的角色，区块只渲染可解析的设定与资产。
func TestAssetsBlockSkipsUnknownRelationshipEnds(t *testing.T) {
	maya := entity.NewCharacter("s1", "Maya")
	maya.ID = "c1"
	req := &GenerationRequest{
		Characters: []*entity.Character{maya},
		Settings:   []*entity.Setting{{Name: "Diner", Description: "a chrome diner off route 9"}},
		Relationships: []*entity.CharacterRelationship{
			{CharacterAID: "c1", CharacterBID: "missing", RelationshipType: "rivals"},
		},
	}

	block := assetsBlock(req)

	if !strings.Contains(block, "Setting Diner") {
		t.Fatalf("missing setting line: %q", block)
	}
	if strings.Contains(block, "rivals") {
		t.Fatalf("unresolvable relationship should be skipped: %q", block)
	}
}
