package roundtable

import (
	"testing"

	apperrors "scenra/pkg/errors"
)

// TestExtractJSONObjectStripsFences 验证 JSON 截取容忍代码围栏与前后杂文。
// 场景：模型输出在 JSON 前后夹杂说明文字与 markdown 围栏，截取结果应为纯 JSON。
func TestExtractJSONObjectStripsFences(t *testing.T) {
	text := "Here is the plan:\n```json\n{\"optimized_prompt\": \"a quiet street\"}\n```\nHope this helps!"

	got := extractJSONObject(text)

	if got != `{"optimized_prompt": "a quiet street"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

// TestExtractJSONObjectPassThrough 验证无 JSON 时原样返回。
// 场景：输出为纯文本，截取不应改变内容。
func TestExtractJSONObjectPassThrough(t *testing.T) {
	text := "I think we should open on a wide shot."
	if got := extractJSONObject(text); got != text {
		t.Fatalf("plain text should pass through, got %q", got)
	}
}

// TestParseSynthesisFillsEmptySlices 验证缺失的列表字段归一为空切片。
// 场景：合成输出只有提示词，hashtags 与 suggested_shots 应为非 nil 空切片。
func TestParseSynthesisFillsEmptySlices(t *testing.T) {
	result, err := parseSynthesis(`{"optimized_prompt": "a lone runner at dawn"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OptimizedPrompt != "a lone runner at dawn" {
		t.Fatalf("unexpected prompt: %q", result.OptimizedPrompt)
	}
	if result.Hashtags == nil || len(result.Hashtags) != 0 {
		t.Fatalf("expected empty hashtags slice, got %v", result.Hashtags)
	}
	if result.SuggestedShots == nil || len(result.SuggestedShots) != 0 {
		t.Fatalf("expected empty shots slice, got %v", result.SuggestedShots)
	}
}

// TestParseSynthesisRejectsGarbage 验证非 JSON 输出为硬错误。
// 场景：合成输出无法解析，应返回合成格式错误码。
func TestParseSynthesisRejectsGarbage(t *testing.T) {
	_, err := parseSynthesis("sorry, I could not produce a prompt today")
	if err == nil {
		t.Fatalf("expected error for non-JSON output")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeSynthesisMalformed {
		t.Fatalf("expected synthesis malformed code, got %v", err)
	}
}

// TestParseSynthesisRequiresPrompt 验证缺失提示词为硬错误。
// 场景：JSON 合法但 optimized_prompt 为空，应返回合成格式错误码。
func TestParseSynthesisRequiresPrompt(t *testing.T) {
	_, err := parseSynthesis(`{"optimized_prompt": "  ", "hashtags": ["#x"]}`)
	if err == nil {
		t.Fatalf("expected error for missing prompt")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeSynthesisMalformed {
		t.Fatalf("expected synthesis malformed code, got %v", err)
	}
}

// TestParseRound2TurnStructured 验证第二轮结构化输出的解析。
// 场景：输出为合法 JSON，回应文本与引用字段均被解析。
func TestParseRound2TurnStructured(t *testing.T) {
	text := `{"response": "I agree with the wide open", "responding_to": "director", "is_challenge": true, "building_on": ["editor"]}`

	turn := parseRound2Turn(PersonaColorist, text)

	if turn.Response != "I agree with the wide open" {
		t.Fatalf("unexpected response: %q", turn.Response)
	}
	if turn.RespondingTo != PersonaDirector {
		t.Fatalf("expected responding_to director, got %q", turn.RespondingTo)
	}
	if !turn.IsChallenge {
		t.Fatalf("expected challenge flag")
	}
	if len(turn.BuildingOn) != 1 || turn.BuildingOn[0] != PersonaEditor {
		t.Fatalf("unexpected building_on: %v", turn.BuildingOn)
	}
}

// TestParseRound2TurnPlainTextFallback 验证非 JSON 输出退化为纯文本。
// 场景：输出是普通段落，整段成为回应文本且无引用字段。
func TestParseRound2TurnPlainTextFallback(t *testing.T) {
	turn := parseRound2Turn(PersonaEditor, "  Cut the drone shot, it slows the open.  ")

	if turn.Response != "Cut the drone shot, it slows the open." {
		t.Fatalf("unexpected response: %q", turn.Response)
	}
	if turn.RespondingTo != "" || turn.IsChallenge || turn.BuildingOn != nil {
		t.Fatalf("fallback turn should carry no references: %+v", turn)
	}
}

// TestParseRound2TurnDropsInvalidReferences 验证指向自身或未知人格的引用被丢弃。
// 场景：responding_to 指向自己，building_on 含未知名字，两者均应被过滤。
func TestParseRound2TurnDropsInvalidReferences(t *testing.T) {
	text := `{"response": "holding my position", "responding_to": "director", "building_on": ["producer", "colorist"]}`

	turn := parseRound2Turn(PersonaDirector, text)

	if turn.RespondingTo != "" {
		t.Fatalf("self reference should be dropped, got %q", turn.RespondingTo)
	}
	if len(turn.BuildingOn) != 1 || turn.BuildingOn[0] != PersonaColorist {
		t.Fatalf("unknown references should be filtered, got %v", turn.BuildingOn)
	}
}
