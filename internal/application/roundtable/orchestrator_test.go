package roundtable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"scenra/internal/config"
	llmctx "scenra/internal/domain/service"
	workflowprompt "scenra/internal/workflow/prompt"
	apperrors "scenra/pkg/errors"
)

// scriptedModel 按脚本回应的对话模型桩
type scriptedModel struct {
	respond func(ctx context.Context, system string) (string, error)
}

func (m *scriptedModel) Generate(ctx context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	system := ""
	if len(in) > 0 {
		system = in[0].Content
	}
	text, err := m.respond(ctx, system)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: text}, nil
}

func (m *scriptedModel) Stream(ctx context.Context, in []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in tests")
}

// scriptedFactory 始终返回同一个脚本模型的工厂桩
type scriptedFactory struct {
	model model.BaseChatModel
}

func (f *scriptedFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f.model, nil
}

// personaFromSystem 从系统提示词首行识别人格
func personaFromSystem(system string) Persona {
	for _, p := range Personas() {
		marker := "You are the " + strings.ToUpper(strings.ReplaceAll(string(p), "_", " "))
		if strings.HasPrefix(system, marker) {
			return p
		}
	}
	return ""
}

const testSynthesisJSON = `{
  "optimized_prompt": "A lone runner crosses a rain-soaked bridge at dawn, camera low and tracking.",
  "detailed_breakdown": {"format": "9:16 vertical", "lens": "35mm", "grade": "teal-orange"},
  "hashtags": ["#running", "#dawn"],
  "suggested_shots": [{"id": 1, "description": "low tracking shot along the railing", "duration": "3s"}]
}`

// happyResponder 返回完整两轮加合成的脚本回应。
// 第一轮为 director 注入延迟，使完成顺序与人格顺序不同。
func happyResponder() func(ctx context.Context, system string) (string, error) {
	return func(ctx context.Context, system string) (string, error) {
		p := personaFromSystem(system)
		switch llmctx.WorkflowFromContext(ctx) {
		case "roundtable_round1":
			if p == PersonaDirector {
				time.Sleep(30 * time.Millisecond)
			}
			return "round one take from " + string(p), nil
		case "roundtable_round2":
			return fmt.Sprintf(`{"response": "round two from %s", "responding_to": "director", "building_on": ["editor"]}`, p), nil
		case "roundtable_synthesis":
			return testSynthesisJSON, nil
		}
		return "", fmt.Errorf("unexpected workflow for system prompt %q", system)
	}
}

func newTestOrchestrator(respond func(ctx context.Context, system string) (string, error)) *Orchestrator {
	factory := &scriptedFactory{model: &scriptedModel{respond: respond}}
	cfg := config.RoundtableConfig{
		OptimalPromptChars: 500,
		MaxPromptChars:     700,
		Round1Concurrency:  5,
	}
	return NewOrchestrator(factory, workflowprompt.NewRegistry(), cfg, "openai")
}

// TestOrchestratorRunFullDiscussion 验证完整流程的讨论记录与最终产出。
// 场景：五个人格两轮讨论后合成成功；第一轮即使完成顺序被打乱，
// 讨论记录仍按固定人格顺序排列，最终字符数等于提示词长度。
func TestOrchestratorRunFullDiscussion(t *testing.T) {
	o := newTestOrchestrator(happyResponder())

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok", UserID: "u1"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	result, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	personas := Personas()
	if len(result.Discussion.Round1) != len(personas) {
		t.Fatalf("expected %d round one turns, got %d", len(personas), len(result.Discussion.Round1))
	}
	for i, p := range personas {
		turn := result.Discussion.Round1[i]
		if turn.Agent != p {
			t.Fatalf("round one position %d: expected %s, got %s", i, p, turn.Agent)
		}
		if turn.Response != "round one take from "+string(p) {
			t.Fatalf("round one %s: unexpected response %q", p, turn.Response)
		}
	}

	if len(result.Discussion.Round2) != len(personas) {
		t.Fatalf("expected %d round two turns, got %d", len(personas), len(result.Discussion.Round2))
	}
	for i, p := range personas {
		turn := result.Discussion.Round2[i]
		if turn.Agent != p {
			t.Fatalf("round two position %d: expected %s, got %s", i, p, turn.Agent)
		}
		if p == PersonaDirector {
			// 指向自身的引用被丢弃
			if turn.RespondingTo != "" {
				t.Fatalf("director self reference should be dropped, got %q", turn.RespondingTo)
			}
		} else if turn.RespondingTo != PersonaDirector {
			t.Fatalf("round two %s: expected responding_to director, got %q", p, turn.RespondingTo)
		}
	}

	if result.OptimizedPrompt == "" {
		t.Fatalf("expected optimized prompt")
	}
	if result.CharacterCount != len(result.OptimizedPrompt) {
		t.Fatalf("character count %d does not match prompt length %d", result.CharacterCount, len(result.OptimizedPrompt))
	}
	if result.DetailedBreakdown.Lens != "35mm" {
		t.Fatalf("unexpected breakdown: %+v", result.DetailedBreakdown)
	}
	if len(result.Hashtags) != 2 || len(result.SuggestedShots) != 1 {
		t.Fatalf("unexpected extras: %v / %v", result.Hashtags, result.SuggestedShots)
	}
}

// TestOrchestratorAbortsOnRound1Failure 验证第一轮任一人格失败即整体中止。
// 场景：colorist 调用失败，运行应返回 LLM 调用失败错误码且错误链包含失败人格。
func TestOrchestratorAbortsOnRound1Failure(t *testing.T) {
	base := happyResponder()
	o := newTestOrchestrator(func(ctx context.Context, system string) (string, error) {
		if llmctx.WorkflowFromContext(ctx) == "roundtable_round1" && personaFromSystem(system) == PersonaColorist {
			return "", errors.New("provider unavailable")
		}
		return base(ctx, system)
	})

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	_, err = o.Run(context.Background(), req)
	if err == nil {
		t.Fatalf("expected run to fail")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeLLMCallFailed {
		t.Fatalf("expected llm call failed code, got %s", appErr.Code)
	}
	if !strings.Contains(err.Error(), "colorist") {
		t.Fatalf("error should name the failed persona, got %v", err)
	}
}

// TestOrchestratorSynthesisFailurePropagates 验证合成输出损坏时返回格式错误。
// 场景：两轮讨论成功但合成输出不是 JSON，应返回合成格式错误码。
func TestOrchestratorSynthesisFailurePropagates(t *testing.T) {
	base := happyResponder()
	o := newTestOrchestrator(func(ctx context.Context, system string) (string, error) {
		if llmctx.WorkflowFromContext(ctx) == "roundtable_synthesis" {
			return "the deliverable is a wide shot, trust me", nil
		}
		return base(ctx, system)
	})

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	_, err = o.Run(context.Background(), req)
	if err == nil {
		t.Fatalf("expected run to fail")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeSynthesisMalformed {
		t.Fatalf("expected synthesis malformed code, got %v", err)
	}
}

// TestOrchestratorEmptyResponseIsError 验证模型空回应视为调用失败。
// 场景：第一轮某人格返回空白文本，运行应以 LLM 调用失败中止。
func TestOrchestratorEmptyResponseIsError(t *testing.T) {
	base := happyResponder()
	o := newTestOrchestrator(func(ctx context.Context, system string) (string, error) {
		if llmctx.WorkflowFromContext(ctx) == "roundtable_round1" && personaFromSystem(system) == PersonaEditor {
			return "   ", nil
		}
		return base(ctx, system)
	})

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	_, err = o.Run(context.Background(), req)
	if err == nil {
		t.Fatalf("expected run to fail on empty response")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeLLMCallFailed {
		t.Fatalf("expected llm call failed code, got %v", err)
	}
}
