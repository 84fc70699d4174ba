package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"scenra/internal/application/consistency"
	"scenra/internal/application/quota"
	"scenra/internal/application/roundtable"
	"scenra/internal/config"
	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	llmctx "scenra/internal/domain/service"
	workflowprompt "scenra/internal/workflow/prompt"
	apperrors "scenra/pkg/errors"
)

// cannedModel 按工作流返回固定文本的对话模型桩
type cannedModel struct{}

func (m *cannedModel) Generate(ctx context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	var content string
	switch llmctx.WorkflowFromContext(ctx) {
	case "roundtable_round2":
		content = `{"response": "agreed, keep it tight"}`
	case "roundtable_synthesis":
		content = `{"optimized_prompt": "A courier in a yellow slicker sprints through the rain.", "hashtags": ["#rain"], "suggested_shots": [{"id": 1, "description": "tracking shot", "duration": "2s"}]}`
	default:
		content = "keep the open under two seconds"
	}
	return &schema.Message{Role: schema.Assistant, Content: content}, nil
}

func (m *cannedModel) Stream(ctx context.Context, in []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in tests")
}

type cannedFactory struct{}

func (f *cannedFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return &cannedModel{}, nil
}

// fakeVideoRepo 记录写入的视频仓储桩
type fakeVideoRepo struct {
	repository.VideoRepository

	count     int64
	created   []*entity.Video
	createErr error
}

func (r *fakeVideoRepo) CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	return r.count, nil
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *entity.Video) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, video)
	return nil
}

func newTestGenerationService(videoRepo *fakeVideoRepo) *Service {
	orch := roundtable.NewOrchestrator(
		&cannedFactory{},
		workflowprompt.NewRegistry(),
		config.RoundtableConfig{OptimalPromptChars: 500, MaxPromptChars: 700, Round1Concurrency: 5},
		"openai",
	)
	quotaSvc := quota.NewService(videoRepo, config.QuotaConfig{
		Enabled:        true,
		PlanLimits:     map[string]int64{"free": 20},
		NearLimitRatio: 0.8,
	})
	return NewService(nil, nil, nil, videoRepo, orch, consistency.NewValidator(), quotaSvc, nil)
}

// TestGeneratePersistsVideo 验证同步生成落库并返回完整产出。
// 场景：无系列上下文的生成成功，产出携带 video_id、结果与配额状态，
// 落库记录的内容与结果一致。
func TestGeneratePersistsVideo(t *testing.T) {
	videoRepo := &fakeVideoRepo{count: 3}
	svc := newTestGenerationService(videoRepo)

	out, err := svc.Generate(context.Background(), &Input{
		UserID:   "u1",
		Plan:     entity.PlanFree,
		Brief:    "a courier races the rain",
		Platform: "TikTok",
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if out.VideoID == "" {
		t.Fatalf("expected persisted video id")
	}
	if out.Result == nil || out.Result.OptimizedPrompt == "" {
		t.Fatalf("expected generation result, got %+v", out.Result)
	}
	if out.Quota == nil || out.Quota.Used != 3 {
		t.Fatalf("expected quota status, got %+v", out.Quota)
	}
	if out.Validation != nil {
		t.Fatalf("no characters were involved, validation should be absent")
	}

	if len(videoRepo.created) != 1 {
		t.Fatalf("expected one persisted video, got %d", len(videoRepo.created))
	}
	video := videoRepo.created[0]
	if video.ID != out.VideoID {
		t.Fatalf("output video id %q does not match persisted %q", out.VideoID, video.ID)
	}
	if video.Platform != entity.PlatformTikTok {
		t.Fatalf("platform should be normalized, got %s", video.Platform)
	}
	if video.OptimizedPrompt != out.Result.OptimizedPrompt {
		t.Fatalf("persisted prompt mismatch")
	}
	if video.CharacterCount != len(video.OptimizedPrompt) {
		t.Fatalf("persisted character count %d mismatch", video.CharacterCount)
	}
}

// TestGenerateBlockedByQuota 验证配额用尽时同步返回错误且不调用模型。
// 场景：free 套餐已用 20/20，Generate 返回配额超限错误，无落库。
func TestGenerateBlockedByQuota(t *testing.T) {
	videoRepo := &fakeVideoRepo{count: 20}
	svc := newTestGenerationService(videoRepo)

	_, err := svc.Generate(context.Background(), &Input{
		UserID:   "u1",
		Plan:     entity.PlanFree,
		Brief:    "a courier races the rain",
		Platform: "tiktok",
	})
	if err == nil {
		t.Fatalf("expected quota error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeQuotaExceeded {
		t.Fatalf("expected quota exceeded code, got %v", err)
	}
	if len(videoRepo.created) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

// TestGenerateInvalidInputIsSynchronous 验证输入校验失败为同步错误。
// 场景：brief 为空，Generate 在运行前返回参数错误。
func TestGenerateInvalidInputIsSynchronous(t *testing.T) {
	videoRepo := &fakeVideoRepo{}
	svc := newTestGenerationService(videoRepo)

	_, err := svc.Generate(context.Background(), &Input{
		UserID:   "u1",
		Plan:     entity.PlanFree,
		Platform: "tiktok",
	})
	if err == nil {
		t.Fatalf("expected error for empty brief")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidParam {
		t.Fatalf("expected invalid param code, got %v", err)
	}
}

// TestGenerateSurvivesPersistFailure 验证落库失败不吞掉生成结果。
// 场景：视频写入失败，Generate 仍返回结果但 video_id 为空。
func TestGenerateSurvivesPersistFailure(t *testing.T) {
	videoRepo := &fakeVideoRepo{createErr: errors.New("disk full")}
	svc := newTestGenerationService(videoRepo)

	out, err := svc.Generate(context.Background(), &Input{
		UserID:   "u1",
		Plan:     entity.PlanFree,
		Brief:    "a courier races the rain",
		Platform: "tiktok",
	})
	if err != nil {
		t.Fatalf("generate should still succeed: %v", err)
	}
	if out.VideoID != "" {
		t.Fatalf("video id should be empty after persist failure, got %q", out.VideoID)
	}
	if out.Result == nil || out.Result.OptimizedPrompt == "" {
		t.Fatalf("result must survive persist failure")
	}
}

// TestGenerateStreamTerminatesWithResult 验证流式生成以完整产出收尾。
// 场景：流式运行成功，通道先发发言事件、最后发 result 事件并携带 video_id。
func TestGenerateStreamTerminatesWithResult(t *testing.T) {
	videoRepo := &fakeVideoRepo{count: 1}
	svc := newTestGenerationService(videoRepo)

	ch, err := svc.GenerateStream(context.Background(), &Input{
		UserID:   "u1",
		Plan:     entity.PlanFree,
		Brief:    "a courier races the rain",
		Platform: "tiktok",
	})
	if err != nil {
		t.Fatalf("stream start failed: %v", err)
	}

	var events []StreamEvent
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case ev, ok := <-ch:
			if !ok {
				done = true
				break
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out, got %d events", len(events))
		}
	}

	if len(events) < 2 {
		t.Fatalf("expected turn events plus result, got %d", len(events))
	}
	final := events[len(events)-1]
	if final.Type != roundtable.EventResult || final.Output == nil {
		t.Fatalf("expected terminal result event, got %+v", final)
	}
	if final.Output.VideoID == "" || final.Output.Quota == nil {
		t.Fatalf("result output incomplete: %+v", final.Output)
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Type != roundtable.EventTurn {
			t.Fatalf("only turn events may precede the result, got %+v", ev)
		}
	}
}

// TestFilterByIDsKeepsSelectionOrder 验证按选中 ID 过滤并保持选中顺序。
// 场景：选中顺序与存储顺序不同，结果按选中顺序返回并丢弃未知 ID。
func TestFilterByIDsKeepsSelectionOrder(t *testing.T) {
	a := &entity.Setting{ID: "a"}
	b := &entity.Setting{ID: "b"}
	items := []*entity.Setting{a, b}

	got := filterByIDs(items, []string{"b", "missing", "a"}, func(s *entity.Setting) string { return s.ID })
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Fatalf("unexpected selection %v", got)
	}

	all := filterByIDs(items, nil, func(s *entity.Setting) string { return s.ID })
	if len(all) != 2 {
		t.Fatalf("empty selection should return everything")
	}
}
