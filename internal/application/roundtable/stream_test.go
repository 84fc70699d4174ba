package roundtable

import (
	"context"
	"testing"
	"time"

	llmctx "scenra/internal/domain/service"
	apperrors "scenra/pkg/errors"
)

func collectEvents(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for stream to close, got %d events", len(events))
		}
	}
}

// TestStreamerEmitsTurnsThenResult 验证流式运行按序发出发言事件并以结果收尾。
// 场景：完整流程成功，通道先发出十次发言（两轮各五次，顺序与讨论记录一致），
// 最后发出一个结果事件后关闭。
func TestStreamerEmitsTurnsThenResult(t *testing.T) {
	s := NewStreamer(newTestOrchestrator(happyResponder()))

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	events := collectEvents(t, s.Run(context.Background(), req))

	personas := Personas()
	wantTurns := 2 * len(personas)
	if len(events) != wantTurns+1 {
		t.Fatalf("expected %d events, got %d", wantTurns+1, len(events))
	}

	for i := 0; i < wantTurns; i++ {
		ev := events[i]
		if ev.Type != EventTurn || ev.Turn == nil {
			t.Fatalf("event %d: expected turn event, got %+v", i, ev)
		}
		wantRound := 1
		if i >= len(personas) {
			wantRound = 2
		}
		if ev.Turn.Round != wantRound {
			t.Fatalf("event %d: expected round %d, got %d", i, wantRound, ev.Turn.Round)
		}
		if ev.Turn.Agent != personas[i%len(personas)] {
			t.Fatalf("event %d: expected agent %s, got %s", i, personas[i%len(personas)], ev.Turn.Agent)
		}
	}

	final := events[wantTurns]
	if final.Type != EventResult || final.Result == nil {
		t.Fatalf("expected terminal result event, got %+v", final)
	}
	if final.Result.OptimizedPrompt == "" {
		t.Fatalf("result event missing prompt")
	}
}

// TestStreamerEmitsRoundOnePrefixIncrementally 验证第一轮进度随完成前缀逐个发出。
// 场景：调色师在第一轮被阻塞，前三个人格的发言事件应在整轮结束前
// 到达消费方；放行后剩余发言与最终结果按序补齐。
func TestStreamerEmitsRoundOnePrefixIncrementally(t *testing.T) {
	release := make(chan struct{})
	base := happyResponder()
	s := NewStreamer(newTestOrchestrator(func(ctx context.Context, system string) (string, error) {
		if llmctx.WorkflowFromContext(ctx) == "roundtable_round1" && personaFromSystem(system) == PersonaColorist {
			select {
			case <-release:
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return base(ctx, system)
	}))

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	ch := s.Run(context.Background(), req)

	timeout := time.After(5 * time.Second)
	for _, p := range []Persona{PersonaDirector, PersonaCinematographer, PersonaEditor} {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("stream closed while %s was still pending", p)
			}
			if ev.Type != EventTurn || ev.Turn == nil || ev.Turn.Round != 1 || ev.Turn.Agent != p {
				t.Fatalf("expected round-1 turn for %s, got %+v", p, ev)
			}
		case <-timeout:
			t.Fatalf("no event for %s while the round was still blocked", p)
		}
	}

	close(release)
	rest := collectEvents(t, ch)

	wantRest := 2 + len(Personas()) + 1
	if len(rest) != wantRest {
		t.Fatalf("expected %d remaining events, got %d", wantRest, len(rest))
	}
	if rest[0].Turn == nil || rest[0].Turn.Agent != PersonaColorist || rest[0].Turn.Round != 1 {
		t.Fatalf("expected colorist turn after release, got %+v", rest[0])
	}
	if final := rest[len(rest)-1]; final.Type != EventResult || final.Result == nil {
		t.Fatalf("expected terminal result event, got %+v", final)
	}
}

// TestStreamerEmitsTerminalError 验证失败时以错误事件收尾。
// 场景：合成输出损坏，流在两轮发言事件之后发出错误事件并关闭。
func TestStreamerEmitsTerminalError(t *testing.T) {
	base := happyResponder()
	s := NewStreamer(newTestOrchestrator(func(ctx context.Context, system string) (string, error) {
		if llmctx.WorkflowFromContext(ctx) == "roundtable_synthesis" {
			return "not json", nil
		}
		return base(ctx, system)
	}))

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	events := collectEvents(t, s.Run(context.Background(), req))

	if len(events) == 0 {
		t.Fatalf("expected events before the failure")
	}
	final := events[len(events)-1]
	if final.Type != EventError {
		t.Fatalf("expected terminal error event, got %+v", final)
	}
	if final.Code != string(apperrors.CodeSynthesisMalformed) {
		t.Fatalf("expected synthesis malformed code, got %q", final.Code)
	}
	if final.Message == "" {
		t.Fatalf("error event missing message")
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Type != EventTurn {
			t.Fatalf("only turn events may precede the terminal event, got %+v", ev)
		}
	}
}

// TestStreamerCancelClosesChannel 验证消费方取消后通道最终关闭。
// 场景：消费方立刻取消上下文，流应在不阻塞的情况下结束并关闭通道。
func TestStreamerCancelClosesChannel(t *testing.T) {
	s := NewStreamer(newTestOrchestrator(happyResponder()))

	req, err := Aggregate(RawInputs{Brief: "a runner at dawn", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Run(ctx, req)
	cancel()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("channel did not close after cancellation")
		}
	}
}
