package roundtable

import (
	"context"

	apperrors "scenra/pkg/errors"
)

// EventType 流式事件类型
type EventType string

const (
	EventTurn   EventType = "turn"
	EventResult EventType = "result"
	EventError  EventType = "error"
)

// Event 流式生成事件。三种变体互斥，由 Type 区分：
// turn 携带 Turn，result 携带 Result，error 携带 Code 与 Message。
// result 与 error 均为终止事件，之后通道关闭。
type Event struct {
	Type   EventType         `json:"type"`
	Turn   *TurnEvent        `json:"turn,omitempty"`
	Result *GenerationResult `json:"result,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Streamer 将编排器包装为事件流
type Streamer struct {
	orch *Orchestrator
}

// NewStreamer 创建流式适配器
func NewStreamer(orch *Orchestrator) *Streamer {
	return &Streamer{orch: orch}
}

// Run 启动流式生成并返回事件通道。
// 事件按讨论记录顺序发出；运行结束（成功或失败）后通道关闭。
// 消费方取消 ctx 即可中止运行，未消费的事件被丢弃。
func (s *Streamer) Run(ctx context.Context, req *GenerationRequest) <-chan Event {
	ch := make(chan Event, 16)

	go func() {
		defer close(ch)

		result, err := s.orch.run(ctx, req, func(t TurnEvent) {
			sendEvent(ctx, ch, Event{Type: EventTurn, Turn: &t})
		})
		if err != nil {
			appErr := apperrors.AsAppError(err)
			sendEvent(ctx, ch, Event{
				Type:    EventError,
				Code:    string(appErr.Code),
				Message: appErr.Message,
			})
			return
		}
		sendEvent(ctx, ch, Event{Type: EventResult, Result: result})
	}()

	return ch
}

// sendEvent 发送事件，消费方已取消时直接放弃
func sendEvent(ctx context.Context, ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
