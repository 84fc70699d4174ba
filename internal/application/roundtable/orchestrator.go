package roundtable

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"scenra/internal/config"
	llmctx "scenra/internal/domain/service"
	workflowprompt "scenra/internal/workflow/prompt"
	apperrors "scenra/pkg/errors"
	"scenra/pkg/logger"
	"scenra/pkg/metrics"
)

// Orchestrator 驱动五人格两轮讨论与最终合成。
// 讨论记录的顺序始终为固定人格顺序，与底层调用的完成顺序无关。
type Orchestrator struct {
	factory  ChatModelFactory
	registry *workflowprompt.Registry
	cfg      config.RoundtableConfig
	provider string
}

// NewOrchestrator 创建圆桌编排器
func NewOrchestrator(factory ChatModelFactory, registry *workflowprompt.Registry, cfg config.RoundtableConfig, provider string) *Orchestrator {
	return &Orchestrator{
		factory:  factory,
		registry: registry,
		cfg:      cfg,
		provider: provider,
	}
}

// Run 执行完整的圆桌生成流程并返回最终结果
func (o *Orchestrator) Run(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	return o.run(ctx, req, nil)
}

// TurnEvent 单次发言完成的进度通知
type TurnEvent struct {
	Round    int     `json:"round"`
	Agent    Persona `json:"agent"`
	Response string  `json:"response"`
}

// run 执行讨论全流程。onTurn 非空时在每个发言定稿后调用，
// 调用顺序与讨论记录顺序一致。任一阶段失败则立刻中止，不做重试。
func (o *Orchestrator) run(ctx context.Context, req *GenerationRequest, onTurn func(TurnEvent)) (*GenerationResult, error) {
	if o == nil || o.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}

	start := time.Now()
	platform := string(req.Platform)
	mode := "sync"
	if onTurn != nil {
		mode = "stream"
	}

	result, err := o.runDiscussion(ctx, req, onTurn)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RoundtableRunsTotal.WithLabelValues(platform, mode, status).Inc()
	metrics.RoundtableRunDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.RoundtablePromptLength.WithLabelValues(platform).Observe(float64(len(result.OptimizedPrompt)))
	return result, nil
}

func (o *Orchestrator) runDiscussion(ctx context.Context, req *GenerationRequest, onTurn func(TurnEvent)) (*GenerationResult, error) {
	round1, err := o.runRound1(ctx, req, onTurn)
	if err != nil {
		return nil, err
	}

	round2, err := o.runRound2(ctx, req, round1, onTurn)
	if err != nil {
		return nil, err
	}

	result, err := o.synthesize(ctx, req, round1, round2)
	if err != nil {
		return nil, err
	}
	result.Discussion = Discussion{Round1: round1, Round2: round2}
	result.CharacterCount = len(result.OptimizedPrompt)

	if max := o.cfg.MaxPromptChars; max > 0 && len(result.OptimizedPrompt) > max {
		logger.Warn(ctx, "optimized prompt exceeds soft limit",
			"length", len(result.OptimizedPrompt),
			"limit", max,
		)
	}
	return result, nil
}

// runRound1 并发执行第一轮独立发言。
// 结果始终按固定人格顺序汇入讨论记录；任一人格失败则整体失败。
// 进度事件随完成前缀逐个上报：第 i 个人格的事件在它与它之前的
// 所有人格都定稿后立刻发出，无需等待整轮结束。
func (o *Orchestrator) runRound1(ctx context.Context, req *GenerationRequest, onTurn func(TurnEvent)) ([]DiscussionTurn, error) {
	personas := Personas()
	vars := o.round1Vars(req)
	texts := make([]string, len(personas))

	var mu sync.Mutex
	done := make([]bool, len(personas))
	next := 0
	complete := func(i int, text string) {
		mu.Lock()
		defer mu.Unlock()
		texts[i] = text
		done[i] = true
		for next < len(personas) && done[next] {
			emit(onTurn, TurnEvent{Round: 1, Agent: personas[next], Response: texts[next]})
			next++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit := o.cfg.Round1Concurrency; limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range personas {
		g.Go(func() error {
			text, err := o.callPersona(gctx, "roundtable_round1", workflowprompt.Round1Prompt(string(p)), vars)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			complete(i, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "roundtable round one failed")
	}

	turns := make([]DiscussionTurn, 0, len(personas))
	for i, p := range personas {
		turns = append(turns, DiscussionTurn{Agent: p, Response: texts[i]})
	}
	return turns, nil
}

// runRound2 串行执行第二轮交叉回应。
// 每个人格都能看到第一轮全文与本轮更早的发言。
func (o *Orchestrator) runRound2(ctx context.Context, req *GenerationRequest, round1 []DiscussionTurn, onTurn func(TurnEvent)) ([]DiscussionTurn, error) {
	personas := Personas()
	turns := make([]DiscussionTurn, 0, len(personas))

	for _, p := range personas {
		vars := map[string]any{
			"brief":      req.Brief,
			"platform":   string(req.Platform),
			"transcript": renderTranscript(round1, turns),
		}
		text, err := o.callPersona(ctx, "roundtable_round2", workflowprompt.Round2Prompt(string(p)), vars)
		if err != nil {
			return nil, apperrors.Wrap(fmt.Errorf("%s: %w", p, err), apperrors.CodeLLMCallFailed, "roundtable round two failed")
		}
		turn := parseRound2Turn(p, text)
		turns = append(turns, turn)
		emit(onTurn, TurnEvent{Round: 2, Agent: p, Response: turn.Response})
	}
	return turns, nil
}

// synthesize 将两轮讨论合成为最终提示词与结构化拆解
func (o *Orchestrator) synthesize(ctx context.Context, req *GenerationRequest, round1, round2 []DiscussionTurn) (*GenerationResult, error) {
	vars := map[string]any{
		"brief":             req.Brief,
		"platform":          string(req.Platform),
		"transcript":        renderTranscript(round1, round2),
		"character_context": req.CharacterContext,
		"optimal_chars":     o.cfg.OptimalPromptChars,
		"max_chars":         o.cfg.MaxPromptChars,
	}
	text, err := o.callPersona(ctx, "roundtable_synthesis", workflowprompt.PromptSynthesisV1, vars)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "synthesis failed")
	}
	return parseSynthesis(text)
}

// callPersona 渲染模板并调用对话模型，返回模型输出文本
func (o *Orchestrator) callPersona(ctx context.Context, workflow string, id workflowprompt.PromptID, vars map[string]any) (string, error) {
	tpl, err := o.registry.ChatTemplate(id)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", err
	}

	ctx = llmctx.WithWorkflowProvider(ctx, workflow, o.provider)
	chatModel, err := o.factory.Get(ctx, o.provider)
	if err != nil {
		return "", err
	}
	out, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("empty llm response")
	}
	return strings.TrimSpace(out.Content), nil
}

// round1Vars 构建第一轮模板变量，所有上下文区块缺失时为空串
func (o *Orchestrator) round1Vars(req *GenerationRequest) map[string]any {
	return map[string]any{
		"brief":              req.Brief,
		"platform":           string(req.Platform),
		"style_block":        styleBlock(req),
		"character_context":  req.CharacterContext,
		"screenplay_context": req.ScreenplayContext,
		"world_context":      assetsBlock(req),
	}
}

// renderTranscript 将已有发言渲染为讨论全文，顺序与记录一致
func renderTranscript(rounds ...[]DiscussionTurn) string {
	var b strings.Builder
	for _, turns := range rounds {
		for _, t := range turns {
			fmt.Fprintf(&b, "[%s]\n%s\n\n", t.Agent, t.Response)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func emit(onTurn func(TurnEvent), ev TurnEvent) {
	if onTurn != nil {
		onTurn(ev)
	}
}
