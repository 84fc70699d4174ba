package roundtable

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	apperrors "scenra/pkg/errors"
)

// extractJSONObject 从模型输出中截取第一个完整 JSON 对象/数组。
// 模型可能在 JSON 前后夹杂多余文本或代码围栏，这里做容错截取。
func extractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start := -1
	end := -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
			return raw
		}
	}

	dec = json.NewDecoder(strings.NewReader(raw))
	for {
		_, e := dec.Token()
		if e != nil {
			if errors.Is(e, io.EOF) {
				break
			}
			return strings.TrimSpace(s)
		}
	}
	return raw
}

// synthesisPayload 合成阶段模型输出的结构
type synthesisPayload struct {
	OptimizedPrompt   string    `json:"optimized_prompt"`
	DetailedBreakdown Breakdown `json:"detailed_breakdown"`
	Hashtags          []string  `json:"hashtags"`
	SuggestedShots    []Shot    `json:"suggested_shots"`
}

// parseSynthesis 解析合成输出。
// 提示词缺失或 JSON 无法解析视为硬错误，其余字段缺失容忍为空。
func parseSynthesis(text string) (*GenerationResult, error) {
	raw := extractJSONObject(text)

	var payload synthesisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSynthesisMalformed, "synthesis output is not valid JSON")
	}
	prompt := strings.TrimSpace(payload.OptimizedPrompt)
	if prompt == "" {
		return nil, apperrors.New(apperrors.CodeSynthesisMalformed, "synthesis output missing optimized_prompt")
	}

	result := &GenerationResult{
		OptimizedPrompt:   prompt,
		DetailedBreakdown: payload.DetailedBreakdown,
		Hashtags:          payload.Hashtags,
		SuggestedShots:    payload.SuggestedShots,
	}
	if result.Hashtags == nil {
		result.Hashtags = []string{}
	}
	if result.SuggestedShots == nil {
		result.SuggestedShots = []Shot{}
	}
	return result, nil
}

// round2Payload 第二轮模型输出的结构
type round2Payload struct {
	Response     string   `json:"response"`
	RespondingTo string   `json:"responding_to"`
	IsChallenge  bool     `json:"is_challenge"`
	BuildingOn   []string `json:"building_on"`
}

// parseRound2Turn 解析第二轮输出。
// 输出不是合法 JSON 时退化为纯文本回应，不视为错误；
// 指向未知人格或自身的引用会被丢弃。
func parseRound2Turn(agent Persona, text string) DiscussionTurn {
	turn := DiscussionTurn{Agent: agent, Response: strings.TrimSpace(text)}

	raw := extractJSONObject(text)
	var payload round2Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return turn
	}
	if strings.TrimSpace(payload.Response) == "" {
		return turn
	}

	turn.Response = strings.TrimSpace(payload.Response)
	turn.IsChallenge = payload.IsChallenge
	if ref := Persona(payload.RespondingTo); validReference(agent, ref) {
		turn.RespondingTo = ref
	}
	for _, name := range payload.BuildingOn {
		if ref := Persona(name); validReference(agent, ref) {
			turn.BuildingOn = append(turn.BuildingOn, ref)
		}
	}
	return turn
}

// validReference 引用必须指向另一个已知人格
func validReference(self, ref Persona) bool {
	if ref == self {
		return false
	}
	for _, p := range Personas() {
		if p == ref {
			return true
		}
	}
	return false
}
