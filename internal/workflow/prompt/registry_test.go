package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
)

// TestChatTemplateResolvesAllPrompts 验证全部内置提示词均可加载并渲染。
// 场景：遍历两轮全部人格与合成模板，渲染后应得到 system 加 user 两条消息。
func TestChatTemplateResolvesAllPrompts(t *testing.T) {
	r := NewRegistry()
	vars := map[string]any{
		"brief":              "a runner at dawn",
		"platform":           "tiktok",
		"style_block":        "",
		"character_context":  "",
		"screenplay_context": "",
		"world_context":      "",
		"transcript":         "[director]\nopen wide",
		"optimal_chars":      500,
		"max_chars":          700,
	}

	ids := []PromptID{PromptSynthesisV1}
	for _, p := range []string{"director", "cinematographer", "editor", "colorist", "platform_expert"} {
		ids = append(ids, Round1Prompt(p), Round2Prompt(p))
	}

	for _, id := range ids {
		tpl, err := r.ChatTemplate(id)
		if err != nil {
			t.Fatalf("%s: load failed: %v", id, err)
		}
		msgs, err := tpl.Format(context.Background(), vars)
		if err != nil {
			t.Fatalf("%s: format failed: %v", id, err)
		}
		if len(msgs) != 2 {
			t.Fatalf("%s: expected 2 messages, got %d", id, len(msgs))
		}
		if msgs[0].Role != schema.System || msgs[1].Role != schema.User {
			t.Fatalf("%s: unexpected roles %s/%s", id, msgs[0].Role, msgs[1].Role)
		}
		if !strings.Contains(msgs[1].Content, "a runner at dawn") {
			t.Fatalf("%s: brief not interpolated: %q", id, msgs[1].Content)
		}
	}
}

// TestChatTemplateUnknownID 验证未知提示词 ID 报错。
// 场景：不存在的 ID 与未知人格均应返回错误。
func TestChatTemplateUnknownID(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ChatTemplate("made_up_v1"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
	if _, err := r.ChatTemplate(Round1Prompt("producer")); err == nil {
		t.Fatalf("expected error for unknown persona")
	}
}

// TestChatTemplateCached 验证模板加载后被缓存复用。
// 场景：同一 ID 两次获取应返回同一个模板实例。
func TestChatTemplateCached(t *testing.T) {
	r := NewRegistry()
	tpl1, err := r.ChatTemplate(PromptSynthesisV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tpl2, err := r.ChatTemplate(PromptSynthesisV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl1 != tpl2 {
		t.Fatalf("expected cached template instance")
	}
}
