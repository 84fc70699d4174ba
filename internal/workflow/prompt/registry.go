// Package prompt 管理嵌入式提示词模板
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptRound1DirectorV1        PromptID = "round1_director_v1"
	PromptRound1CinematographerV1 PromptID = "round1_cinematographer_v1"
	PromptRound1EditorV1          PromptID = "round1_editor_v1"
	PromptRound1ColoristV1        PromptID = "round1_colorist_v1"
	PromptRound1PlatformExpertV1  PromptID = "round1_platform_expert_v1"

	PromptRound2DirectorV1        PromptID = "round2_director_v1"
	PromptRound2CinematographerV1 PromptID = "round2_cinematographer_v1"
	PromptRound2EditorV1          PromptID = "round2_editor_v1"
	PromptRound2ColoristV1        PromptID = "round2_colorist_v1"
	PromptRound2PlatformExpertV1  PromptID = "round2_platform_expert_v1"

	PromptSynthesisV1 PromptID = "synthesis_v1"
)

// Round1Prompt 返回指定人格的第一轮提示词 ID
func Round1Prompt(persona string) PromptID {
	return PromptID("round1_" + persona + "_v1")
}

// Round2Prompt 返回指定人格的第二轮提示词 ID
func Round2Prompt(persona string) PromptID {
	return PromptID("round2_" + persona + "_v1")
}

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

// resolvePromptFiles 解析提示词文件。
// 圆桌人格共享每轮的 user 模板，system 模板按人格区分。
func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	s := string(id)
	switch {
	case id == PromptSynthesisV1:
		return "templates/synthesis_v1.system.txt", "templates/synthesis_v1.user.txt", nil
	case strings.HasPrefix(s, "round1_"):
		persona := strings.TrimSuffix(strings.TrimPrefix(s, "round1_"), "_v1")
		if !knownPersona(persona) {
			return "", "", fmt.Errorf("unknown prompt id: %s", id)
		}
		return "templates/persona_" + persona + "_v1.system.txt", "templates/roundtable_round1_v1.user.txt", nil
	case strings.HasPrefix(s, "round2_"):
		persona := strings.TrimSuffix(strings.TrimPrefix(s, "round2_"), "_v1")
		if !knownPersona(persona) {
			return "", "", fmt.Errorf("unknown prompt id: %s", id)
		}
		return "templates/persona_" + persona + "_v1.system.txt", "templates/roundtable_round2_v1.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func knownPersona(p string) bool {
	switch p {
	case "director", "cinematographer", "editor", "colorist", "platform_expert":
		return true
	}
	return false
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
