// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"scenra/internal/domain/entity"
)

// DialogueLineRequest 剧本台词
type DialogueLineRequest struct {
	Character string `json:"character" binding:"required"`
	Line      string `json:"line" binding:"required"`
}

// ScreenplaySceneRequest 剧本场景
type ScreenplaySceneRequest struct {
	Number      int                   `json:"number" binding:"required,min=1"`
	Location    string                `json:"location,omitempty"`
	TimeOfDay   string                `json:"time_of_day,omitempty"`
	TimePeriod  string                `json:"time_period,omitempty"`
	Description string                `json:"description,omitempty"`
	Characters  []string              `json:"characters,omitempty"`
	ActionBeats []string              `json:"action_beats,omitempty"`
	Dialogue    []DialogueLineRequest `json:"dialogue,omitempty"`
}

// ToEntity 转换为领域场景
func (r *ScreenplaySceneRequest) ToEntity() entity.ScreenplayScene {
	scene := entity.ScreenplayScene{
		Number:      r.Number,
		Location:    r.Location,
		TimeOfDay:   r.TimeOfDay,
		TimePeriod:  r.TimePeriod,
		Description: r.Description,
		Characters:  r.Characters,
		ActionBeats: r.ActionBeats,
	}
	for _, d := range r.Dialogue {
		scene.Dialogue = append(scene.Dialogue, entity.DialogueLine{
			Character: d.Character,
			Line:      d.Line,
		})
	}
	return scene
}

// CreateEpisodeRequest 创建剧集请求
type CreateEpisodeRequest struct {
	Number   int                      `json:"number" binding:"required,min=1"`
	Title    string                   `json:"title" binding:"required,max=255"`
	Synopsis string                   `json:"synopsis,omitempty"`
	Scenes   []ScreenplaySceneRequest `json:"scenes,omitempty"`
	Themes   []string                 `json:"themes,omitempty"`
}

// UpdateEpisodeRequest 更新剧集请求
type UpdateEpisodeRequest struct {
	Title    string                   `json:"title,omitempty" binding:"omitempty,max=255"`
	Synopsis *string                  `json:"synopsis,omitempty"`
	Scenes   []ScreenplaySceneRequest `json:"scenes,omitempty"`
	Themes   []string                 `json:"themes,omitempty"`
}
