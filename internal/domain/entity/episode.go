// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// DialogueLine 剧本台词
type DialogueLine struct {
	Character string `json:"character"`
	Line      string `json:"line"`
}

// ScreenplayScene 剧本场景
type ScreenplayScene struct {
	Number      int            `json:"number"`
	Location    string         `json:"location,omitempty"`
	TimeOfDay   string         `json:"time_of_day,omitempty"`
	TimePeriod  string         `json:"time_period,omitempty"`
	Description string         `json:"description,omitempty"`
	Characters  []string       `json:"characters,omitempty"`
	ActionBeats []string       `json:"action_beats,omitempty"`
	Dialogue    []DialogueLine `json:"dialogue,omitempty"`
}

// Episode 系列剧集（含剧本场景）
type Episode struct {
	ID       string `json:"id" gorm:"type:varchar(36);primaryKey"`
	SeriesID string `json:"series_id" gorm:"type:varchar(36);not null;index"`
	Number   int    `json:"number" gorm:"not null"`
	Title    string `json:"title" gorm:"type:varchar(255);not null"`
	Synopsis string `json:"synopsis,omitempty" gorm:"type:text"`

	// Scenes 剧本场景列表，生成时按场景号取用
	Scenes []ScreenplayScene `json:"scenes,omitempty" gorm:"type:jsonb;serializer:json"`

	// Themes 剧集主题标签
	Themes pq.StringArray `json:"themes,omitempty" gorm:"type:text[]"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SceneByNumber 按场景号查找场景，未找到返回 nil
func (e *Episode) SceneByNumber(n int) *ScreenplayScene {
	if e == nil {
		return nil
	}
	for i := range e.Scenes {
		if e.Scenes[i].Number == n {
			return &e.Scenes[i]
		}
	}
	return nil
}
