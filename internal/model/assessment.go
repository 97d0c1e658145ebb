package model

import (
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionText         QuestionType = "text"
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionFileUpload   QuestionType = "file_upload"
)

type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"` // single_choice only
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AssessmentDefinition is the persisted question layout. Current
// assessments carry Sections; legacy ones carry top-level Questions and
// are normalized into a single section at load time.
type AssessmentDefinition struct {
	Sections  []Section  `json:"sections,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

type Assessment struct {
	BaseModel
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Passcode    string          `gorm:"size:100" json:"-"`
	TimeLimit   int             `gorm:"default:0" json:"timeLimit"` // minutes, 0 = untimed
	Definition  json.RawMessage `gorm:"type:json" json:"definition"`
	ShareToken  string          `gorm:"size:36;uniqueIndex" json:"shareToken"`
	IsPublished bool            `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// HasPasscode reports whether the candidate gate requires a passcode.
func (a *Assessment) HasPasscode() bool {
	return a.Passcode != ""
}
