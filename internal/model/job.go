package model

import (
	"encoding/json"
	"time"
)

type JobStatus string

const (
	JobDraft     JobStatus = "draft"
	JobPublished JobStatus = "published"
	JobClosed    JobStatus = "closed"
)

type Job struct {
	BaseModel
	Title       string          `gorm:"size:255;not null" json:"title"`
	Department  string          `gorm:"size:100" json:"department"`
	Location    string          `gorm:"size:100" json:"location"`
	Type        string          `gorm:"size:50" json:"type"` // full_time, part_time, contract, internship
	Description string          `gorm:"type:text" json:"description"`
	Sections    json.RawMessage `gorm:"type:json" json:"sections,omitempty"` // []JobSection, AI-extracted
	Status      JobStatus       `gorm:"size:20;default:'draft'" json:"status"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobSection is one block of a structured job description, produced by
// the extraction model from the free-text description.
type JobSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}
