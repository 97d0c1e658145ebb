package model

import (
	"encoding/json"
	"time"
)

type AttemptState string

const (
	AttemptLockedPasscode AttemptState = "locked_passcode"
	AttemptLockedIdentity AttemptState = "locked_identity"
	AttemptUnlocked       AttemptState = "unlocked"
	AttemptInProgress     AttemptState = "in_progress"
	AttemptSubmitted      AttemptState = "submitted"
)

// Attempt is one candidate's pass through an assessment. The State
// column is the single source of truth for the gate/timer machine; the
// in_progress → submitted transition happens exactly once per attempt.
type Attempt struct {
	UUIDBase
	AssessmentID   uint            `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	State          AttemptState    `gorm:"size:20;not null;index" json:"state"`
	CandidateName  string          `gorm:"size:100" json:"candidateName"`
	CandidateEmail string          `gorm:"size:100" json:"candidateEmail"`
	CollegeID      *uint           `gorm:"type:bigint unsigned" json:"collegeId,omitempty"`
	CandidateID    *uint           `gorm:"type:bigint unsigned" json:"candidateId,omitempty"`
	StartedAt      *time.Time      `json:"startedAt,omitempty"`
	Deadline       *time.Time      `gorm:"index" json:"deadline,omitempty"`
	SubmittedAt    *time.Time      `json:"submittedAt,omitempty"`
	Answers        json.RawMessage `gorm:"type:json" json:"answers,omitempty"` // []string, flat question order
}

func (Attempt) TableName() string {
	return "assessment_attempts"
}

// HasLinkage reports whether this attempt is tied to a college-imported
// candidate and must pass the identity gate.
func (a *Attempt) HasLinkage() bool {
	return a.CollegeID != nil && a.CandidateID != nil
}

// AnswerList decodes the draft answer array, returning an empty slice
// for attempts that have not saved anything yet.
func (a *Attempt) AnswerList() ([]string, error) {
	if len(a.Answers) == 0 {
		return []string{}, nil
	}
	var answers []string
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
