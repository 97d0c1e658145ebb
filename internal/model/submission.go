package model

import (
	"encoding/json"
	"time"
)

const (
	TriggerManual  = "manual"
	TriggerTimeout = "timeout"
)

// AnswerRecord is one (question, answer) pair in a submission. For
// file-upload questions Answer holds the object URL.
type AnswerRecord struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

// Submission is the one persisted record of a completed (or timed-out)
// attempt. Assessment title and candidate identity are denormalized so
// the record stays readable after staff edit or delete the assessment.
type Submission struct {
	UUIDBase
	AttemptID       string          `gorm:"size:36;uniqueIndex" json:"attemptId"`
	AssessmentID    uint            `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	AssessmentTitle string          `gorm:"size:255" json:"assessmentTitle"`
	CandidateName   string          `gorm:"size:100" json:"candidateName"`
	CandidateEmail  string          `gorm:"size:100" json:"candidateEmail"`
	Answers         json.RawMessage `gorm:"type:json" json:"answers"` // []AnswerRecord
	SubmittedAt     time.Time       `json:"submittedAt"`
	ElapsedSeconds  int             `json:"elapsedSeconds"`
	Trigger         string          `gorm:"size:10;default:'manual'" json:"trigger"`
	CollegeID       *uint           `gorm:"type:bigint unsigned" json:"collegeId,omitempty"`
	CandidateID     *uint           `gorm:"type:bigint unsigned" json:"candidateId,omitempty"`
}

func (Submission) TableName() string {
	return "assessment_submissions"
}

// AnswerRecords decodes the persisted answer triples.
func (s *Submission) AnswerRecords() ([]AnswerRecord, error) {
	var records []AnswerRecord
	if err := json.Unmarshal(s.Answers, &records); err != nil {
		return nil, err
	}
	return records, nil
}
