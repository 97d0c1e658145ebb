package flow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
)

// UnknownCandidate is stamped on submissions from attempts with no
// gate-verified identity.
const UnknownCandidate = "N/A"

// AssembleInput carries everything the assembler needs; all fields come
// from the attempt row and the assessment definition.
type AssembleInput struct {
	AttemptID       string
	AssessmentID    uint
	AssessmentTitle string
	Sections        []model.Section
	Answers         []string // flat, may be shorter than the question count
	CandidateName   string
	CandidateEmail  string
	CollegeID       *uint
	CandidateID     *uint
	StartedAt       time.Time
	Now             time.Time
	Trigger         string
}

// Assemble produces the single submission record for an attempt. Missing
// answers become empty strings so the triples always cover the full
// question set in order.
func Assemble(in AssembleInput) (*model.Submission, error) {
	questions := FlatQuestions(in.Sections)
	if len(questions) == 0 {
		return nil, fmt.Errorf("assessment %d has no questions", in.AssessmentID)
	}

	records := make([]model.AnswerRecord, len(questions))
	for i, q := range questions {
		answer := ""
		if i < len(in.Answers) {
			answer = in.Answers[i]
		}
		records[i] = model.AnswerRecord{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Answer:       answer,
		}
	}

	answersJSON, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	name := in.CandidateName
	if name == "" {
		name = UnknownCandidate
	}
	email := in.CandidateEmail
	if email == "" {
		email = UnknownCandidate
	}

	trigger := in.Trigger
	if trigger == "" {
		trigger = model.TriggerManual
	}

	return &model.Submission{
		AttemptID:       in.AttemptID,
		AssessmentID:    in.AssessmentID,
		AssessmentTitle: in.AssessmentTitle,
		CandidateName:   name,
		CandidateEmail:  email,
		Answers:         answersJSON,
		SubmittedAt:     in.Now,
		ElapsedSeconds:  Elapsed(in.StartedAt, in.Now),
		Trigger:         trigger,
		CollegeID:       in.CollegeID,
		CandidateID:     in.CandidateID,
	}, nil
}
