package flow

import (
	"testing"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_FullAnswerSet(t *testing.T) {
	secs := []model.Section{
		{ID: "s1", Questions: []model.Question{
			{ID: "q1", Text: "Why us?", Type: model.QuestionText},
			{ID: "q2", Text: "Pick one", Type: model.QuestionSingleChoice, Options: []string{"A", "B"}},
		}},
		{ID: "s2", Questions: []model.Question{
			{ID: "q3", Text: "Upload your portfolio", Type: model.QuestionFileUpload},
		}},
	}
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := started.Add(95 * time.Second)
	collegeID := uint(7)
	candidateID := uint(31)

	sub, err := Assemble(AssembleInput{
		AttemptID:       "att-1",
		AssessmentID:    42,
		AssessmentTitle: "Backend Screening",
		Sections:        secs,
		Answers:         []string{"Because.", "B", "https://bucket/assessments/42/q3/1_x.pdf"},
		CandidateName:   "Jane Doe",
		CandidateEmail:  "jane@x.com",
		CollegeID:       &collegeID,
		CandidateID:     &candidateID,
		StartedAt:       started,
		Now:             now,
		Trigger:         model.TriggerManual,
	})
	require.NoError(t, err)

	assert.Equal(t, "att-1", sub.AttemptID)
	assert.Equal(t, uint(42), sub.AssessmentID)
	assert.Equal(t, "Backend Screening", sub.AssessmentTitle)
	assert.Equal(t, "Jane Doe", sub.CandidateName)
	assert.Equal(t, 95, sub.ElapsedSeconds)
	assert.Equal(t, model.TriggerManual, sub.Trigger)
	assert.Equal(t, &collegeID, sub.CollegeID)

	records, err := sub.AnswerRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.AnswerRecord{QuestionID: "q1", QuestionText: "Why us?", Answer: "Because."}, records[0])
	assert.Equal(t, "B", records[1].Answer)
	assert.Equal(t, "https://bucket/assessments/42/q3/1_x.pdf", records[2].Answer)
}

func TestAssemble_TimeoutWithPartialAnswers(t *testing.T) {
	secs := sampleSections(2, 3)
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	sub, err := Assemble(AssembleInput{
		AttemptID:       "att-2",
		AssessmentID:    1,
		AssessmentTitle: "Timed",
		Sections:        secs,
		Answers:         []string{"only the first"},
		StartedAt:       started,
		Now:             started.Add(time.Minute),
		Trigger:         model.TriggerTimeout,
	})
	require.NoError(t, err)

	records, err := sub.AnswerRecords()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "only the first", records[0].Answer)
	for _, r := range records[1:] {
		assert.Empty(t, r.Answer)
	}

	assert.Equal(t, model.TriggerTimeout, sub.Trigger)
	assert.Equal(t, 60, sub.ElapsedSeconds)

	// Unauthenticated context is stamped, not left blank.
	assert.Equal(t, UnknownCandidate, sub.CandidateName)
	assert.Equal(t, UnknownCandidate, sub.CandidateEmail)
	assert.Nil(t, sub.CollegeID)
	assert.Nil(t, sub.CandidateID)
}

func TestAssemble_NoQuestions(t *testing.T) {
	_, err := Assemble(AssembleInput{
		AssessmentID: 9,
		Sections:     nil,
		StartedAt:    time.Now(),
		Now:          time.Now(),
	})
	assert.Error(t, err)
}
