// Package flow holds the assessment-taking state machine: gate checks,
// section/question addressing, deadline math and submission assembly.
// Everything here is pure; persistence lives in the attempt service.
package flow

import (
	"encoding/json"
	"fmt"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
)

// DefaultSectionID and DefaultSectionTitle name the implicit section
// that legacy single-list assessments are folded into.
const (
	DefaultSectionID    = "default"
	DefaultSectionTitle = "General Questions"
)

// Normalize parses a stored assessment definition and returns its
// sections. Legacy definitions with top-level questions and no sections
// become a single default section, so downstream indexing never has to
// care which shape was stored.
func Normalize(raw json.RawMessage) ([]model.Section, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty assessment definition")
	}

	var def model.AssessmentDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("malformed assessment definition: %w", err)
	}

	if len(def.Sections) > 0 {
		return def.Sections, nil
	}

	if len(def.Questions) > 0 {
		return []model.Section{{
			ID:        DefaultSectionID,
			Title:     DefaultSectionTitle,
			Questions: def.Questions,
		}}, nil
	}

	return nil, fmt.Errorf("assessment definition has no questions")
}

// QuestionCount returns the total number of questions across sections.
func QuestionCount(sections []model.Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Questions)
	}
	return n
}

// FlatQuestions returns all questions in section order. The index of a
// question in this slice is its answer-slot index.
func FlatQuestions(sections []model.Section) []model.Question {
	qs := make([]model.Question, 0, QuestionCount(sections))
	for _, s := range sections {
		qs = append(qs, s.Questions...)
	}
	return qs
}

// FlatIndex maps (section index, in-section question index) to the
// position in the flat answer array: the sum of question counts of all
// prior sections plus the in-section index.
func FlatIndex(sections []model.Section, sectionIdx, questionIdx int) (int, error) {
	if sectionIdx < 0 || sectionIdx >= len(sections) {
		return 0, fmt.Errorf("section index %d out of range [0,%d)", sectionIdx, len(sections))
	}
	if questionIdx < 0 || questionIdx >= len(sections[sectionIdx].Questions) {
		return 0, fmt.Errorf("question index %d out of range [0,%d) in section %d",
			questionIdx, len(sections[sectionIdx].Questions), sectionIdx)
	}

	offset := 0
	for i := 0; i < sectionIdx; i++ {
		offset += len(sections[i].Questions)
	}
	return offset + questionIdx, nil
}

// FindQuestion locates a question by id and returns it with its flat
// answer-slot index.
func FindQuestion(sections []model.Section, questionID string) (model.Question, int, bool) {
	idx := 0
	for _, s := range sections {
		for _, q := range s.Questions {
			if q.ID == questionID {
				return q, idx, true
			}
			idx++
		}
	}
	return model.Question{}, 0, false
}

// Navigator tracks the current section with bounds checking. Moving
// between sections never touches the answer array, which spans the
// whole question set.
type Navigator struct {
	Current int
	Total   int
}

func NewNavigator(sections []model.Section) Navigator {
	return Navigator{Current: 0, Total: len(sections)}
}

func (n Navigator) AtFirst() bool { return n.Current == 0 }
func (n Navigator) AtLast() bool  { return n.Current >= n.Total-1 }

// Prev moves back one section; a no-op at the first section.
func (n Navigator) Prev() Navigator {
	if !n.AtFirst() {
		n.Current--
	}
	return n
}

// Next moves forward one section; a no-op at the last section, where
// the caller's forward action becomes submit.
func (n Navigator) Next() Navigator {
	if !n.AtLast() {
		n.Current++
	}
	return n
}
