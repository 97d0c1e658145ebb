package flow

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSections(counts ...int) []model.Section {
	secs := make([]model.Section, len(counts))
	qn := 0
	for i, c := range counts {
		sec := model.Section{ID: string(rune('a' + i)), Title: "Section"}
		for j := 0; j < c; j++ {
			qn++
			sec.Questions = append(sec.Questions, model.Question{
				ID:   "q" + strconv.Itoa(qn),
				Text: "q",
				Type: model.QuestionText,
			})
		}
		secs[i] = sec
	}
	return secs
}

func TestNormalize_NativeSections(t *testing.T) {
	raw := json.RawMessage(`{
		"sections": [
			{"id": "s1", "title": "Basics", "questions": [
				{"id": "q1", "text": "Tell us about yourself", "type": "text"}
			]},
			{"id": "s2", "title": "Choices", "questions": [
				{"id": "q2", "text": "Pick one", "type": "single_choice", "options": ["A", "B"]}
			]}
		]
	}`)

	secs, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, secs, 2)
	assert.Equal(t, "Basics", secs[0].Title)
	assert.Equal(t, []string{"A", "B"}, secs[1].Questions[0].Options)
}

func TestNormalize_LegacyTopLevelQuestions(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"id": "q1", "text": "First", "type": "text"},
			{"id": "q2", "text": "Second", "type": "file_upload"}
		]
	}`)

	secs, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, secs, 1)
	assert.Equal(t, DefaultSectionID, secs[0].ID)
	assert.Equal(t, DefaultSectionTitle, secs[0].Title)
	require.Len(t, secs[0].Questions, 2)
	assert.Equal(t, "q1", secs[0].Questions[0].ID)
	assert.Equal(t, "q2", secs[0].Questions[1].ID)

	// Downstream indexing behaves like a native single-section assessment.
	idx, err := FlatIndex(secs, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, QuestionCount(secs))
}

func TestNormalize_Invalid(t *testing.T) {
	for name, raw := range map[string]json.RawMessage{
		"empty":        nil,
		"bad json":     json.RawMessage(`{not json`),
		"no questions": json.RawMessage(`{}`),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(raw)
			assert.Error(t, err)
		})
	}
}

func TestFlatIndex_OffsetAcrossSections(t *testing.T) {
	secs := sampleSections(2, 3)

	// 2nd question of the 2nd section: 2 + 1 = 3 (0-based).
	idx, err := FlatIndex(secs, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	idx, err = FlatIndex(secs, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = FlatIndex(secs, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, idx)
}

func TestFlatIndex_Bounds(t *testing.T) {
	secs := sampleSections(2, 3)

	for _, tc := range [][2]int{{-1, 0}, {2, 0}, {0, 2}, {1, 3}, {0, -1}} {
		_, err := FlatIndex(secs, tc[0], tc[1])
		assert.Error(t, err, "section=%d question=%d", tc[0], tc[1])
	}
}

func TestFlatQuestions_OrderMatchesIndex(t *testing.T) {
	secs := []model.Section{
		{ID: "s1", Questions: []model.Question{{ID: "a"}, {ID: "b"}}},
		{ID: "s2", Questions: []model.Question{{ID: "c"}}},
	}

	qs := FlatQuestions(secs)
	require.Len(t, qs, 3)
	assert.Equal(t, "a", qs[0].ID)
	assert.Equal(t, "b", qs[1].ID)
	assert.Equal(t, "c", qs[2].ID)

	q, idx, ok := FindQuestion(secs, "c")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "c", q.ID)

	_, _, ok = FindQuestion(secs, "zzz")
	assert.False(t, ok)
}

func TestNavigator_Bounds(t *testing.T) {
	nav := NewNavigator(sampleSections(1, 1, 1))
	assert.True(t, nav.AtFirst())
	assert.False(t, nav.AtLast())

	// Prev at the first section is a no-op.
	nav = nav.Prev()
	assert.Equal(t, 0, nav.Current)

	nav = nav.Next().Next()
	assert.True(t, nav.AtLast())

	// Next at the last section is a no-op; the action becomes submit.
	nav = nav.Next()
	assert.Equal(t, 2, nav.Current)
}

func TestNavigator_SingleSection(t *testing.T) {
	nav := NewNavigator(sampleSections(4))
	assert.True(t, nav.AtFirst())
	assert.True(t, nav.AtLast())
}
