package service

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/flow"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

const screenDefinition = `{"sections":[{"id":"s1","title":"Coding Screen","questions":[
	{"id":"q1","text":"Describe your approach","type":"text"},
	{"id":"q2","text":"Upload your solution","type":"file_upload"}]}]}`

// memAttemptStore mirrors AttemptRepository semantics in memory: state
// checks and answer-slot writes happen under one lock, submits are
// exactly-once.
type memAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*model.Attempt
	subs     []*model.Submission
}

func newMemAttemptStore(attempts ...*model.Attempt) *memAttemptStore {
	s := &memAttemptStore{attempts: map[string]*model.Attempt{}}
	for _, a := range attempts {
		s.attempts[a.ID] = a
	}
	return s
}

func (m *memAttemptStore) Create(a *model.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *memAttemptStore) FindByID(id string) (*model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAttemptStore) Update(a *model.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.attempts[a.ID] = &cp
	return nil
}

func (m *memAttemptStore) TransitionState(id string, from, to model.AttemptState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok || a.State != from {
		return util.ErrAttemptNotFound
	}
	a.State = to
	return nil
}

func (m *memAttemptStore) UpdateAnswer(id string, idx, total int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if a.State != model.AttemptInProgress {
		return util.ErrAttemptNotStarted
	}
	answers, err := a.AnswerList()
	if err != nil {
		return err
	}
	for len(answers) < total || len(answers) <= idx {
		answers = append(answers, "")
	}
	answers[idx] = value
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	a.Answers = raw
	return nil
}

func (m *memAttemptStore) ListExpired(now time.Time, limit int) ([]model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Attempt
	for _, a := range m.attempts {
		if a.State == model.AttemptInProgress && a.Deadline != nil && !now.Before(*a.Deadline) {
			out = append(out, *a)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memAttemptStore) Submit(id string, build func(*model.Attempt) (*model.Submission, error)) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	switch a.State {
	case model.AttemptSubmitted:
		return nil, util.ErrAlreadySubmitted
	case model.AttemptInProgress:
		// proceed
	default:
		return nil, util.ErrAttemptNotStarted
	}
	sub, err := build(a)
	if err != nil {
		return nil, err
	}
	m.subs = append(m.subs, sub)
	a.State = model.AttemptSubmitted
	a.SubmittedAt = &sub.SubmittedAt
	return sub, nil
}

func (m *memAttemptStore) answers(t *testing.T, id string) []string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	answers, err := m.attempts[id].AnswerList()
	require.NoError(t, err)
	return answers
}

func (m *memAttemptStore) submissions() []*model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Submission(nil), m.subs...)
}

type memAssessmentStore struct {
	assessments map[uint]*model.Assessment
}

func (m *memAssessmentStore) FindByID(id uint) (*model.Assessment, error) {
	a, ok := m.assessments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func screenAssessments() *memAssessmentStore {
	return &memAssessmentStore{assessments: map[uint]*model.Assessment{
		1: {
			BaseModel:  model.BaseModel{ID: 1},
			Title:      "Backend Screen",
			TimeLimit:  30,
			Definition: json.RawMessage(screenDefinition),
		},
	}}
}

type memUploadStateStore struct {
	mu     sync.Mutex
	states map[string]flow.UploadState
	claims map[string]bool
}

func newMemUploadStateStore() *memUploadStateStore {
	return &memUploadStateStore{
		states: map[string]flow.UploadState{},
		claims: map[string]bool{},
	}
}

func (m *memUploadStateStore) key(attemptID, questionID string) string {
	return attemptID + ":" + questionID
}

func (m *memUploadStateStore) Get(_ context.Context, attemptID, questionID string) (flow.UploadState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[m.key(attemptID, questionID)]
	if !ok {
		return flow.NewUploadState(), nil
	}
	return st, nil
}

func (m *memUploadStateStore) Set(_ context.Context, attemptID, questionID string, st flow.UploadState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[m.key(attemptID, questionID)] = st
	return nil
}

func (m *memUploadStateStore) Claim(_ context.Context, attemptID, questionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(attemptID, questionID)
	if m.claims[k] {
		return false, nil
	}
	m.claims[k] = true
	return true, nil
}

func (m *memUploadStateStore) Release(_ context.Context, attemptID, questionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, m.key(attemptID, questionID))
}

func (m *memUploadStateStore) Transition(_ context.Context, attemptID, questionID string, fn func(flow.UploadState) flow.UploadState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(attemptID, questionID)
	st, ok := m.states[k]
	if !ok {
		st = flow.NewUploadState()
	}
	m.states[k] = fn(st)
}

func (m *memUploadStateStore) Clear(_ context.Context, attemptID, questionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, m.key(attemptID, questionID))
	delete(m.claims, m.key(attemptID, questionID))
}

// gatedProvider blocks inside Upload until proceed closes, so a test
// can interleave other calls while a transfer is mid-stream.
type gatedProvider struct {
	started chan struct{}
	proceed chan struct{}
}

func (p *gatedProvider) Upload(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	if p.started != nil {
		close(p.started)
	}
	if p.proceed != nil {
		<-p.proceed
	}
	return "https://files.example.com/" + filename, nil
}

func (p *gatedProvider) Delete(context.Context, string) error { return nil }

func (p *gatedProvider) GetURL(filename string) string {
	return "https://files.example.com/" + filename
}

func inProgressAttempt(id string, deadline time.Time) *model.Attempt {
	started := deadline.Add(-30 * time.Minute)
	return &model.Attempt{
		UUIDBase:     model.UUIDBase{ID: id},
		AssessmentID: 1,
		State:        model.AttemptInProgress,
		StartedAt:    &started,
		Deadline:     &deadline,
	}
}

func newAttemptService(store *memAttemptStore, provider StorageProvider, tracker UploadStateStore) *AttemptService {
	return NewAttemptService(store, screenAssessments(), nil, nil, &StorageService{Provider: provider}, tracker)
}

func TestSaveAnswerSurvivesInFlightUpload(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(20*time.Minute)))
	provider := &gatedProvider{started: make(chan struct{}), proceed: make(chan struct{})}
	svc := newAttemptService(store, provider, newMemUploadStateStore())

	ctx := context.Background()
	body := "%PDF-1.4 solution writeup"

	done := make(chan flow.UploadState, 1)
	go func() {
		st, err := svc.UploadAnswerFile(ctx, "att-1", "q2", "solution.pdf",
			strings.NewReader(body), int64(len(body)), "application/pdf")
		assert.NoError(t, err)
		done <- st
	}()

	// While the file streams, the candidate keeps answering.
	<-provider.started
	require.NoError(t, svc.SaveAnswer(ctx, "att-1", 0, 0, "two pointers over a sorted slice"))
	close(provider.proceed)

	st := <-done
	assert.Equal(t, flow.UploadSucceeded, st.Status)

	answers := store.answers(t, "att-1")
	require.Len(t, answers, 2)
	assert.Equal(t, "two pointers over a sorted slice", answers[0])
	assert.Equal(t, st.URL, answers[1])
}

func TestUploadAfterSuccessNotRetryable(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(20*time.Minute)))
	svc := newAttemptService(store, &gatedProvider{}, newMemUploadStateStore())

	ctx := context.Background()
	body := "%PDF-1.4 first"
	first, err := svc.UploadAnswerFile(ctx, "att-1", "q2", "first.pdf",
		strings.NewReader(body), int64(len(body)), "application/pdf")
	require.NoError(t, err)
	require.Equal(t, flow.UploadSucceeded, first.Status)

	second, err := svc.UploadAnswerFile(ctx, "att-1", "q2", "second.pdf",
		strings.NewReader(body), int64(len(body)), "application/pdf")
	assert.ErrorIs(t, err, util.ErrUploadNotRetryable)
	assert.Equal(t, first.URL, second.URL)
}

func TestUploadClaimBlocksSecondUpload(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(20*time.Minute)))
	tracker := newMemUploadStateStore()
	svc := newAttemptService(store, &gatedProvider{}, tracker)

	ctx := context.Background()

	// Another request holds the in-flight claim but has not yet written
	// the uploading state.
	ok, err := tracker.Claim(ctx, "att-1", "q2")
	require.NoError(t, err)
	require.True(t, ok)

	body := "%PDF-1.4 racer"
	_, err = svc.UploadAnswerFile(ctx, "att-1", "q2", "racer.pdf",
		strings.NewReader(body), int64(len(body)), "application/pdf")
	assert.ErrorIs(t, err, util.ErrUploadNotRetryable)
	assert.Empty(t, store.answers(t, "att-1"))
}

func TestSubmitRaceProducesOneSubmission(t *testing.T) {
	attempt := inProgressAttempt("att-1", time.Now().Add(-time.Minute))
	attempt.Answers = json.RawMessage(`["drafted before the deadline"]`)
	store := newMemAttemptStore(attempt)
	svc := newAttemptService(store, &gatedProvider{}, newMemUploadStateStore())

	ctx := context.Background()
	var wg sync.WaitGroup
	var manualErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, manualErr = svc.Submit(ctx, "att-1")
	}()
	go func() {
		defer wg.Done()
		svc.SweepExpired(ctx)
	}()
	wg.Wait()

	subs := store.submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, model.TriggerTimeout, subs[0].Trigger)
	assert.Equal(t, "drafted before the deadline", mustAnswer(t, subs[0], 0))
	if manualErr != nil {
		assert.ErrorIs(t, manualErr, util.ErrAlreadySubmitted)
	}
}

func TestConcurrentManualSubmits(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(20*time.Minute)))
	svc := newAttemptService(store, &gatedProvider{}, newMemUploadStateStore())

	ctx := context.Background()
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(ctx, "att-1")
		}(i)
	}
	wg.Wait()

	subs := store.submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, model.TriggerManual, subs[0].Trigger)

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, util.ErrAlreadySubmitted)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestManualSubmitAfterDeadlineRecordsTimeout(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(-time.Second)))
	svc := newAttemptService(store, &gatedProvider{}, newMemUploadStateStore())

	sub, err := svc.Submit(context.Background(), "att-1")
	require.NoError(t, err)
	assert.Equal(t, model.TriggerTimeout, sub.Trigger)
}

func TestManualSubmitBeforeDeadlineRecordsManual(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(20*time.Minute)))
	svc := newAttemptService(store, &gatedProvider{}, newMemUploadStateStore())

	sub, err := svc.Submit(context.Background(), "att-1")
	require.NoError(t, err)
	assert.Equal(t, model.TriggerManual, sub.Trigger)
}

func TestSubmitClearsUploadTracker(t *testing.T) {
	store := newMemAttemptStore(inProgressAttempt("att-1", time.Now().Add(20*time.Minute)))
	tracker := newMemUploadStateStore()
	svc := newAttemptService(store, &gatedProvider{}, tracker)

	ctx := context.Background()
	body := "%PDF-1.4 solution"
	_, err := svc.UploadAnswerFile(ctx, "att-1", "q2", "solution.pdf",
		strings.NewReader(body), int64(len(body)), "application/pdf")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "att-1")
	require.NoError(t, err)

	st, err := tracker.Get(ctx, "att-1", "q2")
	require.NoError(t, err)
	assert.Equal(t, flow.UploadIdle, st.Status)
}

func mustAnswer(t *testing.T, sub *model.Submission, idx int) string {
	t.Helper()
	records, err := sub.AnswerRecords()
	require.NoError(t, err)
	require.Greater(t, len(records), idx)
	return records[idx].Answer
}
