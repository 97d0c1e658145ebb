package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/flow"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/logger"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sweepBatchSize caps how many expired attempts one sweeper pass closes.
const sweepBatchSize = 100

// AttemptStore is the persistence surface the attempt flow drives.
// repository.AttemptRepository implements it.
type AttemptStore interface {
	Create(a *model.Attempt) error
	FindByID(id string) (*model.Attempt, error)
	Update(a *model.Attempt) error
	TransitionState(id string, from, to model.AttemptState) error
	UpdateAnswer(id string, idx, total int, value string) error
	ListExpired(now time.Time, limit int) ([]model.Attempt, error)
	Submit(id string, build func(a *model.Attempt) (*model.Submission, error)) (*model.Submission, error)
}

// AssessmentStore resolves the assessment an attempt belongs to.
type AssessmentStore interface {
	FindByID(id uint) (*model.Assessment, error)
}

// CandidateStore resolves college candidate records for the identity
// gate.
type CandidateStore interface {
	FindCandidate(collegeID, candidateID uint) (*model.CollegeCandidate, error)
}

// UploadStateStore tracks in-flight file uploads per question.
// UploadTracker implements it on redis.
type UploadStateStore interface {
	Get(ctx context.Context, attemptID, questionID string) (flow.UploadState, error)
	Set(ctx context.Context, attemptID, questionID string, st flow.UploadState) error
	Claim(ctx context.Context, attemptID, questionID string) (bool, error)
	Release(ctx context.Context, attemptID, questionID string)
	Transition(ctx context.Context, attemptID, questionID string, fn func(flow.UploadState) flow.UploadState)
	Clear(ctx context.Context, attemptID, questionID string)
}

// AttemptService runs a candidate's pass through an assessment: gate
// checks, the countdown, draft answers, file uploads, and the one-shot
// submission at the end.
type AttemptService struct {
	attemptRepo       AttemptStore
	assessmentRepo    AssessmentStore
	collegeRepo       CandidateStore
	assessmentService *AssessmentService
	storage           *StorageService
	tracker           UploadStateStore
}

func NewAttemptService(
	attemptRepo AttemptStore,
	assessmentRepo AssessmentStore,
	collegeRepo CandidateStore,
	assessmentService *AssessmentService,
	storage *StorageService,
	tracker UploadStateStore,
) *AttemptService {
	return &AttemptService{
		attemptRepo:       attemptRepo,
		assessmentRepo:    assessmentRepo,
		collegeRepo:       collegeRepo,
		assessmentService: assessmentService,
		storage:           storage,
		tracker:           tracker,
	}
}

// AttemptView is what the candidate client sees. Sections only appear
// once the gate is passed; the passcode never appears at all.
type AttemptView struct {
	ID               string             `json:"id"`
	State            model.AttemptState `json:"state"`
	AssessmentTitle  string             `json:"assessmentTitle"`
	Description      string             `json:"description,omitempty"`
	TimeLimit        int                `json:"timeLimit"`
	RemainingSeconds int                `json:"remainingSeconds"`
	CandidateName    string             `json:"candidateName,omitempty"`
	Sections         []model.Section    `json:"sections,omitempty"`
	Answers          []string           `json:"answers,omitempty"`
}

func (s *AttemptService) view(attempt *model.Attempt, assessment *model.Assessment) (*AttemptView, error) {
	v := &AttemptView{
		ID:               attempt.ID,
		State:            attempt.State,
		AssessmentTitle:  assessment.Title,
		Description:      assessment.Description,
		TimeLimit:        assessment.TimeLimit,
		RemainingSeconds: flow.Remaining(attempt.Deadline, time.Now()),
		CandidateName:    attempt.CandidateName,
	}

	switch attempt.State {
	case model.AttemptUnlocked, model.AttemptInProgress:
		sections, err := flow.Normalize(assessment.Definition)
		if err != nil {
			return nil, err
		}
		v.Sections = sections

		answers, err := attempt.AnswerList()
		if err != nil {
			return nil, err
		}
		v.Answers = answers
	}

	return v, nil
}

// Begin creates an attempt for a share link. A college linkage on the
// link puts the attempt behind the identity gate; otherwise a passcode
// on the assessment puts it behind the passcode gate.
func (s *AttemptService) Begin(ctx context.Context, token string, collegeID, candidateID *uint) (*AttemptView, error) {
	assessment, err := s.assessmentService.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		AssessmentID: assessment.ID,
	}

	hasLinkage := collegeID != nil && candidateID != nil
	if hasLinkage {
		// A dangling linkage falls back to the passcode/open path
		// rather than locking the candidate out forever.
		if _, err := s.collegeRepo.FindCandidate(*collegeID, *candidateID); err == nil {
			attempt.CollegeID = collegeID
			attempt.CandidateID = candidateID
		} else {
			hasLinkage = false
		}
	}

	attempt.State = model.AttemptState(flow.InitialGate(assessment.HasPasscode(), hasLinkage))

	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return s.view(attempt, assessment)
}

func (s *AttemptService) load(attemptID string) (*model.Attempt, *model.Assessment, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, util.ErrAttemptNotFound
		}
		return nil, nil, err
	}

	assessment, err := s.assessmentRepo.FindByID(attempt.AssessmentID)
	if err != nil {
		return nil, nil, util.ErrAssessmentNotFound
	}
	return attempt, assessment, nil
}

func (s *AttemptService) Get(attemptID string) (*AttemptView, error) {
	attempt, assessment, err := s.load(attemptID)
	if err != nil {
		return nil, err
	}
	return s.view(attempt, assessment)
}

// UnlockPasscode checks the submitted passcode against the assessment.
// The comparison is exact; a miss leaves the attempt locked and is not
// counted or limited.
func (s *AttemptService) UnlockPasscode(attemptID, passcode string) (*AttemptView, error) {
	attempt, assessment, err := s.load(attemptID)
	if err != nil {
		return nil, err
	}

	next, err := flow.VerifyPasscode(flow.GateState(attempt.State), assessment.Passcode, passcode)
	if err != nil {
		return nil, err
	}

	if next != flow.GateState(attempt.State) {
		if err := s.attemptRepo.TransitionState(attemptID, attempt.State, model.AttemptState(next)); err != nil {
			return nil, err
		}
		attempt.State = model.AttemptState(next)
	}
	return s.view(attempt, assessment)
}

// UnlockIdentity checks the submitted name and email against the
// college candidate record the share link referenced.
func (s *AttemptService) UnlockIdentity(attemptID, name, email string) (*AttemptView, error) {
	attempt, assessment, err := s.load(attemptID)
	if err != nil {
		return nil, err
	}

	if !attempt.HasLinkage() {
		return nil, flow.ErrGateNotApplicable
	}

	candidate, err := s.collegeRepo.FindCandidate(*attempt.CollegeID, *attempt.CandidateID)
	if err != nil {
		return nil, util.ErrCandidateNotFound
	}

	record := flow.Identity{Name: candidate.Name, Email: candidate.Email}
	given := flow.Identity{Name: name, Email: email}

	next, err := flow.VerifyIdentity(flow.GateState(attempt.State), record, given)
	if err != nil {
		return nil, err
	}

	if next != flow.GateState(attempt.State) {
		// Identity comes from the verified record, not the form input.
		attempt.State = model.AttemptState(next)
		attempt.CandidateName = candidate.Name
		attempt.CandidateEmail = candidate.Email
		if err := s.attemptRepo.Update(attempt); err != nil {
			return nil, err
		}
	}
	return s.view(attempt, assessment)
}

// Start arms the countdown. Only an unlocked attempt can start; the
// deadline is fixed server-side at start time and never extended.
func (s *AttemptService) Start(attemptID string) (*AttemptView, error) {
	attempt, assessment, err := s.load(attemptID)
	if err != nil {
		return nil, err
	}

	switch attempt.State {
	case model.AttemptUnlocked:
		// proceed
	case model.AttemptInProgress:
		return s.view(attempt, assessment)
	case model.AttemptSubmitted:
		return nil, util.ErrAlreadySubmitted
	default:
		return nil, util.ErrAttemptLocked
	}

	now := time.Now()
	attempt.State = model.AttemptInProgress
	attempt.StartedAt = &now
	attempt.Deadline = flow.Deadline(now, assessment.TimeLimit)

	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, err
	}
	return s.view(attempt, assessment)
}

// SaveAnswer stores one draft answer by section and question index. The
// slot is written in place, so saves for other questions are never
// disturbed. A save that arrives after the deadline closes the attempt
// instead.
func (s *AttemptService) SaveAnswer(ctx context.Context, attemptID string, sectionIdx, questionIdx int, value string) error {
	attempt, assessment, err := s.load(attemptID)
	if err != nil {
		return err
	}

	if attempt.State != model.AttemptInProgress {
		if attempt.State == model.AttemptSubmitted {
			return util.ErrAlreadySubmitted
		}
		return util.ErrAttemptNotStarted
	}

	if flow.Expired(attempt.Deadline, time.Now()) {
		s.closeExpired(ctx, attempt.ID)
		return util.ErrAttemptExpired
	}

	sections, err := flow.Normalize(assessment.Definition)
	if err != nil {
		return err
	}

	idx, err := flow.FlatIndex(sections, sectionIdx, questionIdx)
	if err != nil {
		return err
	}

	return s.attemptRepo.UpdateAnswer(attemptID, idx, flow.QuestionCount(sections), value)
}

// UploadAnswerFile streams a file answer to storage, tracking progress
// in redis so the client can poll. On success the object URL becomes
// the question's answer; on failure the slot stays empty and the
// question is retryable. The answer slot is written only after the
// transfer finishes, and in place, so answers saved while the file
// streamed survive.
func (s *AttemptService) UploadAnswerFile(ctx context.Context, attemptID, questionID, filename string, r io.Reader, size int64, contentType string) (flow.UploadState, error) {
	attempt, assessment, err := s.load(attemptID)
	if err != nil {
		return flow.UploadState{}, err
	}

	if attempt.State != model.AttemptInProgress {
		return flow.UploadState{}, util.ErrAttemptNotStarted
	}
	if flow.Expired(attempt.Deadline, time.Now()) {
		s.closeExpired(ctx, attempt.ID)
		return flow.UploadState{}, util.ErrAttemptExpired
	}

	sections, err := flow.Normalize(assessment.Definition)
	if err != nil {
		return flow.UploadState{}, err
	}

	question, flatIdx, ok := flow.FindQuestion(sections, questionID)
	if !ok {
		return flow.UploadState{}, util.ErrNotFileQuestion
	}
	if question.Type != model.QuestionFileUpload {
		return flow.UploadState{}, util.ErrNotFileQuestion
	}

	current, err := s.tracker.Get(ctx, attemptID, questionID)
	if err == nil && !current.Retryable() {
		return current, util.ErrUploadNotRetryable
	}

	// The claim makes the one-in-flight rule atomic; the state check
	// above alone would let two simultaneous requests both pass.
	if ok, err := s.tracker.Claim(ctx, attemptID, questionID); err == nil && !ok {
		return current, util.ErrUploadNotRetryable
	}
	defer s.tracker.Release(ctx, attemptID, questionID)

	// Sniff the head before streaming so an unsupported file never
	// reaches the store.
	head := make([]byte, 512)
	n, readErr := io.ReadFull(r, head)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return flow.UploadState{}, readErr
	}
	if _, err := util.ValidateMimeType(bytes.NewReader(head[:n]), util.AllowedResumeTypes); err != nil {
		return flow.UploadState{}, util.ErrUnsupportedFileType
	}
	r = io.MultiReader(bytes.NewReader(head[:n]), r)

	state := flow.NewUploadState().Uploading()
	_ = s.tracker.Set(ctx, attemptID, questionID, state)

	key := flow.ObjectKey(assessment.ID, questionID, filename, time.Now())
	url, err := s.storage.UploadWithProgress(ctx, key, r, size, contentType, func(transferred, total int64) {
		s.tracker.Transition(ctx, attemptID, questionID, func(st flow.UploadState) flow.UploadState {
			return st.WithProgress(flow.ProgressPercent(transferred, total))
		})
	})
	if err != nil {
		state = state.Failed(err.Error())
		_ = s.tracker.Set(ctx, attemptID, questionID, state)
		return state, nil
	}

	state = state.Succeeded(url)
	_ = s.tracker.Set(ctx, attemptID, questionID, state)

	if err := s.attemptRepo.UpdateAnswer(attemptID, flatIdx, flow.QuestionCount(sections), url); err != nil {
		return state, err
	}
	return state, nil
}

// UploadProgress reports the tracker state for one file question.
func (s *AttemptService) UploadProgress(ctx context.Context, attemptID, questionID string) (flow.UploadState, error) {
	if _, err := s.attemptRepo.FindByID(attemptID); err != nil {
		return flow.UploadState{}, util.ErrAttemptNotFound
	}
	return s.tracker.Get(ctx, attemptID, questionID)
}

// Submit finalizes the attempt. A manual submit that lands after the
// deadline is recorded with the timeout trigger; either way exactly one
// submission row exists afterwards.
func (s *AttemptService) Submit(ctx context.Context, attemptID string) (*model.Submission, error) {
	return s.submit(ctx, attemptID, model.TriggerManual)
}

func (s *AttemptService) submit(ctx context.Context, attemptID, trigger string) (*model.Submission, error) {
	_, assessment, err := s.load(attemptID)
	if err != nil {
		return nil, err
	}

	sections, err := flow.Normalize(assessment.Definition)
	if err != nil {
		return nil, err
	}

	sub, err := s.attemptRepo.Submit(attemptID, func(a *model.Attempt) (*model.Submission, error) {
		answers, err := a.AnswerList()
		if err != nil {
			return nil, err
		}

		now := time.Now()
		startedAt := now
		if a.StartedAt != nil {
			startedAt = *a.StartedAt
		}

		effective := trigger
		if effective == model.TriggerManual && flow.Expired(a.Deadline, now) {
			effective = model.TriggerTimeout
		}

		return flow.Assemble(flow.AssembleInput{
			AttemptID:       a.ID,
			AssessmentID:    assessment.ID,
			AssessmentTitle: assessment.Title,
			Sections:        sections,
			Answers:         answers,
			CandidateName:   a.CandidateName,
			CandidateEmail:  a.CandidateEmail,
			CollegeID:       a.CollegeID,
			CandidateID:     a.CandidateID,
			StartedAt:       startedAt,
			Now:             now,
			Trigger:         effective,
		})
	})
	if err != nil {
		return nil, err
	}

	// The attempt is closed; upload tracker state can only go stale now.
	for _, q := range flow.FlatQuestions(sections) {
		if q.Type == model.QuestionFileUpload {
			s.tracker.Clear(ctx, attemptID, q.ID)
		}
	}

	monitoring.SubmissionCounter.WithLabelValues(sub.Trigger).Inc()
	return sub, nil
}

func (s *AttemptService) closeExpired(ctx context.Context, attemptID string) {
	if _, err := s.submit(ctx, attemptID, model.TriggerTimeout); err != nil && err != util.ErrAlreadySubmitted {
		logger.Log.Warn("closing expired attempt failed",
			zap.String("attempt_id", attemptID), zap.Error(err))
	}
}

// SweepExpired auto-submits in-progress attempts whose deadline has
// passed, with whatever answers they had saved. Runs on a ticker in the
// app and is safe to run concurrently with manual submits.
func (s *AttemptService) SweepExpired(ctx context.Context) int {
	expired, err := s.attemptRepo.ListExpired(time.Now(), sweepBatchSize)
	if err != nil {
		logger.Log.Error("expired attempt sweep failed", zap.Error(err))
		return 0
	}

	closed := 0
	for _, attempt := range expired {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.submit(ctx, attempt.ID, model.TriggerTimeout); err != nil {
			if err != util.ErrAlreadySubmitted {
				logger.Log.Warn("auto-submit failed",
					zap.String("attempt_id", attempt.ID), zap.Error(err))
			}
			continue
		}
		closed++
	}

	if closed > 0 {
		logger.Log.Info("auto-submitted expired attempts", zap.Int("count", closed))
	}
	return closed
}
