package repository

import (
	"encoding/json"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(a *model.Attempt) error {
	return r.DB.Create(a).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) Update(a *model.Attempt) error {
	return r.DB.Save(a).Error
}

// TransitionState performs a compare-and-set on the attempt state.
// Returns ErrAttemptNotFound when the row is not in the expected state,
// which callers treat as "someone else got there first".
func (r *AttemptRepository) TransitionState(id string, from, to model.AttemptState) error {
	res := r.DB.Model(&model.Attempt{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrAttemptNotFound
	}
	return nil
}

// UpdateAnswer writes one draft answer slot, padding the array out to
// total first. The row is read and rewritten under a FOR UPDATE lock,
// so a slow upload landing its URL cannot clobber answers the candidate
// saved while the file streamed. Only in-progress attempts accept
// writes.
func (r *AttemptRepository) UpdateAnswer(id string, idx, total int, value string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var attempt model.Attempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&attempt).Error; err != nil {
			return err
		}
		if attempt.State != model.AttemptInProgress {
			return util.ErrAttemptNotStarted
		}

		answers, err := attempt.AnswerList()
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
		return tx.Model(&model.Attempt{}).Where("id = ?", attempt.ID).
			Update("answers", json.RawMessage(raw)).Error
	})
}

// ListExpired returns in-progress attempts whose deadline has passed,
// for the auto-submit sweeper.
func (r *AttemptRepository) ListExpired(now time.Time, limit int) ([]model.Attempt, error) {
	var as []model.Attempt
	err := r.DB.Where("state = ? AND deadline IS NOT NULL AND deadline <= ?", model.AttemptInProgress, now).
		Limit(limit).Find(&as).Error
	return as, err
}

// Submit finalizes an attempt inside one transaction: the row is locked
// FOR UPDATE, the state is checked, the submission built and written,
// and the attempt marked submitted. A concurrent manual submit and
// timeout sweep therefore produce exactly one submission; the loser
// sees ErrAlreadySubmitted. A failed submission write rolls everything
// back and the attempt stays in progress, retryable.
func (r *AttemptRepository) Submit(id string, build func(a *model.Attempt) (*model.Submission, error)) (*model.Submission, error) {
	var sub *model.Submission
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var attempt model.Attempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&attempt).Error; err != nil {
			return err
		}

		switch attempt.State {
		case model.AttemptSubmitted:
			return util.ErrAlreadySubmitted
		case model.AttemptInProgress:
			// proceed
		default:
			return util.ErrAttemptNotStarted
		}

		s, err := build(&attempt)
		if err != nil {
			return err
		}

		if err := tx.Create(s).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Attempt{}).Where("id = ?", attempt.ID).
			Updates(map[string]interface{}{
				"state":        model.AttemptSubmitted,
				"submitted_at": s.SubmittedAt,
			}).Error; err != nil {
			return err
		}

		sub = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}
