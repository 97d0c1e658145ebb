package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/config"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/flow"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const assessmentCacheTTL = 5 * time.Minute

type AssessmentService struct {
	assessmentRepo *repository.AssessmentRepository
	submissionRepo *repository.SubmissionRepository
	rdb            *redis.Client
	config         *config.Config
}

func NewAssessmentService(
	assessmentRepo *repository.AssessmentRepository,
	submissionRepo *repository.SubmissionRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		submissionRepo: submissionRepo,
		rdb:            rdb,
		config:         cfg,
	}
}

type AssessmentInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Passcode    string          `json:"passcode"`
	TimeLimit   int             `json:"timeLimit" binding:"gte=0"`
	Definition  json.RawMessage `json:"definition" binding:"required"`
}

func (s *AssessmentService) Create(input *AssessmentInput) (*model.Assessment, error) {
	if _, err := flow.Normalize(input.Definition); err != nil {
		return nil, err
	}

	assessment := &model.Assessment{
		Title:       input.Title,
		Description: input.Description,
		Passcode:    input.Passcode,
		TimeLimit:   input.TimeLimit,
		Definition:  input.Definition,
		ShareToken:  uuid.New().String(),
	}
	if err := s.assessmentRepo.Create(assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *AssessmentService) GetByID(id uint) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return assessment, nil
}

func (s *AssessmentService) List(page, limit int, search string) ([]model.Assessment, int64, error) {
	return s.assessmentRepo.List(page, limit, search)
}

func (s *AssessmentService) Update(id uint, input *AssessmentInput) (*model.Assessment, error) {
	assessment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if _, err := flow.Normalize(input.Definition); err != nil {
		return nil, err
	}

	assessment.Title = input.Title
	assessment.Description = input.Description
	assessment.Passcode = input.Passcode
	assessment.TimeLimit = input.TimeLimit
	assessment.Definition = input.Definition

	if err := s.assessmentRepo.Update(assessment); err != nil {
		return nil, err
	}

	s.invalidateCache(assessment.ShareToken)
	return assessment, nil
}

func (s *AssessmentService) Publish(id uint) (*model.Assessment, error) {
	assessment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	assessment.IsPublished = true
	assessment.PublishedAt = &now

	if err := s.assessmentRepo.Update(assessment); err != nil {
		return nil, err
	}

	s.invalidateCache(assessment.ShareToken)
	return assessment, nil
}

func (s *AssessmentService) Unpublish(id uint) (*model.Assessment, error) {
	assessment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	assessment.IsPublished = false

	if err := s.assessmentRepo.Update(assessment); err != nil {
		return nil, err
	}

	s.invalidateCache(assessment.ShareToken)
	return assessment, nil
}

func (s *AssessmentService) Delete(id uint) error {
	assessment, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.assessmentRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCache(assessment.ShareToken)
	return nil
}

// ShareURL is the public link candidates open to begin an attempt.
func (s *AssessmentService) ShareURL(assessment *model.Assessment) string {
	return fmt.Sprintf("%s/assessment/%s", s.config.Server.BaseURL, assessment.ShareToken)
}

func assessmentCacheKey(token string) string {
	return "assessment:token:" + token
}

func (s *AssessmentService) invalidateCache(token string) {
	if s.rdb != nil {
		_ = s.rdb.Del(context.Background(), assessmentCacheKey(token)).Err()
	}
}

// GetByShareToken resolves the public candidate link. Published
// assessments are cached; an unpublished or missing token reads as not
// found so the public surface leaks nothing.
func (s *AssessmentService) GetByShareToken(ctx context.Context, token string) (*model.Assessment, error) {
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, assessmentCacheKey(token)).Bytes(); err == nil {
			var a model.Assessment
			if json.Unmarshal(data, &a) == nil {
				return &a, nil
			}
		}
	}

	assessment, err := s.assessmentRepo.FindByShareToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAssessmentNotLive
		}
		return nil, err
	}
	if !assessment.IsPublished {
		return nil, util.ErrAssessmentNotLive
	}

	if s.rdb != nil {
		if data, err := json.Marshal(assessment); err == nil {
			_ = s.rdb.Set(ctx, assessmentCacheKey(token), data, assessmentCacheTTL).Err()
		}
	}
	return assessment, nil
}

func (s *AssessmentService) ListSubmissions(page, limit int, assessmentID uint, search string) ([]model.Submission, int64, error) {
	return s.submissionRepo.List(page, limit, assessmentID, search)
}

func (s *AssessmentService) GetSubmission(id string) (*model.Submission, error) {
	sub, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *AssessmentService) DeleteSubmission(id string) error {
	if _, err := s.GetSubmission(id); err != nil {
		return err
	}
	return s.submissionRepo.Delete(id)
}

// ExportSubmissions writes submissions for one assessment (or all, when
// assessmentID is zero) into an xlsx workbook: one summary sheet plus a
// column per question when scoped to a single assessment.
func (s *AssessmentService) ExportSubmissions(assessmentID uint) (*bytes.Buffer, error) {
	submissions, err := s.submissionRepo.ListAll(assessmentID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Candidate", "Email", "Assessment", "Submitted At", "Elapsed (s)", "Trigger"}

	var questions []model.Question
	if assessmentID > 0 {
		assessment, err := s.GetByID(assessmentID)
		if err != nil {
			return nil, err
		}
		sections, err := flow.Normalize(assessment.Definition)
		if err != nil {
			return nil, err
		}
		questions = flow.FlatQuestions(sections)
		for _, q := range questions {
			headers = append(headers, q.Text)
		}
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, sub := range submissions {
		values := []interface{}{
			sub.CandidateName,
			sub.CandidateEmail,
			sub.AssessmentTitle,
			sub.SubmittedAt.Format(util.TimeFormat),
			sub.ElapsedSeconds,
			sub.Trigger,
		}

		if len(questions) > 0 {
			records, err := sub.AnswerRecords()
			if err != nil {
				records = nil
			}
			byID := map[string]string{}
			for _, rec := range records {
				byID[rec.QuestionID] = rec.Answer
			}
			for _, q := range questions {
				values = append(values, byID[q.ID])
			}
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}
