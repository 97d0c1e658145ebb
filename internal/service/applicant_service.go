package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApplicantService struct {
	applicantRepo *repository.ApplicantRepository
	jobRepo       *repository.JobRepository
	storage       *StorageService
	aiService     *AIService
	mailService   *MailService
}

func NewApplicantService(
	applicantRepo *repository.ApplicantRepository,
	jobRepo *repository.JobRepository,
	storage *StorageService,
	aiService *AIService,
	mailService *MailService,
) *ApplicantService {
	return &ApplicantService{
		applicantRepo: applicantRepo,
		jobRepo:       jobRepo,
		storage:       storage,
		aiService:     aiService,
		mailService:   mailService,
	}
}

type ApplyInput struct {
	JobID uint
	Name  string
	Email string
	Phone string
}

// Apply records a public application against a published job and stores
// the resume. Profile extraction runs in the background; the applicant
// row is usable before it completes.
func (s *ApplicantService) Apply(ctx context.Context, input *ApplyInput, resume io.Reader, filename string, size int64, contentType string) (*model.Applicant, error) {
	job, err := s.jobRepo.FindByID(input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrJobNotFound
		}
		return nil, err
	}
	if job.Status != model.JobPublished {
		return nil, util.ErrJobNotFound
	}

	applicant := &model.Applicant{
		JobID:  input.JobID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Status: model.ApplicantApplied,
	}

	var resumeText []byte
	if resume != nil {
		data, err := io.ReadAll(io.LimitReader(resume, 10<<20))
		if err != nil {
			return nil, err
		}

		detected, err := util.ValidateMimeType(bytes.NewReader(data), util.AllowedResumeTypes)
		if err != nil {
			return nil, util.ErrUnsupportedFileType
		}
		if contentType == "" {
			contentType = detected
		}

		key := fmt.Sprintf("resumes/%d/%d_%s", input.JobID, time.Now().UnixNano(), filename)
		url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
		if err != nil {
			return nil, err
		}
		applicant.ResumeURL = url

		if strings.HasPrefix(detected, "text/") {
			resumeText = data
		}
	}

	if err := s.applicantRepo.Create(applicant); err != nil {
		return nil, err
	}

	if len(resumeText) > 0 && s.aiService.Enabled() {
		go s.extractProfile(applicant.ID, string(resumeText))
	}

	return applicant, nil
}

func (s *ApplicantService) extractProfile(applicantID uint, text string) {
	profile, err := s.aiService.ExtractResume(text)
	if err != nil {
		logger.Log.Warn("resume extraction failed",
			zap.Uint("applicant_id", applicantID), zap.Error(err))
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}

	applicant, err := s.applicantRepo.FindByID(applicantID)
	if err != nil {
		return
	}
	applicant.Profile = raw
	if err := s.applicantRepo.Update(applicant); err != nil {
		logger.Log.Warn("saving extracted profile failed",
			zap.Uint("applicant_id", applicantID), zap.Error(err))
	}
}

func (s *ApplicantService) GetByID(id uint) (*model.Applicant, error) {
	applicant, err := s.applicantRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrApplicantNotFound
		}
		return nil, err
	}
	return applicant, nil
}

func (s *ApplicantService) List(page, limit int, jobID uint, status, search string) ([]model.Applicant, int64, error) {
	return s.applicantRepo.List(page, limit, jobID, status, search)
}

// UpdateStatus moves an applicant through the pipeline and fires the
// matching notification when one exists for the new status.
func (s *ApplicantService) UpdateStatus(id uint, status model.ApplicantStatus, notify bool) (*model.Applicant, error) {
	applicant, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.applicantRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	applicant.Status = status

	if notify && s.mailService.Enabled() {
		jobTitle := ""
		if applicant.Job != nil {
			jobTitle = applicant.Job.Title
		}
		vars := map[string]string{"job_title": jobTitle}

		var template string
		switch status {
		case model.ApplicantRejected:
			template = TemplateRejection
		case model.ApplicantShortlisted:
			template = TemplateShortlist
		}
		if template != "" {
			if err := s.mailService.Send(template, applicant.Name, applicant.Email, vars); err != nil {
				logger.Log.Warn("status notification failed",
					zap.Uint("applicant_id", id), zap.Error(err))
			}
		}
	}

	return applicant, nil
}

func (s *ApplicantService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.applicantRepo.Delete(id)
}
