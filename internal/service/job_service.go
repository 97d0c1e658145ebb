package service

import (
	"encoding/json"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobService struct {
	jobRepo   *repository.JobRepository
	aiService *AIService
}

func NewJobService(jobRepo *repository.JobRepository, aiService *AIService) *JobService {
	return &JobService{jobRepo: jobRepo, aiService: aiService}
}

type JobInput struct {
	Title       string `json:"title" binding:"required"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Type        string `json:"type" binding:"omitempty,oneof=full_time part_time contract internship"`
	Description string `json:"description"`
}

func (s *JobService) Create(input *JobInput) (*model.Job, error) {
	job := &model.Job{
		Title:       input.Title,
		Department:  input.Department,
		Location:    input.Location,
		Type:        input.Type,
		Description: input.Description,
		Status:      model.JobDraft,
	}

	s.attachSections(job)

	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) GetByID(id uint) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) List(page, limit int, status, search string) ([]model.Job, int64, error) {
	return s.jobRepo.List(page, limit, status, search)
}

func (s *JobService) ListPublished() ([]model.Job, error) {
	return s.jobRepo.ListPublished()
}

func (s *JobService) Update(id uint, input *JobInput) (*model.Job, error) {
	job, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	descriptionChanged := input.Description != job.Description

	job.Title = input.Title
	job.Department = input.Department
	job.Location = input.Location
	job.Type = input.Type
	job.Description = input.Description

	if descriptionChanged {
		s.attachSections(job)
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Publish(id uint) (*model.Job, error) {
	job, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.Status = model.JobPublished
	job.PublishedAt = &now

	if err := s.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Close(id uint) (*model.Job, error) {
	job, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	job.Status = model.JobClosed

	if err := s.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.jobRepo.Delete(id)
}

// attachSections asks the extraction model to split the free-text
// description into titled sections. Failures only mean the job keeps a
// flat description.
func (s *JobService) attachSections(job *model.Job) {
	if job.Description == "" || !s.aiService.Enabled() {
		return
	}

	sections, err := s.aiService.SectionJobDescription(job.Description)
	if err != nil {
		logger.Log.Warn("job description sectioning failed",
			zap.String("title", job.Title), zap.Error(err))
		return
	}

	raw, err := json.Marshal(sections)
	if err != nil {
		return
	}
	job.Sections = raw
}
