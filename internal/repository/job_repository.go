package repository

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

func (r *JobRepository) Create(job *model.Job) error {
	return r.DB.Create(job).Error
}

func (r *JobRepository) FindByID(id uint) (*model.Job, error) {
	var job model.Job
	err := r.DB.First(&job, id).Error
	return &job, err
}

func (r *JobRepository) List(page, limit int, status, search string) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	query := r.DB.Model(&model.Job{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("title LIKE ? OR department LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepository) ListPublished() ([]model.Job, error) {
	var jobs []model.Job
	err := r.DB.Where("status = ?", model.JobPublished).Order("published_at desc").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) Update(job *model.Job) error {
	return r.DB.Save(job).Error
}

func (r *JobRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Job{}, id).Error
}
