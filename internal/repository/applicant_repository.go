package repository

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"gorm.io/gorm"
)

type ApplicantRepository struct {
	DB *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository {
	return &ApplicantRepository{DB: db}
}

func (r *ApplicantRepository) Create(a *model.Applicant) error {
	return r.DB.Create(a).Error
}

func (r *ApplicantRepository) FindByID(id uint) (*model.Applicant, error) {
	var a model.Applicant
	err := r.DB.Preload("Job").First(&a, id).Error
	return &a, err
}

func (r *ApplicantRepository) List(page, limit int, jobID uint, status, search string) ([]model.Applicant, int64, error) {
	var as []model.Applicant
	var total int64

	query := r.DB.Model(&model.Applicant{})
	if jobID > 0 {
		query = query.Where("job_id = ?", jobID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Job").Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *ApplicantRepository) FindByIDs(ids []uint) ([]model.Applicant, error) {
	var as []model.Applicant
	err := r.DB.Preload("Job").Where("id IN ?", ids).Find(&as).Error
	return as, err
}

func (r *ApplicantRepository) Update(a *model.Applicant) error {
	return r.DB.Save(a).Error
}

func (r *ApplicantRepository) UpdateStatus(id uint, status model.ApplicantStatus) error {
	return r.DB.Model(&model.Applicant{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ApplicantRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Applicant{}, id).Error
}
