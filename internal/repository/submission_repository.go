package repository

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) List(page, limit int, assessmentID uint, search string) ([]model.Submission, int64, error) {
	var ss []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{})
	if assessmentID > 0 {
		query = query.Where("assessment_id = ?", assessmentID)
	}
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("candidate_name LIKE ? OR candidate_email LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("submitted_at desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SubmissionRepository) ListAll(assessmentID uint) ([]model.Submission, error) {
	var ss []model.Submission
	query := r.DB.Model(&model.Submission{})
	if assessmentID > 0 {
		query = query.Where("assessment_id = ?", assessmentID)
	}
	err := query.Order("submitted_at desc").Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Submission{}).Error
}
