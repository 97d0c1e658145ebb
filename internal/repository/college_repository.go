package repository

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"

	"gorm.io/gorm"
)

type CollegeRepository struct {
	DB *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) *CollegeRepository {
	return &CollegeRepository{DB: db}
}

func (r *CollegeRepository) Create(c *model.College) error {
	return r.DB.Create(c).Error
}

func (r *CollegeRepository) FindByID(id uint) (*model.College, error) {
	var c model.College
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *CollegeRepository) List(page, limit int) ([]model.College, int64, error) {
	var cs []model.College
	var total int64

	query := r.DB.Model(&model.College{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *CollegeRepository) Update(c *model.College) error {
	return r.DB.Save(c).Error
}

func (r *CollegeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.College{}, id).Error
}

func (r *CollegeRepository) CreateCandidate(c *model.CollegeCandidate) error {
	return r.DB.Create(c).Error
}

func (r *CollegeRepository) CreateCandidates(cs []model.CollegeCandidate) error {
	return r.DB.CreateInBatches(cs, 100).Error
}

func (r *CollegeRepository) FindCandidate(collegeID, candidateID uint) (*model.CollegeCandidate, error) {
	var c model.CollegeCandidate
	err := r.DB.Where("college_id = ? AND id = ?", collegeID, candidateID).First(&c).Error
	return &c, err
}

func (r *CollegeRepository) ListCandidates(collegeID uint, page, limit int, search string) ([]model.CollegeCandidate, int64, error) {
	var cs []model.CollegeCandidate
	var total int64

	query := r.DB.Model(&model.CollegeCandidate{}).Where("college_id = ?", collegeID)
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *CollegeRepository) CandidateEmailExists(collegeID uint, email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CollegeCandidate{}).
		Where("college_id = ? AND email = ?", collegeID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *CollegeRepository) DeleteCandidate(id uint) error {
	return r.DB.Delete(&model.CollegeCandidate{}, id).Error
}
