package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"gorm.io/gorm"
)

type CollegeService struct {
	collegeRepo *repository.CollegeRepository
}

func NewCollegeService(collegeRepo *repository.CollegeRepository) *CollegeService {
	return &CollegeService{collegeRepo: collegeRepo}
}

type CollegeInput struct {
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail" binding:"omitempty,email"`
}

func (s *CollegeService) Create(input *CollegeInput) (*model.College, error) {
	college := &model.College{
		Name:         input.Name,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
	}
	if err := s.collegeRepo.Create(college); err != nil {
		return nil, err
	}
	return college, nil
}

func (s *CollegeService) GetByID(id uint) (*model.College, error) {
	college, err := s.collegeRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCollegeNotFound
		}
		return nil, err
	}
	return college, nil
}

func (s *CollegeService) List(page, limit int) ([]model.College, int64, error) {
	return s.collegeRepo.List(page, limit)
}

func (s *CollegeService) Update(id uint, input *CollegeInput) (*model.College, error) {
	college, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	college.Name = input.Name
	college.ContactName = input.ContactName
	college.ContactEmail = input.ContactEmail

	if err := s.collegeRepo.Update(college); err != nil {
		return nil, err
	}
	return college, nil
}

func (s *CollegeService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.collegeRepo.Delete(id)
}

type CandidateInput struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Program        string `json:"program"`
	GraduationYear string `json:"graduationYear"`
}

func (s *CollegeService) AddCandidate(collegeID uint, input *CandidateInput) (*model.CollegeCandidate, error) {
	if _, err := s.GetByID(collegeID); err != nil {
		return nil, err
	}

	exists, err := s.collegeRepo.CandidateEmailExists(collegeID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}

	candidate := &model.CollegeCandidate{
		CollegeID:      collegeID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Program:        input.Program,
		GraduationYear: input.GraduationYear,
	}
	if err := s.collegeRepo.CreateCandidate(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *CollegeService) GetCandidate(collegeID, candidateID uint) (*model.CollegeCandidate, error) {
	candidate, err := s.collegeRepo.FindCandidate(collegeID, candidateID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCandidateNotFound
		}
		return nil, err
	}
	return candidate, nil
}

func (s *CollegeService) ListCandidates(collegeID uint, page, limit int, search string) ([]model.CollegeCandidate, int64, error) {
	if _, err := s.GetByID(collegeID); err != nil {
		return nil, 0, err
	}
	return s.collegeRepo.ListCandidates(collegeID, page, limit, search)
}

func (s *CollegeService) DeleteCandidate(collegeID, candidateID uint) error {
	if _, err := s.GetCandidate(collegeID, candidateID); err != nil {
		return err
	}
	return s.collegeRepo.DeleteCandidate(candidateID)
}

// ImportRowError records one CSV row that could not be imported.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a bulk candidate import.
type ImportReport struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ImportCandidates reads a CSV of candidates and inserts the valid
// rows. Invalid rows and duplicate emails are reported, not fatal.
// Expected header: name,email,phone,program,graduation_year (phone and
// later columns optional).
func (s *CollegeService) ImportCandidates(collegeID uint, r io.Reader) (*ImportReport, error) {
	if _, err := s.GetByID(collegeID); err != nil {
		return nil, err
	}

	report, batch, err := parseCandidateCSV(collegeID, r, func(email string) (bool, error) {
		return s.collegeRepo.CandidateEmailExists(collegeID, email)
	})
	if err != nil {
		return nil, err
	}

	if len(batch) > 0 {
		if err := s.collegeRepo.CreateCandidates(batch); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// parseCandidateCSV validates rows and builds the insert batch.
// emailExists checks for candidates already imported for this college.
func parseCandidateCSV(collegeID uint, r io.Reader, emailExists func(string) (bool, error)) (*ImportReport, []model.CollegeCandidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, nil, fmt.Errorf("csv missing required column: name")
	}
	if _, ok := cols["email"]; !ok {
		return nil, nil, fmt.Errorf("csv missing required column: email")
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	report := &ImportReport{}
	seen := map[string]bool{}
	var batch []model.CollegeCandidate

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Row: row, Reason: "malformed row"})
			continue
		}

		name := field(record, "name")
		email := strings.ToLower(field(record, "email"))

		switch {
		case name == "":
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Row: row, Reason: "missing name"})
			continue
		case email == "" || !strings.Contains(email, "@"):
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Row: row, Reason: "missing or invalid email"})
			continue
		case seen[email]:
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Row: row, Reason: "duplicate email in file"})
			continue
		}

		exists, err := emailExists(email)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Row: row, Reason: "email already imported"})
			continue
		}

		seen[email] = true
		batch = append(batch, model.CollegeCandidate{
			CollegeID:      collegeID,
			Name:           name,
			Email:          email,
			Phone:          field(record, "phone"),
			Program:        field(record, "program"),
			GraduationYear: field(record, "graduation_year"),
		})
		report.Imported++
	}

	return report, batch, nil
}
