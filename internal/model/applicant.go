package model

import "encoding/json"

type ApplicantStatus string

const (
	ApplicantApplied     ApplicantStatus = "applied"
	ApplicantShortlisted ApplicantStatus = "shortlisted"
	ApplicantRejected    ApplicantStatus = "rejected"
	ApplicantInvited     ApplicantStatus = "assessment_invited"
)

type Applicant struct {
	BaseModel
	JobID     uint            `gorm:"index;type:bigint unsigned" json:"jobId"`
	Job       *Job            `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Email     string          `gorm:"size:100;not null;index" json:"email"`
	Phone     string          `gorm:"size:30" json:"phone"`
	ResumeURL string          `gorm:"size:512" json:"resumeUrl"`
	Status    ApplicantStatus `gorm:"size:30;default:'applied'" json:"status"`
	Profile   json.RawMessage `gorm:"type:json" json:"profile,omitempty"` // ResumeProfile, AI-extracted
}

func (Applicant) TableName() string {
	return "applicants"
}

// ResumeProfile is the structured extraction target for a resume.
type ResumeProfile struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Summary    string   `json:"summary"`
	Skills     []string `json:"skills"`
	Experience []struct {
		Company string `json:"company"`
		Title   string `json:"title"`
		Years   string `json:"years"`
	} `json:"experience"`
	Education []struct {
		Institution string `json:"institution"`
		Degree      string `json:"degree"`
		Year        string `json:"year"`
	} `json:"education"`
}
