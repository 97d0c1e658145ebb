package model

type College struct {
	BaseModel
	Name         string `gorm:"size:255;not null" json:"name"`
	ContactName  string `gorm:"size:100" json:"contactName"`
	ContactEmail string `gorm:"size:100" json:"contactEmail"`
}

func (College) TableName() string {
	return "colleges"
}

// CollegeCandidate is a candidate imported in bulk under a partner
// college, distinct from a direct job applicant.
type CollegeCandidate struct {
	BaseModel
	CollegeID      uint     `gorm:"index;type:bigint unsigned" json:"collegeId"`
	College        *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
	Name           string   `gorm:"size:100;not null" json:"name"`
	Email          string   `gorm:"size:100;not null;index" json:"email"`
	Phone          string   `gorm:"size:30" json:"phone"`
	Program        string   `gorm:"size:100" json:"program"`
	GraduationYear string   `gorm:"size:10" json:"graduationYear"`
}

func (CollegeCandidate) TableName() string {
	return "college_candidates"
}
