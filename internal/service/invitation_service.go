package service

import (
	"fmt"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
)

// InvitationService sends assessment links to applicants and to
// college-imported candidates. College invitations embed the candidate
// linkage so the identity gate can verify the recipient.
type InvitationService struct {
	assessmentService *AssessmentService
	applicantRepo     *repository.ApplicantRepository
	collegeRepo       *repository.CollegeRepository
	mailService       *MailService
}

func NewInvitationService(
	assessmentService *AssessmentService,
	applicantRepo *repository.ApplicantRepository,
	collegeRepo *repository.CollegeRepository,
	mailService *MailService,
) *InvitationService {
	return &InvitationService{
		assessmentService: assessmentService,
		applicantRepo:     applicantRepo,
		collegeRepo:       collegeRepo,
		mailService:       mailService,
	}
}

// InviteResult reports a bulk invitation: how many mails went out and
// which recipients failed.
type InviteResult struct {
	Sent     int           `json:"sent"`
	Failures []SendFailure `json:"failures,omitempty"`
}

// InviteApplicants mails the share link to the given applicants and
// moves the delivered ones to assessment_invited.
func (s *InvitationService) InviteApplicants(assessmentID uint, applicantIDs []uint) (*InviteResult, error) {
	assessment, err := s.assessmentService.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}

	applicants, err := s.applicantRepo.FindByIDs(applicantIDs)
	if err != nil {
		return nil, err
	}

	link := s.assessmentService.ShareURL(assessment)
	shared := map[string]string{
		"assessment_title": assessment.Title,
		"link":             link,
	}

	recipients := make([]Recipient, 0, len(applicants))
	for _, a := range applicants {
		recipients = append(recipients, Recipient{Name: a.Name, Email: a.Email})
	}

	failures := s.mailService.SendBulk(TemplateInvitation, recipients, shared)

	failed := map[string]bool{}
	for _, f := range failures {
		failed[f.Email] = true
	}
	for _, a := range applicants {
		if !failed[a.Email] {
			_ = s.applicantRepo.UpdateStatus(a.ID, model.ApplicantInvited)
		}
	}

	return &InviteResult{Sent: len(recipients) - len(failures), Failures: failures}, nil
}

// InviteCollegeCandidates mails personalized links to every candidate
// of a college. Each link carries the candidate linkage, putting the
// attempt behind the identity gate.
func (s *InvitationService) InviteCollegeCandidates(assessmentID, collegeID uint, candidateIDs []uint) (*InviteResult, error) {
	assessment, err := s.assessmentService.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}

	base := s.assessmentService.ShareURL(assessment)
	shared := map[string]string{"assessment_title": assessment.Title}

	recipients := make([]Recipient, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		candidate, err := s.collegeRepo.FindCandidate(collegeID, id)
		if err != nil {
			continue
		}
		recipients = append(recipients, Recipient{
			Name:  candidate.Name,
			Email: candidate.Email,
			Vars: map[string]string{
				"link": fmt.Sprintf("%s?collegeId=%d&candidateId=%d", base, collegeID, candidate.ID),
			},
		})
	}

	failures := s.mailService.SendBulk(TemplateInvitation, recipients, shared)
	return &InviteResult{Sent: len(recipients) - len(failures), Failures: failures}, nil
}
