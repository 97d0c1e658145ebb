package service

import (
	"fmt"
	"strings"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/config"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/logger"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/monitoring"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Built-in templates. Placeholders use {{name}} syntax and are replaced
// per recipient before sending.
const (
	TemplateRejection  = "rejection"
	TemplateShortlist  = "shortlist"
	TemplateInvitation = "assessment_invitation"
)

type mailTemplate struct {
	Subject string
	Body    string
}

var mailTemplates = map[string]mailTemplate{
	TemplateRejection: {
		Subject: "Update on your application for {{job_title}}",
		Body: "Hi {{name}},\n\nThank you for taking the time to apply for the {{job_title}} position. " +
			"After careful review, we have decided not to move forward with your application at this time.\n\n" +
			"We appreciate your interest and encourage you to apply for future openings.\n\nBest regards,\n{{from_name}}",
	},
	TemplateShortlist: {
		Subject: "You have been shortlisted for {{job_title}}",
		Body: "Hi {{name}},\n\nGood news! Your application for the {{job_title}} position has been shortlisted. " +
			"Our team will reach out shortly with the next steps.\n\nBest regards,\n{{from_name}}",
	},
	TemplateInvitation: {
		Subject: "Assessment invitation: {{assessment_title}}",
		Body: "Hi {{name}},\n\nYou are invited to take the assessment \"{{assessment_title}}\".\n\n" +
			"Open the link below to begin:\n{{link}}\n\n" +
			"The assessment is timed, so make sure you have a quiet window before starting.\n\nBest regards,\n{{from_name}}",
	},
}

// RenderTemplate substitutes {{key}} placeholders in a template string.
// Unknown placeholders are left untouched.
func RenderTemplate(tpl string, vars map[string]string) string {
	for k, v := range vars {
		tpl = strings.ReplaceAll(tpl, "{{"+k+"}}", v)
	}
	return tpl
}

// Recipient is one target of a bulk send, with per-recipient variables
// merged over the shared ones.
type Recipient struct {
	Name  string
	Email string
	Vars  map[string]string
}

// SendFailure records one recipient a bulk send could not deliver to.
type SendFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

type MailService struct {
	config config.MailConfig
	client *sendgrid.Client
}

func NewMailService(cfg config.MailConfig) *MailService {
	return &MailService{
		config: cfg,
		client: sendgrid.NewSendClient(cfg.APIKey),
	}
}

func (s *MailService) Enabled() bool {
	return s.config.APIKey != ""
}

// Send delivers one templated message. Template vars always include
// from_name; callers add job_title, assessment_title, link and so on.
func (s *MailService) Send(template, toName, toEmail string, vars map[string]string) error {
	tpl, ok := mailTemplates[template]
	if !ok {
		return fmt.Errorf("unknown mail template: %s", template)
	}
	if !s.Enabled() {
		return fmt.Errorf("mail service not configured")
	}

	merged := map[string]string{"from_name": s.config.FromName, "name": toName}
	for k, v := range vars {
		merged[k] = v
	}

	from := mail.NewEmail(s.config.FromName, s.config.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	subject := RenderTemplate(tpl.Subject, merged)
	body := RenderTemplate(tpl.Body, merged)
	message := mail.NewSingleEmail(from, subject, to, body, strings.ReplaceAll(body, "\n", "<br>"))

	resp, err := s.client.Send(message)
	if err != nil {
		monitoring.EmailCounter.WithLabelValues(template, "error").Inc()
		return err
	}
	if resp.StatusCode >= 400 {
		monitoring.EmailCounter.WithLabelValues(template, "error").Inc()
		return fmt.Errorf("sendgrid error (status %d): %s", resp.StatusCode, resp.Body)
	}

	monitoring.EmailCounter.WithLabelValues(template, "sent").Inc()
	return nil
}

// SendBulk delivers a template to every recipient, collecting failures
// instead of aborting. The caller maps a non-empty failure list to a
// partial-success response.
func (s *MailService) SendBulk(template string, recipients []Recipient, shared map[string]string) []SendFailure {
	var failures []SendFailure
	for _, r := range recipients {
		vars := map[string]string{}
		for k, v := range shared {
			vars[k] = v
		}
		for k, v := range r.Vars {
			vars[k] = v
		}

		if err := s.Send(template, r.Name, r.Email, vars); err != nil {
			logger.Log.Warn("bulk mail delivery failed",
				zap.String("template", template),
				zap.String("email", r.Email),
				zap.Error(err))
			failures = append(failures, SendFailure{Email: r.Email, Reason: err.Error()})
		}
	}
	return failures
}
