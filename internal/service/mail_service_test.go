package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		vars map[string]string
		want string
	}{
		{
			name: "substitutes placeholders",
			tpl:  "Hi {{name}}, you are invited to {{assessment_title}}.",
			vars: map[string]string{"name": "Jane", "assessment_title": "Backend Screen"},
			want: "Hi Jane, you are invited to Backend Screen.",
		},
		{
			name: "unknown placeholders stay untouched",
			tpl:  "Hi {{name}}, see {{link}}.",
			vars: map[string]string{"name": "Jane"},
			want: "Hi Jane, see {{link}}.",
		},
		{
			name: "repeated placeholder",
			tpl:  "{{name}} {{name}}",
			vars: map[string]string{"name": "x"},
			want: "x x",
		},
		{
			name: "no placeholders",
			tpl:  "plain text",
			vars: map[string]string{"name": "x"},
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTemplate(tt.tpl, tt.vars))
		})
	}
}

func TestBuiltinTemplatesRender(t *testing.T) {
	vars := map[string]string{
		"name":             "Jane Doe",
		"job_title":        "Backend Engineer",
		"assessment_title": "Backend Screen",
		"link":             "https://careers.example.com/assessment/abc",
		"from_name":        "Recruiting Team",
	}

	for name, tpl := range mailTemplates {
		t.Run(name, func(t *testing.T) {
			subject := RenderTemplate(tpl.Subject, vars)
			body := RenderTemplate(tpl.Body, vars)
			assert.NotContains(t, subject, "{{")
			assert.NotContains(t, body, "{{")
			assert.Contains(t, body, "Jane Doe")
		})
	}
}

func TestMailServiceDisabledWithoutKey(t *testing.T) {
	s := &MailService{}
	assert.False(t, s.Enabled())

	err := s.Send(TemplateRejection, "Jane", "jane@example.com", nil)
	assert.Error(t, err)
}
