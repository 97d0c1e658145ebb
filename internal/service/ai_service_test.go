package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": AIChatMessage{Role: "assistant", Content: content}},
			},
		})
	}))
}

func testAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{BaseURL: baseURL, APIKey: "test-key", Model: "test-model"})
}

func TestExtractResume(t *testing.T) {
	srv := completionServer(t, `{"name":"Jane Doe","email":"jane@example.com","phone":"555-0100","summary":"Backend engineer","skills":["Go","MySQL"]}`)
	defer srv.Close()

	profile, err := testAIService(srv.URL).ExtractResume("Jane Doe resume text")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, []string{"Go", "MySQL"}, profile.Skills)
}

func TestExtractResumeStripsCodeFence(t *testing.T) {
	srv := completionServer(t, "```json\n{\"name\":\"Jane Doe\",\"email\":\"jane@example.com\"}\n```")
	defer srv.Close()

	profile, err := testAIService(srv.URL).ExtractResume("resume")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
}

func TestSectionJobDescription(t *testing.T) {
	srv := completionServer(t, `[{"heading":"About the Role","body":"We build recruiting tools."},{"heading":"Requirements","body":"Go experience."}]`)
	defer srv.Close()

	sections, err := testAIService(srv.URL).SectionJobDescription("raw description")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "About the Role", sections[0].Heading)
	assert.Equal(t, "Requirements", sections[1].Heading)
}

func TestExtractResumeMalformedResponse(t *testing.T) {
	srv := completionServer(t, "sorry, I cannot help with that")
	defer srv.Close()

	_, err := testAIService(srv.URL).ExtractResume("resume")
	assert.Error(t, err)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testAIService(srv.URL).ExtractResume("resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStripJSONFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFence(`{"a":1}`))
}

func TestAIServiceEnabled(t *testing.T) {
	assert.False(t, NewAIService(config.AIConfig{}).Enabled())
	assert.True(t, NewAIService(config.AIConfig{BaseURL: "http://x", APIKey: "k"}).Enabled())
}
