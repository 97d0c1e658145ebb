package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/config"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
)

// AIService talks to an OpenAI-compatible chat completions endpoint for
// resume extraction and job description sectioning.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const extractResumePrompt = `You are a recruiting assistant. Extract the candidate profile from the resume text below.
Respond with ONLY a JSON object, no prose, with this shape:
{"name":"","email":"","phone":"","summary":"","skills":[""],"experience":[{"company":"","title":"","years":""}],"education":[{"institution":"","degree":"","year":""}]}
Leave fields empty when the resume does not state them. Do not invent data.`

const sectionJobPrompt = `You are a recruiting assistant. Split the job description below into titled sections.
Respond with ONLY a JSON array, no prose: [{"heading":"","body":""}].
Use headings like "About the Role", "Responsibilities", "Requirements", "Benefits" when the text supports them.`

func (s *AIService) Enabled() bool {
	return s.config.APIKey != "" && s.config.BaseURL != ""
}

// ExtractResume parses free resume text into a structured profile.
func (s *AIService) ExtractResume(text string) (*model.ResumeProfile, error) {
	raw, err := s.complete(extractResumePrompt, text)
	if err != nil {
		return nil, err
	}

	var profile model.ResumeProfile
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &profile); err != nil {
		return nil, fmt.Errorf("parse resume profile: %w", err)
	}
	return &profile, nil
}

// SectionJobDescription splits a raw job description into titled sections.
func (s *AIService) SectionJobDescription(text string) ([]model.JobSection, error) {
	raw, err := s.complete(sectionJobPrompt, text)
	if err != nil {
		return nil, err
	}

	var sections []model.JobSection
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &sections); err != nil {
		return nil, fmt.Errorf("parse job sections: %w", err)
	}
	return sections, nil
}

func (s *AIService) complete(system, user string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// stripJSONFence removes a surrounding markdown code fence. Models often
// wrap JSON in ```json blocks even when told not to.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
