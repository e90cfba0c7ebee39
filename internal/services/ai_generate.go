package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AIGenerateService drafts pool questions from a trainer prompt via an
// OpenAI-compatible chat-completions endpoint. Drafts always go through the
// authoring validation before anything is persisted.
type AIGenerateService struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewAIGenerateService(apiKey, apiURL, model string) *AIGenerateService {
	return &AIGenerateService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
	}
}

func (s *AIGenerateService) IsAvailable() bool {
	return s.apiKey != ""
}

type aiQuestion struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Options     []aiOption `json:"options"`
}

type aiOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = `You are an exam question generator for a learning platform. The user will describe the topic. You must respond with ONLY valid JSON (no markdown, no code fences, no explanations): an array of questions in the following format:

[
  {
    "name": "Question text?",
    "description": "Optional clarification, may be empty",
    "type": "single_choice",
    "options": [
      {"text": "Option A", "is_correct": true},
      {"text": "Option B", "is_correct": false},
      {"text": "Option C", "is_correct": false},
      {"text": "Option D", "is_correct": false}
    ]
  }
]

Rules:
- Generate 5-10 questions unless the user specifies otherwise
- "type" is "single_choice" or "multiple_choice"
- single_choice questions have exactly one option with "is_correct": true
- multiple_choice questions have at least one correct option
- Each question has 2 to 4 options
- Make questions factually accurate and varied in difficulty
- Write everything in the same language as the user's prompt
- Return ONLY the JSON array, nothing else`

func (s *AIGenerateService) GenerateQuestions(prompt string) ([]QuestionInput, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("AI generation is not configured")
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from AI")
	}

	content := cleanJSONContent(chatResp.Choices[0].Message.Content)

	var drafts []aiQuestion
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("AI returned invalid JSON: %w", err)
	}

	inputs := make([]QuestionInput, 0, len(drafts))
	for _, d := range drafts {
		in := QuestionInput{
			Name:        d.Name,
			Description: d.Description,
			Type:        d.Type,
		}
		for _, o := range d.Options {
			in.Options = append(in.Options, OptionInput{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		if err := validateQuestionInput(in); err != nil {
			continue // drop malformed drafts instead of failing the batch
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("AI produced no usable questions")
	}
	return inputs, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
