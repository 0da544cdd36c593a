package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

const generatePath = "/v1beta/models/{model}:generateContent"

// Gemini implements Collaborator over the Gemini generateContent REST API.
type Gemini struct {
	client *resty.Client
	model  string
}

// NewGemini builds a client from configuration. A zero timeout leaves the call bounded by its context.
func NewGemini(cfg config.AIConfig) *Gemini {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if timeout := cfg.Timeout(); timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Gemini{client: client, model: cfg.Model}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Enum        []string                `json:"enum,omitempty"`
	Properties  map[string]geminiSchema `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

var triageSchema = geminiSchema{
	Type: "OBJECT",
	Properties: map[string]geminiSchema{
		"priority": {
			Type:        "STRING",
			Description: "The urgency of the ticket.",
			Enum:        []string{"Low", "Medium", "High", "Urgent"},
		},
		"category": {
			Type:        "STRING",
			Description: "The IT category of the issue (e.g. Hardware, Software, Network, Access, etc).",
		},
		"suggestedAction": {
			Type:        "STRING",
			Description: "A brief suggested first step for the agent.",
		},
	},
	Required: []string{"priority", "category", "suggestedAction"},
}

// Triage asks the model for priority, category and a first step. A priority outside the
// four known values or a missing field is reported as a parse error.
func (g *Gemini) Triage(ctx context.Context, title, description string) (TriageResult, error) {
	prompt := fmt.Sprintf("Triage this IT support ticket:\nTitle: %s\nDescription: %s", title, description)
	text, err := g.generate(ctx, prompt, &geminiGenerationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   &triageSchema,
	})
	if err != nil {
		return TriageResult{}, err
	}

	var result TriageResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return TriageResult{}, fmt.Errorf("ai: parse triage: %w", err)
	}
	if !result.Priority.Valid() {
		return TriageResult{}, fmt.Errorf("ai: parse triage: unknown priority %q", result.Priority)
	}
	if strings.TrimSpace(result.Category) == "" || strings.TrimSpace(result.SuggestedAction) == "" {
		return TriageResult{}, fmt.Errorf("ai: parse triage: missing category or suggested action")
	}
	return result, nil
}

// Summarize returns the model's one-sentence summary of the conversation.
func (g *Gemini) Summarize(ctx context.Context, comments []string) (string, error) {
	prompt := "Summarize the following support ticket conversation into a single concise sentence:\n" +
		strings.Join(comments, "\n")
	text, err := g.generate(ctx, prompt, nil)
	if errors.Is(err, ErrEmptyResponse) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Gemini) generate(ctx context.Context, prompt string, genCfg *geminiGenerationConfig) (string, error) {
	body := geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: genCfg,
	}

	var out geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("model", g.model).
		SetBody(body).
		SetResult(&out).
		Post(generatePath)
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}
	if resp.IsError() {
		var apiErr geminiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("ai: generate content: %d %s: %s", resp.StatusCode(), apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("ai: generate content: unexpected status %d", resp.StatusCode())
	}

	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

var _ Collaborator = (*Gemini)(nil)

