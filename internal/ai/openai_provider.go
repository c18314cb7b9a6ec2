package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// matchSchema is enforced server-side via OpenAI structured outputs, so the
// response body is guaranteed to parse as rawMatch with no markdown stripping.
const matchSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 100},
		"reasoning": {"type": "string"}
	},
	"required": ["score", "reasoning"]
}`

const systemPrompt = "You are a precise job-fit evaluator for a job search assistant."

// OpenAIProvider implements LLMProvider against the OpenAI chat-completions
// API (or any compatible endpoint via BaseURL).
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider targeting the given API base URL.
func NewOpenAIProvider(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []promptMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat schemaFormat    `json:"response_format"`
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type schemaFormat struct {
	Type       string        `json:"type"`
	JSONSchema schemaPayload `json:"json_schema"`
}

type schemaPayload struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends prompt and returns the model's JSON reply, valid against
// matchSchema.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: p.model,
		Messages: []promptMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   512,
		ResponseFormat: schemaFormat{
			Type: "json_schema",
			JSONSchema: schemaPayload{
				Name:   "job_match",
				Strict: true,
				Schema: json.RawMessage(matchSchema),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	return decodeCompletion(resp)
}

func decodeCompletion(resp *http.Response) (string, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm returned HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", out.Error.Type, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
