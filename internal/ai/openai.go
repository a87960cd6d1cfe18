package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAITransport resolves AI batches using OpenAI's chat completions API.
type OpenAITransport struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAITransport creates a new OpenAI transport.
func NewOpenAITransport(apiKey, model string) *OpenAITransport {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAITransport{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (t *OpenAITransport) Name() string { return "openai" }

func (t *OpenAITransport) IsAvailable() bool { return t.apiKey != "" }

// Resolve sends the batch's prompt to OpenAI and validates the response
// against the batch's answer schema.
func (t *OpenAITransport) Resolve(ctx context.Context, batch Batch) (Answers, error) {
	prompt := BuildPrompt(batch)

	reqBody := map[string]interface{}{
		"model": t.model,
		"messages": []map[string]string{
			{"role": "system", "content": SystemPrompt},
			{"role": "user", "content": prompt},
		},
		"max_tokens":      4096,
		"temperature":     0.2,
		"response_format": map[string]string{"type": "json_object"},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	return NewAssembler().Validate(batch, result.Choices[0].Message.Content)
}
