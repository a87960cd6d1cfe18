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

// AnthropicTransport resolves AI batches using Anthropic Claude.
type AnthropicTransport struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropicTransport creates a new Anthropic transport.
func NewAnthropicTransport(apiKey, model string) *AnthropicTransport {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicTransport{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com/v1",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (t *AnthropicTransport) Name() string { return "anthropic" }

func (t *AnthropicTransport) IsAvailable() bool { return t.apiKey != "" }

// Resolve sends the batch's prompt to Claude and validates the response
// against the batch's answer schema.
func (t *AnthropicTransport) Resolve(ctx context.Context, batch Batch) (Answers, error) {
	prompt := BuildPrompt(batch)

	reqBody := map[string]interface{}{
		"model":      t.model,
		"max_tokens": 4096,
		"system":     SystemPrompt + "\n\nIMPORTANT: Respond with valid JSON only, no markdown code blocks.",
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/messages", bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", t.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

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
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var textContent string
	for _, c := range result.Content {
		if c.Type == "text" {
			textContent = c.Text
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text in AI response")
	}

	return NewAssembler().Validate(batch, textContent)
}
