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

// OllamaTransport resolves AI batches using a local Ollama model.
type OllamaTransport struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaTransport creates a new Ollama transport.
func NewOllamaTransport(baseURL, model string) *OllamaTransport {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1"
	}
	return &OllamaTransport{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 300 * time.Second},
	}
}

func (t *OllamaTransport) Name() string { return "ollama" }

func (t *OllamaTransport) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", t.baseURL+"/api/tags", nil)
	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Resolve sends the batch's prompt to the local Ollama server and validates
// the response against the batch's answer schema.
func (t *OllamaTransport) Resolve(ctx context.Context, batch Batch) (Answers, error) {
	prompt := BuildPrompt(batch)

	reqBody := map[string]interface{}{
		"model":  t.model,
		"prompt": SystemPrompt + "\n\n" + prompt + "\n\nRespond with valid JSON only.",
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": 0.2,
			"num_predict": 4096,
		},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/api/generate", bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Response == "" {
		return nil, fmt.Errorf("empty response from Ollama")
	}

	return NewAssembler().Validate(batch, result.Response)
}
