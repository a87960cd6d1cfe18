// Package ai implements the recipe engine's two-phase AI integration: a
// Collector that accumulates unresolved "ai" tool requests during a
// collect-mode pass, an Assembler that turns the collected batch into one
// prompt plus a JSON answer schema, and a pluggable Transport that resolves
// the batch into concrete per-key answers.
package ai

import (
	"context"
	"strings"
)

// Entry is one unresolved value an "ai" step (or a template rendered in
// collect mode) asked the Collector to fill in.
type Entry struct {
	Key               string
	Contexts          []string
	Prompt            string
	Examples          []string
	OutputDescription string
	SourceFile        string
}

// Batch is the full set of Entries accumulated by one collect-mode pass.
type Batch struct {
	Entries []Entry
}

// Answers maps an Entry's Key to its resolved content.
type Answers map[string]string

// Transport turns a collected Batch into Answers, normally via a single
// round-trip to a model. Concrete transports live in anthropic.go,
// openai.go, and ollama.go; the engine only depends on this interface.
type Transport interface {
	Name() string
	IsAvailable() bool
	Resolve(ctx context.Context, batch Batch) (Answers, error)
}

// Config selects and configures a Transport.
type Config struct {
	Provider  string `yaml:"provider"` // "openai", "anthropic", or "ollama"
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
	BaseURL   string `yaml:"baseURL"`
}

// NewTransport builds a Transport from Config.
func NewTransport(cfg Config) (Transport, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAITransport(cfg.APIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropicTransport(cfg.APIKey, cfg.Model), nil
	case "ollama":
		return NewOllamaTransport(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, errUnknownProvider(cfg.Provider)
	}
}

type unknownProviderError string

func (e unknownProviderError) Error() string { return "unknown AI provider: " + string(e) }

func errUnknownProvider(name string) error { return unknownProviderError(name) }

// SystemPrompt instructs the model on the exact JSON answer shape it must
// produce for a batch: one key per Entry.Key, string values only.
const SystemPrompt = `You are resolving a batch of unresolved variables for a code-generation recipe.
For each entry you are given a key, surrounding context, a prompt describing what's needed,
and optionally examples and an output description.

Respond with a single JSON object mapping each entry's key to its resolved string value.
Do not include markdown code fences. Do not add keys that were not requested.`

// BuildPrompt renders a Batch into the single user-message prompt sent to a
// transport.
func BuildPrompt(batch Batch) string {
	var sb strings.Builder
	sb.WriteString("Resolve the following entries:\n\n")
	for _, e := range batch.Entries {
		sb.WriteString("### Key: " + e.Key + "\n")
		if e.SourceFile != "" {
			sb.WriteString("Source: " + e.SourceFile + "\n")
		}
		for _, c := range e.Contexts {
			sb.WriteString("Context: " + c + "\n")
		}
		sb.WriteString("Prompt: " + e.Prompt + "\n")
		if e.OutputDescription != "" {
			sb.WriteString("Output: " + e.OutputDescription + "\n")
		}
		for _, ex := range e.Examples {
			sb.WriteString("Example: " + ex + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
