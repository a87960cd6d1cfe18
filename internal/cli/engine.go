package cli

import (
	"github.com/reciper/engine/internal/ai"
	"github.com/reciper/engine/internal/config"
	"github.com/reciper/engine/internal/engine"
	"github.com/reciper/engine/internal/registry"
	"github.com/reciper/engine/internal/tools"
)

// newEngine builds the one Engine instance a CLI invocation needs: the tool
// registry with every built-in tool, the stack-detection registry wired in
// for the "query" tool, and an AI transport when the configured provider has
// credentials available.
func newEngine(cfg *config.Config) *engine.Engine {
	reg := registry.New(registry.DefaultOptions())
	detectorReg := setupRegistry()

	e := engine.New(reg, tools.BuiltinDeps{DetectorRegistry: detectorReg})
	e.MaxConcurrency = cfg.MaxConcurrency
	e.DefaultTimeout = cfg.DefaultTimeout
	e.TimeoutSafetyFactor = cfg.TimeoutSafetyFactor
	e.RetryBackoffFactor = cfg.RetryBackoffFactor
	e.ContinueOnError = cfg.ContinueOnError

	if cfg.AI.APIKey != "" || cfg.AI.Provider == "ollama" {
		transport, err := ai.NewTransport(ai.Config{
			Provider:  cfg.AI.Provider,
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			MaxTokens: cfg.AI.MaxTokens,
			BaseURL:   cfg.AI.BaseURL,
		})
		if err == nil && transport.IsAvailable() {
			e.Transport = transport
			e.EnableAI = true
		}
	}

	return e
}
