package tools

import (
	"context"
	"fmt"

	"github.com/reciper/engine/internal/ai"
	"github.com/reciper/engine/internal/registry"
)

// AITool is the "ai" step type: in collect mode it registers an unresolved
// entry with the execution's Collector and produces no content; in resolve
// mode it reads the pre-recorded answer for its key and returns it verbatim.
// It never talks to a transport itself — that round-trip happens once,
// between Pass 1 and Pass 2, at the engine level.
type AITool struct{}

func NewAITool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &AITool{}, nil
}

func (t *AITool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	if k, _ := args["key"].(string); k == "" {
		return registry.ValidationResult{IsValid: false, Errors: []string{"ai requires a 'key'"}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *AITool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	key, _ := args["key"].(string)
	prompt, _ := args["prompt"].(string)
	outputDescription, _ := args["outputDescription"].(string)

	renderer := RendererFrom(ctx)

	if opts.CollectMode {
		if renderer != nil && renderer.Collector != nil {
			renderer.Collector.Collect(ai.Entry{
				Key:               key,
				Prompt:            prompt,
				OutputDescription: outputDescription,
				SourceFile:        renderer.SourceFile,
			})
		}
		return map[string]interface{}{"key": key, "value": "", "collected": true}, nil
	}

	if renderer == nil || renderer.Answers == nil {
		return nil, fmt.Errorf("ai: no answers available to resolve key %q", key)
	}
	value, ok := renderer.Answers[key]
	if !ok {
		return nil, fmt.Errorf("ai: no answer available for key %q", key)
	}
	return map[string]interface{}{"key": key, "value": value, "collected": false}, nil
}
