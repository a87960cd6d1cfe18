package tools

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/reciper/engine/internal/registry"
)

// PromptTool asks the operator a single question via a huh form, the
// "prompt" tool type. In dry-run or collect mode it returns the step's
// default without blocking on input, matching how collect-mode runs must
// never depend on operator interaction.
type PromptTool struct{}

func NewPromptTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &PromptTool{}, nil
}

func (t *PromptTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	if m, _ := args["message"].(string); m == "" {
		return registry.ValidationResult{IsValid: false, Errors: []string{"prompt requires a 'message'"}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *PromptTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	message, _ := args["message"].(string)
	def, _ := args["default"].(string)
	promptType, _ := args["promptType"].(string)

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"value": def, "prompted": false}, nil
	}

	var value string = def
	var confirmed bool

	var field huh.Field
	switch promptType {
	case "confirm":
		field = huh.NewConfirm().Title(message).Value(&confirmed)
	case "select":
		var options []huh.Option[string]
		if raw, ok := args["options"]; ok {
			choices, _ := toStringSlice(raw)
			for _, c := range choices {
				options = append(options, huh.NewOption(c, c))
			}
		}
		field = huh.NewSelect[string]().Title(message).Options(options...).Value(&value)
	default:
		field = huh.NewInput().Title(message).Placeholder(def).Value(&value)
	}

	form := huh.NewForm(huh.NewGroup(field))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	if promptType == "confirm" {
		return map[string]interface{}{"value": confirmed, "prompted": true}, nil
	}
	return map[string]interface{}{"value": value, "prompted": true}, nil
}
