package tools

import (
	"context"
	"fmt"

	"github.com/reciper/engine/internal/registry"
)

// RecipeTool invokes a sub-recipe, the "recipe" step type. It delegates to
// whatever RecipeRunner the engine attached to the context, keeping this
// package free of a direct dependency on internal/engine (which itself
// wires internal/tools into its registry).
type RecipeTool struct{}

func NewRecipeTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &RecipeTool{}, nil
}

func (t *RecipeTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	if r, _ := args["recipe"].(string); r == "" {
		return registry.ValidationResult{IsValid: false, Errors: []string{"recipe step requires a 'recipe' reference"}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *RecipeTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	ref, _ := args["recipe"].(string)
	runner := RunnerFrom(ctx)
	if runner == nil {
		return nil, fmt.Errorf("recipe: no recipe runner configured for this execution")
	}

	overrides, _ := args["variableOverrides"].(map[string]interface{})

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"recipe": ref, "executed": false}, nil
	}

	result, err := runner.RunNested(ctx, ref, overrides)
	if err != nil {
		return nil, fmt.Errorf("recipe: sub-recipe %q failed: %w", ref, err)
	}
	result["recipe"] = ref
	return result, nil
}
