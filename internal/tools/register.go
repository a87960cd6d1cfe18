package tools

import (
	"context"

	"github.com/reciper/engine/internal/detector"
	"github.com/reciper/engine/internal/registry"
)

// BuiltinDeps carries the external collaborators a few built-in tools need
// at registration time. Per-execution state (the Renderer, the RecipeRunner,
// AI answers) is threaded through context.Context instead, since those
// change on every run while these are process-wide.
type BuiltinDeps struct {
	DetectorRegistry *detector.Registry
}

// RegisterBuiltins registers exactly one factory per entry in the closed
// tool-type set, mirroring the teacher's setupRegistry() which registered
// one provider per detected stack.
func RegisterBuiltins(reg *registry.Registry, deps BuiltinDeps) {
	reg.Register("template", "default", NewTemplateTool)
	reg.Register("action", "default", NewActionTool)
	reg.Register("codemod", "default", NewCodemodTool)
	reg.Register("recipe", "default", NewRecipeTool)
	reg.Register("shell", "default", NewShellTool)
	reg.Register("prompt", "default", NewPromptTool)
	reg.Register("ai", "default", NewAITool)
	reg.Register("install", "default", NewInstallTool)
	reg.Register("patch", "default", NewPatchTool)
	reg.Register("ensure-dirs", "default", NewEnsureDirsTool)
	reg.Register("query", "default", NewQueryToolFactory(deps.DetectorRegistry))

	// sequence/parallel are containers the executor intercepts before
	// resolving from the registry (see executor.runContainer); they are
	// still registered so validateRecipe can confirm the tool type belongs
	// to the closed set even for a recipe that never runs.
	reg.Register("sequence", "default", passthroughFactory)
	reg.Register("parallel", "default", passthroughFactory)
}

func passthroughFactory(name string, config map[string]interface{}) (registry.Tool, error) {
	return passthroughTool{}, nil
}

type passthroughTool struct{}

func (passthroughTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	return registry.ValidationResult{IsValid: true}
}

func (passthroughTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}
