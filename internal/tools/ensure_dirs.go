package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/reciper/engine/internal/registry"
)

// EnsureDirsTool creates one or more directories (and their parents) under
// the execution's project root, the "ensure-dirs" tool type.
type EnsureDirsTool struct{}

func NewEnsureDirsTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &EnsureDirsTool{}, nil
}

func (t *EnsureDirsTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	paths, err := dirList(args)
	if err != nil || len(paths) == 0 {
		return registry.ValidationResult{IsValid: false, Errors: []string{"ensure-dirs requires a non-empty 'paths' (or 'path') list"}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *EnsureDirsTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	rawPaths, err := dirList(args)
	if err != nil {
		return nil, err
	}

	renderer := RendererFrom(ctx)
	if renderer == nil {
		renderer = NewRenderer(nil, nil, opts.CollectMode)
	}
	paths := make([]string, len(rawPaths))
	for i, p := range rawPaths {
		rendered, err := renderer.Render(p, args)
		if err != nil {
			return nil, fmt.Errorf("ensure-dirs: %w", err)
		}
		paths[i] = rendered
	}

	var created []string
	for _, p := range paths {
		full, err := securePath(opts.ProjectRoot, p)
		if err != nil {
			return nil, fmt.Errorf("ensure-dirs: %w", err)
		}
		if opts.DryRun {
			created = append(created, p)
			continue
		}
		if _, err := os.Stat(full); os.IsNotExist(err) {
			if err := os.MkdirAll(full, 0o755); err != nil {
				return nil, fmt.Errorf("ensure-dirs: failed to create %s: %w", p, err)
			}
			created = append(created, p)
		}
	}

	return map[string]interface{}{
		"paths":         paths,
		"filesCreated":  toInterfaceSlice(created),
		"filesModified": []interface{}{},
	}, nil
}

func dirList(args map[string]interface{}) ([]string, error) {
	if raw, ok := args["paths"]; ok {
		return toStringSlice(raw)
	}
	if p, ok := args["path"].(string); ok && p != "" {
		return []string{p}, nil
	}
	return nil, fmt.Errorf("no paths provided")
}

func toStringSlice(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", raw)
	}
}

func toInterfaceSlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
