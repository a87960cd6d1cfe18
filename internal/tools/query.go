package tools

import (
	"context"
	"fmt"

	"github.com/reciper/engine/internal/detector"
	"github.com/reciper/engine/internal/registry"
	"github.com/reciper/engine/internal/scanner"
)

// QueryTool runs stack detection against the project root and surfaces the
// result as step output, so later steps can branch on the detected
// language/framework without every recipe re-implementing detection. It
// repurposes this codebase's scanner+detector pair, previously wired only
// to Dockerfile generation, as a general-purpose "query" primitive.
type QueryTool struct {
	registry *detector.Registry
}

func NewQueryToolFactory(reg *detector.Registry) registry.Factory {
	return func(name string, config map[string]interface{}) (registry.Tool, error) {
		return &QueryTool{registry: reg}, nil
	}
}

func (t *QueryTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	return registry.ValidationResult{IsValid: true}
}

func (t *QueryTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	kind, _ := args["query"].(string)
	if kind == "" {
		kind = "detect-stack"
	}

	switch kind {
	case "detect-stack":
		return t.detectStack(ctx, opts)
	case "file-exists":
		path, _ := args["path"].(string)
		full, err := securePath(opts.ProjectRoot, path)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		exists := fileExists(full)
		return map[string]interface{}{"path": path, "exists": exists}, nil
	default:
		return nil, fmt.Errorf("query: unknown query type %q", kind)
	}
}

func (t *QueryTool) detectStack(ctx context.Context, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	if t.registry == nil || t.registry.Count() == 0 {
		return map[string]interface{}{"detected": false}, nil
	}

	scan, err := scanner.New().Scan(ctx, opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("query: scan failed: %w", err)
	}

	d := detector.New(t.registry)
	result, err := d.Detect(ctx, scan)
	if err != nil {
		return nil, fmt.Errorf("query: detect failed: %w", err)
	}

	return map[string]interface{}{
		"detected":   result.Detected,
		"language":   result.Language,
		"framework":  result.Framework,
		"version":    result.Version,
		"confidence": result.Confidence,
		"variables":  result.Variables,
	}, nil
}
