package tools

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/reciper/engine/internal/registry"
)

// CodemodTool applies a regular-expression transform to an existing file.
// A full AST-aware transform is an external collaborator per the "codemod
// AST transformer" boundary this engine treats as out of scope — this
// built-in covers the common case (pattern-based source rewrite) without
// depending on a per-language parser.
type CodemodTool struct{}

func NewCodemodTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &CodemodTool{}, nil
}

func (t *CodemodTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	var errs []string
	if p, _ := args["path"].(string); p == "" {
		errs = append(errs, "codemod requires a 'path'")
	}
	pattern, _ := args["pattern"].(string)
	if pattern == "" {
		errs = append(errs, "codemod requires a 'pattern'")
	} else if _, err := regexp.Compile(pattern); err != nil {
		errs = append(errs, fmt.Sprintf("codemod: invalid pattern: %v", err))
	}
	return registry.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func (t *CodemodTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	rawPath, _ := args["path"].(string)
	pattern, _ := args["pattern"].(string)
	rawReplacement, _ := args["replacement"].(string)

	renderer := RendererFrom(ctx)
	if renderer == nil {
		renderer = NewRenderer(nil, nil, opts.CollectMode)
	}
	path, err := renderer.Render(rawPath, args)
	if err != nil {
		return nil, fmt.Errorf("codemod: %w", err)
	}
	replacement, err := renderer.Render(rawReplacement, args)
	if err != nil {
		return nil, fmt.Errorf("codemod: %w", err)
	}

	full, err := securePath(opts.ProjectRoot, path)
	if err != nil {
		return nil, fmt.Errorf("codemod: %w", err)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("codemod: invalid pattern: %w", err)
	}

	original, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("codemod: failed to read %s: %w", path, err)
	}

	updated := re.ReplaceAllString(string(original), replacement)
	changed := updated != string(original)

	if !changed || opts.DryRun || opts.CollectMode {
		return map[string]interface{}{
			"path":          path,
			"changed":       changed,
			"filesCreated":  []interface{}{},
			"filesModified": []interface{}{},
		}, nil
	}

	if err := os.WriteFile(full, []byte(updated), 0o644); err != nil {
		return nil, fmt.Errorf("codemod: failed to write %s: %w", path, err)
	}

	return map[string]interface{}{
		"path":          path,
		"changed":       true,
		"filesCreated":  []interface{}{},
		"filesModified": []interface{}{path},
	}, nil
}
