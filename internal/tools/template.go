package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reciper/engine/internal/registry"
)

// TemplateTool renders a template string (or file) against the current
// scope and writes the result to a path confined to the project root. It is
// the engine's only direct producer of @ai-block-bearing content.
type TemplateTool struct{}

func NewTemplateTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &TemplateTool{}, nil
}

func (t *TemplateTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	var errs []string
	if s, _ := args["source"].(string); s == "" {
		if _, ok := args["sourcePath"]; !ok {
			errs = append(errs, "template requires 'source' content or a 'sourcePath'")
		}
	}
	if p, _ := args["path"].(string); p == "" {
		errs = append(errs, "template requires a destination 'path'")
	}
	return registry.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func (t *TemplateTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	rawPath, _ := args["path"].(string)
	if rawPath == "" {
		return nil, fmt.Errorf("template: destination 'path' is required")
	}

	source, err := t.resolveSource(opts.ProjectRoot, args)
	if err != nil {
		return nil, err
	}

	renderer := RendererFrom(ctx)
	if renderer == nil {
		renderer = NewRenderer(nil, nil, opts.CollectMode)
	}
	destPath, err := renderer.Render(rawPath, args)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	rendered, err := renderer.Render(source, args)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}

	full, err := securePath(opts.ProjectRoot, destPath)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{
			"path":          destPath,
			"content":       rendered,
			"filesCreated":  []interface{}{},
			"filesModified": []interface{}{},
		}, nil
	}

	_, statErr := os.Stat(full)
	existed := statErr == nil

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("template: failed to create parent directories: %w", err)
	}

	var data []byte
	if existed && boolArg(args, "append") {
		prev, _ := os.ReadFile(full)
		data = append(prev, []byte(rendered)...)
	} else {
		data = []byte(rendered)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("template: failed to write %s: %w", destPath, err)
	}

	result := map[string]interface{}{"path": destPath, "content": rendered}
	if existed {
		result["filesCreated"] = []interface{}{}
		result["filesModified"] = []interface{}{destPath}
	} else {
		result["filesCreated"] = []interface{}{destPath}
		result["filesModified"] = []interface{}{}
	}
	return result, nil
}

func (t *TemplateTool) resolveSource(projectRoot string, args map[string]interface{}) (string, error) {
	if s, ok := args["source"].(string); ok && s != "" {
		return s, nil
	}
	sourcePath, _ := args["sourcePath"].(string)
	if sourcePath == "" {
		return "", fmt.Errorf("template: no 'source' or 'sourcePath' provided")
	}
	full, err := securePath(projectRoot, sourcePath)
	if err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("template: failed to read %s: %w", sourcePath, err)
	}
	return string(data), nil
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}
