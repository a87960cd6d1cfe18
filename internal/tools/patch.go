package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reciper/engine/internal/registry"
)

// PatchTool applies a small find/replace or append edit to an existing
// file, confined to the project root the same way TemplateTool is. It does
// not parse a unified-diff format — recipes describe the edit declaratively
// (find/replace, or insertAfter/content), matching the "tool contracts are
// specified, internals are not" scope for non-core tool implementations.
type PatchTool struct{}

func NewPatchTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &PatchTool{}, nil
}

func (t *PatchTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	var errs []string
	if p, _ := args["path"].(string); p == "" {
		errs = append(errs, "patch requires a 'path'")
	}
	_, hasFind := args["find"]
	_, hasInsertAfter := args["insertAfter"]
	_, hasAppend := args["append"]
	if !hasFind && !hasInsertAfter && !hasAppend {
		errs = append(errs, "patch requires one of 'find'/'replace', 'insertAfter'/'content', or 'append'")
	}
	return registry.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func (t *PatchTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	path, _ := args["path"].(string)
	full, err := securePath(opts.ProjectRoot, path)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	original, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("patch: failed to read %s: %w", path, err)
	}
	content := string(original)

	renderer := RendererFrom(ctx)
	if renderer == nil {
		renderer = NewRenderer(nil, nil, opts.CollectMode)
	}

	updated, changed, err := t.applyEdit(content, args, renderer)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	if !changed || opts.DryRun || opts.CollectMode {
		return map[string]interface{}{
			"path":          path,
			"changed":       changed,
			"filesCreated":  []interface{}{},
			"filesModified": []interface{}{},
		}, nil
	}

	if err := os.WriteFile(full, []byte(updated), 0o644); err != nil {
		return nil, fmt.Errorf("patch: failed to write %s: %w", path, err)
	}

	return map[string]interface{}{
		"path":          path,
		"changed":       true,
		"filesCreated":  []interface{}{},
		"filesModified": []interface{}{path},
	}, nil
}

func (t *PatchTool) applyEdit(content string, args map[string]interface{}, renderer *Renderer) (string, bool, error) {
	if find, ok := args["find"].(string); ok {
		replace, _ := args["replace"].(string)
		rendered, err := renderer.Render(replace, args)
		if err != nil {
			return content, false, err
		}
		if !strings.Contains(content, find) {
			return content, false, nil
		}
		count := -1
		if !boolArg(args, "all") {
			count = 1
		}
		return strings.Replace(content, find, rendered, count), true, nil
	}

	if marker, ok := args["insertAfter"].(string); ok {
		insertion, _ := args["content"].(string)
		rendered, err := renderer.Render(insertion, args)
		if err != nil {
			return content, false, err
		}
		idx := strings.Index(content, marker)
		if idx < 0 {
			return content, false, nil
		}
		at := idx + len(marker)
		return content[:at] + rendered + content[at:], true, nil
	}

	if appendContent, ok := args["append"].(string); ok {
		rendered, err := renderer.Render(appendContent, args)
		if err != nil {
			return content, false, err
		}
		return content + rendered, true, nil
	}

	return content, false, fmt.Errorf("no supported edit operation found in args")
}
