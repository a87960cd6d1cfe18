package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/reciper/engine/internal/registry"
)

// ActionFunc is one named built-in the "action" tool can dispatch to.
type ActionFunc func(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error)

// ActionTool dispatches to a small set of named built-in actions rather
// than hosting arbitrary user code — the engine specifies the action
// contract, not a plugin-loading mechanism (out of scope per the
// "individual tool implementations" boundary).
type ActionTool struct {
	actions map[string]ActionFunc
}

func NewActionTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &ActionTool{actions: defaultActions()}, nil
}

func defaultActions() map[string]ActionFunc {
	return map[string]ActionFunc{
		"copyFile":   actionCopyFile,
		"appendFile": actionAppendFile,
		"jsonMerge":  actionJSONMerge,
	}
}

func (t *ActionTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	name, _ := args["action"].(string)
	if _, ok := t.actions[name]; !ok {
		return registry.ValidationResult{IsValid: false, Errors: []string{fmt.Sprintf("action: unknown action %q", name)}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *ActionTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	name, _ := args["action"].(string)
	fn, ok := t.actions[name]
	if !ok {
		return nil, fmt.Errorf("action: unknown action %q", name)
	}
	return fn(ctx, args, opts)
}

func actionCopyFile(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	from, _ := args["from"].(string)
	to, _ := args["to"].(string)
	fullFrom, err := securePath(opts.ProjectRoot, from)
	if err != nil {
		return nil, fmt.Errorf("copyFile: %w", err)
	}
	fullTo, err := securePath(opts.ProjectRoot, to)
	if err != nil {
		return nil, fmt.Errorf("copyFile: %w", err)
	}

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"from": from, "to": to, "filesCreated": []interface{}{}, "filesModified": []interface{}{}}, nil
	}

	data, err := os.ReadFile(fullFrom)
	if err != nil {
		return nil, fmt.Errorf("copyFile: failed to read %s: %w", from, err)
	}
	existed := fileExists(fullTo)
	if err := os.WriteFile(fullTo, data, 0o644); err != nil {
		return nil, fmt.Errorf("copyFile: failed to write %s: %w", to, err)
	}

	result := map[string]interface{}{"from": from, "to": to}
	if existed {
		result["filesCreated"] = []interface{}{}
		result["filesModified"] = []interface{}{to}
	} else {
		result["filesCreated"] = []interface{}{to}
		result["filesModified"] = []interface{}{}
	}
	return result, nil
}

func actionAppendFile(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	path, _ := args["path"].(string)
	content, _ := args["content"].(string)
	full, err := securePath(opts.ProjectRoot, path)
	if err != nil {
		return nil, fmt.Errorf("appendFile: %w", err)
	}

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"path": path, "filesCreated": []interface{}{}, "filesModified": []interface{}{}}, nil
	}

	existed := fileExists(full)
	f, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("appendFile: failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return nil, fmt.Errorf("appendFile: failed to write %s: %w", path, err)
	}

	result := map[string]interface{}{"path": path}
	if existed {
		result["filesCreated"] = []interface{}{}
		result["filesModified"] = []interface{}{path}
	} else {
		result["filesCreated"] = []interface{}{path}
		result["filesModified"] = []interface{}{}
	}
	return result, nil
}

func actionJSONMerge(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	path, _ := args["path"].(string)
	patch, _ := args["patch"].(map[string]interface{})
	full, err := securePath(opts.ProjectRoot, path)
	if err != nil {
		return nil, fmt.Errorf("jsonMerge: %w", err)
	}

	existing := map[string]interface{}{}
	if data, err := os.ReadFile(full); err == nil {
		_ = json.Unmarshal(data, &existing)
	}
	for k, v := range patch {
		existing[k] = v
	}

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"path": path, "merged": existing, "filesCreated": []interface{}{}, "filesModified": []interface{}{}}, nil
	}

	out, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("jsonMerge: failed to encode %s: %w", path, err)
	}
	existed := fileExists(full)
	if err := os.WriteFile(full, out, 0o644); err != nil {
		return nil, fmt.Errorf("jsonMerge: failed to write %s: %w", path, err)
	}

	result := map[string]interface{}{"path": path, "merged": existing}
	if existed {
		result["filesCreated"] = []interface{}{}
		result["filesModified"] = []interface{}{path}
	} else {
		result["filesCreated"] = []interface{}{path}
		result["filesModified"] = []interface{}{}
	}
	return result, nil
}
