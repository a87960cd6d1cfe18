package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/reciper/engine/internal/registry"
)

// ShellTool executes a single shell command with strict allowlisting,
// generalized from this codebase's docker/docker-compose-only ShellTool
// into a configurable command allowlist (defaulting to common build/package
// tooling) since a recipe is no longer limited to Dockerfile generation.
type ShellTool struct {
	allowedCommands map[string]struct{}
}

var defaultShellAllowlist = []string{
	"go", "npm", "npx", "yarn", "pnpm", "pip", "pip3", "python", "python3",
	"git", "make", "docker", "docker-compose", "cargo", "bundle", "composer",
	"gem", "mkdir", "cp", "mv", "echo",
}

func NewShellTool(name string, config map[string]interface{}) (registry.Tool, error) {
	allow := defaultShellAllowlist
	if raw, ok := config["allow"]; ok {
		extra, err := toStringSlice(raw)
		if err != nil {
			return nil, fmt.Errorf("shell: invalid 'allow' list: %w", err)
		}
		allow = append(append([]string{}, allow...), extra...)
	}
	set := make(map[string]struct{}, len(allow))
	for _, c := range allow {
		set[c] = struct{}{}
	}
	return &ShellTool{allowedCommands: set}, nil
}

func (t *ShellTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	command, _ := args["command"].(string)
	if command == "" {
		return registry.ValidationResult{IsValid: false, Errors: []string{"shell requires a 'command'"}}
	}
	if err := t.validateShellCommand(command); err != nil {
		return registry.ValidationResult{IsValid: false, Errors: []string{err.Error()}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *ShellTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	command, _ := args["command"].(string)
	if err := t.validateShellCommand(command); err != nil {
		return nil, err
	}

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"command": command, "executed": false}, nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = opts.ProjectRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stdout.String() + stderr.String()
	if err != nil {
		return map[string]interface{}{"command": command, "output": output}, fmt.Errorf("command failed: %w", err)
	}
	return map[string]interface{}{"command": command, "output": output, "executed": true}, nil
}

// validateShellCommand blocks shell metacharacters, chaining, and any base
// command outside the tool's allowlist.
func (t *ShellTool) validateShellCommand(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}

	blockedChars := "\n\r><|$`;&"
	for _, c := range blockedChars {
		if strings.ContainsRune(command, c) {
			return fmt.Errorf("shell metacharacter not allowed: %q", c)
		}
	}
	if strings.Contains(command, "&&") || strings.Contains(command, "||") {
		return fmt.Errorf("command chaining not allowed")
	}

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return fmt.Errorf("empty command")
	}

	baseCmd := filepath.Base(parts[0])
	if _, ok := t.allowedCommands[baseCmd]; !ok {
		return fmt.Errorf("command not allowed: %s", baseCmd)
	}
	return nil
}
