package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/reciper/engine/internal/registry"
)

// InstallTool installs a list of packages through a known package manager,
// the "install" tool type. Unlike ShellTool it never takes a free-form
// command string — only a manager name and a package list — so it can't be
// used as a general shell-escape vector.
type InstallTool struct{}

func NewInstallTool(name string, config map[string]interface{}) (registry.Tool, error) {
	return &InstallTool{}, nil
}

var installCommands = map[string][]string{
	"npm":    {"npm", "install"},
	"yarn":   {"yarn", "add"},
	"pnpm":   {"pnpm", "add"},
	"pip":    {"pip", "install"},
	"pip3":   {"pip3", "install"},
	"poetry": {"poetry", "add"},
	"bundle": {"bundle", "add"},
	"gem":    {"gem", "install"},
	"composer": {"composer", "require"},
	"cargo":  {"cargo", "add"},
	"go":     {"go", "get"},
}

func (t *InstallTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	manager, _ := args["manager"].(string)
	if _, ok := installCommands[manager]; !ok {
		return registry.ValidationResult{IsValid: false, Errors: []string{fmt.Sprintf("install: unsupported package manager %q", manager)}}
	}
	packages, err := toStringSlice(args["packages"])
	if err != nil || len(packages) == 0 {
		return registry.ValidationResult{IsValid: false, Errors: []string{"install requires a non-empty 'packages' list"}}
	}
	return registry.ValidationResult{IsValid: true}
}

func (t *InstallTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	manager, _ := args["manager"].(string)
	base, ok := installCommands[manager]
	if !ok {
		return nil, fmt.Errorf("install: unsupported package manager %q", manager)
	}
	packages, err := toStringSlice(args["packages"])
	if err != nil {
		return nil, fmt.Errorf("install: %w", err)
	}

	if opts.DryRun || opts.CollectMode {
		return map[string]interface{}{"manager": manager, "packages": packages, "executed": false}, nil
	}

	cmdArgs := append(append([]string{}, base[1:]...), packages...)
	cmd := exec.CommandContext(ctx, base[0], cmdArgs...)
	cmd.Dir = opts.ProjectRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return map[string]interface{}{"manager": manager, "packages": packages, "output": stdout.String() + stderr.String()},
			fmt.Errorf("install: %s failed: %w", manager, err)
	}

	return map[string]interface{}{
		"manager":  manager,
		"packages": packages,
		"output":   stdout.String() + stderr.String(),
		"executed": true,
	}, nil
}
