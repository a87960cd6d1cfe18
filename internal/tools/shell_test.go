package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/registry"
)

func TestShellToolValidateAllowsListedCommand(t *testing.T) {
	tool, err := NewShellTool("default", nil)
	require.NoError(t, err)

	result := tool.Validate(context.Background(), map[string]interface{}{"command": "go build ./..."})
	assert.True(t, result.IsValid)
}

func TestShellToolValidateRejectsUnlistedCommand(t *testing.T) {
	tool, err := NewShellTool("default", nil)
	require.NoError(t, err)

	result := tool.Validate(context.Background(), map[string]interface{}{"command": "curl https://example.com"})
	assert.False(t, result.IsValid)
}

func TestShellToolValidateRejectsChaining(t *testing.T) {
	tool, err := NewShellTool("default", nil)
	require.NoError(t, err)

	result := tool.Validate(context.Background(), map[string]interface{}{"command": "go build && rm -rf /"})
	assert.False(t, result.IsValid)
}

func TestShellToolValidateRejectsMetacharacters(t *testing.T) {
	tool, err := NewShellTool("default", nil)
	require.NoError(t, err)

	result := tool.Validate(context.Background(), map[string]interface{}{"command": "echo hi > /etc/passwd"})
	assert.False(t, result.IsValid)
}

func TestShellToolExecuteRunsAllowedCommand(t *testing.T) {
	dir := t.TempDir()
	tool, err := NewShellTool("default", nil)
	require.NoError(t, err)

	out, err := tool.(*ShellTool).Execute(context.Background(), map[string]interface{}{"command": "echo hello"}, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Contains(t, out["output"], "hello")
}

func TestShellToolExecuteDryRunDoesNotRun(t *testing.T) {
	dir := t.TempDir()
	tool, err := NewShellTool("default", nil)
	require.NoError(t, err)

	out, err := tool.(*ShellTool).Execute(context.Background(), map[string]interface{}{"command": "echo hello"}, registry.ExecuteOptions{ProjectRoot: dir, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, false, out["executed"])
}

func TestShellToolHonorsExtraAllowlist(t *testing.T) {
	tool, err := NewShellTool("default", map[string]interface{}{"allow": []interface{}{"curl"}})
	require.NoError(t, err)

	result := tool.Validate(context.Background(), map[string]interface{}{"command": "curl https://example.com"})
	assert.True(t, result.IsValid)
}
