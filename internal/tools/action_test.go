package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/registry"
)

func TestActionToolValidateRejectsUnknownAction(t *testing.T) {
	tool := &ActionTool{actions: defaultActions()}
	result := tool.Validate(context.Background(), map[string]interface{}{"action": "teleport"})
	assert.False(t, result.IsValid)
}

func TestActionToolCopyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "source.txt", "payload")
	tool := &ActionTool{actions: defaultActions()}

	args := map[string]interface{}{"action": "copyFile", "from": "source.txt", "to": "dest.txt"}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "dest.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, []interface{}{"dest.txt"}, out["filesCreated"])
}

func TestActionToolAppendFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "log.txt", "line1\n")
	tool := &ActionTool{actions: defaultActions()}

	args := map[string]interface{}{"action": "appendFile", "path": "log.txt", "content": "line2\n"}
	_, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(data))
}

func TestActionToolJSONMergePreservesExistingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pkg.json", `{"name": "demo", "version": "1.0.0"}`)
	tool := &ActionTool{actions: defaultActions()}

	args := map[string]interface{}{
		"action": "jsonMerge",
		"path":   "pkg.json",
		"patch":  map[string]interface{}{"version": "2.0.0"},
	}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	merged := out["merged"].(map[string]interface{})
	assert.Equal(t, "demo", merged["name"])
	assert.Equal(t, "2.0.0", merged["version"])
}

func TestActionToolCopyFileDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "source.txt", "payload")
	tool := &ActionTool{actions: defaultActions()}

	args := map[string]interface{}{"action": "copyFile", "from": "source.txt", "to": "dest.txt"}
	_, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir, DryRun: true})
	require.NoError(t, err)

	assert.False(t, fileExists(filepath.Join(dir, "dest.txt")))
}
