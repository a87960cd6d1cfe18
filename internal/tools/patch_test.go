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

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestPatchToolFindReplace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module old-name\n\ngo 1.23\n")
	tool := &PatchTool{}

	args := map[string]interface{}{"path": "go.mod", "find": "old-name", "replace": "new-name"}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, true, out["changed"])

	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "module new-name")
}

func TestPatchToolFindReplaceNoMatchIsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module old-name\n")
	tool := &PatchTool{}

	args := map[string]interface{}{"path": "go.mod", "find": "nope", "replace": "x"}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, false, out["changed"])
}

func TestPatchToolInsertAfterMarker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n// marker\n")
	tool := &PatchTool{}

	args := map[string]interface{}{"path": "main.go", "insertAfter": "// marker", "content": "\nfunc main() {}\n"}
	_, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func main() {}")
}

func TestPatchToolAppend(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "first\n")
	tool := &PatchTool{}

	args := map[string]interface{}{"path": "notes.txt", "append": "second\n"}
	_, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestPatchToolDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "first\n")
	tool := &PatchTool{}

	args := map[string]interface{}{"path": "notes.txt", "append": "second\n"}
	_, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir, DryRun: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
}
