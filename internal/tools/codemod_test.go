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

func TestCodemodToolAppliesPatternReplace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "func Old() {}\n")
	tool := &CodemodTool{}

	args := map[string]interface{}{"path": "main.go", "pattern": `func Old\(\)`, "replacement": "func New()"}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, true, out["changed"])

	data, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func New()")
}

func TestCodemodToolNoMatchIsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "func Old() {}\n")
	tool := &CodemodTool{}

	args := map[string]interface{}{"path": "main.go", "pattern": `func Missing\(\)`, "replacement": "x"}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, false, out["changed"])
}

func TestCodemodToolValidateRejectsBadPattern(t *testing.T) {
	tool := &CodemodTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{"path": "x", "pattern": "("})
	assert.False(t, result.IsValid)
}
