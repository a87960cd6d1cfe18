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

func TestEnsureDirsToolCreatesMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	tool := &EnsureDirsTool{}

	args := map[string]interface{}{"paths": []interface{}{"src", "src/internal", "assets"}}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	for _, p := range []string{"src", "src/internal", "assets"} {
		info, statErr := os.Stat(filepath.Join(dir, p))
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
	assert.ElementsMatch(t, []interface{}{"src", "src/internal", "assets"}, out["filesCreated"])
}

func TestEnsureDirsToolSkipsExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	tool := &EnsureDirsTool{}

	out, err := tool.Execute(context.Background(), map[string]interface{}{"path": "src"}, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Empty(t, out["filesCreated"])
}

func TestEnsureDirsToolValidateRejectsEmpty(t *testing.T) {
	tool := &EnsureDirsTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{})
	assert.False(t, result.IsValid)
}

func TestEnsureDirsToolRejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	tool := &EnsureDirsTool{}
	_, err := tool.Execute(context.Background(), map[string]interface{}{"path": "../outside"}, registry.ExecuteOptions{ProjectRoot: dir})
	assert.Error(t, err)
}
