package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/registry"
)

func TestQueryToolFileExists(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# hi")
	tool := &QueryTool{}

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"query": "file-exists",
		"path":  "README.md",
	}, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, true, out["exists"])
}

func TestQueryToolFileExistsFalseForMissing(t *testing.T) {
	dir := t.TempDir()
	tool := &QueryTool{}

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"query": "file-exists",
		"path":  "missing.txt",
	}, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, false, out["exists"])
}

func TestQueryToolDetectStackWithoutRegistryReportsUndetected(t *testing.T) {
	dir := t.TempDir()
	tool := &QueryTool{}

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"query": "detect-stack",
	}, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)
	assert.Equal(t, false, out["detected"])
}

func TestQueryToolRejectsUnknownQueryKind(t *testing.T) {
	dir := t.TempDir()
	tool := &QueryTool{}

	_, err := tool.Execute(context.Background(), map[string]interface{}{"query": "bogus"}, registry.ExecuteOptions{ProjectRoot: dir})
	assert.Error(t, err)
}
