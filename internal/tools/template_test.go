package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/ai"
	"github.com/reciper/engine/internal/registry"
)

func TestTemplateToolWritesRenderedContent(t *testing.T) {
	dir := t.TempDir()
	tool := &TemplateTool{}

	args := map[string]interface{}{
		"path":   "hello.txt",
		"source": "{{ .name }}",
		"name":   "world",
	}
	out, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))
	assert.ElementsMatch(t, []interface{}{"hello.txt"}, out["filesCreated"])
}

func TestTemplateToolDryRunWritesNoFile(t *testing.T) {
	dir := t.TempDir()
	tool := &TemplateTool{}

	args := map[string]interface{}{"path": "hello.txt", "source": "hi"}
	_, err := tool.Execute(context.Background(), args, registry.ExecuteOptions{ProjectRoot: dir, DryRun: true})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "hello.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTemplateToolCollectsAIBlockWithoutAnswer(t *testing.T) {
	dir := t.TempDir()
	tool := &TemplateTool{}
	collector := ai.NewCollector()
	renderer := NewRenderer(collector, nil, true)
	ctx := WithRenderer(context.Background(), renderer)

	args := map[string]interface{}{"path": "intro.txt", "source": `@ai({ key: "intro" })`}
	out, err := tool.Execute(ctx, args, registry.ExecuteOptions{ProjectRoot: dir, CollectMode: true})
	require.NoError(t, err)

	batch := collector.Batch()
	require.Len(t, batch.Entries, 1)
	assert.Equal(t, "intro", batch.Entries[0].Key)
	assert.Empty(t, out["filesCreated"])
}

func TestTemplateToolResolvesAIBlockFromAnswers(t *testing.T) {
	dir := t.TempDir()
	tool := &TemplateTool{}
	renderer := NewRenderer(nil, ai.Answers{"intro": "Hello."}, false)
	ctx := WithRenderer(context.Background(), renderer)

	args := map[string]interface{}{"path": "intro.txt", "source": `@ai({ key: "intro" })`}
	out, err := tool.Execute(ctx, args, registry.ExecuteOptions{ProjectRoot: dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "intro.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello.", string(data))
	assert.Equal(t, []interface{}{"intro.txt"}, out["filesCreated"])
}
