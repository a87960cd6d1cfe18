package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/ai"
	"github.com/reciper/engine/internal/registry"
)

func TestAIToolValidateRequiresKey(t *testing.T) {
	tool := &AITool{}
	result := tool.Validate(context.Background(), map[string]interface{}{})
	assert.False(t, result.IsValid)
}

func TestAIToolCollectModeRecordsEntry(t *testing.T) {
	tool := &AITool{}
	collector := ai.NewCollector()
	renderer := NewRenderer(collector, nil, true)
	ctx := WithRenderer(context.Background(), renderer)

	args := map[string]interface{}{"key": "tagline", "prompt": "write a tagline"}
	out, err := tool.Execute(ctx, args, registry.ExecuteOptions{CollectMode: true})
	require.NoError(t, err)
	assert.Equal(t, true, out["collected"])

	batch := collector.Batch()
	require.Len(t, batch.Entries, 1)
	assert.Equal(t, "tagline", batch.Entries[0].Key)
}

func TestAIToolResolveModeReturnsAnswer(t *testing.T) {
	tool := &AITool{}
	renderer := NewRenderer(nil, ai.Answers{"tagline": "Ship it."}, false)
	ctx := WithRenderer(context.Background(), renderer)

	out, err := tool.Execute(ctx, map[string]interface{}{"key": "tagline"}, registry.ExecuteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Ship it.", out["value"])
}

func TestAIToolResolveModeErrorsWithoutAnswer(t *testing.T) {
	tool := &AITool{}
	renderer := NewRenderer(nil, ai.Answers{}, false)
	ctx := WithRenderer(context.Background(), renderer)

	_, err := tool.Execute(ctx, map[string]interface{}{"key": "missing"}, registry.ExecuteOptions{})
	assert.Error(t, err)
}
