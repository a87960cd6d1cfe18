package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/detector"
	"github.com/reciper/engine/internal/registry"
)

func TestRegisterBuiltinsCoversClosedToolSet(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	RegisterBuiltins(reg, BuiltinDeps{DetectorRegistry: detector.NewRegistry()})

	toolTypes := []string{
		"template", "action", "codemod", "recipe", "shell", "prompt",
		"sequence", "parallel", "ai", "install", "query", "ensure-dirs",
	}
	for _, tt := range toolTypes {
		_, err := reg.Resolve(tt, "default", nil)
		assert.NoError(t, err, "expected tool type %q to resolve", tt)
	}
}

func TestPassthroughToolAlwaysValid(t *testing.T) {
	tool := passthroughTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{})
	assert.True(t, result.IsValid)

	out, err := tool.Execute(context.Background(), map[string]interface{}{}, registry.ExecuteOptions{})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
