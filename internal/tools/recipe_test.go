package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/registry"
)

type fakeRunner struct {
	ref       string
	overrides map[string]interface{}
	result    map[string]interface{}
	err       error
}

func (f *fakeRunner) RunNested(ctx context.Context, ref string, overrides map[string]interface{}) (map[string]interface{}, error) {
	f.ref = ref
	f.overrides = overrides
	return f.result, f.err
}

func TestRecipeToolValidateRequiresReference(t *testing.T) {
	tool := &RecipeTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{})
	assert.False(t, result.IsValid)
}

func TestRecipeToolExecuteDelegatesToRunner(t *testing.T) {
	tool := &RecipeTool{}
	runner := &fakeRunner{result: map[string]interface{}{"ok": true}}
	ctx := WithRunner(context.Background(), runner)

	out, err := tool.Execute(ctx, map[string]interface{}{"recipe": "setup-node"}, registry.ExecuteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "setup-node", runner.ref)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "setup-node", out["recipe"])
}

func TestRecipeToolExecuteWithoutRunnerErrors(t *testing.T) {
	tool := &RecipeTool{}
	_, err := tool.Execute(context.Background(), map[string]interface{}{"recipe": "setup-node"}, registry.ExecuteOptions{})
	assert.Error(t, err)
}

func TestRecipeToolCollectModeSkipsExecution(t *testing.T) {
	tool := &RecipeTool{}
	runner := &fakeRunner{}
	ctx := WithRunner(context.Background(), runner)

	out, err := tool.Execute(ctx, map[string]interface{}{"recipe": "setup-node"}, registry.ExecuteOptions{CollectMode: true})
	require.NoError(t, err)
	assert.Equal(t, false, out["executed"])
	assert.Empty(t, runner.ref)
}
