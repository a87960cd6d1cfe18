package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/recipe"
	"github.com/reciper/engine/internal/registry"
	"github.com/reciper/engine/internal/scope"
)

type fakeTool struct {
	fail    bool
	failN   int
	calls   int
	sawArgs map[string]interface{}
}

func (f *fakeTool) Validate(ctx context.Context, args map[string]interface{}) registry.ValidationResult {
	return registry.ValidationResult{IsValid: true}
}

func (f *fakeTool) Execute(ctx context.Context, args map[string]interface{}, opts registry.ExecuteOptions) (map[string]interface{}, error) {
	f.calls++
	f.sawArgs = args
	if f.fail && f.calls <= f.failN {
		return nil, assertErr
	}
	return map[string]interface{}{"value": "ok"}, nil
}

var assertErr = &fakeError{"boom"}

type fakeError struct{ msg string }

func (e *fakeError) Error() string { return e.msg }

func newTestContext(reg *registry.Registry) *Context {
	return &Context{
		ExecutionID: "exec-1",
		Registry:    reg,
		Scope:       scope.New(nil),
	}
}

func TestExecuteRunsStepsAcrossPhases(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	tool := &fakeTool{}
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return tool, nil
	})

	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell"},
		{ID: "b", Name: "b", Tool: "shell", DependsOn: []string{"a"}},
	}

	results, metrics, err := Execute(context.Background(), steps, newTestContext(reg))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, metrics.CompletedSteps)
	for _, r := range results {
		assert.Equal(t, recipe.StatusCompleted, r.Status)
	}
}

func TestExecuteSkipsWhenConditionFalse(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	tool := &fakeTool{}
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return tool, nil
	})

	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", When: "missingVar"},
	}

	results, metrics, err := Execute(context.Background(), steps, newTestContext(reg))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, recipe.StatusSkipped, results[0].Status)
	assert.Equal(t, 1, metrics.SkippedSteps)
	assert.Equal(t, 0, tool.calls)
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	tool := &fakeTool{fail: true, failN: 1}
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return tool, nil
	})

	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", Retries: 3},
	}

	ec := newTestContext(reg)
	ec.RetryBackoffFactor = 1
	results, _, err := Execute(context.Background(), steps, ec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, recipe.StatusCompleted, results[0].Status)
	assert.Equal(t, 1, results[0].RetryCount)
}

func TestExecuteNestedSequenceRunsSerially(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	tool := &fakeTool{}
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return tool, nil
	})

	steps := []recipe.Step{
		{
			ID:   "group",
			Name: "group",
			Tool: "sequence",
			Steps: []recipe.Step{
				{ID: "g1", Name: "g1", Tool: "shell"},
				{ID: "g2", Name: "g2", Tool: "shell"},
			},
		},
	}

	results, _, err := Execute(context.Background(), steps, newTestContext(reg))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, recipe.StatusCompleted, results[0].Status)
	require.Len(t, results[0].Nested, 2)
}

func TestExecuteSkipsDownstreamOnUpstreamFailure(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return &fakeTool{fail: true, failN: 99}, nil
	})

	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell"},
		{ID: "b", Name: "b", Tool: "shell", DependsOn: []string{"a"}},
	}

	results, metrics, err := Execute(context.Background(), steps, newTestContext(reg))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, recipe.StatusFailed, results[0].Status)
	assert.Equal(t, recipe.StatusSkipped, results[1].Status)
	assert.Equal(t, 1, metrics.SkippedSteps)
}

func TestExecuteContinueOnErrorRunsDownstream(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return &fakeTool{fail: true, failN: 99}, nil
	})

	yes := true
	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", ContinueOnError: &yes},
		{ID: "b", Name: "b", Tool: "shell", DependsOn: []string{"a"}},
	}

	results, _, err := Execute(context.Background(), steps, newTestContext(reg))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, recipe.StatusFailed, results[0].Status)
	assert.Equal(t, recipe.StatusCompleted, results[1].Status)
}

func TestExecuteSameWaveStepsDoNotSeeSiblingOutputs(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	tool := &fakeTool{}
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return tool, nil
	})

	f := false
	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", Parallel: &f, Output: map[string]string{"fromA": "value"}},
		{ID: "b", Name: "b", Tool: "shell", Parallel: &f},
	}

	ec := newTestContext(reg)
	ec.OutputEval = func(spec map[string]string, result map[string]interface{}) map[string]interface{} {
		out := make(map[string]interface{}, len(spec))
		for k, src := range spec {
			out[k] = result[src]
		}
		return out
	}

	results, _, err := Execute(context.Background(), steps, ec)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// b ran after a within the same serial wave, but since both read the
	// wave's frozen scope snapshot, b never saw a's output mid-wave.
	_, bSawFromA := tool.sawArgs["fromA"]
	assert.False(t, bSawFromA, "same-phase siblings must not observe each other's output mid-wave")

	_, seenByScope := ec.Scope.Get("fromA")
	assert.True(t, seenByScope, "fromA becomes visible once the wave finishes")
}

func TestExecuteVariableOverridesVisibleToStepNotScope(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	tool := &fakeTool{}
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return tool, nil
	})

	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", VariableOverrides: map[string]interface{}{"secret": "shh"}},
	}

	ec := newTestContext(reg)
	results, _, err := Execute(context.Background(), steps, ec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "shh", tool.sawArgs["secret"])

	_, leaked := ec.Scope.Get("secret")
	assert.False(t, leaked, "variableOverrides must never leak into the shared scope")
}

func TestExecuteRespectsCancellation(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	reg.Register("shell", "default", func(name string, config map[string]interface{}) (registry.Tool, error) {
		return &fakeTool{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := []recipe.Step{{ID: "a", Name: "a", Tool: "shell"}}
	results, _, err := Execute(ctx, steps, newTestContext(reg))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	_ = time.Millisecond
}
