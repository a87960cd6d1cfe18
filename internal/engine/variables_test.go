package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/ai"
	"github.com/reciper/engine/internal/recipe"
)

func TestResolveVariablesAppliesDefaults(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Variables: []recipe.VariableDeclaration{
			{Name: "withDatabase", Type: recipe.VarBoolean, Default: false},
		},
	}
	resolved, err := e.resolveVariables(context.Background(), r, RunOptions{AskMode: recipe.AskNobody})
	require.NoError(t, err)
	assert.Equal(t, false, resolved["withDatabase"])
}

func TestResolveVariablesAcceptsSuppliedValue(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Variables: []recipe.VariableDeclaration{
			{Name: "serviceName", Type: recipe.VarString, Required: true},
		},
	}
	resolved, err := e.resolveVariables(context.Background(), r, RunOptions{
		AskMode:   recipe.AskNobody,
		Variables: map[string]interface{}{"serviceName": "billing"},
	})
	require.NoError(t, err)
	assert.Equal(t, "billing", resolved["serviceName"])
}

func TestResolveVariablesRejectsWrongType(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Variables: []recipe.VariableDeclaration{
			{Name: "retries", Type: recipe.VarNumber},
		},
	}
	_, err := e.resolveVariables(context.Background(), r, RunOptions{
		AskMode:   recipe.AskNobody,
		Variables: map[string]interface{}{"retries": "three"},
	})
	assert.Error(t, err)
}

func TestResolveVariablesAskNobodyFailsOnMissingRequired(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Variables: []recipe.VariableDeclaration{
			{Name: "serviceName", Type: recipe.VarString, Required: true},
		},
	}
	_, err := e.resolveVariables(context.Background(), r, RunOptions{AskMode: recipe.AskNobody})
	assert.Error(t, err)
}

func TestResolveVariablesMergesFreeVariables(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{Name: "demo"}
	resolved, err := e.resolveVariables(context.Background(), r, RunOptions{
		AskMode:   recipe.AskNobody,
		Variables: map[string]interface{}{"extra": "value"},
	})
	require.NoError(t, err)
	assert.Equal(t, "value", resolved["extra"])
}

type fakeTransport struct {
	answers ai.Answers
}

func (f *fakeTransport) Name() string       { return "fake" }
func (f *fakeTransport) IsAvailable() bool  { return true }
func (f *fakeTransport) Resolve(ctx context.Context, batch ai.Batch) (ai.Answers, error) {
	return f.answers, nil
}

func TestResolveVariablesAskAIUsesTransport(t *testing.T) {
	e := newTestEngine()
	e.Transport = &fakeTransport{answers: ai.Answers{"serviceName": "billing"}}

	r := &recipe.Recipe{
		Name: "demo",
		Variables: []recipe.VariableDeclaration{
			{Name: "serviceName", Type: recipe.VarString, Required: true},
		},
	}
	resolved, err := e.resolveVariables(context.Background(), r, RunOptions{AskMode: recipe.AskAI})
	require.NoError(t, err)
	assert.Equal(t, "billing", resolved["serviceName"])
}

func TestValidateVariableValueEnum(t *testing.T) {
	v := recipe.VariableDeclaration{Name: "mode", Type: recipe.VarEnum, Enum: []string{"a", "b"}}
	assert.NoError(t, validateVariableValue(v, "a"))
	assert.Error(t, validateVariableValue(v, "c"))
}
