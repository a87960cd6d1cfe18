package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/recipe"
)

func TestPhasesOrdersByDependency(t *testing.T) {
	steps := []recipe.Step{
		{ID: "c", Name: "c", Tool: "shell", DependsOn: []string{"a", "b"}},
		{ID: "a", Name: "a", Tool: "shell"},
		{ID: "b", Name: "b", Tool: "shell"},
	}

	waves, err := phases(steps)
	require.NoError(t, err)
	require.Len(t, waves, 2)
	assert.Len(t, waves[0], 2)
	assert.Len(t, waves[1], 1)
	assert.Equal(t, "c", waves[1][0].ID)
}

func TestPhasesDetectsCircularDependency(t *testing.T) {
	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", DependsOn: []string{"b"}},
		{ID: "b", Name: "b", Tool: "shell", DependsOn: []string{"a"}},
	}

	_, err := phases(steps)
	assert.Error(t, err)
}

func TestPhasesRejectsUnknownDependency(t *testing.T) {
	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell", DependsOn: []string{"ghost"}},
	}

	_, err := phases(steps)
	assert.Error(t, err)
}

func TestPhasesNoDependencySingleWave(t *testing.T) {
	steps := []recipe.Step{
		{ID: "a", Name: "a", Tool: "shell"},
		{ID: "b", Name: "b", Tool: "shell"},
		{ID: "c", Name: "c", Tool: "shell"},
	}

	waves, err := phases(steps)
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Len(t, waves[0], 3)
}
