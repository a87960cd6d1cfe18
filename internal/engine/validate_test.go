package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reciper/engine/internal/recipe"
	"github.com/reciper/engine/internal/registry"
	"github.com/reciper/engine/internal/tools"
)

func newTestEngine() *Engine {
	reg := registry.New(registry.DefaultOptions())
	return New(reg, tools.BuiltinDeps{})
}

func TestValidateRecipeRejectsMissingName(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{Steps: []recipe.Step{{Name: "a", Tool: "shell"}}}
	issues := e.validateRecipe(r)
	assert.True(t, hasErrors(issues))
}

func TestValidateRecipeRejectsEmptySteps(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{Name: "demo"}
	issues := e.validateRecipe(r)
	assert.True(t, hasErrors(issues))
}

func TestValidateRecipeRejectsDuplicateStepNames(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Steps: []recipe.Step{
			{Name: "a", Tool: "shell"},
			{Name: "a", Tool: "shell"},
		},
	}
	issues := e.validateRecipe(r)
	assert.True(t, hasErrors(issues))
}

func TestValidateRecipeRejectsUnknownTool(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name:  "demo",
		Steps: []recipe.Step{{Name: "a", Tool: "teleport"}},
	}
	issues := e.validateRecipe(r)
	assert.True(t, hasErrors(issues))
}

func TestValidateRecipeRejectsUnknownDependsOn(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Steps: []recipe.Step{
			{Name: "a", Tool: "shell", DependsOn: []string{"missing"}},
		},
	}
	issues := e.validateRecipe(r)
	assert.True(t, hasErrors(issues))
}

func TestValidateRecipeAcceptsWellFormedRecipe(t *testing.T) {
	e := newTestEngine()
	r := &recipe.Recipe{
		Name: "demo",
		Steps: []recipe.Step{
			{Name: "a", Tool: "shell"},
			{Name: "b", Tool: "shell", DependsOn: []string{"a"}},
		},
	}
	issues := e.validateRecipe(r)
	assert.False(t, hasErrors(issues))
}
