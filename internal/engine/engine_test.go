package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciper/engine/internal/recipe"
)

func TestEngineRunExecutesStepsAndAggregatesFileEffects(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine()

	content := `
name: scaffold
steps:
  - name: make-dirs
    tool: ensure-dirs
    with:
      paths: ["src"]
  - name: write-readme
    tool: template
    dependsOn: ["make-dirs"]
    with:
      path: "src/README.md"
      source: "hello {{ .serviceName }}"
`
	r, err := recipe.LoadFromString(content)
	require.NoError(t, err)
	_ = r

	result, err := e.Run(context.Background(), ContentSource("scaffold", content), RunOptions{
		AskMode:    recipe.AskNobody,
		WorkingDir: dir,
		Variables:  map[string]interface{}{"serviceName": "billing"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.FilesCreated, "src/README.md")

	data, err := os.ReadFile(filepath.Join(dir, "src", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello billing", string(data))
}

func TestEngineRunFailsValidationForUnknownTool(t *testing.T) {
	e := newTestEngine()
	content := `
name: broken
steps:
  - name: bogus
    tool: teleport
`
	_, err := e.Run(context.Background(), ContentSource("broken", content), RunOptions{AskMode: recipe.AskNobody})
	assert.Error(t, err)
}

func TestEngineRunReportsMissingRequiredVariable(t *testing.T) {
	e := newTestEngine()
	content := `
name: needs-var
variables:
  - name: serviceName
    type: string
    required: true
steps:
  - name: noop
    tool: ensure-dirs
    with:
      paths: ["x"]
`
	_, err := e.Run(context.Background(), ContentSource("needs-var", content), RunOptions{AskMode: recipe.AskNobody})
	assert.Error(t, err)
}

func TestEngineLoadRecipeCaches(t *testing.T) {
	e := newTestEngine()
	content := "name: cached\nsteps:\n  - name: a\n    tool: ensure-dirs\n    with:\n      paths: [\"x\"]\n"
	src := ContentSource("cached", content)

	r1, err := e.loadRecipe(src)
	require.NoError(t, err)
	r2, err := e.loadRecipe(src)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
}

func TestEngineRunNestedDelegatesToBuiltinRecipe(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(originalWD)

	out, err := e.RunNested(context.Background(), "scaffold-service", map[string]interface{}{
		"serviceName": "billing",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "success")
}
