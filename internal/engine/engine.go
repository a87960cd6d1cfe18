// Package engine implements the Recipe Engine: the outer orchestrator that
// loads a recipe, validates it, resolves its variables, builds an
// execution context, hands the step list to the Step Executor, and
// aggregates the results into a RecipeExecutionResult. It is the one
// caller of internal/executor from outside that package's own tests.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/reciper/engine/internal/ai"
	internalerrors "github.com/reciper/engine/internal/errors"
	"github.com/reciper/engine/internal/executor"
	"github.com/reciper/engine/internal/output"
	"github.com/reciper/engine/internal/recipe"
	"github.com/reciper/engine/internal/registry"
	"github.com/reciper/engine/internal/scope"
	"github.com/reciper/engine/internal/tools"
)

// Engine is the recipe engine's outer orchestrator. One Engine is normally
// shared process-wide: its Registry and recipe cache are read-mostly and
// safe for concurrent Run calls.
type Engine struct {
	Registry            *registry.Registry
	Inspectors          []registry.Inspector
	Transport           ai.Transport
	EnableAI            bool
	MaxConcurrency      int
	DefaultTimeout      time.Duration
	TimeoutSafetyFactor float64
	RetryBackoffFactor  float64
	// ContinueOnError is the engine-wide default for steps/recipes that
	// don't declare their own continueOnError.
	ContinueOnError bool
	Events          chan executor.Event

	cache *recipeCache
}

// New builds an Engine with its own recipe cache and the built-in tools
// registered against reg (callers that want custom/extra tool types can
// register them on reg before or after constructing the Engine).
func New(reg *registry.Registry, deps tools.BuiltinDeps) *Engine {
	tools.RegisterBuiltins(reg, deps)
	return &Engine{
		Registry: reg,
		cache:    newRecipeCache(),
	}
}

// Cleanup discards the Engine's recipe cache.
func (e *Engine) Cleanup() {
	e.cache.Cleanup()
}

// loadRecipe reads, parses, and caches a Recipe from src, applying the
// defaults loadRecipe's projection step promises (version, category, tags,
// variables) on top of whatever recipe.Load already normalized.
func (e *Engine) loadRecipe(src Source) (*recipe.Recipe, error) {
	key := src.cacheKey()
	if r, ok := e.cache.get(key); ok {
		return r, nil
	}

	var r *recipe.Recipe
	var err error
	switch src.Type {
	case "file":
		r, err = recipe.Load(src.Path)
	case "builtin":
		r, err = recipe.GetBuiltinRecipe(src.Name)
	default:
		r, err = recipe.LoadFromString(src.Content)
		if err == nil {
			r.SourcePath = "content:" + src.Name
		}
	}
	if err != nil {
		return nil, internalerrors.New(internalerrors.KindValidation, src.Name, "", "failed to load recipe", err)
	}

	applyRecipeDefaults(r)
	e.cache.set(key, r)
	return r, nil
}

func applyRecipeDefaults(r *recipe.Recipe) {
	if r.Version == "" {
		r.Version = "1.0.0"
	}
	if r.Category == "" {
		r.Category = "general"
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// Run executes a recipe end to end: loadRecipe, validateRecipe,
// resolveVariables, createExecutionContext, StepExecutor.Execute,
// aggregateResults.
func (e *Engine) Run(ctx context.Context, src Source, opts RunOptions) (*RecipeExecutionResult, error) {
	r, err := e.loadRecipe(src)
	if err != nil {
		return nil, err
	}

	if issues := e.validateRecipe(r); hasErrors(issues) {
		return nil, internalerrors.New(internalerrors.KindValidation, r.Name, "", fmt.Sprintf("recipe failed validation: %v", issues), nil)
	}

	variables, err := e.resolveVariables(ctx, r, opts)
	if err != nil {
		return nil, err
	}

	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}

	collectMode := opts.Answers == nil && e.EnableAI
	var collector *ai.Collector
	if collectMode {
		collector = ai.NewCollector()
	}

	renderer := tools.NewRenderer(collector, opts.Answers, collectMode)
	runCtx := tools.WithRenderer(ctx, renderer)
	runCtx = tools.WithRunner(runCtx, e)
	runCtx = tools.WithSourceFile(runCtx, r.SourcePath)

	sc := scope.New(variables)

	maxConcurrency := opts.Concurrency
	if maxConcurrency <= 0 {
		maxConcurrency = e.MaxConcurrency
	}

	continueOnError := e.ContinueOnError
	if v, ok := r.Settings["continueOnError"].(bool); ok {
		continueOnError = v
	}

	ec := &executor.Context{
		ExecutionID:         uuid.NewString(),
		Registry:            e.Registry,
		Scope:               sc,
		Inspectors:          e.Inspectors,
		ProjectRoot:         workingDir,
		DryRun:              opts.DryRun || collectMode,
		CollectMode:         collectMode,
		MaxConcurrency:      maxConcurrency,
		DefaultTimeout:      e.DefaultTimeout,
		TimeoutSafetyFactor: e.TimeoutSafetyFactor,
		RetryBackoffFactor:  e.RetryBackoffFactor,
		ContinueOnError:     continueOnError,
		Events:              e.Events,
		OutputEval: func(spec map[string]string, result map[string]interface{}) map[string]interface{} {
			return output.Evaluate(spec, result, renderer)
		},
	}

	results, metrics, err := executor.Execute(runCtx, r.Steps, ec)

	created, modified := aggregateFileEffects(results)
	success := err == nil && resultSuccess(results)

	final := &RecipeExecutionResult{
		Recipe:         r.Name,
		Success:        success,
		Results:        results,
		Metrics:        metrics,
		FilesCreated:   created,
		FilesModified:  modified,
		ProvidedValues: providedValues(r, sc.Snapshot()),
	}

	if collectMode && collector != nil {
		batch := collector.Batch()
		final.CollectedBatch = &batch
	}

	final.Message = renderLifecycleMessage(r, variables, final)

	if err != nil {
		return final, err
	}
	return final, nil
}

// RunNested implements tools.RecipeRunner so the "recipe" tool can invoke a
// sub-recipe without internal/tools importing this package.
func (e *Engine) RunNested(ctx context.Context, recipeRef string, overrides map[string]interface{}) (map[string]interface{}, error) {
	src := FileSource(recipeRef)
	if _, err := os.Stat(recipeRef); err != nil {
		src = BuiltinSource(recipeRef)
	}

	result, err := e.Run(ctx, src, RunOptions{Variables: overrides, AskMode: recipe.AskNobody})
	if err != nil {
		return nil, err
	}

	out := map[string]interface{}{
		"success":       result.Success,
		"filesCreated":  toInterfaceSlice(result.FilesCreated),
		"filesModified": toInterfaceSlice(result.FilesModified),
	}
	for k, v := range result.ProvidedValues {
		out[k] = v
	}
	return out, nil
}

// renderLifecycleMessage renders the recipe's onSuccess/onError template
// (whichever applies) with { variables, recipe, result } as scope. A
// rendering failure is swallowed to an empty message, never surfaced as a
// run failure.
func renderLifecycleMessage(r *recipe.Recipe, variables map[string]interface{}, result *RecipeExecutionResult) string {
	tmplSrc := r.OnSuccess
	if !result.Success {
		tmplSrc = r.OnError
	}
	if tmplSrc == "" {
		return ""
	}

	tmpl, err := template.New("lifecycle").Parse(tmplSrc)
	if err != nil {
		return ""
	}
	data := map[string]interface{}{
		"variables": variables,
		"recipe":    r.Name,
		"result":    result,
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func toInterfaceSlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
