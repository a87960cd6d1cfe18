package tools

import "context"

type ctxKey int

const (
	rendererKey ctxKey = iota
	runnerKey
	sourceFileKey
)

// RecipeRunner lets the "recipe" tool invoke a sub-recipe without importing
// internal/engine directly (which imports internal/tools to wire its
// registry) — the engine sets this on the context before handing it to the
// executor.
type RecipeRunner interface {
	RunNested(ctx context.Context, recipeRef string, overrides map[string]interface{}) (map[string]interface{}, error)
}

// WithRenderer attaches the execution's Renderer so file-producing tools and
// the output evaluator share one @ai-block resolution state.
func WithRenderer(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey, r)
}

// RendererFrom returns the Renderer attached to ctx, or nil.
func RendererFrom(ctx context.Context) *Renderer {
	r, _ := ctx.Value(rendererKey).(*Renderer)
	return r
}

// WithRunner attaches the RecipeRunner the "recipe" tool delegates to.
func WithRunner(ctx context.Context, r RecipeRunner) context.Context {
	return context.WithValue(ctx, runnerKey, r)
}

// RunnerFrom returns the RecipeRunner attached to ctx, or nil.
func RunnerFrom(ctx context.Context) RecipeRunner {
	r, _ := ctx.Value(runnerKey).(RecipeRunner)
	return r
}

// WithSourceFile records which recipe file a step belongs to, surfaced on
// collected AI entries for operator context.
func WithSourceFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, sourceFileKey, path)
}

// SourceFileFrom returns the source file recorded on ctx, if any.
func SourceFileFrom(ctx context.Context) string {
	s, _ := ctx.Value(sourceFileKey).(string)
	return s
}
