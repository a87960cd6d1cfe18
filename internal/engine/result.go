package engine

import (
	"github.com/reciper/engine/internal/ai"
	"github.com/reciper/engine/internal/executor"
	"github.com/reciper/engine/internal/recipe"
)

// RecipeExecutionResult is what executeRecipe returns: the step results
// plus everything aggregated from them (file effects, provided values,
// metrics, and the rendered onSuccess/onError message).
type RecipeExecutionResult struct {
	Recipe         string
	Success        bool
	Results        []recipe.StepResult
	Metrics        executor.Metrics
	FilesCreated   []string
	FilesModified  []string
	ProvidedValues map[string]interface{}
	Message        string

	// CollectedBatch is non-nil only for a Pass 1 (collect-mode) run: the
	// set of unresolved @ai blocks/ai steps an external assembler should
	// turn into a prompt for a model.
	CollectedBatch *ai.Batch
}

// aggregateFileEffects walks every StepResult (recursing into container
// steps' Nested results) and unions the conventional "filesCreated"/
// "filesModified" keys each file-producing tool's Output carries, since
// recipe.StepResult itself has no dedicated fields for them.
func aggregateFileEffects(results []recipe.StepResult) (created, modified []string) {
	createdSet := make(map[string]struct{})
	modifiedSet := make(map[string]struct{})

	var walk func(rs []recipe.StepResult)
	walk = func(rs []recipe.StepResult) {
		for _, r := range rs {
			for _, f := range toStrings(r.Output["filesCreated"]) {
				createdSet[f] = struct{}{}
			}
			for _, f := range toStrings(r.Output["filesModified"]) {
				modifiedSet[f] = struct{}{}
			}
			if len(r.Nested) > 0 {
				walk(r.Nested)
			}
		}
	}
	walk(results)

	for f := range createdSet {
		created = append(created, f)
	}
	for f := range modifiedSet {
		modified = append(modified, f)
	}
	return created, modified
}

func toStrings(raw interface{}) []string {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func providedValues(r *recipe.Recipe, variables map[string]interface{}) map[string]interface{} {
	if len(r.Provides) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(r.Provides))
	for _, name := range r.Provides {
		if v, ok := variables[name]; ok {
			out[name] = v
		}
	}
	return out
}

func resultSuccess(results []recipe.StepResult) bool {
	for _, r := range results {
		if r.Status == recipe.StatusFailed || r.Status == recipe.StatusTimedOut {
			return false
		}
		if len(r.Nested) > 0 && !resultSuccess(r.Nested) {
			return false
		}
	}
	return true
}
