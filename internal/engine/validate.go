package engine

import (
	"fmt"

	"github.com/reciper/engine/internal/recipe"
)

// closedToolSet is the closed set of tool types a step's Tool field may
// name; validateRecipe rejects anything outside it.
var closedToolSet = map[string]struct{}{
	"template": {}, "action": {}, "codemod": {}, "recipe": {}, "shell": {},
	"prompt": {}, "sequence": {}, "parallel": {}, "ai": {}, "install": {},
	"query": {}, "patch": {}, "ensure-dirs": {},
}

// ValidationIssue is one structured problem validateRecipe found.
type ValidationIssue struct {
	Severity string // "error" or "warning"
	Message  string
}

func issueErr(format string, args ...interface{}) ValidationIssue {
	return ValidationIssue{Severity: "error", Message: fmt.Sprintf(format, args...)}
}

// ValidateRecipe exposes validateRecipe for callers (the CLI's validate
// command in particular) that want the issue list without running the
// recipe.
func (e *Engine) ValidateRecipe(r *recipe.Recipe) []ValidationIssue {
	return e.validateRecipe(r)
}

// validateRecipe checks r's shape against the engine's closed invariants:
// a name, a non-empty step list, unique step names, every dependsOn target
// resolvable, every tool type in the closed set, and each declared
// variable's default (if any) matching its declared type. Recipe
// dependencies are loaded and validated too; a required dependency that
// fails validation aborts with its own issues folded in.
func (e *Engine) validateRecipe(r *recipe.Recipe) []ValidationIssue {
	var issues []ValidationIssue

	if r.Name == "" {
		issues = append(issues, issueErr("recipe is missing a name"))
	}
	if len(r.Steps) == 0 {
		issues = append(issues, issueErr("recipe %q has no steps", r.Name))
	}

	seen := make(map[string]struct{}, len(r.Steps))
	var walk func(steps []recipe.Step)
	walk = func(steps []recipe.Step) {
		for _, s := range steps {
			name := s.ID
			if name == "" {
				name = s.Name
			}
			if name == "" {
				issues = append(issues, issueErr("recipe %q has a step with no name or id", r.Name))
				continue
			}
			if _, dup := seen[name]; dup {
				issues = append(issues, issueErr("recipe %q has a duplicate step name %q", r.Name, name))
			}
			seen[name] = struct{}{}

			if _, ok := closedToolSet[s.Tool]; !ok {
				issues = append(issues, issueErr("step %q uses unknown tool type %q", name, s.Tool))
			}
			if len(s.Steps) > 0 {
				walk(s.Steps)
			}
		}
	}
	walk(r.Steps)

	var checkDeps func(steps []recipe.Step)
	checkDeps = func(steps []recipe.Step) {
		for _, s := range steps {
			name := s.ID
			if name == "" {
				name = s.Name
			}
			for _, dep := range s.DependsOn {
				if _, ok := seen[dep]; !ok {
					issues = append(issues, issueErr("step %q depends on unknown step %q", name, dep))
				}
			}
			if len(s.Steps) > 0 {
				checkDeps(s.Steps)
			}
		}
	}
	checkDeps(r.Steps)

	for _, v := range r.Variables {
		if v.Default != nil {
			if err := validateVariableValue(v, v.Default); err != nil {
				issues = append(issues, issueErr("variable %q: %v", v.Name, err))
			}
		}
	}

	for _, dep := range r.Dependencies {
		required := true
		depRecipe, err := e.loadRecipe(BuiltinSource(dep))
		if err != nil {
			if required {
				issues = append(issues, issueErr("recipe %q depends on %q which failed to load: %v", r.Name, dep, err))
			}
			continue
		}
		depIssues := e.validateRecipe(depRecipe)
		for _, di := range depIssues {
			if di.Severity == "error" && required {
				issues = append(issues, issueErr("dependency %q: %s", dep, di.Message))
			}
		}
	}

	return issues
}

func hasErrors(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}
