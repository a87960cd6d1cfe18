// Package recipe defines the declarative, YAML-based recipe data model:
// Recipe, Variable Declaration, and Step.
package recipe

import "time"

// VariableType is the closed set of types a recipe variable can declare.
type VariableType string

const (
	VarString    VariableType = "string"
	VarNumber    VariableType = "number"
	VarBoolean   VariableType = "boolean"
	VarEnum      VariableType = "enum"
	VarArray     VariableType = "array"
	VarObject    VariableType = "object"
	VarFile      VariableType = "file"
	VarDirectory VariableType = "directory"
)

// AskMode controls how an unresolved variable gets its value.
type AskMode string

const (
	AskMe     AskMode = "me"     // prompt the human interactively
	AskAI     AskMode = "ai"     // route through the two-phase AI flow
	AskNobody AskMode = "nobody" // fail if no default/override is available
)

// VariableDeclaration describes one entry in a Recipe's variables block.
type VariableDeclaration struct {
	Name        string       `yaml:"name"`
	Type        VariableType `yaml:"type"`
	Description string       `yaml:"description,omitempty"`
	Default     interface{}  `yaml:"default,omitempty"`
	Required    bool         `yaml:"required,omitempty"`
	Enum        []string     `yaml:"enum,omitempty"`
	AskMode     AskMode      `yaml:"askMode,omitempty"`
}

// Recipe is a reusable, declarative workflow definition.
type Recipe struct {
	Name         string                          `yaml:"name"`
	Version      string                          `yaml:"version"`
	Description  string                          `yaml:"description,omitempty"`
	Category     string                          `yaml:"category,omitempty"`
	Tags         []string                        `yaml:"tags,omitempty"`
	Variables    []VariableDeclaration           `yaml:"variables,omitempty"`
	Steps        []Step                          `yaml:"steps"`
	Provides     []string                        `yaml:"provides,omitempty"`
	Dependencies []string                        `yaml:"dependencies,omitempty"`
	OnSuccess    string                          `yaml:"onSuccess,omitempty"`
	OnError      string                          `yaml:"onError,omitempty"`
	Outputs      map[string]string               `yaml:"outputs,omitempty"`
	Hooks        map[string]string               `yaml:"hooks,omitempty"`
	Settings     map[string]interface{}          `yaml:"settings,omitempty"`

	// SourcePath records where the recipe was loaded from (file path, or
	// "content:<name>" for an in-memory/builtin recipe); used for error
	// messages and cache keys, never serialized.
	SourcePath string `yaml:"-"`
}

// Step is a single entry in a Recipe's step list. Tool is the discriminator
// over the closed tool-type set (template, action, codemod, recipe, shell,
// prompt, sequence, parallel, ai, install, query, patch, ensure-dirs); With
// carries that tool's own configuration, unconstrained by this package.
type Step struct {
	ID                 string                 `yaml:"id,omitempty"`
	Name               string                 `yaml:"name"`
	Tool               string                 `yaml:"tool"`
	With               map[string]interface{} `yaml:"with,omitempty"`
	DependsOn          []string               `yaml:"dependsOn,omitempty"`
	When               string                 `yaml:"when,omitempty"`
	SkipIf             string                 `yaml:"skipIf,omitempty"`
	Parallel           *bool                  `yaml:"parallel,omitempty"`
	Retries            int                    `yaml:"retries,omitempty"`
	RetryBackoffFactor float64                `yaml:"retryBackoffFactor,omitempty"`
	Timeout            time.Duration          `yaml:"timeout,omitempty"`
	OnError            string                 `yaml:"onError,omitempty"` // "continue", "fail", "retry"
	// ContinueOnError overrides the recipe-level default for this step: when
	// false (the resolved default, step or recipe), a step that fails stops
	// every not-yet-started step that depends on it (transitively) from
	// starting, skipping them with reason "upstream-failure" instead. Nil
	// inherits the recipe-level setting.
	ContinueOnError    *bool                  `yaml:"continueOnError,omitempty"`
	Output             map[string]string      `yaml:"output,omitempty"`
	VariableOverrides  map[string]interface{} `yaml:"variableOverrides,omitempty"`

	// Steps holds the nested step list for the sequence/parallel container
	// tool types.
	Steps []Step `yaml:"steps,omitempty"`
}

// StepStatus is the closed set of terminal states a step can end in.
type StepStatus string

const (
	StatusCompleted StepStatus = "completed"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
	StatusCancelled StepStatus = "cancelled"
	StatusTimedOut  StepStatus = "timed-out"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	StepID     string
	Name       string
	Tool       string
	Status     StepStatus
	Output     map[string]interface{}
	Error      error
	StartedAt  time.Time
	EndedAt    time.Time
	RetryCount int
	// Nested holds child StepResults for sequence/parallel container steps;
	// the parent container's own result is never counted as a leaf step.
	Nested []StepResult
}

// Duration returns how long the step ran.
func (r StepResult) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
