package engine

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/reciper/engine/internal/ai"
	internalerrors "github.com/reciper/engine/internal/errors"
	"github.com/reciper/engine/internal/recipe"
)

// RunOptions carries everything resolveVariables and executeRecipe need
// from the caller beyond the recipe source itself.
type RunOptions struct {
	Variables   map[string]interface{}
	AskMode     recipe.AskMode
	NoDefaults  bool
	DryRun      bool
	Answers     ai.Answers
	WorkingDir  string
	Concurrency int
}

// resolveVariables applies caller-supplied values and defaults, then
// resolves whatever remains unresolved according to askMode, returning the
// full variable scope or a VALIDATION_ERROR aggregating every required
// variable that stayed unresolved.
func (e *Engine) resolveVariables(ctx context.Context, r *recipe.Recipe, opts RunOptions) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(r.Variables))
	declared := make(map[string]recipe.VariableDeclaration, len(r.Variables))

	for _, v := range r.Variables {
		declared[v.Name] = v
		if supplied, ok := opts.Variables[v.Name]; ok {
			if err := validateVariableValue(v, supplied); err != nil {
				return nil, internalerrors.New(internalerrors.KindValidation, r.Name, "", fmt.Sprintf("variable %q: %v", v.Name, err), err)
			}
			resolved[v.Name] = supplied
			continue
		}
		if !opts.NoDefaults && v.Default != nil {
			resolved[v.Name] = v.Default
		}
	}

	var unresolved []recipe.VariableDeclaration
	for _, v := range r.Variables {
		if _, ok := resolved[v.Name]; !ok {
			unresolved = append(unresolved, v)
		}
	}

	if len(unresolved) > 0 {
		askMode := opts.AskMode
		if askMode == "" {
			askMode = defaultAskMode()
		}

		switch askMode {
		case recipe.AskNobody:
			// every required, unresolved variable is reported below.
		case recipe.AskAI:
			if e.Transport == nil || !e.Transport.IsAvailable() {
				e.promptAll(unresolved, resolved)
			} else {
				if err := e.resolveViaAI(ctx, unresolved, resolved); err != nil {
					return nil, err
				}
			}
		default: // AskMe
			e.promptAll(unresolved, resolved)
		}
	}

	var missing []string
	for _, v := range r.Variables {
		if _, ok := resolved[v.Name]; !ok && v.Required {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return nil, internalerrors.New(internalerrors.KindValidation, r.Name, "", fmt.Sprintf("missing required variable(s): %v", missing), nil)
	}

	for k, v := range opts.Variables {
		if _, known := declared[k]; !known {
			resolved[k] = v
		}
	}

	return resolved, nil
}

func defaultAskMode() recipe.AskMode {
	fi, err := os.Stdout.Stat()
	if err == nil && (fi.Mode()&os.ModeCharDevice) != 0 {
		return recipe.AskMe
	}
	return recipe.AskNobody
}

// promptAll interactively asks for every still-unresolved variable, one huh
// field per Variable Declaration, typed by its declared Type.
func (e *Engine) promptAll(vars []recipe.VariableDeclaration, resolved map[string]interface{}) {
	for _, v := range vars {
		value, ok := promptForVariable(v)
		if ok {
			resolved[v.Name] = value
		}
	}
}

func promptForVariable(v recipe.VariableDeclaration) (interface{}, bool) {
	switch v.Type {
	case recipe.VarBoolean:
		var b bool
		field := huh.NewConfirm().Title(promptTitle(v)).Value(&b)
		if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
			return nil, false
		}
		return b, true
	case recipe.VarEnum:
		var s string
		var options []huh.Option[string]
		for _, c := range v.Enum {
			options = append(options, huh.NewOption(c, c))
		}
		field := huh.NewSelect[string]().Title(promptTitle(v)).Options(options...).Value(&s)
		if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
			return nil, false
		}
		return s, true
	case recipe.VarArray, recipe.VarObject:
		var s string
		field := huh.NewText().Title(promptTitle(v) + " (JSON)").Value(&s)
		if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
			return nil, false
		}
		return s, true
	default:
		var s string
		field := huh.NewInput().Title(promptTitle(v)).Value(&s)
		if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
			return nil, false
		}
		if v.Type == recipe.VarNumber {
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false
			}
			return n, true
		}
		return s, true
	}
}

func promptTitle(v recipe.VariableDeclaration) string {
	if v.Description != "" {
		return fmt.Sprintf("%s (%s)", v.Name, v.Description)
	}
	return v.Name
}

// resolveViaAI batch-resolves every unresolved variable through the
// configured transport, validating each returned value against its
// declaration before accepting it.
func (e *Engine) resolveViaAI(ctx context.Context, vars []recipe.VariableDeclaration, resolved map[string]interface{}) error {
	entries := make([]ai.Entry, 0, len(vars))
	for _, v := range vars {
		prompt := v.Description
		if prompt == "" {
			prompt = fmt.Sprintf("Provide a value for variable %q of type %q", v.Name, v.Type)
		}
		entries = append(entries, ai.Entry{Key: v.Name, Prompt: prompt})
	}

	answers, err := e.Transport.Resolve(ctx, ai.Batch{Entries: entries})
	if err != nil {
		return internalerrors.New(internalerrors.KindAIResolution, "", "", "AI variable resolution failed", err)
	}

	for _, v := range vars {
		answer, ok := answers[v.Name]
		if !ok {
			continue
		}
		if err := validateVariableValue(v, answer); err != nil {
			continue
		}
		resolved[v.Name] = answer
	}
	return nil
}

// validateVariableValue checks value against v's declared Type (and Enum,
// when applicable), degrading to an error rather than a panic on mismatch.
func validateVariableValue(v recipe.VariableDeclaration, value interface{}) error {
	switch v.Type {
	case recipe.VarString, recipe.VarFile, recipe.VarDirectory:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected a string, got %T", value)
		}
	case recipe.VarNumber:
		switch value.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("expected a number, got %T", value)
		}
	case recipe.VarBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected a boolean, got %T", value)
		}
	case recipe.VarEnum:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected a string for enum, got %T", value)
		}
		for _, allowed := range v.Enum {
			if s == allowed {
				return nil
			}
		}
		return fmt.Errorf("value %q is not one of %v", s, v.Enum)
	case recipe.VarArray:
		switch value.(type) {
		case []interface{}, string:
		default:
			return fmt.Errorf("expected an array (or JSON string), got %T", value)
		}
	case recipe.VarObject:
		switch value.(type) {
		case map[string]interface{}, string:
		default:
			return fmt.Errorf("expected an object (or JSON string), got %T", value)
		}
	}
	return nil
}
