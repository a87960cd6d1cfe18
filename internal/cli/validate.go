package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reciper/engine/internal/config"
	"github.com/reciper/engine/internal/recipe"
)

// ValidationOutput is the JSON output for the validate command.
type ValidationOutput struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// ValidationIssue mirrors engine.ValidationIssue for JSON/text output,
// keeping the CLI decoupled from the engine's internal issue type.
type ValidationIssue struct {
	Message string `json:"message"`
}

var validateCmd = &cobra.Command{
	Use:   "validate <recipe-file>",
	Short: "Validate a recipe without running it",
	Long: `Check a recipe's shape: a name, a non-empty step list, unique step
names, every dependsOn target resolvable, every tool type in the closed set,
and each declared variable's default matching its declared type.

Examples:
  reciper validate ./my-recipe.yaml
  reciper validate --json ./my-recipe.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	r, err := recipe.Load(path)
	if err != nil {
		return outputValidationError(err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	e := newEngine(cfg)

	issues := e.ValidateRecipe(r)

	var errs, warnings []ValidationIssue
	for _, i := range issues {
		out := ValidationIssue{Message: i.Message}
		if i.Severity == "warning" {
			warnings = append(warnings, out)
		} else {
			errs = append(errs, out)
		}
	}

	if jsonOut {
		output := ValidationOutput{Valid: len(errs) == 0, Errors: errs, Warnings: warnings}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(output); encErr != nil {
			return encErr
		}
		if len(errs) > 0 {
			return fmt.Errorf("validation failed with %d error(s)", len(errs))
		}
		return nil
	}

	if len(errs) == 0 && len(warnings) == 0 {
		printSuccess("Recipe %q is valid", r.Name)
		return nil
	}

	for _, e := range errs {
		fmt.Printf("  error: %s\n", e.Message)
	}
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w.Message)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed with %d error(s)", len(errs))
	}
	return nil
}

func outputValidationError(err error) error {
	if jsonOut {
		output := ValidationOutput{Valid: false, Errors: []ValidationIssue{{Message: err.Error()}}}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		printError("%v", err)
	}
	return err
}
