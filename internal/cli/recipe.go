package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reciper/engine/internal/config"
	"github.com/reciper/engine/internal/engine"
	"github.com/reciper/engine/internal/recipe"
)

var runCmd = &cobra.Command{
	Use:   "run <recipe-file-or-name>",
	Short: "Load, resolve, and execute a recipe",
	Long: `Run a recipe: a file path loads it from disk, anything else is looked
up among the built-in recipes.

Examples:
  reciper run scaffold-service --var serviceName=billing
  reciper run ./my-recipe.yaml --ask me
  reciper run ./my-recipe.yaml --dry-run --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available built-in recipes",
	RunE:  runRecipeList,
}

func init() {
	runCmd.Flags().StringToString("var", nil, "Set a recipe variable (key=value), repeatable")
	runCmd.Flags().String("ask", "", "How to resolve missing variables: me, ai, or nobody (default: me in a terminal, nobody otherwise)")
	runCmd.Flags().Bool("dry-run", false, "Resolve and validate without writing any files or running commands")
	runCmd.Flags().Int("concurrency", 0, "Override the recipe's max step concurrency")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(recipeListCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ref := args[0]

	vars, _ := cmd.Flags().GetStringToString("var")
	askFlag, _ := cmd.Flags().GetString("ask")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	askMode := recipe.AskMode(askFlag)
	switch askMode {
	case recipe.AskMe, recipe.AskAI, recipe.AskNobody, "":
	default:
		return fmt.Errorf("--ask must be one of me, ai, nobody (got %q)", askFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	e := newEngine(cfg)

	var src engine.Source
	if _, statErr := os.Stat(ref); statErr == nil {
		src = engine.FileSource(ref)
	} else {
		src = engine.BuiltinSource(ref)
	}

	variables := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		variables[k] = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := e.Run(ctx, src, engine.RunOptions{
		Variables:   variables,
		AskMode:     askMode,
		DryRun:      dryRun,
		Concurrency: concurrency,
	})

	if jsonOut {
		return outputRunJSON(result, err)
	}
	return outputRunText(result, err)
}

func outputRunJSON(result *engine.RecipeExecutionResult, runErr error) error {
	type output struct {
		Success       bool     `json:"success"`
		Recipe        string   `json:"recipe,omitempty"`
		FilesCreated  []string `json:"filesCreated,omitempty"`
		FilesModified []string `json:"filesModified,omitempty"`
		Message       string   `json:"message,omitempty"`
		Error         string   `json:"error,omitempty"`
	}
	out := output{}
	if result != nil {
		out.Success = result.Success
		out.Recipe = result.Recipe
		out.FilesCreated = result.FilesCreated
		out.FilesModified = result.FilesModified
		out.Message = result.Message
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return nil
}

func outputRunText(result *engine.RecipeExecutionResult, runErr error) error {
	if result == nil {
		printError("%v", runErr)
		return runErr
	}

	for _, step := range result.Results {
		printStepResult(step, 0)
	}

	printInfo("")
	if result.Success {
		printSuccess("Recipe %q completed", result.Recipe)
	} else {
		printError("Recipe %q failed", result.Recipe)
	}
	if result.Message != "" {
		printInfo("%s", result.Message)
	}
	if len(result.FilesCreated) > 0 {
		printVerbose("Created: %s", strings.Join(result.FilesCreated, ", "))
	}
	if len(result.FilesModified) > 0 {
		printVerbose("Modified: %s", strings.Join(result.FilesModified, ", "))
	}

	if runErr != nil {
		printError("%v", runErr)
		return runErr
	}
	if !result.Success {
		return fmt.Errorf("recipe %q failed", result.Recipe)
	}
	return nil
}

func printStepResult(step recipe.StepResult, depth int) {
	indent := strings.Repeat("  ", depth)
	switch step.Status {
	case recipe.StatusCompleted:
		printSuccess("%s%s", indent, step.Name)
	case recipe.StatusSkipped:
		printVerbose("%s%s: skipped", indent, step.Name)
	default:
		msg := ""
		if step.Error != nil {
			msg = step.Error.Error()
		}
		printError("%s%s: %s (%s)", indent, step.Name, msg, step.Status)
	}
	for _, nested := range step.Nested {
		printStepResult(nested, depth+1)
	}
}

func runRecipeList(cmd *cobra.Command, args []string) error {
	printInfo("Available built-in recipes:")
	printInfo("")

	for _, name := range recipe.ListBuiltinRecipes() {
		r, err := recipe.GetBuiltinRecipe(name)
		if err != nil {
			continue
		}
		printInfo("  %-20s %s", name, r.Description)
	}

	return nil
}
