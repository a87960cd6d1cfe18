package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reciper/engine/internal/recipe"
)

var initCmd = &cobra.Command{
	Use:   "init [output-file]",
	Short: "Interactively scaffold a new recipe",
	Long: `Walk through declaring a recipe's name, variables, and steps, then
write the result as a YAML recipe file.

Examples:
  reciper init
  reciper init ./recipes/scaffold-service.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	outPath := "recipe.yaml"
	if len(args) > 0 {
		outPath = args[0]
	}

	r := &recipe.Recipe{Version: "1.0"}

	if err := promptRecipeHeader(r); err != nil {
		return err
	}
	if err := promptVariables(r); err != nil {
		return err
	}
	if err := promptSteps(r); err != nil {
		return err
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	printSuccess("Recipe written to %s", outPath)
	printInfo("")
	printInfo("Next steps:")
	printInfo("  1. Review %s and fill in any tool arguments left blank", outPath)
	printInfo("  2. Validate: reciper validate %s", outPath)
	printInfo("  3. Run:      reciper run %s --var key=value", outPath)

	return nil
}

func promptRecipeHeader(r *recipe.Recipe) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Recipe name").
				Placeholder("scaffold-service").
				Value(&r.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("What does this recipe generate?").
				Value(&r.Description),
			huh.NewInput().
				Title("Category").
				Placeholder("scaffolding").
				Value(&r.Category),
		),
	).Run()
}

func promptVariables(r *recipe.Recipe) error {
	for {
		var addOne bool
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Declare a variable?").
					Value(&addOne),
			),
		).Run(); err != nil {
			return err
		}
		if !addOne {
			return nil
		}

		v := recipe.VariableDeclaration{Type: recipe.VarString}
		var typeStr string
		var required bool
		var defaultStr string

		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Variable name").
					Value(&v.Name).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("a name is required")
						}
						return nil
					}),
				huh.NewSelect[string]().
					Title("Type").
					Options(
						huh.NewOption("string", string(recipe.VarString)),
						huh.NewOption("number", string(recipe.VarNumber)),
						huh.NewOption("boolean", string(recipe.VarBoolean)),
						huh.NewOption("enum", string(recipe.VarEnum)),
						huh.NewOption("array", string(recipe.VarArray)),
						huh.NewOption("object", string(recipe.VarObject)),
						huh.NewOption("file", string(recipe.VarFile)),
						huh.NewOption("directory", string(recipe.VarDirectory)),
					).
					Value(&typeStr),
				huh.NewInput().
					Title("Description (optional)").
					Value(&v.Description),
				huh.NewConfirm().
					Title("Required?").
					Value(&required),
				huh.NewInput().
					Title("Default value (optional, blank for none)").
					Value(&defaultStr),
			),
		).Run(); err != nil {
			return err
		}

		v.Type = recipe.VariableType(typeStr)
		v.Required = required
		if defaultStr != "" {
			v.Default = coerceDefault(v.Type, defaultStr)
		}
		r.Variables = append(r.Variables, v)
	}
}

func coerceDefault(t recipe.VariableType, raw string) interface{} {
	switch t {
	case recipe.VarBoolean:
		return strings.EqualFold(raw, "true")
	case recipe.VarArray:
		return strings.Split(raw, ",")
	default:
		return raw
	}
}

var initToolChoices = []string{
	"template", "action", "codemod", "recipe", "shell", "prompt",
	"sequence", "parallel", "ai", "install", "query", "patch", "ensure-dirs",
}

func promptSteps(r *recipe.Recipe) error {
	for {
		var addOne bool
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Declare a step?").
					Value(&addOne),
			),
		).Run(); err != nil {
			return err
		}
		if !addOne {
			if len(r.Steps) == 0 {
				printInfo("No steps declared; add them to %s manually before running it.", r.Name)
			}
			return nil
		}

		var s recipe.Step
		var toolStr string
		var dependsOnStr string

		opts := make([]huh.Option[string], len(initToolChoices))
		for i, t := range initToolChoices {
			opts[i] = huh.NewOption(t, t)
		}

		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Step name").
					Value(&s.Name).
					Validate(func(v string) error {
						if strings.TrimSpace(v) == "" {
							return fmt.Errorf("a name is required")
						}
						return nil
					}),
				huh.NewSelect[string]().
					Title("Tool").
					Options(opts...).
					Value(&toolStr),
				huh.NewInput().
					Title("Depends on (comma-separated step names, optional)").
					Value(&dependsOnStr),
				huh.NewInput().
					Title("Condition (when, optional)").
					Value(&s.When),
			),
		).Run(); err != nil {
			return err
		}

		s.Tool = toolStr
		if dependsOnStr != "" {
			for _, dep := range strings.Split(dependsOnStr, ",") {
				if dep = strings.TrimSpace(dep); dep != "" {
					s.DependsOn = append(s.DependsOn, dep)
				}
			}
		}
		r.Steps = append(r.Steps, s)
	}
}
