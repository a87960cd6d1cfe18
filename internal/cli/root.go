// Package cli provides the command-line interface for the recipe engine.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reciper",
	Short: "Declarative code-generation recipe engine",
	Long: `Reciper - declarative, step-oriented code-generation orchestrator.

A recipe declares variables and a dependency graph of steps (templates,
codemods, shell commands, nested recipes, AI-resolved content...) and the
engine resolves, validates, and executes them with retries, timeouts, and
concurrency.

Examples:
  # Run a built-in recipe
  reciper run scaffold-service --var serviceName=billing

  # Run a recipe from a file, prompting for any missing variables
  reciper run ./my-recipe.yaml --ask me

  # Validate a recipe without running it
  reciper validate ./my-recipe.yaml

For more information, see the project documentation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
}

// Print helpers
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("✓ "+format+"\n", args...)
	}
}
