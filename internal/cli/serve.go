package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reciper/engine/internal/config"
	"github.com/reciper/engine/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as MCP server for Claude Code/Goose integration",
	Long: `Run reciper as a Model Context Protocol (MCP) server.

This allows reciper to be used as a tool provider for AI coding assistants
like Claude Code and Goose. The server communicates via stdin/stdout using
the MCP protocol.

Configuration in Claude Code (~/.claude.json):
{
  "mcpServers": {
    "reciper": {
      "command": "reciper",
      "args": ["serve"]
    }
  }
}

Configuration in Goose (profiles.yaml):
extensions:
  reciper:
    name: reciper
    cmd: reciper
    args: ["serve"]
    type: stdio`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registry := setupRegistry()
	eng := newEngine(cfg)
	server := mcp.NewServer(registry, eng)

	return server.Run(ctx)
}
