// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/reciper/engine/internal/detector"
	"github.com/reciper/engine/internal/engine"
	"github.com/reciper/engine/internal/recipe"
	"github.com/reciper/engine/internal/scanner"
)

// Server implements the MCP protocol for the recipe engine.
type Server struct {
	registry *detector.Registry
	engine   *engine.Engine
	scanner  scanner.Scanner
	mu       sync.RWMutex
}

// NewServer creates a new MCP server backed by the given stack-detection
// registry and recipe engine.
func NewServer(registry *detector.Registry, eng *engine.Engine) *Server {
	return &Server{
		registry: registry,
		engine:   eng,
		scanner:  scanner.New(),
	}
}

// Message represents an MCP JSON-RPC message
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Run starts the MCP server on stdin/stdout
func (s *Server) Run(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	encoder := json.NewEncoder(os.Stdout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Read line (JSON-RPC message)
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		// Parse message
		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			s.sendError(encoder, nil, -32700, "Parse error", nil)
			continue
		}

		// Handle message
		response := s.handleMessage(ctx, &msg)
		if response != nil {
			encoder.Encode(response)
		}
	}
}

// handleMessage processes an incoming MCP message
func (s *Server) handleMessage(ctx context.Context, msg *Message) *Message {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "tools/list":
		return s.handleToolsList(msg)
	case "tools/call":
		return s.handleToolsCall(ctx, msg)
	case "shutdown":
		return &Message{JSONRPC: "2.0", ID: msg.ID, Result: nil}
	default:
		return s.errorResponse(msg.ID, -32601, "Method not found", nil)
	}
}

// handleInitialize handles the initialize request
func (s *Server) handleInitialize(msg *Message) *Message {
	return &Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]bool{
					"listChanged": false,
				},
			},
			"serverInfo": map[string]string{
				"name":    "reciper",
				"version": "1.0.0",
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(msg *Message) *Message {
	tools := []Tool{
		{
			Name:        "stack_detect",
			Description: "Detect a repository's technology stack (language, framework, version)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the repository to analyze",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "recipe_list",
			Description: "List the engine's built-in recipes",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "recipe_validate",
			Description: "Validate a recipe file's shape without running it",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the recipe YAML file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "recipe_run",
			Description: "Run a recipe (a file path, or a built-in recipe name) with the given variables",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"recipe": map[string]interface{}{
						"type":        "string",
						"description": "Recipe file path or built-in recipe name",
					},
					"variables": map[string]interface{}{
						"type":        "object",
						"description": "Variable values to resolve the recipe with",
					},
					"dry_run": map[string]interface{}{
						"type":        "boolean",
						"description": "Resolve and validate without writing files or running commands",
					},
				},
				"required": []string{"recipe"},
			},
		},
	}

	return &Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}
}

// handleToolsCall executes a tool
func (s *Server) handleToolsCall(ctx context.Context, msg *Message) *Message {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.errorResponse(msg.ID, -32602, "Invalid params", nil)
	}

	var result interface{}
	var err error

	switch params.Name {
	case "stack_detect":
		result, err = s.toolStackDetect(ctx, params.Arguments)
	case "recipe_list":
		result, err = s.toolRecipeList(params.Arguments)
	case "recipe_validate":
		result, err = s.toolRecipeValidate(params.Arguments)
	case "recipe_run":
		result, err = s.toolRecipeRun(ctx, params.Arguments)
	default:
		return s.errorResponse(msg.ID, -32602, "Unknown tool: "+params.Name, nil)
	}

	if err != nil {
		return &Message{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Result: map[string]interface{}{
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": fmt.Sprintf("Error: %v", err),
					},
				},
				"isError": true,
			},
		}
	}

	return &Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": fmt.Sprintf("%v", result),
				},
			},
		},
	}
}

// Tool implementations

func (s *Server) toolStackDetect(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	scan, err := s.scanner.Scan(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	det := detector.New(s.registry)
	result, err := det.Detect(ctx, scan)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	return map[string]interface{}{
		"detected":   result.Detected,
		"language":   result.Language,
		"framework":  result.Framework,
		"version":    result.Version,
		"confidence": result.Confidence,
		"provider":   result.Provider,
		"variables":  result.Variables,
	}, nil
}

func (s *Server) toolRecipeList(args map[string]interface{}) (interface{}, error) {
	out := make(map[string]string)
	for _, name := range recipe.ListBuiltinRecipes() {
		r, err := recipe.GetBuiltinRecipe(name)
		if err != nil {
			continue
		}
		out[name] = r.Description
	}
	return out, nil
}

func (s *Server) toolRecipeValidate(args map[string]interface{}) (interface{}, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	r, err := recipe.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}

	issues := s.engine.ValidateRecipe(r)
	return map[string]interface{}{
		"valid":  !hasValidationErrors(issues),
		"issues": issues,
	}, nil
}

func (s *Server) toolRecipeRun(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	ref, _ := args["recipe"].(string)
	if ref == "" {
		return nil, fmt.Errorf("recipe is required")
	}

	variables, _ := args["variables"].(map[string]interface{})
	dryRun, _ := args["dry_run"].(bool)

	var src engine.Source
	if _, err := os.Stat(ref); err == nil {
		src = engine.FileSource(ref)
	} else {
		src = engine.BuiltinSource(ref)
	}

	result, err := s.engine.Run(ctx, src, engine.RunOptions{
		Variables: variables,
		DryRun:    dryRun,
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"success":       result.Success,
		"recipe":        result.Recipe,
		"filesCreated":  result.FilesCreated,
		"filesModified": result.FilesModified,
		"message":       result.Message,
	}, nil
}

func hasValidationErrors(issues []engine.ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}

// Helper functions

func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *Message {
	return &Message{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

func (s *Server) sendError(encoder *json.Encoder, id interface{}, code int, message string, data interface{}) {
	encoder.Encode(s.errorResponse(id, code, message, data))
}
