// Package mcp provides an MCP (Model Context Protocol) server for jhier.
// This allows AI agents to query the class hierarchy through MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/output"
	"github.com/hargabyte/jhier/internal/translate"
	"github.com/hargabyte/jhier/internal/tree"
)

// Server wraps the MCP server with jhier-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	results      *output.Results
	builder      *tree.Builder
	expansion    tree.Expansion
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	logger       *slog.Logger
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Store      *hierarchy.Store     // Frozen store to serve
	Translator translate.Translator // Label translator (nil = identity)
	MaxDepth   int                  // Tree depth bound (0 = tree.DefaultMaxDepth)
	Expansion  tree.Expansion       // Default tree expansion (empty = full)
	Tools      []string             // Which tools to expose (empty = all)
	Timeout    time.Duration        // Inactivity timeout (0 = no timeout)
	Logger     *slog.Logger
}

// AllTools lists all available tools
var AllTools = []string{
	"jhier_superclass",
	"jhier_ancestry",
	"jhier_subclasses",
	"jhier_implements",
	"jhier_resolve",
	"jhier_class_tree",
	"jhier_method_tree",
}

// New creates a new MCP server over a frozen hierarchy store.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("no hierarchy store: run 'jhier scan' first")
	}
	if !cfg.Store.Frozen() {
		return nil, errors.New("hierarchy store must be frozen before serving")
	}

	expansion := cfg.Expansion
	if expansion == "" {
		expansion = tree.ExpandFull
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		"jhier",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		results:      output.NewResults(cfg.Store, cfg.Translator),
		builder:      tree.NewBuilder(cfg.Store, cfg.Translator, cfg.MaxDepth),
		expansion:    expansion,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
		logger:       logger,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	schema, ok := toolSchemaRegistry[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}

	opts := []mcp.ToolOption{mcp.WithDescription(schema.Description)}
	for _, p := range schema.Parameters {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	s.mcpServer.AddTool(mcp.NewTool(name, opts...), s.handler(name))
	return nil
}

// handler adapts CallTool to an MCP tool handler. Query failures become
// tool errors so the agent sees them instead of a protocol failure.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(name, req.GetArguments())
		if err != nil {
			s.logger.Debug("tool call failed", slog.String("tool", name), slog.String("error", err.Error()))
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	// Start timeout checker if timeout is set
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.logger.Info("jhier serve: exiting after inactivity", slog.Duration("timeout", s.timeout))
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tools, sorted
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

var (
	classParam      = ParameterSchema{Name: "class", Type: "string", Description: "Class name in internal (a/b/C) or dotted (a.b.C) form; nested classes use $", Required: true}
	methodParam     = ParameterSchema{Name: "method", Type: "string", Description: "Method name, <init> for constructors", Required: true}
	descriptorParam = ParameterSchema{Name: "descriptor", Type: "string", Description: "JVM method descriptor, e.g. (ILjava/lang/String;)V", Required: true}
	shallowParam    = ParameterSchema{Name: "shallow", Type: "boolean", Description: "Expand direct children only (default: server setting)"}
)

// toolSchemaRegistry holds the schema definitions for all tools.
// registerTool builds the MCP tool definitions from these entries.
var toolSchemaRegistry = map[string]ToolSchema{
	"jhier_superclass": {
		Name:        "jhier_superclass",
		Description: "Return the direct superclass recorded for a class, or null when none is known.",
		Parameters:  []ParameterSchema{classParam},
	},
	"jhier_ancestry": {
		Name:        "jhier_ancestry",
		Description: "List all superclasses of a class, nearest first. The class itself is not included.",
		Parameters:  []ParameterSchema{classParam},
	},
	"jhier_subclasses": {
		Name:        "jhier_subclasses",
		Description: "List the classes that directly extend a class, sorted by name.",
		Parameters:  []ParameterSchema{classParam},
	},
	"jhier_implements": {
		Name:        "jhier_implements",
		Description: "Check whether a class itself declares a method (inherited methods do not count).",
		Parameters:  []ParameterSchema{classParam, methodParam, descriptorParam},
	},
	"jhier_resolve": {
		Name:        "jhier_resolve",
		Description: "Find the canonical declaring class of a method: the topmost ancestor that declares it. Renaming that declaration renames every override.",
		Parameters:  []ParameterSchema{classParam, methodParam, descriptorParam},
	},
	"jhier_class_tree": {
		Name:        "jhier_class_tree",
		Description: "Build the inheritance tree containing a class, rooted at its topmost ancestor.",
		Parameters:  []ParameterSchema{classParam, shallowParam},
	},
	"jhier_method_tree": {
		Name:        "jhier_method_tree",
		Description: "Build the override tree of a method, rooted at its canonical declaration. Each node reports whether that class implements the method.",
		Parameters:  []ParameterSchema{classParam, methodParam, descriptorParam, shallowParam},
	},
}

// LookupTool returns the schema of a known tool.
func LookupTool(name string) (ToolSchema, bool) {
	schema, ok := toolSchemaRegistry[name]
	return schema, ok
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	cls, _ := args["class"].(string)
	if cls == "" {
		return "", fmt.Errorf("class parameter is required")
	}

	switch name {
	case "jhier_superclass":
		return toJSON(s.results.Superclass(cls))

	case "jhier_ancestry":
		out, err := s.results.Ancestry(cls)
		if err != nil {
			return "", err
		}
		return toJSON(out)

	case "jhier_subclasses":
		return toJSON(s.results.Subclasses(cls))

	case "jhier_implements":
		m, err := methodArg(cls, args)
		if err != nil {
			return "", err
		}
		return toJSON(s.results.Implements(m))

	case "jhier_resolve":
		m, err := methodArg(cls, args)
		if err != nil {
			return "", err
		}
		out, err := s.results.Resolve(m)
		if err != nil {
			return "", err
		}
		return toJSON(out)

	case "jhier_class_tree":
		root, err := s.builder.ClassTree(cls, s.expansionArg(args))
		if err != nil {
			return "", err
		}
		return toJSON(&output.ClassTreeOutput{Nodes: root.Count(), Tree: root})

	case "jhier_method_tree":
		m, err := methodArg(cls, args)
		if err != nil {
			return "", err
		}
		root, err := s.builder.MethodTree(m, s.expansionArg(args))
		if err != nil {
			return "", err
		}
		return toJSON(&output.MethodTreeOutput{Nodes: root.Count(), Tree: root})

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func methodArg(cls string, args map[string]interface{}) (hierarchy.MethodEntry, error) {
	name, _ := args["method"].(string)
	if name == "" {
		return hierarchy.MethodEntry{}, fmt.Errorf("method parameter is required")
	}
	desc, _ := args["descriptor"].(string)
	if desc == "" {
		return hierarchy.MethodEntry{}, fmt.Errorf("descriptor parameter is required")
	}
	return hierarchy.MethodEntry{Class: cls, Name: name, Descriptor: desc}, nil
}

// expansionArg honors an explicit shallow argument and otherwise falls back
// to the server's configured expansion.
func (s *Server) expansionArg(args map[string]interface{}) tree.Expansion {
	shallow, ok := args["shallow"].(bool)
	switch {
	case !ok:
		return s.expansion
	case shallow:
		return tree.ExpandShallow
	default:
		return tree.ExpandFull
	}
}

// Helper functions

func toJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
