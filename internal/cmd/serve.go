package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio.

The saved snapshot is loaded once and frozen; every tool call is answered
from memory. Use this when an agent asks many hierarchy questions in a row
(planning a rename, walking an override tree) instead of spawning one CLI
process per question.

Available Tools:
  jhier_superclass    Direct superclass of a class
  jhier_ancestry      Superclass chain, nearest first
  jhier_subclasses    Direct subclasses of a class
  jhier_implements    Does the class itself declare a method
  jhier_resolve       Canonical declaring class of a method
  jhier_class_tree    Inheritance tree containing a class
  jhier_method_tree   Override tree of a method

Examples:
  jhier serve --mcp                          # Start with all tools
  jhier serve --mcp --tools resolve,method_tree
  jhier serve --mcp --timeout 30m            # Auto-stop after 30 minutes idle
  jhier serve --status                       # Check if server is running
  jhier serve --stop                         # Stop running server
  jhier serve --list-tools                   # Show available tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveListTools {
		fmt.Fprintln(out, "Available MCP tools:")
		fmt.Fprintln(out)
		for _, name := range mcp.AllTools {
			schema, _ := mcp.LookupTool(name)
			fmt.Fprintf(out, "  %-19s %s\n", name, schema.Description)
		}
		return nil
	}

	p, err := findProject()
	if err != nil {
		return err
	}

	if serveStatus {
		return checkServerStatus(cmd, p)
	}
	if serveStop {
		return stopServer(cmd, p)
	}

	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	tools := parseToolList(serveTools)

	store, meta, err := p.loadStore(cmd.Context())
	if err != nil {
		return err
	}
	translator, err := p.loadTranslator()
	if err != nil {
		return err
	}
	expansion, err := p.expansion(false)
	if err != nil {
		return err
	}

	server, err := mcp.New(mcp.Config{
		Store:      store,
		Translator: translator,
		MaxDepth:   p.cfg.Tree.MaxDepth,
		Expansion:  expansion,
		Tools:      tools,
		Timeout:    timeout,
		Logger:     slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := writePIDFile(p); err != nil {
		slog.Warn("could not write PID file", slog.String("error", err.Error()))
	}
	defer removePIDFile(p)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\njhier serve: shutting down\n")
		removePIDFile(p)
		os.Exit(0)
	}()

	// stdout carries the MCP protocol
	fmt.Fprintf(os.Stderr, "jhier serve: starting MCP server (%d classes)\n", meta.Classes)
	fmt.Fprintf(os.Stderr, "jhier serve: tools: %v\n", server.ListTools())
	if timeout > 0 {
		fmt.Fprintf(os.Stderr, "jhier serve: timeout: %v\n", timeout)
	}

	return server.ServeStdio()
}

// parseToolList splits a comma-separated tool list, allowing the short form
// "resolve" for "jhier_resolve".
func parseToolList(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "jhier_") {
			t = "jhier_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func pidFilePath(p *project) string {
	return filepath.Join(p.dir, "serve.pid")
}

func writePIDFile(p *project) error {
	return os.WriteFile(pidFilePath(p), []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile(p *project) {
	os.Remove(pidFilePath(p))
}

// readPID returns the recorded server PID, or 0 when no server is recorded.
func readPID(p *project) (int, error) {
	data, err := os.ReadFile(pidFilePath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile(p)
		return 0, fmt.Errorf("invalid PID file")
	}
	return pid, nil
}

func checkServerStatus(cmd *cobra.Command, p *project) error {
	out := cmd.OutOrStdout()

	pid, err := readPID(p)
	if err != nil || pid == 0 {
		fmt.Fprintln(out, "Status: not running")
		return nil
	}

	// On Unix FindProcess always succeeds; signal 0 checks the process exists.
	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.Signal(0))
	}
	if err != nil {
		fmt.Fprintln(out, "Status: not running (stale PID file)")
		removePIDFile(p)
		return nil
	}

	fmt.Fprintf(out, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(cmd *cobra.Command, p *project) error {
	out := cmd.OutOrStdout()

	pid, err := readPID(p)
	if err != nil {
		return err
	}
	if pid == 0 {
		fmt.Fprintln(out, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.SIGTERM)
	}
	if err != nil {
		removePIDFile(p)
		fmt.Fprintln(out, "Server already stopped")
		return nil
	}

	fmt.Fprintf(out, "Stopped server (PID %d)\n", pid)
	return nil
}
