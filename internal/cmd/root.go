// Package cmd contains all CLI commands for jhier.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the current version of jhier
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	forAgents    bool
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jhier",
	Short: "Class hierarchy and method override index for JVM code",
	Long: `jhier indexes the class hierarchy and declared methods of a JVM codebase
and answers the structural questions a renaming or refactoring tool needs.

It scans Java sources (or a facts file produced by other tooling), records
every class with its direct superclass and declared methods, and saves the
index in .jhier/. Queries then run against the saved index.

Output Format:
  All commands output YAML by default.
  Use --format to switch to JSON or plain text.

Main capabilities:
  - Superclass, ancestry and direct-subclass lookups
  - Whether a class itself declares a method
  - The canonical declaration of a method (topmost declaring ancestor)
  - Class inheritance trees and method override trees
  - Whole-index checks for roots and cycles
  - An MCP server exposing the same queries to agents

Class names may be given in internal form (com/example/Outer$Inner) or
dotted form (com.example.Outer$Inner).

Examples:
  jhier init                                  # Create .jhier/config.yaml
  jhier scan src/main/java                    # Index Java sources
  jhier ancestry com.example.Circle           # Superclasses, nearest first
  jhier resolve com.example.Circle area ()D   # Canonical declaration
  jhier tree com.example.Shape --shallow      # Direct subclasses only

See 'jhier <command> --help' for command-specific options.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog logger. Diagnostics go to stderr so
// stdout carries only results (and the MCP protocol under serve).
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	pf.StringVar(&configPath, "config", "", "Path to config file (default: .jhier/config.yaml)")
	pf.StringVar(&outputFormat, "format", "", "Output format (yaml|json|text, default from config)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Print the command tree as JSON for agent discovery")

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if !forAgents {
			defaultHelp(cmd, args)
			return
		}
		if err := writeCommandTree(cmd.OutOrStdout(), cmd.Root()); err != nil {
			slog.Error("write command tree", slog.String("error", err.Error()))
		}
	})
}

// commandDoc describes one command for --for-agents.
type commandDoc struct {
	Name     string       `json:"name"`
	Short    string       `json:"description"`
	Usage    string       `json:"usage"`
	Flags    []flagDoc    `json:"flags,omitempty"`
	Commands []commandDoc `json:"subcommands,omitempty"`
}

type flagDoc struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Usage     string `json:"description"`
}

func flagDocs(fs *pflag.FlagSet) []flagDoc {
	var docs []flagDoc
	fs.VisitAll(func(f *pflag.Flag) {
		docs = append(docs, flagDoc{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Default:   f.DefValue,
			Usage:     f.Usage,
		})
	})
	return docs
}

func describeCommand(cmd *cobra.Command) commandDoc {
	doc := commandDoc{
		Name:  cmd.Name(),
		Short: cmd.Short,
		Usage: cmd.UseLine(),
		Flags: flagDocs(cmd.LocalNonPersistentFlags()),
	}
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			doc.Commands = append(doc.Commands, describeCommand(sub))
		}
	}
	return doc
}

// writeCommandTree prints every available command with its own flags;
// persistent flags are listed once under global_flags.
func writeCommandTree(w io.Writer, root *cobra.Command) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"tool":         "jhier",
		"version":      Version,
		"commands":     describeCommand(root).Commands,
		"global_flags": flagDocs(root.PersistentFlags()),
	})
}
