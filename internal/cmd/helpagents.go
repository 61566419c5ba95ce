package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// helpAgentsCmd represents the help-agents command
var helpAgentsCmd = &cobra.Command{
	Use:   "help-agents",
	Short: "Output agent-optimized command reference",
	Long: `Output a concise, token-efficient command reference for AI agents.

Examples:
  jhier help-agents                # Markdown output (default)
  jhier help-agents --format json  # JSON output for parsing`,
	Args: cobra.NoArgs,
	RunE: runHelpAgents,
}

func init() {
	rootCmd.AddCommand(helpAgentsCmd)
}

func runHelpAgents(cmd *cobra.Command, args []string) error {
	content := generateAgentReference()
	if outputFormat == "json" {
		content = generateAgentReferenceJSON()
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), content)
	return err
}

func generateAgentReference() string {
	return `# jhier Command Reference for AI Agents

> Answer "who overrides this method?" and "where is it really declared?"
> from an index instead of grepping through class files.

## Quick Start Workflow

` + "```bash" + `
# 1. Index the project (once, and after large changes)
jhier scan

# 2. Before renaming a method - find its canonical declaration
jhier resolve com/example/Circle area "()D"

# 3. See every class that must change with it
jhier tree com/example/Shape --method area --desc "()D"
` + "```" + `

---

## Names

- Classes: internal form ` + "`com/example/Outer$Inner`" + ` or dotted ` + "`com.example.Outer$Inner`" + `
- Methods: name plus JVM descriptor, e.g. ` + "`area` `()D`" + `, ` + "`<init>` `(I)V`" + `
- Method ids: ` + "`com/example/Circle.area()D`" + ` (accepted by implements and resolve)

---

## Commands

### jhier scan
` + "```bash" + `
jhier scan                        # Scan the project root
jhier scan src/main/java          # Scan one source tree
jhier scan --facts classes.yaml   # Load facts from other tooling
jhier scan --emit-facts out.yaml  # Also write the extracted facts
` + "```" + `

### Queries
` + "```bash" + `
jhier super <class>               # Direct superclass (null when none)
jhier ancestry <class>            # Superclass chain, nearest first
jhier subclasses <class>          # Direct subclasses, sorted
jhier implements <class> <method> <desc>   # Declared by the class itself?
jhier resolve <class> <method> <desc>      # Topmost declaring ancestor
` + "```" + `

### jhier tree
` + "```bash" + `
jhier tree <class>                          # Inheritance tree from the topmost ancestor
jhier tree <class> --method m --desc "(I)V" # Override tree (+ declares, - inherits)
jhier tree <class> --shallow                # Direct subclasses only
` + "```" + `

### Other
` + "```bash" + `
jhier status                      # Snapshot summary
jhier status --history 5          # Last scans (dolt backend)
jhier check                       # Roots and cycle check (exit 1 on cycle)
jhier graph [class]               # Mermaid diagram of the hierarchy
jhier metrics [class...] --top 20 # Depth, fan-out, override counts, rank
jhier diff [path]                 # Compare a fresh scan with the snapshot
jhier serve --mcp                 # MCP server (stdio) with jhier_* tools
` + "```" + `

---

## Output

` + "`--format yaml|json|text`" + ` (default from .jhier/config.yaml, normally yaml).
Every class is reported with ` + "`class`" + ` (internal name) and ` + "`label`" + `
(translated through translate.mappings when configured).
`
}

func generateAgentReferenceJSON() string {
	return `{
  "tool": "jhier",
  "purpose": "JVM class-hierarchy and method-override index",
  "workflow": [
    "jhier scan",
    "jhier resolve <class> <method> <descriptor>",
    "jhier tree <class> --method <name> --desc <descriptor>"
  ],
  "commands": {
    "init": {
      "purpose": "Create .jhier with a default config",
      "flags": ["--force"]
    },
    "scan": {
      "purpose": "Index classes, superclasses and declared methods",
      "usage": "jhier scan [path]",
      "flags": ["--facts", "--exclude", "--emit-facts", "--jobs"]
    },
    "status": {
      "purpose": "Show the saved snapshot",
      "flags": ["--history"]
    },
    "super": {
      "purpose": "Direct superclass of a class",
      "usage": "jhier super <class>"
    },
    "ancestry": {
      "purpose": "Superclass chain, nearest first",
      "usage": "jhier ancestry <class>"
    },
    "subclasses": {
      "purpose": "Direct subclasses, sorted by internal name",
      "usage": "jhier subclasses <class>"
    },
    "implements": {
      "purpose": "Does the class itself declare the method",
      "usage": "jhier implements <class> <method> <descriptor>"
    },
    "resolve": {
      "purpose": "Topmost ancestor declaring the method",
      "usage": "jhier resolve <class> <method> <descriptor>"
    },
    "tree": {
      "purpose": "Inheritance or override tree",
      "usage": "jhier tree <class>",
      "flags": ["--method", "--desc", "--shallow"]
    },
    "check": {
      "purpose": "Graph summary and cycle check",
      "exit_codes": {"0": "acyclic", "1": "cycle found"}
    },
    "graph": {
      "purpose": "Mermaid diagram of the hierarchy",
      "usage": "jhier graph [class]",
      "flags": ["--direction", "--max-nodes", "--no-collapse", "--title"]
    },
    "metrics": {
      "purpose": "Inheritance metrics ranked by descendants and PageRank",
      "usage": "jhier metrics [class...]",
      "flags": ["--top"]
    },
    "diff": {
      "purpose": "Structural changes since the last scan; snapshot is not updated",
      "usage": "jhier diff [path]",
      "flags": ["--facts", "--exclude", "--jobs"]
    },
    "serve": {
      "purpose": "MCP server for AI IDE integration",
      "usage": "jhier serve --mcp",
      "flags": ["--tools", "--timeout", "--list-tools", "--status", "--stop"],
      "mcp_tools": ["jhier_superclass", "jhier_ancestry", "jhier_subclasses", "jhier_implements", "jhier_resolve", "jhier_class_tree", "jhier_method_tree"]
    }
  },
  "global_flags": {
    "--format": "yaml|json|text (default: output.default_format)",
    "--config": "Config file path",
    "--verbose": "Debug logging on stderr"
  }
}
`
}
