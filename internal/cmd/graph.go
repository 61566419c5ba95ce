package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/graph"
	"github.com/hargabyte/jhier/internal/hierarchy"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [class]",
	Short: "Render the class hierarchy as a Mermaid diagram",
	Long: `Render the saved class hierarchy as a Mermaid flowchart, with an arrow
from each superclass to its subclasses.

With a class argument only its family is drawn: the class, its ancestors
and all of its descendants. Node labels go through the configured name
mapping.

Large diagrams are collapsed to one node per package once they exceed
--max-nodes; pass --no-collapse to always draw classes.

Output is always Mermaid text; --format is ignored.

Examples:
  jhier graph                              # Whole hierarchy
  jhier graph com/example/Shape            # One class family
  jhier graph --direction LR --max-nodes 200
  jhier graph com/example/Shape > shapes.mmd`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

var (
	graphDirection  string
	graphMaxNodes   int
	graphNoCollapse bool
	graphTitle      string
)

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVar(&graphDirection, "direction", "TD", "Layout direction: TD or LR")
	graphCmd.Flags().IntVar(&graphMaxNodes, "max-nodes", 60, "Collapse to packages above this many classes")
	graphCmd.Flags().BoolVar(&graphNoCollapse, "no-collapse", false, "Never collapse classes into packages")
	graphCmd.Flags().StringVar(&graphTitle, "title", "", "Diagram title")
}

func runGraph(cmd *cobra.Command, args []string) error {
	direction := strings.ToUpper(graphDirection)
	if direction != "TD" && direction != "LR" {
		return fmt.Errorf("invalid direction %q (expected TD or LR)", graphDirection)
	}

	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}

	g := graph.BuildFromHierarchy(env.store)
	if len(args) > 0 {
		cls := hierarchy.NormalizeClassName(args[0])
		g = g.Family(cls)
		if g.NodeCount() == 0 {
			return fmt.Errorf("class %s is not in the index", cls)
		}
	}

	opts := graph.DefaultMermaidOptions()
	opts.Direction = direction
	opts.MaxNodes = graphMaxNodes
	opts.Collapse = !graphNoCollapse
	opts.Title = graphTitle
	opts.Label = env.translator.Translate
	opts.Platform = env.store.IsPlatform

	_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, opts))
	return err
}
