package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/graph"
	"github.com/hargabyte/jhier/internal/output"
)

// errHierarchyCycle makes check exit non-zero after reporting a cycle.
var errHierarchyCycle = errors.New("class hierarchy contains a cycle")

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the saved hierarchy for cycles",
	Long: `Build the inheritance graph from the saved snapshot and report its size,
its roots (classes without a recorded superclass) and whether it is acyclic.

A cycle can only come from inconsistent input, such as facts files written
by other tooling. When one is found it is printed and the command exits with
status 1.

Examples:
  jhier check
  jhier check --format json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}

	g := graph.BuildFromHierarchy(env.store)
	hasCycle, cycle := g.FindCycles()

	result := &output.CheckOutput{
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
		Roots:   g.Roots(),
		Acyclic: !hasCycle,
		Cycle:   cycle,
	}
	if err := writeResult(cmd, env.format, result); err != nil {
		return err
	}
	if hasCycle {
		return errHierarchyCycle
	}
	return nil
}
