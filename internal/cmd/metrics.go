package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/metrics"
	"github.com/hargabyte/jhier/internal/output"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics [class...]",
	Short: "Show inheritance metrics per class",
	Long: `Show inheritance metrics for the classes in the saved snapshot, highest
ranked first.

Columns:
  depth        Number of recorded ancestors (depth of inheritance tree)
  children     Direct subclasses
  descendants  All subclasses, transitively
  declared     Declared methods, constructors excluded
  overrides    Declared methods whose canonical declaration is an ancestor
  rank         PageRank over superclass edges, scaled so the top class is 1.0

Classes ranked at least 0.30 with at least 5 descendants are keystones:
base classes whose changes ripple through large parts of the hierarchy.

Examples:
  jhier metrics                      # Top 20 classes
  jhier metrics --top 0              # Every class
  jhier metrics com/example/Shape    # Selected classes only
  jhier metrics --format json`,
	RunE: runMetrics,
}

var metricsTop int

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().IntVar(&metricsTop, "top", 20, "Number of classes to show (0 for all)")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}

	all, err := metrics.Compute(env.store, metrics.DefaultPageRankConfig(), metrics.DefaultThresholds())
	if err != nil {
		return err
	}

	selected := all
	if len(args) > 0 {
		wanted := make(map[string]bool, len(args))
		for _, arg := range args {
			wanted[hierarchy.NormalizeClassName(arg)] = true
		}
		selected = selected[:0:0]
		for _, m := range all {
			if wanted[m.Class] {
				selected = append(selected, m)
			}
		}
	}

	results := metrics.Top(selected, metricsTop)
	for i := range results {
		results[i].Label = env.translator.Translate(results[i].Class)
	}

	return writeResult(cmd, env.format, &output.MetricsOutput{
		Classes: len(all),
		Results: results,
	})
}
