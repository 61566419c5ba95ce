package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/semdiff"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show hierarchy changes since the last scan",
	Long: `Scan sources (or a facts file) without saving and compare the result with
the saved snapshot.

Reported changes:
  added              New class, or method newly declared by an existing class
  removed            Class or declared method that disappeared
  superclass_change  Class that now extends a different class

Removing a class with subclasses, removing a canonical declaration and
moving a superclass are breaking. Removing an override is not. The affected
count is the number of subclasses reached by the change.

Examples:
  jhier diff                         # Compare the project root with the snapshot
  jhier diff src/main/java
  jhier diff --facts classes.yaml --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	// diff scans exactly like scan does
	diffCmd.Flags().StringVar(&scanFacts, "facts", "", "Read class facts from a YAML file instead of sources")
	diffCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Additional exclude glob patterns")
	diffCmd.Flags().IntVarP(&scanJobs, "jobs", "j", 0, "Parallel parser workers (default: scan.jobs from config)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := findProject()
	if err != nil {
		return err
	}
	format, err := p.resultFormat()
	if err != nil {
		return err
	}

	saved, _, err := p.loadStore(ctx)
	if err != nil {
		return err
	}
	current, _, err := scanStore(ctx, p, args)
	if err != nil {
		return err
	}

	return writeResult(cmd, format, semdiff.Compare(saved, current))
}
