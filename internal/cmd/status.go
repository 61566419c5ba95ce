package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/output"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved snapshot",
	Long: `Show what the saved snapshot contains: the scanned root, when it was
scanned, the storage backend and the class, edge and method counts.

With the dolt backend every scan is a Dolt commit; --history N lists the
latest N of them.

Examples:
  jhier status
  jhier status --format json
  jhier status --history 5`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var statusHistory int

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusHistory, "history", 0, "Also list the last N scans (dolt backend only)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, err := findProject()
	if err != nil {
		return err
	}
	format, err := p.resultFormat()
	if err != nil {
		return err
	}

	snap, err := p.openSnapshot()
	if err != nil {
		return err
	}
	defer snap.Close()

	meta, err := snap.Meta(cmd.Context())
	if err != nil {
		return err
	}

	result := &output.ScanOutput{
		Root:      meta.Root,
		ScannedAt: meta.ScannedAt,
		Backend:   string(snap.Backend()),
		Path:      snap.Path(),
		Classes:   meta.Classes,
		Edges:     meta.Edges,
		Methods:   meta.Methods,
	}
	if statusHistory > 0 {
		if result.History, err = snap.History(cmd.Context(), statusHistory); err != nil {
			return err
		}
	}
	return writeResult(cmd, format, result)
}
