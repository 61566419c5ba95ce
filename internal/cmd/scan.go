package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/extract"
	"github.com/hargabyte/jhier/internal/graph"
	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/output"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Index class hierarchy and declared methods",
	Long: `Scan Java sources (or a facts file) and save the class hierarchy index.

Every class, interface, enum, record and annotation declaration becomes one
class entry with its direct superclass and its declared methods as JVM
descriptors. Classes without extends get java/lang/Object; enums and records
get java/lang/Enum and java/lang/Record. Nested classes are named with $.

Build output next to pom.xml, build.gradle(.kts), build.sbt and build.xml is
skipped automatically, as are hidden directories and the scan.exclude
patterns from the config. Files with syntax errors are indexed as far as the
parser can recover them and reported as warnings.

The previous snapshot is replaced. With the dolt backend each scan is also
recorded as a Dolt commit.

Examples:
  jhier scan                          # Scan the project root
  jhier scan src/main/java            # Scan one source tree
  jhier scan --exclude "**/generated" # Extra exclude pattern
  jhier scan --facts classes.yaml     # Load facts produced by other tooling
  jhier scan --emit-facts out.yaml    # Also write the extracted facts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var (
	scanFacts     string
	scanExclude   []string
	scanEmitFacts string
	scanJobs      int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanFacts, "facts", "", "Read class facts from a YAML file instead of sources")
	scanCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Additional exclude glob patterns")
	scanCmd.Flags().StringVar(&scanEmitFacts, "emit-facts", "", "Write the extracted facts to a YAML file")
	scanCmd.Flags().IntVarP(&scanJobs, "jobs", "j", 0, "Parallel parser workers (default: scan.jobs from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := ensureProject()
	if err != nil {
		return err
	}
	format, err := p.resultFormat()
	if err != nil {
		return err
	}

	store, root, err := scanStore(ctx, p, args)
	if err != nil {
		return err
	}

	if hasCycle, cycle := graph.BuildFromHierarchy(store).FindCycles(); hasCycle {
		slog.Warn("class hierarchy contains a cycle; ancestry queries on it will fail",
			slog.String("cycle", strings.Join(cycle, " -> ")))
	}

	snap, err := p.openSnapshot()
	if err != nil {
		return err
	}
	defer snap.Close()

	meta, err := snap.Save(ctx, store, root)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return writeResult(cmd, format, &output.ScanOutput{
		Root:      meta.Root,
		ScannedAt: meta.ScannedAt,
		Backend:   string(snap.Backend()),
		Path:      snap.Path(),
		Classes:   meta.Classes,
		Edges:     meta.Edges,
		Methods:   meta.Methods,
	})
}

// scanStore extracts facts as directed by the scan flags and records them
// into a new frozen store. It returns the store and the scanned root.
func scanStore(ctx context.Context, p *project, args []string) (*hierarchy.Store, string, error) {
	if scanFacts != "" && len(args) > 0 {
		return nil, "", fmt.Errorf("--facts cannot be combined with a scan path")
	}

	var (
		ext  hierarchy.Extractor
		root string
		err  error
	)
	if scanFacts != "" {
		if root, err = filepath.Abs(scanFacts); err != nil {
			return nil, "", fmt.Errorf("resolving facts path: %w", err)
		}
		ext = extract.FactsFile{Path: root}
	} else {
		root = p.root
		if len(args) > 0 {
			if root, err = filepath.Abs(args[0]); err != nil {
				return nil, "", fmt.Errorf("resolving scan path: %w", err)
			}
		}
		jobs := scanJobs
		if jobs <= 0 {
			jobs = p.cfg.Scan.Jobs
		}
		ext = &extract.SourceExtractor{
			Root:    root,
			Exclude: append(append([]string(nil), p.cfg.Scan.Exclude...), scanExclude...),
			Jobs:    jobs,
			Logger:  slog.Default(),
		}
	}

	slog.Debug("scanning", slog.String("root", root))

	facts, err := ext.Extract(ctx)
	if err != nil {
		return nil, "", err
	}

	if scanEmitFacts != "" {
		if err := emitFacts(scanEmitFacts, facts); err != nil {
			return nil, "", err
		}
	}

	store := p.newStore()
	if _, err := hierarchy.IngestFacts(ctx, store, facts); err != nil {
		return nil, "", fmt.Errorf("ingest class facts: %w", err)
	}
	store.Freeze()
	return store, root, nil
}

func emitFacts(path string, facts []hierarchy.ClassFact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create facts file: %w", err)
	}
	if err := extract.WriteFacts(f, facts); err != nil {
		f.Close()
		return fmt.Errorf("write facts file: %w", err)
	}
	return f.Close()
}
