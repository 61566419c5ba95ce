package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/config"
	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/output"
	"github.com/hargabyte/jhier/internal/snapshot"
	"github.com/hargabyte/jhier/internal/translate"
	"github.com/hargabyte/jhier/internal/tree"
)

// Shared utility functions for command implementations

// errNotInitialized is returned by commands that need an existing index.
var errNotInitialized = errors.New("jhier not initialized: run 'jhier init && jhier scan' first")

// project is a directory holding a .jhier index and its configuration.
type project struct {
	root string // directory containing .jhier
	dir  string // the .jhier directory
	cfg  *config.Config
}

// findProject locates the enclosing project of the working directory.
func findProject() (*project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	dir, err := config.FindConfigDir(cwd)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, errNotInitialized
		}
		return nil, err
	}
	return newProject(filepath.Dir(dir), dir)
}

// ensureProject returns the enclosing project of the working directory, or
// creates .jhier in the working directory when there is none.
func ensureProject() (*project, error) {
	p, err := findProject()
	if err == nil || !errors.Is(err, errNotInitialized) {
		return p, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	dir, err := config.EnsureConfigDir(cwd)
	if err != nil {
		return nil, err
	}
	return newProject(cwd, dir)
}

func newProject(root, dir string) (*project, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.LoadFromPath(filepath.Join(dir, config.ConfigFileName))
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &project{root: root, dir: dir, cfg: cfg}, nil
}

// openSnapshot opens the snapshot database with the configured backend.
func (p *project) openSnapshot() (*snapshot.Snapshot, error) {
	backend, err := snapshot.ParseBackend(p.cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Open(p.dir, backend)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return snap, nil
}

// newStore creates an empty store using the configured platform prefixes.
func (p *project) newStore() *hierarchy.Store {
	return hierarchy.New(hierarchy.PrefixPlatform(p.cfg.Platform.Prefixes...))
}

// loadStore reads the saved snapshot into a new frozen store.
func (p *project) loadStore(ctx context.Context) (*hierarchy.Store, snapshot.Meta, error) {
	snap, err := p.openSnapshot()
	if err != nil {
		return nil, snapshot.Meta{}, err
	}
	defer snap.Close()

	s := p.newStore()
	meta, err := snap.Load(ctx, s)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			return nil, snapshot.Meta{}, err
		}
		return nil, snapshot.Meta{}, fmt.Errorf("load snapshot: %w", err)
	}
	s.Freeze()

	slog.Debug("loaded snapshot",
		slog.String("path", snap.Path()),
		slog.Int("classes", meta.Classes),
		slog.Int("edges", meta.Edges))
	return s, meta, nil
}

// loadTranslator builds the configured name translator: the mapping file behind
// an LRU cache, or the identity when no mapping is configured.
func (p *project) loadTranslator() (translate.Translator, error) {
	path := p.cfg.MappingsPath(p.root)
	if path == "" {
		return translate.Identity{}, nil
	}

	mapping, err := translate.LoadMapping(path)
	if err != nil {
		return nil, err
	}
	return translate.NewCached(mapping, p.cfg.Translate.CacheSize)
}

// expansion returns the tree expansion for a command: --shallow wins over
// the configured default.
func (p *project) expansion(shallow bool) (tree.Expansion, error) {
	if shallow {
		return tree.ExpandShallow, nil
	}
	return tree.ParseExpansion(p.cfg.Tree.Expansion)
}

// resultFormat returns the output format: --format wins over the configured default.
func (p *project) resultFormat() (output.Format, error) {
	if outputFormat != "" {
		return output.ParseFormat(outputFormat)
	}
	return output.ParseFormat(p.cfg.Output.DefaultFormat)
}

// queryEnv is everything a query command needs: the frozen store, the
// translator and the output format.
type queryEnv struct {
	*project
	store      *hierarchy.Store
	translator translate.Translator
	results    *output.Results
	format     output.Format
}

func openQueryEnv(ctx context.Context) (*queryEnv, error) {
	p, err := findProject()
	if err != nil {
		return nil, err
	}

	format, err := p.resultFormat()
	if err != nil {
		return nil, err
	}

	s, _, err := p.loadStore(ctx)
	if err != nil {
		return nil, err
	}

	t, err := p.loadTranslator()
	if err != nil {
		return nil, err
	}

	return &queryEnv{
		project:    p,
		store:      s,
		translator: t,
		results:    output.NewResults(s, t),
		format:     format,
	}, nil
}

// builder returns a tree builder bounded by the configured depth.
func (e *queryEnv) builder() *tree.Builder {
	return tree.NewBuilder(e.store, e.translator, e.cfg.Tree.MaxDepth)
}

// writeResult writes result to the command's stdout in the given format.
func writeResult(cmd *cobra.Command, format output.Format, result interface{}) error {
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), result)
}
