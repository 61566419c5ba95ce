package extract

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hargabyte/jhier/internal/exclude"
	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/parser"
)

// DefaultJobs is the number of files parsed concurrently when Jobs is unset.
const DefaultJobs = 4

// SourceExtractor extracts class facts from the Java sources under Root.
// It implements hierarchy.Extractor.
type SourceExtractor struct {
	// Root is the directory to scan.
	Root string
	// Exclude holds glob patterns for directories and files to skip, in
	// addition to detected build output directories.
	Exclude []string
	// Jobs bounds concurrent parsing. Values <= 0 use DefaultJobs.
	Jobs int
	// Logger receives per-file warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

var _ hierarchy.Extractor = (*SourceExtractor)(nil)

// Extract parses every Java file under Root and returns the declared
// classes sorted by name. Files with syntax errors still contribute the
// declarations tree-sitter could recover. A class declared in more than one
// file keeps its first declaration.
func (e *SourceExtractor) Extract(ctx context.Context) ([]hierarchy.ClassFact, error) {
	logger := e.logger()

	files, err := e.SourceFiles()
	if err != nil {
		return nil, err
	}
	logger.Debug("collected source files",
		slog.String("root", e.Root),
		slog.Int("files", len(files)),
	)

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	perFile := make([][]hierarchy.ClassFact, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		g.Go(func() error {
			facts, err := e.extractFile(gctx, path)
			if err != nil {
				return err
			}
			perFile[i] = facts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeFacts(perFile, logger), nil
}

// SourceFiles returns the Java files under Root that survive exclusion,
// in lexical walk order.
func (e *SourceExtractor) SourceFiles() ([]string, error) {
	info, err := os.Stat(e.Root)
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", e.Root)
	}

	patterns := append([]string(nil), e.Exclude...)
	auto := exclude.DetectAutoExcludes(e.Root)
	for _, dir := range auto.Directories {
		e.logger().Debug("excluding build output",
			slog.String("dir", dir),
			slog.String("reason", auto.Reasons[dir]),
		)
		patterns = append(patterns, filepath.ToSlash(dir))
	}
	matcher := exclude.NewMatcher(e.Root, patterns)

	var files []string
	err = filepath.WalkDir(e.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == e.Root {
				return err
			}
			e.logger().Warn("skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}

		if d.IsDir() {
			if path != e.Root && matcher.ExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if parser.LanguageFromExtension(filepath.Ext(path)) != parser.Java {
			return nil
		}
		if matcher.ExcludeFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	return files, nil
}

// extractFile parses one file with its own parser; tree-sitter parsers are
// not safe for concurrent use.
func (e *SourceExtractor) extractFile(ctx context.Context, path string) ([]hierarchy.ClassFact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := parser.NewParser(parser.Java)
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	defer p.Close()

	result, err := p.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	rel := slashRel(e.Root, path)
	if pe := result.FirstError(); pe != nil {
		e.logger().Warn("syntax errors in source file",
			slog.String("file", rel),
			slog.String("error", pe.Error()),
		)
	}

	return NewJavaExtractor(result, rel).ExtractClassFacts(), nil
}

func (e *SourceExtractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// mergeFacts flattens per-file facts, dropping later duplicates of a class
// name, and sorts the result by class name.
func mergeFacts(perFile [][]hierarchy.ClassFact, logger *slog.Logger) []hierarchy.ClassFact {
	firstSource := make(map[string]string)
	var merged []hierarchy.ClassFact

	for _, facts := range perFile {
		for _, fact := range facts {
			if kept, dup := firstSource[fact.Name]; dup {
				logger.Warn("duplicate class declaration",
					slog.String("class", fact.Name),
					slog.String("source", fact.Source),
					slog.String("kept", kept),
				)
				continue
			}
			firstSource[fact.Name] = fact.Source
			merged = append(merged, fact)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})
	return merged
}
