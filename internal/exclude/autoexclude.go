// Package exclude decides which directories and files a source scan skips:
// build output detected next to JVM build files, plus user glob patterns.
package exclude

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// AutoExcludeResult contains the directories to exclude and why.
type AutoExcludeResult struct {
	// Directories to exclude (relative to project root)
	Directories []string
	// Reasons maps each directory to why it was excluded
	Reasons map[string]string
}

// buildOutputs maps a build file name to the sibling directory its tool
// writes generated sources and classes into.
var buildOutputs = map[string]struct {
	dir    string
	reason string
}{
	"pom.xml":          {"target", "Maven build output (pom.xml detected)"},
	"build.gradle":     {"build", "Gradle build output (build.gradle detected)"},
	"build.gradle.kts": {"build", "Gradle build output (build.gradle.kts detected)"},
	"build.sbt":        {"target", "sbt build output (build.sbt detected)"},
	"build.xml":        {"build", "Ant build output (build.xml detected)"},
}

// DetectAutoExcludes walks projectRoot for JVM build files and reports the
// output directory next to each one, relative to projectRoot. A directory is
// only reported when it exists, so nested modules (core/pom.xml with
// core/target) are covered. Hidden and already excluded directories are not
// descended into; unreadable entries are ignored.
func DetectAutoExcludes(projectRoot string) *AutoExcludeResult {
	result := &AutoExcludeResult{
		Directories: []string{},
		Reasons:     make(map[string]string),
	}

	skipped := func(rel string) bool {
		for _, dir := range result.Directories {
			if rel == dir || strings.HasPrefix(rel, dir+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	_ = filepath.WalkDir(projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == projectRoot {
			return nil
		}
		rel, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || skipped(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		out, ok := buildOutputs[d.Name()]
		if !ok {
			return nil
		}
		outDir := filepath.Join(filepath.Dir(rel), out.dir)
		if info, err := os.Stat(filepath.Join(projectRoot, outDir)); err != nil || !info.IsDir() {
			return nil
		}
		if !slices.Contains(result.Directories, outDir) {
			result.Directories = append(result.Directories, outDir)
			result.Reasons[outDir] = out.reason
		}
		return nil
	})

	return result
}
