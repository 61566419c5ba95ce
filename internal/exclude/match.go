package exclude

import (
	"path/filepath"
	"strings"
)

// Matcher applies glob exclude patterns relative to a scan root.
// Hidden files and directories are always excluded.
type Matcher struct {
	root     string
	patterns []string
}

// NewMatcher creates a matcher for paths under root.
func NewMatcher(root string, patterns []string) *Matcher {
	return &Matcher{root: root, patterns: patterns}
}

// ExcludeDir reports whether the walk should skip the directory at path.
func (m *Matcher) ExcludeDir(path string) bool {
	relPath := m.rel(path)

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return true
	}

	for _, pattern := range m.patterns {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if base == dirPattern || relPath == dirPattern {
			return true
		}
		if matched, _ := filepath.Match(dirPattern, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(dirPattern, base); matched {
			return true
		}
	}
	return false
}

// ExcludeFile reports whether the file at path should be skipped.
func (m *Matcher) ExcludeFile(path string) bool {
	relPath := m.rel(path)
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, pattern := range m.patterns {
		if strings.Contains(pattern, "**") {
			simplePattern := strings.ReplaceAll(pattern, "**/", "")
			simplePattern = strings.ReplaceAll(simplePattern, "**", "")
			if matched, _ := filepath.Match(simplePattern, base); matched {
				return true
			}
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func (m *Matcher) rel(path string) string {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
