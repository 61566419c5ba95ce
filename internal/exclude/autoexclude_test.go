package exclude

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectAutoExcludes_Empty(t *testing.T) {
	tmpDir := t.TempDir()

	result := DetectAutoExcludes(tmpDir)

	if len(result.Directories) != 0 {
		t.Errorf("expected 0 directories, got %d: %v", len(result.Directories), result.Directories)
	}
}

func TestDetectAutoExcludes_Maven(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, "pom.xml"), "<project/>")
	if err := os.Mkdir(filepath.Join(tmpDir, "target"), 0755); err != nil {
		t.Fatal(err)
	}

	result := DetectAutoExcludes(tmpDir)

	if len(result.Directories) != 1 || !slices.Contains(result.Directories, "target") {
		t.Errorf("expected [target], got %v", result.Directories)
	}
	if result.Reasons["target"] == "" {
		t.Error("expected reason for target directory")
	}
}

func TestDetectAutoExcludes_Maven_NoTarget(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, "pom.xml"), "<project/>")

	result := DetectAutoExcludes(tmpDir)

	if len(result.Directories) != 0 {
		t.Errorf("expected 0 directories (no target/), got %d: %v", len(result.Directories), result.Directories)
	}
}

func TestDetectAutoExcludes_GradleNested(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, "settings.gradle"), "")
	writeFile(t, filepath.Join(tmpDir, "core", "build.gradle.kts"), "")
	writeFile(t, filepath.Join(tmpDir, "core", "build", "generated", "Gen.java"), "class Gen {}")

	result := DetectAutoExcludes(tmpDir)

	want := filepath.Join("core", "build")
	if len(result.Directories) != 1 || !slices.Contains(result.Directories, want) {
		t.Errorf("expected [%s], got %v", want, result.Directories)
	}
}

func TestDetectAutoExcludes_NoDuplicates(t *testing.T) {
	tmpDir := t.TempDir()

	// Both Gradle flavours point at build/; it must only appear once.
	writeFile(t, filepath.Join(tmpDir, "build.gradle"), "")
	writeFile(t, filepath.Join(tmpDir, "build.xml"), "<project/>")
	if err := os.Mkdir(filepath.Join(tmpDir, "build"), 0755); err != nil {
		t.Fatal(err)
	}

	result := DetectAutoExcludes(tmpDir)

	count := 0
	for _, dir := range result.Directories {
		if dir == "build" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected build exactly once, got %d: %v", count, result.Directories)
	}
}

func TestMatcher(t *testing.T) {
	root := "/src"
	m := NewMatcher(root, []string{"generated", "**/*Test.java", "legacy/*"})

	tests := []struct {
		name string
		path string
		dir  bool
		want bool
	}{
		{"plain dir", "/src/com/example", true, false},
		{"hidden dir", "/src/.git", true, true},
		{"named dir", "/src/com/generated", true, true},
		{"dir with star suffix", "/src/legacy", true, true},
		{"plain file", "/src/com/example/Shape.java", false, false},
		{"double star file", "/src/com/example/ShapeTest.java", false, true},
		{"hidden file", "/src/com/.Shape.java", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			if tt.dir {
				got = m.ExcludeDir(tt.path)
			} else {
				got = m.ExcludeFile(tt.path)
			}
			if got != tt.want {
				t.Errorf("exclude(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
