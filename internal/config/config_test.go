package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Platform.Prefixes) != 2 || cfg.Platform.Prefixes[0] != "java/" || cfg.Platform.Prefixes[1] != "javax/" {
		t.Errorf("expected platform prefixes [java/ javax/], got %v", cfg.Platform.Prefixes)
	}

	if len(cfg.Scan.Exclude) != 3 {
		t.Errorf("expected 3 exclude patterns, got %d", len(cfg.Scan.Exclude))
	}
	if cfg.Scan.Jobs != 4 {
		t.Errorf("expected scan jobs 4, got %d", cfg.Scan.Jobs)
	}

	if cfg.Tree.MaxDepth != 512 {
		t.Errorf("expected max_depth 512, got %d", cfg.Tree.MaxDepth)
	}
	if cfg.Tree.Expansion != "full" {
		t.Errorf("expected expansion full, got %s", cfg.Tree.Expansion)
	}

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected backend sqlite, got %s", cfg.Storage.Backend)
	}

	if cfg.Translate.Mappings != "" || cfg.Translate.CacheSize != 4096 {
		t.Errorf("unexpected translate defaults: %+v", cfg.Translate)
	}

	if cfg.Output.DefaultFormat != "yaml" {
		t.Errorf("expected default_format yaml, got %s", cfg.Output.DefaultFormat)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "shallow dolt json is valid",
			modify: func(c *Config) {
				c.Tree.Expansion = "shallow"
				c.Storage.Backend = "dolt"
				c.Output.DefaultFormat = "json"
			},
			wantErr: false,
		},
		{
			name: "no platform prefixes",
			modify: func(c *Config) {
				c.Platform.Prefixes = nil
			},
			wantErr: true,
		},
		{
			name: "empty platform prefix",
			modify: func(c *Config) {
				c.Platform.Prefixes = []string{"java/", ""}
			},
			wantErr: true,
		},
		{
			name: "zero jobs",
			modify: func(c *Config) {
				c.Scan.Jobs = 0
			},
			wantErr: true,
		},
		{
			name: "negative max depth",
			modify: func(c *Config) {
				c.Tree.MaxDepth = -1
			},
			wantErr: true,
		},
		{
			name: "invalid expansion",
			modify: func(c *Config) {
				c.Tree.Expansion = "deep"
			},
			wantErr: true,
		},
		{
			name: "invalid backend",
			modify: func(c *Config) {
				c.Storage.Backend = "postgres"
			},
			wantErr: true,
		},
		{
			name: "zero cache size",
			modify: func(c *Config) {
				c.Translate.CacheSize = 0
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			modify: func(c *Config) {
				c.Output.DefaultFormat = "xml"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if merged.Tree.MaxDepth != defaults.Tree.MaxDepth {
			t.Errorf("expected max_depth %d, got %d", defaults.Tree.MaxDepth, merged.Tree.MaxDepth)
		}
		if merged.Storage.Backend != defaults.Storage.Backend {
			t.Errorf("expected backend %s, got %s", defaults.Storage.Backend, merged.Storage.Backend)
		}
		if len(merged.Platform.Prefixes) != len(defaults.Platform.Prefixes) {
			t.Errorf("expected default prefixes, got %v", merged.Platform.Prefixes)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Platform:  PlatformConfig{Prefixes: []string{"android/"}},
			Tree:      TreeConfig{Expansion: "shallow"},
			Translate: TranslateConfig{Mappings: "mappings.yaml"},
			Output:    OutputConfig{DefaultFormat: "text"},
		}
		merged := Merge(loaded, defaults)

		if len(merged.Platform.Prefixes) != 1 || merged.Platform.Prefixes[0] != "android/" {
			t.Errorf("expected prefixes [android/], got %v", merged.Platform.Prefixes)
		}
		if merged.Tree.Expansion != "shallow" {
			t.Errorf("expected expansion shallow, got %s", merged.Tree.Expansion)
		}
		if merged.Translate.Mappings != "mappings.yaml" {
			t.Errorf("expected mappings.yaml, got %q", merged.Translate.Mappings)
		}
		if merged.Output.DefaultFormat != "text" {
			t.Errorf("expected format text, got %s", merged.Output.DefaultFormat)
		}

		// Unset values should use defaults
		if merged.Tree.MaxDepth != defaults.Tree.MaxDepth {
			t.Errorf("expected default max_depth %d, got %d", defaults.Tree.MaxDepth, merged.Tree.MaxDepth)
		}
		if merged.Translate.CacheSize != defaults.Translate.CacheSize {
			t.Errorf("expected default cache_size %d, got %d", defaults.Translate.CacheSize, merged.Translate.CacheSize)
		}
	})
}

func TestMappingsPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.MappingsPath("/proj"); got != "" {
		t.Errorf("MappingsPath with no mappings = %q, want empty", got)
	}

	cfg.Translate.Mappings = "maps/names.yaml"
	if got, want := cfg.MappingsPath("/proj"), filepath.Join("/proj", "maps/names.yaml"); got != want {
		t.Errorf("MappingsPath = %q, want %q", got, want)
	}

	abs := filepath.Join(t.TempDir(), "names.yaml")
	cfg.Translate.Mappings = abs
	if got := cfg.MappingsPath("/proj"); got != abs {
		t.Errorf("MappingsPath(absolute) = %q, want %q", got, abs)
	}
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested directories: tmpDir/project/subdir
	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if err == nil {
			t.Error("expected error when no .jhier directory exists")
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates config directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedDir := filepath.Join(tmpDir, ConfigDirName)
		if dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("config directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("returns existing directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if expectedDir := filepath.Join(tmpDir, ConfigDirName); dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}
	})
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
platform:
  prefixes: [java/, javax/, jdk/]
scan:
  exclude:
    - generated/**
tree:
  expansion: shallow
storage:
  backend: dolt
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Platform.Prefixes) != 3 {
			t.Errorf("expected 3 prefixes, got %d", len(cfg.Platform.Prefixes))
		}
		if len(cfg.Scan.Exclude) != 1 {
			t.Errorf("expected 1 exclude pattern, got %d", len(cfg.Scan.Exclude))
		}
		if cfg.Tree.Expansion != "shallow" {
			t.Errorf("expected expansion shallow, got %s", cfg.Tree.Expansion)
		}
		if cfg.Storage.Backend != "dolt" {
			t.Errorf("expected backend dolt, got %s", cfg.Storage.Backend)
		}

		// Check defaults were applied for missing values
		if cfg.Scan.Jobs != 4 {
			t.Errorf("expected default jobs 4, got %d", cfg.Scan.Jobs)
		}
		if cfg.Output.DefaultFormat != "yaml" {
			t.Errorf("expected default format yaml, got %s", cfg.Output.DefaultFormat)
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Tree.MaxDepth != DefaultConfig().Tree.MaxDepth {
			t.Errorf("expected default max_depth, got %d", cfg.Tree.MaxDepth)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
storage:
  backend: postgres
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("returns defaults when no config dir exists", func(t *testing.T) {
		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.DefaultFormat != DefaultConfig().Output.DefaultFormat {
			t.Errorf("expected default config")
		}
	})

	t.Run("loads config from .jhier directory", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ConfigDirName)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatal(err)
		}

		content := `
output:
  default_format: json
`
		configPath := filepath.Join(configDir, ConfigFileName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.DefaultFormat != "json" {
			t.Errorf("expected format json, got %s", cfg.Output.DefaultFormat)
		}
	})
}

func TestSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates default config file", func(t *testing.T) {
		configPath, err := SaveDefault(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedPath := filepath.Join(tmpDir, ConfigDirName, ConfigFileName)
		if configPath != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, configPath)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if cfg.Storage.Backend != DefaultConfig().Storage.Backend {
			t.Errorf("saved config doesn't match defaults")
		}
	})

	t.Run("fails if config already exists", func(t *testing.T) {
		if _, err := SaveDefault(tmpDir); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
