package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the jhier configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the jhier configuration directory
const ConfigDirName = ".jhier"

// Config holds all jhier configuration
type Config struct {
	Platform  PlatformConfig  `yaml:"platform"`
	Scan      ScanConfig      `yaml:"scan"`
	Tree      TreeConfig      `yaml:"tree"`
	Storage   StorageConfig   `yaml:"storage"`
	Translate TranslateConfig `yaml:"translate"`
	Output    OutputConfig    `yaml:"output"`
}

// PlatformConfig decides which classes belong to the runtime platform.
// An edge is ignored only when both of its classes match a prefix.
type PlatformConfig struct {
	Prefixes []string `yaml:"prefixes"`
}

// ScanConfig holds configuration for source scanning
type ScanConfig struct {
	Exclude []string `yaml:"exclude"`
	Jobs    int      `yaml:"jobs"`
}

// TreeConfig holds configuration for hierarchy tree building
type TreeConfig struct {
	MaxDepth  int    `yaml:"max_depth"`
	Expansion string `yaml:"expansion"`
}

// StorageConfig selects the snapshot backend
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// TranslateConfig holds configuration for node label translation
type TranslateConfig struct {
	// Mappings is a mapping file path, relative to the project root unless
	// absolute. Empty means labels are the internal names.
	Mappings  string `yaml:"mappings,omitempty"`
	CacheSize int    `yaml:"cache_size"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .jhier/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .jhier directory by walking up from startDir.
// Returns the path to the .jhier directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, config not found
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .jhier directory if it doesn't exist.
// Returns the path to the .jhier directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// MappingsPath returns the mapping file path resolved against projectRoot,
// or "" when no mapping file is configured.
func (c *Config) MappingsPath(projectRoot string) string {
	if c.Translate.Mappings == "" {
		return ""
	}
	if filepath.IsAbs(c.Translate.Mappings) {
		return c.Translate.Mappings
	}
	return filepath.Join(projectRoot, c.Translate.Mappings)
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if len(cfg.Platform.Prefixes) == 0 {
		return fmt.Errorf("%w: platform.prefixes must not be empty", ErrInvalidConfig)
	}
	for _, prefix := range cfg.Platform.Prefixes {
		if prefix == "" {
			return fmt.Errorf("%w: platform.prefixes must not contain empty entries", ErrInvalidConfig)
		}
	}

	if cfg.Scan.Jobs <= 0 {
		return fmt.Errorf("%w: scan.jobs must be positive, got %d",
			ErrInvalidConfig, cfg.Scan.Jobs)
	}

	if cfg.Tree.MaxDepth <= 0 {
		return fmt.Errorf("%w: tree.max_depth must be positive, got %d",
			ErrInvalidConfig, cfg.Tree.MaxDepth)
	}

	if !isOneOf(cfg.Tree.Expansion, ValidExpansions) {
		return fmt.Errorf("%w: tree.expansion must be one of %v, got %q",
			ErrInvalidConfig, ValidExpansions, cfg.Tree.Expansion)
	}

	if !isOneOf(cfg.Storage.Backend, ValidBackends) {
		return fmt.Errorf("%w: storage.backend must be one of %v, got %q",
			ErrInvalidConfig, ValidBackends, cfg.Storage.Backend)
	}

	if cfg.Translate.CacheSize <= 0 {
		return fmt.Errorf("%w: translate.cache_size must be positive, got %d",
			ErrInvalidConfig, cfg.Translate.CacheSize)
	}

	if !isOneOf(cfg.Output.DefaultFormat, ValidFormats) {
		return fmt.Errorf("%w: output.default_format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.DefaultFormat)
	}

	return nil
}

// SaveDefault writes the default configuration to .jhier/config.yaml in workDir.
// Creates the .jhier directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# jhier configuration\n# translate.mappings may name a YAML mapping file relative to this project\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
