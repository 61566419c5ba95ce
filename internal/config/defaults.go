package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformConfig{
			Prefixes: []string{"java/", "javax/"},
		},
		Scan: ScanConfig{
			Exclude: []string{
				"out/**",
				"bin/**",
				"node_modules/**",
			},
			Jobs: 4,
		},
		Tree: TreeConfig{
			MaxDepth:  512,
			Expansion: "full",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Translate: TranslateConfig{
			CacheSize: 4096,
		},
		Output: OutputConfig{
			DefaultFormat: "yaml",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Platform:  mergePlatformConfig(loaded.Platform, defaults.Platform),
		Scan:      mergeScanConfig(loaded.Scan, defaults.Scan),
		Tree:      mergeTreeConfig(loaded.Tree, defaults.Tree),
		Storage:   mergeStorageConfig(loaded.Storage, defaults.Storage),
		Translate: mergeTranslateConfig(loaded.Translate, defaults.Translate),
		Output:    mergeOutputConfig(loaded.Output, defaults.Output),
	}
}

func mergePlatformConfig(loaded, defaults PlatformConfig) PlatformConfig {
	if len(loaded.Prefixes) > 0 {
		return loaded
	}
	return defaults
}

func mergeScanConfig(loaded, defaults ScanConfig) ScanConfig {
	result := ScanConfig{}

	// Use loaded exclude patterns if provided, otherwise defaults
	if len(loaded.Exclude) > 0 {
		result.Exclude = loaded.Exclude
	} else {
		result.Exclude = defaults.Exclude
	}

	if loaded.Jobs != 0 {
		result.Jobs = loaded.Jobs
	} else {
		result.Jobs = defaults.Jobs
	}

	return result
}

func mergeTreeConfig(loaded, defaults TreeConfig) TreeConfig {
	result := TreeConfig{}

	if loaded.MaxDepth != 0 {
		result.MaxDepth = loaded.MaxDepth
	} else {
		result.MaxDepth = defaults.MaxDepth
	}

	if loaded.Expansion != "" {
		result.Expansion = loaded.Expansion
	} else {
		result.Expansion = defaults.Expansion
	}

	return result
}

func mergeStorageConfig(loaded, defaults StorageConfig) StorageConfig {
	result := StorageConfig{}

	// Backend: use loaded if non-empty
	if loaded.Backend != "" {
		result.Backend = loaded.Backend
	} else {
		result.Backend = defaults.Backend
	}

	return result
}

func mergeTranslateConfig(loaded, defaults TranslateConfig) TranslateConfig {
	result := TranslateConfig{}

	if loaded.Mappings != "" {
		result.Mappings = loaded.Mappings
	} else {
		result.Mappings = defaults.Mappings
	}

	if loaded.CacheSize != 0 {
		result.CacheSize = loaded.CacheSize
	} else {
		result.CacheSize = defaults.CacheSize
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	if loaded.DefaultFormat != "" {
		result.DefaultFormat = loaded.DefaultFormat
	} else {
		result.DefaultFormat = defaults.DefaultFormat
	}

	return result
}

// ValidExpansions lists the valid values for tree.expansion
var ValidExpansions = []string{"full", "shallow"}

// ValidBackends lists the valid values for storage.backend
var ValidBackends = []string{"sqlite", "dolt"}

// ValidFormats lists the valid values for output.default_format
var ValidFormats = []string{"yaml", "json", "text"}

func isOneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
