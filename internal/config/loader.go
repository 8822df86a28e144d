package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DISTILL_*)
// 2. Config file (.distill/config.yml or .distill/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".distill")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("DISTILL")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g. DISTILL_PROCESSING_WORKERS).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("visibility.public")
	v.BindEnv("visibility.private")
	v.BindEnv("visibility.protected")
	v.BindEnv("visibility.internal")
	v.BindEnv("content.docstrings")
	v.BindEnv("content.comments")
	v.BindEnv("content.imports")
	v.BindEnv("content.max_depth")
	v.BindEnv("files.include_tests")
	v.BindEnv("files.follow_gitignore")
	v.BindEnv("files.max_file_size_mb")
	v.BindEnv("processing.workers")
	v.BindEnv("processing.file_timeout_seconds")
	v.BindEnv("processing.sort_by_path")
	v.BindEnv("output.format")
	v.BindEnv("output.path")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("visibility.public", defaults.Visibility.Public)
	v.SetDefault("visibility.private", defaults.Visibility.Private)
	v.SetDefault("visibility.protected", defaults.Visibility.Protected)
	v.SetDefault("visibility.internal", defaults.Visibility.Internal)

	v.SetDefault("content.docstrings", defaults.Content.Docstrings)
	v.SetDefault("content.comments", defaults.Content.Comments)
	v.SetDefault("content.imports", defaults.Content.Imports)
	v.SetDefault("content.max_depth", defaults.Content.MaxDepth)

	v.SetDefault("files.include", defaults.Files.Include)
	v.SetDefault("files.exclude", defaults.Files.Exclude)
	v.SetDefault("files.include_tests", defaults.Files.IncludeTests)
	v.SetDefault("files.follow_gitignore", defaults.Files.FollowGitignore)
	v.SetDefault("files.max_file_size_mb", defaults.Files.MaxFileSizeMB)

	v.SetDefault("symbols.include", defaults.Symbols.Include)
	v.SetDefault("symbols.exclude", defaults.Symbols.Exclude)

	v.SetDefault("processing.workers", defaults.Processing.Workers)
	v.SetDefault("processing.file_timeout_seconds", defaults.Processing.FileTimeoutSeconds)
	v.SetDefault("processing.sort_by_path", defaults.Processing.SortByPath)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.path", defaults.Output.Path)
}

// LoadConfig is a convenience function that loads config from the current
// working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
