// Package config loads distillation settings from the project config file,
// environment variables, and defaults.
package config

import (
	"time"

	"github.com/apisurface/distill/internal/distiller"
)

// Config is the full on-disk configuration.
type Config struct {
	Visibility VisibilityConfig `mapstructure:"visibility"`
	Content    ContentConfig    `mapstructure:"content"`
	Files      FilesConfig      `mapstructure:"files"`
	Symbols    SymbolsConfig    `mapstructure:"symbols"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Output     OutputConfig     `mapstructure:"output"`
}

// VisibilityConfig selects which symbol visibilities survive distillation.
type VisibilityConfig struct {
	Public    bool `mapstructure:"public"`
	Private   bool `mapstructure:"private"`
	Protected bool `mapstructure:"protected"`
	Internal  bool `mapstructure:"internal"`
}

// ContentConfig controls what accompanies each signature.
type ContentConfig struct {
	Docstrings bool `mapstructure:"docstrings"`
	Comments   bool `mapstructure:"comments"`
	Imports    bool `mapstructure:"imports"`
	MaxDepth   int  `mapstructure:"max_depth"`
}

// FilesConfig controls discovery.
type FilesConfig struct {
	Include         []string `mapstructure:"include"`
	Exclude         []string `mapstructure:"exclude"`
	IncludeTests    bool     `mapstructure:"include_tests"`
	FollowGitignore bool     `mapstructure:"follow_gitignore"`
	MaxFileSizeMB   int      `mapstructure:"max_file_size_mb"`
}

// SymbolsConfig filters by symbol name.
type SymbolsConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// ProcessingConfig tunes the worker pool.
type ProcessingConfig struct {
	Workers            int  `mapstructure:"workers"`
	FileTimeoutSeconds int  `mapstructure:"file_timeout_seconds"`
	SortByPath         bool `mapstructure:"sort_by_path"`
}

// OutputConfig selects the rendering format.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	opts := distiller.DefaultOptions()
	return &Config{
		Visibility: VisibilityConfig{
			Public: true,
		},
		Content: ContentConfig{
			Docstrings: true,
			Imports:    true,
		},
		Files: FilesConfig{
			FollowGitignore: true,
			MaxFileSizeMB:   int(opts.MaxFileSize / (1024 * 1024)),
		},
		Processing: ProcessingConfig{
			Workers:            opts.Workers,
			FileTimeoutSeconds: int(opts.FileTimeout / time.Second),
			SortByPath:         true,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Options converts the configuration into distiller options.
func (c *Config) Options() distiller.Options {
	return distiller.Options{
		IncludePublic:     c.Visibility.Public,
		IncludePrivate:    c.Visibility.Private,
		IncludeProtected:  c.Visibility.Protected,
		IncludeInternal:   c.Visibility.Internal,
		IncludeDocstrings: c.Content.Docstrings,
		IncludeComments:   c.Content.Comments,
		IncludeImports:    c.Content.Imports,
		MaxDepth:          c.Content.MaxDepth,
		NameInclude:       c.Symbols.Include,
		NameExclude:       c.Symbols.Exclude,
		FileInclude:       c.Files.Include,
		FileExclude:       c.Files.Exclude,
		IncludeTests:      c.Files.IncludeTests,
		FollowGitignore:   c.Files.FollowGitignore,
		MaxFileSize:       int64(c.Files.MaxFileSizeMB) * 1024 * 1024,
		FileTimeout:       time.Duration(c.Processing.FileTimeoutSeconds) * time.Second,
		Workers:           c.Processing.Workers,
		SortByPath:        c.Processing.SortByPath,
	}
}
