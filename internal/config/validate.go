package config

import "fmt"

var validFormats = map[string]bool{
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks a loaded configuration for contradictions before any
// processing starts.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if !cfg.Visibility.Public && !cfg.Visibility.Private &&
		!cfg.Visibility.Protected && !cfg.Visibility.Internal {
		return fmt.Errorf("at least one visibility level must be enabled")
	}

	if cfg.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", cfg.Processing.Workers)
	}
	if cfg.Processing.FileTimeoutSeconds < 0 {
		return fmt.Errorf("processing.file_timeout_seconds must not be negative, got %d", cfg.Processing.FileTimeoutSeconds)
	}
	if cfg.Files.MaxFileSizeMB < 0 {
		return fmt.Errorf("files.max_file_size_mb must not be negative, got %d", cfg.Files.MaxFileSizeMB)
	}
	if cfg.Content.MaxDepth < 0 {
		return fmt.Errorf("content.max_depth must not be negative, got %d", cfg.Content.MaxDepth)
	}

	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be text, markdown, or json, got %q", cfg.Output.Format)
	}

	return nil
}
