package distiller

import (
	"context"
	"fmt"
)

// Capabilities declares what a language module can extract.
type Capabilities struct {
	SupportsPrivateMembers bool
	SupportsComments       bool
	SupportsDocstrings     bool
	// MaxFileSize is the recommended byte cap for this language; 0 means the
	// global option applies unchanged.
	MaxFileSize int64
}

// Module is one per-language extraction unit. Implementations chain multiple
// strategies internally, ordered by fidelity, and must never let a strategy
// failure escape Process: exhausting every strategy yields a degraded empty
// result, not an error.
type Module interface {
	// Name is the display name, unique within a registry.
	Name() string

	// Extensions lists the file extensions this module claims, with leading
	// dot, lowercase (".ts", ".py").
	Extensions() []string

	Capabilities() Capabilities

	// Init probes strategy availability. Called once by the registry before
	// any Process call; the probe cost is paid here, not per file.
	Init() error

	// Process distills one file. The source is the raw file content; path is
	// used for diagnostics only. Implementations must honor ctx cancellation
	// between strategies.
	Process(ctx context.Context, source []byte, path string, opts Options) (*ProcessResult, error)
}

// ParseError wraps a single strategy failure so callers can distinguish a
// parse problem from I/O or configuration errors.
type ParseError struct {
	Strategy string
	Path     string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing %s: %v", e.Strategy, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyResult returns the degraded result substituted when every strategy
// fails: no exports, with the failure recorded as a diagnostic. Original
// token counts are computed by the orchestrator from raw text, so metrics
// stay meaningful for failed files.
func EmptyResult(diagnostics ...string) *ProcessResult {
	return &ProcessResult{
		Exports:     []ExportedSymbol{},
		Diagnostics: diagnostics,
	}
}
