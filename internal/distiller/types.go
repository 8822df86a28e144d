package distiller

import "time"

// Visibility classifies a declaration for filtering purposes.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
)

// ExportKind identifies what sort of top-level declaration a symbol is.
type ExportKind string

const (
	KindFunction  ExportKind = "function"
	KindClass     ExportKind = "class"
	KindInterface ExportKind = "interface"
	KindTypeAlias ExportKind = "type-alias"
	KindEnum      ExportKind = "enum"
	KindVariable  ExportKind = "variable"
	KindNamespace ExportKind = "namespace"
)

// MemberKind identifies a class or interface member.
type MemberKind string

const (
	MemberProperty    MemberKind = "property"
	MemberMethod      MemberKind = "method"
	MemberGetter      MemberKind = "getter"
	MemberSetter      MemberKind = "setter"
	MemberConstructor MemberKind = "constructor"
)

// SkipReason records why a declaration was excluded from output.
type SkipReason string

const (
	SkipPrivate SkipReason = "private"
	SkipPattern SkipReason = "pattern"
	SkipDepth   SkipReason = "depth"
	SkipComment SkipReason = "comment"
)

// Options is the run configuration passed by value to every module call.
// Construct once per run via config.Load or DefaultOptions; immutable after.
type Options struct {
	// Visibility flags. Public is always included unless explicitly disabled.
	IncludePublic    bool
	IncludePrivate   bool
	IncludeProtected bool
	IncludeInternal  bool

	// Content flags.
	IncludeComments   bool
	IncludeDocstrings bool
	IncludeImports    bool

	// Symbol-name globs applied by the shared filter.
	NameInclude []string
	NameExclude []string

	// File globs applied by the discovery engine.
	FileInclude []string
	FileExclude []string

	// Limits.
	MaxDepth        int           // max nesting depth for members, 0 = unlimited
	MaxFileSize     int64         // bytes; files larger than this are skipped
	FileTimeout     time.Duration // per-file processing budget
	Workers         int           // worker pool size; 1 = sequential
	SortByPath      bool          // sort the final per-file list by relative path
	IncludeTests    bool          // keep files matching test-file conventions
	FollowGitignore bool          // honor .gitignore rules during discovery
}

// DefaultOptions returns the options used when no configuration is supplied.
func DefaultOptions() Options {
	return Options{
		IncludePublic:     true,
		IncludeDocstrings: true,
		IncludeImports:    true,
		MaxFileSize:       2 * 1024 * 1024,
		FileTimeout:       30 * time.Second,
		Workers:           4,
		SortByPath:        true,
		FollowGitignore:   true,
	}
}

// SourceFile is one discovered input file.
type SourceFile struct {
	Path     string // absolute path
	RelPath  string // path relative to the scan root, slash-separated
	Size     int64
	Language string // detected language tag, "" when unsupported
	Content  []byte // populated by the orchestrator before dispatch
}

// ImportRecord is one import or include statement.
type ImportRecord struct {
	Module     string   `json:"module"`
	Specifiers []string `json:"specifiers,omitempty"`
	Line       int      `json:"line"`
}

// Member is a class or interface member retained in the distilled output.
type Member struct {
	Name       string     `json:"name"`
	Kind       MemberKind `json:"kind"`
	Signature  string     `json:"signature"`
	Visibility Visibility `json:"visibility"`
	Static     bool       `json:"static,omitempty"`
	Optional   bool       `json:"optional,omitempty"`
	Line       int        `json:"line"`
	Doc        string     `json:"doc,omitempty"`
}

// ExportedSymbol is one top-level declaration with its body discarded.
type ExportedSymbol struct {
	Name       string     `json:"name"`
	Kind       ExportKind `json:"kind"`
	Signature  string     `json:"signature"`
	Visibility Visibility `json:"visibility"`
	Line       int        `json:"line"`
	Exported   bool       `json:"exported"`
	Doc        string     `json:"doc,omitempty"`
	Members    []Member   `json:"members,omitempty"`
}

// SkippedItem records a declaration excluded from output and why.
type SkippedItem struct {
	Name   string     `json:"name"`
	Reason SkipReason `json:"reason"`
}

// ProcessResult is the output of processing one file.
type ProcessResult struct {
	Imports     []ImportRecord   `json:"imports,omitempty"`
	Exports     []ExportedSymbol `json:"exports"`
	Skipped     []SkippedItem    `json:"skipped,omitempty"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
}

// FileAPI pairs a processed file with its distilled API surface.
type FileAPI struct {
	Path     string           `json:"path"` // relative to the scan root
	Language string           `json:"language"`
	Size     int64            `json:"size"`
	Lines    int              `json:"lines"`
	Imports  []ImportRecord   `json:"imports,omitempty"`
	Exports  []ExportedSymbol `json:"exports"`
	Skipped  []SkippedItem    `json:"skipped,omitempty"`
	Failed   bool             `json:"failed,omitempty"` // all strategies failed or worker crashed
}

// Structure summarizes the scanned tree.
type Structure struct {
	Directories []string       `json:"directories"`
	FileCount   int            `json:"file_count"`
	LineCount   int            `json:"line_count"` // total lines across scanned files
	Languages   map[string]int `json:"languages"`
}

// FileDeps is one entry of the dependency map.
type FileDeps struct {
	Imports []string `json:"imports"`
	Exports []string `json:"exports"`
}

// Metrics holds token accounting for a run.
type Metrics struct {
	OriginalTokens   int `json:"original_tokens"`
	DistilledTokens  int `json:"distilled_tokens"`
	CompressionRatio int `json:"compression_ratio"` // percent, clamped to [0,100]
}

// Result is the aggregate of a full run, self-describing for formatters.
type Result struct {
	RunID        string              `json:"run_id"`
	BasePath     string              `json:"base_path"`
	Files        []FileAPI           `json:"files"`
	Structure    Structure           `json:"structure"`
	Dependencies map[string]FileDeps `json:"dependencies,omitempty"`
	Metrics      Metrics             `json:"metrics"`
	Duration     time.Duration       `json:"duration"`
}
