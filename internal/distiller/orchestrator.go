package distiller

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Orchestrator fans per-file work out to a bounded worker pool and
// aggregates the results. Workers share no mutable state; every counter and
// accumulator is owned by the aggregating goroutine inside Run.
type Orchestrator struct {
	registry *Registry
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given module registry.
// A nil logger disables logging.
func NewOrchestrator(registry *Registry, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{registry: registry, logger: logger}
}

// fileJob is one unit of work handed to a worker.
type fileJob struct {
	index int
	file  SourceFile
}

// fileOutcome is what a worker hands back to the aggregator.
type fileOutcome struct {
	index     int
	api       FileAPI
	rawTokens int
}

// ValidateOptions rejects nonsensical configuration before any file is
// touched.
func ValidateOptions(opts Options) error {
	if opts.Workers < 1 {
		return fmt.Errorf("invalid configuration: workers must be >= 1, got %d", opts.Workers)
	}
	if opts.MaxFileSize < 0 {
		return fmt.Errorf("invalid configuration: max file size must be >= 0, got %d", opts.MaxFileSize)
	}
	if opts.MaxDepth < 0 {
		return fmt.Errorf("invalid configuration: max depth must be >= 0, got %d", opts.MaxDepth)
	}
	if opts.FileTimeout < 0 {
		return fmt.Errorf("invalid configuration: file timeout must be >= 0, got %s", opts.FileTimeout)
	}
	if !opts.IncludePublic && !opts.IncludePrivate && !opts.IncludeProtected && !opts.IncludeInternal {
		return fmt.Errorf("invalid configuration: all visibility levels are disabled")
	}
	return nil
}

// Run processes an explicit file list. Paths may be absolute or relative to
// basePath. A completed run always returns a Result, even if every file
// failed to parse; only configuration errors abort before processing.
func (o *Orchestrator) Run(ctx context.Context, files []string, basePath string, opts Options, progress ProgressReporter) (*Result, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	filter, err := NewFilter(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if progress == nil {
		progress = NoOpProgressReporter{}
	}

	start := time.Now()
	sources := o.loadSources(files, basePath)
	progress.OnProcessingStart(len(sources))

	outcomes := make([]fileOutcome, 0, len(sources))
	if opts.Workers == 1 {
		// Sequential: run every file on the calling goroutine.
		for i, src := range sources {
			outcome := o.processOne(ctx, fileJob{index: i, file: src}, opts, filter)
			progress.OnFileProcessed(outcome.api.Path, outcome.api.Failed)
			outcomes = append(outcomes, outcome)
		}
	} else {
		outcomes = o.runPool(ctx, sources, opts, filter, progress)
	}

	result := o.aggregate(outcomes, basePath, opts)
	result.Duration = time.Since(start)
	progress.OnComplete(result)

	o.logger.Info("distillation complete",
		"run_id", result.RunID,
		"files", result.Structure.FileCount,
		"original_tokens", result.Metrics.OriginalTokens,
		"distilled_tokens", result.Metrics.DistilledTokens,
		"compression", result.Metrics.CompressionRatio,
		"duration", result.Duration)

	return result, nil
}

// runPool dispatches jobs to a bounded worker pool and aggregates from a
// single consumer. Completion order is whatever order workers finish in.
func (o *Orchestrator) runPool(ctx context.Context, sources []SourceFile, opts Options, filter *Filter, progress ProgressReporter) []fileOutcome {
	jobs := make(chan fileJob)
	results := make(chan fileOutcome)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- o.processOne(ctx, job, opts, filter)
			}
		}()
	}

	go func() {
		for i, src := range sources {
			jobs <- fileJob{index: i, file: src}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// All mutation happens here, on the consuming side of the channel.
	outcomes := make([]fileOutcome, 0, len(sources))
	for outcome := range results {
		progress.OnFileProcessed(outcome.api.Path, outcome.api.Failed)
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// loadSources reads file content and detects languages up front.
func (o *Orchestrator) loadSources(files []string, basePath string) []SourceFile {
	sources := make([]SourceFile, 0, len(files))
	for _, f := range files {
		abs := f
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(basePath, f)
		}
		rel, err := filepath.Rel(basePath, abs)
		if err != nil {
			rel = f
		}
		rel = filepath.ToSlash(rel)

		src := SourceFile{
			Path:     abs,
			RelPath:  rel,
			Language: o.registry.LanguageForFile(abs),
		}
		if info, err := os.Stat(abs); err == nil {
			src.Size = info.Size()
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			o.logger.Warn("skipping unreadable file", "path", rel, "error", err)
			continue
		}
		src.Content = content
		sources = append(sources, src)
	}
	return sources
}

// processOne distills a single file. It never returns an error: any failure
// degrades to an empty result with the raw-text token count preserved so
// aggregate metrics stay well-formed.
func (o *Orchestrator) processOne(ctx context.Context, job fileJob, opts Options, filter *Filter) fileOutcome {
	src := job.file
	outcome := fileOutcome{
		index: job.index,
		api: FileAPI{
			Path:     src.RelPath,
			Language: src.Language,
			Size:     src.Size,
			Lines:    countLines(string(src.Content)),
			Exports:  []ExportedSymbol{},
		},
	}

	if src.Language == "" || isBinaryContent(src.Content) {
		// Unsupported files are counted as scanned but contribute nothing
		// to the API list or the token totals.
		return outcome
	}

	outcome.rawTokens = EstimateTokens(string(src.Content))

	if opts.MaxFileSize > 0 && src.Size > opts.MaxFileSize {
		o.logger.Warn("skipping oversized file", "path", src.RelPath, "size", src.Size)
		return outcome
	}

	module := o.registry.ModuleForFile(src.Path)
	if module == nil {
		return outcome
	}
	if sizeCap := module.Capabilities().MaxFileSize; sizeCap > 0 && src.Size > sizeCap {
		o.logger.Warn("skipping oversized file", "path", src.RelPath, "size", src.Size, "module", module.Name())
		return outcome
	}

	result := o.safeProcess(ctx, module, src, opts)
	if result == nil {
		outcome.api.Failed = true
		return outcome
	}

	filter.Apply(result)

	outcome.api.Imports = result.Imports
	if !opts.IncludeImports {
		outcome.api.Imports = nil
	}
	outcome.api.Exports = result.Exports
	outcome.api.Skipped = append(outcome.api.Skipped, result.Skipped...)
	outcome.api.Failed = len(result.Diagnostics) > 0 && len(result.Exports) == 0

	return outcome
}

// safeProcess invokes the module under the per-file timeout with panic
// recovery. A crash or timeout yields nil; the caller substitutes the
// degraded result.
func (o *Orchestrator) safeProcess(ctx context.Context, module Module, src SourceFile, opts Options) (result *ProcessResult) {
	if opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.FileTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("module panicked", "module", module.Name(), "path", src.RelPath, "panic", r)
			result = nil
		}
	}()

	res, err := module.Process(ctx, src.Content, src.RelPath, opts)
	if err != nil {
		o.logger.Warn("module failed", "module", module.Name(), "path", src.RelPath, "error", err)
		return nil
	}
	return res
}

// aggregate assembles the final result from per-file outcomes.
func (o *Orchestrator) aggregate(outcomes []fileOutcome, basePath string, opts Options) *Result {
	result := &Result{
		RunID:    uuid.NewString(),
		BasePath: basePath,
		Files:    make([]FileAPI, 0, len(outcomes)),
		Structure: Structure{
			Directories: []string{},
			Languages:   make(map[string]int),
		},
	}

	// Restore submission order first, so unsorted output reproduces the
	// discovery enumeration order regardless of worker completion order.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].index < outcomes[j].index
	})

	dirs := make(map[string]struct{})
	originalTokens := 0
	retainedTokens := 0

	for _, outcome := range outcomes {
		api := outcome.api
		result.Structure.FileCount++
		result.Structure.LineCount += api.Lines

		lang := api.Language
		if lang == "" {
			lang = "unsupported"
		}
		result.Structure.Languages[lang]++

		if dir := filepath.ToSlash(filepath.Dir(api.Path)); dir != "." {
			for d := dir; d != "." && d != "/"; d = filepath.ToSlash(filepath.Dir(d)) {
				dirs[d] = struct{}{}
			}
		}

		originalTokens += outcome.rawTokens
		retainedTokens += distilledTokens(api.Exports)

		if api.Language == "" {
			// Unsupported: scanned but not part of the API list.
			continue
		}
		result.Files = append(result.Files, api)
	}

	if opts.SortByPath {
		sort.Slice(result.Files, func(i, j int) bool {
			return result.Files[i].Path < result.Files[j].Path
		})
	}

	for d := range dirs {
		result.Structure.Directories = append(result.Structure.Directories, d)
	}
	sort.Strings(result.Structure.Directories)

	result.Dependencies = buildDependencyMap(result.Files)
	result.Metrics = Metrics{
		OriginalTokens:   originalTokens,
		DistilledTokens:  retainedTokens,
		CompressionRatio: compressionRatio(originalTokens, retainedTokens),
	}
	return result
}

// isBinaryContent reports whether content looks like a binary file. A null
// byte in the first 8KB is a reliable signal across formats.
func isBinaryContent(content []byte) bool {
	probe := content
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	return bytes.IndexByte(probe, 0) != -1
}
