package distiller

import (
	"context"

	"github.com/apisurface/distill/internal/discovery"
)

// DiscoverAndRun is the discover-then-run entry point: it expands the target
// path through the discovery engine and processes the resulting file set.
// Callers that pre-selected files use Run directly.
func (o *Orchestrator) DiscoverAndRun(ctx context.Context, root, target string, opts Options, progress ProgressReporter) (*Result, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = NoOpProgressReporter{}
	}

	progress.OnDiscoveryStart()
	engine, err := discovery.New(root, discovery.Options{
		IncludePatterns: opts.FileInclude,
		ExcludePatterns: opts.FileExclude,
		IncludeTests:    opts.IncludeTests,
		FollowGitignore: opts.FollowGitignore,
		Sort:            opts.SortByPath,
	})
	if err != nil {
		return nil, err
	}
	files, err := engine.Discover(target)
	if err != nil {
		return nil, err
	}
	progress.OnDiscoveryComplete(len(files))

	return o.Run(ctx, files, root, opts, progress)
}
