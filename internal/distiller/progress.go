package distiller

// ProgressReporter provides callbacks during a run. Implementations can
// display progress bars, log messages, or remain silent. Callbacks are
// invoked only from the aggregating goroutine, never concurrently.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of files selected.
	OnDiscoveryComplete(fileCount int)

	// OnProcessingStart is called before any file is dispatched.
	OnProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file completes, whether it was
	// distilled, skipped as unsupported, or degraded after a failure.
	OnFileProcessed(relPath string, failed bool)

	// OnComplete is called with the assembled result.
	OnComplete(result *Result)
}

// NoOpProgressReporter is a ProgressReporter that does nothing. Used when
// progress reporting is disabled.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryStart()                        {}
func (NoOpProgressReporter) OnDiscoveryComplete(fileCount int)        {}
func (NoOpProgressReporter) OnProcessingStart(totalFiles int)         {}
func (NoOpProgressReporter) OnFileProcessed(relPath string, ok bool)  {}
func (NoOpProgressReporter) OnComplete(result *Result)                {}
