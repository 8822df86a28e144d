package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/apisurface/distill/internal/distiller"
)

// ProgressReporter renders a progress bar on stderr while files process.
type ProgressReporter struct {
	bar       *progressbar.ProgressBar
	startTime time.Time
	failed    int
}

// NewProgressReporter creates a progress reporter for interactive runs.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{startTime: time.Now()}
}

func (p *ProgressReporter) OnDiscoveryStart() {
	fmt.Fprintln(os.Stderr, "Discovering files...")
}

func (p *ProgressReporter) OnDiscoveryComplete(fileCount int) {
	fmt.Fprintf(os.Stderr, "Found %d files\n", fileCount)
}

func (p *ProgressReporter) OnProcessingStart(totalFiles int) {
	p.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Distilling"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (p *ProgressReporter) OnFileProcessed(relPath string, failed bool) {
	if failed {
		p.failed++
	}
	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *ProgressReporter) OnComplete(result *distiller.Result) {
	if p.bar != nil {
		p.bar.Finish()
	}
	fmt.Fprintf(os.Stderr, "✓ Distilled %d files in %.1fs (%d%% token reduction)\n",
		result.Structure.FileCount,
		time.Since(p.startTime).Seconds(),
		result.Metrics.CompressionRatio)
	if p.failed > 0 {
		fmt.Fprintf(os.Stderr, "  %d files degraded after extraction failures\n", p.failed)
	}
}
