package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/apisurface/distill/internal/config"
	"github.com/apisurface/distill/internal/distiller"
	"github.com/apisurface/distill/internal/distiller/languages"
	"github.com/apisurface/distill/internal/formatter"
	"github.com/apisurface/distill/internal/watch"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-distill whenever source files change",
	Long: `Watch distills the target path, then observes the tree and re-runs the
distillation after each batch of changes. Results are written to the output
file on every run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		root, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("resolving watch path: %w", err)
		}
		if watchOutput == "" {
			return fmt.Errorf("watch requires --output")
		}

		cfg, err := config.LoadConfigFromDir(root)
		if err != nil {
			return err
		}
		opts := cfg.Options()

		fmtr, err := formatter.New(cfg.Output.Format)
		if err != nil {
			return err
		}

		logger := newLogger()
		registry := languages.NewRegistry()
		orchestrator := distiller.NewOrchestrator(registry, logger)

		rerun := func() {
			result, err := orchestrator.DiscoverAndRun(cmd.Context(), root, root, opts, nil)
			if err != nil {
				logger.Error("distillation failed", "error", err)
				return
			}
			f, err := os.Create(watchOutput)
			if err != nil {
				logger.Error("writing output failed", "error", err)
				return
			}
			defer f.Close()
			if err := fmtr.Format(f, result); err != nil {
				logger.Error("formatting failed", "error", err)
				return
			}
			fmt.Fprintf(os.Stderr, "✓ %d files, %d%% reduction -> %s\n",
				result.Structure.FileCount, result.Metrics.CompressionRatio, watchOutput)
		}

		rerun()

		watcher, err := watch.New(root, registry.Extensions(), logger)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Stop()

		if err := watcher.Start(cmd.Context(), func(files []string) {
			fmt.Fprintf(os.Stderr, "%d files changed, re-distilling...\n", len(files))
			rerun()
		}); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Watching %s (ctrl-c to stop)\n", root)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigCh:
			return nil
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "file to write results to after each run")

	rootCmd.AddCommand(watchCmd)
}
