package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/apisurface/distill/internal/config"
	"github.com/apisurface/distill/internal/distiller"
	"github.com/apisurface/distill/internal/distiller/languages"
	"github.com/apisurface/distill/internal/formatter"
)

var (
	runFormat         string
	runOutput         string
	runWorkers        int
	runIncludePrivate bool
	runIncludeTests   bool
	runNoGitignore    bool
	runQuiet          bool
)

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Distill a directory or file to its API surface",
	Long: `Run scans the target path, extracts the API surface of every supported
source file, and writes the distilled result to stdout or a file.

Configuration is read from .distill/config.yml under the target root, then
overridden by DISTILL_* environment variables and command-line flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		return runDistill(cmd, target)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "output format: text, markdown, or json")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write output to a file instead of stdout")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "worker pool size (1 = sequential)")
	runCmd.Flags().BoolVar(&runIncludePrivate, "private", false, "include private, protected, and internal symbols")
	runCmd.Flags().BoolVar(&runIncludeTests, "tests", false, "include test files")
	runCmd.Flags().BoolVar(&runNoGitignore, "no-gitignore", false, "ignore .gitignore rules during discovery")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress progress output")

	rootCmd.AddCommand(runCmd)
}

func runDistill(cmd *cobra.Command, target string) error {
	root, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving target path: %w", err)
	}
	configRoot := root
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		configRoot = filepath.Dir(root)
	}

	cfg, err := config.LoadConfigFromDir(configRoot)
	if err != nil {
		return err
	}
	opts := cfg.Options()
	applyRunFlags(cmd, &opts)

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format = runFormat
	}
	outPath := cfg.Output.Path
	if cmd.Flags().Changed("output") {
		outPath = runOutput
	}

	fmtr, err := formatter.New(format)
	if err != nil {
		return err
	}

	logger := newLogger()
	orchestrator := distiller.NewOrchestrator(languages.NewRegistry(), logger)

	var progress distiller.ProgressReporter
	if !runQuiet {
		progress = NewProgressReporter()
	}

	result, err := orchestrator.DiscoverAndRun(cmd.Context(), configRoot, root, opts, progress)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return fmtr.Format(out, result)
}

// applyRunFlags layers explicit flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, opts *distiller.Options) {
	if cmd.Flags().Changed("workers") && runWorkers >= 1 {
		opts.Workers = runWorkers
	}
	if runIncludePrivate {
		opts.IncludePrivate = true
		opts.IncludeProtected = true
		opts.IncludeInternal = true
	}
	if runIncludeTests {
		opts.IncludeTests = true
	}
	if runNoGitignore {
		opts.FollowGitignore = false
	}
}
