package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/apisurface/distill/internal/config"
	"github.com/apisurface/distill/internal/distiller"
	"github.com/apisurface/distill/internal/distiller/languages"
	"github.com/apisurface/distill/internal/search"
)

var (
	searchPath  string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search symbols in a distilled API surface",
	Long: `Search distills the target path, indexes every symbol, and prints the
entries matching the query by name, signature, or docstring text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(searchPath)
		if err != nil {
			return fmt.Errorf("resolving search path: %w", err)
		}

		cfg, err := config.LoadConfigFromDir(root)
		if err != nil {
			return err
		}

		logger := newLogger()
		orchestrator := distiller.NewOrchestrator(languages.NewRegistry(), logger)
		result, err := orchestrator.DiscoverAndRun(cmd.Context(), root, root, cfg.Options(), nil)
		if err != nil {
			return err
		}

		idx, err := search.NewIndex(result)
		if err != nil {
			return err
		}
		defer idx.Close()

		hits, err := idx.Query(args[0], searchLimit)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		}
		if len(hits) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, hit := range hits {
			fmt.Printf("%s:%d  %s\n    %s\n", hit.File, hit.Line, hit.Symbol, hit.Signature)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchPath, "path", "p", ".", "directory to distill and search")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(searchCmd)
}
