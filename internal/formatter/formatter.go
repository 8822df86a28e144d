// Package formatter renders a distillation result as text, markdown, or JSON.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/apisurface/distill/internal/distiller"
)

// Formatter renders one result to a writer.
type Formatter interface {
	Format(w io.Writer, result *distiller.Result) error
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch format {
	case "text", "":
		return &textFormatter{}, nil
	case "markdown", "md":
		return &markdownFormatter{}, nil
	case "json":
		return &jsonFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format(w io.Writer, result *distiller.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

type textFormatter struct{}

func (f *textFormatter) Format(w io.Writer, result *distiller.Result) error {
	for _, file := range result.Files {
		fmt.Fprintf(w, "%s (%s)\n", file.Path, file.Language)
		if file.Failed {
			fmt.Fprintln(w, "  [extraction failed]")
		}
		for _, imp := range file.Imports {
			if len(imp.Specifiers) > 0 {
				fmt.Fprintf(w, "  import %s from %s\n", strings.Join(imp.Specifiers, ", "), imp.Module)
			} else {
				fmt.Fprintf(w, "  import %s\n", imp.Module)
			}
		}
		for _, sym := range file.Exports {
			fmt.Fprintf(w, "  %s\n", sym.Signature)
			for _, m := range sym.Members {
				fmt.Fprintf(w, "    %s\n", m.Signature)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Files: %d", result.Structure.FileCount)
	if langs := languageSummary(result.Structure.Languages); langs != "" {
		fmt.Fprintf(w, " (%s)", langs)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Tokens: %d -> %d (%d%% reduction)\n",
		result.Metrics.OriginalTokens,
		result.Metrics.DistilledTokens,
		result.Metrics.CompressionRatio)
	fmt.Fprintf(w, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	return nil
}

type markdownFormatter struct{}

func (f *markdownFormatter) Format(w io.Writer, result *distiller.Result) error {
	fmt.Fprintf(w, "# API surface of %s\n\n", result.BasePath)
	fmt.Fprintf(w, "%d files, %d%% token reduction\n\n",
		result.Structure.FileCount, result.Metrics.CompressionRatio)

	for _, file := range result.Files {
		fmt.Fprintf(w, "## %s\n\n", file.Path)
		if file.Failed {
			fmt.Fprintln(w, "_extraction failed_")
			fmt.Fprintln(w)
			continue
		}

		fmt.Fprintf(w, "```%s\n", markdownFence(file.Language))
		for _, imp := range file.Imports {
			fmt.Fprintf(w, "import %s\n", imp.Module)
		}
		if len(file.Imports) > 0 && len(file.Exports) > 0 {
			fmt.Fprintln(w)
		}
		for _, sym := range file.Exports {
			if sym.Doc != "" {
				for _, line := range strings.Split(sym.Doc, "\n") {
					fmt.Fprintf(w, "// %s\n", line)
				}
			}
			fmt.Fprintln(w, sym.Signature)
			for _, m := range sym.Members {
				fmt.Fprintf(w, "  %s\n", m.Signature)
			}
		}
		fmt.Fprintln(w, "```")
		fmt.Fprintln(w)
	}
	return nil
}

// languageSummary renders the per-language counts in a stable order.
func languageSummary(languages map[string]int) string {
	if len(languages) == 0 {
		return ""
	}
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, languages[name]))
	}
	return strings.Join(parts, ", ")
}

func markdownFence(language string) string {
	switch language {
	case "typescript", "javascript", "python", "java", "rust", "c", "ruby", "php", "go":
		return language
	}
	return ""
}
