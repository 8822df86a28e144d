package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for Formatter:
// - Unknown format names are rejected
// - Text output lists signatures and the metrics footer
// - Markdown output fences each file
// - JSON output round-trips the result structure
// - Failed files are flagged instead of rendered

func sampleResult() *distiller.Result {
	return &distiller.Result{
		RunID:    "test-run",
		BasePath: "/proj",
		Files: []distiller.FileAPI{
			{
				Path:     "src/app.ts",
				Language: "typescript",
				Imports:  []distiller.ImportRecord{{Module: "react", Line: 1}},
				Exports: []distiller.ExportedSymbol{
					{
						Name:      "App",
						Kind:      distiller.KindClass,
						Signature: "export class App",
						Members: []distiller.Member{
							{Name: "render", Kind: distiller.MemberMethod, Signature: "render(): void"},
						},
					},
				},
			},
			{Path: "src/broken.ts", Language: "typescript", Failed: true, Exports: []distiller.ExportedSymbol{}},
		},
		Structure: distiller.Structure{
			FileCount: 2,
			Languages: map[string]int{"typescript": 2},
		},
		Metrics: distiller.Metrics{OriginalTokens: 200, DistilledTokens: 40, CompressionRatio: 80},
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := New("xml")
	assert.Error(t, err)
}

func TestTextFormat(t *testing.T) {
	t.Parallel()

	f, err := New("text")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "src/app.ts (typescript)")
	assert.Contains(t, out, "export class App")
	assert.Contains(t, out, "render(): void")
	assert.Contains(t, out, "import react")
	assert.Contains(t, out, "[extraction failed]")
	assert.Contains(t, out, "200 -> 40 (80% reduction)")
}

func TestMarkdownFormat(t *testing.T) {
	t.Parallel()

	f, err := New("markdown")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "# API surface of /proj")
	assert.Contains(t, out, "## src/app.ts")
	assert.Contains(t, out, "```typescript")
	assert.Contains(t, out, "export class App")
	assert.Contains(t, out, "_extraction failed_")
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	f, err := New("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	var decoded distiller.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test-run", decoded.RunID)
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "App", decoded.Files[0].Exports[0].Name)
	assert.True(t, decoded.Files[1].Failed)
	assert.Equal(t, 80, decoded.Metrics.CompressionRatio)
}
