package distiller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Dependency Map:
// - Relative imports resolve to scanned file paths
// - Directory imports resolve through index files
// - External modules keep their raw specifier
// - Duplicate imports of the same file are deduplicated
// - Exports list every retained symbol name

func TestBuildDependencyMap_ResolvesRelativeImports(t *testing.T) {
	t.Parallel()

	files := []FileAPI{
		{
			Path: "src/app.ts",
			Imports: []ImportRecord{
				{Module: "./util"},
				{Module: "react"},
			},
			Exports: []ExportedSymbol{{Name: "App"}},
		},
		{
			Path:    "src/util.ts",
			Exports: []ExportedSymbol{{Name: "helper"}, {Name: "format"}},
		},
	}

	deps := buildDependencyMap(files)
	require.Contains(t, deps, "src/app.ts")

	app := deps["src/app.ts"]
	assert.Contains(t, app.Imports, "src/util.ts", "relative import resolves to the scanned file")
	assert.Contains(t, app.Imports, "react", "external module keeps its specifier")
	assert.Equal(t, []string{"App"}, app.Exports)

	util := deps["src/util.ts"]
	assert.Empty(t, util.Imports)
	assert.ElementsMatch(t, []string{"helper", "format"}, util.Exports)
}

func TestBuildDependencyMap_IndexResolution(t *testing.T) {
	t.Parallel()

	files := []FileAPI{
		{Path: "src/app.ts", Imports: []ImportRecord{{Module: "./lib"}}},
		{Path: "src/lib/index.ts", Exports: []ExportedSymbol{{Name: "lib"}}},
	}

	deps := buildDependencyMap(files)
	assert.Contains(t, deps["src/app.ts"].Imports, "src/lib/index.ts")
}

func TestBuildDependencyMap_Deduplicates(t *testing.T) {
	t.Parallel()

	files := []FileAPI{
		{
			Path: "a.py",
			Imports: []ImportRecord{
				{Module: "./b"},
				{Module: "./b"},
			},
		},
		{Path: "b.py"},
	}

	deps := buildDependencyMap(files)
	count := 0
	for _, imp := range deps["a.py"].Imports {
		if imp == "b.py" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildDependencyMap_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, buildDependencyMap(nil))
}
