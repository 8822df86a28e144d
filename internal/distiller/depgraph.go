package distiller

import (
	"path"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// buildDependencyMap derives the file → {imports, exports} map from the
// per-file API lists. Imports that resolve to another scanned file are
// rewritten to that file's relative path via a directed file graph; external
// modules keep their raw import string.
func buildDependencyMap(files []FileAPI) map[string]FileDeps {
	if len(files) == 0 {
		return nil
	}

	g := graph.New(graph.StringHash, graph.Directed())

	// Index scanned files by their path without extension so relative
	// imports like "./util" can resolve to "src/util.ts".
	byStem := make(map[string]string, len(files))
	for _, f := range files {
		_ = g.AddVertex(f.Path)
		stem := strings.TrimSuffix(f.Path, path.Ext(f.Path))
		byStem[stem] = f.Path
		byStem[f.Path] = f.Path
	}

	deps := make(map[string]FileDeps, len(files))
	for _, f := range files {
		entry := FileDeps{Imports: []string{}, Exports: []string{}}

		for _, imp := range f.Imports {
			if target, ok := resolveImport(f.Path, imp.Module, byStem); ok {
				_ = g.AddEdge(f.Path, target)
				entry.Imports = append(entry.Imports, target)
			} else {
				entry.Imports = append(entry.Imports, imp.Module)
			}
		}
		for _, sym := range f.Exports {
			entry.Exports = append(entry.Exports, sym.Name)
		}

		sort.Strings(entry.Imports)
		deps[f.Path] = entry
	}

	// The graph deduplicates parallel edges to the same file; fold that back
	// into the import lists.
	if adjacency, err := g.AdjacencyMap(); err == nil {
		for from, targets := range adjacency {
			if len(targets) == 0 {
				continue
			}
			entry := deps[from]
			merged := make([]string, 0, len(entry.Imports))
			seen := make(map[string]struct{}, len(entry.Imports))
			for _, imp := range entry.Imports {
				if _, dup := seen[imp]; dup {
					continue
				}
				seen[imp] = struct{}{}
				merged = append(merged, imp)
			}
			entry.Imports = merged
			deps[from] = entry
		}
	}

	return deps
}

// resolveImport maps a relative import specifier to a scanned file path.
func resolveImport(fromPath, module string, byStem map[string]string) (string, bool) {
	if !strings.HasPrefix(module, ".") {
		return "", false
	}
	base := path.Dir(fromPath)
	candidate := path.Clean(path.Join(base, module))
	if target, ok := byStem[candidate]; ok {
		return target, true
	}
	// Directory import resolving to an index file.
	for _, index := range []string{"index", "__init__"} {
		if target, ok := byStem[path.Join(candidate, index)]; ok {
			return target, true
		}
	}
	return "", false
}
