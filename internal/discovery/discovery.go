// Package discovery resolves an input path or explicit file list into the
// concrete set of files a distillation run will process. Exclusions are
// data-driven: a baked-in deny-list, optional .gitignore rules, and
// user-supplied include/exclude globs combine into one predicate.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/gobwas/glob"
)

// Options configures a discovery pass.
type Options struct {
	IncludePatterns []string // user include globs; empty means everything
	ExcludePatterns []string // user exclude globs
	IncludeTests    bool     // keep files matching test conventions
	FollowGitignore bool     // honor .gitignore at the scan root
	Sort            bool     // sort returned paths; otherwise enumeration order
}

// compiledPattern keeps the pattern string next to its compiled glob so the
// engine can reason about what a pattern referenced.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Engine discovers files under a root directory.
type Engine struct {
	root        string
	include     []compiledPattern
	exclude     []compiledPattern
	testExclude []compiledPattern
	ignore      gitignore.GitIgnore
	sort        bool
}

// New compiles the engine for one root. Pattern compilation errors and a
// missing root fail fast; nothing is walked yet.
func New(root string, opts Options) (*Engine, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discovery root %s: %w", root, err)
	}

	e := &Engine{root: root, sort: opts.Sort}

	e.include, err = compilePatterns(opts.IncludePatterns)
	if err != nil {
		return nil, err
	}

	excludes := append([]string{}, DefaultExcludePatterns...)
	excludes = append(excludes, opts.ExcludePatterns...)
	e.exclude, err = compilePatterns(excludes)
	if err != nil {
		return nil, err
	}

	if !opts.IncludeTests {
		e.testExclude, err = compilePatterns(DefaultTestExcludePatterns)
		if err != nil {
			return nil, err
		}
	}

	if opts.FollowGitignore && info.IsDir() {
		e.ignore = loadIgnoreFile(filepath.Join(root, ".gitignore"), root)
	}

	return e, nil
}

// Discover resolves the target into relative file paths. A single-file
// target returns that file alone; a directory target is walked with the
// exclusion rules applied.
func (e *Engine) Discover(target string) ([]string, error) {
	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.root, target)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("discovery target %s: %w", target, err)
	}

	if !info.IsDir() {
		rel, err := filepath.Rel(e.root, abs)
		if err != nil {
			return nil, err
		}
		return []string{filepath.ToSlash(rel)}, nil
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != abs && e.shouldSkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(e.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if e.Selected(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.sort {
		sort.Strings(files)
	}
	return files, nil
}

// DiscoverList filters an explicit file list through the same predicate, for
// callers that pre-selected files themselves.
func (e *Engine) DiscoverList(paths []string) []string {
	selected := make([]string, 0, len(paths))
	for _, p := range paths {
		rel := filepath.ToSlash(p)
		if e.Selected(rel) {
			selected = append(selected, rel)
		}
	}
	if e.sort {
		sort.Strings(selected)
	}
	return selected
}

// Selected reports whether a root-relative path survives all rules.
func (e *Engine) Selected(rel string) bool {
	if len(e.include) > 0 && !matchesAny(rel, e.include) {
		return false
	}
	if matchesAny(rel, e.exclude) {
		return false
	}
	// Test-file exclusions yield to explicit user includes: a path the user
	// asked for by pattern is kept even if it looks like a test.
	if len(e.testExclude) > 0 && matchesAny(rel, e.testExclude) {
		if len(e.include) == 0 || !matchesAny(rel, e.include) {
			return false
		}
	}
	if e.ignore != nil {
		if match := e.ignore.Relative(rel, false); match != nil && match.Ignore() {
			return false
		}
	}
	return true
}

func (e *Engine) shouldSkipDir(path string) bool {
	name := filepath.Base(path)
	if _, ok := skipDirNames[name]; ok {
		return true
	}
	if strings.HasPrefix(name, ".") && name != "." {
		// Hidden directories are skipped unless an include pattern reaches
		// into them.
		rel, err := filepath.Rel(e.root, path)
		if err != nil {
			return true
		}
		rel = filepath.ToSlash(rel)
		for _, cp := range e.include {
			if strings.Contains(cp.pattern, rel) {
				return false
			}
		}
		return true
	}
	if e.ignore != nil {
		rel, err := filepath.Rel(e.root, path)
		if err == nil {
			if match := e.ignore.Relative(filepath.ToSlash(rel), true); match != nil && match.Ignore() {
				return true
			}
		}
	}
	return false
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// matchesAny checks a path against patterns, also trying the **/-stripped
// form for root-level files so "**/*.ts" matches "main.ts".
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if simplified, ok := strings.CutPrefix(cp.pattern, "**/"); ok {
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file, returning nil when absent.
func loadIgnoreFile(path, base string) gitignore.GitIgnore {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, base, nil)
}
