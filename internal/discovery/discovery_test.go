package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Discovery Engine:
// - Missing root fails fast
// - Invalid glob patterns fail fast
// - Single-file target returns exactly that file
// - Directory walk skips dependency and VCS directories
// - Test files are excluded by default and kept with IncludeTests
// - User include patterns restrict the result set
// - User exclude patterns remove matches
// - Gitignore rules apply when enabled and are ignored when disabled
// - Explicit user includes override the test-file exclusion
// - Results sort when requested

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestDiscovery_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), Options{IncludePatterns: []string{"[bad"}})
	assert.Error(t, err)
}

func TestDiscovery_SingleFileTarget(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"src/main.ts": "export {}"})
	e, err := New(root, Options{})
	require.NoError(t, err)

	files, err := e.Discover(filepath.Join(root, "src", "main.ts"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.ts"}, files)
}

func TestDiscovery_MissingTarget(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.ts": ""})
	e, err := New(root, Options{})
	require.NoError(t, err)

	_, err = e.Discover("missing-dir")
	assert.Error(t, err)
}

func TestDiscovery_SkipsDependencyDirs(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"src/app.ts":                 "",
		"node_modules/pkg/index.js":  "",
		".git/objects/abc":           "",
		"dist/bundle.js":             "",
		"vendor/lib/lib.go":          "",
		"target/debug/build.rs":      "",
		"__pycache__/mod.cpython.py": "",
	})
	e, err := New(root, Options{Sort: true})
	require.NoError(t, err)

	files, err := e.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts"}, files)
}

func TestDiscovery_TestFilesExcludedByDefault(t *testing.T) {
	t.Parallel()

	tree := map[string]string{
		"pkg/store.go":      "",
		"pkg/store_test.go": "",
		"src/app.ts":        "",
		"src/app.test.ts":   "",
		"lib/test_util.py":  "",
	}

	root := makeTree(t, tree)
	e, err := New(root, Options{Sort: true})
	require.NoError(t, err)
	files, err := e.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/store.go", "src/app.ts"}, files)

	withTests, err := New(root, Options{IncludeTests: true, Sort: true})
	require.NoError(t, err)
	files, err = withTests.Discover(root)
	require.NoError(t, err)
	assert.Len(t, files, len(tree))
}

func TestDiscovery_IncludePatterns(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"src/app.ts": "",
		"src/app.py": "",
		"main.ts":    "",
	})
	e, err := New(root, Options{IncludePatterns: []string{"**/*.ts"}, Sort: true})
	require.NoError(t, err)

	files, err := e.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.ts", "src/app.ts"}, files, "**/ patterns also match root-level files")
}

func TestDiscovery_ExcludePatterns(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"src/app.ts":       "",
		"src/generated.ts": "",
	})
	e, err := New(root, Options{ExcludePatterns: []string{"**/generated.ts"}, Sort: true})
	require.NoError(t, err)

	files, err := e.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts"}, files)
}

func TestDiscovery_UserIncludeOverridesTestExclusion(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"pkg/store_test.go": "",
		"pkg/store.go":      "",
	})
	e, err := New(root, Options{IncludePatterns: []string{"**/*_test.go"}, Sort: true})
	require.NoError(t, err)

	files, err := e.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/store_test.go"}, files, "explicit include keeps a test file")
}

func TestDiscovery_Gitignore(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		".gitignore":    "generated/\nsecret.ts\n",
		"app.ts":        "",
		"secret.ts":     "",
		"generated/g.ts": "",
	})

	e, err := New(root, Options{FollowGitignore: true, Sort: true})
	require.NoError(t, err)
	files, err := e.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.ts"}, files)

	off, err := New(root, Options{FollowGitignore: false, Sort: true})
	require.NoError(t, err)
	files, err = off.Discover(root)
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{"app.ts", "generated/g.ts", "secret.ts"}, files)
}

func TestDiscovery_DiscoverList(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"a.ts": ""})
	e, err := New(root, Options{Sort: true})
	require.NoError(t, err)

	selected := e.DiscoverList([]string{"b.ts", "a.ts", "app.test.ts", "go.sum"})
	assert.Equal(t, []string{"a.ts", "b.ts"}, selected, "predicate filters the explicit list without touching disk")
}
