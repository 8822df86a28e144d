package distiller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Filter:
// - Default options keep public symbols and drop private ones
// - Enabling private visibility keeps strictly more symbols
// - Include patterns restrict output; exclude patterns trump includes
// - Pattern rejection wins over visibility rejection in the skip reason
// - Apply moves rejected members into skipped as "Symbol.member"
// - MaxDepth 1 strips members with the depth reason
// - Docstrings are stripped when not requested
// - Invalid glob patterns fail construction

func classFixture() ProcessResult {
	return ProcessResult{
		Exports: []ExportedSymbol{
			{
				Name:       "Foo",
				Kind:       KindClass,
				Signature:  "export class Foo",
				Visibility: VisibilityPublic,
				Doc:        "a class",
				Members: []Member{
					{Name: "publicMethod", Kind: MemberMethod, Signature: "publicMethod()", Visibility: VisibilityPublic},
					{Name: "bar", Kind: MemberProperty, Signature: "private bar", Visibility: VisibilityPrivate},
				},
			},
			{Name: "helper", Kind: KindFunction, Signature: "function helper()", Visibility: VisibilityPrivate},
		},
	}
}

func TestFilter_DefaultDropsPrivate(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(DefaultOptions())
	require.NoError(t, err)

	result := classFixture()
	f.Apply(&result)

	require.Len(t, result.Exports, 1)
	foo := result.Exports[0]
	assert.Equal(t, "Foo", foo.Name)
	require.Len(t, foo.Members, 1)
	assert.Equal(t, "publicMethod", foo.Members[0].Name)

	names := skippedNames(result.Skipped)
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "Foo.bar")
	for _, item := range result.Skipped {
		assert.Equal(t, SkipPrivate, item.Reason)
	}
}

func TestFilter_IncludePrivateKeepsMore(t *testing.T) {
	t.Parallel()

	publicOnly := countKept(t, DefaultOptions())

	opts := DefaultOptions()
	opts.IncludePrivate = true
	withPrivate := countKept(t, opts)

	assert.Greater(t, withPrivate, publicOnly, "enabling private visibility must keep strictly more symbols here")
}

func countKept(t *testing.T, opts Options) int {
	t.Helper()
	f, err := NewFilter(opts)
	require.NoError(t, err)
	result := classFixture()
	f.Apply(&result)

	n := len(result.Exports)
	for _, sym := range result.Exports {
		n += len(sym.Members)
	}
	return n
}

func TestFilter_PatternBeforeVisibility(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.NameExclude = []string{"secret*"}
	f, err := NewFilter(opts)
	require.NoError(t, err)

	// Private AND pattern-excluded: pattern is checked first.
	ok, reason := f.Include("secretThing", VisibilityPrivate)
	assert.False(t, ok)
	assert.Equal(t, SkipPattern, reason)

	ok, reason = f.Include("other", VisibilityPrivate)
	assert.False(t, ok)
	assert.Equal(t, SkipPrivate, reason)
}

func TestFilter_IncludePatternsRestrict(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.NameInclude = []string{"Foo*"}
	f, err := NewFilter(opts)
	require.NoError(t, err)

	result := ProcessResult{Exports: []ExportedSymbol{
		{Name: "FooService", Visibility: VisibilityPublic},
		{Name: "BarService", Visibility: VisibilityPublic},
	}}
	f.Apply(&result)

	require.Len(t, result.Exports, 1)
	assert.Equal(t, "FooService", result.Exports[0].Name)
	assert.Equal(t, []SkippedItem{{Name: "BarService", Reason: SkipPattern}}, result.Skipped)
}

func TestFilter_MaxDepthStripsMembers(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.MaxDepth = 1
	f, err := NewFilter(opts)
	require.NoError(t, err)

	result := classFixture()
	f.Apply(&result)

	require.Len(t, result.Exports, 1)
	assert.Empty(t, result.Exports[0].Members)

	depthSkips := 0
	for _, item := range result.Skipped {
		if item.Reason == SkipDepth {
			depthSkips++
		}
	}
	assert.Equal(t, 2, depthSkips, "both members skipped for depth")
}

func TestFilter_DocstringsStripped(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.IncludeDocstrings = false
	f, err := NewFilter(opts)
	require.NoError(t, err)

	result := classFixture()
	f.Apply(&result)

	require.NotEmpty(t, result.Exports)
	assert.Empty(t, result.Exports[0].Doc)
}

func TestFilter_InvalidPattern(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.NameInclude = []string{"[unclosed"}
	_, err := NewFilter(opts)
	assert.Error(t, err)
}

func skippedNames(items []SkippedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
