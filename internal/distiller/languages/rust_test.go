package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for Rust Module:
// - pub items are public, unmarked items are private
// - Struct fields keep their own visibility
// - impl methods fold into the struct symbol; new is a constructor
// - Methods without a self parameter are static
// - Trait method signatures become interface members
// - Doc comments (///) attach to items
// - use declarations record imports

func processRust(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	mod := NewRust()
	require.NoError(t, mod.Init())
	result, err := mod.Process(context.Background(), []byte(source), "test.rs", distiller.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestRust_StructWithImpl(t *testing.T) {
	t.Parallel()

	result := processRust(t, `use std::collections::HashMap;

/// A counter.
pub struct Counter {
    pub count: u64,
    name: String,
}

impl Counter {
    pub fn new(name: String) -> Self {
        Counter { count: 0, name }
    }

    pub fn increment(&mut self) {
        self.count += 1;
    }
}
`)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "std::collections::HashMap", result.Imports[0].Module)

	counter := findExport(t, result, "Counter")
	assert.Equal(t, distiller.KindClass, counter.Kind)
	assert.True(t, counter.Exported)
	assert.Equal(t, "A counter.", counter.Doc)

	byName := map[string]distiller.Member{}
	for _, m := range counter.Members {
		byName[m.Name] = m
	}

	assert.Equal(t, distiller.VisibilityPublic, byName["count"].Visibility)
	assert.Equal(t, distiller.VisibilityPrivate, byName["name"].Visibility)

	ctor := byName["new"]
	assert.Equal(t, distiller.MemberConstructor, ctor.Kind)
	assert.True(t, ctor.Static, "no self parameter")
	assert.NotContains(t, ctor.Signature, "{", "bodies are discarded")

	inc := byName["increment"]
	assert.Equal(t, distiller.MemberMethod, inc.Kind)
	assert.False(t, inc.Static)
}

func TestRust_TraitFunctionConst(t *testing.T) {
	t.Parallel()

	result := processRust(t, `pub trait Reset {
    fn reset(&mut self);
}

fn helper() -> u64 {
    0
}

pub const LIMIT: u64 = 10;
`)

	reset := findExport(t, result, "Reset")
	assert.Equal(t, distiller.KindInterface, reset.Kind)
	require.Len(t, reset.Members, 1)
	assert.Equal(t, "reset", reset.Members[0].Name)
	assert.False(t, reset.Members[0].Static)

	helper := findExport(t, result, "helper")
	assert.Equal(t, distiller.VisibilityPrivate, helper.Visibility)
	assert.False(t, helper.Exported)

	limit := findExport(t, result, "LIMIT")
	assert.Equal(t, distiller.KindVariable, limit.Kind)
	assert.True(t, limit.Exported)
}
