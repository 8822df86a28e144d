package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for C Module:
// - Includes record trimmed header paths
// - static maps to internal linkage, everything else public
// - Function definitions drop bodies; prototypes drop the semicolon
// - Structs carry field members; enums and typedefs extract

func processC(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	mod := NewC()
	require.NoError(t, mod.Init())
	result, err := mod.Process(context.Background(), []byte(source), "test.c", distiller.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestC_FunctionsAndLinkage(t *testing.T) {
	t.Parallel()

	result := processC(t, `#include <stdio.h>
#include "config.h"

static int counter = 0;

static void reset(void) {
    counter = 0;
}

int add(int a, int b) {
    return a + b;
}

int multiply(int a, int b);
`)

	require.Len(t, result.Imports, 2)
	assert.Equal(t, "stdio.h", result.Imports[0].Module)
	assert.Equal(t, "config.h", result.Imports[1].Module)

	counter := findExport(t, result, "counter")
	assert.Equal(t, distiller.KindVariable, counter.Kind)
	assert.Equal(t, distiller.VisibilityInternal, counter.Visibility)
	assert.False(t, counter.Exported)

	assert.Equal(t, distiller.VisibilityInternal, findExport(t, result, "reset").Visibility)

	add := findExport(t, result, "add")
	assert.Equal(t, distiller.KindFunction, add.Kind)
	assert.Equal(t, distiller.VisibilityPublic, add.Visibility)
	assert.NotContains(t, add.Signature, "return", "bodies are discarded")

	multiply := findExport(t, result, "multiply")
	assert.Equal(t, distiller.KindFunction, multiply.Kind)
	assert.NotContains(t, multiply.Signature, ";")
}

func TestC_Aggregates(t *testing.T) {
	t.Parallel()

	result := processC(t, `struct point {
    int x;
    int y;
};

enum color { RED, GREEN };

typedef unsigned long usize;
`)

	point := findExport(t, result, "point")
	assert.Equal(t, distiller.KindClass, point.Kind)
	require.Len(t, point.Members, 2)
	assert.Equal(t, "x", point.Members[0].Name)
	assert.Equal(t, "int x", point.Members[0].Signature)
	assert.Equal(t, "y", point.Members[1].Name)

	assert.Equal(t, distiller.KindEnum, findExport(t, result, "color").Kind)
	assert.Equal(t, distiller.KindTypeAlias, findExport(t, result, "usize").Kind)
}
