package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for Python Module:
// - Classes carry their methods as members
// - Underscore-prefixed names are private; dunder names stay public
// - __init__ is a constructor member
// - Docstrings attach to functions and classes
// - Signatures include parameters and return annotations, not bodies
// - Module-level assignments become variables
// - Both import forms record the module

func processPy(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	mod := NewPython()
	require.NoError(t, mod.Init())
	result, err := mod.Process(context.Background(), []byte(source), "test.py", distiller.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestPython_ClassWithMethods(t *testing.T) {
	t.Parallel()

	result := processPy(t, `class UserService:
    """Manages users."""

    def __init__(self, db):
        self.db = db

    def create_user(self, name: str) -> dict:
        """Create a user."""
        return {"name": name}

    def _find_by_id(self, user_id):
        pass
`)

	svc := findExport(t, result, "UserService")
	assert.Equal(t, distiller.KindClass, svc.Kind)
	assert.Equal(t, "Manages users.", svc.Doc)
	require.Len(t, svc.Members, 3)

	byName := map[string]distiller.Member{}
	for _, m := range svc.Members {
		byName[m.Name] = m
	}

	init := byName["__init__"]
	assert.Equal(t, distiller.MemberConstructor, init.Kind)
	assert.Equal(t, distiller.VisibilityPublic, init.Visibility, "dunder names are public protocol")

	create := byName["create_user"]
	assert.Equal(t, distiller.VisibilityPublic, create.Visibility)
	assert.Contains(t, create.Signature, "def create_user")
	assert.Contains(t, create.Signature, "-> dict")
	assert.Equal(t, "Create a user.", create.Doc)

	private := byName["_find_by_id"]
	assert.Equal(t, distiller.VisibilityPrivate, private.Visibility)
}

func TestPython_ModuleFunctions(t *testing.T) {
	t.Parallel()

	result := processPy(t, `def public_helper(x: int) -> int:
    return x * 2

def _private_helper():
    pass
`)

	pub := findExport(t, result, "public_helper")
	assert.True(t, pub.Exported)
	assert.Equal(t, distiller.VisibilityPublic, pub.Visibility)
	assert.NotContains(t, pub.Signature, "return")

	priv := findExport(t, result, "_private_helper")
	assert.False(t, priv.Exported)
	assert.Equal(t, distiller.VisibilityPrivate, priv.Visibility)
}

func TestPython_ModuleConstants(t *testing.T) {
	t.Parallel()

	result := processPy(t, `MAX_RETRIES = 3
_internal_cache = {}
`)

	maxRetries := findExport(t, result, "MAX_RETRIES")
	assert.Equal(t, distiller.KindVariable, maxRetries.Kind)
	assert.Equal(t, distiller.VisibilityPublic, maxRetries.Visibility)

	cache := findExport(t, result, "_internal_cache")
	assert.Equal(t, distiller.VisibilityPrivate, cache.Visibility)
}

func TestPython_Imports(t *testing.T) {
	t.Parallel()

	result := processPy(t, `import os
from collections import OrderedDict
`)

	require.Len(t, result.Imports, 2)
	assert.Equal(t, "os", result.Imports[0].Module)
	assert.Equal(t, "collections", result.Imports[1].Module)
	assert.Contains(t, result.Imports[1].Specifiers, "OrderedDict")
}

func TestPython_DecoratedClass(t *testing.T) {
	t.Parallel()

	result := processPy(t, `@dataclass
class Point:
    def distance(self):
        pass
`)

	point := findExport(t, result, "Point")
	assert.Equal(t, distiller.KindClass, point.Kind)
	require.Len(t, point.Members, 1)
	assert.Equal(t, "distance", point.Members[0].Name)
}
