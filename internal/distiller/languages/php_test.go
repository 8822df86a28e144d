package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for PHP Module:
// - Classes carry properties, constants, constructor, and methods
// - Explicit visibility modifiers are honored; default is public
// - Class constants are static members
// - Interfaces and plain functions extract
// - namespace use clauses record imports

func processPHP(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	mod := NewPHP()
	require.NoError(t, mod.Init())
	result, err := mod.Process(context.Background(), []byte(source), "test.php", distiller.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestPHP_ClassMembers(t *testing.T) {
	t.Parallel()

	result := processPHP(t, `<?php

namespace App;

use App\Models\User;

class Cart
{
    private array $items = [];
    const LIMIT = 10;

    public function __construct()
    {
        $this->items = [];
    }

    public function add(string $sku): void
    {
    }

    protected function total(): int
    {
        return 0;
    }
}
`)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, `App\Models\User`, result.Imports[0].Module)

	cart := findExport(t, result, "Cart")
	assert.Equal(t, distiller.KindClass, cart.Kind)

	byName := map[string]distiller.Member{}
	for _, m := range cart.Members {
		byName[m.Name] = m
	}

	items := byName["items"]
	assert.Equal(t, distiller.MemberProperty, items.Kind)
	assert.Equal(t, distiller.VisibilityPrivate, items.Visibility)

	limit := byName["LIMIT"]
	assert.True(t, limit.Static)
	assert.Equal(t, distiller.VisibilityPublic, limit.Visibility, "constants default to public")

	assert.Equal(t, distiller.MemberConstructor, byName["__construct"].Kind)

	add := byName["add"]
	assert.Equal(t, distiller.MemberMethod, add.Kind)
	assert.Contains(t, add.Signature, ": void")
	assert.NotContains(t, add.Signature, "{", "bodies are discarded")

	assert.Equal(t, distiller.VisibilityProtected, byName["total"].Visibility)
}

func TestPHP_InterfaceAndFunction(t *testing.T) {
	t.Parallel()

	result := processPHP(t, `<?php

interface Describable
{
    public function describe(): string;
}

function format_price(int $cents): string
{
    return '';
}
`)

	desc := findExport(t, result, "Describable")
	assert.Equal(t, distiller.KindInterface, desc.Kind)
	require.Len(t, desc.Members, 1)
	assert.Equal(t, "describe", desc.Members[0].Name)
	assert.Equal(t, distiller.VisibilityPublic, desc.Members[0].Visibility)

	fn := findExport(t, result, "format_price")
	assert.Equal(t, distiller.KindFunction, fn.Kind)
	assert.True(t, fn.Exported)
	assert.NotContains(t, fn.Signature, "return")
}
