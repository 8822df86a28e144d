package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for Line Scanner:
// - Brace-mode declarations emit name, kind, and a body-free signature
// - Multi-line headers accumulate until parens balance
// - Nested declarations inside a body are ignored
// - Indent mode (Python shape) emits at the trailing colon and skips the body
// - Dedent closes an indented body and rescans the closing line
// - End mode (Ruby shape) emits on the declaration line and balances
//   block keywords against end to skip the body
// - Export and private modifiers drive visibility
// - Underscore prefix marks private where configured
// - Imports are recognized by prefix
// - An unterminated header still emits at EOF
// - Source with no declarations produces a diagnostic

func scanTS(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	s := newLineScanner(typeScriptScanConfig())
	result, err := s.Extract(context.Background(), []byte(source), "test.ts", distiller.DefaultOptions())
	require.NoError(t, err)
	return result
}

func scanPy(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	s := newLineScanner(pythonScanConfig())
	result, err := s.Extract(context.Background(), []byte(source), "test.py", distiller.DefaultOptions())
	require.NoError(t, err)
	return result
}

func TestLineScan_BraceMode(t *testing.T) {
	t.Parallel()

	result := scanTS(t, `export class Foo {
  publicMethod() {}
  private bar() {}
}
function helper() {
  return 1;
}`)

	require.Len(t, result.Exports, 2, "nested members are not top-level declarations")

	foo := result.Exports[0]
	assert.Equal(t, "Foo", foo.Name)
	assert.Equal(t, distiller.KindClass, foo.Kind)
	assert.True(t, foo.Exported)
	assert.NotContains(t, foo.Signature, "{")

	helper := result.Exports[1]
	assert.Equal(t, "helper", helper.Name)
	assert.Equal(t, distiller.KindFunction, helper.Kind)
}

func TestLineScan_MultiLineHeader(t *testing.T) {
	t.Parallel()

	result := scanTS(t, `export function configure(
  name: string,
  options: Options,
): Client {
  return new Client();
}`)

	require.Len(t, result.Exports, 1)
	fn := result.Exports[0]
	assert.Equal(t, "configure", fn.Name)
	assert.Contains(t, fn.Signature, "options: Options")
	assert.NotContains(t, fn.Signature, "return")
}

func TestLineScan_IndentMode(t *testing.T) {
	t.Parallel()

	result := scanPy(t, `class Service:
    def method(self):
        return 1

def top_level(x):
    pass

def _hidden():
    pass
`)

	require.Len(t, result.Exports, 3)
	assert.Equal(t, "Service", result.Exports[0].Name)
	assert.Equal(t, distiller.KindClass, result.Exports[0].Kind)

	top := result.Exports[1]
	assert.Equal(t, "top_level", top.Name)
	assert.Equal(t, distiller.VisibilityPublic, top.Visibility)

	hidden := result.Exports[2]
	assert.Equal(t, "_hidden", hidden.Name)
	assert.Equal(t, distiller.VisibilityPrivate, hidden.Visibility)
}

func scanRuby(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	s := newLineScanner(rubyScanConfig())
	result, err := s.Extract(context.Background(), []byte(source), "test.rb", distiller.DefaultOptions())
	require.NoError(t, err)
	return result
}

func TestLineScan_EndModeBodyConstructs(t *testing.T) {
	t.Parallel()

	result := scanRuby(t, `module Pricing
  def self.rate(kind)
    return 0.0 if kind == :free
    [1, 2].each do |n|
      puts n
    end
    case kind
    when :flat then 0.1
    else 0.2
    end
  end
end

def standalone(a, b)
  a + b
end
`)

	require.Len(t, result.Exports, 2, "modifier conditionals and do blocks must not unbalance the body")
	pricing := result.Exports[0]
	assert.Equal(t, "Pricing", pricing.Name)
	assert.Equal(t, distiller.KindNamespace, pricing.Kind)
	assert.Equal(t, "module Pricing", pricing.Signature)

	standalone := result.Exports[1]
	assert.Equal(t, "standalone", standalone.Name)
	assert.Equal(t, "def standalone(a, b)", standalone.Signature)
}

func TestLineScan_Imports(t *testing.T) {
	t.Parallel()

	result := scanPy(t, `import os
from pathlib import Path
`)
	require.Len(t, result.Imports, 2)
	assert.Equal(t, "os", result.Imports[0].Module)
	assert.Equal(t, "pathlib", result.Imports[1].Module)

	tsResult := scanTS(t, `import { thing } from './thing';
`)
	require.Len(t, tsResult.Imports, 1)
	assert.Equal(t, "./thing", tsResult.Imports[0].Module)
}

func TestLineScan_UnterminatedHeaderEmitsAtEOF(t *testing.T) {
	t.Parallel()

	result := scanTS(t, `export function dangling(a: string,`)

	require.Len(t, result.Exports, 1)
	assert.Equal(t, "dangling", result.Exports[0].Name)
}

func TestLineScan_NoDeclarationsDiagnostic(t *testing.T) {
	t.Parallel()

	result := scanTS(t, `// just a comment
/* and another */`)

	assert.Empty(t, result.Exports)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestLineScan_VariableAssignment(t *testing.T) {
	t.Parallel()

	result := scanTS(t, `export const MAX = 10;
`)

	require.Len(t, result.Exports, 1)
	assert.Equal(t, "MAX", result.Exports[0].Name)
	assert.Equal(t, distiller.KindVariable, result.Exports[0].Kind)
	assert.True(t, result.Exports[0].Exported)
}
