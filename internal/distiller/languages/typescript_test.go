package languages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisurface/distill/internal/distiller"
)

// Test Plan for TypeScript Module:
// - Exported class with mixed-visibility members keeps both, tagged correctly
// - Exported interface members are public
// - Function signature includes parameters and return type
// - Non-exported top-level declarations are internal
// - Import statements record module and specifiers
// - Type aliases, enums, and const declarations extract
// - Bodies never appear in signatures
// - .tsx files parse with the TSX grammar, JSX included
// - Garbage input degrades to the line scanner without an error

func processTS(t *testing.T, source string) *distiller.ProcessResult {
	t.Helper()
	mod := NewTypeScript()
	require.NoError(t, mod.Init())
	result, err := mod.Process(context.Background(), []byte(source), "test.ts", distiller.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func findExport(t *testing.T, result *distiller.ProcessResult, name string) distiller.ExportedSymbol {
	t.Helper()
	for _, sym := range result.Exports {
		if sym.Name == name {
			return sym
		}
	}
	t.Fatalf("symbol %q not found in %+v", name, result.Exports)
	return distiller.ExportedSymbol{}
}

func TestTypeScript_ClassVisibility(t *testing.T) {
	t.Parallel()

	result := processTS(t, `export class Foo { publicMethod(){} private bar(){} }`)

	foo := findExport(t, result, "Foo")
	assert.Equal(t, distiller.KindClass, foo.Kind)
	assert.True(t, foo.Exported)
	assert.Equal(t, distiller.VisibilityPublic, foo.Visibility)
	require.Len(t, foo.Members, 2)

	byName := map[string]distiller.Member{}
	for _, m := range foo.Members {
		byName[m.Name] = m
	}
	assert.Equal(t, distiller.VisibilityPublic, byName["publicMethod"].Visibility)
	assert.Equal(t, distiller.VisibilityPrivate, byName["bar"].Visibility)
	assert.Equal(t, distiller.MemberMethod, byName["publicMethod"].Kind)
}

func TestTypeScript_Interface(t *testing.T) {
	t.Parallel()

	result := processTS(t, `export interface User {
  id: number;
  name?: string;
  greet(prefix: string): string;
}`)

	user := findExport(t, result, "User")
	assert.Equal(t, distiller.KindInterface, user.Kind)
	require.Len(t, user.Members, 3)
	for _, m := range user.Members {
		assert.Equal(t, distiller.VisibilityPublic, m.Visibility, "interface members are always public")
	}

	byName := map[string]distiller.Member{}
	for _, m := range user.Members {
		byName[m.Name] = m
	}
	assert.True(t, byName["name"].Optional)
	assert.Equal(t, distiller.MemberMethod, byName["greet"].Kind)
	assert.Equal(t, distiller.MemberProperty, byName["id"].Kind)
}

func TestTypeScript_FunctionSignature(t *testing.T) {
	t.Parallel()

	result := processTS(t, `export function createUser(name: string, age: number): User {
  return new User(name, age);
}`)

	fn := findExport(t, result, "createUser")
	assert.Equal(t, distiller.KindFunction, fn.Kind)
	assert.Contains(t, fn.Signature, "createUser")
	assert.Contains(t, fn.Signature, "name: string")
	assert.Contains(t, fn.Signature, ": User")
	assert.NotContains(t, fn.Signature, "return", "bodies are discarded")
	assert.NotContains(t, fn.Signature, "{")
}

func TestTypeScript_NonExportedIsInternal(t *testing.T) {
	t.Parallel()

	result := processTS(t, `function helper() {}
export function api() {}`)

	helper := findExport(t, result, "helper")
	assert.False(t, helper.Exported)
	assert.Equal(t, distiller.VisibilityInternal, helper.Visibility)

	api := findExport(t, result, "api")
	assert.True(t, api.Exported)
	assert.Equal(t, distiller.VisibilityPublic, api.Visibility)
}

func TestTypeScript_Imports(t *testing.T) {
	t.Parallel()

	result := processTS(t, `import { useState, useEffect } from 'react';
import * as path from 'path';
import axios from "axios";`)

	require.Len(t, result.Imports, 3)
	assert.Equal(t, "react", result.Imports[0].Module)
	assert.ElementsMatch(t, []string{"useState", "useEffect"}, result.Imports[0].Specifiers)
	assert.Equal(t, "path", result.Imports[1].Module)
	assert.Equal(t, "axios", result.Imports[2].Module)
}

func TestTypeScript_TypeAliasEnumConst(t *testing.T) {
	t.Parallel()

	result := processTS(t, `export type ID = string | number;
export enum Color { Red, Green }
export const MAX_RETRIES = 3;`)

	assert.Equal(t, distiller.KindTypeAlias, findExport(t, result, "ID").Kind)
	assert.Equal(t, distiller.KindEnum, findExport(t, result, "Color").Kind)
	assert.Equal(t, distiller.KindVariable, findExport(t, result, "MAX_RETRIES").Kind)
}

func TestTypeScript_TSXComponent(t *testing.T) {
	t.Parallel()

	mod := NewTypeScript()
	require.NoError(t, mod.Init())
	result, err := mod.Process(context.Background(), []byte(`import React from 'react';

export function Banner(props: BannerProps) {
  return <div className="banner">{props.title}</div>;
}

export const Footer = () => <footer>done</footer>;
`), "banner.tsx", distiller.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result)

	banner := findExport(t, result, "Banner")
	assert.Equal(t, distiller.KindFunction, banner.Kind)
	assert.True(t, banner.Exported)

	footer := findExport(t, result, "Footer")
	assert.Equal(t, distiller.KindVariable, footer.Kind)
	assert.True(t, footer.Exported)
}

func TestTypeScript_EmptySource(t *testing.T) {
	t.Parallel()

	result := processTS(t, "")
	assert.Empty(t, result.Exports)
	assert.Empty(t, result.Imports)
}
