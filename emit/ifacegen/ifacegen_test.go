package ifacegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/emit/ifacegen"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/parser"
	"github.com/sdllang/sdlc/resolve"
)

func lowerAndDeclare(t *testing.T, srcs map[string]string) (*resolve.Context, []hir.TypeDef) {
	t.Helper()

	ctx := resolve.New("")

	var files []*hir.File
	var order []string
	for name := range srcs {
		order = append(order, name)
	}

	for _, name := range order {
		prog, err := parser.Parse(name, srcs[name])
		require.NoError(t, err, "parse %s", name)

		f, err := hir.Lower(name, prog)
		require.NoError(t, err, "lower %s", name)

		files = append(files, f)
	}

	for _, f := range files {
		require.NoError(t, ctx.DeclareFile(f), "declare %s", f.Name)
	}

	for _, f := range files {
		require.NoError(t, ctx.CheckFile(f), "check %s", f.Name)
	}

	var defs []hir.TypeDef
	for _, f := range files {
		defs = append(defs, f.Defs...)
	}

	return ctx, defs
}

func TestIfacegenSimpleType(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(ts => "number")`,
		"user.sdl":   `A(name?: int)`,
	})

	out, err := emit.Run(ifacegen.Factory{}.New(), "", defs, ctx)
	require.NoError(t, err)

	assert.Contains(t, out, "export interface A {")
	assert.Contains(t, out, "name?: number;")
}

func TestIfacegenSumTypeUsesConfiguredDiscriminant(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(ts => "number")`,
		"user.sdl":   `T : Foo(a: int) | None`,
	})
	ctx.Discriminant = "tag"

	out, err := emit.Run(ifacegen.Factory{}.New(), "", defs, ctx)
	require.NoError(t, err)

	for _, want := range []string{
		`export type T = None | Foo;`,
		"export interface TBase<K extends string> {",
		"tag: K;",
		`export interface None extends TBase<"None"> {`,
		`export interface Foo extends TBase<"Foo"> {`,
		"a: number;",
	} {
		assert.Contains(t, out, want)
	}
}

func TestIfacegenRejectsNamespace(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(ts => "number")`,
		"user.sdl":   `A(x: int)`,
	})

	_, err := emit.Run(ifacegen.Factory{}.New(), "wire", defs, ctx)
	assert.Error(t, err, "expected an error rejecting the namespace")
}
