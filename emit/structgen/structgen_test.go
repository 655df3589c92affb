package structgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/emit/structgen"
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

func TestStructgenSimpleType(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(rs => "i64")`,
		"user.sdl":   `A([boxed] parent?: A, name: int)`,
	})

	out, err := emit.Run(structgen.Factory{}.New(), "", defs, ctx)
	require.NoError(t, err)

	assert.Contains(t, out, "pub struct A {")
	assert.Contains(t, out, "parent: Option<Box<A>>,")
	assert.Contains(t, out, "name: i64,")
}

func TestStructgenSumType(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(rs => "i64")`,
		"user.sdl":   `T : Foo(a: int) | Bar(b: int) | None`,
	})

	out, err := emit.Run(structgen.Factory{}.New(), "", defs, ctx)
	require.NoError(t, err)

	for _, want := range []string{
		"pub enum T {",
		"None,",
		"Foo(Foo),",
		"Bar(Bar),",
		"pub struct Foo {",
		"pub struct Bar {",
	} {
		assert.Contains(t, out, want)
	}
}

func TestStructgenNamespace(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(rs => "i64")`,
		"user.sdl":   `A(x: int)`,
	})

	out, err := emit.Run(structgen.Factory{}.New(), "wire", defs, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "pub mod wire {")
}

func TestStructgenInlineAliasElided(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(rs => "i64")`,
	})

	out, err := emit.Run(structgen.Factory{}.New(), "", defs, ctx)
	require.NoError(t, err)
	assert.NotContains(t, out, "type int", "inline alias should be elided from output")
}

func TestStructgenReservedIdentRejected(t *testing.T) {
	ctx, defs := lowerAndDeclare(t, map[string]string{
		"stdlib.sdl": `[inline] int = native(rs => "i64")`,
		"user.sdl":   `enum(x: int)`,
	})

	_, err := emit.Run(structgen.Factory{}.New(), "", defs, ctx)
	assert.Error(t, err, "expected a reserved-identifier error")
}
