package emit_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sdllang/sdlc/docbuilder"
	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/errs"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// recordingGenerator logs every hook call, in order, so tests can assert on
// spec.md §4.7's visit ordering without depending on a concrete emitter.
type recordingGenerator struct {
	calls    []string
	reserved []string
	nsErr    error
}

func (g *recordingGenerator) Name() string             { return "recording" }
func (g *recordingGenerator) LangTag() string           { return "rec" }
func (g *recordingGenerator) ReservedIdents() []string  { return g.reserved }

func (g *recordingGenerator) PreVisit(doc *docbuilder.Doc, ctx *resolve.Context) error {
	g.calls = append(g.calls, "pre_visit")
	return nil
}

func (g *recordingGenerator) VisitNamespaceBegin(doc *docbuilder.Doc, namespace string) error {
	g.calls = append(g.calls, "ns_begin:"+namespace)
	return g.nsErr
}

func (g *recordingGenerator) VisitNamespaceEnd(doc *docbuilder.Doc, namespace string) error {
	g.calls = append(g.calls, "ns_end:"+namespace)
	return nil
}

func (g *recordingGenerator) VisitAllTypeDefs(doc *docbuilder.Doc, defs []hir.TypeDef, ctx *resolve.Context) (bool, error) {
	g.calls = append(g.calls, fmt.Sprintf("visit_all:%d", len(defs)))
	return false, nil
}

func (g *recordingGenerator) VisitTypeAlias(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	g.calls = append(g.calls, "alias:"+def.Alias.Name)
	return nil
}

func (g *recordingGenerator) VisitSimpleType(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	g.calls = append(g.calls, "simple:"+def.Simple.Name)
	return nil
}

func (g *recordingGenerator) VisitSumType(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctx *resolve.Context) error {
	g.calls = append(g.calls, "sum:"+sum.Name)
	return nil
}

func (g *recordingGenerator) VisitSumTypeScalarVariant(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, variant hir.ScalarVariant, ctx *resolve.Context) error {
	g.calls = append(g.calls, "scalar:"+sum.Name+"."+variant.Name)
	return nil
}

func (g *recordingGenerator) VisitSumTypeCtor(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctor hir.CtorVariant, ctx *resolve.Context) error {
	g.calls = append(g.calls, "ctor:"+sum.Name+"."+ctor.Ctor.Name)
	return nil
}

func sampleDefs() []hir.TypeDef {
	return []hir.TypeDef{
		{
			File: "f.sdl", Kind: hir.KindAlias,
			Alias: &hir.AliasType{Name: "int", Type: &hir.TypeNative{Mapping: map[string]string{"rec": "i64"}}},
		},
		{
			File: "f.sdl", Kind: hir.KindSimple,
			Simple: &hir.TypeConstructor{Name: "A", Fields: []hir.Field{
				{Name: "x", Type: &hir.TypeIdentifier{Name: "int"}},
			}},
		},
		{
			File: "f.sdl", Kind: hir.KindSum,
			Sum: &hir.SumType{
				Name:           "T",
				ScalarVariants: []hir.ScalarVariant{{Name: "None"}},
				Ctors: []hir.CtorVariant{
					{Ctor: hir.TypeConstructor{Name: "Foo", Fields: []hir.Field{{Name: "a", Type: &hir.TypeIdentifier{Name: "int"}}}}},
				},
			},
		},
	}
}

func buildCtx(t *testing.T, defs []hir.TypeDef) *resolve.Context {
	t.Helper()

	ctx := resolve.New("")
	f := &hir.File{Name: "f.sdl", Defs: defs}

	if err := ctx.DeclareFile(f); err != nil {
		t.Fatalf("declare: %v", err)
	}

	if err := ctx.CheckFile(f); err != nil {
		t.Fatalf("check: %v", err)
	}

	return ctx
}

func TestVisitOrdering(t *testing.T) {
	defs := sampleDefs()
	ctx := buildCtx(t, defs)

	gen := &recordingGenerator{}

	if _, err := emit.Run(gen, "ns", defs, ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"pre_visit",
		"ns_begin:ns",
		"visit_all:3",
		"alias:int",
		"simple:A",
		"sum:T",
		"scalar:T.None",
		"ctor:T.Foo",
		"ns_end:ns",
	}

	if strings.Join(gen.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", gen.calls, want)
	}
}

func TestNamespaceErrorAbortsBeforeEnd(t *testing.T) {
	defs := sampleDefs()
	ctx := buildCtx(t, defs)

	gen := &recordingGenerator{nsErr: fmt.Errorf("namespaces unsupported")}

	_, err := emit.Run(gen, "ns", defs, ctx)
	if err == nil {
		t.Fatal("expected an error")
	}

	for _, c := range gen.calls {
		if c == "ns_end:ns" {
			t.Error("ns_end was called after ns_begin failed")
		}
	}
}

func TestReservedIdentGate(t *testing.T) {
	defs := []hir.TypeDef{
		{File: "f.sdl", Kind: hir.KindSimple, Simple: &hir.TypeConstructor{Name: "enum"}},
	}

	ctx := resolve.New("")
	if err := ctx.DeclareFile(&hir.File{Name: "f.sdl", Defs: defs}); err != nil {
		t.Fatalf("declare: %v", err)
	}

	gen := &recordingGenerator{reserved: []string{"enum"}}

	_, err := emit.Run(gen, "", defs, ctx)

	var clash *errs.ReservedIdentClash
	if !errors.As(err, &clash) {
		t.Fatalf("err = %v (%T), want *ReservedIdentClash", err, err)
	}
}
