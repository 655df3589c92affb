// Package structgen implements the systems-struct/tagged-union reference
// emitter of spec.md §4.8, grounded on original_source/src/codegen/rustgen.rs:
// aliases become `type` synonyms (elided when inline), simple types become
// structs, and sum types become an enum of scalar variants plus
// constructor arms, each constructor additionally emitted as its own struct.
package structgen

import (
	"fmt"
	"strings"

	"github.com/sdllang/sdlc/docbuilder"
	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// LangTag is the native-type-map key and CLI -t value selecting this emitter.
const LangTag = "rs"

var reservedIdents = []string{
	"as", "async", "await", "break", "const", "continue", "crate", "dyn",
	"else", "enum", "extern", "false", "fn", "for", "if", "impl", "in",
	"let", "loop", "match", "mod", "move", "mut", "pub", "ref", "return",
	"self", "Self", "static", "struct", "super", "trait", "true", "type",
	"unsafe", "use", "where", "while", "abstract", "become", "box", "do",
	"final", "macro", "override", "priv", "try", "typeof", "union",
	"unsized", "virtual", "yield",
}

// Factory is the identity-only handle the driver's registry selects by tag.
type Factory struct{}

func (Factory) LangTag() string      { return LangTag }
func (Factory) Name() string         { return "systems-struct" }
func (Factory) New() emit.Generator { return &Generator{} }

// Generator implements emit.Generator. ns tracks the currently open
// namespace body, since the framework always hands every hook the
// top-level Doc, not whatever block a prior VisitNamespaceBegin opened.
type Generator struct {
	ns *docbuilder.Doc
}

func (g *Generator) Name() string           { return "systems-struct" }
func (g *Generator) LangTag() string        { return LangTag }
func (g *Generator) ReservedIdents() []string { return reservedIdents }

func (g *Generator) target(doc *docbuilder.Doc) *docbuilder.Doc {
	if g.ns != nil {
		return g.ns
	}

	return doc
}

func (g *Generator) PreVisit(doc *docbuilder.Doc, ctx *resolve.Context) error {
	doc.TextLiteral("// Code generated by sdlc. DO NOT EDIT.")
	doc.EmptyLine()

	return nil
}

func (g *Generator) VisitNamespaceBegin(doc *docbuilder.Doc, namespace string) error {
	doc.Linef("pub mod %s {", namespace)
	g.ns = doc.Block(4)

	return nil
}

func (g *Generator) VisitNamespaceEnd(doc *docbuilder.Doc, namespace string) error {
	g.ns = nil
	doc.TextLiteral("}")

	return nil
}

func (g *Generator) VisitAllTypeDefs(doc *docbuilder.Doc, defs []hir.TypeDef, ctx *resolve.Context) (bool, error) {
	return false, nil
}

func (g *Generator) VisitTypeAlias(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	body := g.target(doc)

	if hir.IsInline(def.Attrs) || hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	if err := writeDocAndAttrs(body, def.Attrs); err != nil {
		return err
	}

	typeName, err := emit.TypeName(LangTag, def.Alias.Type, ctx, listType, recordType)
	if err != nil {
		return err
	}

	body.Linef("%stype %s = %s;", visibility(def.Attrs), def.Alias.Name, typeName)
	body.EmptyLine()

	return nil
}

func (g *Generator) VisitSimpleType(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	return writeStruct(g.target(doc), def.Attrs, def.Simple, ctx)
}

func (g *Generator) VisitSumType(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	body := g.target(doc)

	if err := writeDocAndAttrs(body, def.Attrs); err != nil {
		return err
	}

	body.Linef("%senum %s {", visibility(def.Attrs), sum.Name)
	arms := body.Block(4)

	for _, variant := range sum.ScalarVariants {
		arms.Linef("%s,", variant.Name)
	}

	for _, ctor := range sum.Ctors {
		arms.Linef("%s(%s),", ctor.Ctor.Name, ctor.Ctor.Name)
	}

	body.TextLiteral("}")
	body.EmptyLine()

	return nil
}

func (g *Generator) VisitSumTypeScalarVariant(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, variant hir.ScalarVariant, ctx *resolve.Context) error {
	return nil
}

func (g *Generator) VisitSumTypeCtor(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctor hir.CtorVariant, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) || hir.HasSkip(ctor.Attrs, LangTag) {
		return nil
	}

	return writeStruct(g.target(doc), ctor.Attrs, &ctor.Ctor, ctx)
}

func writeStruct(body *docbuilder.Doc, attrs []hir.AttrItem, ctor *hir.TypeConstructor, ctx *resolve.Context) error {
	if err := writeDocAndAttrs(body, attrs); err != nil {
		return err
	}

	body.Linef("%sstruct %s {", visibility(attrs), ctor.Name)
	fields := body.Block(4)

	for _, f := range ctor.Fields {
		if err := writeField(fields, f, ctx); err != nil {
			return err
		}
	}

	body.TextLiteral("}")
	body.EmptyLine()

	return nil
}

func writeField(fields *docbuilder.Doc, f hir.Field, ctx *resolve.Context) error {
	docLines, err := hir.ExtractDocLines(f.Attrs, "doc")
	if err != nil {
		return err
	}

	for _, line := range docLines {
		fields.Linef("/// %s", line)
	}

	typeName, err := emit.TypeName(LangTag, f.Type, ctx, listType, recordType)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}

	if hir.IsBoxed(f.Attrs) {
		typeName = "Box<" + typeName + ">"
	}

	if f.Optional {
		typeName = "Option<" + typeName + ">"
	}

	fields.Linef("%s%s: %s,", visibility(f.Attrs), f.Name, typeName)

	return nil
}

func writeDocAndAttrs(body *docbuilder.Doc, attrs []hir.AttrItem) error {
	docLines, err := hir.ExtractDocLines(attrs, "doc")
	if err != nil {
		return err
	}

	for _, line := range docLines {
		body.Linef("/// %s", line)
	}

	rawAttrs, err := hir.ExtractDocLines(attrs, "rs_attr")
	if err != nil {
		return err
	}

	for _, raw := range rawAttrs {
		body.Linef("#[%s]", raw)
	}

	derive, err := hir.ExtractIdentListCall(attrs, "rs_derive")
	if err != nil {
		return err
	}

	if len(derive) > 0 {
		body.Linef("#[derive(%s)]", strings.Join(derive, ", "))
	}

	return nil
}

func visibility(attrs []hir.AttrItem) string {
	if hir.IsPrivate(attrs) {
		return ""
	}

	return "pub "
}

func listType(inner string) string   { return "Vec<" + inner + ">" }
func recordType(inner string) string { return "std::collections::HashMap<String, " + inner + ">" }
