// Package ifacegen implements the interface-style reference emitter of
// spec.md §4.9 for a structurally-typed target without tagged unions: sum
// types become a union of variant type names plus a parameterized base
// interface carrying the discriminant field, and namespaces are rejected.
package ifacegen

import (
	"fmt"
	"strings"

	"github.com/sdllang/sdlc/docbuilder"
	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// LangTag is the native-type-map key and CLI -t value selecting this emitter.
const LangTag = "ts"

var reservedIdents = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "export", "extends",
	"false", "finally", "for", "function", "if", "import", "in",
	"instanceof", "new", "null", "return", "super", "switch", "this",
	"throw", "true", "try", "typeof", "var", "void", "while", "with",
	"as", "implements", "interface", "let", "package", "private",
	"protected", "public", "static", "yield", "any", "boolean", "declare",
	"get", "module", "require", "number", "set", "string", "symbol",
	"type", "from", "of",
}

// Factory is the identity-only handle the driver's registry selects by tag.
type Factory struct{}

func (Factory) LangTag() string      { return LangTag }
func (Factory) Name() string         { return "interface-style" }
func (Factory) New() emit.Generator { return &Generator{} }

// Generator implements emit.Generator.
type Generator struct{}

func (g *Generator) Name() string             { return "interface-style" }
func (g *Generator) LangTag() string          { return LangTag }
func (g *Generator) ReservedIdents() []string { return reservedIdents }

func (g *Generator) PreVisit(doc *docbuilder.Doc, ctx *resolve.Context) error {
	doc.TextLiteral("// Code generated by sdlc. DO NOT EDIT.")
	doc.EmptyLine()

	return nil
}

func (g *Generator) VisitNamespaceBegin(doc *docbuilder.Doc, namespace string) error {
	return fmt.Errorf("the interface-style emitter does not support namespaces")
}

func (g *Generator) VisitNamespaceEnd(doc *docbuilder.Doc, namespace string) error {
	return fmt.Errorf("unreachable: namespace was never opened")
}

func (g *Generator) VisitAllTypeDefs(doc *docbuilder.Doc, defs []hir.TypeDef, ctx *resolve.Context) (bool, error) {
	return false, nil
}

func (g *Generator) VisitTypeAlias(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	if hir.IsInline(def.Attrs) || hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	if err := writeDoc(doc, def.Attrs); err != nil {
		return err
	}

	typeName, err := emit.TypeName(LangTag, def.Alias.Type, ctx, listType, recordType)
	if err != nil {
		return err
	}

	exported := "export "
	if hir.IsPrivate(def.Attrs) {
		exported = ""
	}

	doc.Linef("%stype %s = %s;", exported, def.Alias.Name, typeName)
	doc.EmptyLine()

	return nil
}

func (g *Generator) VisitSimpleType(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	return writeInterface(doc, def.Attrs, def.Simple.Name, "", def.Simple.Fields, ctx)
}

func (g *Generator) VisitSumType(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	names := make([]string, 0, len(sum.ScalarVariants)+len(sum.Ctors))
	for _, v := range sum.ScalarVariants {
		names = append(names, v.Name)
	}

	for _, c := range sum.Ctors {
		names = append(names, c.Ctor.Name)
	}

	if err := writeDoc(doc, def.Attrs); err != nil {
		return err
	}

	exported := "export "
	if hir.IsPrivate(def.Attrs) {
		exported = ""
	}

	doc.Linef("%stype %s = %s;", exported, sum.Name, strings.Join(names, " | "))
	doc.EmptyLine()

	doc.Linef("%sinterface %sBase<K extends string> {", exported, sum.Name)
	base := doc.Block(2)
	base.Linef("%s: K;", ctx.Discriminant)
	doc.TextLiteral("}")
	doc.EmptyLine()

	return nil
}

func (g *Generator) VisitSumTypeScalarVariant(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, variant hir.ScalarVariant, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) || hir.HasSkip(variant.Attrs, LangTag) {
		return nil
	}

	return writeInterface(doc, variant.Attrs, variant.Name, sum.Name+`Base<"`+variant.Name+`">`, nil, ctx)
}

func (g *Generator) VisitSumTypeCtor(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctor hir.CtorVariant, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) || hir.HasSkip(ctor.Attrs, LangTag) {
		return nil
	}

	extends := sum.Name + `Base<"` + ctor.Ctor.Name + `">`

	return writeInterface(doc, ctor.Attrs, ctor.Ctor.Name, extends, ctor.Ctor.Fields, ctx)
}

func writeInterface(doc *docbuilder.Doc, attrs []hir.AttrItem, name string, extends string, fields []hir.Field, ctx *resolve.Context) error {
	if err := writeDoc(doc, attrs); err != nil {
		return err
	}

	exported := "export "
	if hir.IsPrivate(attrs) {
		exported = ""
	}

	header := fmt.Sprintf("%sinterface %s", exported, name)
	if extends != "" {
		header += " extends " + extends
	}

	doc.TextLiteral(header + " {")
	body := doc.Block(2)

	for _, f := range fields {
		if err := writeField(body, f, ctx); err != nil {
			return err
		}
	}

	doc.TextLiteral("}")
	doc.EmptyLine()

	return nil
}

func writeField(body *docbuilder.Doc, f hir.Field, ctx *resolve.Context) error {
	docLines, err := hir.ExtractDocLines(f.Attrs, "doc")
	if err != nil {
		return err
	}

	for _, line := range docLines {
		body.Linef("/** %s */", line)
	}

	typeName, err := emit.TypeName(LangTag, f.Type, ctx, listType, recordType)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}

	optional := ""
	if f.Optional {
		optional = "?"
	}

	body.Linef("%s%s: %s;", f.Name, optional, typeName)

	return nil
}

func writeDoc(doc *docbuilder.Doc, attrs []hir.AttrItem) error {
	lines, err := hir.ExtractDocLines(attrs, "doc")
	if err != nil {
		return err
	}

	for _, line := range lines {
		doc.Linef("/** %s */", line)
	}

	return nil
}

func listType(inner string) string   { return inner + "[]" }
func recordType(inner string) string { return "Record<string, " + inner + ">" }
