// Package lispgen implements a third reference emitter, supplementing the
// two spec.md §4.8/§4.9 call out by name: a dynamically-typed Lisp-like
// target with struct constructors, grounded on
// original_source/src/codegen/pl5gen.rs. Aliases become deftype forms,
// simple types become defstruct forms, and sum types become a deftype
// (member ...) form over their scalar variants' keywords plus one defstruct
// per constructor; each scalar variant becomes a defparameter bound to its
// keyword.
package lispgen

import (
	"fmt"
	"strings"

	"github.com/sdllang/sdlc/docbuilder"
	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// LangTag is the native-type-map key and CLI -t value selecting this emitter.
const LangTag = "lisp"

var reservedIdents = []string{
	"t", "nil", "quote", "lambda", "defun", "defvar", "defparameter",
	"defstruct", "deftype", "let", "let*", "if", "cond", "case", "progn",
	"setf", "function", "block", "return-from", "loop", "dolist",
	"dotimes", "and", "or", "not", "list", "cons", "car", "cdr",
}

// Factory is the identity-only handle the driver's registry selects by tag.
type Factory struct{}

func (Factory) LangTag() string      { return LangTag }
func (Factory) Name() string         { return "lisp-like" }
func (Factory) New() emit.Generator { return &Generator{} }

// Generator implements emit.Generator. ns is the prefix applied to every
// top-level symbol while a namespace is open, in addition to the
// (in-package ...) form VisitNamespaceBegin writes.
type Generator struct {
	ns string
}

func (g *Generator) Name() string             { return "lisp-like" }
func (g *Generator) LangTag() string          { return LangTag }
func (g *Generator) ReservedIdents() []string { return reservedIdents }

// EmittedSpelling reports the kebab-case symbol a declared name renders as,
// so the reserved-identifier gate (emit.checkReservedIdents) catches a type
// like List colliding with the reserved cons-list symbol list even though
// the declared spelling itself isn't reserved.
func (g *Generator) EmittedSpelling(name string) string { return lispCase(name) }

func (g *Generator) PreVisit(doc *docbuilder.Doc, ctx *resolve.Context) error {
	doc.TextLiteral(";;; Code generated by sdlc. DO NOT EDIT.")
	doc.EmptyLine()

	return nil
}

func (g *Generator) VisitNamespaceBegin(doc *docbuilder.Doc, namespace string) error {
	doc.Linef("(in-package :%s)", namespace)
	doc.EmptyLine()
	g.ns = namespace + "-"

	return nil
}

func (g *Generator) VisitNamespaceEnd(doc *docbuilder.Doc, namespace string) error {
	g.ns = ""
	return nil
}

func (g *Generator) VisitAllTypeDefs(doc *docbuilder.Doc, defs []hir.TypeDef, ctx *resolve.Context) (bool, error) {
	return false, nil
}

func (g *Generator) symbol(name string) string {
	return g.ns + lispCase(name)
}

func (g *Generator) VisitTypeAlias(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	if hir.IsInline(def.Attrs) || hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	if err := writeDoc(doc, def.Attrs, ""); err != nil {
		return err
	}

	typeName, err := emit.TypeName(LangTag, def.Alias.Type, ctx, listType, recordType)
	if err != nil {
		return err
	}

	doc.Linef("(deftype %s () '%s)", g.symbol(def.Alias.Name), typeName)
	doc.EmptyLine()

	return nil
}

func (g *Generator) VisitSimpleType(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	return g.writeDefstruct(doc, def.Attrs, def.Simple, ctx)
}

func (g *Generator) VisitSumType(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) {
		return nil
	}

	if err := writeDoc(doc, def.Attrs, ""); err != nil {
		return err
	}

	keywords := make([]string, 0, len(sum.ScalarVariants))
	for _, v := range sum.ScalarVariants {
		keywords = append(keywords, ":"+lispCase(v.Name))
	}

	if len(keywords) > 0 {
		doc.Linef("(deftype %s-scalar () '(member %s))", g.symbol(sum.Name), strings.Join(keywords, " "))
		doc.EmptyLine()
	}

	return nil
}

func (g *Generator) VisitSumTypeScalarVariant(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, variant hir.ScalarVariant, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) || hir.HasSkip(variant.Attrs, LangTag) {
		return nil
	}

	if err := writeDoc(doc, variant.Attrs, ""); err != nil {
		return err
	}

	doc.Linef("(defparameter %s-%s :%s)", g.symbol(sum.Name), lispCase(variant.Name), lispCase(variant.Name))

	return nil
}

func (g *Generator) VisitSumTypeCtor(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctor hir.CtorVariant, ctx *resolve.Context) error {
	if hir.HasSkip(def.Attrs, LangTag) || hir.HasSkip(ctor.Attrs, LangTag) {
		return nil
	}

	return g.writeDefstruct(doc, ctor.Attrs, &ctor.Ctor, ctx)
}

func (g *Generator) writeDefstruct(doc *docbuilder.Doc, attrs []hir.AttrItem, ctor *hir.TypeConstructor, ctx *resolve.Context) error {
	if err := writeDoc(doc, attrs, ""); err != nil {
		return err
	}

	doc.Linef("(defstruct %s", g.symbol(ctor.Name))
	slots := doc.Block(2)

	for i, f := range ctor.Fields {
		typeName, err := emit.TypeName(LangTag, f.Type, ctx, listType, recordType)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}

		line := fmt.Sprintf("(%s nil :type %s)", lispCase(f.Name), typeName)
		if f.Optional {
			line = fmt.Sprintf("(%s nil :type (or null %s))", lispCase(f.Name), typeName)
		}

		if i == len(ctor.Fields)-1 {
			line += ")"
		}

		slots.TextLiteral(line)
	}

	if len(ctor.Fields) == 0 {
		doc.TextLiteral("  )")
	}

	doc.EmptyLine()

	return nil
}

func writeDoc(doc *docbuilder.Doc, attrs []hir.AttrItem, _ string) error {
	lines, err := hir.ExtractDocLines(attrs, "doc")
	if err != nil {
		return err
	}

	for _, line := range lines {
		doc.Linef(";; %s", line)
	}

	return nil
}

// lispCase converts a camelCase/PascalCase identifier to kebab-case, the
// idiomatic Lisp naming convention.
func lispCase(name string) string {
	var sb strings.Builder

	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}

			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func listType(inner string) string   { return "(vector " + inner + ")" }
func recordType(inner string) string { return "(hash-table " + inner + ")" }
