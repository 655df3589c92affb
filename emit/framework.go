// Package emit implements the emitter framework contract of spec.md §4.7:
// the CodeGenerator-equivalent visitor interface, a factory registry the
// driver selects from by language tag, the reserved-identifier gate, and
// the one true visit order (§4.7, "Visit ordering").
package emit

import (
	"github.com/sdllang/sdlc/docbuilder"
	"github.com/sdllang/sdlc/errs"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// Generator is the contract a concrete emitter implements (spec.md §4.7).
type Generator interface {
	// Name is the human-readable name of this emitter.
	Name() string
	// LangTag is the language tag selecting this emitter on the CLI (-t/--mode).
	LangTag() string
	// ReservedIdents is this target's reserved-identifier list, checked
	// against every non-inline type name, namespace, and field name before
	// any emission happens.
	ReservedIdents() []string

	// PreVisit is the optional header-emission hook (copyright, imports).
	PreVisit(doc *docbuilder.Doc, ctx *resolve.Context) error

	// VisitNamespaceBegin/VisitNamespaceEnd wrap emission in a namespace
	// when one was configured. An emitter that does not support namespaces
	// must return a descriptive error from VisitNamespaceBegin; because the
	// framework aborts on that error, VisitNamespaceEnd is then never called.
	VisitNamespaceBegin(doc *docbuilder.Doc, namespace string) error
	VisitNamespaceEnd(doc *docbuilder.Doc, namespace string) error

	// VisitAllTypeDefs is the optional whole-universe hook. If handled is
	// true, the framework treats emission of defs as complete and skips the
	// per-definition hooks below for this run.
	VisitAllTypeDefs(doc *docbuilder.Doc, defs []hir.TypeDef, ctx *resolve.Context) (handled bool, err error)

	// Per-definition hooks, invoked in the order described by spec.md §4.7.
	VisitTypeAlias(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error
	VisitSimpleType(doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error
	VisitSumType(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctx *resolve.Context) error
	VisitSumTypeScalarVariant(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, variant hir.ScalarVariant, ctx *resolve.Context) error
	VisitSumTypeCtor(doc *docbuilder.Doc, def hir.TypeDef, sum *hir.SumType, ctor hir.CtorVariant, ctx *resolve.Context) error
}

// Factory exposes identity metadata for a Generator without constructing
// one; the driver selects a Factory by LangTag and only then calls New.
type Factory interface {
	LangTag() string
	Name() string
	New() Generator
}

// Registry is a flat list of Factory values the driver selects from.
type Registry struct {
	factories []Factory
}

// NewRegistry builds a Registry from the given factories, in order.
func NewRegistry(factories ...Factory) *Registry {
	return &Registry{factories: factories}
}

// Lookup finds the Factory whose LangTag equals tag.
func (r *Registry) Lookup(tag string) (Factory, bool) {
	for _, f := range r.factories {
		if f.LangTag() == tag {
			return f, true
		}
	}

	return nil, false
}

// Tags lists every registered language tag, in registration order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for _, f := range r.factories {
		tags = append(tags, f.LangTag())
	}

	return tags
}

// Run drives gen over defs through the reserved-identifier gate and then
// the deterministic visit order of spec.md §4.7, returning the serialized
// Doc on success.
func Run(gen Generator, namespace string, defs []hir.TypeDef, ctx *resolve.Context) (string, error) {
	if err := checkReservedIdents(gen, namespace, ctx, defs); err != nil {
		return "", err
	}

	doc := docbuilder.New()

	if err := gen.PreVisit(doc, ctx); err != nil {
		return "", wrapEmitErr(gen, "", "pre_visit", err)
	}

	if namespace != "" {
		if err := gen.VisitNamespaceBegin(doc, namespace); err != nil {
			return "", wrapEmitErr(gen, "", "namespace "+namespace, err)
		}
	}

	handled, err := gen.VisitAllTypeDefs(doc, defs, ctx)
	if err != nil {
		return "", wrapEmitErr(gen, "", "visit_all_typedefs", err)
	}

	if !handled {
		for _, def := range defs {
			if err := visitOne(gen, doc, def, ctx); err != nil {
				return "", err
			}
		}
	}

	if namespace != "" {
		if err := gen.VisitNamespaceEnd(doc, namespace); err != nil {
			return "", wrapEmitErr(gen, "", "namespace "+namespace, err)
		}
	}

	return doc.String(), nil
}

func visitOne(gen Generator, doc *docbuilder.Doc, def hir.TypeDef, ctx *resolve.Context) error {
	switch def.Kind {
	case hir.KindAlias:
		if err := gen.VisitTypeAlias(doc, def, ctx); err != nil {
			return wrapEmitErr(gen, def.File, "alias "+def.Alias.Name, err)
		}

	case hir.KindSimple:
		if err := gen.VisitSimpleType(doc, def, ctx); err != nil {
			return wrapEmitErr(gen, def.File, "type "+def.Simple.Name, err)
		}

	case hir.KindSum:
		sum := def.Sum

		if err := gen.VisitSumType(doc, def, sum, ctx); err != nil {
			return wrapEmitErr(gen, def.File, "sum "+sum.Name, err)
		}

		for _, variant := range sum.ScalarVariants {
			if err := gen.VisitSumTypeScalarVariant(doc, def, sum, variant, ctx); err != nil {
				return wrapEmitErr(gen, def.File, "sum "+sum.Name+" variant "+variant.Name, err)
			}
		}

		for _, ctor := range sum.Ctors {
			if err := gen.VisitSumTypeCtor(doc, def, sum, ctor, ctx); err != nil {
				return wrapEmitErr(gen, def.File, "sum "+sum.Name+" ctor "+ctor.Ctor.Name, err)
			}
		}
	}

	return nil
}

func wrapEmitErr(gen Generator, file, entity string, err error) error {
	return &errs.EmitterError{Emitter: gen.LangTag(), File: file, Entity: entity, Message: err.Error()}
}
