package emit

import (
	"github.com/sdllang/sdlc/errs"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// spelledGenerator is implemented by emitters whose Doc output renders a
// declared identifier under a transformed spelling (e.g. lispgen's kebab-case
// lispCase). checkReservedIdents consults it, where present, so the gate
// compares against what actually reaches the page rather than the name as
// declared in source.
type spelledGenerator interface {
	EmittedSpelling(name string) string
}

// checkReservedIdents implements the reserved-identifier gate of spec.md
// §4.7: before any emission, reject a reserved namespace, any non-inline
// symbol name, or any field/constructor name that collides with gen's
// reserved-identifier list. For an emitter that reshapes spelling on output
// (spelledGenerator), the collision check runs against the emitted spelling;
// every other emitter is checked against the declared name verbatim.
func checkReservedIdents(gen Generator, namespace string, ctx *resolve.Context, defs []hir.TypeDef) error {
	reserved := make(map[string]bool, len(gen.ReservedIdents()))
	for _, r := range gen.ReservedIdents() {
		reserved[r] = true
	}

	spell := func(name string) string { return name }
	if sg, ok := gen.(spelledGenerator); ok {
		spell = sg.EmittedSpelling
	}

	if namespace != "" && reserved[spell(namespace)] {
		return &errs.ReservedIdentClash{Emitter: gen.LangTag(), File: "", QualifiedName: namespace}
	}

	for _, def := range defs {
		for _, name := range def.DeclaredNames() {
			sym, ok := ctx.Lookup(name)
			if ok && sym.IsInline {
				continue
			}

			if reserved[spell(name)] {
				return &errs.ReservedIdentClash{Emitter: gen.LangTag(), File: def.File, QualifiedName: name}
			}
		}

		for _, fieldName := range def.FieldNames() {
			if reserved[spell(fieldName)] {
				return &errs.ReservedIdentClash{Emitter: gen.LangTag(), File: def.File, QualifiedName: fieldName}
			}
		}
	}

	return nil
}
