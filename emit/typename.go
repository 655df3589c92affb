package emit

import (
	"fmt"

	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/resolve"
)

// TypeName resolves ty to its textual spelling in lang, the one piece of
// logic every reference emitter needs: Native types look up lang in their
// mapping; List/Record are wrapped with the caller's target-language
// syntax; Identifier follows an inline alias to its right-hand side,
// recursively, per spec.md §4.10 — this repo's chosen policy for the
// under-specified inline reference-site question (see DESIGN.md).
func TypeName(lang string, ty hir.RSDLType, ctx *resolve.Context, listFmt, recordFmt func(inner string) string) (string, error) {
	switch t := ty.(type) {
	case *hir.TypeNative:
		name, ok := t.Mapping[lang]
		if !ok {
			return "", fmt.Errorf("native type has no mapping for language tag %q", lang)
		}

		return name, nil

	case *hir.TypeList:
		inner, err := TypeName(lang, t.Inner, ctx, listFmt, recordFmt)
		if err != nil {
			return "", err
		}

		return listFmt(inner), nil

	case *hir.TypeRecord:
		inner, err := TypeName(lang, t.Inner, ctx, listFmt, recordFmt)
		if err != nil {
			return "", err
		}

		return recordFmt(inner), nil

	case *hir.TypeIdentifier:
		sym, ok := ctx.Lookup(t.Name)
		if !ok {
			return "", fmt.Errorf("reference to unresolved type %q", t.Name)
		}

		if sym.IsInline && sym.Type != nil {
			return TypeName(lang, sym.Type, ctx, listFmt, recordFmt)
		}

		return t.Name, nil

	default:
		return "", fmt.Errorf("unsupported type expression %T", ty)
	}
}
