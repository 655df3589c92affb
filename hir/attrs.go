package hir

import (
	"fmt"
	"strings"
)

// HasIdent reports whether attrs contains a bare identifier attribute equal to name.
func HasIdent(attrs []AttrItem, name string) bool {
	for _, a := range attrs {
		if ident, ok := a.(*AttrIdent); ok && ident.Name == name {
			return true
		}
	}

	return false
}

// IsPrivate reports whether attrs carries the reserved [private] attribute.
func IsPrivate(attrs []AttrItem) bool { return HasIdent(attrs, "private") }

// IsBoxed reports whether attrs carries the reserved [boxed] attribute.
func IsBoxed(attrs []AttrItem) bool { return HasIdent(attrs, "boxed") }

// IsInline reports whether attrs carries the reserved [inline] attribute.
func IsInline(attrs []AttrItem) bool { return HasIdent(attrs, "inline") }

// HasSkip reports whether attrs carries a "<tag>_skip" bare identifier
// attribute, the per-emitter convention every reference emitter honors to
// suppress emission of one definition (e.g. [rs_skip], [ts_skip], [lisp_skip]).
func HasSkip(attrs []AttrItem, tag string) bool {
	return HasIdent(attrs, tag+"_skip")
}

// ExtractDocLines collects doc text from every occurrence of the named doc
// attribute, in either call form ([doc("line")]) or assignment form
// ([doc = "line"]). Multi-line values are split on "\n" and each line
// trimmed, matching the reference compiler's extract_doc_strings.
func ExtractDocLines(attrs []AttrItem, docAttrName string) ([]string, error) {
	var out []string

	add := func(doc string) {
		if strings.Contains(doc, "\n") {
			for _, line := range strings.Split(doc, "\n") {
				out = append(out, strings.TrimSpace(line))
			}
		} else {
			out = append(out, strings.TrimSpace(doc))
		}
	}

	for _, a := range attrs {
		switch v := a.(type) {
		case *AttrCall:
			if v.Name != docAttrName {
				continue
			}

			if len(v.Args) != 1 {
				return nil, fmt.Errorf("%s attribute must take exactly 1 argument, got %d", docAttrName, len(v.Args))
			}

			str, ok := v.Args[0].(*AttrStr)
			if !ok {
				return nil, fmt.Errorf("%s attribute argument must be a string literal", docAttrName)
			}

			add(str.Value)

		case *AttrAssign:
			if v.Name != docAttrName {
				continue
			}

			str, ok := v.Value.(*AttrStr)
			if !ok {
				return nil, fmt.Errorf("%s attribute value must be a string literal", docAttrName)
			}

			add(str.Value)
		}
	}

	return out, nil
}

// ExtractIdentListCall returns the identifier arguments of the first
// call-form attribute named callName (e.g. [rs_derive(Debug, Clone)]),
// or nil if no such attribute is present.
func ExtractIdentListCall(attrs []AttrItem, callName string) ([]string, error) {
	for _, a := range attrs {
		call, ok := a.(*AttrCall)
		if !ok || call.Name != callName {
			continue
		}

		names := make([]string, 0, len(call.Args))
		for _, arg := range call.Args {
			ident, ok := arg.(*AttrIdent)
			if !ok {
				return nil, fmt.Errorf("%s attribute arguments must be identifiers", callName)
			}

			names = append(names, ident.Name)
		}

		return names, nil
	}

	return nil, nil
}
