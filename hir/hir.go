// Package hir converts the concrete parse tree produced by package parser
// into a typed High-level IR, per spec.md §4.3: TypeDef records carrying
// attributes and one of AliasType | SimpleType | SumType. Lowering is a
// pure tree transformation; the only work beyond structural translation is
// decoding string escape sequences.
package hir

import (
	"strings"

	"github.com/sdllang/sdlc/errs"
	"github.com/sdllang/sdlc/parser"
	"github.com/sdllang/sdlc/token"
)

// AttrItem is the open, four-variant attribute sum (spec.md §3).
type AttrItem interface {
	attrItem()
	Begin() token.Pos
}

// AttrIdent is a bare identifier attribute, e.g. private, boxed, inline.
type AttrIdent struct {
	Pos  token.Pos
	Name string
}

func (*AttrIdent) attrItem()          {}
func (n *AttrIdent) Begin() token.Pos { return n.Pos }

// AttrStr is a string literal attribute.
type AttrStr struct {
	Pos   token.Pos
	Value string
}

func (*AttrStr) attrItem()          {}
func (n *AttrStr) Begin() token.Pos { return n.Pos }

// AttrAssign is `name = attr-value`.
type AttrAssign struct {
	Pos   token.Pos
	Name  string
	Value AttrItem
}

func (*AttrAssign) attrItem()          {}
func (n *AttrAssign) Begin() token.Pos { return n.Pos }

// AttrCall is `name(arg1, arg2, …)`.
type AttrCall struct {
	Pos  token.Pos
	Name string
	Args []AttrItem
}

func (*AttrCall) attrItem()          {}
func (n *AttrCall) Begin() token.Pos { return n.Pos }

// RSDLType is the type sum (spec.md §3).
type RSDLType interface {
	rsdlType()
	Begin() token.Pos
}

// TypeIdentifier references a named type in the universe.
type TypeIdentifier struct {
	Pos  token.Pos
	Name string
}

func (*TypeIdentifier) rsdlType()        {}
func (n *TypeIdentifier) Begin() token.Pos { return n.Pos }

// TypeNative is a finite map from language-tag to target-language type name.
type TypeNative struct {
	Pos     token.Pos
	Mapping map[string]string
}

func (*TypeNative) rsdlType()        {}
func (n *TypeNative) Begin() token.Pos { return n.Pos }

// TypeList is a homogeneous ordered sequence.
type TypeList struct {
	Pos   token.Pos
	Inner RSDLType
}

func (*TypeList) rsdlType()        {}
func (n *TypeList) Begin() token.Pos { return n.Pos }

// TypeRecord is a keyed map with string keys and Inner values.
type TypeRecord struct {
	Pos   token.Pos
	Inner RSDLType
}

func (*TypeRecord) rsdlType()        {}
func (n *TypeRecord) Begin() token.Pos { return n.Pos }

// Field is one field of a TypeConstructor.
type Field struct {
	Pos      token.Pos
	Attrs    []AttrItem
	Optional bool
	Type     RSDLType
	Name     string
}

// TypeConstructor is a name plus an ordered sequence of fields.
type TypeConstructor struct {
	Pos    token.Pos
	Name   string
	Fields []Field
}

// ScalarVariant is a nullary sum-type case: attributes plus a name, no payload.
type ScalarVariant struct {
	Pos   token.Pos
	Attrs []AttrItem
	Name  string
}

// CtorVariant is a fielded sum-type case.
type CtorVariant struct {
	Pos   token.Pos
	Attrs []AttrItem
	Ctor  TypeConstructor
}

// SumType is a name, ordered scalar variants, and ordered constructors.
type SumType struct {
	Pos            token.Pos
	Name           string
	ScalarVariants []ScalarVariant
	Ctors          []CtorVariant
}

// AliasType names a type equal to another RSDLType expression.
type AliasType struct {
	Name string
	Type RSDLType
}

// DefKind discriminates the three shapes TypeDef.Inner may take.
type DefKind int

const (
	KindAlias DefKind = iota
	KindSimple
	KindSum
)

// TypeDef is a source-file-annotated envelope around one of
// AliasType | SimpleType | SumType.
type TypeDef struct {
	File  string
	Pos   token.Pos
	Attrs []AttrItem

	Kind   DefKind
	Alias  *AliasType
	Simple *TypeConstructor
	Sum    *SumType
}

// DeclaredNames returns every name this TypeDef enters into known_types:
// just the one name for an alias or simple type; the sum's own name plus
// every constructor name plus every scalar variant name for a sum, since
// constructors and variants share the global type namespace (spec.md §3, I1).
func (d *TypeDef) DeclaredNames() []string {
	switch d.Kind {
	case KindAlias:
		return []string{d.Alias.Name}

	case KindSimple:
		return []string{d.Simple.Name}

	case KindSum:
		names := make([]string, 0, 1+len(d.Sum.Ctors)+len(d.Sum.ScalarVariants))
		names = append(names, d.Sum.Name)

		for _, ctor := range d.Sum.Ctors {
			names = append(names, ctor.Ctor.Name)
		}

		for _, variant := range d.Sum.ScalarVariants {
			names = append(names, variant.Name)
		}

		return names

	default:
		return nil
	}
}

// FieldNames returns every field name declared directly by this TypeDef:
// a simple type's own fields, or every field of every constructor of a sum
// type. Used by the reserved-identifier gate (spec.md §4.7).
func (d *TypeDef) FieldNames() []string {
	switch d.Kind {
	case KindSimple:
		names := make([]string, 0, len(d.Simple.Fields))
		for _, f := range d.Simple.Fields {
			names = append(names, f.Name)
		}

		return names

	case KindSum:
		var names []string
		for _, ctor := range d.Sum.Ctors {
			for _, f := range ctor.Ctor.Fields {
				names = append(names, f.Name)
			}
		}

		return names

	default:
		return nil
	}
}

// File is the lowered result of one schema file: its TypeDefs and any
// global_attr items it declared, in textual order.
type File struct {
	Name        string
	Defs        []TypeDef
	GlobalAttrs []AttrItem
}

// Lower converts a parsed Program into HIR, assigning fname to every TypeDef.
func Lower(fname string, prog *parser.Program) (*File, error) {
	out := &File{Name: fname}

	for _, item := range prog.Items {
		switch {
		case item.Global != nil:
			attr, err := lowerAttrItem(item.Global.Item)
			if err != nil {
				return nil, err
			}

			out.GlobalAttrs = append(out.GlobalAttrs, attr)

		case item.Def != nil:
			def, err := lowerTypeDef(fname, item.Def)
			if err != nil {
				return nil, err
			}

			out.Defs = append(out.Defs, *def)

		default:
			return nil, errs.NewLowerError(token.NewNode(item.Begin(), item.Begin()), "program item has neither global attribute nor type definition")
		}
	}

	return out, nil
}

func lowerTypeDef(fname string, d *parser.TypeDef) (*TypeDef, error) {
	attrs, err := lowerAttrs(d.Attrs)
	if err != nil {
		return nil, err
	}

	pos := d.Begin()

	switch {
	case d.Alias != nil:
		ty, err := lowerTypeExpr(d.Alias.Type)
		if err != nil {
			return nil, err
		}

		return &TypeDef{
			File: fname, Pos: pos, Attrs: attrs,
			Kind:  KindAlias,
			Alias: &AliasType{Name: d.Alias.Name, Type: ty},
		}, nil

	case d.Sum != nil:
		sum, err := lowerSumType(d.Sum)
		if err != nil {
			return nil, err
		}

		return &TypeDef{
			File: fname, Pos: pos, Attrs: attrs,
			Kind: KindSum, Sum: sum,
		}, nil

	case d.Ctor != nil:
		ctor, err := lowerTypeCtor(d.Ctor)
		if err != nil {
			return nil, err
		}

		return &TypeDef{
			File: fname, Pos: pos, Attrs: attrs,
			Kind: KindSimple, Simple: ctor,
		}, nil

	default:
		return nil, errs.NewLowerError(token.NewNode(pos, pos), "type definition has no alias, sum, or constructor form")
	}
}

func lowerSumType(s *parser.SumTypeDef) (*SumType, error) {
	out := &SumType{Pos: s.Begin(), Name: s.Name}

	for _, v := range s.Variants {
		attrs, err := lowerAttrs(v.Attrs)
		if err != nil {
			return nil, err
		}

		switch {
		case v.Ctor != nil:
			ctor, err := lowerTypeCtor(v.Ctor)
			if err != nil {
				return nil, err
			}

			out.Ctors = append(out.Ctors, CtorVariant{Pos: v.Begin(), Attrs: attrs, Ctor: *ctor})

		case v.Name != nil:
			out.ScalarVariants = append(out.ScalarVariants, ScalarVariant{Pos: v.Begin(), Attrs: attrs, Name: *v.Name})

		default:
			return nil, errs.NewLowerError(token.NewNode(v.Begin(), v.Begin()), "sum type variant has neither name nor constructor")
		}
	}

	return out, nil
}

func lowerTypeCtor(c *parser.TypeCtor) (*TypeConstructor, error) {
	out := &TypeConstructor{Pos: c.Begin(), Name: c.Name}

	for _, f := range c.Fields {
		attrs, err := lowerAttrs(f.Attrs)
		if err != nil {
			return nil, err
		}

		ty, err := lowerTypeExpr(f.Type)
		if err != nil {
			return nil, err
		}

		out.Fields = append(out.Fields, Field{
			Pos: f.Begin(), Attrs: attrs, Optional: f.Optional, Type: ty, Name: f.Name,
		})
	}

	return out, nil
}

func lowerTypeExpr(t *parser.TypeExpr) (RSDLType, error) {
	pos := t.Begin()

	switch {
	case t.List != nil:
		inner, err := lowerTypeExpr(t.List.Inner)
		if err != nil {
			return nil, err
		}

		return &TypeList{Pos: pos, Inner: inner}, nil

	case t.Record != nil:
		inner, err := lowerTypeExpr(t.Record.Value)
		if err != nil {
			return nil, err
		}

		return &TypeRecord{Pos: pos, Inner: inner}, nil

	case t.Native != nil:
		mapping := make(map[string]string, len(t.Native.Entries))
		for _, e := range t.Native.Entries {
			mapping[e.Lang] = decodeString(e.Value)
		}

		return &TypeNative{Pos: pos, Mapping: mapping}, nil

	case t.Ident != nil:
		return &TypeIdentifier{Pos: pos, Name: *t.Ident}, nil

	default:
		return nil, errs.NewLowerError(token.NewNode(pos, pos), "type expression has no recognized form")
	}
}

func lowerAttrs(attrs []*parser.Attr) ([]AttrItem, error) {
	var out []AttrItem

	for _, a := range attrs {
		item, err := lowerAttrItem(a.Item)
		if err != nil {
			return nil, err
		}

		out = append(out, item)
	}

	return out, nil
}

func lowerAttrItem(a *parser.AttrItem) (AttrItem, error) {
	pos := a.Begin()

	switch {
	case a.Assign != nil:
		value, err := lowerAttrItem(a.Assign.Value)
		if err != nil {
			return nil, err
		}

		return &AttrAssign{Pos: pos, Name: a.Assign.Name, Value: value}, nil

	case a.Call != nil:
		args := make([]AttrItem, 0, len(a.Call.Args))
		for _, arg := range a.Call.Args {
			item, err := lowerAttrItem(arg)
			if err != nil {
				return nil, err
			}

			args = append(args, item)
		}

		return &AttrCall{Pos: pos, Name: a.Call.Name, Args: args}, nil

	case a.Ident != nil:
		return &AttrIdent{Pos: pos, Name: *a.Ident}, nil

	case a.Str != nil:
		return &AttrStr{Pos: pos, Value: decodeString(*a.Str)}, nil

	default:
		return nil, errs.NewLowerError(token.NewNode(pos, pos), "attribute item has no recognized form")
	}
}

// decodeString strips the surrounding quotes captured by the String token
// and decodes the four recognized escape sequences: \n \r \t \".
func decodeString(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}

	var sb strings.Builder
	sb.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				sb.WriteByte('\n')
				i++
				continue
			case 'r':
				sb.WriteByte('\r')
				i++
				continue
			case 't':
				sb.WriteByte('\t')
				i++
				continue
			case '"':
				sb.WriteByte('"')
				i++
				continue
			}
		}

		sb.WriteByte(c)
	}

	return sb.String()
}
