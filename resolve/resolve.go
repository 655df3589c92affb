// Package resolve implements the two-pass resolver of spec.md §4.4/§4.5: a
// declare pass that builds a global symbol table across every loaded file,
// and a reference-check pass — run only after every file has been declared
// — that verifies every type reference is closed over that table.
package resolve

import (
	"github.com/sdllang/sdlc/errs"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/token"
)

// DefaultDiscriminant is the default tag field name for sum types (spec.md §6, -d flag).
const DefaultDiscriminant = "$kind"

// Symbol is one entry in the global symbol table (known_types).
type Symbol struct {
	Name string
	File string
	// Type is the aliased RSDLType for alias entries; nil otherwise.
	Type hir.RSDLType
	// IsInline records whether the entry was declared with the [inline] attribute.
	IsInline bool
}

// Context accumulates the symbol table across all lowered files. It is
// built incrementally during the declare pass and treated as read-only
// thereafter (see spec.md §3, Lifecycle).
type Context struct {
	GlobalAttr   []hir.AttrItem
	Discriminant string
	knownTypes   map[string]Symbol
}

// New creates an empty Context with the given discriminant field name.
// Pass resolve.DefaultDiscriminant when the CLI -d flag was not given.
func New(discriminant string) *Context {
	if discriminant == "" {
		discriminant = DefaultDiscriminant
	}

	return &Context{
		Discriminant: discriminant,
		knownTypes:   make(map[string]Symbol),
	}
}

// Lookup returns the symbol table entry for name, if any.
func (c *Context) Lookup(name string) (Symbol, bool) {
	s, ok := c.knownTypes[name]
	return s, ok
}

// Len returns the number of distinct symbols currently registered.
func (c *Context) Len() int {
	return len(c.knownTypes)
}

func (c *Context) register(file, name string, ty hir.RSDLType, inline bool) error {
	if existing, ok := c.knownTypes[name]; ok {
		return &errs.RedefinedSymbol{Name: name, PrevFile: existing.File, NewFile: file}
	}

	c.knownTypes[name] = Symbol{Name: name, File: file, Type: ty, IsInline: inline}

	return nil
}

// DeclareFile runs the declare pass over every TypeDef of f and merges f's
// GlobalAttrs into c.GlobalAttr. Forward references across files are
// tolerated because reference checking happens in a second, later pass.
func (c *Context) DeclareFile(f *hir.File) error {
	c.GlobalAttr = append(c.GlobalAttr, f.GlobalAttrs...)

	for _, def := range f.Defs {
		if err := c.Declare(def); err != nil {
			return err
		}
	}

	return nil
}

// Declare registers one TypeDef's name(s) into the symbol table.
func (c *Context) Declare(def hir.TypeDef) error {
	switch def.Kind {
	case hir.KindAlias:
		inline := hir.HasIdent(def.Attrs, "inline")
		return c.register(def.File, def.Alias.Name, def.Alias.Type, inline)

	case hir.KindSimple:
		return c.register(def.File, def.Simple.Name, nil, false)

	case hir.KindSum:
		if err := c.register(def.File, def.Sum.Name, nil, false); err != nil {
			return err
		}

		for _, ctor := range def.Sum.Ctors {
			if err := c.register(def.File, ctor.Ctor.Name, nil, false); err != nil {
				return err
			}
		}

		for _, variant := range def.Sum.ScalarVariants {
			if err := c.register(def.File, variant.Name, nil, false); err != nil {
				return err
			}
		}

		return nil

	default:
		return errs.NewLowerError(token.NewNode(def.Pos, def.Pos), "type definition has an unrecognized kind")
	}
}

// CheckFile runs the reference-check pass over every TypeDef of f. Must be
// called only after DeclareFile has run for every file in the program.
func (c *Context) CheckFile(f *hir.File) error {
	for _, def := range f.Defs {
		if err := c.Check(def); err != nil {
			return err
		}
	}

	return nil
}

// Check verifies that every Identifier(name) reachable from def is present
// in the symbol table.
func (c *Context) Check(def hir.TypeDef) error {
	switch def.Kind {
	case hir.KindAlias:
		if name, ok := c.unresolved(def.Alias.Type); !ok {
			return &errs.UnknownType{Name: name, ContainingType: def.Alias.Name, File: def.File}
		}

	case hir.KindSimple:
		for _, field := range def.Simple.Fields {
			if name, ok := c.unresolved(field.Type); !ok {
				return &errs.UnknownType{
					Name: name, ContainingType: def.Simple.Name,
					ContainingField: field.Name, File: def.File,
				}
			}
		}

	case hir.KindSum:
		for _, ctor := range def.Sum.Ctors {
			for _, field := range ctor.Ctor.Fields {
				if name, ok := c.unresolved(field.Type); !ok {
					return &errs.UnknownType{
						Name: name, ContainingType: ctor.Ctor.Name,
						ContainingField: field.Name, File: def.File,
					}
				}
			}
		}
	}

	return nil
}

// unresolved walks ty looking for the first Identifier absent from
// known_types. ok is true when ty is fully closed (or contains no
// identifiers, e.g. Native). List and Record recurse into their element
// type; Native requires no check.
func (c *Context) unresolved(ty hir.RSDLType) (name string, ok bool) {
	switch t := ty.(type) {
	case *hir.TypeIdentifier:
		if _, found := c.knownTypes[t.Name]; !found {
			return t.Name, false
		}

		return "", true

	case *hir.TypeList:
		return c.unresolved(t.Inner)

	case *hir.TypeRecord:
		return c.unresolved(t.Inner)

	case *hir.TypeNative:
		return "", true

	default:
		return "", true
	}
}
