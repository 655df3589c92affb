// Copyright 2021 Torben Schinke
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements the PEG-style grammar of spec.md §4.2: a
// participle-driven concrete parse tree with a single nonterminal entry
// point, Program.
package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sdllang/sdlc/token"
)

func wrapPos(p lexer.Position) token.Pos {
	return token.Pos{File: p.Filename, Line: p.Line, Col: p.Column}
}

// Program is the root of the grammar: program := (global_attr | type_def)*
type Program struct {
	Pos   lexer.Position
	Items []*ProgramItem `@@*`
}

func (n *Program) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Program) End() token.Pos   { return wrapPos(n.Pos) }

// ProgramItem is either a top-level global attribute statement or a type_def.
type ProgramItem struct {
	Pos    lexer.Position
	Global *GlobalAttr `( @@`
	Def    *TypeDef    `| @@ )`
}

func (n *ProgramItem) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ProgramItem) End() token.Pos   { return wrapPos(n.Pos) }

// GlobalAttr is a bare attribute item declared at program scope, accumulated
// into the resolver's global attribute list (see spec.md §3, Resolve Context).
type GlobalAttr struct {
	Pos  lexer.Position
	Item *AttrItem `"global_attr" @@ ";"`
}

func (n *GlobalAttr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *GlobalAttr) End() token.Pos   { return wrapPos(n.Pos) }

// Attr is a bracketed attribute attached to a type_def, field, or variant:
// attr := '[' attr_item ']'
type Attr struct {
	Pos  lexer.Position
	Item *AttrItem `"[" @@ "]"`
}

func (n *Attr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Attr) End() token.Pos   { return wrapPos(n.Pos) }

// AttrItem is the open attribute grammar:
//
//	attr_item := ident '=' attr_item | ident '(' attr_item (',' attr_item)* ')' | ident | string
type AttrItem struct {
	Pos    lexer.Position
	Assign *AttrAssign `( @@`
	Call   *AttrCall   `| @@`
	Ident  *string     `| @Ident`
	Str    *string     `| @String )`
}

func (n *AttrItem) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *AttrItem) End() token.Pos   { return wrapPos(n.Pos) }

type AttrAssign struct {
	Name  string    `@Ident "="`
	Value *AttrItem `@@`
}

type AttrCall struct {
	Name string      `@Ident "("`
	Args []*AttrItem `( @@ ("," @@)* )? ")"`
}

// TypeExpr is the type grammar:
//
//	type := ident | list_type | record_type | native_type
type TypeExpr struct {
	Pos    lexer.Position
	List   *ListType   `( @@`
	Record *RecordType `| @@`
	Native *NativeType `| @@`
	Ident  *string     `| @Ident )`
}

func (n *TypeExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *TypeExpr) End() token.Pos   { return wrapPos(n.Pos) }

// ListType is 'list<' type '>'.
type ListType struct {
	Inner *TypeExpr `"list" "<" @@ ">"`
}

// RecordType is 'record<' ident ',' type '>'. Keys are always string; the
// ident names the (unused) key type placeholder for grammar symmetry.
type RecordType struct {
	KeyIdent string    `"record" "<" @Ident ","`
	Value    *TypeExpr `@@ ">"`
}

// NativeType is 'native(' (ident '=>' string (',' ident '=>' string)*)? ')'
type NativeType struct {
	Pos     lexer.Position
	Entries []*NativeEntry `"native" "(" ( @@ ("," @@)* )? ")"`
}

func (n *NativeType) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *NativeType) End() token.Pos   { return wrapPos(n.Pos) }

type NativeEntry struct {
	Lang  string `@Ident "=>"`
	Value string `@String`
}

// Field is: attr* ident optional_mark? ':' type
type Field struct {
	Pos      lexer.Position
	Attrs    []*Attr   `@@*`
	Name     string    `@Ident`
	Optional bool      `@Optional?`
	Type     *TypeExpr `":" @@`
}

func (n *Field) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Field) End() token.Pos   { return wrapPos(n.Pos) }

// TypeCtor is: ident '(' field_list? ')'  where field_list := field (',' field)*
type TypeCtor struct {
	Pos    lexer.Position
	Name   string   `@Ident "("`
	Fields []*Field `( @@ ("," @@)* )? ")"`
}

func (n *TypeCtor) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *TypeCtor) End() token.Pos   { return wrapPos(n.Pos) }

// TypeAlias is: ident '=' type
type TypeAlias struct {
	Pos  lexer.Position
	Name string    `@Ident "="`
	Type *TypeExpr `@@`
}

func (n *TypeAlias) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *TypeAlias) End() token.Pos   { return wrapPos(n.Pos) }

// Variant is: attr* (ident | type_ctor)
type Variant struct {
	Pos   lexer.Position
	Attrs []*Attr   `@@*`
	Ctor  *TypeCtor `( @@`
	Name  *string   `| @Ident )`
}

func (n *Variant) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Variant) End() token.Pos   { return wrapPos(n.Pos) }

// SumTypeDef is: ident ':' variant ('|' variant)*
type SumTypeDef struct {
	Pos      lexer.Position
	Name     string     `@Ident ":"`
	Variants []*Variant `@@ ("|" @@)*`
}

func (n *SumTypeDef) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *SumTypeDef) End() token.Pos   { return wrapPos(n.Pos) }

// TypeDef is: attr* (type_alias | sum_type | type_ctor)
type TypeDef struct {
	Pos   lexer.Position
	Attrs []*Attr     `@@*`
	Alias *TypeAlias  `( @@`
	Sum   *SumTypeDef `| @@`
	Ctor  *TypeCtor   `| @@ )`
}

func (n *TypeDef) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *TypeDef) End() token.Pos   { return wrapPos(n.Pos) }
