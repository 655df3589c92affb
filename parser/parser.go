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

package parser

import (
	"bytes"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	// sString denotes an arbitrary string literal with quoted ", e.g. 'hello world' or 'hello\"world\"'.
	sString = `"(\\"|[^"])*"`

	// sIdent is any bare identifier naming a type, field, attribute, or variant.
	sIdent = `[a-zA-Z_][a-zA-Z0-9_]*`
)

var (
	buildOnce sync.Once
	built     *participle.Parser[Program]
	buildErr  error
)

func build() (*participle.Parser[Program], error) {
	buildOnce.Do(func() {
		lex := lexer.MustSimple([]lexer.SimpleRule{
			{Name: "comment", Pattern: `--[^\n]*`},
			{Name: "Arrow", Pattern: `=>`},
			{Name: "Optional", Pattern: `\?`},
			{Name: "String", Pattern: sString},
			{Name: "Ident", Pattern: sIdent},
			{Name: "Punct", Pattern: `[\[\]\(\)\{\}=<>|,:;]`},
			{Name: "whitespace", Pattern: `\s+`},
		})

		built, buildErr = participle.Build[Program](
			participle.Lexer(lex),
			participle.Elide("whitespace", "comment"),
			participle.UseLookahead(8),
		)
	})

	return built, buildErr
}

// Parse parses preprocessed source text (see package preprocess) named fname
// and returns the concrete parse tree rooted at Program. Parse failure
// aborts with a participle.Error carrying file/line/col — wrap it with
// errs.NewParseError at the call site for the project's diagnostic format.
func Parse(fname, src string) (*Program, error) {
	p, err := build()
	if err != nil {
		return nil, err
	}

	prog := &Program{}
	err = p.Parse(fname, bytes.NewReader([]byte(src)), prog)
	if err != nil {
		return nil, err
	}

	return prog, nil
}
