// Package docbuilder implements Doc, the indentation-aware line
// accumulator of spec.md §4.6. Emitters build a tree of DocBlocks instead
// of threading an indent integer through every call; rendering then
// produces correctly indented text in one pass.
package docbuilder

import (
	"fmt"
	"strings"
)

type leafKind int

const (
	leafText leafKind = iota
	leafEmptyLine
	leafBlock
)

type leaf struct {
	kind  leafKind
	text  string
	block *Doc
}

// Doc is a nestable line accumulator. A Doc's own Indent is the additional
// indentation (in spaces) contributed on top of its parent's cumulative
// indent; the root Doc normally has Indent == 0.
type Doc struct {
	Indent int
	leaves []leaf
}

// New creates a root Doc with no additional indentation.
func New() *Doc {
	return &Doc{}
}

// Text appends a single logical line, written at the current indentation.
func (d *Doc) Text(s string) *Doc {
	d.leaves = append(d.leaves, leaf{kind: leafText, text: s})
	return d
}

// TextLiteral is Text for a value known not to need further formatting;
// kept as a distinct call so emitters can tell constant headers/footers
// apart from computed lines at a glance.
func (d *Doc) TextLiteral(s string) *Doc {
	return d.Text(s)
}

// Linef appends a formatted line.
func (d *Doc) Linef(format string, args ...interface{}) *Doc {
	return d.Text(fmt.Sprintf(format, args...))
}

// EmptyLine appends a blank line. A literal newline not prefixed by
// indentation; if it ends up last in its container once rendering
// completes, it is elided, so trailing blank lines never appear.
func (d *Doc) EmptyLine() *Doc {
	d.leaves = append(d.leaves, leaf{kind: leafEmptyLine})
	return d
}

// Block creates, appends, and returns a new nested Doc whose own indent is
// indent spaces beyond this Doc's cumulative indent. Lines written to the
// returned Doc are rendered with that cumulative indent.
func (d *Doc) Block(indent int) *Doc {
	child := &Doc{Indent: indent}
	d.leaves = append(d.leaves, leaf{kind: leafBlock, block: child})
	return child
}

// String renders the Doc to text. Every non-empty leaf carries one
// trailing newline; a terminal EmptyLine in any container is elided.
func (d *Doc) String() string {
	var sb strings.Builder
	d.render(&sb, 0)
	return sb.String()
}

func (d *Doc) render(sb *strings.Builder, cumIndent int) {
	for i, l := range d.leaves {
		last := i == len(d.leaves)-1

		switch l.kind {
		case leafText:
			sb.WriteString(strings.Repeat(" ", cumIndent))
			sb.WriteString(l.text)
			sb.WriteByte('\n')

		case leafEmptyLine:
			if last {
				continue
			}

			sb.WriteByte('\n')

		case leafBlock:
			l.block.render(sb, cumIndent+l.block.Indent)
		}
	}
}
