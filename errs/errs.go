// Package errs defines the compiler's error taxonomy (see spec §7) as a
// set of concrete types instead of an opaque string, so callers can branch
// on the failure kind with errors.As.
package errs

import (
	"fmt"

	"github.com/sdllang/sdlc/token"
)

// IOError wraps a file read/write or canonicalization failure.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// PreprocessWarning is a malformed-directive diagnostic. It is collected,
// not returned: the preprocessor keeps running after emitting one.
type PreprocessWarning struct {
	File    string
	Line    int
	Message string
}

func (w PreprocessWarning) String() string {
	return fmt.Sprintf("%s:%d: warning: %s", w.File, w.Line, w.Message)
}

// ParseError reports a grammar failure. Fatal, no recovery.
type ParseError struct {
	*token.PosError
}

func NewParseError(node token.Node, msg string) *ParseError {
	return &ParseError{token.NewPosError(node, msg)}
}

// Unwrap exposes the embedded PosError so token.Explain can find it.
func (e *ParseError) Unwrap() error { return e.PosError }

// LowerError reports an inconsistency between the grammar and the
// lowering step. Should be unreachable when grammar and lowerer agree;
// treated as a fatal assertion failure rather than a panic so the driver
// can still report file/position context.
type LowerError struct {
	*token.PosError
}

func NewLowerError(node token.Node, msg string) *LowerError {
	return &LowerError{token.NewPosError(node, msg)}
}

// Unwrap exposes the embedded PosError so token.Explain can find it.
func (e *LowerError) Unwrap() error { return e.PosError }

// RedefinedSymbol reports that a name entered the global symbol table twice.
type RedefinedSymbol struct {
	Name     string
	PrevFile string
	NewFile  string
}

func (e *RedefinedSymbol) Error() string {
	return fmt.Sprintf("redefined symbol %q: previously defined in %s, redefined in %s", e.Name, e.PrevFile, e.NewFile)
}

// UnknownType reports a reference to a name absent from known_types.
type UnknownType struct {
	Name           string
	ContainingType string
	ContainingField string
	File           string
}

func (e *UnknownType) Error() string {
	if e.ContainingField != "" {
		return fmt.Sprintf("%s: type %s, field %s: unknown type %q", e.File, e.ContainingType, e.ContainingField, e.Name)
	}

	return fmt.Sprintf("%s: type %s: unknown type %q", e.File, e.ContainingType, e.Name)
}

// ReservedIdentClash reports that an emitted identifier collides with the
// active emitter's reserved-identifier list. Raised before any output is written.
type ReservedIdentClash struct {
	Emitter       string
	File          string
	QualifiedName string
}

func (e *ReservedIdentClash) Error() string {
	return fmt.Sprintf("%s: emitter %q: identifier %q clashes with a reserved word", e.File, e.Emitter, e.QualifiedName)
}

// EmitterError wraps an emitter-specific failure: unsupported namespace,
// missing native mapping, malformed attribute, and similar.
type EmitterError struct {
	Emitter string
	File    string
	Entity  string
	Message string
}

func (e *EmitterError) Error() string {
	return fmt.Sprintf("%s: emitter %q: %s: %s", e.File, e.Emitter, e.Entity, e.Message)
}
