// Package stdlib embeds the built-in standard-library schema shipped with
// the compiler (spec.md §6, "Standard Library Schema"): native type
// mappings for the handful of primitives every schema can reference
// without declaring them. Users may override it with --stdlib.
package stdlib

import _ "embed"

//go:embed stdlib.sdl
var Source string

// Name is the display name used for diagnostics when the built-in schema
// (as opposed to a user-supplied --stdlib override) is loaded.
const Name = "(stdlib)"
