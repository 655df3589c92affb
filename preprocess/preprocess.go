// Package preprocess implements the per-file textual pass described in
// spec.md §4.1: it strips line comments, interprets include directives,
// and preserves line numbering so later diagnostics still point at the
// original source line.
package preprocess

import (
	"path/filepath"
	"strings"

	"github.com/sdllang/sdlc/errs"
)

// Result is the outcome of preprocessing one file.
type Result struct {
	// OutputSrc is the source with comments stripped and directive lines
	// replaced by blank lines, one output line per input line.
	OutputSrc string
	// Includes is the list of included paths, in textual order.
	Includes []string
	// Warnings collects non-fatal diagnostics for malformed directives.
	Warnings []errs.PreprocessWarning
}

// Run preprocesses src, which was read from the file named fname (used only
// for diagnostics).
func Run(fname, src string) Result {
	var out strings.Builder
	var includes []string
	var warnings []errs.PreprocessWarning

	lines := strings.Split(src, "\n")
	for idx, line := range lines {
		lineno := idx + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "#!"):
			out.WriteByte('\n')

		case strings.HasPrefix(trimmed, "#include "):
			rest := strings.TrimSpace(trimmed[len("#include "):])
			if !strings.HasPrefix(rest, `"`) || !strings.HasSuffix(rest, `"`) || len(rest) < 2 {
				warnings = append(warnings, errs.PreprocessWarning{
					File: fname, Line: lineno,
					Message: "malformed #include directive: " + line,
				})
				out.WriteByte('\n')
				continue
			}

			includes = append(includes, rest[1:len(rest)-1])
			out.WriteByte('\n')

		case strings.HasPrefix(trimmed, "#"):
			warnings = append(warnings, errs.PreprocessWarning{
				File: fname, Line: lineno,
				Message: "unrecognized preprocessor directive: " + line,
			})
			out.WriteByte('\n')

		case strings.HasPrefix(trimmed, "include "):
			module := strings.TrimSpace(trimmed[len("include "):])
			parts := strings.Split(module, ".")
			modPath := strings.Join(parts, string(filepath.Separator)) + ".asdl"
			includes = append(includes, modPath)
			out.WriteByte('\n')

		default:
			stripped := line
			if i := strings.Index(line, "--"); i >= 0 {
				stripped = line[:i]
			}
			out.WriteString(stripped)
			out.WriteByte('\n')
		}
	}

	return Result{
		OutputSrc: out.String(),
		Includes:  includes,
		Warnings:  warnings,
	}
}
