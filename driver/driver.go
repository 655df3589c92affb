// Package driver orchestrates the full pipeline described in spec.md §2 and
// §6: load the standard library, walk the include graph, preprocess, parse,
// lower every file, resolve twice (declare, then check), run exactly one
// emitter, and write the result. No output file is ever produced on a
// failing run (spec.md §7).
package driver

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/participle/v2"
	"golang.org/x/mod/semver"

	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/errs"
	"github.com/sdllang/sdlc/hir"
	"github.com/sdllang/sdlc/parser"
	"github.com/sdllang/sdlc/preprocess"
	"github.com/sdllang/sdlc/resolve"
	"github.com/sdllang/sdlc/stdlib"
	"github.com/sdllang/sdlc/token"
)

// Options configures one compilation run; it mirrors the CLI surface of
// spec.md §6 so cmd/sdlc is a thin translation from flags to this struct.
type Options struct {
	InputPath    string
	OutputPath   string
	Mode         string
	Namespace    string
	StdlibPath   string
	Discriminant string

	// BuildInfo, if non-empty, is logged once before the pipeline starts
	// (supplemented from original_source/src/driver.rs's startup banner).
	BuildInfo string

	// Logger receives progress and warning lines. Defaults to log.Default().
	Logger *log.Logger
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return log.Default()
}

// Result carries the few pieces of pipeline state worth returning to a caller.
type Result struct {
	Output        string
	SchemaVersion string
}

// sourceFile is one preprocessed file awaiting parse+lowering, queued in
// include-BFS order.
type sourceFile struct {
	displayName string
	src         string
}

// Run executes the full pipeline and, on success, writes Output to
// opts.OutputPath.
func Run(opts Options, registry *emit.Registry) (*Result, error) {
	logger := opts.logger()

	if opts.BuildInfo != "" {
		logger.Printf("build info:\n%s", opts.BuildInfo)
		logger.Printf("loaded emitters: %v", registry.Tags())
	}

	factory, ok := registry.Lookup(opts.Mode)
	if !ok {
		return nil, &errs.EmitterError{Emitter: opts.Mode, Entity: "mode", Message: "no emitter registered for this language tag"}
	}

	var files []*hir.File

	stdlibFile, err := loadStdlib(opts, logger)
	if err != nil {
		return nil, err
	}
	files = append(files, stdlibFile)

	inputFiles, err := loadIncludeGraph(opts.InputPath, logger)
	if err != nil {
		return nil, err
	}
	files = append(files, inputFiles...)

	ctx := resolve.New(opts.Discriminant)

	for _, f := range files {
		if err := ctx.DeclareFile(f); err != nil {
			return nil, err
		}
	}

	for _, f := range files {
		if err := ctx.CheckFile(f); err != nil {
			return nil, err
		}
	}

	version, err := schemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	var allDefs []hir.TypeDef
	for _, f := range files {
		allDefs = append(allDefs, f.Defs...)
	}

	logger.Printf("generating output with emitter %q", factory.Name())
	gen := factory.New()

	output, err := emit.Run(gen, opts.Namespace, allDefs, ctx)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(opts.OutputPath, []byte(output), 0o644); err != nil {
		return nil, &errs.IOError{Path: opts.OutputPath, Op: "write", Err: err}
	}

	logger.Printf("wrote %s", opts.OutputPath)

	return &Result{Output: output, SchemaVersion: version}, nil
}

func loadStdlib(opts Options, logger *log.Logger) (*hir.File, error) {
	if opts.StdlibPath == "" {
		logger.Printf("loading built-in stdlib")
		return preprocessParseLower(stdlib.Name, stdlib.Source)
	}

	logger.Printf("loading stdlib override %s", opts.StdlibPath)

	content, err := os.ReadFile(opts.StdlibPath)
	if err != nil {
		return nil, &errs.IOError{Path: opts.StdlibPath, Op: "read", Err: err}
	}

	return preprocessParseLower(opts.StdlibPath, string(content))
}

// loadIncludeGraph performs the BFS of spec.md §6 starting at inputPath,
// then returns the discovered files lowered in reverse-of-BFS order so
// that dependencies tend to precede dependents while still tolerating
// forward references (resolution remains a two-pass design).
func loadIncludeGraph(inputPath string, logger *log.Logger) ([]*hir.File, error) {
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, &errs.IOError{Path: inputPath, Op: "canonicalize", Err: err}
	}

	workdir := filepath.Dir(absInput)

	visited := make(map[string]bool)
	queue := []string{absInput}
	var bfsOrder []sourceFile

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		if visited[path] {
			logger.Printf("warning: file %s already processed, skipping", path)
			continue
		}
		visited[path] = true

		logger.Printf("preprocessing %s", path)

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &errs.IOError{Path: path, Op: "read", Err: err}
		}

		result := preprocess.Run(path, string(content))
		for _, w := range result.Warnings {
			logger.Print(w.String())
		}

		bfsOrder = append(bfsOrder, sourceFile{displayName: path, src: result.OutputSrc})

		for _, inc := range result.Includes {
			incPath, err := filepath.Abs(filepath.Join(workdir, inc))
			if err != nil {
				return nil, &errs.IOError{Path: inc, Op: "resolve include", Err: err}
			}

			queue = append(queue, incPath)
		}
	}

	files := make([]*hir.File, 0, len(bfsOrder))
	for i := len(bfsOrder) - 1; i >= 0; i-- {
		sf := bfsOrder[i]

		logger.Printf("parsing %s", sf.displayName)

		f, err := preprocessParseLowerAlreadyPreprocessed(sf.displayName, sf.src)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return files, nil
}

func preprocessParseLower(name, src string) (*hir.File, error) {
	result := preprocess.Run(name, src)
	return preprocessParseLowerAlreadyPreprocessed(name, result.OutputSrc)
}

func preprocessParseLowerAlreadyPreprocessed(name, preprocessedSrc string) (*hir.File, error) {
	prog, err := parser.Parse(name, preprocessedSrc)
	if err != nil {
		return nil, errs.NewParseError(parseErrNode(name, err), err.Error())
	}

	return hir.Lower(name, prog)
}

// parseErrNode recovers a position from a participle grammar error so the
// surrounding ParseError can still be run through token.Explain. Falls back
// to the top of the file when err carries no position.
func parseErrNode(name string, err error) token.Node {
	var perr participle.Error
	if errors.As(err, &perr) {
		p := perr.Position()
		return token.NewNode(
			token.Pos{File: name, Line: p.Line, Col: p.Column},
			token.Pos{File: name, Line: p.Line, Col: p.Column},
		)
	}

	return token.NewNode(token.Pos{File: name, Line: 1, Col: 1}, token.Pos{File: name, Line: 1, Col: 1})
}

// schemaVersion looks for a [version("vX.Y.Z")] global attribute and, if
// present, validates it with semver — the version-stamp supplement of
// SPEC_FULL.md's domain stack section.
func schemaVersion(ctx *resolve.Context) (string, error) {
	lines, err := hir.ExtractDocLines(ctx.GlobalAttr, "version")
	if err != nil {
		return "", err
	}

	if len(lines) == 0 {
		return "", nil
	}

	v := lines[0]
	if !semver.IsValid(v) {
		return "", fmt.Errorf("global_attr version(%q) is not a valid semantic version", v)
	}

	return v, nil
}
