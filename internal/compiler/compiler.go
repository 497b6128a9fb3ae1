// Package compiler wires the front end's passes into a single pipeline:
// lexer -> parser (token buffer + AST builder) -> name-declaration ->
// type-table -> potential-type -> type-selection. A Config value goes
// in, a Result value comes out; the core itself never logs.
package compiler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dfrunza/ashp4c-sub003/internal/lexer"
	"github.com/dfrunza/ashp4c-sub003/internal/parser"
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/internal/sema"
	"github.com/dfrunza/ashp4c-sub003/internal/sidetables"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// Config holds everything one compilation run needs.
type Config struct {
	Filename string
	Source   []byte

	// TraceScopes and DumpTypes are driver-only debug toggles; the core
	// pipeline never reads them, but threads them through so cmd/p4fc
	// can decide what to print after a Run.
	TraceScopes bool
	DumpTypes   bool
}

// Stats records per-pass wall-clock timing, surfaced to cmd/p4fc's
// --verbose flag; the core returns numbers rather than logging.
type Stats struct {
	Lex, Parse, NameDecl, TypeTable, Potype, Select time.Duration
}

// Result is everything a caller needs after a Run: the AST root, the
// scope graph, the type pool, and the per-node side tables, exposed
// read-only to downstream passes.
type Result struct {
	RunID string

	Root   *ast.Node
	Root0  *scope.Scope
	Tables *sidetables.Tables

	Stats Stats
	Errs  errors.List
}

// ExitCode classifies which phase (if any) failed, for the driver to
// map onto its process exit codes.
type ExitCode int

const (
	ExitOK ExitCode = iota
	ExitParseError
	ExitSemanticError
)

// Run executes the full pipeline over cfg.Source, stopping at the first
// phase that reports an error; there is no local recovery.
func Run(cfg Config) (*Result, ExitCode) {
	res := &Result{RunID: uuid.NewString()}

	lexStart := time.Now()
	toks, _, lexErrs := lexer.ScanAll(cfg.Filename, cfg.Source)
	res.Stats.Lex = time.Since(lexStart)
	if len(lexErrs) > 0 {
		res.Errs = lexErrs
		return res, ExitParseError
	}

	parseStart := time.Now()
	root, parseErrs := parser.ParseFile(toks)
	res.Stats.Parse = time.Since(parseStart)
	res.Root = root
	if len(parseErrs) > 0 {
		res.Errs = parseErrs
		return res, ExitParseError
	}

	root0 := scope.New(nil)
	for name, kind := range token.Keywords {
		root0.BindKeyword(name, int(kind))
	}
	typeTable := types.NewTable()
	types.InstallBuiltins(typeTable, root0)
	tables := sidetables.New(typeTable)
	res.Root0 = root0
	res.Tables = tables

	nameStart := time.Now()
	resolver := sema.NewResolver(tables, root0)
	nameErrs := resolver.Resolve(root)
	res.Stats.NameDecl = time.Since(nameStart)
	if len(nameErrs) > 0 {
		res.Errs = nameErrs
		return res, ExitSemanticError
	}

	ttStart := time.Now()
	sema.NewTypeBuilder(tables).Build(root)
	res.Stats.TypeTable = time.Since(ttStart)

	potStart := time.Now()
	pb := sema.NewPotypeBuilder(tables)
	pb.Build(root)
	res.Stats.Potype = time.Since(potStart)
	if errs := pb.Errors(); len(errs) > 0 {
		res.Errs = errs
		return res, ExitSemanticError
	}

	selStart := time.Now()
	ts := sema.NewTypeSelector(tables)
	selErrs := ts.Select(root)
	res.Stats.Select = time.Since(selStart)
	if len(selErrs) > 0 {
		res.Errs = selErrs
		return res, ExitSemanticError
	}

	return res, ExitOK
}
