package sema

import (
	"testing"

	"github.com/dfrunza/ashp4c-sub003/internal/lexer"
	"github.com/dfrunza/ashp4c-sub003/internal/parser"
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/internal/sidetables"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// parseProgram lexes and parses src, failing the test on any lex or parse
// error so every sema test starts from a known-good tree.
func parseProgram(t *testing.T, src string) *ast.Node {
	t.Helper()
	toks, _, lexErrs := lexer.ScanAll("t.p4", []byte(src))
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	root, parseErrs := parser.ParseFile(toks)
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	return root
}

// freshTables builds a root scope seeded with keywords and builtins, and an
// empty set of side tables, exactly as internal/compiler.Run does before
// handing off to the name-declaration pass.
func freshTables(t *testing.T) (*scope.Scope, *sidetables.Tables) {
	t.Helper()
	root0 := scope.New(nil)
	for name, kind := range token.Keywords {
		root0.BindKeyword(name, int(kind))
	}
	tt := types.NewTable()
	types.InstallBuiltins(tt, root0)
	return root0, sidetables.New(tt)
}

// resolved runs the name-declaration pass over src and fails the test if it
// reports any error, returning the root node and populated tables for a
// later pass to build on.
func resolved(t *testing.T, src string) (*ast.Node, *sidetables.Tables) {
	t.Helper()
	root := parseProgram(t, src)
	root0, tables := freshTables(t)
	if errs := NewResolver(tables, root0).Resolve(root); len(errs) != 0 {
		t.Fatalf("unexpected name-resolution errors: %v", errs)
	}
	return root, tables
}

// typed runs the name-declaration and type-table passes over src.
func typed(t *testing.T, src string) (*ast.Node, *sidetables.Tables) {
	t.Helper()
	root, tables := resolved(t, src)
	NewTypeBuilder(tables).Build(root)
	return root, tables
}

// potyped runs the name-declaration, type-table, and potential-type passes
// over src, failing the test if the potential-type pass reports an
// UNKNOWN_NAME error.
func potyped(t *testing.T, src string) (*ast.Node, *sidetables.Tables) {
	t.Helper()
	root, tables := typed(t, src)
	pb := NewPotypeBuilder(tables)
	pb.Build(root)
	if errs := pb.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected potential-type errors: %v", errs)
	}
	return root, tables
}

// selected runs all four passes over src, failing the test if the
// type-selection pass reports any error.
func selected(t *testing.T, src string) (*ast.Node, *sidetables.Tables) {
	t.Helper()
	root, tables := potyped(t, src)
	sel := NewTypeSelector(tables)
	if errs := sel.Select(root); len(errs) != 0 {
		t.Fatalf("unexpected type-selection errors: %v", errs)
	}
	return root, tables
}
