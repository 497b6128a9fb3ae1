// Package sema implements the semantic passes that run after parsing:
// name declaration, type-table construction, potential-type
// computation, and type selection. Each pass is a recursive walk over
// the immutable AST that writes into its own side table; later passes
// read what earlier ones wrote.
package sema

import (
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/internal/sidetables"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
)

// Resolver runs the name-declaration pass: a single post-order-ish walk
// (declarations are bound on entry, bodies descended into with the new
// scope, use-sites recorded as seen) that populates scope_map,
// field_map, and opened_scopes.
type Resolver struct {
	tables *sidetables.Tables
	scope  *scope.Scope
	errs   errors.List
}

// NewResolver creates a Resolver rooted at root (the same scope that
// internal/types.InstallBuiltins populated).
func NewResolver(tables *sidetables.Tables, root *scope.Scope) *Resolver {
	return &Resolver{tables: tables, scope: root}
}

// Errors returns the REDECLARATION errors accumulated so far.
func (r *Resolver) Errors() errors.List { return r.errs }

// Resolve walks the program root, populating the side tables.
func (r *Resolver) Resolve(root *ast.Node) errors.List {
	r.walkProgram(root)
	return r.errs
}

func (r *Resolver) pushScope(opener *ast.Node) *scope.Scope {
	prev := r.scope
	r.scope = scope.New(prev)
	r.tables.OpenedScopes.Set(opener, r.scope)
	return prev
}

func (r *Resolver) popScope(prev *scope.Scope) { r.scope = prev }

// fieldScope returns (creating if necessary) the non-lexical member
// scope attached to a struct/header/union/enum/error/match_kind/table
// declaration, so member selection can look fields up by name without
// the fields leaking into the lexical chain.
func (r *Resolver) fieldScope(decl *ast.Node) *scope.Scope {
	if s, ok := r.tables.FieldMap.Get(decl); ok {
		return s
	}
	s := scope.New(nil)
	r.tables.FieldMap.Set(decl, s)
	return s
}

// bind records a declaration, applying the shadowable-vs-not policy:
// variables/instantiations/table-names/parser-states may shadow;
// type-kinded, package-kinded, and parameter names may not.
func (r *Resolver) bind(s *scope.Scope, name string, ns scope.Namespace, node *ast.Node, shadowable bool) *scope.NameDeclaration {
	if !shadowable {
		if existing := scope.LookupCurrent(s, name, ns); existing != nil {
			firstPos := "<built-in>"
			if existing.Node != nil {
				firstPos = existing.Node.Pos.Position().String()
			}
			r.errs.Add(errors.Newf(errors.Redeclaration, node.Pos,
				"%q redeclared in this scope (first declared at %s)", name, firstPos))
			return existing
		}
	}
	decl := s.Bind(name, ns, node)
	r.tables.DeclMap.Set(node, decl)
	return decl
}

func (r *Resolver) recordUse(n *ast.Node) {
	if n == nil {
		return
	}
	r.tables.ScopeMap.Set(n, r.scope)
}

func (r *Resolver) walkProgram(root *ast.Node) {
	list := root.Child(0)
	if list == nil {
		return
	}
	for _, d := range list.Children() {
		r.walkTopDecl(d)
	}
}

func (r *Resolver) walkTopDecl(n *ast.Node) {
	switch n.Kind {
	case ast.ParserDeclaration:
		r.walkParser(n)
	case ast.ControlDeclaration:
		r.walkControl(n)
	case ast.ExternDeclaration:
		r.walkExtern(n)
	case ast.PackageTypeDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Type, n, false)
		prev := r.pushScope(n)
		r.walkChildren(n)
		r.popScope(prev)
	case ast.Instantiation:
		r.bind(r.scope, n.DeclName(), scope.Var, n, true)
		r.walkChildren(n)
	case ast.VariableDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Var, n, true)
		r.walkChildren(n)
	case ast.TypedefDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Type, n, false)
		r.walkChildren(n)
	case ast.HeaderTypeDeclaration, ast.HeaderUnionDeclaration, ast.StructTypeDeclaration:
		r.walkFieldedType(n)
	case ast.EnumDeclaration:
		r.walkMemberType(n)
	case ast.ErrorDeclaration, ast.MatchKindDeclaration:
		r.walkOpenMemberType(n)
	case ast.FunctionDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Type, n, false)
		r.walkFunctionBody(n)
	default:
		r.walkChildren(n)
	}
}

func (r *Resolver) walkParser(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Type, n, false)
	prev := r.pushScope(n)
	r.bindBuiltinParserStates()
	r.walkParameterList(n.Child(0))
	r.walkParameterList(n.Child(1)) // constructor parameters
	locals := n.Child(2)
	for _, l := range locals.Children() {
		r.walkParserLocal(l)
	}
	states := n.Child(3)
	for _, st := range states.Children() {
		r.walkParserState(st)
	}
	r.popScope(prev)
}

// bindBuiltinParserStates binds "accept" and "reject" into the current
// (just-pushed) parser scope, so every parser's implicit terminal states
// resolve as VAR-namespace names without needing a state declaration of
// their own.
func (r *Resolver) bindBuiltinParserStates() {
	accept := &ast.Node{Kind: ast.ParserState, Payload: &ast.DeclPayload{Name: "accept"}}
	reject := &ast.Node{Kind: ast.ParserState, Payload: &ast.DeclPayload{Name: "reject"}}
	r.bind(r.scope, "accept", scope.Var, accept, true)
	r.bind(r.scope, "reject", scope.Var, reject, true)
}

func (r *Resolver) walkParserLocal(n *ast.Node) {
	switch n.Kind {
	case ast.Instantiation:
		r.bind(r.scope, n.DeclName(), scope.Var, n, true)
	case ast.VariableDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Var, n, true)
	}
	r.walkChildren(n)
}

func (r *Resolver) walkParserState(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Var, n, true)
	prev := r.pushScope(n)
	r.walkChildren(n)
	r.popScope(prev)
}

func (r *Resolver) walkControl(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Type, n, false)
	prev := r.pushScope(n)
	r.walkParameterList(n.Child(0))
	r.walkParameterList(n.Child(1)) // constructor parameters
	locals := n.Child(2)
	for _, l := range locals.Children() {
		r.walkControlLocal(l)
	}
	apply := n.Child(3)
	r.walkStatement(apply)
	r.popScope(prev)
}

func (r *Resolver) walkControlLocal(n *ast.Node) {
	switch n.Kind {
	case ast.ActionDeclaration:
		r.walkAction(n)
	case ast.TableDeclaration:
		r.walkTable(n)
	case ast.Instantiation, ast.VariableDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Var, n, true)
		r.walkChildren(n)
	}
}

func (r *Resolver) walkAction(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Type, n, false)
	prev := r.pushScope(n)
	r.walkParameterList(n.Child(0))
	r.walkStatement(n.Child(1))
	r.popScope(prev)
}

func (r *Resolver) walkTable(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Var, n, true)
	fs := r.fieldScope(n)
	props := n.Child(0)
	for _, prop := range props.Children() {
		fs.Bind(prop.DeclName(), scope.Var, prop)
		r.walkChildren(prop)
	}
}

func (r *Resolver) walkExtern(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Type, n, false)
	fs := r.fieldScope(n)
	for _, m := range n.Children() {
		fs.Bind(m.DeclName(), scope.Var, m)
		prev := r.pushScope(m)
		r.walkChildren(m)
		r.popScope(prev)
	}
}

func (r *Resolver) walkFunctionBody(n *ast.Node) {
	r.walkExpr(n.Child(0)) // return type
	prev := r.pushScope(n)
	r.walkParameterList(n.Child(1))
	r.walkStatement(n.Child(2))
	r.popScope(prev)
}

func (r *Resolver) walkParameterList(n *ast.Node) {
	if n == nil {
		return
	}
	for _, param := range n.Children() {
		r.bind(r.scope, param.DeclName(), scope.Var, param, false)
		r.walkChildren(param)
	}
}

func (r *Resolver) walkFieldedType(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Type, n, false)
	fs := r.fieldScope(n)
	fields := n.Child(0)
	for _, f := range fields.Children() {
		fs.Bind(f.DeclName(), scope.Var, f)
		r.walkChildren(f)
	}
}

func (r *Resolver) walkMemberType(n *ast.Node) {
	r.bind(r.scope, n.DeclName(), scope.Type, n, false)
	fs := r.fieldScope(n)
	list := n.Child(0)
	for _, m := range list.Children() {
		fs.Bind(m.Ident(), scope.Var, m)
	}
}

// walkOpenMemberType handles error/match_kind declarations, which extend
// a single pre-existing built-in type's member scope rather than
// introducing a new TYPE-namespace name (see
// internal/types.InstallBuiltins's doc comment).
func (r *Resolver) walkOpenMemberType(n *ast.Node) {
	fs := r.fieldScope(n)
	list := n.Child(0)
	for _, m := range list.Children() {
		fs.Bind(m.Ident(), scope.Var, m)
	}
}

func (r *Resolver) walkStatement(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.BlockStatement:
		prev := r.pushScope(n)
		for _, s := range n.Children() {
			r.walkStatement(s)
		}
		r.popScope(prev)
	case ast.VariableDeclaration:
		r.bind(r.scope, n.DeclName(), scope.Var, n, true)
		r.walkChildren(n)
	case ast.ConditionalStatement:
		r.walkExpr(n.Child(0))
		r.walkStatement(n.Child(1))
		r.walkStatement(n.Child(2))
	case ast.SwitchStatement:
		r.walkExpr(n.Child(0))
		for _, c := range n.Children()[1:] {
			r.walkExpr(c.Child(0))
			r.walkStatement(c.Child(1))
		}
	case ast.AssignmentStatement, ast.MethodCallStatement, ast.ReturnStatement:
		r.walkChildren(n)
	case ast.TransitionStatement:
		r.walkChildren(n)
	default:
		r.walkChildren(n)
	}
}

// walkExpr records every name/typeName use-site and recurses into
// sub-expressions.
func (r *Resolver) walkExpr(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Name, ast.TypeName:
		r.recordUse(n)
	default:
		r.walkChildren(n)
	}
}

func (r *Resolver) walkChildren(n *ast.Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children() {
		r.walkGeneric(c)
	}
}

// walkGeneric dispatches a node of unknown structural role (reached via
// walkChildren) to the right specialized walker based on its kind, so
// that a single recursive descent correctly threads scope pushes/pops
// and use-site recording no matter where in the tree a node appears.
func (r *Resolver) walkGeneric(n *ast.Node) {
	switch n.Kind {
	case ast.Name, ast.TypeName:
		r.recordUse(n)
	case ast.BlockStatement, ast.ConditionalStatement, ast.SwitchStatement,
		ast.AssignmentStatement, ast.MethodCallStatement, ast.ReturnStatement,
		ast.ExitStatement, ast.DirectApplication, ast.TransitionStatement,
		ast.VariableDeclaration:
		r.walkStatement(n)
	case ast.ParserDeclaration, ast.ControlDeclaration, ast.ExternDeclaration,
		ast.PackageTypeDeclaration, ast.Instantiation, ast.TypedefDeclaration,
		ast.HeaderTypeDeclaration, ast.HeaderUnionDeclaration, ast.StructTypeDeclaration,
		ast.EnumDeclaration, ast.ErrorDeclaration, ast.MatchKindDeclaration,
		ast.FunctionDeclaration:
		r.walkTopDecl(n)
	default:
		r.walkChildren(n)
	}
}
