package sema

import (
	"github.com/dfrunza/ashp4c-sub003/internal/sidetables"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
)

// TypeSelector runs the type-selection pass: a top-down walk that
// threads a required type into each expression and commits exactly one
// candidate from its PotentialType into TypeEnv.
type TypeSelector struct {
	tables *sidetables.Tables
	t      *types.TypeTable
	errs   errors.List

	// returnTy is the nearest enclosing function's return type, the
	// required type threaded into a return statement's expression.
	returnTy types.Id
}

// NewTypeSelector creates a TypeSelector over tables, whose PotypeMap
// must already be populated by a prior PotypeBuilder.Build.
func NewTypeSelector(tables *sidetables.Tables) *TypeSelector {
	return &TypeSelector{tables: tables, t: tables.Types}
}

// Errors returns the AMBIGUOUS_TYPE/NO_MATCHING_TYPE/TYPE_MISMATCH
// errors accumulated so far.
func (ts *TypeSelector) Errors() errors.List { return ts.errs }

// Select walks root, committing TypeEnv for every expression node.
func (ts *TypeSelector) Select(root *ast.Node) errors.List {
	list := root.Child(0)
	if list == nil {
		return ts.errs
	}
	for _, d := range list.Children() {
		ts.walkDecl(d)
	}
	return ts.errs
}

func (ts *TypeSelector) walkDecl(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.VariableDeclaration:
		declTy, _ := ts.tables.TypeTable.Get(n)
		if rhs := n.Child(1); rhs != nil {
			ts.commit(rhs, declTy)
		}
	case ast.Instantiation:
		// n's own PotentialType (set by potype.go's instantiation) is the
		// set of the instantiated type's constructors whose parameters
		// match this call's arguments; commit picks exactly one, reporting
		// NoMatchingType/AmbiguousType if zero or more than one do.
		ts.commit(n, types.NoId)
		if args := n.Child(1); args != nil {
			for _, a := range args.Children() {
				ts.commit(a.Child(0), types.NoId)
			}
		}
	case ast.ParserDeclaration:
		for _, l := range n.Child(2).Children() {
			ts.walkDecl(l)
		}
		for _, st := range n.Child(3).Children() {
			ts.walkStmt(st.Child(0))
			if len(st.Children()) > 1 {
				ts.walkTransition(st.Child(1))
			}
		}
	case ast.ControlDeclaration:
		for _, l := range n.Child(2).Children() {
			ts.walkDecl(l)
		}
		ts.walkStmt(n.Child(3))
	case ast.ActionDeclaration:
		ts.walkStmt(n.Child(1))
	case ast.FunctionDeclaration:
		ts.returnTy, _ = ts.tables.TypeTable.Get(n.Child(0))
		ts.walkStmt(n.Child(2))
	default:
		for _, c := range n.Children() {
			ts.walkDecl(c)
		}
	}
}

func (ts *TypeSelector) walkStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.BlockStatement, ast.ParserBlockStatement:
		for _, s := range n.Children() {
			ts.walkStmt(s)
		}
	case ast.VariableDeclaration:
		ts.walkDecl(n)
	case ast.AssignmentStatement:
		lhsTy := ts.commit(n.Child(0), types.NoId)
		ts.commit(n.Child(1), lhsTy)
	case ast.MethodCallStatement:
		ts.commit(n.Child(0), types.NoId)
		if args := n.Child(1); args != nil {
			for _, a := range args.Children() {
				ts.commit(a.Child(0), types.NoId)
			}
		}
	case ast.ReturnStatement:
		if e := n.Child(0); e != nil {
			ts.commit(e, ts.returnTy)
		}
	case ast.ConditionalStatement:
		ts.commit(n.Child(0), ts.t.Bool)
		ts.walkStmt(n.Child(1))
		ts.walkStmt(n.Child(2))
	case ast.SwitchStatement:
		ts.commit(n.Child(0), types.NoId)
		for _, c := range n.Children()[1:] {
			ts.walkStmt(c.Child(1))
		}
	}
}

func (ts *TypeSelector) walkTransition(n *ast.Node) {
	if n == nil {
		return
	}
	target := n.Child(0)
	if target == nil {
		return
	}
	// A direct (non-select) transition target is a state name, not a
	// typed expression; the potential-type pass validates it exists
	// (internal/sema/potype.go's transitionTarget) but never records a
	// PotypeMap entry for it, so there is nothing for commit to select.
	if target.Kind == ast.SelectExpression {
		exprs := target.Child(0)
		for _, e := range exprs.Children() {
			ts.commit(e, types.NoId)
		}
	}
}

// commit selects n's unique candidate (optionally checked against
// required, a types.NoId meaning "no constraint") and records it in
// TypeEnv, returning the committed type (or types.NoId on failure) so
// callers can thread it onward (e.g. an assignment's lhs type becomes
// the rhs's required type).
func (ts *TypeSelector) commit(n *ast.Node, required types.Id) types.Id {
	if n == nil {
		return types.NoId
	}
	pt, ok := ts.tables.PotypeMap.Get(n)
	if !ok {
		return types.NoId
	}
	switch pt.Cardinality() {
	case 0:
		ts.errs.Add(errors.Newf(errors.NoMatchingType, n.Pos, "no matching type for expression"))
		return types.NoId
	case 1:
		candidate := pt.Candidates()[0]
		if required != types.NoId && !ts.typeEquiv(candidate, required) {
			ts.errs.Add(errors.Newf(errors.TypeMismatch, n.Pos,
				"type mismatch: expression does not match required type"))
			return types.NoId
		}
		eff := ts.t.EffectiveType(candidate, ts.tables.TypeTableLookup)
		ts.tables.TypeEnv.Set(n, eff)
		ts.commitChildren(n, eff)
		return eff
	default:
		if required == types.NoId {
			ts.errs.Add(errors.Newf(errors.AmbiguousType, n.Pos, "ambiguous type for expression"))
			return types.NoId
		}
		var match types.Id = types.NoId
		count := 0
		for _, c := range pt.Candidates() {
			if ts.typeEquiv(c, required) {
				match = c
				count++
			}
		}
		if count == 0 {
			ts.errs.Add(errors.Newf(errors.NoMatchingType, n.Pos, "no matching type for expression"))
			return types.NoId
		}
		if count > 1 {
			ts.errs.Add(errors.Newf(errors.AmbiguousType, n.Pos, "ambiguous type for expression"))
			return types.NoId
		}
		eff := ts.t.EffectiveType(match, ts.tables.TypeTableLookup)
		ts.tables.TypeEnv.Set(n, eff)
		ts.commitChildren(n, eff)
		return eff
	}
}

// commitChildren commits a compound expression's sub-expressions once
// the node's own type is settled: the required type flows top-down, but
// the actual commit of a subtree happens bottom-up from here, so every
// nested expression node ends up with a TypeEnv entry, not just the
// statement-level roots. Only the success paths of commit recurse;
// after a selection failure the compilation aborts anyway, and
// committing the children of a failed node would just pile follow-on
// errors onto the one already reported.
func (ts *TypeSelector) commitChildren(n *ast.Node, committed types.Id) {
	switch n.Kind {
	case ast.ParenExpression, ast.UnaryExpression, ast.ArraySubscript:
		// these propagate the child's (for a subscript, the base's)
		// candidate set unchanged, so the committed type constrains the
		// child exactly
		ts.commit(n.Child(0), committed)
		if n.Kind == ast.ArraySubscript {
			ts.commit(n.Child(1), types.NoId)
		}
	case ast.BinaryExpression:
		ts.commit(n.Child(0), types.NoId)
		ts.commit(n.Child(1), types.NoId)
	case ast.MemberSelector:
		ts.commit(n.Child(0), types.NoId)
	case ast.FunctionCall:
		ts.commit(n.Child(0), types.NoId)
		if args := n.Child(1); args != nil {
			for _, a := range args.Children() {
				ts.commit(a.Child(0), types.NoId)
			}
		}
	}
}

func (ts *TypeSelector) typeEquiv(a, b types.Id) bool {
	return ts.t.Equiv(a, b)
}
