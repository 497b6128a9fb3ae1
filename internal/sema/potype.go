package sema

import (
	"github.com/dfrunza/ashp4c-sub003/internal/potype"
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/internal/sidetables"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// PotypeBuilder runs the potential-type pass: a bottom-up walk that
// computes, for every expression node, the set of types it might
// resolve to before the top-down type-selection pass commits one.
//
// Operator overloading for binary expressions is resolved structurally,
// by comparing operand effective-type formers, rather than through a
// root-scope operator-symbol lookup table: the language has no syntax
// for declaring new operator overloads, so a lookup table would carry
// machinery with no construct to exercise it.
type PotypeBuilder struct {
	tables *sidetables.Tables
	t      *types.TypeTable
	errs   errors.List
}

// NewPotypeBuilder creates a PotypeBuilder over tables, whose TypeTable
// must already be populated by a prior TypeBuilder.Build.
func NewPotypeBuilder(tables *sidetables.Tables) *PotypeBuilder {
	return &PotypeBuilder{tables: tables, t: tables.Types}
}

// Errors returns the UNKNOWN_NAME errors accumulated so far.
func (pb *PotypeBuilder) Errors() errors.List { return pb.errs }

// effective resolves id down to its underlying former, using TypeTable
// to follow IDREFs (the adapter sidetables.Tables.TypeTableLookup
// provides).
func (pb *PotypeBuilder) effective(id types.Id) types.Id {
	return pb.t.EffectiveType(id, pb.tables.TypeTableLookup)
}

// Build walks root's expression trees, populating PotypeMap.
func (pb *PotypeBuilder) Build(root *ast.Node) {
	list := root.Child(0)
	if list == nil {
		return
	}
	for _, d := range list.Children() {
		pb.walkDecl(d)
	}
}

// walkDecl descends into every statement- and expression-bearing
// position of a declaration, without itself producing a PotentialType
// (declarations are typed by TypeTable, not PotypeMap).
func (pb *PotypeBuilder) walkDecl(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.VariableDeclaration:
		if rhs := n.Child(1); rhs != nil {
			pb.expr(rhs)
		}
	case ast.Instantiation:
		pb.instantiation(n)
	case ast.ParserDeclaration:
		for _, l := range n.Child(2).Children() {
			pb.walkDecl(l)
		}
		for _, st := range n.Child(3).Children() {
			pb.walkStmt(st.Child(0))
			if len(st.Children()) > 1 {
				pb.walkTransition(st.Child(1))
			}
		}
	case ast.ControlDeclaration:
		for _, l := range n.Child(2).Children() {
			pb.walkDecl(l)
		}
		pb.walkStmt(n.Child(3))
	case ast.ActionDeclaration:
		pb.walkStmt(n.Child(1))
	case ast.FunctionDeclaration:
		pb.walkStmt(n.Child(2))
	case ast.TableDeclaration:
		for _, prop := range n.Child(0).Children() {
			if v := prop.Child(0); v != nil && v.Kind != ast.IdentifierList {
				pb.expr(v)
			}
		}
	default:
		for _, c := range n.Children() {
			pb.walkDecl(c)
		}
	}
}

func (pb *PotypeBuilder) walkStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.BlockStatement, ast.ParserBlockStatement:
		for _, s := range n.Children() {
			pb.walkStmt(s)
		}
	case ast.VariableDeclaration:
		pb.walkDecl(n)
	case ast.AssignmentStatement:
		pb.expr(n.Child(0))
		pb.expr(n.Child(1))
	case ast.MethodCallStatement:
		pb.expr(n.Child(0))
		if args := n.Child(1); args != nil {
			for _, a := range args.Children() {
				pb.expr(a.Child(0))
			}
		}
	case ast.ReturnStatement:
		if e := n.Child(0); e != nil {
			pb.expr(e)
		}
	case ast.ConditionalStatement:
		pb.expr(n.Child(0))
		pb.walkStmt(n.Child(1))
		pb.walkStmt(n.Child(2))
	case ast.SwitchStatement:
		pb.expr(n.Child(0))
		for _, c := range n.Children()[1:] {
			pb.walkStmt(c.Child(1))
		}
	}
}

func (pb *PotypeBuilder) walkTransition(n *ast.Node) {
	if n == nil {
		return
	}
	target := n.Child(0)
	if target == nil {
		return
	}
	switch target.Kind {
	case ast.SelectExpression:
		exprs := target.Child(0)
		for _, e := range exprs.Children() {
			pb.expr(e)
		}
	case ast.Name:
		pb.transitionTarget(target)
	}
}

// transitionTarget checks that a direct (non-select) transition names a
// declared parser state. It does not go through expr/nameRef: states
// carry no entry in TypeTable (they are control labels, not typed
// declarations), so nameRef's "a chained decl has a non-NoId Type" test
// would misreport every valid state name as unknown.
func (pb *PotypeBuilder) transitionTarget(n *ast.Node) {
	s, ok := pb.tables.ScopeMap.Get(n)
	if !ok {
		return
	}
	if _, head := scope.Lookup(s, n.Ident(), scope.Var); head != nil {
		return
	}
	pb.errs.Add(errors.Newf(errors.UnknownName, n.Pos, "unknown name %q", n.Ident()))
}

// expr computes (memoizing into PotypeMap) and returns the
// PotentialType of n.
func (pb *PotypeBuilder) expr(n *ast.Node) *potype.PotentialType {
	if n == nil {
		return potype.NewSet()
	}
	if pt, ok := pb.tables.PotypeMap.Get(n); ok {
		return pt
	}
	var pt *potype.PotentialType
	switch n.Kind {
	case ast.IntLiteral:
		pt = potype.NewSet(pb.t.IntT)
	case ast.BoolLiteral:
		pt = potype.NewSet(pb.t.Bool)
	case ast.StringLiteral:
		pt = potype.NewSet(pb.t.String)
	case ast.DontCare:
		pt = potype.NewSet(pb.t.DontCareT)
	case ast.Name:
		pt = pb.nameRef(n)
	case ast.ParenExpression:
		pt = pb.expr(n.Child(0))
	case ast.UnaryExpression:
		pt = pb.expr(n.Child(0))
	case ast.BinaryExpression:
		pt = pb.binary(n)
	case ast.MemberSelector:
		pt = pb.memberSelector(n)
	case ast.ArraySubscript:
		pt = pb.expr(n.Child(0))
	case ast.FunctionCall:
		pt = pb.call(n)
	case ast.ExpressionList, ast.ArgumentList:
		var elems []*potype.PotentialType
		for _, c := range n.Children() {
			elems = append(elems, pb.expr(c))
		}
		pt = potype.NewProduct(elems...)
	default:
		pt = potype.NewSet()
	}
	pb.tables.PotypeMap.Set(n, pt)
	return pt
}

// nameRef looks the identifier up (across VAR and TYPE) in its recorded
// scope and contributes the type of every matching declaration: exactly
// one candidate for a variable, possibly several for an overloaded
// type/extern/function name.
func (pb *PotypeBuilder) nameRef(n *ast.Node) *potype.PotentialType {
	s, ok := pb.tables.ScopeMap.Get(n)
	if !ok {
		return potype.NewSet()
	}
	name := n.Ident()
	pt := potype.NewSet()
	found := false
	for _, ns := range [...]scope.Namespace{scope.Var, scope.Type} {
		if _, head := scope.Lookup(s, name, ns); head != nil {
			for d := head; d != nil; d = d.Next {
				if d.Type != types.NoId {
					pt.Add(d.Type)
					found = true
				}
			}
		}
	}
	if !found {
		pb.errs.Add(errors.Newf(errors.UnknownName, n.Pos, "unknown name %q", name))
	}
	return pt
}

// binary resolves the operator structurally: the result set contains the
// operator's own result type for each operand-type pairing whose formers
// are mutually compatible (numeric-with-numeric, bool-with-bool,
// equality over any matching pair).
func (pb *PotypeBuilder) binary(n *ast.Node) *potype.PotentialType {
	op := n.Payload.(*ast.BinaryPayload).Op
	lhs := pb.expr(n.Child(0))
	rhs := pb.expr(n.Child(1))
	result := potype.NewSet()
	for _, l := range lhs.Candidates() {
		for _, r := range rhs.Candidates() {
			if ty, ok := pb.binaryResult(op, l, r); ok {
				result.Add(ty)
			}
		}
	}
	return result
}

func (pb *PotypeBuilder) binaryResult(op token.Kind, l, r types.Id) (types.Id, bool) {
	lf, rf := pb.t.Get(pb.effective(l)).Former, pb.t.Get(pb.effective(r)).Former
	isNumeric := func(f types.Former) bool {
		return f == types.Int || f == types.Bit || f == types.Varbit
	}
	switch op {
	case token.EQL, token.NEQ, token.LANGLE, token.RANGLE, token.LEQ, token.GEQ:
		if lf == rf || isNumeric(lf) && isNumeric(rf) {
			return pb.t.Bool, true
		}
	case token.LAND, token.LOR:
		if lf == types.Bool && rf == types.Bool {
			return pb.t.Bool, true
		}
	default: // + - * / & |
		if isNumeric(lf) && lf == rf {
			return l, true
		}
	}
	return types.NoId, false
}

// memberSelector resolves member selection against the lhs's candidate
// effective types: for each candidate, inspect its Fields or Methods
// product (depending on former) for a member whose declared name
// matches.
func (pb *PotypeBuilder) memberSelector(n *ast.Node) *potype.PotentialType {
	lhs := pb.expr(n.Child(0))
	member := n.Payload.(*ast.MemberPayload).Member
	result := potype.NewSet()
	for _, cand := range lhs.Candidates() {
		eff := pb.effective(cand)
		t := pb.t.Get(eff)
		if t.Former == types.Stack {
			// header-stack pseudo-members: .last/.next name the element
			// type; .size is a plain int, not a field of the element
			// itself.
			switch member {
			case "last", "next":
				result.Add(t.Elem)
			case "size":
				result.Add(pb.t.IntT)
			}
			continue
		}
		var members types.Id
		switch t.Former {
		case types.Extern, types.Parser, types.Control, types.Table:
			members = t.Methods
		case types.Struct, types.Header, types.Union, types.Enum:
			members = t.Fields
		default:
			continue
		}
		for _, ref := range pb.t.ProductMembers(members) {
			refT := pb.t.Get(ref)
			if refT.Former != types.IdRef || refT.RefNode == nil {
				continue
			}
			if declName(refT.RefNode) == member {
				if ty, ok := pb.tables.TypeTable.Get(refT.RefNode); ok {
					result.Add(ty)
				}
			}
		}
	}
	return result
}

func declName(n *ast.Node) string {
	if n.Kind == ast.Name {
		return n.Ident()
	}
	return n.DeclName()
}

// instantiation validates an Instantiation declaration's argument list
// against its instantiated type's constructors, the same
// argsMatchParams rule call()'s Extern branch applies to a
// FunctionCall-position extern invocation. The result, a set of the
// matching constructor candidates, is recorded as n's own
// PotentialType, so the type-selection pass can commit exactly one of
// them through the ordinary cardinality-0/1/many machinery, reporting a
// no-match or ambiguity just as it would for any other expression.
func (pb *PotypeBuilder) instantiation(n *ast.Node) {
	declTy, _ := pb.tables.TypeTable.Get(n)
	var argNames []string
	argCount := 0
	if args := n.Child(1); args != nil {
		argCount = len(args.Children())
		for _, a := range args.Children() {
			pb.expr(a.Child(0))
			argNames = append(argNames, a.Payload.(*ast.ArgumentPayload).Name)
		}
	}
	t := pb.t.Get(pb.effective(declTy))
	switch t.Former {
	case types.Extern:
		result := potype.NewSet()
		for _, ctor := range pb.t.ProductMembers(t.Ctors) {
			ct := pb.t.Get(pb.effective(ctor))
			if pb.argsMatchParams(ct.Params, argNames, argCount) {
				result.Add(ctor)
			}
		}
		pb.tables.PotypeMap.Set(n, result)
	case types.Parser, types.Control:
		// A parser/control has exactly one constructor, its declared
		// constructor-parameter list; the arguments still have to match
		// it for the instantiation to be well-formed.
		result := potype.NewSet()
		if pb.argsMatchParams(t.Ctors, argNames, argCount) {
			result.Add(declTy)
		}
		pb.tables.PotypeMap.Set(n, result)
	default:
		pb.tables.PotypeMap.Set(n, potype.NewSet(declTy))
	}
}

// call computes the callee's PotentialType restricted, where possible,
// to candidates whose parameter product matches the call's argument
// list, and returns that restricted set as the call expression's own
// PotentialType (a call's static type is whatever the callee resolves
// to, i.e. its FUNCTION/EXTERN Return, or itself for a constructor).
func (pb *PotypeBuilder) call(n *ast.Node) *potype.PotentialType {
	callee, args := n.Child(0), n.Child(1)
	calleeSet := pb.expr(callee)
	var argNames []string
	argCount := 0
	if args != nil {
		argCount = len(args.Children())
		for _, a := range args.Children() {
			pb.expr(a.Child(0))
			argNames = append(argNames, a.Payload.(*ast.ArgumentPayload).Name)
		}
	}
	result := potype.NewSet()
	for _, cand := range calleeSet.Candidates() {
		eff := pb.effective(cand)
		t := pb.t.Get(eff)
		switch t.Former {
		case types.Function:
			if pb.argsMatchParams(t.Params, argNames, argCount) {
				if t.Return != types.NoId {
					result.Add(t.Return)
				} else {
					result.Add(pb.t.Void)
				}
			}
		case types.Extern:
			for _, ctor := range pb.t.ProductMembers(t.Ctors) {
				ct := pb.t.Get(pb.effective(ctor))
				if pb.argsMatchParams(ct.Params, argNames, argCount) {
					result.Add(cand) // instantiation's type is the extern itself
				}
			}
		default:
			result.Add(cand)
		}
	}
	return result
}

func arity(t *types.TypeTable, params types.Id) int {
	if params == types.NoId {
		return 0
	}
	return len(t.ProductMembers(params))
}

// argsMatchParams implements the named-argument resolution rule: a call
// whose arguments are entirely positional matches a candidate by arity
// alone; a call with any named argument matches only if every argument
// is named, each argument name names one of the candidate's parameters,
// and the argument count equals the parameter count, independent of the
// order either list was written in.
func (pb *PotypeBuilder) argsMatchParams(params types.Id, argNames []string, argCount int) bool {
	named := false
	for _, name := range argNames {
		if name != "" {
			named = true
			break
		}
	}
	if !named {
		return arity(pb.t, params) == argCount
	}
	paramNames := map[string]bool{}
	for _, p := range pb.t.ProductMembers(params) {
		pt := pb.t.Get(p)
		if pt.Former == types.IdRef && pt.RefNode != nil {
			paramNames[pt.RefNode.DeclName()] = true
		}
	}
	if len(argNames) != len(paramNames) {
		return false
	}
	for _, name := range argNames {
		if name == "" || !paramNames[name] {
			return false
		}
	}
	return true
}
