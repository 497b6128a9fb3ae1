package sema

import (
	"github.com/dfrunza/ashp4c-sub003/internal/sidetables"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// TypeBuilder runs the type-table pass: a post-order walk that
// synthesises a types.Type for every declaration and type expression
// and records it in TypeTable. It assumes the name-declaration pass has
// already populated ScopeMap/FieldMap (it reads them to build
// NAMEREF/IDREF types, never to eagerly resolve).
type TypeBuilder struct {
	tables *sidetables.Tables
	t      *types.TypeTable
}

// NewTypeBuilder creates a TypeBuilder over tables (whose Types field
// must already carry the installed builtins).
func NewTypeBuilder(tables *sidetables.Tables) *TypeBuilder {
	return &TypeBuilder{tables: tables, t: tables.Types}
}

// Build walks root, populating TypeTable for every declaration and type
// expression it reaches.
func (b *TypeBuilder) Build(root *ast.Node) {
	list := root.Child(0)
	if list == nil {
		return
	}
	for _, d := range list.Children() {
		b.declType(d)
	}
}

// set records n's synthesised type in TypeTable and, if n is itself a
// declaration the name-declaration pass bound, also writes it onto that
// binding's NameDeclaration.Type, so the potential-type pass's name
// lookup, which walks scope chains rather than TypeTable, sees it too.
func (b *TypeBuilder) set(n *ast.Node, id types.Id) types.Id {
	b.tables.TypeTable.Set(n, id)
	if decl, ok := b.tables.DeclMap.Get(n); ok {
		decl.Type = id
	}
	return id
}

// idref synthesises an IDREF to n's (not yet necessarily computed) type
// table entry, so mutually-recursive siblings can reference each other
// before either is fully resolved.
func (b *TypeBuilder) idref(n *ast.Node) types.Id {
	return b.t.Append(types.Type{Former: types.IdRef, RefNode: n})
}

// declType dispatches on n's kind and returns (recording along the way)
// the type it synthesises. Statements get no type of their own; block,
// conditional and switch statements are walked only to reach the local
// declarations nested inside them. Most expressions (which the
// potential-type pass handles instead) are skipped.
func (b *TypeBuilder) declType(n *ast.Node) types.Id {
	if n == nil {
		return types.NoId
	}
	switch n.Kind {
	case ast.BaseType:
		return b.set(n, b.baseType(n))
	case ast.TypeName:
		return b.set(n, b.nameRefType(n))
	case ast.SpecializedType:
		return b.set(n, b.specializedType(n))
	case ast.StackType:
		return b.set(n, b.stackType(n))
	case ast.VariableDeclaration:
		ty := b.declType(n.Child(0))
		return b.set(n, ty)
	case ast.Parameter:
		ty := b.declType(n.Child(0))
		return b.set(n, ty)
	case ast.StructField:
		ty := b.declType(n.Child(0))
		return b.set(n, ty)
	case ast.TypedefDeclaration:
		aliased := b.idref(n.Child(0))
		b.declType(n.Child(0))
		return b.set(n, b.t.Append(types.Type{Former: types.Typedef, Name: n.DeclName(), Elem: aliased}))
	case ast.HeaderTypeDeclaration:
		return b.set(n, b.fieldedType(n, types.Header))
	case ast.HeaderUnionDeclaration:
		return b.set(n, b.fieldedType(n, types.Union))
	case ast.StructTypeDeclaration:
		return b.set(n, b.fieldedType(n, types.Struct))
	case ast.EnumDeclaration:
		return b.set(n, b.enumType(n))
	case ast.ErrorDeclaration:
		return b.set(n, b.extendOpenEnum(n, b.t.Error))
	case ast.MatchKindDeclaration:
		return b.set(n, b.extendOpenEnum(n, b.t.MatchKind))
	case ast.FunctionDeclaration:
		id := b.set(n, b.functionType(n))
		b.declType(n.Child(2))
		return id
	case ast.FunctionPrototype:
		return b.set(n, b.functionType(n))
	case ast.ExternDeclaration:
		return b.set(n, b.externType(n))
	case ast.ParserDeclaration:
		id := b.set(n, b.parserOrControlType(n, types.Parser))
		for _, st := range n.Child(3).Children() {
			b.declType(st.Child(0))
		}
		return id
	case ast.ControlDeclaration:
		id := b.set(n, b.parserOrControlType(n, types.Control))
		b.declType(n.Child(3))
		return id
	case ast.PackageTypeDeclaration:
		params := b.parameterProduct(n.Child(0))
		return b.set(n, b.t.Append(types.Type{Former: types.Extern, Name: n.DeclName(), Ctors: params}))
	case ast.Instantiation:
		ty := b.declType(n.Child(0))
		return b.set(n, ty)
	case ast.TableDeclaration:
		return b.set(n, b.tableType(n))
	case ast.ActionDeclaration:
		id := b.set(n, b.t.Append(types.Type{Former: types.Function, Params: b.parameterProduct(n.Child(0)), Return: b.t.Void}))
		b.declType(n.Child(1))
		return id
	case ast.BlockStatement, ast.ParserBlockStatement, ast.ConditionalStatement, ast.SwitchStatement, ast.SwitchCase:
		for _, c := range n.Children() {
			b.declType(c)
		}
		return types.NoId
	default:
		return types.NoId
	}
}

func (b *TypeBuilder) baseType(n *ast.Node) types.Id {
	p := n.Payload.(*ast.BaseTypePayload)
	switch p.Keyword {
	case token.VOID:
		return b.t.Void
	case token.BOOL:
		return b.t.Bool
	case token.STRING_TYPE:
		return b.t.String
	case token.INT_TYPE:
		if p.Width < 0 {
			return b.t.IntT
		}
		return b.t.Append(types.Type{Former: types.Int, Width: p.Width})
	case token.BIT:
		return b.t.Append(types.Type{Former: types.Bit, Width: p.Width})
	case token.VARBIT:
		return b.t.Append(types.Type{Former: types.Varbit, Width: p.Width})
	default:
		return types.NoId
	}
}

// nameRefType produces a NAMEREF carrying the identifier and the scope
// in which it must eventually be resolved. Resolution itself is
// deferred to types.TypeTable.EffectiveType / the potential-type pass.
func (b *TypeBuilder) nameRefType(n *ast.Node) types.Id {
	s, _ := b.tables.ScopeMap.Get(n)
	return b.t.Append(types.Type{Former: types.NameRef, Name: n.Ident(), ResolveScope: s})
}

func (b *TypeBuilder) specializedType(n *ast.Node) types.Id {
	children := n.Children()
	base := b.idref(children[0])
	b.declType(children[0])
	args := make([]types.Id, 0, len(children)-1)
	for _, a := range children[1:] {
		args = append(args, b.idref(a))
		b.declType(a)
	}
	return b.t.Append(types.Type{Former: types.Specialized, Elem: base, Args: args})
}

func (b *TypeBuilder) stackType(n *ast.Node) types.Id {
	elemNode, sizeNode := n.Child(0), n.Child(1)
	elem := b.idref(elemNode)
	b.declType(elemNode)
	return b.t.Append(types.Type{Former: types.Stack, Elem: elem, SizeExpr: sizeNode})
}

// fieldedType builds a STRUCT/HEADER/UNION type whose Fields product is
// built from IDREFs into each field's AST node.
func (b *TypeBuilder) fieldedType(n *ast.Node, former types.Former) types.Id {
	fieldList := n.Child(0)
	refs := make([]types.Id, 0)
	for _, f := range fieldList.Children() {
		refs = append(refs, b.idref(f))
		b.declType(f)
	}
	return b.t.Append(types.Type{Former: former, Name: n.DeclName(), Fields: b.t.Product(refs)})
}

// enumType reserves the enum's own id up front so each member's TypeTable
// entry can point back at it: a member's type is the enum itself, not a
// field type of its own.
func (b *TypeBuilder) enumType(n *ast.Node) types.Id {
	list := n.Child(0)
	id := b.t.Reserve()
	refs := make([]types.Id, 0, len(list.Children()))
	for _, m := range list.Children() {
		b.set(m, id)
		refs = append(refs, b.idref(m))
	}
	b.t.Fill(id, types.Type{Former: types.Enum, Name: n.DeclName(), Fields: b.t.Product(refs)})
	return id
}

// extendOpenEnum implements the error/match_kind extensibility design
// (see internal/types.InstallBuiltins): rather than allocating a new
// ENUM type, the declaration's members extend the single pre-existing
// built-in's Fields product in place.
func (b *TypeBuilder) extendOpenEnum(n *ast.Node, builtin types.Id) types.Id {
	list := n.Child(0)
	refs := make([]types.Id, 0, len(list.Children()))
	for _, m := range list.Children() {
		b.set(m, builtin)
		refs = append(refs, b.idref(m))
	}
	b.t.ExtendFields(builtin, refs)
	return builtin
}

// tableType builds a TABLE type whose methods product carries the
// implicit zero-argument apply() every table exposes, so "t.apply()"
// resolves through the same Methods search as a declared extern method.
// The method is anchored to a synthesized prototype node (mirroring
// bindBuiltinParserStates's synthetic accept/reject declarations) so the
// member search's IDREF-to-TypeTable chain works unchanged.
func (b *TypeBuilder) tableType(n *ast.Node) types.Id {
	applyNode := &ast.Node{Kind: ast.FunctionPrototype, Pos: n.Pos, Payload: &ast.DeclPayload{Name: "apply"}}
	applyTy := b.t.Append(types.Type{Former: types.Function, Params: b.t.Product(nil), Return: b.t.Void})
	b.tables.TypeTable.Set(applyNode, applyTy)
	methods := b.t.Product([]types.Id{b.t.Append(types.Type{Former: types.IdRef, RefNode: applyNode})})
	return b.t.Append(types.Type{Former: types.Table, Name: n.DeclName(), Methods: methods})
}

func (b *TypeBuilder) parameterProduct(paramList *ast.Node) types.Id {
	if paramList == nil {
		return b.t.Product(nil)
	}
	refs := make([]types.Id, 0, len(paramList.Children()))
	for _, p := range paramList.Children() {
		refs = append(refs, b.idref(p))
		b.declType(p)
	}
	return b.t.Product(refs)
}

// functionType handles both a full "retTy name(params){body}" shape (two
// children ahead of params: ty then params) and an extern constructor
// prototype, which carries only a parameter list (see
// parser.parseExternMember) since a constructor has no return type.
func (b *TypeBuilder) functionType(n *ast.Node) types.Id {
	if n.Child(1) == nil {
		params := b.parameterProduct(n.Child(0))
		return b.t.Append(types.Type{Former: types.Function, Params: params, Return: b.t.Void})
	}
	retTy := b.idref(n.Child(0))
	b.declType(n.Child(0))
	params := b.parameterProduct(n.Child(1))
	return b.t.Append(types.Type{Former: types.Function, Params: params, Return: retTy})
}

// externType produces EXTERN { ctors : PRODUCT, methods : PRODUCT }:
// constructors are the members whose name equals the extern's own name;
// every other member is a method.
func (b *TypeBuilder) externType(n *ast.Node) types.Id {
	var ctors, methods []types.Id
	for _, m := range n.Children() {
		b.declType(m)
		ref := b.idref(m)
		if m.DeclName() == n.DeclName() {
			ctors = append(ctors, ref)
		} else {
			methods = append(methods, ref)
		}
	}
	return b.t.Append(types.Type{
		Former:  types.Extern,
		Name:    n.DeclName(),
		Ctors:   b.t.Product(ctors),
		Methods: b.t.Product(methods),
	})
}

// parserOrControlType produces a PARSER/CONTROL type: the
// apply-parameter product, the (possibly empty) constructor-parameter
// product from the declaration's optional second parameter list, and a
// methods product of its local declarations (plus, for a parser, its
// state names).
func (b *TypeBuilder) parserOrControlType(n *ast.Node, former types.Former) types.Id {
	applyParams := b.parameterProduct(n.Child(0))
	ctorParams := b.parameterProduct(n.Child(1))
	var methods []types.Id
	switch former {
	case types.Parser:
		locals, states := n.Child(2), n.Child(3)
		for _, l := range locals.Children() {
			b.declType(l)
			methods = append(methods, b.idref(l))
		}
		for _, s := range states.Children() {
			methods = append(methods, b.idref(s))
		}
	case types.Control:
		locals := n.Child(2)
		for _, l := range locals.Children() {
			b.declType(l)
			methods = append(methods, b.idref(l))
		}
	}
	return b.t.Append(types.Type{
		Former:  former,
		Name:    n.DeclName(),
		Params:  applyParams,
		Ctors:   ctorParams,
		Methods: b.t.Product(methods),
	})
}
