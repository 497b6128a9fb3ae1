// Package types implements the compilation's type pool and type formers.
//
// Types live in an arena.Pool and are referenced by stable Id handles
// rather than pointers, so the pool may grow without invalidating any Id
// a caller is holding.
package types

import (
	"github.com/dfrunza/ashp4c-sub003/internal/arena"
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
)

// Id is a stable handle into a TypeTable's pool.
type Id = arena.Id

// NoId names the absence of a type.
const NoId = arena.NoId

// Former is the structural constructor of a Type.
type Former uint8

const (
	Void Former = iota
	Bool
	Int
	Bit
	Varbit
	String
	DontCare
	Enum
	TypeVar
	Typedef
	NameRef
	IdRef
	Product
	Function
	Extern
	Parser
	Control
	Struct
	Header
	Union
	Stack
	Table
	Specialized
	TypeMeta
)

// Type is a tagged sum over the formers. Not every field is meaningful
// for every Former; the comment on each field below names the formers
// that use it.
type Type struct {
	Former Former

	Name  string // ENUM/EXTERN/STRUCT/HEADER/UNION/TYPEDEF/NAMEREF identifier
	Width int    // BIT/VARBIT/INT width, or -1 if unspecified ("int" with no <N>)

	// NAMEREF: the scope in which Name should be resolved.
	ResolveScope *scope.Scope

	// IDREF: the AST node whose type-table entry this indirectly refers
	// to.
	RefNode *ast.Node

	// TYPEDEF / TYPE(meta): the wrapped type.
	Elem Id

	// PRODUCT: the two components of this binary product node
	// (right-leaning spine of a flat component list).
	Left, Right Id

	// FUNCTION: parameter product and optional return type. For
	// PARSER/CONTROL, Params holds the apply-parameter product.
	Params Id
	Return Id // NoId if the function returns nothing

	// EXTERN: product of overloaded constructors. PARSER / CONTROL:
	// the constructor-parameter product (the declaration's optional
	// second parameter list), kept distinct from the apply parameters
	// in Params. Methods is the member product in all three cases
	// (local declarations and state names for PARSER, local
	// declarations for CONTROL, declared methods for EXTERN).
	Ctors   Id
	Methods Id

	// STRUCT / HEADER / UNION / ENUM: field (or member) product.
	Fields Id

	// STACK: element type and the AST node of the declared size
	// expression (evaluated by a later, out-of-scope pass).
	SizeExpr *ast.Node

	// SPECIALIZED: the generic base type and its argument list.
	Args []Id
}

// TypeTable owns the append-only type pool for one compilation.
type TypeTable struct {
	pool *arena.Pool[Type]

	// idrefLookup resolves an IDREF's target AST node to that node's
	// recorded type. The side-table container that owns both this pool
	// and the AST-keyed type table installs it once at construction;
	// until then Equiv leaves IDREF types unresolved.
	idrefLookup func(*ast.Node) (Id, bool)

	// Builtins, populated once by InstallBuiltins (before the
	// name-declaration pass runs) and bound into the root scope.
	Void, Bool, IntT, String, Error, MatchKind, DontCareT Id
}

// NewTable creates an empty TypeTable; builtins are installed by
// InstallBuiltins.
func NewTable() *TypeTable {
	return &TypeTable{pool: arena.NewPool[Type]()}
}

// SetIdRefLookup installs the IDREF-to-type resolver Equiv uses to chase
// indirect references (see TypeTable.idrefLookup).
func (tb *TypeTable) SetIdRefLookup(f func(*ast.Node) (Id, bool)) { tb.idrefLookup = f }

// Append adds t to the pool and returns its Id.
func (tb *TypeTable) Append(t Type) Id { return tb.pool.Append(t) }

// Reserve appends a placeholder slot, returning its Id so a caller can
// build an IDREF to it before the real type is known.
func (tb *TypeTable) Reserve() Id { return tb.pool.Reserve() }

// Fill overwrites a previously Reserve'd slot.
func (tb *TypeTable) Fill(id Id, t Type) { tb.pool.Set(id, t) }

// Get dereferences id.
func (tb *TypeTable) Get(id Id) Type { return tb.pool.Get(id) }

// Len reports how many types have been appended.
func (tb *TypeTable) Len() int { return tb.pool.Len() }

// Product builds the binary-product-tree type for the contiguous range
// of freshly appended Ids in ids: a single element is returned
// unchanged; two elements become one PRODUCT{lhs,rhs}; three or more
// become a right-leaning spine. The shape is stable and used by later
// passes (e.g. argument-arity matching) for structural comparison.
func (tb *TypeTable) Product(ids []Id) Id {
	switch len(ids) {
	case 0:
		return tb.Append(Type{Former: Product, Left: NoId, Right: NoId})
	case 1:
		return ids[0]
	case 2:
		return tb.Append(Type{Former: Product, Left: ids[0], Right: ids[1]})
	default:
		rest := tb.Product(ids[1:])
		return tb.Append(Type{Former: Product, Left: ids[0], Right: rest})
	}
}

// ProductMembers flattens a (possibly right-leaning-spine) PRODUCT type
// back into its ordered member Ids. Non-product types flatten to a
// single-element slice containing themselves.
func (tb *TypeTable) ProductMembers(id Id) []Id {
	t := tb.Get(id)
	if t.Former != Product {
		return []Id{id}
	}
	if t.Left == NoId && t.Right == NoId {
		return nil
	}
	return append([]Id{t.Left}, tb.ProductMembers(t.Right)...)
}

// ActualType peels off an outer TYPE meta layer; identity on every
// other former.
func (tb *TypeTable) ActualType(id Id) Id {
	t := tb.Get(id)
	if t.Former == TypeMeta {
		return tb.ActualType(t.Elem)
	}
	return id
}

// EffectiveType chases TYPEDEF, NAMEREF, and IDREF links down to the
// underlying former. typeTableOf resolves an IDREF's target AST node
// back to its type; it is passed in rather than imported to avoid a
// package cycle between types and the side-table package that depends
// on types.
func (tb *TypeTable) EffectiveType(id Id, typeTableOf func(*ast.Node) (Id, bool)) Id {
	seen := map[Id]bool{}
	for {
		if seen[id] {
			return id // cyclic reference; let the caller's equivalence check fail naturally
		}
		seen[id] = true
		t := tb.Get(id)
		switch t.Former {
		case Typedef:
			id = t.Elem
		case NameRef:
			if t.ResolveScope == nil {
				return id
			}
			_, decl := scope.Lookup(t.ResolveScope, t.Name, scope.Type)
			if decl == nil || decl.Type == NoId {
				return id
			}
			id = decl.Type
		case IdRef:
			if t.RefNode == nil || typeTableOf == nil {
				return id
			}
			next, ok := typeTableOf(t.RefNode)
			if !ok {
				return id
			}
			id = next
		default:
			return id
		}
	}
}
