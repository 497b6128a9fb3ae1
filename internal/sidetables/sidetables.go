// Package sidetables defines the AST-keyed maps every pass writes into
// and later passes read from. Keeping these out of the AST nodes
// themselves, rather than annotating Node, lets the AST stay immutable
// across passes.
package sidetables

import (
	"github.com/dfrunza/ashp4c-sub003/internal/arena"
	"github.com/dfrunza/ashp4c-sub003/internal/potype"
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
)

// Tables bundles every side table the pipeline's passes populate.
type Tables struct {
	// ScopeMap maps every `name` node to its enclosing scope.
	ScopeMap *arena.IdentityMap[*ast.Node, *scope.Scope]

	// FieldMap maps a struct/header/union/enum/error/match-kind/table
	// declaration node to the separate scope holding its
	// members/fields/properties.
	FieldMap *arena.IdentityMap[*ast.Node, *scope.Scope]

	// OpenedScopes maps a scope-opening declaration node to the child
	// scope it introduced.
	OpenedScopes *arena.IdentityMap[*ast.Node, *scope.Scope]

	// DeclMap maps a declaration node to the live NameDeclaration the
	// name-declaration pass bound it to, so the type-table pass can
	// write the declaration's later-assigned type back onto the same
	// scope entry that the potential-type pass's name lookup reads from.
	DeclMap *arena.IdentityMap[*ast.Node, *scope.NameDeclaration]

	// TypeTable maps every declaration and type-expression node to its
	// synthesised type.
	TypeTable *arena.IdentityMap[*ast.Node, types.Id]

	// PotypeMap maps every expression node to its candidate
	// PotentialType.
	PotypeMap *arena.IdentityMap[*ast.Node, *potype.PotentialType]

	// TypeEnv maps every expression node to its final committed type.
	TypeEnv *arena.IdentityMap[*ast.Node, types.Id]

	Types *types.TypeTable
}

// New returns an empty Tables, ready for the pipeline to populate. It
// also installs TypeTableLookup as tb's IDREF resolver, so type
// equivalence can chase indirect references through the same table the
// potential-type pass resolves them with.
func New(tb *types.TypeTable) *Tables {
	t := &Tables{
		ScopeMap:     arena.NewIdentityMap[*ast.Node, *scope.Scope](),
		FieldMap:     arena.NewIdentityMap[*ast.Node, *scope.Scope](),
		OpenedScopes: arena.NewIdentityMap[*ast.Node, *scope.Scope](),
		DeclMap:      arena.NewIdentityMap[*ast.Node, *scope.NameDeclaration](),
		TypeTable:    arena.NewIdentityMap[*ast.Node, types.Id](),
		PotypeMap:    arena.NewIdentityMap[*ast.Node, *potype.PotentialType](),
		TypeEnv:      arena.NewIdentityMap[*ast.Node, types.Id](),
		Types:        tb,
	}
	tb.SetIdRefLookup(t.TypeTableLookup)
	return t
}

// TypeTableLookup adapts TypeTable to the function signature
// types.TypeTable.EffectiveType expects for resolving IDREF indirections.
func (t *Tables) TypeTableLookup(n *ast.Node) (types.Id, bool) {
	return t.TypeTable.Get(n)
}
