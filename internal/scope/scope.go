// Package scope implements the lexical scope graph: a tree of scopes,
// each mapping an identifier to a NameEntry holding up to three shadow
// chains, one per namespace.
package scope

import (
	"github.com/dfrunza/ashp4c-sub003/internal/arena"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
)

// Namespace is a bitmask selecting one or more of a NameEntry's shadow
// chains: VAR for runtime values, TYPE for type/extern/function names,
// KEYWORD for reserved words.
type Namespace uint8

const (
	Var Namespace = 1 << iota
	Type
	Keyword
)

// Has reports whether mask includes ns.
func (mask Namespace) Has(ns Namespace) bool { return mask&ns != 0 }

// NameDeclaration records one binding of an identifier: the AST node
// that introduced it (nil for a built-in keyword), the reserved-word
// token kind when this is a KEYWORD declaration, and the intra-scope
// shadow-chain link to the declaration this one shadows.
type NameDeclaration struct {
	Name string
	Node *ast.Node // declaring AST node; nil for keyword declarations

	// KeywordKind is valid only for declarations bound into the Keyword
	// namespace (root scope reserved words).
	KeywordKind int

	// Type is the declaration's assigned type, written by the type-table
	// pass once it has synthesised one. It is arena.NoId until then.
	Type arena.Id

	// Next links to the declaration this one shadows in the same scope
	// and namespace; nil if there is none.
	Next *NameDeclaration
}

// NameEntry holds the per-namespace shadow chains for one identifier in
// one scope.
type NameEntry struct {
	chains [3]*NameDeclaration // indexed by namespace bit position
}

func nsIndex(ns Namespace) int {
	switch ns {
	case Var:
		return 0
	case Type:
		return 1
	case Keyword:
		return 2
	default:
		panic("scope: namespace must name exactly one bit")
	}
}

// Head returns the most recently bound declaration in namespace ns, or
// nil if none has been bound.
func (e *NameEntry) Head(ns Namespace) *NameDeclaration {
	if e == nil {
		return nil
	}
	return e.chains[nsIndex(ns)]
}

// HasAny reports whether e has at least one declaration in any namespace
// named by mask.
func (e *NameEntry) HasAny(mask Namespace) bool {
	if e == nil {
		return false
	}
	for _, ns := range [...]Namespace{Var, Type, Keyword} {
		if mask.Has(ns) && e.chains[nsIndex(ns)] != nil {
			return true
		}
	}
	return false
}

// Scope is one node of the scope tree: a parent link (never reassigned
// after creation), a depth, and the identifier -> NameEntry map for
// this scope only.
type Scope struct {
	Parent *Scope
	Level  int

	names map[string]*NameEntry
}

// New creates a child scope of parent. Passing a nil parent creates a
// root scope at level 0.
func New(parent *Scope) *Scope {
	level := 0
	if parent != nil {
		level = parent.Level + 1
	}
	return &Scope{Parent: parent, Level: level, names: make(map[string]*NameEntry)}
}

func (s *Scope) entry(name string, create bool) *NameEntry {
	e, ok := s.names[name]
	if !ok && create {
		e = &NameEntry{}
		s.names[name] = e
	}
	return e
}

// Bind appends a new NameDeclaration for name in namespace ns of this
// scope, returning it. The new declaration shadows (Next links to) any
// prior declaration for the same name and namespace in this scope; Bind
// always appends, and whether shadowing is an error for this kind of
// declaration is internal/sema's decision, not scope's.
func (s *Scope) Bind(name string, ns Namespace, node *ast.Node) *NameDeclaration {
	e := s.entry(name, true)
	i := nsIndex(ns)
	decl := &NameDeclaration{Name: name, Node: node, Type: arena.NoId, Next: e.chains[i]}
	e.chains[i] = decl
	return decl
}

// BindKeyword binds a reserved word into the Keyword namespace of this
// scope (used once, at root-scope bootstrap).
func (s *Scope) BindKeyword(name string, kind int) *NameDeclaration {
	e := s.entry(name, true)
	decl := &NameDeclaration{Name: name, KeywordKind: kind, Type: arena.NoId, Next: e.chains[nsIndex(Keyword)]}
	e.chains[nsIndex(Keyword)] = decl
	return decl
}

// Lookup walks s and its ancestors, returning the first scope whose
// NameEntry has a non-empty chain in any namespace named by mask, along
// with that chain's head: the most recently bound declaration, so
// shadowing resolves to the innermost binding.
func Lookup(s *Scope, name string, mask Namespace) (*Scope, *NameDeclaration) {
	for cur := s; cur != nil; cur = cur.Parent {
		if e, ok := cur.names[name]; ok && e.HasAny(mask) {
			for _, ns := range [...]Namespace{Var, Type, Keyword} {
				if mask.Has(ns) {
					if d := e.Head(ns); d != nil {
						return cur, d
					}
				}
			}
		}
	}
	return nil, nil
}

// LookupCurrent looks up name in s only, without walking parents.
func LookupCurrent(s *Scope, name string, mask Namespace) *NameDeclaration {
	e, ok := s.names[name]
	if !ok {
		return nil
	}
	for _, ns := range [...]Namespace{Var, Type, Keyword} {
		if mask.Has(ns) {
			if d := e.Head(ns); d != nil {
				return d
			}
		}
	}
	return nil
}

// Root walks up to and returns s's root scope.
func Root(s *Scope) *Scope {
	for s.Parent != nil {
		s = s.Parent
	}
	return s
}

// BuiltinLookup looks up name in namespace ns, restricted to the root
// scope of s's tree.
func BuiltinLookup(s *Scope, name string, ns Namespace) *NameDeclaration {
	return LookupCurrent(Root(s), name, ns)
}
