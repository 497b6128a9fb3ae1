// Package potype implements the PotentialType data structure: for every
// expression node, the set of candidate types it might resolve to, or,
// for comma-separated expression lists and argument tuples, a product
// of child PotentialTypes.
package potype

import (
	"github.com/dfrunza/ashp4c-sub003/internal/arena"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
)

// Shape discriminates a PotentialType's two variants.
type Shape uint8

const (
	SetShape Shape = iota
	ProductShape
)

// PotentialType is either a Set of candidate types.Ids (an
// insertion-ordered map with unit values, modeling overloaded
// references) or a Product (a fixed-length array of child
// PotentialTypes, modeling argument tuples and comma-separated
// expression lists).
type PotentialType struct {
	Shape    Shape
	set      *arena.IdentitySet[types.Id] // SetShape
	Elements []*PotentialType             // ProductShape
}

// NewSet returns a Set-shaped PotentialType seeded with the given
// candidate types.
func NewSet(ids ...types.Id) *PotentialType {
	s := arena.NewIdentitySet[types.Id]()
	for _, id := range ids {
		s.Add(id)
	}
	return &PotentialType{Shape: SetShape, set: s}
}

// NewProduct returns a Product-shaped PotentialType over the given
// per-position child PotentialTypes, preserving order.
func NewProduct(elems ...*PotentialType) *PotentialType {
	return &PotentialType{Shape: ProductShape, Elements: elems}
}

// Add inserts id into a Set-shaped PotentialType's candidates (a no-op
// if already present); it is the union operation the potential-type
// pass uses as it discovers more candidates for the same expression.
func (p *PotentialType) Add(id types.Id) {
	if p.Shape != SetShape {
		panic("potype: Add on a Product-shaped PotentialType")
	}
	if p.set == nil {
		p.set = arena.NewIdentitySet[types.Id]()
	}
	p.set.Add(id)
}

// Union merges other's candidates into p in place (both must be
// Set-shaped).
func (p *PotentialType) Union(other *PotentialType) {
	if other == nil {
		return
	}
	for _, id := range other.Candidates() {
		p.Add(id)
	}
}

// Candidates returns a Set-shaped PotentialType's member Ids in
// insertion order. It returns nil for a Product-shaped PotentialType.
func (p *PotentialType) Candidates() []types.Id {
	if p == nil || p.Shape != SetShape || p.set == nil {
		return nil
	}
	return p.set.Keys()
}

// Cardinality reports the number of candidates in a Set-shaped
// PotentialType. Type selection requires this to be exactly 1 for every
// expression node it commits (Product-shaped nodes are unpacked into
// their elements before selection, not selected directly).
func (p *PotentialType) Cardinality() int {
	if p == nil {
		return 0
	}
	return len(p.Candidates())
}

// Empty reports whether a Set-shaped PotentialType has no candidates.
func (p *PotentialType) Empty() bool { return p.Cardinality() == 0 }
