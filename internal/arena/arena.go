// Package arena provides the allocation and container primitives the
// compiler passes share: a bump-style allocator facade, an append-only
// pool with stable handles, and an insertion-ordered identity map/set.
//
// Go's garbage collector already gives every value in this front end
// bulk-release behavior when the compilation's Arena is dropped, so
// Allocate here is a thin facade over make() rather than a hand-rolled
// page allocator. What this package does implement are the containers
// every pass builds on: the append-only Pool and the insertion-ordered
// IdentityMap / IdentitySet used for side tables.
package arena

import "unsafe"

// Arena is a bump-allocation facade: every front-end pass that needs
// scratch storage for a compilation allocates through the same Arena so
// that lifetime is pinned to a single *Arena value and everything dies
// together when it is dropped.
type Arena struct {
	bytes int
}

// New returns an empty Arena.
func New() *Arena { return &Arena{} }

// Allocate returns n zero-valued T's. The backing store is ordinary Go
// memory, reclaimed by the garbage collector once the Arena and
// everything it allocated becomes unreachable.
func Allocate[T any](a *Arena, n int) []T {
	a.bytes += n * sizeOf[T]()
	return make([]T, n)
}

// BytesAllocated reports the running total passed to Allocate, for
// diagnostics. The driver's --verbose output does not include it.
func (a *Arena) BytesAllocated() int { return a.bytes }

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
