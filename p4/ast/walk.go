package ast

// Walk traverses n in pre/post order: before(n) is called on entry; if it
// returns true, Walk recurses into n's children left-to-right, then calls
// after(n). Both callbacks may be nil (before defaults to "always
// descend"). Generic ast-tooling (formatters, dumpers, one-off tree
// queries) walks the tree through here rather than reimplementing its
// own traversal; the resolver, type-table, potential-type, and
// type-selection passes each need pass-specific dispatch per ast.Kind
// and so hand-roll their own typed walkers instead.
func Walk(n *Node, before func(*Node) bool, after func(*Node)) {
	if n == nil {
		return
	}
	if before != nil && !before(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, before, after)
	}
	if after != nil {
		after(n)
	}
}

// Inspect calls f(n) for n and each of its descendants in pre-order.
func Inspect(n *Node, f func(*Node) bool) {
	Walk(n, f, nil)
}
