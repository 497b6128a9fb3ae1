package ast

// Clone returns a deep copy of the subtree rooted at n: every node is
// reallocated, payloads are copied by value (or shallow-copied for
// pointer payloads, which are themselves plain value structs here), and
// tree links are rebuilt to point at the new nodes.
//
// A generic declaration's AST would need an independent copy per distinct
// type-argument instantiation; no pass currently specializes generics, so
// nothing calls Clone yet, but any future specialization pass can reuse
// this rather than hand-rolling a per-kind copier.
//
// This single generic implementation walks and copies every child
// unconditionally. A per-kind copier is easy to get subtly wrong (a
// conditional statement's else branch is the classic child to drop);
// because Clone never special-cases node kinds, all three children of a
// conditional statement are always copied.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Pos: n.Pos, Payload: clonePayload(n.Payload)}
	var lastChild *Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cc := Clone(c)
		if lastChild == nil {
			out.FirstChild = cc
		} else {
			lastChild.NextSibling = cc
		}
		lastChild = cc
	}
	return out
}

func clonePayload(p interface{}) interface{} {
	switch x := p.(type) {
	case *IdentPayload:
		v := *x
		return &v
	case *LitPayload:
		v := *x
		return &v
	case *BinaryPayload:
		v := *x
		return &v
	case *UnaryPayload:
		v := *x
		return &v
	case *MemberPayload:
		v := *x
		return &v
	case *ArgumentPayload:
		v := *x
		return &v
	case *DeclPayload:
		v := *x
		return &v
	case *BaseTypePayload:
		v := *x
		return &v
	case *TransitionPayload:
		v := *x
		return &v
	default:
		return nil
	}
}
