package types

import "github.com/dfrunza/ashp4c-sub003/internal/scope"

// Equiv reports structural equivalence on formers, transparent through
// TYPEDEF and TYPE(meta), resolving NAMEREF via its stored scope, and
// treating DONTCARE as a universal match on either side.
func (tb *TypeTable) Equiv(a, b Id) bool {
	return tb.equiv(a, b, map[[2]Id]bool{})
}

func (tb *TypeTable) equiv(a, b Id, seen map[[2]Id]bool) bool {
	if a == NoId || b == NoId {
		return a == b // an empty product's components are both NoId
	}
	a, b = tb.unwrap(a), tb.unwrap(b)
	if a == b {
		return true
	}
	key := [2]Id{a, b}
	if seen[key] {
		return true // break cycles optimistically; a genuine mismatch surfaces elsewhere
	}
	seen[key] = true

	ta, tb2 := tb.Get(a), tb.Get(b)
	if ta.Former == DontCare || tb2.Former == DontCare {
		return true
	}
	if ta.Former != tb2.Former {
		return false
	}
	switch ta.Former {
	case Void, Bool, String:
		return true
	case Int, Bit, Varbit:
		return ta.Width == tb2.Width
	case Enum, Struct, Header, Union, Extern, Table, TypeVar:
		return ta.Name == tb2.Name
	case Product:
		return tb.equiv(ta.Left, tb2.Left, seen) && tb.equiv(ta.Right, tb2.Right, seen)
	case Function:
		if (ta.Return == NoId) != (tb2.Return == NoId) {
			return false
		}
		if ta.Return != NoId && !tb.equiv(ta.Return, tb2.Return, seen) {
			return false
		}
		return tb.equiv(ta.Params, tb2.Params, seen)
	case Parser, Control:
		return tb.equiv(ta.Params, tb2.Params, seen) &&
			tb.equiv(ta.Ctors, tb2.Ctors, seen) &&
			tb.equiv(ta.Methods, tb2.Methods, seen)
	case Stack:
		return tb.equiv(ta.Elem, tb2.Elem, seen)
	case Specialized:
		if ta.Elem != tb2.Elem || len(ta.Args) != len(tb2.Args) {
			return false
		}
		for i := range ta.Args {
			if !tb.equiv(ta.Args[i], tb2.Args[i], seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// unwrap peels TYPE meta and follows TYPEDEF/NAMEREF/IDREF chains down
// to the underlying former: NAMEREF resolves via its own stored scope,
// IDREF via the installed idrefLookup (a TYPEDEF's Elem is always an
// IDREF, so typedef'd types would never compare equal to their aliased
// former without this). The seen set breaks reference cycles the same
// way EffectiveType's does.
func (tb *TypeTable) unwrap(id Id) Id {
	seen := map[Id]bool{}
	for {
		if seen[id] {
			return id
		}
		seen[id] = true
		t := tb.Get(id)
		switch t.Former {
		case TypeMeta:
			id = t.Elem
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
			if t.RefNode == nil || tb.idrefLookup == nil {
				return id
			}
			next, ok := tb.idrefLookup(t.RefNode)
			if !ok {
				return id
			}
			id = next
		default:
			return id
		}
	}
}
