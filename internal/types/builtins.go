package types

import "github.com/dfrunza/ashp4c-sub003/internal/scope"

// InstallBuiltins populates tb with the language's primitive types
// (void, bool, int, bit, varbit, string, error, match_kind, _) and
// binds each one into root's TYPE namespace.
//
// error and match_kind are modeled as extensible ENUM-formed types with
// an initially empty member product; a top-level `error { ... }` or
// `match_kind { ... }` declaration later extends this same type's Fields
// product in place (see ExtendFields) rather than redeclaring the name,
// mirroring the language's open error/match_kind sets.
func InstallBuiltins(tb *TypeTable, root *scope.Scope) {
	bind := func(name string, t Type) Id {
		id := tb.Append(t)
		decl := root.Bind(name, scope.Type, nil)
		decl.Type = id
		return id
	}

	tb.Void = bind("void", Type{Former: Void})
	tb.Bool = bind("bool", Type{Former: Bool})
	tb.IntT = bind("int", Type{Former: Int, Width: -1})
	bind("bit", Type{Former: Bit, Width: -1})
	bind("varbit", Type{Former: Varbit, Width: -1})
	tb.String = bind("string", Type{Former: String})
	tb.Error = bind("error", Type{Former: Enum, Name: "error", Fields: tb.Product(nil)})
	tb.MatchKind = bind("match_kind", Type{Former: Enum, Name: "match_kind", Fields: tb.Product(nil)})
	tb.DontCareT = bind("_", Type{Former: DontCare})
}

// ExtendFields appends newMembers to the member product already stored
// at id's Fields (id must name an ENUM/STRUCT/HEADER/UNION type),
// returning the updated Fields product id and writing it back.
func (tb *TypeTable) ExtendFields(id Id, newMembers []Id) Id {
	t := tb.Get(id)
	existing := tb.ProductMembers(t.Fields)
	all := append(append([]Id{}, existing...), newMembers...)
	t.Fields = tb.Product(all)
	tb.Fill(id, t)
	return t.Fields
}
