package scope

import "testing"

func TestBindShadowsWithinSameScope(t *testing.T) {
	s := New(nil)
	first := s.Bind("hdr", Var, nil)
	second := s.Bind("hdr", Var, nil)

	if second.Next != first {
		t.Fatalf("second declaration must shadow (Next-link to) the first")
	}
	_, head := Lookup(s, "hdr", Var)
	if head != second {
		t.Errorf("Lookup must return the most recently bound declaration")
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	s := New(nil)
	s.Bind("foo", Var, nil)
	s.Bind("foo", Type, nil)

	if _, d := Lookup(s, "foo", Var); d == nil {
		t.Errorf("expected a VAR binding for foo")
	}
	if _, d := Lookup(s, "foo", Type); d == nil {
		t.Errorf("expected a TYPE binding for foo")
	}
	if LookupCurrent(s, "foo", Keyword) != nil {
		t.Errorf("foo was never bound into KEYWORD")
	}
}

func TestLookupWalksAncestors(t *testing.T) {
	root := New(nil)
	root.Bind("x", Var, nil)
	child := New(root)

	foundScope, decl := Lookup(child, "x", Var)
	if decl == nil {
		t.Fatalf("expected to find x bound in an ancestor scope")
	}
	if foundScope != root {
		t.Errorf("Lookup must return the scope that owns the binding, not the starting scope")
	}
}

func TestLookupCurrentDoesNotWalk(t *testing.T) {
	root := New(nil)
	root.Bind("x", Var, nil)
	child := New(root)

	if LookupCurrent(child, "x", Var) != nil {
		t.Errorf("LookupCurrent must not see ancestor bindings")
	}
}

func TestBuiltinLookupIsRootOnly(t *testing.T) {
	root := New(nil)
	root.Bind("int", Type, nil)
	child := New(root)
	child.Bind("int", Type, nil) // a local shadow

	decl := BuiltinLookup(child, "int", Type)
	if decl == nil {
		t.Fatalf("expected to find the builtin")
	}
	if _, rootHead := Lookup(root, "int", Type); decl != rootHead {
		t.Errorf("BuiltinLookup must return the root scope's declaration, not a shadowing one")
	}
}

func TestScopeLevels(t *testing.T) {
	root := New(nil)
	child := New(root)
	grandchild := New(child)

	if root.Level != 0 || child.Level != 1 || grandchild.Level != 2 {
		t.Errorf("levels = %d, %d, %d, want 0, 1, 2", root.Level, child.Level, grandchild.Level)
	}
	if Root(grandchild) != root {
		t.Errorf("Root(grandchild) must walk back up to the root scope")
	}
}

func TestBindKeyword(t *testing.T) {
	s := New(nil)
	s.BindKeyword("parser", 7)
	decl := LookupCurrent(s, "parser", Keyword)
	if decl == nil || decl.KeywordKind != 7 {
		t.Fatalf("expected a KEYWORD binding for parser with kind 7")
	}
	if decl.Node != nil {
		t.Errorf("a keyword declaration must carry a nil Node")
	}
}

func TestLookupMissingNameReturnsNil(t *testing.T) {
	s := New(nil)
	if scope, decl := Lookup(s, "nope", Var|Type|Keyword); scope != nil || decl != nil {
		t.Errorf("Lookup of an unbound name must return nil, nil")
	}
}
