package arena

import "testing"

func TestIdentityMapInsertionOrder(t *testing.T) {
	m := NewIdentityMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Set("b", 20) // overwrite must not move b in iteration order

	want := []string{"a", "b", "c"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v, ok := m.Get("b"); !ok || v != 20 {
		t.Errorf("Get(b) = %d, %v, want 20, true", v, ok)
	}
	if _, ok := m.Get("z"); ok {
		t.Errorf("Get(z) unexpectedly found")
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestIdentityMapEach(t *testing.T) {
	m := NewIdentityMap[int, string]()
	m.Set(1, "one")
	m.Set(2, "two")
	var seen []int
	m.Each(func(k int, v string) { seen = append(seen, k) })
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("Each visited %v, want [1 2]", seen)
	}
}

func TestIdentitySet(t *testing.T) {
	s := NewIdentitySet[string]()
	s.Add("x")
	s.Add("y")
	s.Add("x") // no-op

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Has("x") || !s.Has("y") {
		t.Errorf("expected both x and y to be members")
	}
	if s.Has("z") {
		t.Errorf("z should not be a member")
	}
	want := []string{"x", "y"}
	got := s.Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPoolAppendGetSet(t *testing.T) {
	p := NewPool[string]()
	id1 := p.Append("first")
	id2 := p.Append("second")
	if id1 == id2 {
		t.Fatalf("distinct Appends returned the same Id")
	}
	if p.Get(id1) != "first" || p.Get(id2) != "second" {
		t.Errorf("Get returned wrong values")
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestPoolReserveThenFill(t *testing.T) {
	p := NewPool[int]()
	id := p.Reserve()
	if p.Get(id) != 0 {
		t.Errorf("Reserve'd slot should read as the zero value before Set")
	}
	p.Set(id, 42)
	if p.Get(id) != 42 {
		t.Errorf("Get after Set = %d, want 42", p.Get(id))
	}
}

func TestNoIdIsNotAValidIndex(t *testing.T) {
	if NoId >= 0 {
		t.Errorf("NoId = %d, want a negative sentinel", NoId)
	}
}
