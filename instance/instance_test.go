package instance

import "testing"

func TestNew(t *testing.T) {
	in := New(7)
	if len(in.Vertices) != 1 || in.Vertices[0] != 7 {
		t.Fatalf("Vertices = %v", in.Vertices)
	}
	if in.NewVertex != -1 || in.NewEdge != -1 {
		t.Error("fresh instance should have no extension markers")
	}
}

func TestExtend(t *testing.T) {
	in := New(0)
	grown := in.Extend(4, 1)
	if len(in.Edges) != 0 {
		t.Error("Extend mutated the receiver")
	}
	if grown.NewEdge != 0 || grown.NewVertex != 1 {
		t.Errorf("markers = edge %d, vertex %d", grown.NewEdge, grown.NewVertex)
	}

	// Edge-only extension (closing a cycle).
	closed := grown.Extend(9, -1)
	if closed.NewVertex != -1 {
		t.Error("edge-only extension should clear the vertex marker")
	}
	if len(closed.Vertices) != 2 || len(closed.Edges) != 2 {
		t.Errorf("closed = %v / %v", closed.Vertices, closed.Edges)
	}
}

func TestKey_OrderInsensitive(t *testing.T) {
	a := &Instance{Vertices: []int{3, 1, 2}, Edges: []int{5, 4}}
	b := &Instance{Vertices: []int{1, 2, 3}, Edges: []int{4, 5}}
	c := &Instance{Vertices: []int{1, 2, 4}, Edges: []int{4, 5}}
	if a.Key() != b.Key() {
		t.Error("keys should ignore ordering")
	}
	if a.Key() == c.Key() {
		t.Error("distinct vertex sets should have distinct keys")
	}
}

func TestOverlaps(t *testing.T) {
	a := &Instance{Vertices: []int{0, 1, 2}}
	b := &Instance{Vertices: []int{2, 3}}
	c := &Instance{Vertices: []int{4, 5}}
	if !a.Overlaps(b) {
		t.Error("a and b share vertex 2")
	}
	if a.Overlaps(c) {
		t.Error("a and c are disjoint")
	}
}

func TestList_AddDeduplicates(t *testing.T) {
	l := NewList()
	if !l.Add(&Instance{Vertices: []int{1, 2}, Edges: []int{0}}) {
		t.Error("first Add should insert")
	}
	if l.Add(&Instance{Vertices: []int{2, 1}, Edges: []int{0}}) {
		t.Error("equal instance should be rejected")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestList_InsertionOrder(t *testing.T) {
	l := NewList()
	for _, v := range []int{5, 3, 9} {
		l.Add(New(v))
	}
	got := l.All()
	for i, want := range []int{5, 3, 9} {
		if got[i].Vertices[0] != want {
			t.Fatalf("order violated at %d: %v", i, got[i].Vertices)
		}
	}
}

func TestList_SelectNonOverlapping(t *testing.T) {
	l := NewList()
	l.Add(&Instance{Vertices: []int{0, 1}, Edges: []int{0}})
	l.Add(&Instance{Vertices: []int{1, 2}, Edges: []int{1}}) // overlaps first
	l.Add(&Instance{Vertices: []int{3, 4}, Edges: []int{2}})

	sel := l.SelectNonOverlapping()
	if sel.Len() != 2 {
		t.Fatalf("selected %d, want 2", sel.Len())
	}
	if sel.At(0).Vertices[0] != 0 || sel.At(1).Vertices[0] != 3 {
		t.Error("greedy selection must keep insertion order")
	}
	if sel.AnyOverlap() {
		t.Error("selected instances must be mutually non-overlapping")
	}
}

func TestList_AnyOverlap(t *testing.T) {
	l := NewList()
	l.Add(&Instance{Vertices: []int{0, 1}})
	l.Add(&Instance{Vertices: []int{2, 3}})
	if l.AnyOverlap() {
		t.Error("disjoint list reported overlap")
	}
	l.Add(&Instance{Vertices: []int{3, 4}})
	if !l.AnyOverlap() {
		t.Error("overlap not detected")
	}
}

func TestList_NilSafety(t *testing.T) {
	var l *List
	if l.Len() != 0 || l.All() != nil || l.AnyOverlap() {
		t.Error("nil List accessors should be safe")
	}
}
