package instance

// List is an insertion-ordered, deduplicating collection of instances.
//
// Dedup is by [Instance.Key]: adding an instance whose vertex set and
// edge set equal an existing member's is a no-op. The greedy non-overlap
// selection in the subgraph matcher and the compressor both iterate in
// insertion order, so order is part of the contract.
type List struct {
	items []*Instance
	keys  map[string]bool
}

// NewList creates an empty list.
func NewList() *List {
	return &List{keys: make(map[string]bool)}
}

// Add appends in unless an equal instance is already present.
// Reports whether the instance was inserted.
func (l *List) Add(in *Instance) bool {
	key := in.Key()
	if l.keys[key] {
		return false
	}
	l.keys[key] = true
	l.items = append(l.items, in)
	return true
}

// Len returns the number of instances.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the i-th instance in insertion order.
func (l *List) At(i int) *Instance { return l.items[i] }

// All returns the instances in insertion order.
// The returned slice must not be modified.
func (l *List) All() []*Instance {
	if l == nil {
		return nil
	}
	return l.items
}

// AnyOverlap reports whether any two members share a vertex.
func (l *List) AnyOverlap() bool {
	if l == nil {
		return false
	}
	for i := 0; i < len(l.items); i++ {
		for j := i + 1; j < len(l.items); j++ {
			if l.items[i].Overlaps(l.items[j]) {
				return true
			}
		}
	}
	return false
}

// SelectNonOverlapping returns a new list holding the members accepted
// by a greedy pass in insertion order: an instance is rejected when its
// vertex set intersects any previously accepted instance.
func (l *List) SelectNonOverlapping() *List {
	out := NewList()
	for _, candidate := range l.items {
		ok := true
		for _, accepted := range out.items {
			if candidate.Overlaps(accepted) {
				ok = false
				break
			}
		}
		if ok {
			out.Add(candidate)
		}
	}
	return out
}

// VerticesCovered returns the total vertex positions across members
// (not deduplicated across overlapping instances).
func (l *List) VerticesCovered() int {
	total := 0
	for _, in := range l.items {
		total += len(in.Vertices)
	}
	return total
}

// EdgesCovered returns the total edge positions across members.
func (l *List) EdgesCovered() int {
	total := 0
	for _, in := range l.items {
		total += len(in.Edges)
	}
	return total
}
