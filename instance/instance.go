package instance

import (
	"sort"
	"strconv"
	"strings"
)

// Instance is one occurrence of a pattern inside a host graph.
//
// Vertices[i] is the host vertex playing the role of pattern vertex i
// when Mapping is nil; otherwise Mapping[i] names the pattern vertex
// that Vertices[i] maps to. Edges lists the host edges covered, ordered
// by the pattern edge id each one plays.
type Instance struct {
	// Vertices are host vertex ids, ordered by pattern role.
	Vertices []int

	// Edges are host edge ids, ordered by pattern edge id.
	Edges []int

	// NewVertex is the position in Vertices added by the latest
	// extension, or -1.
	NewVertex int

	// NewEdge is the position in Edges added by the latest extension,
	// or -1.
	NewEdge int

	// Mapping maps instance vertex positions to pattern vertex ids when
	// the match is inexact or reordered; nil means identity.
	Mapping []int

	// MatchCost is the minimum transformation cost accumulated for this
	// instance under threshold matching; 0 for exact matches.
	MatchCost float64
}

// New creates a single-vertex instance.
func New(vertex int) *Instance {
	return &Instance{
		Vertices:  []int{vertex},
		NewVertex: -1,
		NewEdge:   -1,
	}
}

// Clone returns a deep copy.
func (in *Instance) Clone() *Instance {
	out := &Instance{
		NewVertex: in.NewVertex,
		NewEdge:   in.NewEdge,
		MatchCost: in.MatchCost,
	}
	out.Vertices = append([]int(nil), in.Vertices...)
	out.Edges = append([]int(nil), in.Edges...)
	if in.Mapping != nil {
		out.Mapping = append([]int(nil), in.Mapping...)
	}
	return out
}

// Extend returns a copy grown by edge (and vertex, when vertex >= 0).
// The markers record the added positions.
func (in *Instance) Extend(edge int, vertex int) *Instance {
	out := in.Clone()
	out.Edges = append(out.Edges, edge)
	out.NewEdge = len(out.Edges) - 1
	if vertex >= 0 {
		out.Vertices = append(out.Vertices, vertex)
		out.NewVertex = len(out.Vertices) - 1
	} else {
		out.NewVertex = -1
	}
	return out
}

// HasVertex reports whether v is covered by the instance.
func (in *Instance) HasVertex(v int) bool {
	for _, have := range in.Vertices {
		if have == v {
			return true
		}
	}
	return false
}

// HasEdge reports whether e is covered by the instance.
func (in *Instance) HasEdge(e int) bool {
	for _, have := range in.Edges {
		if have == e {
			return true
		}
	}
	return false
}

// Overlaps reports whether two instances share a vertex.
func (in *Instance) Overlaps(other *Instance) bool {
	for _, v := range in.Vertices {
		if other.HasVertex(v) {
			return true
		}
	}
	return false
}

// Key returns the order-insensitive identity of the instance: its sorted
// vertex set and sorted edge set. Two instances with equal keys are the
// same occurrence.
func (in *Instance) Key() string {
	var b strings.Builder
	writeSorted(&b, in.Vertices)
	b.WriteByte('|')
	writeSorted(&b, in.Edges)
	return b.String()
}

func writeSorted(b *strings.Builder, ids []int) {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
}
