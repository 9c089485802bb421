package graph

import (
	"errors"
	"fmt"

	"github.com/simon-lentz/graphmine/label"
)

// Sentinel errors for graph construction.
var (
	// ErrVertexRange indicates an edge endpoint outside the vertex array.
	ErrVertexRange = errors.New("graph: vertex index out of range")
)

// Vertex is a node of the graph.
type Vertex struct {
	// Label is the interned label index.
	Label label.Index

	// Edges lists the ids of incident edges in insertion order.
	// A self-loop appears once.
	Edges []int
}

// Edge is a labeled, possibly directed connection between two vertices.
type Edge struct {
	// Label is the interned label index.
	Label label.Index

	// Source and Target are vertex ids. For undirected edges the
	// assignment is storage order only.
	Source int
	Target int

	// Directed indicates a one-way edge.
	Directed bool

	// SpansIncrement marks an edge crossing a streaming-boundary
	// increment. The core carries the flag through copies and
	// compression; only the boundary layer interprets it.
	SpansIncrement bool
}

// Other returns the endpoint of e opposite to vertex v.
// For a self-loop it returns v.
func (e Edge) Other(v int) int {
	if e.Source == v {
		return e.Target
	}
	return e.Source
}

// Graph is a labeled multigraph with dense, stable vertex and edge ids.
type Graph struct {
	vertices []Vertex
	edges    []Edge
	examples []Example
}

// New creates an empty graph with capacity hints. Negative hints are
// treated as zero.
func New(vcap, ecap int) *Graph {
	if vcap < 0 {
		vcap = 0
	}
	if ecap < 0 {
		ecap = 0
	}
	return &Graph{
		vertices: make([]Vertex, 0, vcap),
		edges:    make([]Edge, 0, ecap),
	}
}

// AddVertex appends a vertex with the given label and returns its id.
func (g *Graph) AddVertex(l label.Index) int {
	g.vertices = append(g.vertices, Vertex{Label: l})
	return len(g.vertices) - 1
}

// AddEdge appends an edge and updates both endpoints' adjacency lists
// (once for a self-loop). Returns the new edge id.
func (g *Graph) AddEdge(src, dst int, directed bool, l label.Index, spansIncrement bool) (int, error) {
	if src < 0 || src >= len(g.vertices) || dst < 0 || dst >= len(g.vertices) {
		return 0, fmt.Errorf("%w: edge (%d,%d) in graph of %d vertices", ErrVertexRange, src, dst, len(g.vertices))
	}
	id := len(g.edges)
	g.edges = append(g.edges, Edge{
		Label:          l,
		Source:         src,
		Target:         dst,
		Directed:       directed,
		SpansIncrement: spansIncrement,
	})
	g.vertices[src].Edges = append(g.vertices[src].Edges, id)
	if dst != src {
		g.vertices[dst].Edges = append(g.vertices[dst].Edges, id)
	}
	return id, nil
}

// MustAddEdge is AddEdge for callers that have already validated the
// endpoints (pattern construction, compression). Panics on range errors.
func (g *Graph) MustAddEdge(src, dst int, directed bool, l label.Index, spansIncrement bool) int {
	id, err := g.AddEdge(src, dst, directed, l, spansIncrement)
	if err != nil {
		panic(err)
	}
	return id
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Vertex returns the vertex with id i. The returned pointer is valid
// until the next AddVertex call.
func (g *Graph) Vertex(i int) *Vertex { return &g.vertices[i] }

// Edge returns the edge with id i. The returned pointer is valid until
// the next AddEdge call.
func (g *Graph) Edge(i int) *Edge { return &g.edges[i] }

// Size returns |V| + |E|, the unit of the size-based evaluation model.
func (g *Graph) Size() int { return len(g.vertices) + len(g.edges) }

// Clone returns a deep copy preserving all ids.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		vertices: make([]Vertex, len(g.vertices)),
		edges:    make([]Edge, len(g.edges)),
		examples: make([]Example, len(g.examples)),
	}
	copy(out.edges, g.edges)
	copy(out.examples, g.examples)
	for i, v := range g.vertices {
		cp := v
		cp.Edges = make([]int, len(v.Edges))
		copy(cp.Edges, v.Edges)
		out.vertices[i] = cp
	}
	return out
}

// MaxEdgesBetweenPair returns the maximum number of parallel edges
// between any single vertex pair (a self-loop pair counts its loops).
// Returns 0 for an edgeless graph.
func (g *Graph) MaxEdgesBetweenPair() int {
	type pair struct{ a, b int }
	counts := make(map[pair]int, len(g.edges))
	maxCount := 0
	for _, e := range g.edges {
		a, b := e.Source, e.Target
		if b < a {
			a, b = b, a
		}
		p := pair{a, b}
		counts[p]++
		if counts[p] > maxCount {
			maxCount = counts[p]
		}
	}
	return maxCount
}

// DegreeOrder returns the vertex ids sorted by descending degree.
// The sort is a stable insertion sort, so equal-degree vertices keep
// id order; the inexact matcher relies on this for determinism.
func (g *Graph) DegreeOrder() []int {
	order := make([]int, len(g.vertices))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		v := order[i]
		d := len(g.vertices[v].Edges)
		j := i - 1
		for j >= 0 && len(g.vertices[order[j]].Edges) < d {
			order[j+1] = order[j]
			j--
		}
		order[j+1] = v
	}
	return order
}

// VertexLabels returns each distinct vertex label once, in
// first-occurrence order. Seeding uses this to create the
// initial single-vertex patterns.
func (g *Graph) VertexLabels() []label.Index {
	seen := make(map[label.Index]bool)
	var out []label.Index
	for _, v := range g.vertices {
		if !seen[v.Label] {
			seen[v.Label] = true
			out = append(out, v.Label)
		}
	}
	return out
}
