// Package compress rewrites a host graph by collapsing pattern
// instances into synthetic vertices.
//
// Each instance of the chosen pattern is replaced by one fresh vertex
// carrying a SUB label whose name embeds the iteration counter. Edges
// internal to an instance disappear; external edges are redirected to
// the instance's synthetic vertex; everything else is copied with labels
// and direction intact. When instances are allowed to overlap, OVERLAP
// edges record which synthetic vertices shared vertices.
//
// Compression preserves example boundaries: synthetic vertices are
// emitted at the position of their instance's lowest vertex id, so each
// stays inside its example's range and the per-example starting-vertex
// array remaps directly.
package compress

import (
	"fmt"
	"io"

	"github.com/simon-lentz/graphmine/adapter/graphtext"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/label"
)

// OverlapLabel is the edge label connecting synthetic vertices of
// overlapping instances.
const OverlapLabel = "OVERLAP"

// SubLabel returns the synthetic vertex label for the given iteration.
func SubLabel(iteration int) label.Value {
	return label.StringValue(fmt.Sprintf("SUB_%d", iteration))
}

// Result is a compressed graph plus the bookkeeping the evaluator and
// the iteration driver need.
type Result struct {
	// Graph is the compressed graph.
	Graph *graph.Graph

	// SubVertices are the ids (in Graph) of the synthetic vertices, one
	// per instance, in instance order.
	SubVertices []int

	// VertexMap maps original vertex ids to Graph ids. Vertices inside
	// an instance map to that instance's synthetic vertex (the first
	// containing instance when overlap is allowed).
	VertexMap []int
}

// Compress rewrites g by collapsing every instance in insts. The SUB
// label for iteration is interned into reg. With allowOverlap set,
// instances sharing vertices each get their own synthetic vertex and an
// OVERLAP edge per overlapping pair.
//
// Compressing with an empty instance list returns an unchanged copy.
func Compress(g *graph.Graph, insts *instance.List, reg *label.Registry, iteration int, allowOverlap bool) *Result {
	return CompressLabeled(g, insts, reg, SubLabel(iteration), allowOverlap)
}

// CompressLabeled is Compress with an explicit synthetic label; the
// predefined-pattern pre-compression uses it for its PS_<n> family.
func CompressLabeled(g *graph.Graph, insts *instance.List, reg *label.Registry, lv label.Value, allowOverlap bool) *Result {
	subLabel := reg.Intern(lv)

	// ownerOf maps each original vertex to the first instance covering
	// it (the redirection target); coversOf lists every instance
	// containing the vertex, which overlapping instances make a set.
	// anchorOf marks the lowest vertex id of each instance, where its
	// synthetic vertex is emitted.
	ownerOf := make([]int, g.VertexCount())
	for i := range ownerOf {
		ownerOf[i] = -1
	}
	coversOf := make([][]int, g.VertexCount())
	anchorOf := make([]int, insts.Len())
	for idx, in := range insts.All() {
		anchor := in.Vertices[0]
		for _, v := range in.Vertices {
			if v < anchor {
				anchor = v
			}
			if ownerOf[v] < 0 {
				ownerOf[v] = idx
			}
			coversOf[v] = append(coversOf[v], idx)
		}
		anchorOf[idx] = anchor
	}

	out := graph.New(g.VertexCount(), g.EdgeCount())
	vertexMap := make([]int, g.VertexCount())
	subVertices := make([]int, insts.Len())
	for i := range subVertices {
		subVertices[i] = -1
	}

	// Walk original vertices in id order so example boundaries remap by
	// position. An instance's synthetic vertex is emitted when its
	// anchor is reached; other covered vertices map to it later.
	examples := g.Examples()
	nextExample := 0
	for v := 0; v < g.VertexCount(); v++ {
		for nextExample < len(examples) && examples[nextExample].Start == v {
			out.AddExample(out.VertexCount(), examples[nextExample].Positive)
			nextExample++
		}
		owner := ownerOf[v]
		if owner < 0 {
			vertexMap[v] = out.AddVertex(g.Vertex(v).Label)
			continue
		}
		for idx, anchor := range anchorOf {
			if anchor == v && subVertices[idx] < 0 {
				subVertices[idx] = out.AddVertex(subLabel)
			}
		}
		vertexMap[v] = -1 // resolved below once all synthetics exist
	}
	for v := 0; v < g.VertexCount(); v++ {
		if owner := ownerOf[v]; owner >= 0 {
			vertexMap[v] = subVertices[owner]
		}
	}

	// Copy every edge whose endpoints are not both inside some single
	// instance, redirecting covered endpoints to the owning synthetic
	// vertex. The existential test matters under overlap: an edge
	// internal to the second of two overlapping instances has endpoints
	// owned by different synthetics yet must still vanish.
	for e := 0; e < g.EdgeCount(); e++ {
		edge := g.Edge(e)
		if sharesInstance(coversOf[edge.Source], coversOf[edge.Target]) {
			continue
		}
		out.MustAddEdge(vertexMap[edge.Source], vertexMap[edge.Target],
			edge.Directed, edge.Label, edge.SpansIncrement)
	}

	if allowOverlap {
		addOverlapEdges(out, insts, subVertices, reg)
	}

	return &Result{Graph: out, SubVertices: subVertices, VertexMap: vertexMap}
}

// sharesInstance reports whether two sorted cover lists name a common
// instance.
func sharesInstance(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// addOverlapEdges connects the synthetic vertices of every actually
// overlapping instance pair with an undirected OVERLAP edge.
func addOverlapEdges(out *graph.Graph, insts *instance.List, subVertices []int, reg *label.Registry) {
	overlap := reg.Intern(label.StringValue(OverlapLabel))
	all := insts.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].Overlaps(all[j]) {
				out.MustAddEdge(subVertices[i], subVertices[j], false, overlap, false)
			}
		}
	}
}

// WriteCompressedGraph compresses g and writes the result in the input
// grammar, without retaining the compressed graph.
func WriteCompressedGraph(w io.Writer, g *graph.Graph, insts *instance.List, reg *label.Registry, iteration int, allowOverlap bool) error {
	res := Compress(g, insts, reg, iteration, allowOverlap)
	return graphtext.WriteGraph(w, res.Graph, reg)
}
