package eval

import (
	"github.com/simon-lentz/graphmine/graph"
)

// descriptionLength returns the number of bits encoding g against a
// label universe of size labels.
//
// The model encodes the vertex count, each vertex's label, the rows of
// the binary adjacency matrix (via binomial coefficients), and each
// edge's label, directedness bit, and pair multiplicity:
//
//	lg(V) + V·lg(L)
//	+ (V+1)·lg(B+1) + Σ lg C(V, k_i)
//	+ E·(1 + lg(L)) + (K+1)·lg(M)
//
// where k_i is the number of distinct targets of vertex i, B = max k_i,
// K = Σ k_i, and M is the maximum number of parallel edges between any
// pair.
func (s *Scorer) descriptionLength(g *graph.Graph, labels int) float64 {
	v := g.VertexCount()
	if v == 0 {
		return 0
	}
	e := g.EdgeCount()
	l := float64(labels)

	// Binary adjacency rows: k_i = distinct targets of source vertex i.
	rows := make([]map[int]bool, v)
	for i := 0; i < e; i++ {
		edge := g.Edge(i)
		if rows[edge.Source] == nil {
			rows[edge.Source] = make(map[int]bool)
		}
		rows[edge.Source][edge.Target] = true
	}
	maxRow := 0
	sumRows := 0
	rowBits := 0.0
	for i := 0; i < v; i++ {
		k := len(rows[i])
		if k > maxRow {
			maxRow = k
		}
		sumRows += k
		rowBits += s.lm.lgBinomial(v, k)
	}

	vertexBits := lg(float64(v)) + float64(v)*lg(l)
	adjBits := float64(v+1)*lg(float64(maxRow+1)) + rowBits
	edgeBits := float64(e)*(1+lg(l)) +
		float64(sumRows+1)*lg(float64(g.MaxEdgesBetweenPair()))

	return vertexBits + adjBits + edgeBits
}
