package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/label"
)

// triangle builds a three-vertex cycle with vertex label v and edge
// labels e1, e2, e3.
func triangle(reg *label.Registry, v, e1, e2, e3 string) *graph.Graph {
	g := graph.New(3, 3)
	vl := reg.Intern(label.StringValue(v))
	a := g.AddVertex(vl)
	b := g.AddVertex(vl)
	c := g.AddVertex(vl)
	g.MustAddEdge(a, b, false, reg.Intern(label.StringValue(e1)), false)
	g.MustAddEdge(b, c, false, reg.Intern(label.StringValue(e2)), false)
	g.MustAddEdge(a, c, false, reg.Intern(label.StringValue(e3)), false)
	return g
}

func chain(reg *label.Registry, n int, vlabel, elabel string, directed bool) *graph.Graph {
	g := graph.New(n, n-1)
	vl := reg.Intern(label.StringValue(vlabel))
	el := reg.Intern(label.StringValue(elabel))
	prev := -1
	for i := 0; i < n; i++ {
		v := g.AddVertex(vl)
		if prev >= 0 {
			g.MustAddEdge(prev, v, directed, el, false)
		}
		prev = v
	}
	return g
}

func TestMatch_Identity(t *testing.T) {
	reg := label.NewRegistry()
	g := triangle(reg, "X", "t", "t", "t")
	m := NewMatcher(reg)
	cost, ok := m.Match(g, g, 0)
	require.True(t, ok)
	assert.Equal(t, 0.0, cost)
}

func TestMatch_SingleEdgeLabelSubstitution(t *testing.T) {
	reg := label.NewRegistry()
	g1 := triangle(reg, "X", "t", "t", "t")
	g2 := triangle(reg, "X", "t", "t", "q")
	m := NewMatcher(reg)

	cost, ok := m.Match(g1, g2, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, 1.0, cost, "one substitute-edge-label operation")

	// Threshold semantics from the tolerance model: 0.5*(|V|+|E|) = 3.0
	// admits the match, a bare 0.5 does not.
	_, ok = m.Match(g1, g2, 3.0)
	assert.True(t, ok)
	_, ok = m.Match(g1, g2, 0.5)
	assert.False(t, ok)
}

func TestMatch_Symmetry(t *testing.T) {
	reg := label.NewRegistry()
	g1 := triangle(reg, "X", "t", "t", "q")
	g2 := chain(reg, 4, "X", "t", false)
	m := NewMatcher(reg, WithNodeBudgetExponent(0))

	c12, ok := m.Match(g1, g2, math.Inf(1))
	require.True(t, ok)
	c21, ok := m.Match(g2, g1, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, c12, c21, "min cost must be symmetric at infinite threshold")
}

func TestMatch_VertexCountMismatch(t *testing.T) {
	reg := label.NewRegistry()
	g1 := chain(reg, 2, "A", "next", true)
	g2 := chain(reg, 3, "A", "next", true)
	m := NewMatcher(reg)

	// Cheapest transformation: insert one vertex plus its edge.
	cost, ok := m.Match(g1, g2, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, 2.0, cost)
}

func TestMatch_DirectionCosts(t *testing.T) {
	reg := label.NewRegistry()
	a := reg.Intern(label.StringValue("A"))
	b := reg.Intern(label.StringValue("B"))
	el := reg.Intern(label.StringValue("e"))

	// Distinct endpoint labels pin the vertex mapping, so direction
	// differences cannot be absorbed by relabeling the endpoints.
	mk := func(directed bool, reverse bool) *graph.Graph {
		g := graph.New(2, 1)
		u := g.AddVertex(a)
		v := g.AddVertex(b)
		if reverse {
			g.MustAddEdge(v, u, directed, el, false)
		} else {
			g.MustAddEdge(u, v, directed, el, false)
		}
		return g
	}
	m := NewMatcher(reg)

	// Directed vs undirected: substitute-directedness.
	cost, _ := m.Match(mk(true, false), mk(false, false), math.Inf(1))
	assert.Equal(t, 1.0, cost)

	// Directed vs reversed directed: reverse-edge.
	cost, _ = m.Match(mk(true, false), mk(true, true), math.Inf(1))
	assert.Equal(t, 1.0, cost)

	// Undirected pair stores endpoints in either order at no cost.
	cost, _ = m.Match(mk(false, false), mk(false, true), math.Inf(1))
	assert.Equal(t, 0.0, cost)
}

func TestMatch_DeleteVertexWithEdges(t *testing.T) {
	reg := label.NewRegistry()
	g1 := chain(reg, 3, "A", "e", false) // A-A-A
	g2 := chain(reg, 1, "A", "e", false) // single A
	m := NewMatcher(reg)

	// Cheapest route deletes the middle vertex first (charging the edge
	// to the mapped end) and then the far end, whose edge leads to an
	// already-deleted vertex and is folded into that deletion.
	cost, ok := m.Match(g1, g2, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, 3.0, cost)
}

func TestMatch_MappingIdentity(t *testing.T) {
	reg := label.NewRegistry()
	g := chain(reg, 3, "A", "next", true)
	m := NewMatcher(reg)
	cost, mapping, ok := m.MatchMapping(g, g, 0)
	require.True(t, ok)
	require.Equal(t, 0.0, cost)
	require.Len(t, mapping, 3)
	// A zero-cost self-match maps every vertex to a vertex of the same
	// label with identical adjacency; for a chain that is a graph
	// automorphism.
	seen := make(map[int]bool)
	for _, v := range mapping {
		require.GreaterOrEqual(t, v, 0)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "mapping must be a bijection")
}

func TestMatch_SwappedArgumentOrder(t *testing.T) {
	reg := label.NewRegistry()
	small := chain(reg, 2, "A", "e", false)
	big := chain(reg, 5, "A", "e", false)
	m := NewMatcher(reg)

	// g1 smaller than g2: the matcher swaps internally and un-swaps the
	// mapping, which must be in g1 terms.
	cost, mapping, ok := m.MatchMapping(small, big, math.Inf(1))
	require.True(t, ok)
	assert.Greater(t, cost, 0.0)
	require.Len(t, mapping, small.VertexCount())
}

func TestMatch_LabelMismatchScaling(t *testing.T) {
	reg := label.NewRegistry()
	g1 := chain(reg, 1, "A", "e", false)
	g2 := chain(reg, 1, "B", "e", false)
	// 1.5 stays below delete-plus-insert (2), so substitution is the
	// cheapest route.
	m := NewMatcher(reg, WithCosts(Costs{SubstituteVertex: 1.5}))
	cost, ok := m.Match(g1, g2, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, 1.5, cost, "substitute cost scales the mismatch factor")
}

func TestMatch_GreedyDegradationStillCompletes(t *testing.T) {
	reg := label.NewRegistry()
	// Two 6-cycles with one label difference force a non-trivial search;
	// exponent 1 triggers the greedy regime almost immediately.
	mk := func(last string) *graph.Graph {
		g := graph.New(6, 6)
		vl := reg.Intern(label.StringValue("X"))
		el := reg.Intern(label.StringValue("e"))
		ids := make([]int, 6)
		for i := range ids {
			ids[i] = g.AddVertex(vl)
		}
		for i := range ids {
			l := el
			if i == 5 {
				l = reg.Intern(label.StringValue(last))
			}
			g.MustAddEdge(ids[i], ids[(i+1)%6], false, l, false)
		}
		return g
	}
	g1, g2 := mk("e"), mk("q")

	exact := NewMatcher(reg, WithNodeBudgetExponent(0))
	want, ok := exact.Match(g1, g2, math.Inf(1))
	require.True(t, ok)
	require.Equal(t, 1.0, want)

	greedy := NewMatcher(reg, WithNodeBudgetExponent(1))
	got, ok := greedy.Match(g1, g2, math.Inf(1))
	require.True(t, ok, "greedy regime must still complete")
	assert.GreaterOrEqual(t, got, want, "greedy cost is an upper bound")
}

func TestMatch_EmptyGraph(t *testing.T) {
	reg := label.NewRegistry()
	empty := graph.New(0, 0)
	g := chain(reg, 2, "A", "e", false)
	m := NewMatcher(reg)

	// Both endpoints of the edge are inserted, so the edge itself is
	// folded into the vertex insertions.
	cost, ok := m.Match(empty, g, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, 2.0, cost)

	cost, ok = m.Match(empty, empty, 0)
	require.True(t, ok)
	assert.Equal(t, 0.0, cost)
}
