package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/label"
)

// buildHost creates A-B pairs linked by "near" edges:
//
//	(A0 -on-> B1) -near-> (A2 -on-> B3) -near-> C4
func buildHost(t *testing.T) (*graph.Graph, *label.Registry) {
	t.Helper()
	reg := label.NewRegistry()
	a := reg.Intern(label.StringValue("A"))
	b := reg.Intern(label.StringValue("B"))
	c := reg.Intern(label.StringValue("C"))
	on := reg.Intern(label.StringValue("on"))
	near := reg.Intern(label.StringValue("near"))

	g := graph.New(5, 4)
	a0 := g.AddVertex(a)
	b1 := g.AddVertex(b)
	a2 := g.AddVertex(a)
	b3 := g.AddVertex(b)
	c4 := g.AddVertex(c)
	g.MustAddEdge(a0, b1, true, on, false)
	g.MustAddEdge(b1, a2, false, near, false)
	g.MustAddEdge(a2, b3, true, on, false)
	g.MustAddEdge(b3, c4, false, near, false)
	return g, reg
}

func pairInstances() *instance.List {
	l := instance.NewList()
	l.Add(&instance.Instance{Vertices: []int{0, 1}, Edges: []int{0}})
	l.Add(&instance.Instance{Vertices: []int{2, 3}, Edges: []int{2}})
	return l
}

func TestCompress_Basic(t *testing.T) {
	g, reg := buildHost(t)
	res := Compress(g, pairInstances(), reg, 1, false)
	out := res.Graph

	// |V'| = |V| - sum(|inst.V| - 1) = 5 - 2 = 3.
	assert.Equal(t, 3, out.VertexCount())
	// Internal "on" edges disappear; the two "near" edges survive.
	require.Equal(t, 2, out.EdgeCount())

	require.Len(t, res.SubVertices, 2)
	subLabel := reg.Lookup(SubLabel(1))
	require.NotEqual(t, label.None, subLabel)
	for _, sv := range res.SubVertices {
		assert.Equal(t, subLabel, out.Vertex(sv).Label)
	}

	// The near edge between the pairs now joins the two synthetics.
	e := out.Edge(0)
	assert.ElementsMatch(t, []int{res.SubVertices[0], res.SubVertices[1]},
		[]int{e.Source, e.Target})

	// Conservation: every surviving edge keeps its label.
	near := reg.Lookup(label.StringValue("near"))
	for i := 0; i < out.EdgeCount(); i++ {
		assert.Equal(t, near, out.Edge(i).Label)
	}
}

func TestCompress_EmptyInstanceListIsIdentity(t *testing.T) {
	g, reg := buildHost(t)
	res := Compress(g, instance.NewList(), reg, 1, false)
	assert.Equal(t, g.VertexCount(), res.Graph.VertexCount())
	assert.Equal(t, g.EdgeCount(), res.Graph.EdgeCount())
	for v := 0; v < g.VertexCount(); v++ {
		assert.Equal(t, g.Vertex(v).Label, res.Graph.Vertex(v).Label)
		assert.Equal(t, v, res.VertexMap[v])
	}
}

func TestCompress_ExampleBoundariesRemap(t *testing.T) {
	g, reg := buildHost(t)
	g.AddExample(0, true)  // vertices 0..1
	g.AddExample(2, true)  // vertices 2..3
	g.AddExample(4, false) // vertex 4

	res := Compress(g, pairInstances(), reg, 1, false)
	out := res.Graph
	examples := out.Examples()
	require.Len(t, examples, 3)
	assert.Equal(t, 0, examples[0].Start)
	assert.Equal(t, 1, examples[1].Start)
	assert.Equal(t, 2, examples[2].Start)
	assert.False(t, examples[2].Positive)
}

func TestCompress_OverlapEdges(t *testing.T) {
	reg := label.NewRegistry()
	a := reg.Intern(label.StringValue("A"))
	e := reg.Intern(label.StringValue("e"))
	g := graph.New(3, 2)
	v0 := g.AddVertex(a)
	v1 := g.AddVertex(a)
	v2 := g.AddVertex(a)
	g.MustAddEdge(v0, v1, false, e, false)
	g.MustAddEdge(v1, v2, false, e, false)

	insts := instance.NewList()
	insts.Add(&instance.Instance{Vertices: []int{v0, v1}, Edges: []int{0}})
	insts.Add(&instance.Instance{Vertices: []int{v1, v2}, Edges: []int{1}})

	res := Compress(g, insts, reg, 2, true)
	out := res.Graph

	require.Len(t, res.SubVertices, 2)
	overlapLabel := reg.Lookup(label.StringValue(OverlapLabel))
	require.NotEqual(t, label.None, overlapLabel)

	// Both host edges are internal to one of the overlapping instances,
	// so only the OVERLAP edge survives. The shared vertex belongs to
	// the first instance's synthetic, but the second instance's edge
	// must still vanish rather than resurface between the synthetics.
	require.Equal(t, 1, out.EdgeCount())
	e0 := out.Edge(0)
	assert.Equal(t, overlapLabel, e0.Label)
	assert.ElementsMatch(t, []int{res.SubVertices[0], res.SubVertices[1]},
		[]int{e0.Source, e0.Target})
}

func TestWriteCompressedGraph(t *testing.T) {
	g, reg := buildHost(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCompressedGraph(&buf, g, pairInstances(), reg, 3, false))
	assert.Contains(t, buf.String(), "SUB_3")
}
