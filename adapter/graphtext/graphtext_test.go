package graphtext

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/graphmine/diag"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/label"
	"github.com/simon-lentz/graphmine/location"
)

var testSrc = location.MustNewSourceID("inline:test")

func parse(t *testing.T, input string, directed bool) (*graph.Graph, *label.Registry) {
	t.Helper()
	reg := label.NewRegistry()
	col := diag.NewCollector(diag.NoLimit)
	g, err := ParseGraph([]byte(input), testSrc, directed, reg, col)
	require.NoError(t, err, "diagnostics: %s", col.Result())
	return g, reg
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"v 1 object", []string{"v", "1", "object"}},
		{`v 2 "has part"`, []string{"v", "2", "has part"}},
		{"e 1 2 on % trailing comment", []string{"e", "1", "2", "on"}},
		{"% whole line comment", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got, ok := splitFields(tt.line)
		require.True(t, ok, "line %q", tt.line)
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}

	_, ok := splitFields(`v 1 "unterminated`)
	assert.False(t, ok)
}

func TestParseGraph_Triangle(t *testing.T) {
	g, reg := parse(t, `
% three vertices, three undirected edges
v 1 X
v 2 X
v 3 X
e 1 2 t
e 2 3 t
e 1 3 t
`, false)

	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 3, g.EdgeCount())
	pos, neg := g.ExampleCount()
	assert.Equal(t, 1, pos, "first example defaults to positive")
	assert.Equal(t, 0, neg)
	for i := 0; i < g.EdgeCount(); i++ {
		assert.False(t, g.Edge(i).Directed)
	}
	assert.Equal(t, 2, reg.Len(), "labels X and t")
}

func TestParseGraph_DirectedFlagAndOverrides(t *testing.T) {
	g, _ := parse(t, `
v 1 a
v 2 a
e 1 2 next
u 1 2 near
d 2 1 far
`, true)

	assert.True(t, g.Edge(0).Directed, "e follows the directed flag")
	assert.False(t, g.Edge(1).Directed, "u is always undirected")
	assert.True(t, g.Edge(2).Directed, "d is always directed")
	assert.Equal(t, 1, g.Edge(2).Source)
}

func TestParseGraph_Examples(t *testing.T) {
	g, _ := parse(t, `
XP
v 1 a
v 2 a
e 1 2 on
XN
v 3 b
XP
v 4 a
`, false)

	pos, neg := g.ExampleCount()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 1, neg)
	assert.Equal(t, 0, g.ExampleOf(1))
	assert.Equal(t, 1, g.ExampleOf(2))
	assert.Equal(t, 2, g.ExampleOf(3))
}

func TestParseGraph_NumericAndQuotedLabels(t *testing.T) {
	g, reg := parse(t, `
v 1 3.5
v 2 "with space"
e 1 2 -1e2
`, false)

	v, ok := reg.Get(g.Vertex(0).Label)
	require.True(t, ok)
	f, isNum := v.Num()
	require.True(t, isNum)
	assert.Equal(t, 3.5, f)

	v, _ = reg.Get(g.Vertex(1).Label)
	s, isStr := v.Str()
	require.True(t, isStr)
	assert.Equal(t, "with space", s)

	v, _ = reg.Get(g.Edge(0).Label)
	f, isNum = v.Num()
	require.True(t, isNum)
	assert.Equal(t, -100.0, f)
}

func TestParseGraph_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		line  int
	}{
		{"unknown token", "q 1 2\n", diag.CodeSyntaxToken, 1},
		{"missing field", "v 1\n", diag.CodeSyntaxField, 1},
		{"non-numeric id", "v one a\n", diag.CodeSyntaxNumber, 1},
		{"non-sequential id", "v 2 a\n", diag.CodeSyntaxVertexRef, 1},
		{"undeclared endpoint", "v 1 a\ne 1 9 on\n", diag.CodeSyntaxVertexRef, 2},
		{"unterminated quote", "v 1 \"oops\n", diag.CodeSyntaxQuote, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := label.NewRegistry()
			col := diag.NewCollector(diag.NoLimit)
			_, err := ParseGraph([]byte(tt.input), testSrc, false, reg, col)
			require.ErrorIs(t, err, ErrParse)
			r := col.Result()
			require.Equal(t, 1, r.Len())
			assert.Equal(t, tt.code, r.Issues()[0].Code())
			assert.Equal(t, tt.line, r.Issues()[0].Span().At.Line)
		})
	}
}

func TestParseSubList(t *testing.T) {
	reg := label.NewRegistry()
	col := diag.NewCollector(diag.NoLimit)
	subs, err := ParseSubList([]byte(`
PS
v 1 triangle
v 2 square
d 1 2 on

PS
v 1 object
`), testSrc, true, reg, col)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, 2, subs[0].VertexCount())
	assert.Equal(t, 1, subs[0].EdgeCount())
	assert.Equal(t, 1, subs[1].VertexCount())
	assert.Equal(t, 0, subs[1].EdgeCount())
}

func TestParseSubList_VertexOutsideRecord(t *testing.T) {
	reg := label.NewRegistry()
	col := diag.NewCollector(diag.NoLimit)
	_, err := ParseSubList([]byte("v 1 a\n"), testSrc, false, reg, col)
	require.ErrorIs(t, err, ErrParse)
}

// labelMultiset renders the sorted vertex-label and edge-tuple multisets
// used for isomorphism-insensitive graph comparison.
func labelMultiset(g *graph.Graph, reg *label.Registry) ([]string, []string) {
	var vs, es []string
	for i := 0; i < g.VertexCount(); i++ {
		vs = append(vs, reg.MustGet(g.Vertex(i).Label).String())
	}
	for i := 0; i < g.EdgeCount(); i++ {
		e := g.Edge(i)
		a := reg.MustGet(g.Vertex(e.Source).Label).String()
		b := reg.MustGet(g.Vertex(e.Target).Label).String()
		if !e.Directed && b < a {
			a, b = b, a
		}
		es = append(es, a+"-"+reg.MustGet(e.Label).String()+"-"+b)
	}
	sort.Strings(vs)
	sort.Strings(es)
	return vs, es
}

func TestWriteGraph_RoundTrip(t *testing.T) {
	input := `
XP
v 1 "object one"
v 2 3.5
e 1 2 on
d 2 1 under
XN
v 3 object
u 3 3 self
`
	g, reg := parse(t, input, false)

	var buf bytes.Buffer
	require.NoError(t, WriteGraph(&buf, g, reg))

	reg2 := label.NewRegistry()
	col := diag.NewCollector(diag.NoLimit)
	g2, err := ParseGraph(buf.Bytes(), testSrc, false, reg2, col)
	require.NoError(t, err, "re-parse: %s\noutput:\n%s", col.Result(), buf.String())

	vs1, es1 := labelMultiset(g, reg)
	vs2, es2 := labelMultiset(g2, reg2)
	assert.Equal(t, vs1, vs2, "vertex label multiset")
	assert.Equal(t, es1, es2, "edge tuple multiset")
	assert.Equal(t, len(g.Examples()), len(g2.Examples()))
}

func TestWriteSubList_RoundTrip(t *testing.T) {
	reg := label.NewRegistry()
	def := graph.New(2, 1)
	a := def.AddVertex(reg.Intern(label.StringValue("A")))
	def.AddVertex(reg.Intern(label.StringValue("B")))
	def.MustAddEdge(a, a+1, true, reg.Intern(label.StringValue("next")), false)

	var buf bytes.Buffer
	require.NoError(t, WriteSubList(&buf, []*graph.Graph{def}, reg, "graphmine test"))
	assert.Contains(t, buf.String(), "% graphmine test")

	col := diag.NewCollector(diag.NoLimit)
	subs, err := ParseSubList(buf.Bytes(), testSrc, false, label.NewRegistry(), col)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 2, subs[0].VertexCount())
	assert.True(t, subs[0].Edge(0).Directed)
}
