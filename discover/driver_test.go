package discover

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simon-lentz/graphmine/adapter/graphtext"
	"github.com/simon-lentz/graphmine/diag"
	"github.com/simon-lentz/graphmine/eval"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/label"
	"github.com/simon-lentz/graphmine/location"
)

func parseInput(t *testing.T, input string, directed bool, reg *label.Registry) *graph.Graph {
	t.Helper()
	col := diag.NewCollector(diag.NoLimit)
	g, err := graphtext.ParseGraph([]byte(input), location.MustNewSourceID("inline:test"), directed, reg, col)
	require.NoError(t, err, "%s", col.Result())
	return g
}

func TestSplitExamples(t *testing.T) {
	reg := label.NewRegistry()
	g := parseInput(t, `
XP
v 1 a
v 2 b
e 1 2 on
XN
v 3 a
XP
v 4 b
`, false, reg)

	pos, neg := splitExamples(g)
	assert.Equal(t, 3, pos.VertexCount())
	assert.Equal(t, 1, pos.EdgeCount())
	assert.Equal(t, 1, neg.VertexCount())
	assert.Equal(t, 0, neg.EdgeCount())

	posCount, _ := pos.ExampleCount()
	assert.Equal(t, 2, posCount)
	_, negCount := neg.ExampleCount()
	assert.Equal(t, 1, negCount)
	// The second positive example starts after the first's two vertices.
	assert.Equal(t, 2, pos.Examples()[1].Start)
}

func TestSplitExamples_NoBoundaries(t *testing.T) {
	reg := label.NewRegistry()
	g := graph.New(2, 0)
	g.AddVertex(reg.Intern(label.StringValue("a")))
	g.AddVertex(reg.Intern(label.StringValue("a")))

	pos, neg := splitExamples(g)
	assert.Equal(t, 2, pos.VertexCount())
	assert.Equal(t, 0, neg.VertexCount())
	posCount, _ := pos.ExampleCount()
	assert.Equal(t, 1, posCount, "a boundary-less graph is one positive example")
}

func TestRun_TriangleStopsWhenCompressed(t *testing.T) {
	reg := label.NewRegistry()
	g := parseInput(t, `
v 1 X
v 2 X
v 3 X
e 1 2 t
e 2 3 t
e 1 3 t
`, false, reg)

	params := DefaultParams()
	params.Eval = eval.ModelSize
	params.NumBest = 1
	params.Limit = 10
	params.Iterations = 2

	res := Run(context.Background(), g, reg, params, nil)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Iterations, 1, "the compressed graph has no edges left")
	top := res.Best()[0]
	assert.Equal(t, 3, top.Definition.VertexCount())
	assert.Equal(t, 1.0, top.Score)

	// Compression idempotence bound: one SUB vertex remains.
	assert.Equal(t, 1, res.FinalGraph.VertexCount())
	assert.Equal(t, 0, res.FinalGraph.EdgeCount())
	subLbl := reg.Lookup(label.StringValue("SUB_1"))
	require.NotEqual(t, label.None, subLbl)
	assert.Equal(t, subLbl, res.FinalGraph.Vertex(0).Label)
}

func TestRun_SetCoverConsumesExamples(t *testing.T) {
	reg := label.NewRegistry()
	g := parseInput(t, `
XP
v 1 a
v 2 b
e 1 2 on
XP
v 3 a
v 4 b
e 3 4 on
XN
v 5 b
v 6 b
e 5 6 on
`, false, reg)

	params := DefaultParams()
	params.Eval = eval.ModelSetCover
	params.NumBest = 1
	params.Limit = 10
	params.Iterations = 0 // run until a stop condition

	res := Run(context.Background(), g, reg, params, nil)
	require.NotEmpty(t, res.Iterations)
	top := res.Best()[0]
	// The winner covers both positives and no negative (the single
	// vertex a ties with a-b-on at 1.0 and wins on fewer vertices).
	assert.Equal(t, 2, top.PosExamples)
	assert.Equal(t, 0, top.NegExamples)
	assert.Equal(t, 1.0, top.Score)
	// Both positive examples were consumed, so the loop stopped.
	assert.Equal(t, 0, res.FinalGraph.VertexCount())
}

func TestRun_PredefinedPatternsPrecompress(t *testing.T) {
	reg := label.NewRegistry()
	g := parseInput(t, `
v 1 A
v 2 B
v 3 A
v 4 B
e 1 2 on
e 3 4 on
e 2 3 near
`, true, reg)

	col := diag.NewCollector(diag.NoLimit)
	ps, err := graphtext.ParseSubList([]byte(`
PS
v 1 A
v 2 B
d 1 2 on
`), location.MustNewSourceID("inline:ps"), true, reg, col)
	require.NoError(t, err)

	params := DefaultParams()
	params.Eval = eval.ModelSize
	params.Limit = 10
	params.Iterations = 1

	res := Run(context.Background(), g, reg, params, ps)
	// Pre-compression replaced both A-B pairs before discovery, so the
	// first iteration ran on the 2-vertex PS graph.
	require.NotEmpty(t, res.Iterations)
	assert.Equal(t, 3, res.Iterations[0].PosSize, "two PS vertices plus the near edge")
	assert.NotEqual(t, label.None, reg.Lookup(label.StringValue("PS_1")))
}

func TestScoreOn(t *testing.T) {
	reg := label.NewRegistry()
	g := parseInput(t, `
XP
v 1 a
v 2 b
e 1 2 on
XP
v 3 a
XN
v 4 a
`, false, reg)

	pattern := graph.New(1, 0)
	pattern.AddVertex(reg.Intern(label.StringValue("a")))

	params := DefaultParams()
	params.Eval = eval.ModelSetCover

	score, pos, neg := ScoreOn(context.Background(), g, pattern, reg, params)
	assert.Equal(t, 2, pos, "a appears in both positive examples")
	assert.Equal(t, 1, neg)
	// (2 covered + 0 uncovered negatives) / 3 examples.
	assert.InDelta(t, 2.0/3.0, score, 1e-9)
}

func TestResults_WriteResults(t *testing.T) {
	reg := label.NewRegistry()
	g := parseInput(t, `
v 1 X
v 2 X
v 3 X
e 1 2 t
e 2 3 t
e 1 3 t
`, false, reg)

	params := DefaultParams()
	params.Eval = eval.ModelSize
	params.NumBest = 1
	params.Limit = 10

	res := Run(context.Background(), g, reg, params, nil)
	var buf bytes.Buffer
	require.NoError(t, res.WriteResults(&buf, reg, "test"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "% graphmine test run "+res.RunID))
	assert.Contains(t, out, "\nS\n")
	assert.Contains(t, out, "v 1 X")

	// The output is readable back as a substructure list.
	col := diag.NewCollector(diag.NoLimit)
	subs, err := graphtext.ParseSubList(buf.Bytes(), location.MustNewSourceID("inline:out"), false, label.NewRegistry(), col)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 3, subs[0].VertexCount())
}
