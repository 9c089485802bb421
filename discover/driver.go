package discover

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/simon-lentz/graphmine/adapter/graphtext"
	"github.com/simon-lentz/graphmine/compress"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/internal/trace"
	"github.com/simon-lentz/graphmine/label"
)

// IterationResult records one pass of the outer loop.
type IterationResult struct {
	// Iteration is 1-based.
	Iteration int

	// Best holds the iteration's best patterns, best first.
	Best []*Substructure

	// PosSize and PosEdges describe the positive graph the iteration
	// ran on.
	PosSize  int
	PosEdges int
}

// Results is the outcome of a full discovery run.
type Results struct {
	// RunID tags the run's start log record and its output header.
	RunID string

	// Iterations holds per-iteration results in order. Empty iterations
	// are not recorded; an empty slice means nothing was found at all.
	Iterations []IterationResult

	// FinalGraph is the positive graph after the last compression, for
	// the compressed-graph sidecar output.
	FinalGraph *graph.Graph
}

// Best returns the overall best patterns: the first iteration's list,
// which by construction scored against the original input.
func (r *Results) Best() []*Substructure {
	if len(r.Iterations) == 0 {
		return nil
	}
	return r.Iterations[0].Best
}

// Run executes the full iteration loop: split the input into positive
// and negative graphs, pre-compress predefined patterns, then discover
// and compress until a stop condition fires.
//
// The input graph and registry are owned by the caller but must not be
// used concurrently with Run; the positive graph is progressively
// replaced by its compressed form internally, never mutated in place.
func Run(ctx context.Context, g *graph.Graph, reg *label.Registry, params Params, predefined []*graph.Graph, opts ...EngineOption) *Results {
	engine := NewEngine(reg, params, opts...)
	res := &Results{RunID: uuid.NewString()}

	pos, neg := splitExamples(g)
	trace.Info(ctx, engine.logger, "discovery run starting",
		slog.String("run_id", res.RunID),
		slog.Int("pos_vertices", pos.VertexCount()),
		slog.Int("pos_edges", pos.EdgeCount()),
		slog.Int("neg_vertices", neg.VertexCount()),
		slog.String("eval", params.Eval.String()))

	pos = engine.precompress(ctx, pos, predefined)

	for it := 1; ; it++ {
		if params.Iterations > 0 && it > params.Iterations {
			break
		}
		if !params.Eval.SetCoverLike() && pos.EdgeCount() == 0 {
			trace.Info(ctx, engine.logger, "stopping: positive graph has no edges", slog.Int("iteration", it))
			break
		}
		if params.Eval.SetCoverLike() && examplesRemaining(pos) == 0 {
			trace.Info(ctx, engine.logger, "stopping: no positive examples remain", slog.Int("iteration", it))
			break
		}

		best := engine.Discover(ctx, pos, negOrNil(neg))
		if len(best) == 0 {
			trace.Info(ctx, engine.logger, "stopping: no patterns found", slog.Int("iteration", it))
			break
		}
		res.Iterations = append(res.Iterations, IterationResult{
			Iteration: it,
			Best:      best,
			PosSize:   pos.Size(),
			PosEdges:  pos.EdgeCount(),
		})

		if params.Eval.SetCoverLike() {
			pos = removeCoveredExamples(pos, best[0], engine)
		} else {
			insts := engine.selected(best[0].Instances)
			pos = compress.Compress(pos, insts, reg, it, params.AllowOverlap).Graph
		}
	}

	res.FinalGraph = pos
	return res
}

// negOrNil hides an empty negative graph from the engine.
func negOrNil(neg *graph.Graph) *graph.Graph {
	if neg == nil || neg.VertexCount() == 0 {
		return nil
	}
	return neg
}

// precompress collapses each predefined pattern's exact instances out
// of the positive graph before discovery begins.
func (e *Engine) precompress(ctx context.Context, pos *graph.Graph, predefined []*graph.Graph) *graph.Graph {
	for i, def := range predefined {
		insts := e.finder.FindInstances(def, pos)
		selected := insts.SelectNonOverlapping()
		if selected.Len() == 0 {
			continue
		}
		trace.Info(ctx, e.logger, "compressing predefined pattern",
			slog.Int("pattern", i+1), slog.Int("instances", selected.Len()))
		pos = compressPredefined(pos, selected, e.reg, i+1)
	}
	return pos
}

// compressPredefined is Compress with the PS label family.
func compressPredefined(g *graph.Graph, insts *instance.List, reg *label.Registry, n int) *graph.Graph {
	lv := label.StringValue(fmt.Sprintf("PS_%d", n))
	return compress.CompressLabeled(g, insts, reg, lv, false).Graph
}

// ScoreOn evaluates a single pattern against a graph: the hook the
// distributed coordinator uses to re-score exchanged patterns on local
// shards. Returns the model score and the positive/negative example
// cover counts.
func ScoreOn(ctx context.Context, g *graph.Graph, pattern *graph.Graph, reg *label.Registry, params Params, opts ...EngineOption) (float64, int, int) {
	engine := NewEngine(reg, params, opts...)
	pos, neg := splitExamples(g)
	engine.posGraph, engine.negGraph = pos, negOrNil(neg)
	defer func() { engine.posGraph, engine.negGraph = nil, nil }()

	sub := &Substructure{
		Definition: pattern,
		Instances:  engine.finder.FindInstances(pattern, pos),
	}
	if engine.negGraph != nil {
		sub.NegInstances = engine.finder.FindInstances(pattern, engine.negGraph)
	}
	engine.score(sub)
	trace.Debug(ctx, engine.logger, "scored pattern on shard",
		slog.Float64("score", sub.Score))
	return sub.Score, sub.PosExamples, sub.NegExamples
}

// splitExamples partitions a parsed input graph into its positive and
// negative halves, remapping vertex and edge ids densely and keeping
// per-side example boundaries. A graph without boundary records is one
// positive example.
func splitExamples(g *graph.Graph) (pos, neg *graph.Graph) {
	pos = graph.New(g.VertexCount(), g.EdgeCount())
	neg = graph.New(0, 0)
	if len(g.Examples()) == 0 {
		pos.AddExample(0, true)
		copyInto(pos, g, func(int) bool { return true }, make([]int, g.VertexCount()))
		return pos, neg
	}

	toPos := make([]bool, g.VertexCount())
	for v := 0; v < g.VertexCount(); v++ {
		ex := g.ExampleOf(v)
		toPos[v] = ex < 0 || g.Examples()[ex].Positive
	}
	for i := range g.Examples() {
		ex := g.Examples()[i]
		lo, _ := g.ExampleRange(i)
		if ex.Positive {
			pos.AddExample(countBefore(toPos, lo, true), true)
		} else {
			neg.AddExample(countBefore(toPos, lo, false), false)
		}
	}
	vmap := make([]int, g.VertexCount())
	copyInto(pos, g, func(v int) bool { return toPos[v] }, vmap)
	copyInto(neg, g, func(v int) bool { return !toPos[v] }, vmap)
	return pos, neg
}

// countBefore counts vertices below lo on the chosen side.
func countBefore(toPos []bool, lo int, positive bool) int {
	n := 0
	for v := 0; v < lo; v++ {
		if toPos[v] == positive {
			n++
		}
	}
	return n
}

// copyInto appends the selected vertices and their internal edges,
// recording new ids in vmap.
func copyInto(dst, src *graph.Graph, keep func(int) bool, vmap []int) {
	for v := 0; v < src.VertexCount(); v++ {
		if keep(v) {
			vmap[v] = dst.AddVertex(src.Vertex(v).Label)
		}
	}
	for e := 0; e < src.EdgeCount(); e++ {
		edge := src.Edge(e)
		if keep(edge.Source) && keep(edge.Target) {
			dst.MustAddEdge(vmap[edge.Source], vmap[edge.Target],
				edge.Directed, edge.Label, edge.SpansIncrement)
		}
	}
}

// examplesRemaining counts positive examples still present.
func examplesRemaining(pos *graph.Graph) int {
	if pos.VertexCount() == 0 {
		return 0
	}
	if n := len(pos.Examples()); n > 0 {
		return n
	}
	return 1
}

// removeCoveredExamples rebuilds the positive graph without the
// examples covered by the chosen pattern.
func removeCoveredExamples(pos *graph.Graph, sub *Substructure, e *Engine) *graph.Graph {
	selected := e.selected(sub.Instances)
	if len(pos.Examples()) == 0 {
		// A boundary-less graph is one example; covering it empties the
		// positive side.
		if selected.Len() > 0 {
			return graph.New(0, 0)
		}
		return pos
	}
	covered := make(map[int]bool)
	for _, in := range selected.All() {
		if ex := pos.ExampleOf(in.Vertices[0]); ex >= 0 {
			covered[ex] = true
		}
	}
	if len(covered) == 0 {
		return pos
	}

	keepVertex := make([]bool, pos.VertexCount())
	for v := 0; v < pos.VertexCount(); v++ {
		keepVertex[v] = !covered[pos.ExampleOf(v)]
	}
	out := graph.New(pos.VertexCount(), pos.EdgeCount())
	vmap := make([]int, pos.VertexCount())
	for i := range pos.Examples() {
		if covered[i] {
			continue
		}
		lo, _ := pos.ExampleRange(i)
		out.AddExample(countBefore(keepVertex, lo, true), true)
	}
	copyInto(out, pos, func(v int) bool { return keepVertex[v] }, vmap)
	return out
}

// WriteResults emits every iteration's best patterns as substructure
// records, preceded by a header naming the run.
func (r *Results) WriteResults(w io.Writer, reg *label.Registry, version string) error {
	var defs []*graph.Graph
	for _, it := range r.Iterations {
		for _, sub := range it.Best {
			defs = append(defs, sub.Definition)
		}
	}
	header := fmt.Sprintf("graphmine %s run %s", version, r.RunID)
	return graphtext.WriteSubList(w, defs, reg, header)
}
