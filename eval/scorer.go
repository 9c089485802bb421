package eval

import (
	"context"
	"log/slog"

	"github.com/simon-lentz/graphmine/compress"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/internal/trace"
	"github.com/simon-lentz/graphmine/label"
)

// Model selects the scoring model. The numeric values match the -eval
// CLI flag.
type Model int

const (
	// ModelMDL scores by minimum description length in bits.
	ModelMDL Model = 1

	// ModelSize scores by raw graph size, V+E.
	ModelSize Model = 2

	// ModelSetCover scores by covered positive and uncovered negative
	// examples.
	ModelSetCover Model = 3
)

// String returns the canonical model name.
func (m Model) String() string {
	switch m {
	case ModelMDL:
		return "mdl"
	case ModelSize:
		return "size"
	case ModelSetCover:
		return "setcover"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the three defined models.
func (m Model) Valid() bool {
	return m >= ModelMDL && m <= ModelSetCover
}

// SetCoverLike reports whether the model consumes examples between
// iterations rather than compressing the graph.
func (m Model) SetCoverLike() bool {
	return m == ModelSetCover
}

// Input bundles everything scoring a candidate needs. The definition
// must already carry its recursive self-loop when the candidate is
// recursive; scoring never mutates any field.
type Input struct {
	// Def is the pattern definition graph.
	Def *graph.Graph

	// PosGraph holds the positive examples; never nil.
	PosGraph *graph.Graph

	// NegGraph holds the negative examples; nil when unsupervised.
	NegGraph *graph.Graph

	// PosInstances are the pattern's occurrences in PosGraph.
	PosInstances *instance.List

	// NegInstances are the occurrences in NegGraph; may be nil.
	NegInstances *instance.List
}

// Result is a scored candidate: the model value plus the example-cover
// counts every model computes as a side effect.
type Result struct {
	// Value is the model score; higher is better under every model.
	Value float64

	// PosExamples is the number of positive examples containing an
	// instance.
	PosExamples int

	// NegExamples is the number of negative examples containing an
	// instance.
	NegExamples int
}

// Scorer evaluates candidate substructures under one model.
//
// A Scorer is reusable across candidates and iterations; the cached
// log-factorial table grows monotonically. Not safe for concurrent use.
type Scorer struct {
	model        Model
	reg          *label.Registry
	lm           *logTable
	allowOverlap bool
	logger       *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithOverlap tells the MDL model that instance overlap is enabled, so
// an OVERLAP label joins the universe when overlaps actually occur.
func WithOverlap(allow bool) ScorerOption {
	return func(s *Scorer) { s.allowOverlap = allow }
}

// WithLogger enables debug logging of scoring decisions.
func WithLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) { s.logger = logger }
}

// NewScorer creates a Scorer for the given model and label registry.
// Panics on an invalid model; flag validation happens upstream.
func NewScorer(model Model, reg *label.Registry, opts ...ScorerOption) *Scorer {
	if !model.Valid() {
		panic("eval.NewScorer: invalid model")
	}
	s := &Scorer{model: model, reg: reg, lm: newLogTable()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates one candidate.
func (s *Scorer) Score(in Input) Result {
	res := Result{}
	res.PosExamples = coveredExamples(in.PosGraph, in.PosInstances)
	res.NegExamples = coveredExamples(in.NegGraph, in.NegInstances)

	switch s.model {
	case ModelMDL:
		res.Value = s.scoreMDL(in)
	case ModelSize:
		res.Value = s.scoreSize(in)
	case ModelSetCover:
		res.Value = s.scoreSetCover(in, res.PosExamples, res.NegExamples)
	}

	trace.DebugLazy(context.Background(), s.logger, "candidate scored", func() []slog.Attr {
		return []slog.Attr{
			slog.String("model", s.model.String()),
			slog.Float64("score", res.Value),
			slog.Int("instances", in.PosInstances.Len()),
		}
	})
	return res
}

// scoreMDL is DL(G) / (DL(S) + DL(G|S) + extEdgeBits), extended with
// the negative graph when present.
func (s *Scorer) scoreMDL(in Input) float64 {
	// The compressed graph introduces the SUB label; overlap can add
	// the OVERLAP label when any overlap actually exists on either side.
	labels := s.reg.Len() + 1
	overlapping := s.allowOverlap &&
		(in.PosInstances.AnyOverlap() || in.NegInstances.AnyOverlap())
	if overlapping {
		labels++
	}

	scratch := s.reg.Clone()
	posCompressed := compress.Compress(in.PosGraph, in.PosInstances, scratch, 0, s.allowOverlap)

	dlPos := s.descriptionLength(in.PosGraph, s.reg.Len())
	dlSub := s.descriptionLength(in.Def, s.reg.Len())
	dlPosGivenSub := s.descriptionLength(posCompressed.Graph, labels)
	ext := s.extEdgeBits(posCompressed, in.Def)

	if in.NegGraph == nil || in.NegGraph.VertexCount() == 0 {
		denom := dlSub + dlPosGivenSub + ext
		if denom <= 0 {
			return 0
		}
		return dlPos / denom
	}

	negScratch := s.reg.Clone()
	negCompressed := compress.Compress(in.NegGraph, in.NegInstances, negScratch, 0, s.allowOverlap)
	dlNeg := s.descriptionLength(in.NegGraph, s.reg.Len())
	dlNegGivenSub := s.descriptionLength(negCompressed.Graph, labels)

	denom := dlSub + dlPosGivenSub + dlNeg - dlNegGivenSub + ext
	if denom <= 0 {
		return 0
	}
	return (dlPos + dlNeg) / denom
}

// extEdgeBits accounts for the information lost at compression: each
// compressed edge touching a synthetic vertex needs lg(|S.vertices|)
// bits to recover its original endpoint, twice for self-edges.
func (s *Scorer) extEdgeBits(res *compress.Result, def *graph.Graph) float64 {
	if len(res.SubVertices) == 0 {
		return 0
	}
	isSub := make(map[int]bool, len(res.SubVertices))
	for _, v := range res.SubVertices {
		isSub[v] = true
	}
	perEnd := lg(float64(def.VertexCount()))
	bits := 0.0
	g := res.Graph
	for e := 0; e < g.EdgeCount(); e++ {
		edge := g.Edge(e)
		if !isSub[edge.Source] && !isSub[edge.Target] {
			continue
		}
		bits += perEnd
		if edge.Source == edge.Target {
			bits += perEnd
		}
	}
	return bits
}

// scoreSize is size(G) / (size(S) + size(G|S)), with the compressed
// size estimated without materialising the compressed graph.
func (s *Scorer) scoreSize(in Input) float64 {
	num := float64(in.PosGraph.Size())
	denom := float64(in.Def.Size()) + float64(compressedSize(in.PosGraph, in.PosInstances))
	if denom <= 0 {
		return 0
	}
	return num / denom
}

// compressedSize estimates |G|S|| without materialising the rewrite:
// covered vertices and the owning instance's own matched edges vanish,
// all other edges are retained, and a synthetic vertex is counted only
// for instances with retained edges (an isolated replacement leaves
// nothing behind to anchor).
func compressedSize(g *graph.Graph, insts *instance.List) int {
	owner := make([]int, g.VertexCount())
	for i := range owner {
		owner[i] = -1
	}
	edgeOwner := make(map[int]int)
	covered := 0
	for idx, in := range insts.All() {
		for _, v := range in.Vertices {
			if owner[v] < 0 {
				owner[v] = idx
				covered++
			}
		}
		for _, e := range in.Edges {
			if _, ok := edgeOwner[e]; !ok {
				edgeOwner[e] = idx
			}
		}
	}
	internal := 0
	anchored := make([]bool, insts.Len())
	for e := 0; e < g.EdgeCount(); e++ {
		edge := g.Edge(e)
		so, to := owner[edge.Source], owner[edge.Target]
		if eo, ok := edgeOwner[e]; ok && so >= 0 && so == to && eo == so {
			internal++
			continue
		}
		if so >= 0 {
			anchored[so] = true
		}
		if to >= 0 {
			anchored[to] = true
		}
	}
	subs := 0
	for _, a := range anchored {
		if a {
			subs++
		}
	}
	size := g.Size() - covered - internal + subs
	if size < 0 {
		size = 0
	}
	return size
}

// scoreSetCover is (covered positives + uncovered negatives) over the
// total example count.
func (s *Scorer) scoreSetCover(in Input, posCovered, negCovered int) float64 {
	posTotal := exampleTotal(in.PosGraph)
	negTotal := exampleTotal(in.NegGraph)
	if posTotal+negTotal == 0 {
		return 0
	}
	return float64(posCovered+(negTotal-negCovered)) / float64(posTotal+negTotal)
}

// exampleTotal counts a graph's examples; a graph without boundary
// records is one example. A nil graph has none.
func exampleTotal(g *graph.Graph) int {
	if g == nil || g.VertexCount() == 0 {
		return 0
	}
	if n := len(g.Examples()); n > 0 {
		return n
	}
	return 1
}

// coveredExamples counts the examples of g containing the first vertex
// of at least one instance.
func coveredExamples(g *graph.Graph, insts *instance.List) int {
	if g == nil || insts.Len() == 0 {
		return 0
	}
	if len(g.Examples()) == 0 {
		return 1
	}
	seen := make(map[int]bool)
	for _, in := range insts.All() {
		if ex := g.ExampleOf(in.Vertices[0]); ex >= 0 {
			seen[ex] = true
		}
	}
	return len(seen)
}
