package discover

import (
	"context"
	"log/slog"

	"github.com/simon-lentz/graphmine/eval"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/internal/trace"
	"github.com/simon-lentz/graphmine/label"
	"github.com/simon-lentz/graphmine/match"
)

// Engine runs beam discovery over one positive (and optionally one
// negative) graph.
//
// An Engine carries only configuration and reusable evaluators; every
// Discover call owns its working state, so a single Engine can serve
// successive iterations.
type Engine struct {
	reg     *label.Registry
	params  Params
	scorer  *eval.Scorer
	matcher *match.Matcher
	finder  *match.Finder
	logger  *slog.Logger

	// Per-run graphs, set by Discover for the duration of a call.
	posGraph *graph.Graph
	negGraph *graph.Graph
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger enables structured logging of the discovery loop.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine for validated params.
func NewEngine(reg *label.Registry, params Params, opts ...EngineOption) *Engine {
	e := &Engine{reg: reg, params: params}
	for _, opt := range opts {
		opt(e)
	}
	e.scorer = eval.NewScorer(params.Eval, reg,
		eval.WithOverlap(params.AllowOverlap), eval.WithLogger(e.logger))
	e.matcher = match.NewMatcher(reg, match.WithCosts(params.Costs), match.WithLogger(e.logger))
	e.finder = match.NewFinder(reg,
		match.WithFinderThreshold(params.Threshold),
		match.WithFinderOverlap(true), // discovery keeps every occurrence
		match.WithFinderCosts(params.Costs),
		match.WithFinderLogger(e.logger))
	return e
}

// Discover runs one beam search and returns the best patterns found,
// ordered best first. An empty result means no pattern satisfied the
// size bounds, not an error.
func (e *Engine) Discover(ctx context.Context, pos, neg *graph.Graph) []*Substructure {
	e.posGraph, e.negGraph = pos, neg
	defer func() { e.posGraph, e.negGraph = nil, nil }()

	limit := e.params.Limit
	if limit == 0 {
		limit = pos.EdgeCount() / 2
	}

	beam := newSubList(e.params.BeamWidth, e.params.ValueBased, e.reg, e.matcher)
	best := newSubList(e.params.NumBest, false, e.reg, e.matcher)

	for _, seed := range e.seeds(pos, neg) {
		e.score(seed)
		e.consider(ctx, beam, best, seed)
	}

	expanded := 0
	for !beam.empty() && expanded < limit {
		parent := beam.pop()
		if e.params.MaxVertices > 0 && parent.Definition.VertexCount() >= e.params.MaxVertices {
			continue
		}
		expanded++

		for _, ext := range e.extend(parent, pos) {
			if e.params.MaxVertices > 0 && ext.Definition.VertexCount() > e.params.MaxVertices {
				continue
			}
			if neg != nil && neg.VertexCount() > 0 {
				ext.NegInstances = e.finder.FindInstances(ext.Definition, neg)
			}
			ext.parentScore = parent.Score
			e.score(ext)
			if e.params.Prune && ext.Score < parent.Score {
				continue
			}
			e.consider(ctx, beam, best, ext)
		}
	}

	trace.Info(ctx, e.logger, "beam search finished",
		slog.Int("expanded", expanded),
		slog.Int("best", best.len()))
	return best.all()
}

// consider scores have already been set; insert the candidate into the
// beam and, when the size bounds admit it, into the best list, together
// with its recursive variant when recursion is enabled.
func (e *Engine) consider(ctx context.Context, beam, best *subList, sub *Substructure) {
	beam.insert(sub)
	if e.admissible(sub) {
		best.insert(sub)
	}
	if e.params.Recursion && !sub.Recursive {
		for _, variant := range e.recursiveVariants(ctx, sub) {
			e.score(variant)
			if e.admissible(variant) {
				best.insert(variant)
			}
		}
	}
}

// admissible applies the -minsize/-maxsize vertex bounds.
func (e *Engine) admissible(sub *Substructure) bool {
	v := sub.Definition.VertexCount()
	if v < e.params.MinVertices {
		return false
	}
	if e.params.MaxVertices > 0 && v > e.params.MaxVertices {
		return false
	}
	return true
}

// seeds builds one single-vertex candidate per distinct positive vertex
// label, in first-occurrence order.
func (e *Engine) seeds(pos, neg *graph.Graph) []*Substructure {
	var out []*Substructure
	for _, l := range pos.VertexLabels() {
		def := graph.New(1, 0)
		def.AddVertex(l)

		sub := &Substructure{Definition: def, Instances: instance.NewList()}
		for v := 0; v < pos.VertexCount(); v++ {
			if e.seedMatch(l, pos.Vertex(v).Label) {
				sub.Instances.Add(instance.New(v))
			}
		}
		if neg != nil && neg.VertexCount() > 0 {
			sub.NegInstances = instance.NewList()
			for v := 0; v < neg.VertexCount(); v++ {
				if e.seedMatch(l, neg.Vertex(v).Label) {
					sub.NegInstances.Add(instance.New(v))
				}
			}
		}
		out = append(out, sub)
	}
	return out
}

// seedMatch is the seed label predicate: exact at threshold zero,
// substitution cost within threshold otherwise.
func (e *Engine) seedMatch(pattern, host label.Index) bool {
	if e.params.Threshold == 0 {
		return pattern == host
	}
	return e.params.Costs.SubstituteVertex*e.reg.Mismatch(pattern, host) <= e.params.Threshold
}

// score evaluates sub, applying the overlap policy to the instance
// lists before scoring.
func (e *Engine) score(sub *Substructure) {
	res := e.scorer.Score(eval.Input{
		Def:          sub.Definition,
		PosGraph:     e.posGraph,
		NegGraph:     e.negGraph,
		PosInstances: e.selected(sub.Instances),
		NegInstances: e.selected(sub.NegInstances),
	})
	sub.Score = res.Value
	sub.PosExamples = res.PosExamples
	sub.NegExamples = res.NegExamples
}

// selected applies the overlap policy: the full list when overlap is
// allowed, the greedy non-overlapping subset otherwise.
func (e *Engine) selected(l *instance.List) *instance.List {
	if l == nil || e.params.AllowOverlap {
		return l
	}
	return l.SelectNonOverlapping()
}

// extensionKey groups extended instances by the pattern they induce.
type extensionKey struct {
	fromRole int
	toRole   int // -1 when the extension adds a vertex
	newLabel label.Index
	edgeLbl  label.Index
	directed bool
	outgoing bool // directed edge leaves fromRole
}

// extend produces one candidate per distinct single-edge extension of
// parent, each carrying the instances that induced it.
func (e *Engine) extend(parent *Substructure, pos *graph.Graph) []*Substructure {
	groups := make(map[extensionKey][]*instance.Instance)
	var order []extensionKey

	for _, in := range parent.Instances.All() {
		for posIdx, hv := range in.Vertices {
			fromRole := roleOf(in, posIdx)
			for _, hid := range pos.Vertex(hv).Edges {
				if in.HasEdge(hid) {
					continue
				}
				he := pos.Edge(hid)
				hw := he.Other(hv)
				key := extensionKey{
					fromRole: fromRole,
					edgeLbl:  he.Label,
					directed: he.Directed,
					outgoing: he.Source == hv,
					newLabel: label.None,
					toRole:   -1,
				}
				var ext *instance.Instance
				if toPos := vertexPosition(in, hw); toPos >= 0 && hw != hv {
					// Cycle-closing edge inside the instance.
					key.toRole = roleOf(in, toPos)
					ext = in.Extend(hid, -1)
				} else if hw == hv {
					// Self-loop on an instance vertex.
					key.toRole = fromRole
					ext = in.Extend(hid, -1)
				} else {
					key.newLabel = pos.Vertex(hw).Label
					ext = in.Extend(hid, hw)
					if ext.Mapping != nil {
						ext.Mapping = append(ext.Mapping, parent.Definition.VertexCount())
					}
				}
				if !key.directed {
					key.outgoing = false
					if key.toRole >= 0 && key.toRole < key.fromRole {
						key.fromRole, key.toRole = key.toRole, key.fromRole
					}
				}
				if _, seen := groups[key]; !seen {
					order = append(order, key)
				}
				groups[key] = append(groups[key], ext)
			}
		}
	}

	var out []*Substructure
	for _, key := range order {
		def := parent.Definition.Clone()
		to := key.toRole
		if to < 0 {
			to = def.AddVertex(key.newLabel)
		}
		src, dst := key.fromRole, to
		if key.directed && !key.outgoing {
			src, dst = dst, src
		}
		def.MustAddEdge(src, dst, key.directed, key.edgeLbl, false)

		insts := instance.NewList()
		for _, in := range groups[key] {
			insts.Add(in)
		}
		out = append(out, &Substructure{Definition: def, Instances: insts})
	}
	return out
}

// roleOf maps an instance vertex position to its pattern vertex.
func roleOf(in *instance.Instance, pos int) int {
	if in.Mapping != nil {
		return in.Mapping[pos]
	}
	return pos
}

// vertexPosition finds the position of host vertex hv in the instance,
// or -1.
func vertexPosition(in *instance.Instance, hv int) int {
	for i, v := range in.Vertices {
		if v == hv {
			return i
		}
	}
	return -1
}

// recursiveVariants derives recursive candidates: when instances of sub
// are joined by host edges sharing a label, the chains merge into
// single instances and the definition gains a directed self-loop with
// that label.
func (e *Engine) recursiveVariants(ctx context.Context, sub *Substructure) []*Substructure {
	insts := e.selected(sub.Instances)
	if insts.Len() < 2 {
		return nil
	}
	pos := e.posGraph

	ownerOf := make(map[int]int)
	for idx, in := range insts.All() {
		for _, v := range in.Vertices {
			ownerOf[v] = idx
		}
	}
	inInstance := make(map[int]bool)
	for _, in := range insts.All() {
		for _, eid := range in.Edges {
			inInstance[eid] = true
		}
	}

	// Connecting labels in first-occurrence order.
	links := make(map[label.Index][]instLink)
	var labelOrder []label.Index
	for eid := 0; eid < pos.EdgeCount(); eid++ {
		if inInstance[eid] {
			continue
		}
		edge := pos.Edge(eid)
		a, aok := ownerOf[edge.Source]
		b, bok := ownerOf[edge.Target]
		if !aok || !bok || a == b {
			continue
		}
		if _, seen := links[edge.Label]; !seen {
			labelOrder = append(labelOrder, edge.Label)
		}
		links[edge.Label] = append(links[edge.Label], instLink{a, b, eid})
	}

	var out []*Substructure
	for _, l := range labelOrder {
		def := sub.Definition.Clone()
		def.MustAddEdge(0, 0, true, l, false)

		merged := mergeChains(insts, links[l])
		variant := &Substructure{
			Definition:     def,
			Instances:      merged,
			Recursive:      true,
			RecursiveLabel: l,
			parentScore:    sub.Score,
		}
		if sub.NegInstances != nil {
			variant.NegInstances = sub.NegInstances
		}
		out = append(out, variant)
	}
	trace.DebugLazy(ctx, e.logger, "recursive variants", func() []slog.Attr {
		return []slog.Attr{slog.Int("count", len(out))}
	})
	return out
}

// instLink records a connecting host edge between two instances.
type instLink struct{ a, b, edge int }

// mergeChains unions instances connected by the given links into
// combined instances that also absorb the connecting edges.
func mergeChains(insts *instance.List, links []instLink) *instance.List {
	parent := make([]int, insts.Len())
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, lk := range links {
		ra, rb := find(lk.a), find(lk.b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	groups := make(map[int]*instance.Instance)
	var order []int
	for idx, in := range insts.All() {
		root := find(idx)
		g, ok := groups[root]
		if !ok {
			g = &instance.Instance{NewVertex: -1, NewEdge: -1}
			groups[root] = g
			order = append(order, root)
		}
		g.Vertices = append(g.Vertices, in.Vertices...)
		g.Edges = append(g.Edges, in.Edges...)
	}
	for _, lk := range links {
		groups[find(lk.a)].Edges = append(groups[find(lk.a)].Edges, lk.edge)
	}

	out := instance.NewList()
	for _, root := range order {
		out.Add(groups[root])
	}
	return out
}
