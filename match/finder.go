package match

import (
	"context"
	"log/slog"

	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/internal/trace"
	"github.com/simon-lentz/graphmine/label"
)

// Finder enumerates the instances of a pattern graph in a host graph.
//
// The search grows partial instances one pattern edge at a time in
// breadth-first pattern order. With a zero threshold every comparison is
// an index equality; with a positive threshold the per-edge
// compatibility predicate consults the transformation cost model, and a
// final filter re-checks each instance against the pattern with the
// inexact Matcher.
type Finder struct {
	reg          *label.Registry
	matcher      *Matcher
	costs        Costs
	threshold    float64
	allowOverlap bool
	logger       *slog.Logger
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithFinderThreshold sets the inexact-match tolerance in [0,1].
// Zero (the default) requires exact matches.
func WithFinderThreshold(t float64) FinderOption {
	return func(f *Finder) { f.threshold = t }
}

// WithFinderOverlap allows returned instances to share vertices.
// When disallowed (the default), a greedy pass in insertion order keeps
// only mutually non-overlapping instances.
func WithFinderOverlap(allow bool) FinderOption {
	return func(f *Finder) { f.allowOverlap = allow }
}

// WithFinderCosts replaces the cost table used for tolerance decisions.
func WithFinderCosts(c Costs) FinderOption {
	return func(f *Finder) { f.costs = c.normalized() }
}

// WithFinderLogger enables debug-level logging of the instance search.
func WithFinderLogger(logger *slog.Logger) FinderOption {
	return func(f *Finder) { f.logger = logger }
}

// NewFinder creates a Finder bound to the given label registry.
func NewFinder(reg *label.Registry, opts ...FinderOption) *Finder {
	f := &Finder{reg: reg, costs: DefaultCosts()}
	for _, opt := range opts {
		opt(f)
	}
	f.matcher = NewMatcher(reg, WithCosts(f.costs), WithLogger(f.logger))
	return f
}

// scheduleItem is one step of the pattern traversal: either consume a
// pattern edge from an already-mapped vertex, or seed an unreached
// component root.
type scheduleItem struct {
	edge int // pattern edge id, or -1 for a seed step
	from int // pattern vertex the step starts from
}

// schedule computes the breadth-first consumption order of pattern
// edges starting at vertex 0. Disconnected patterns get an extra seed
// step per component.
func schedule(pattern *graph.Graph) []scheduleItem {
	var items []scheduleItem
	reached := make([]bool, pattern.VertexCount())
	consumed := make([]bool, pattern.EdgeCount())

	var queue []int
	enqueue := func(v int) {
		if !reached[v] {
			reached[v] = true
			queue = append(queue, v)
		}
	}

	for root := 0; root < pattern.VertexCount(); root++ {
		if reached[root] {
			continue
		}
		if root == 0 {
			items = append(items, scheduleItem{edge: -1, from: root})
		} else {
			// Disconnected pattern: a fresh unconstrained seed.
			items = append(items, scheduleItem{edge: -1, from: root})
		}
		enqueue(root)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, eid := range pattern.Vertex(u).Edges {
				if consumed[eid] {
					continue
				}
				consumed[eid] = true
				items = append(items, scheduleItem{edge: eid, from: u})
				enqueue(pattern.Edge(eid).Other(u))
			}
		}
	}
	return items
}

// partial is a growing instance candidate.
type partial struct {
	vmap []int // pattern vertex -> host vertex, -1 while unmapped
	emap []int // pattern edge -> host edge, -1 while unmapped
	cost float64
}

func (p *partial) clone() *partial {
	return &partial{
		vmap: append([]int(nil), p.vmap...),
		emap: append([]int(nil), p.emap...),
		cost: p.cost,
	}
}

func (p *partial) hostVertexUsed(hv int) bool {
	for _, v := range p.vmap {
		if v == hv {
			return true
		}
	}
	return false
}

func (p *partial) hostEdgeUsed(he int) bool {
	for _, e := range p.emap {
		if e == he {
			return true
		}
	}
	return false
}

// FindInstances returns every instance of pattern in host, subject to
// the configured overlap policy and tolerance threshold. The returned
// list preserves discovery order and is deduplicated by vertex and edge
// set.
func (f *Finder) FindInstances(pattern, host *graph.Graph) *instance.List {
	ctx := context.Background()
	items := schedule(pattern)

	var partials []*partial
	for _, item := range items {
		if item.edge < 0 {
			partials = f.seed(pattern, host, partials, item.from)
		} else {
			partials = f.consumeEdge(pattern, host, partials, item)
		}
		if len(partials) == 0 {
			break
		}
	}

	list := instance.NewList()
	for _, p := range partials {
		in := &instance.Instance{
			Vertices:  p.vmap,
			Edges:     p.emap,
			NewVertex: -1,
			NewEdge:   -1,
			MatchCost: p.cost,
		}
		if f.threshold > 0 && !f.filterInstance(pattern, host, in) {
			continue
		}
		list.Add(in)
	}

	trace.DebugLazy(ctx, f.logger, "instances found", func() []slog.Attr {
		return []slog.Attr{
			slog.Int("pattern_vertices", pattern.VertexCount()),
			slog.Int("instances", list.Len()),
		}
	})

	if !f.allowOverlap {
		return list.SelectNonOverlapping()
	}
	return list
}

// seed maps pattern vertex root onto every compatible host vertex. For
// the first component this creates the initial partials; for later
// components it branches each existing partial.
func (f *Finder) seed(pattern, host *graph.Graph, partials []*partial, root int) []*partial {
	patLabel := pattern.Vertex(root).Label
	var out []*partial
	for hv := 0; hv < host.VertexCount(); hv++ {
		c, ok := f.vertexCost(patLabel, host.Vertex(hv).Label)
		if !ok {
			continue
		}
		if len(partials) == 0 {
			p := &partial{
				vmap: make([]int, pattern.VertexCount()),
				emap: make([]int, pattern.EdgeCount()),
				cost: c,
			}
			for i := range p.vmap {
				p.vmap[i] = -1
			}
			for i := range p.emap {
				p.emap[i] = -1
			}
			p.vmap[root] = hv
			out = append(out, p)
			continue
		}
		for _, base := range partials {
			if base.hostVertexUsed(hv) {
				continue
			}
			p := base.clone()
			p.vmap[root] = hv
			p.cost += c
			out = append(out, p)
		}
	}
	return out
}

// consumeEdge advances every partial across one pattern edge.
func (f *Finder) consumeEdge(pattern, host *graph.Graph, partials []*partial, item scheduleItem) []*partial {
	pe := pattern.Edge(item.edge)
	u := item.from
	w := pe.Other(u)

	var out []*partial
	for _, p := range partials {
		hu := p.vmap[u]
		for _, hid := range host.Vertex(hu).Edges {
			if p.hostEdgeUsed(hid) {
				continue
			}
			he := host.Edge(hid)
			cost, ok := f.edgeCompatible(pe, he, u, hu)
			if !ok {
				continue
			}
			hw := he.Other(hu)
			if p.vmap[w] >= 0 {
				// Cycle-closing edge: endpoints must already agree.
				if p.vmap[w] != hw {
					continue
				}
				next := p.clone()
				next.emap[item.edge] = hid
				next.cost += cost
				out = append(out, next)
				continue
			}
			if p.hostVertexUsed(hw) {
				continue
			}
			vc, ok := f.vertexCost(pattern.Vertex(w).Label, host.Vertex(hw).Label)
			if !ok {
				continue
			}
			next := p.clone()
			next.vmap[w] = hw
			next.emap[item.edge] = hid
			next.cost += cost + vc
			out = append(out, next)
		}
	}
	return out
}

// vertexCost is the label compatibility predicate for vertices: exact
// equality at threshold 0, otherwise substitution cost within threshold.
func (f *Finder) vertexCost(a, b label.Index) (float64, bool) {
	if f.threshold == 0 {
		return 0, a == b
	}
	c := f.costs.SubstituteVertex * f.reg.Mismatch(a, b)
	return c, c <= f.threshold
}

// edgeCompatible is the single per-edge predicate consulted during the
// search: label within tolerance, directedness equal, and for directed
// non-loop edges the source/target roles aligned.
func (f *Finder) edgeCompatible(pe, he *graph.Edge, u, hu int) (float64, bool) {
	if he.Directed != pe.Directed {
		return 0, false
	}
	peLoop := pe.Source == pe.Target
	heLoop := he.Source == he.Target
	if peLoop != heLoop {
		return 0, false
	}
	if pe.Directed && !peLoop && (pe.Source == u) != (he.Source == hu) {
		return 0, false
	}
	if f.threshold == 0 {
		return 0, pe.Label == he.Label
	}
	c := f.costs.SubstituteEdge * f.reg.Mismatch(pe.Label, he.Label)
	return c, c <= f.threshold
}

// filterInstance re-checks an inexact instance: its covered subgraph
// must match the pattern within threshold scaled by the larger size.
func (f *Finder) filterInstance(pattern, host *graph.Graph, in *instance.Instance) bool {
	induced := inducedGraph(host, in)
	bound := f.threshold * maxf(float64(pattern.Size()), float64(induced.Size()))
	cost, ok := f.matcher.Match(pattern, induced, bound)
	if ok {
		in.MatchCost = cost
	}
	return ok
}

// inducedGraph builds the standalone graph covered by an instance, with
// vertices renumbered to role order.
func inducedGraph(host *graph.Graph, in *instance.Instance) *graph.Graph {
	g := graph.New(len(in.Vertices), len(in.Edges))
	pos := make(map[int]int, len(in.Vertices))
	for i, hv := range in.Vertices {
		pos[hv] = i
		g.AddVertex(host.Vertex(hv).Label)
	}
	for _, he := range in.Edges {
		e := host.Edge(he)
		g.MustAddEdge(pos[e.Source], pos[e.Target], e.Directed, e.Label, e.SpansIncrement)
	}
	return g
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
