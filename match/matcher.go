package match

import (
	"context"
	"log/slog"
	"math"

	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/internal/trace"
	"github.com/simon-lentz/graphmine/label"
)

// defaultBudgetExponent bounds the best-first search at |V|^4 expanded
// nodes before it degrades to greedy.
const defaultBudgetExponent = 4

// Matcher computes minimum transformation costs between labeled graphs.
//
// A Matcher is cheap to construct and safe to reuse across calls; all
// per-call scratch state (the mapping heap, assignment arrays, used-edge
// flags) is allocated per call and released on return.
type Matcher struct {
	reg       *label.Registry
	costs     Costs
	budgetExp int
	logger    *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithCosts replaces the default transformation cost table.
func WithCosts(c Costs) MatcherOption {
	return func(m *Matcher) { m.costs = c.normalized() }
}

// WithNodeBudgetExponent sets the exponent K of the |V|^K node budget.
// K = 0 disables the budget (exhaustive search).
func WithNodeBudgetExponent(k int) MatcherOption {
	return func(m *Matcher) { m.budgetExp = k }
}

// WithLogger enables trace-level logging of the mapping search.
func WithLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) { m.logger = logger }
}

// NewMatcher creates a Matcher bound to the given label registry.
func NewMatcher(reg *label.Registry, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		reg:       reg,
		costs:     DefaultCosts(),
		budgetExp: defaultBudgetExponent,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match reports the minimum transformation cost between g1 and g2 and
// whether it is within threshold. Pass math.Inf(1) for an unbounded
// search; the exact minimum is then always returned.
func (m *Matcher) Match(g1, g2 *graph.Graph, threshold float64) (float64, bool) {
	cost, _, ok := m.MatchMapping(g1, g2, threshold)
	return cost, ok
}

// MatchMapping is Match returning the winning vertex mapping as well.
//
// mapping[i] is the g2 vertex that g1 vertex i maps to, or -1 when
// vertex i is deleted by the transformation. mapping is nil when no
// complete mapping within threshold was found.
func (m *Matcher) MatchMapping(g1, g2 *graph.Graph, threshold float64) (float64, []int, bool) {
	big, small := g1, g2
	swapped := false
	if g2.VertexCount() > g1.VertexCount() {
		big, small = g2, g1
		swapped = true
	}

	cost, assign := m.search(big, small, threshold)
	if assign == nil {
		return cost, nil, false
	}

	mapping := assign
	if swapped {
		// assign maps g2 -> g1; invert to the caller's orientation.
		mapping = make([]int, g1.VertexCount())
		for i := range mapping {
			mapping[i] = unmappedVertex
		}
		for v2, v1 := range assign {
			if v1 >= 0 {
				mapping[v1] = v2
			}
		}
	}
	for i, v := range mapping {
		if v < 0 {
			mapping[i] = -1
		}
	}
	return cost, mapping, cost <= threshold
}

// search runs the best-first mapping search from big onto small.
// Returns (+Inf, nil) when no complete mapping within threshold exists.
func (m *Matcher) search(big, small *graph.Graph, threshold float64) (float64, []int) {
	ctx := context.Background()
	order := big.DegreeOrder()

	root := &mapNode{
		assignment: make([]int, big.VertexCount()),
		usedEdges:  make([]bool, small.EdgeCount()),
	}
	for i := range root.assignment {
		root.assignment[i] = unmappedVertex
	}
	if len(order) == 0 {
		// An empty big graph maps completely at the cost of inserting
		// everything in small.
		cost := m.insertedVerticesCost(small, root.assignment)
		if cost <= threshold {
			return cost, root.assignment
		}
		return math.Inf(1), nil
	}

	frontier := &mappingHeap{}
	frontier.push(root)

	budget := 0
	if m.budgetExp > 0 {
		budget = 1
		for range m.budgetExp {
			budget *= big.VertexCount()
		}
	}

	best := math.Inf(1)
	var bestAssign []int
	expanded := 0
	greedy := false

	for frontier.Len() > 0 {
		n := frontier.pop()
		if n.cost > threshold || n.cost > best {
			continue
		}
		if n.depth == len(order) {
			if n.cost < best {
				best = n.cost
				bestAssign = n.assignment
			}
			if greedy {
				// First completion wins in the degraded regime.
				break
			}
			continue
		}

		expanded++
		children := m.expand(big, small, n, order[n.depth], threshold, best)
		if greedy {
			if child := bestChild(children); child != nil {
				frontier.push(child)
			}
		} else {
			for _, child := range children {
				frontier.push(child)
			}
		}

		if !greedy && budget > 0 && expanded > budget {
			greedy = true
			compressFrontier(frontier, big.VertexCount()+1)
			trace.Log(ctx, m.logger, trace.LevelTrace, "mapping search degraded to greedy",
				slog.Int("expanded", expanded), slog.Int("frontier", frontier.Len()))
		}
	}

	if bestAssign == nil {
		return math.Inf(1), nil
	}
	return best, bestAssign
}

// expand generates the children of node n by assigning big vertex v1.
// Children over threshold or over the best complete cost are dropped.
func (m *Matcher) expand(big, small *graph.Graph, n *mapNode, v1 int, threshold, best float64) []*mapNode {
	var children []*mapNode
	admit := func(child *mapNode) {
		if child.cost <= threshold && child.cost <= best {
			children = append(children, child)
		}
	}

	// (a) Delete v1.
	cost := n.cost + m.costs.DeleteVertex
	for _, eid := range big.Vertex(v1).Edges {
		e := big.Edge(eid)
		other := e.Other(v1)
		if other == v1 || isMapped(n.assignment[other]) {
			cost += m.costs.DeleteEdgeWithVertex
		}
	}
	child := n.child(v1, deletedVertex, cost)
	if child.depth == big.VertexCount() {
		child.cost += m.insertedVerticesCost(small, child.assignment)
	}
	admit(child)

	// (b) Map v1 to every unmapped small vertex.
	for v2 := 0; v2 < small.VertexCount(); v2++ {
		if inImage(n.assignment, v2) {
			continue
		}
		cost := n.cost + m.costs.SubstituteVertex*m.reg.Mismatch(big.Vertex(v1).Label, small.Vertex(v2).Label)
		used := append([]bool(nil), n.usedEdges...)
		cost += m.deletedEdgesCost(big, small, v1, v2, n.assignment, used)
		cost += m.insertedEdgesCost(small, v2, n.assignment, used)

		child := n.child(v1, v2, cost)
		child.usedEdges = used
		if child.depth == big.VertexCount() {
			child.cost += m.insertedVerticesCost(small, child.assignment)
		}
		admit(child)
	}
	return children
}

// child clones n with v1 assigned to target. The used-edge flags are
// shared until the caller replaces them.
func (n *mapNode) child(v1, target int, cost float64) *mapNode {
	assign := append([]int(nil), n.assignment...)
	assign[v1] = target
	return &mapNode{
		depth:      n.depth + 1,
		cost:       cost,
		assignment: assign,
		usedEdges:  n.usedEdges,
	}
}

// deletedEdgesCost pairs each edge of big from v1 to an already-mapped
// endpoint with the cheapest unused small edge between the corresponding
// vertices, charging the substitution cost; unpaired big edges are
// charged as deletions. Paired small edges are flagged in used.
func (m *Matcher) deletedEdgesCost(big, small *graph.Graph, v1, v2 int, assignment []int, used []bool) float64 {
	total := 0.0
	for _, eid := range big.Vertex(v1).Edges {
		e := big.Edge(eid)
		other := e.Other(v1)
		target := unmappedVertex
		if other == v1 {
			target = v2
		} else if isMapped(assignment[other]) {
			target = assignment[other]
		} else if assignment[other] == deletedVertex {
			// The other endpoint was deleted earlier, so the edge has no
			// counterpart in small.
			total += m.costs.DeleteEdge
			continue
		}
		if target == unmappedVertex {
			// The other endpoint is pending; the edge is charged when
			// that endpoint is assigned.
			continue
		}

		bestID := -1
		bestCost := 0.0
		for _, fid := range small.Vertex(v2).Edges {
			if used[fid] {
				continue
			}
			f := small.Edge(fid)
			if f.Other(v2) != target {
				continue
			}
			c := m.edgePairCost(e, f, v1, v2)
			if bestID < 0 || c < bestCost {
				bestID = fid
				bestCost = c
			}
		}
		if bestID >= 0 {
			total += bestCost
			used[bestID] = true
		} else {
			total += m.costs.DeleteEdge
		}
	}
	return total
}

// edgePairCost is the substitution cost between a big edge at v1 and a
// small edge at v2 whose endpoints already correspond.
func (m *Matcher) edgePairCost(e, f *graph.Edge, v1, v2 int) float64 {
	c := m.costs.SubstituteEdge * m.reg.Mismatch(e.Label, f.Label)
	switch {
	case e.Directed != f.Directed:
		c += m.costs.SubstituteDirection
	case e.Directed && f.Directed:
		eLoop := e.Source == e.Target
		fLoop := f.Source == f.Target
		if !eLoop && !fLoop && (e.Source == v1) != (f.Source == v2) {
			c += m.costs.ReverseDirection
		}
	}
	return c
}

// insertedEdgesCost charges every still-unused small edge between v2 and
// an already-mapped small vertex as an insertion, flagging it used.
func (m *Matcher) insertedEdgesCost(small *graph.Graph, v2 int, assignment []int, used []bool) float64 {
	total := 0.0
	for _, fid := range small.Vertex(v2).Edges {
		if used[fid] {
			continue
		}
		f := small.Edge(fid)
		other := f.Other(v2)
		if other == v2 || inImage(assignment, other) {
			total += m.costs.InsertEdge
			used[fid] = true
		}
	}
	return total
}

// insertedVerticesCost charges, once the mapping is complete, every
// unmapped small vertex as an insertion plus each of its edges whose
// other endpoint is mapped or is the vertex itself.
func (m *Matcher) insertedVerticesCost(small *graph.Graph, assignment []int) float64 {
	total := 0.0
	for w := 0; w < small.VertexCount(); w++ {
		if inImage(assignment, w) {
			continue
		}
		total += m.costs.InsertVertex
		for _, fid := range small.Vertex(w).Edges {
			f := small.Edge(fid)
			other := f.Other(w)
			if other == w || inImage(assignment, other) {
				total += m.costs.InsertEdgeWithVertex
			}
		}
	}
	return total
}

// bestChild returns the cheapest child, ties to the first generated.
func bestChild(children []*mapNode) *mapNode {
	var best *mapNode
	for _, c := range children {
		if best == nil || c.cost < best.cost {
			best = c
		}
	}
	return best
}

// compressFrontier drains the heap and re-inserts only the cheapest
// nodes with pairwise distinct costs, at most limit of them.
func compressFrontier(h *mappingHeap, limit int) {
	var kept []*mapNode
	lastCost := math.Inf(-1)
	for h.Len() > 0 {
		n := h.pop()
		if len(kept) >= limit {
			break
		}
		if len(kept) > 0 && n.cost == lastCost {
			continue
		}
		kept = append(kept, n)
		lastCost = n.cost
	}
	h.nodes = h.nodes[:0]
	h.seq = h.seq[:0]
	for _, n := range kept {
		h.push(n)
	}
}

func isMapped(a int) bool { return a >= 0 }

func inImage(assignment []int, v2 int) bool {
	for _, a := range assignment {
		if a == v2 {
			return true
		}
	}
	return false
}
