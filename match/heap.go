package match

import "container/heap"

// mapNode is one partial mapping in the inexact search.
type mapNode struct {
	// depth is the number of g1 vertices mapped so far (a prefix of the
	// degree ordering).
	depth int

	// cost is the accumulated lower-bound transformation cost.
	cost float64

	// assignment maps g1 vertex id to a g2 vertex id, deletedVertex, or
	// unmappedVertex.
	assignment []int

	// usedEdges flags g2 edges already paired with a g1 edge.
	usedEdges []bool
}

const (
	unmappedVertex = -1
	deletedVertex  = -2
)

// mappingHeap orders nodes by increasing cost; equal costs prefer the
// deeper (more complete) mapping so a best completion is found early.
// The final tie-break on insertion sequence keeps the order reproducible.
type mappingHeap struct {
	nodes []*mapNode
	seq   []int
	next  int
}

var _ heap.Interface = (*mappingHeap)(nil)

func (h *mappingHeap) Len() int { return len(h.nodes) }

func (h *mappingHeap) Less(i, j int) bool {
	a, b := h.nodes[i], h.nodes[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return h.seq[i] < h.seq[j]
}

func (h *mappingHeap) Swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.seq[i], h.seq[j] = h.seq[j], h.seq[i]
}

func (h *mappingHeap) Push(x any) {
	h.nodes = append(h.nodes, x.(*mapNode))
	h.seq = append(h.seq, h.next)
	h.next++
}

func (h *mappingHeap) Pop() any {
	n := len(h.nodes) - 1
	node := h.nodes[n]
	h.nodes = h.nodes[:n]
	h.seq = h.seq[:n]
	return node
}

func (h *mappingHeap) push(n *mapNode) { heap.Push(h, n) }

func (h *mappingHeap) pop() *mapNode { return heap.Pop(h).(*mapNode) }
