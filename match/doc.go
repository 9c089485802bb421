// Package match locates occurrences of pattern graphs inside host graphs.
//
// Two matchers cooperate:
//
//   - The inexact [Matcher] computes the minimum transformation cost
//     between two labeled graphs by best-first search over partial
//     vertex mappings, degrading to a greedy frontier after a node
//     budget. It detects duplicate patterns (threshold 0) and decides
//     tolerance matches (threshold > 0).
//
//   - [Finder.FindInstances] enumerates the instances of a pattern in a host
//     by growing partial instances one pattern edge at a time, in
//     breadth-first pattern order, consulting the inexact cost model
//     per edge when a tolerance threshold is set.
//
// Both are deterministic: the priority queue breaks cost ties by
// preferring deeper mappings, and all remaining ties fall back to
// smallest id. Host graphs are never mutated; search bookkeeping lives
// in per-call scratch state.
package match
