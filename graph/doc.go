// Package graph provides the in-memory labeled multigraph store.
//
// A [Graph] is a pair of dense arrays: vertices and edges, each carrying
// an interned label index. Every vertex holds the ids of its incident
// edges, so enumeration of a vertex's neighborhood is an index walk with
// no map lookups. Vertex and edge ids are stable for the lifetime of the
// graph, and adjacency lists are append-only during construction.
//
// Graphs are mutable while being built (by the file adapter or the
// compressor) and treated as immutable during matching; all search
// bookkeeping lives in per-call bitsets owned by the match package.
//
// A graph built from a multi-example input additionally records example
// boundaries: the first vertex id of each positive or negative example,
// in input order. The set-cover evaluator uses these to attribute pattern
// instances to examples.
package graph
