// Package instance models occurrences of a pattern within a host graph.
//
// An [Instance] is an ordered list of host vertex ids plus an ordered
// list of host edge ids, with extension markers and match metadata. It
// never points back into the host graph; all references are plain ids,
// which keeps ownership acyclic.
//
// A [List] is the only collection type for instances. It preserves
// insertion order (the greedy non-overlap selection depends on it) and
// deduplicates by value: two instances covering the same vertex set and
// edge set are one instance. Lists share *Instance values freely; Go's
// garbage collector takes the place of the reference counts used by
// refcounted implementations of this model.
package instance
