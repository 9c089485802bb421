// Package label interns vertex and edge labels into dense integer indices.
//
// A [Value] is a tagged union holding either a string or a float64. Every
// graph in the module stores labels by [Index] into a shared [Registry];
// two labels are equal iff their indices are equal, which makes hot-path
// label comparison a single integer compare.
//
// The [Registry] also hosts the label mismatch strategy consulted by
// threshold-based inexact matching: the default returns 0 for identical
// indices and 1 otherwise, and callers may inject a numeric-tolerance
// function via [Registry.SetMismatchFunc] without touching the matchers.
package label
