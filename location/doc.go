// Package location provides source positions for graph-file diagnostics.
//
// The graph input format is line-oriented: every diagnostic points at a
// line and a whitespace-separated field on that line. The types here are
// small immutable values passed by value throughout the module:
//
//   - [SourceID]: the normalized identity of an input file.
//   - [Position]: a 1-based line and field coordinate.
//   - [Span]: a position bound to its source.
//
// The zero value of each type means "unknown"; diagnostics with unknown
// locations render without a location prefix.
package location
