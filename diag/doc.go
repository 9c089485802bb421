// Package diag provides structured diagnostics with stable error codes.
//
// The discovery pipeline reports every user-facing problem — malformed
// graph files, out-of-range parameters, truncated pattern files — as an
// immutable [Issue] carrying a [Severity], a stable [Code], a source
// [location.Span], and the offending token. Issues are accumulated in a
// thread-safe [Collector] and snapshotted into an immutable [Result].
//
// Algorithmic signals (no patterns found, expansion budget reached) are
// never diagnostics; they surface as empty result lists in the discover
// package.
//
// Codes are a closed set: only values declared in this package are valid,
// so tools can match on them even when message text changes.
package diag
