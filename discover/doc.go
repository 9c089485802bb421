// Package discover drives the beam search for compressible patterns.
//
// A discovery run seeds one candidate per distinct vertex label, then
// repeatedly pops the best candidate from a bounded beam, extends each
// of its instances by one host edge, groups the extensions into new
// candidates, scores them, and keeps the all-time best in a second
// bounded list. Between iterations the chosen pattern is compressed out
// of the positive graph (or covered examples are removed under the
// set-cover model) and discovery re-enters on the result.
//
// The engine is pure: given identical inputs and [Params] the output
// list, the scores, and the written pattern records are reproducible
// byte for byte; only the output header differs, since it carries the
// per-run ID. All mutation is local to the call; the distributed
// coordinator builds on the exported [Engine.Discover] and [ScoreOn]
// operations without any shared state.
package discover
