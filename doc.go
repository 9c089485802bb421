// Package graphmine discovers repeating, compressible patterns in
// labeled graphs.
//
// Given a graph (or a set of positive and negative example graphs),
// graphmine runs a bounded beam search over connected subgraph
// patterns, enumerates each candidate's occurrences by subgraph
// isomorphism, scores candidates by minimum description length, raw
// size, or set cover, and rewrites matched occurrences into synthetic
// vertices so later iterations can find higher-order structure.
//
// # Architecture Overview
//
// The module is organized into layers. Each package depends only on
// packages listed before it, except that compress and discover use the
// adapter's writer for their output files:
//
//	Foundation tier:
//	  - location: Source positions for graph-file diagnostics
//	  - diag: Structured diagnostics with stable error codes
//	  - label: Label interning and the mismatch strategy
//
//	Core library tier:
//	  - graph: The labeled multigraph store with example boundaries
//	  - instance: Pattern occurrences and deduplicating lists
//	  - match: Inexact graph matching and instance enumeration
//	  - compress: Instance rewriting into synthetic vertices
//	  - eval: The three scoring models
//	  - discover: Beam search, iteration driver, and parameters
//
//	Adapter tier:
//	  - adapter/graphtext: The line-oriented graph and pattern format
//
// # Entry Points
//
// Parsing an input graph:
//
//	import "github.com/simon-lentz/graphmine/adapter/graphtext"
//
//	reg := label.NewRegistry()
//	collector := diag.NewCollector(diag.NoLimit)
//	g, err := graphtext.ParseGraph(data, src, true, reg, collector)
//	if err != nil {
//	    // collector holds file/line/token diagnostics
//	}
//
// Running discovery:
//
//	import "github.com/simon-lentz/graphmine/discover"
//
//	params := discover.DefaultParams()
//	results := discover.Run(ctx, g, reg, params, nil)
//	for _, sub := range results.Best() {
//	    // sub.Definition, sub.Score, sub.Instances
//	}
//
// The cmd/graphmine binary wires both behind the CLI flag surface.
package graphmine
