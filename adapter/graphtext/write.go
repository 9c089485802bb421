package graphtext

import (
	"bufio"
	"fmt"
	"io"

	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/label"
)

// WriteGraph emits g in canonical form: one v line per vertex with
// 1-based ids, each example's marker written just before its first
// vertex, then the edge lines. Directed edges are
// written as d lines and undirected edges as u lines, so the output
// round-trips regardless of the reader's directed flag.
func WriteGraph(w io.Writer, g *graph.Graph, reg *label.Registry) error {
	bw := bufio.NewWriter(w)

	examples := g.Examples()
	next := 0
	for v := 0; v < g.VertexCount(); v++ {
		for next < len(examples) && examples[next].Start == v {
			marker := "XN"
			if examples[next].Positive {
				marker = "XP"
			}
			fmt.Fprintln(bw, marker)
			next++
		}
		fmt.Fprintf(bw, "v %d %s\n", v+1, reg.MustGet(g.Vertex(v).Label))
	}
	if err := writeEdges(bw, g, reg, 0); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteSub emits one substructure record: an S line followed by the
// pattern in per-record 1-based numbering.
func WriteSub(w io.Writer, def *graph.Graph, reg *label.Registry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "S")
	for v := 0; v < def.VertexCount(); v++ {
		fmt.Fprintf(bw, "v %d %s\n", v+1, reg.MustGet(def.Vertex(v).Label))
	}
	if err := writeEdges(bw, def, reg, 0); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteSubList emits records for every definition, separated by blank
// lines, preceded by header comment lines.
func WriteSubList(w io.Writer, defs []*graph.Graph, reg *label.Registry, header ...string) error {
	bw := bufio.NewWriter(w)
	for _, h := range header {
		fmt.Fprintf(bw, "%% %s\n", h)
	}
	for i, def := range defs {
		if i > 0 || len(header) > 0 {
			fmt.Fprintln(bw)
		}
		if err := WriteSub(bw, def, reg); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeEdges(bw *bufio.Writer, g *graph.Graph, reg *label.Registry, base int) error {
	for e := 0; e < g.EdgeCount(); e++ {
		edge := g.Edge(e)
		tok := "u"
		if edge.Directed {
			tok = "d"
		}
		if _, err := fmt.Fprintf(bw, "%s %d %d %s\n",
			tok, edge.Source-base+1, edge.Target-base+1, reg.MustGet(edge.Label)); err != nil {
			return err
		}
	}
	return nil
}
