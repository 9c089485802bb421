package graphtext

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"

	"github.com/simon-lentz/graphmine/diag"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/label"
	"github.com/simon-lentz/graphmine/location"
)

// ErrParse indicates the input did not conform to the grammar; the
// collector holds the detailed issues.
var ErrParse = errors.New("graphtext: parse failed")

// parser tracks shared scan state across graph and substructure parsing.
type parser struct {
	source    location.SourceID
	directed  bool
	reg       *label.Registry
	collector *diag.Collector
	line      int
}

func (p *parser) errorAt(field int, code diag.Code, token, format string, args ...any) {
	p.collector.Collect(diag.Errorf(code, format, args...).
		WithSpan(location.PointField(p.source, p.line, field)).
		WithToken(token))
}

// parseInt parses a 1-based id field.
func (p *parser) parseInt(fields []string, idx int) (int, bool) {
	v, err := strconv.Atoi(fields[idx])
	if err != nil {
		p.errorAt(idx+1, diag.CodeSyntaxNumber, fields[idx], "integer expected")
		return 0, false
	}
	return v, true
}

// ParseGraph parses a complete input graph.
//
// directed sets the orientation of plain e edges; u and d lines override
// it per edge. Labels are interned into reg, which the caller owns and
// may share with subsequent pattern files. Errors are collected into
// collector; on any error the returned graph is nil and err is
// [ErrParse].
func ParseGraph(data []byte, source location.SourceID, directed bool, reg *label.Registry, collector *diag.Collector) (*graph.Graph, error) {
	p := &parser{source: source, directed: directed, reg: reg, collector: collector}
	g := graph.New(0, 0)

	sawVertex := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		fields, ok := splitFields(scanner.Text())
		if !ok {
			p.errorAt(0, diag.CodeSyntaxQuote, scanner.Text(), "unterminated quoted label")
			return nil, ErrParse
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "XP", "XN":
			if len(fields) != 1 {
				p.errorAt(2, diag.CodeSyntaxField, fields[1], "unexpected fields after %s", fields[0])
				return nil, ErrParse
			}
			g.AddExample(g.VertexCount(), fields[0] == "XP")
		case "v":
			if !sawVertex && len(g.Examples()) == 0 {
				// First example may omit its XP marker.
				g.AddExample(0, true)
			}
			sawVertex = true
			if !p.parseVertex(g, fields, 0) {
				return nil, ErrParse
			}
		case "e", "u", "d":
			if !p.parseEdge(g, fields, 0) {
				return nil, ErrParse
			}
		default:
			p.errorAt(1, diag.CodeSyntaxToken, fields[0], "unknown directive")
			return nil, ErrParse
		}
	}
	if err := scanner.Err(); err != nil {
		collector.Collect(diag.Errorf(diag.CodeIORead, "reading input: %v", err).
			WithSpan(location.Point(source, p.line)))
		return nil, ErrParse
	}
	return g, nil
}

// parseVertex handles a v line. base is the id offset of the current
// record: vertex ids in the file are 1-based relative to base.
func (p *parser) parseVertex(g *graph.Graph, fields []string, base int) bool {
	if len(fields) != 3 {
		p.errorAt(0, diag.CodeSyntaxField, "", "v takes an id and a label, got %d fields", len(fields)-1)
		return false
	}
	id, ok := p.parseInt(fields, 1)
	if !ok {
		return false
	}
	if id != g.VertexCount()-base+1 {
		p.errorAt(2, diag.CodeSyntaxVertexRef, fields[1], "vertex ids must be sequential; expected %d", g.VertexCount()-base+1)
		return false
	}
	g.AddVertex(p.reg.Intern(label.Parse(fields[2])))
	return true
}

// parseEdge handles an e, u, or d line. base is the id offset of the
// current record.
func (p *parser) parseEdge(g *graph.Graph, fields []string, base int) bool {
	if len(fields) != 4 {
		p.errorAt(0, diag.CodeSyntaxField, "", "%s takes two vertex ids and a label, got %d fields", fields[0], len(fields)-1)
		return false
	}
	src, ok := p.parseInt(fields, 1)
	if !ok {
		return false
	}
	dst, ok := p.parseInt(fields, 2)
	if !ok {
		return false
	}
	for i, id := range []int{src, dst} {
		if id < 1 || base+id > g.VertexCount() {
			p.errorAt(i+2, diag.CodeSyntaxVertexRef, fields[i+1], "edge endpoint refers to undeclared vertex")
			return false
		}
	}
	directed := p.directed
	switch fields[0] {
	case "u":
		directed = false
	case "d":
		directed = true
	}
	l := p.reg.Intern(label.Parse(fields[3]))
	if _, err := g.AddEdge(base+src-1, base+dst-1, directed, l, false); err != nil {
		p.errorAt(0, diag.CodeInternal, "", "adding edge: %v", err)
		return false
	}
	return true
}

// ParseSubList parses a substructure file: records introduced by S
// (discovery output) or PS (predefined patterns), each followed by its
// vertex and edge lines with per-record 1-based numbering. Comment and
// blank lines are skipped.
func ParseSubList(data []byte, source location.SourceID, directed bool, reg *label.Registry, collector *diag.Collector) ([]*graph.Graph, error) {
	p := &parser{source: source, directed: directed, reg: reg, collector: collector}

	var subs []*graph.Graph
	var current *graph.Graph

	flush := func() {
		if current != nil {
			subs = append(subs, current)
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		fields, ok := splitFields(scanner.Text())
		if !ok {
			p.errorAt(0, diag.CodeSyntaxQuote, scanner.Text(), "unterminated quoted label")
			return nil, ErrParse
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "S", "PS":
			flush()
			current = graph.New(0, 0)
		case "v":
			if current == nil {
				p.errorAt(1, diag.CodeSyntaxToken, fields[0], "vertex outside a substructure record")
				return nil, ErrParse
			}
			if !p.parseVertex(current, fields, 0) {
				return nil, ErrParse
			}
		case "e", "u", "d":
			if current == nil {
				p.errorAt(1, diag.CodeSyntaxToken, fields[0], "edge outside a substructure record")
				return nil, ErrParse
			}
			if !p.parseEdge(current, fields, 0) {
				return nil, ErrParse
			}
		default:
			p.errorAt(1, diag.CodeSyntaxToken, fields[0], "unknown directive")
			return nil, ErrParse
		}
	}
	if err := scanner.Err(); err != nil {
		collector.Collect(diag.Errorf(diag.CodeIORead, "reading input: %v", err).
			WithSpan(location.Point(source, p.line)))
		return nil, ErrParse
	}
	flush()
	return subs, nil
}
