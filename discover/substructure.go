package discover

import (
	"strings"

	"github.com/simon-lentz/graphmine/adapter/graphtext"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/instance"
	"github.com/simon-lentz/graphmine/label"
	"github.com/simon-lentz/graphmine/match"
)

// Substructure is a candidate pattern with its instances and score.
type Substructure struct {
	// Definition is the pattern graph.
	Definition *graph.Graph

	// Instances are the occurrences in the positive graph.
	Instances *instance.List

	// NegInstances are the occurrences in the negative graph; nil when
	// unsupervised.
	NegInstances *instance.List

	// Score is the evaluation value; higher is better.
	Score float64

	// PosExamples and NegExamples count the examples covered.
	PosExamples int
	NegExamples int

	// Recursive marks a pattern whose definition is augmented with a
	// self-loop carrying RecursiveLabel during evaluation and output.
	Recursive      bool
	RecursiveLabel label.Index

	// parentScore supports prune: extensions scoring below their parent
	// are dropped when pruning is on.
	parentScore float64

	canonical string
}

// Canonical returns the definition's canonical record text, used as the
// final deterministic tie-break. Cached after the first call; the
// definition must not change afterwards.
func (s *Substructure) Canonical(reg *label.Registry) string {
	if s.canonical == "" {
		var b strings.Builder
		// The definition of a recursive pattern already carries its
		// self-loop, so the canonical text distinguishes the variants.
		if err := graphtext.WriteSub(&b, s.Definition, reg); err == nil {
			s.canonical = b.String()
		}
	}
	return s.canonical
}

// better orders candidates: higher score first, then fewer definition
// vertices, then canonical text.
func better(a, b *Substructure, reg *label.Registry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	av, bv := a.Definition.VertexCount(), b.Definition.VertexCount()
	if av != bv {
		return av < bv
	}
	return a.Canonical(reg) < b.Canonical(reg)
}

// subList is a bounded, ordered candidate list with duplicate-pattern
// merging. It backs both the beam and the best-N tracker.
type subList struct {
	subs       []*Substructure
	width      int
	valueBased bool
	reg        *label.Registry
	matcher    *match.Matcher
}

func newSubList(width int, valueBased bool, reg *label.Registry, matcher *match.Matcher) *subList {
	return &subList{width: width, valueBased: valueBased, reg: reg, matcher: matcher}
}

// insert places sub in order, merging it into an existing entry when
// the definitions match at threshold zero. Reports whether the list
// changed structurally (merges return false).
func (l *subList) insert(sub *Substructure) bool {
	for _, have := range l.subs {
		if mapping, ok := l.duplicate(have, sub); ok {
			mergeInstances(have, sub, mapping)
			return false
		}
	}
	pos := len(l.subs)
	for i, have := range l.subs {
		if better(sub, have, l.reg) {
			pos = i
			break
		}
	}
	l.subs = append(l.subs, nil)
	copy(l.subs[pos+1:], l.subs[pos:])
	l.subs[pos] = sub
	l.trim()
	return true
}

// duplicate reports whether two candidates define the same pattern:
// equal recursion flavor and a zero-cost graph match. On a match it
// returns the vertex mapping from b's definition onto a's.
func (l *subList) duplicate(a, b *Substructure) ([]int, bool) {
	if a.Recursive != b.Recursive || a.RecursiveLabel != b.RecursiveLabel {
		return nil, false
	}
	if a.Definition.VertexCount() != b.Definition.VertexCount() ||
		a.Definition.EdgeCount() != b.Definition.EdgeCount() {
		return nil, false
	}
	_, mapping, ok := l.matcher.MatchMapping(b.Definition, a.Definition, 0)
	return mapping, ok
}

// mergeInstances unions the newcomer's instances into the kept entry,
// remapping their pattern roles through the definitions' isomorphism so
// later extension steps keep grouping correctly.
func mergeInstances(into, from *Substructure, mapping []int) {
	for _, in := range from.Instances.All() {
		into.Instances.Add(remapRoles(in, mapping))
	}
	if from.NegInstances != nil {
		if into.NegInstances == nil {
			into.NegInstances = instance.NewList()
		}
		for _, in := range from.NegInstances.All() {
			into.NegInstances.Add(remapRoles(in, mapping))
		}
	}
}

// remapRoles rewrites an instance's role mapping through a definition
// isomorphism. A resulting identity mapping is stored as nil.
func remapRoles(in *instance.Instance, mapping []int) *instance.Instance {
	if mapping == nil {
		return in
	}
	out := in.Clone()
	out.Mapping = make([]int, len(out.Vertices))
	identity := true
	for pos := range out.Vertices {
		role := pos
		if in.Mapping != nil {
			role = in.Mapping[pos]
		}
		out.Mapping[pos] = mapping[role]
		if out.Mapping[pos] != pos {
			identity = false
		}
	}
	if identity {
		out.Mapping = nil
	}
	return out
}

// trim enforces the width bound: count-based keeps the top width
// entries, value-based keeps every entry scoring at least as well as
// the width-th best.
func (l *subList) trim() {
	if l.width <= 0 || len(l.subs) <= l.width {
		return
	}
	if !l.valueBased {
		l.subs = l.subs[:l.width]
		return
	}
	floor := l.subs[l.width-1].Score
	cut := len(l.subs)
	for i := l.width; i < len(l.subs); i++ {
		if l.subs[i].Score < floor {
			cut = i
			break
		}
	}
	l.subs = l.subs[:cut]
}

func (l *subList) len() int { return len(l.subs) }

func (l *subList) empty() bool { return len(l.subs) == 0 }

// pop removes and returns the best candidate.
func (l *subList) pop() *Substructure {
	sub := l.subs[0]
	l.subs = l.subs[1:]
	return sub
}

func (l *subList) all() []*Substructure { return l.subs }
