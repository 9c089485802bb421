package discover

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/jsonc"

	"github.com/simon-lentz/graphmine/diag"
	"github.com/simon-lentz/graphmine/eval"
	"github.com/simon-lentz/graphmine/match"
)

// Params is the immutable configuration of a discovery run.
//
// Construct with [DefaultParams], optionally layer a JSONC parameter
// file on top with [ApplyParamsFile], then apply CLI flags. Validate
// before use; the engine assumes validated parameters. Per-call scratch
// state never lives here.
type Params struct {
	// BeamWidth bounds the candidate beam (flag -beam, default 4).
	BeamWidth int

	// NumBest bounds the reported best list (flag -nsubs, default 3).
	NumBest int

	// Limit bounds candidate expansions per iteration (flag -limit).
	// Zero means the default of |E_pos|/2.
	Limit int

	// Iterations bounds the outer compression loop (flag -iterations).
	// Zero means run until another stop condition fires.
	Iterations int

	// Eval selects the scoring model (flag -eval, default MDL).
	Eval eval.Model

	// Threshold is the inexact-match tolerance in [0,1] (flag
	// -threshold, default 0 = exact).
	Threshold float64

	// MinVertices and MaxVertices bound emitted pattern sizes (flags
	// -minsize/-maxsize). MaxVertices zero means unbounded.
	MinVertices int
	MaxVertices int

	// AllowOverlap permits instances to share vertices (flag -overlap).
	AllowOverlap bool

	// Prune drops extensions scoring below their parent (flag -prune).
	Prune bool

	// ValueBased keeps every beam candidate scoring at least as well as
	// the BeamWidth-th best instead of exactly BeamWidth candidates
	// (flag -valuebased).
	ValueBased bool

	// Undirected treats plain e edges as undirected (flag -undirected).
	Undirected bool

	// Recursion enables recursive pattern variants (flag -recursion).
	Recursion bool

	// Costs is the transformation cost table for inexact matching.
	Costs match.Costs
}

// DefaultParams returns the documented flag defaults.
func DefaultParams() Params {
	return Params{
		BeamWidth:   4,
		NumBest:     3,
		Iterations:  1,
		Eval:        eval.ModelMDL,
		MinVertices: 1,
		Costs:       match.DefaultCosts(),
	}
}

// Validate collects parameter errors. Returns true when the parameters
// are usable.
func (p Params) Validate(collector *diag.Collector) bool {
	before := collector.Len()
	if p.BeamWidth <= 0 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "beam width must be positive, got %d", p.BeamWidth))
	}
	if p.NumBest <= 0 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "nsubs must be positive, got %d", p.NumBest))
	}
	if p.Limit < 0 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "limit must not be negative, got %d", p.Limit))
	}
	if p.Iterations < 0 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "iterations must not be negative, got %d", p.Iterations))
	}
	if !p.Eval.Valid() {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "eval must be 1 (mdl), 2 (size), or 3 (setcover), got %d", int(p.Eval)))
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "threshold must be in [0,1], got %g", p.Threshold))
	}
	if p.MinVertices < 1 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "minsize must be at least 1, got %d", p.MinVertices))
	}
	if p.MaxVertices != 0 && p.MaxVertices < p.MinVertices {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "maxsize %d is below minsize %d", p.MaxVertices, p.MinVertices))
	}
	return collector.Len() == before
}

// paramsFile is the JSONC parameter file schema. Pointer fields
// distinguish "absent" from zero values; keys mirror the flag names.
type paramsFile struct {
	Beam       *int     `json:"beam"`
	Nsubs      *int     `json:"nsubs"`
	Limit      *int     `json:"limit"`
	Iterations *int     `json:"iterations"`
	Eval       *int     `json:"eval"`
	Threshold  *float64 `json:"threshold"`
	MinSize    *int     `json:"minsize"`
	MaxSize    *int     `json:"maxsize"`
	Overlap    *bool    `json:"overlap"`
	Prune      *bool    `json:"prune"`
	ValueBased *bool    `json:"valuebased"`
	Undirected *bool    `json:"undirected"`
	Recursion  *bool    `json:"recursion"`
}

// ApplyParamsFile layers a JSONC parameter document over p. Comments
// and trailing commas are allowed; unknown keys are parameter errors.
// On error the returned Params equal p.
func ApplyParamsFile(p Params, data []byte, collector *diag.Collector) (Params, bool) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	var f paramsFile
	if err := dec.Decode(&f); err != nil {
		collector.Collect(diag.Errorf(diag.CodeParamFile, "parameter file: %v", err))
		return p, false
	}

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&p.BeamWidth, f.Beam)
	setInt(&p.NumBest, f.Nsubs)
	setInt(&p.Limit, f.Limit)
	setInt(&p.Iterations, f.Iterations)
	if f.Eval != nil {
		p.Eval = eval.Model(*f.Eval)
	}
	if f.Threshold != nil {
		p.Threshold = *f.Threshold
	}
	setInt(&p.MinVertices, f.MinSize)
	setInt(&p.MaxVertices, f.MaxSize)
	setBool(&p.AllowOverlap, f.Overlap)
	setBool(&p.Prune, f.Prune)
	setBool(&p.ValueBased, f.ValueBased)
	setBool(&p.Undirected, f.Undirected)
	setBool(&p.Recursion, f.Recursion)
	return p, true
}
