package match

// Costs parameterizes the graph transformation model.
//
// A zero-valued field means "use the default of 1.0"; use [DefaultCosts]
// for the fully defaulted table. Substitution entries are scaled by the
// label registry's mismatch factor at match time.
type Costs struct {
	// InsertVertex is charged per host vertex absent from the pattern.
	InsertVertex float64

	// DeleteVertex is charged per pattern vertex mapped to nothing.
	DeleteVertex float64

	// SubstituteVertex scales the label mismatch factor for a mapped
	// vertex pair.
	SubstituteVertex float64

	// InsertEdge is charged per unmatched host edge between mapped
	// vertices.
	InsertEdge float64

	// InsertEdgeWithVertex is charged per host edge incident to an
	// inserted vertex.
	InsertEdgeWithVertex float64

	// DeleteEdge is charged per unmatched pattern edge between mapped
	// vertices.
	DeleteEdge float64

	// DeleteEdgeWithVertex is charged per pattern edge incident to a
	// deleted vertex.
	DeleteEdgeWithVertex float64

	// SubstituteEdge scales the label mismatch factor for a matched
	// edge pair.
	SubstituteEdge float64

	// SubstituteDirection is charged when a matched edge pair disagrees
	// on directedness.
	SubstituteDirection float64

	// ReverseDirection is charged when two directed matched edges point
	// opposite ways.
	ReverseDirection float64
}

// DefaultCosts returns the uniform table with every cost 1.0.
func DefaultCosts() Costs {
	return Costs{
		InsertVertex:         1,
		DeleteVertex:         1,
		SubstituteVertex:     1,
		InsertEdge:           1,
		InsertEdgeWithVertex: 1,
		DeleteEdge:           1,
		DeleteEdgeWithVertex: 1,
		SubstituteEdge:       1,
		SubstituteDirection:  1,
		ReverseDirection:     1,
	}
}

// normalized returns c with zero fields replaced by 1.0, so the zero
// value of Costs behaves like DefaultCosts.
func (c Costs) normalized() Costs {
	def := DefaultCosts()
	fix := func(v, d float64) float64 {
		if v == 0 {
			return d
		}
		return v
	}
	return Costs{
		InsertVertex:         fix(c.InsertVertex, def.InsertVertex),
		DeleteVertex:         fix(c.DeleteVertex, def.DeleteVertex),
		SubstituteVertex:     fix(c.SubstituteVertex, def.SubstituteVertex),
		InsertEdge:           fix(c.InsertEdge, def.InsertEdge),
		InsertEdgeWithVertex: fix(c.InsertEdgeWithVertex, def.InsertEdgeWithVertex),
		DeleteEdge:           fix(c.DeleteEdge, def.DeleteEdge),
		DeleteEdgeWithVertex: fix(c.DeleteEdgeWithVertex, def.DeleteEdgeWithVertex),
		SubstituteEdge:       fix(c.SubstituteEdge, def.SubstituteEdge),
		SubstituteDirection:  fix(c.SubstituteDirection, def.SubstituteDirection),
		ReverseDirection:     fix(c.ReverseDirection, def.ReverseDirection),
	}
}
