// core/scoring/probability.go
package scoring

import (
	"pfmi3dsc/core/alignment"
)

// Rates are one protein's background probabilities of a residue being
// mutated (non-hotspot), a hotspot, or neither.
type Rates struct {
	Protein  string
	Length   int
	Mutation float64
	Hotspot  float64
	Other    float64
	// Clamped is set when Mutation+Hotspot exceeded 1 and Other was pinned
	// to 0 instead of going negative.
	Clamped bool
}

// ComputeRates derives Rates for each protein in order. A missing length is
// a *errs.LookupMiss and a non-positive one a *errs.ConfigurationError.
func ComputeRates(proteins []string, ann Annotations) ([]Rates, error) {
	out := make([]Rates, 0, len(proteins))
	for _, id := range proteins {
		n, err := ann.Length(id)
		if err != nil {
			return nil, err
		}
		hot := ann.Hotspot(id)
		m := 0
		for pos := range ann.Mutated(id) {
			if !hot.Has(pos) {
				m++
			}
		}
		r := Rates{
			Protein:  id,
			Length:   n,
			Mutation: float64(m) / float64(n),
			Hotspot:  float64(hot.Len()) / float64(n),
		}
		r.Other = 1 - r.Mutation - r.Hotspot
		if r.Other < 0 {
			r.Other = 0
			r.Clamped = true
		}
		out = append(out, r)
	}
	return out, nil
}

// For returns the probability of a cell of class s.
func (r Rates) For(s Class) float64 {
	switch s {
	case ClassMutated:
		return r.Mutation
	case ClassHotspot:
		return r.Hotspot
	}
	return r.Other
}

// Probability is one cell of the probability matrix. A Missing cell had no
// aligned data and is non-informative: it reads as 1.0 in products.
type Probability struct {
	Value   float64
	Missing bool
}

// Float returns the cell value with Missing mapped to 1.0.
func (p Probability) Float() float64 {
	if p.Missing {
		return 1
	}
	return p.Value
}

// ProbabilityMatrix mirrors ScoreMatrix's shape.
type ProbabilityMatrix struct {
	n     int
	cells [][]Probability
}

// BuildProbabilities maps each cell's score class to its protein's rate.
// rates must be in alignment column order (as ComputeRates returns them for
// m.Proteins()).
func BuildProbabilities(m *alignment.Matrix, s ScoreMatrix, rates []Rates) ProbabilityMatrix {
	pm := ProbabilityMatrix{n: s.Len(), cells: make([][]Probability, s.Columns())}
	for c := range pm.cells {
		col := make([]Probability, pm.n)
		for pos := 1; pos <= pm.n; pos++ {
			if _, ok := m.Cell(pos, c); !ok {
				col[pos-1] = Probability{Missing: true}
				continue
			}
			col[pos-1] = Probability{Value: rates[c].For(s.At(pos, c))}
		}
		pm.cells[c] = col
	}
	return pm
}

// Len is the number of positions.
func (p ProbabilityMatrix) Len() int { return p.n }

// At returns the cell at 1-based pos for column col.
func (p ProbabilityMatrix) At(pos, col int) Probability { return p.cells[col][pos-1] }
