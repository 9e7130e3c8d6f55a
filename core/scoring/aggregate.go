// core/scoring/aggregate.go
package scoring

// Row is the per-position reduction of the score and probability matrices.
type Row struct {
	Pos         int
	Score       int     // sum over every column, query included
	Probability float64 // product over every column except the query
	Functional  bool
}

// Aggregate reduces the matrices to one Row per position. proteins is the
// column order of both matrices; the query's column (if any) is left out of
// the probability product only.
func Aggregate(s ScoreMatrix, p ProbabilityMatrix, proteins []string, query string, t Threshold) []Row {
	totals := s.Totals()
	rows := make([]Row, s.Len())
	for pos := 1; pos <= s.Len(); pos++ {
		prob := 1.0
		for c, id := range proteins {
			if id == query {
				continue
			}
			prob *= p.At(pos, c).Float()
		}
		score := totals[pos-1]
		rows[pos-1] = Row{
			Pos:         pos,
			Score:       score,
			Probability: prob,
			Functional:  Functional(t, score, prob),
		}
	}
	return rows
}

// FunctionalPositions lists the flagged positions in ascending order.
func FunctionalPositions(rows []Row) []int {
	var out []int
	for _, r := range rows {
		if r.Functional {
			out = append(out, r.Pos)
		}
	}
	return out
}
