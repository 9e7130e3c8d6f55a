// internal/output/json.go
package output

import (
	"io"

	"pfmi3dsc/core/scoring"
	"pfmi3dsc/internal/jsonlutil"
	"pfmi3dsc/internal/jsonutil"
	"pfmi3dsc/pkg/api"
)

// Meta carries run-level fields that are not part of the scoring result.
type Meta struct {
	RunID     string
	GeneNames []string
}

// ToAPIResult converts a scoring result to the stable wire schema (v1).
func ToAPIResult(res *scoring.Result, meta Meta) api.ResultV1 {
	v := api.ResultV1{
		SchemaVersion:    api.SchemaV1,
		RunID:            meta.RunID,
		QueryProtein:     res.Query,
		Members:          append([]string{}, res.Members...),
		GeneNames:        append([]string(nil), meta.GeneNames...),
		Proteins:         append([]string{}, res.Proteins...),
		FamilySize:       res.FamilySize,
		FamilySizePolicy: string(res.Policy),
		AlignedColumns:   len(res.Proteins),
		Unaligned:        append([]string(nil), res.Unaligned...),
		Thresholds: api.ThresholdsV1{
			Probability: res.Threshold.Probability,
			Score:       res.Threshold.Score,
		},
		FunctionalResidues: append([]int{}, res.Functional...),
	}

	v.Rates = make([]api.RatesV1, 0, len(res.Rates))
	for _, r := range res.Rates {
		v.Rates = append(v.Rates, api.RatesV1{
			Protein: r.Protein, Length: r.Length,
			Mutation: r.Mutation, Hotspot: r.Hotspot, Other: r.Other,
			Clamped: r.Clamped,
		})
	}

	cols := len(res.Proteins)
	v.Positions = make([]api.PositionV1, 0, len(res.Rows))
	v.ScoreMatrix = make([][]int, 0, len(res.Rows))
	v.ProbabilityMatrix = make([][]*float64, 0, len(res.Rows))
	for _, row := range res.Rows {
		residues := make([]string, cols)
		scores := make([]int, cols)
		probs := make([]*float64, cols)
		for c := 0; c < cols; c++ {
			if ch, ok := res.Alignment.Cell(row.Pos, c); ok {
				residues[c] = string(ch)
			}
			scores[c] = int(res.Scores.At(row.Pos, c))
			if p := res.Probabilities.At(row.Pos, c); !p.Missing {
				val := p.Value
				probs[c] = &val
			}
		}
		v.Positions = append(v.Positions, api.PositionV1{
			Pos:         row.Pos,
			Residues:    residues,
			Score:       row.Score,
			Probability: row.Probability,
			Functional:  row.Functional,
		})
		v.ScoreMatrix = append(v.ScoreMatrix, scores)
		v.ProbabilityMatrix = append(v.ProbabilityMatrix, probs)
	}
	return v
}

// WriteJSONL writes the positions of v, one compact object per line.
func WriteJSONL(w io.Writer, v api.ResultV1) error {
	return jsonlutil.Write(w, v.Positions)
}

// WriteJSON writes one v1 result (pretty-indented).
func WriteJSON(w io.Writer, v api.ResultV1) error {
	return jsonutil.EncodePretty(w, v)
}
