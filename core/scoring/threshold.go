// core/scoring/threshold.go
package scoring

import (
	"fmt"

	"pfmi3dsc/core/errs"
)

// ProbabilityAlpha is the family-wide significance level split across the
// P-1 non-query members.
const ProbabilityAlpha = 0.01

// Threshold holds the two cutoffs a position must pass to be functional.
type Threshold struct {
	Probability float64 // joint probability must be strictly below
	Score       float64 // total score must be strictly above
}

// Thresholds derives the cutoffs for a family of size p. Every producer and
// re-display of functional calls goes through this one function.
func Thresholds(p int) (Threshold, error) {
	if p <= 1 {
		return Threshold{}, &errs.ConfigurationError{
			Reason: fmt.Sprintf("family size %d: need at least 2 proteins", p),
		}
	}
	return Threshold{
		Probability: ProbabilityAlpha / float64(p-1),
		Score:       float64(p) / 2,
	}, nil
}

// Functional reports whether a position passes both cutoffs.
func Functional(t Threshold, score int, probability float64) bool {
	return probability < t.Probability && float64(score) > t.Score
}
