// core/scoring/scoring.go
package scoring

import (
	"fmt"

	"pfmi3dsc/core/alignment"
	"pfmi3dsc/core/errs"
)

// FamilySizePolicy selects how P, the family size in the threshold
// formulas, is counted.
type FamilySizePolicy string

const (
	// FamilyFromMembers counts the annotation id list, aligned or not.
	FamilyFromMembers FamilySizePolicy = "members"
	// FamilyFromAligned counts the query plus the members that have an
	// alignment column.
	FamilyFromAligned FamilySizePolicy = "aligned"
)

// ParseFamilySizePolicy accepts "members" (or "") and "aligned".
func ParseFamilySizePolicy(s string) (FamilySizePolicy, error) {
	switch FamilySizePolicy(s) {
	case "", FamilyFromMembers:
		return FamilyFromMembers, nil
	case FamilyFromAligned:
		return FamilyFromAligned, nil
	}
	return "", &errs.ConfigurationError{Reason: fmt.Sprintf("unknown family size policy %q", s)}
}

// Options configures one scoring run.
type Options struct {
	Query   string   // query protein id; its column is excluded from the probability product
	Members []string // family id list, query first
	Policy  FamilySizePolicy
}

// Result is the complete output of one run.
type Result struct {
	Query      string
	Members    []string
	Proteins   []string // alignment column order
	FamilySize int
	Policy     FamilySizePolicy
	// Unaligned lists members other than the query without a column.
	// Under FamilyFromMembers they still count towards FamilySize.
	Unaligned []string

	Threshold     Threshold
	Rates         []Rates
	Alignment     *alignment.Matrix
	Scores        ScoreMatrix
	Probabilities ProbabilityMatrix
	Rows          []Row
	Functional    []int
}

// Score runs the score matrix, probability model and aggregation over m.
// Either a complete Result or an error is returned.
func Score(m *alignment.Matrix, ann Annotations, opt Options) (*Result, error) {
	if m == nil || m.Len() == 0 {
		return nil, &errs.FormatError{Source: "alignment", Err: fmt.Errorf("empty alignment matrix")}
	}
	policy, err := ParseFamilySizePolicy(string(opt.Policy))
	if err != nil {
		return nil, err
	}
	proteins := m.Proteins()

	var unaligned []string
	aligned := 1 // the query always belongs to the family
	for _, id := range opt.Members {
		if id == opt.Query {
			continue
		}
		if _, ok := m.Index(id); ok {
			aligned++
		} else {
			unaligned = append(unaligned, id)
		}
	}
	p := len(opt.Members)
	if policy == FamilyFromAligned {
		p = aligned
	}
	t, err := Thresholds(p)
	if err != nil {
		return nil, err
	}

	rates, err := ComputeRates(proteins, ann)
	if err != nil {
		return nil, err
	}
	scores := BuildScores(m, ann)
	probs := BuildProbabilities(m, scores, rates)
	rows := Aggregate(scores, probs, proteins, opt.Query, t)

	return &Result{
		Query:         opt.Query,
		Members:       append([]string(nil), opt.Members...),
		Proteins:      proteins,
		FamilySize:    p,
		Policy:        policy,
		Unaligned:     unaligned,
		Threshold:     t,
		Rates:         rates,
		Alignment:     m,
		Scores:        scores,
		Probabilities: probs,
		Rows:          rows,
		Functional:    FunctionalPositions(rows),
	}, nil
}
