// internal/report/report.go
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"pfmi3dsc/core/errs"
	"pfmi3dsc/core/scoring"
	"pfmi3dsc/internal/jsonutil"
	"pfmi3dsc/internal/output"
	"pfmi3dsc/pkg/api"
)

//go:embed report.html.tmpl
var pageSrc string

var page = template.Must(template.New("report").Parse(pageSrc))

type row struct {
	Pos         int
	Residues    []string
	Score       int
	Probability string
	Mark        string
}

type view struct {
	Query                string
	ProbabilityThreshold string
	ScoreThreshold       string
	Columns              []string
	Rows                 []row
	Functional           []int
}

// Render writes the functional residue table of v as HTML. Thresholds are
// re-derived from the family size; a stored functional flag that disagrees
// with them is an error rather than a silently different report.
func Render(w io.Writer, v api.ResultV1) error {
	t, err := scoring.Thresholds(v.FamilySize)
	if err != nil {
		return err
	}
	if v.Thresholds.Probability != t.Probability || v.Thresholds.Score != t.Score {
		return &errs.ConfigurationError{Reason: fmt.Sprintf(
			"stored thresholds %g/%g differ from family size %d (%g/%g)",
			v.Thresholds.Probability, v.Thresholds.Score, v.FamilySize, t.Probability, t.Score)}
	}

	order := columnOrder(v.Proteins, v.QueryProtein)
	vw := view{
		Query:                v.QueryProtein,
		ProbabilityThreshold: fmt.Sprintf("%.4g", t.Probability),
		ScoreThreshold:       fmt.Sprintf("%.2f", t.Score),
		Functional:           v.FunctionalResidues,
	}
	for _, c := range order {
		vw.Columns = append(vw.Columns, v.Proteins[c])
	}
	for _, p := range v.Positions {
		if scoring.Functional(t, p.Score, p.Probability) != p.Functional {
			return &errs.FormatError{Source: "result", Field: "positions", Err: fmt.Errorf(
				"position %d: functional flag %v does not match thresholds", p.Pos, p.Functional)}
		}
		r := row{Pos: p.Pos, Score: p.Score, Probability: output.FormatFloat(p.Probability)}
		for _, c := range order {
			if c < len(p.Residues) {
				r.Residues = append(r.Residues, p.Residues[c])
			} else {
				r.Residues = append(r.Residues, "")
			}
		}
		if p.Functional {
			r.Mark = output.FunctionalMark
		}
		vw.Rows = append(vw.Rows, r)
	}
	return page.Execute(w, vw)
}

// columnOrder puts the query column, when aligned, first.
func columnOrder(proteins []string, query string) []int {
	order := make([]int, 0, len(proteins))
	for i, p := range proteins {
		if p == query {
			order = append(order, i)
		}
	}
	for i, p := range proteins {
		if p != query {
			order = append(order, i)
		}
	}
	return order
}

// ReadResult loads a v1 result document.
func ReadResult(path string) (api.ResultV1, error) {
	var v api.ResultV1
	if err := jsonutil.ReadFile(path, &v); err != nil {
		return api.ResultV1{}, &errs.FormatError{Source: path, Err: err}
	}
	if v.SchemaVersion != api.SchemaV1 {
		return api.ResultV1{}, &errs.FormatError{Source: path, Field: "schema_version",
			Err: fmt.Errorf("unsupported %q", v.SchemaVersion)}
	}
	return v, nil
}
