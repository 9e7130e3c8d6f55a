// core/alignment/matrix.go
package alignment

import (
	"errors"
	"fmt"

	"pfmi3dsc/core/errs"
)

// ErrRaggedLength marks records whose aligned sequences differ in length.
var ErrRaggedLength = errors.New("aligned lengths differ")

// Gap is the aligner's gap marker. A gap is aligned data, not a missing cell.
const Gap = '-'

// IngestOptions controls matrix construction.
type IngestOptions struct {
	// Source labels errors (usually the alignment file name).
	Source string
	// AllowRagged accepts records whose aligned lengths differ. The matrix
	// then has the height of the longest record and shorter columns end in
	// missing cells. When false a length mismatch is a FormatError.
	AllowRagged bool
}

// Matrix is positions 1..Len() crossed with protein columns.
// Columns keep first-appearance order of the records.
type Matrix struct {
	proteins []string
	index    map[string]int
	lengths  map[string]int
	cols     [][]byte // cols[c][pos-1]
	n        int
}

// Ingest builds the alignment matrix from records. It returns no matrix on
// error.
func Ingest(records []Record, opt IngestOptions) (*Matrix, error) {
	src := opt.Source
	if src == "" {
		src = "alignment"
	}
	if len(records) == 0 {
		return nil, &errs.FormatError{Source: src, Err: errors.New("no alignment records")}
	}
	m := &Matrix{
		index:   make(map[string]int, len(records)),
		lengths: make(map[string]int, len(records)),
	}
	for i, r := range records {
		if r.Target == "" {
			return nil, &errs.FormatError{Source: src, Line: i + 1, Field: "target", Err: errors.New("empty")}
		}
		if _, dup := m.index[r.Target]; dup {
			return nil, &errs.FormatError{Source: src, Protein: r.Target, Field: "target",
				Err: errors.New("duplicate alignment record")}
		}
		if len(r.TargetAln) == 0 {
			return nil, &errs.FormatError{Source: src, Protein: r.Target, Field: "taln", Err: errors.New("empty")}
		}
		if i > 0 && len(r.TargetAln) != m.n && !opt.AllowRagged {
			return nil, &errs.FormatError{Source: src, Protein: r.Target, Field: "taln",
				Err: fmt.Errorf("%w: %d here, %d for %s", ErrRaggedLength, len(r.TargetAln), m.n, m.proteins[0])}
		}
		if len(r.TargetAln) > m.n {
			m.n = len(r.TargetAln)
		}
		m.index[r.Target] = len(m.proteins)
		m.proteins = append(m.proteins, r.Target)
		m.lengths[r.Target] = r.TargetLen
		m.cols = append(m.cols, []byte(r.TargetAln))
	}
	return m, nil
}

// Len is the number of alignment positions.
func (m *Matrix) Len() int { return m.n }

// Proteins returns the column ids in column order.
func (m *Matrix) Proteins() []string { return append([]string(nil), m.proteins...) }

// Index returns the column of id.
func (m *Matrix) Index(id string) (int, bool) {
	c, ok := m.index[id]
	return c, ok
}

// Cell returns the aligned character at 1-based pos in column col.
// ok is false for padded cells of a ragged matrix.
func (m *Matrix) Cell(pos, col int) (byte, bool) {
	c := m.cols[col]
	if pos < 1 || pos > len(c) {
		return 0, false
	}
	return c[pos-1], true
}

// Lengths returns target residue counts by protein id, as reported by the
// aligner (tlen).
func (m *Matrix) Lengths() map[string]int {
	out := make(map[string]int, len(m.lengths))
	for k, v := range m.lengths {
		out[k] = v
	}
	return out
}
