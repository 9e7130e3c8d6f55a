// core/scoring/score.go
package scoring

import (
	"pfmi3dsc/core/alignment"
	"pfmi3dsc/core/annotation"
)

// Annotations is the per-protein lookup the scorer needs.
// *annotation.Index satisfies it.
type Annotations interface {
	Mutated(id string) annotation.PositionSet
	Hotspot(id string) annotation.PositionSet
	Length(id string) (int, error)
}

// Class is a cell significance class.
type Class uint8

const (
	ClassOther   Class = 0
	ClassMutated Class = 1
	ClassHotspot Class = 2
)

// ClassOf returns the class of pos for one protein; hotspot wins over mutated.
func ClassOf(pos int, mutated, hotspot annotation.PositionSet) Class {
	switch {
	case hotspot.Has(pos):
		return ClassHotspot
	case mutated.Has(pos):
		return ClassMutated
	}
	return ClassOther
}

// ScoreMatrix is a fixed-shape positions × proteins grid of Class values,
// column order matching the alignment matrix.
type ScoreMatrix struct {
	n     int
	cells [][]Class // cells[col][pos-1]
}

// BuildScores classifies every cell. Padded (missing) cells score 0.
func BuildScores(m *alignment.Matrix, ann Annotations) ScoreMatrix {
	proteins := m.Proteins()
	sm := ScoreMatrix{n: m.Len(), cells: make([][]Class, len(proteins))}
	for c, id := range proteins {
		mut, hot := ann.Mutated(id), ann.Hotspot(id)
		col := make([]Class, sm.n)
		for pos := 1; pos <= sm.n; pos++ {
			if _, ok := m.Cell(pos, c); !ok {
				continue
			}
			col[pos-1] = ClassOf(pos, mut, hot)
		}
		sm.cells[c] = col
	}
	return sm
}

// Len is the number of positions.
func (s ScoreMatrix) Len() int { return s.n }

// Columns is the number of protein columns.
func (s ScoreMatrix) Columns() int { return len(s.cells) }

// At returns the score at 1-based pos for column col.
func (s ScoreMatrix) At(pos, col int) Class { return s.cells[col][pos-1] }

// Totals sums each position across all columns.
func (s ScoreMatrix) Totals() []int {
	out := make([]int, s.n)
	for _, col := range s.cells {
		for i, v := range col {
			out[i] += int(v)
		}
	}
	return out
}
