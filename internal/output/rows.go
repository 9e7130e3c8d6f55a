// internal/output/rows.go
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"pfmi3dsc/pkg/api"
)

// FormatFloat renders a probability in the shortest exact form.
func FormatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// FormatRowTSV returns one position row (no trailing newline).
func FormatRowTSV(p api.PositionV1) string {
	mark := ""
	if p.Functional {
		mark = FunctionalMark
	}
	return fmt.Sprintf("%d\t%s\t%d\t%s\t%s",
		p.Pos, strings.Join(p.Residues, "\t"), p.Score, FormatFloat(p.Probability), mark)
}

// WriteTSV writes the augmented alignment matrix, one row per position.
func WriteTSV(w io.Writer, v api.ResultV1, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader(v.Proteins)); err != nil {
			return err
		}
	}
	for _, p := range v.Positions {
		if _, err := fmt.Fprintln(w, FormatRowTSV(p)); err != nil {
			return err
		}
	}
	return nil
}
