package pretty

import (
	"fmt"
	"io"
	"strings"

	"pfmi3dsc/pkg/api"
)

// Options control the ASCII rendering.
type Options struct {
	// Alignment columns per block. If <=0, use default (60).
	Width int

	// Glyphs of the marker track under each block.
	FunctionalGlyph string // both cutoffs passed
	PartialGlyph    string // exactly one cutoff passed
	DotGlyph        string // neither

	// Shown for a padded cell with no aligned residue.
	MissingGlyph string
}

// DefaultOptions is the look used by the "pretty" result format.
var DefaultOptions = Options{
	Width:           60,
	FunctionalGlyph: "★",
	PartialGlyph:    "¦",
	DotGlyph:        ".",
	MissingGlyph:    " ",
}

const linePrefix = "# "

func (o Options) withDefaults() Options {
	d := DefaultOptions
	if o.Width > 0 {
		d.Width = o.Width
	}
	if o.FunctionalGlyph != "" {
		d.FunctionalGlyph = o.FunctionalGlyph
	}
	if o.PartialGlyph != "" {
		d.PartialGlyph = o.PartialGlyph
	}
	if o.DotGlyph != "" {
		d.DotGlyph = o.DotGlyph
	}
	if o.MissingGlyph != "" {
		d.MissingGlyph = o.MissingGlyph
	}
	return d
}

// marker picks the track glyph of one position from its stored flag and
// the stored thresholds.
func marker(o Options, p api.PositionV1, t api.ThresholdsV1) string {
	if p.Functional {
		return o.FunctionalGlyph
	}
	lowP := p.Probability < t.Probability
	highS := float64(p.Score) > t.Score
	if lowP != highS {
		return o.PartialGlyph
	}
	return o.DotGlyph
}

// Render draws the alignment in blocks, one line per protein column and a
// marker track below each block, after a short "# " header.
func Render(w io.Writer, v api.ResultV1, opt Options) error {
	o := opt.withDefaults()
	var b strings.Builder

	fmt.Fprintf(&b, "%squery %s  family_size %d (%s)  aligned %d\n",
		linePrefix, v.QueryProtein, v.FamilySize, v.FamilySizePolicy, v.AlignedColumns)
	fmt.Fprintf(&b, "%sthresholds: probability < %.4g  score > %.2f\n",
		linePrefix, v.Thresholds.Probability, v.Thresholds.Score)
	if len(v.FunctionalResidues) > 0 {
		fs := make([]string, len(v.FunctionalResidues))
		for i, p := range v.FunctionalResidues {
			fs[i] = fmt.Sprint(p)
		}
		fmt.Fprintf(&b, "%sfunctional: %s\n", linePrefix, strings.Join(fs, " "))
	} else {
		fmt.Fprintf(&b, "%sfunctional: none\n", linePrefix)
	}

	nameW := 0
	for _, p := range v.Proteins {
		nameW = max(nameW, len(p))
	}
	indent := strings.Repeat(" ", nameW+1+6+1)

	for start := 0; start < len(v.Positions); start += o.Width {
		end := min(start+o.Width, len(v.Positions))
		block := v.Positions[start:end]
		b.WriteByte('\n')
		for c, name := range v.Proteins {
			fmt.Fprintf(&b, "%-*s %6d ", nameW, name, block[0].Pos)
			for _, p := range block {
				if c < len(p.Residues) && p.Residues[c] != "" {
					b.WriteString(p.Residues[c])
				} else {
					b.WriteString(o.MissingGlyph)
				}
			}
			fmt.Fprintf(&b, " %d\n", block[len(block)-1].Pos)
		}
		b.WriteString(indent)
		for _, p := range block {
			b.WriteString(marker(o, p, v.Thresholds))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
