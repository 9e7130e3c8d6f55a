package pretty

import (
	"bytes"
	"strings"
	"testing"

	"pfmi3dsc/pkg/api"
)

func TestDefaultOptions_Stable(t *testing.T) {
	d := DefaultOptions
	if d.DotGlyph == "" || d.FunctionalGlyph == "" || d.PartialGlyph == "" {
		t.Fatalf("glyphs must be non-empty")
	}
	if d.DotGlyph != "." || d.FunctionalGlyph != "★" || d.PartialGlyph != "¦" || d.Width != 60 {
		t.Fatalf("DefaultOptions visual defaults changed")
	}
}

func sample() api.ResultV1 {
	return api.ResultV1{
		QueryProtein:     "Q",
		Proteins:         []string{"A", "BB"},
		FamilySize:       3,
		FamilySizePolicy: "members",
		AlignedColumns:   2,
		Thresholds:       api.ThresholdsV1{Probability: 0.005, Score: 1.5},
		Positions: []api.PositionV1{
			{Pos: 1, Residues: []string{"M", "M"}, Score: 0, Probability: 0.63},
			{Pos: 2, Residues: []string{"K", "K"}, Score: 4, Probability: 0.02},
			{Pos: 3, Residues: []string{"V", ""}, Score: 2, Probability: 0.001, Functional: true},
		},
		FunctionalResidues: []int{3},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sample(), Options{}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"# query Q  family_size 3 (members)  aligned 2",
		"# thresholds: probability < 0.005  score > 1.50",
		"# functional: 3",
		"",
		"A       1 MKV 3",
		"BB      1 MK  3",
		"          .¦★",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("render mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderBlocks(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sample(), Options{Width: 2}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "A       1 MK 2\n") || !strings.Contains(out, "A       3 V 3\n") {
		t.Fatalf("expected two blocks, got:\n%s", out)
	}
}
