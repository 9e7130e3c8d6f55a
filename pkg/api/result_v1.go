// pkg/api/result_v1.go
package api

// SchemaV1 is the schema_version value written by this package.
const SchemaV1 = "v1"

// ResultV1 is the stable JSON schema for one scoring run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ResultV1 struct {
	SchemaVersion    string   `json:"schema_version"`
	RunID            string   `json:"run_id,omitempty"`
	QueryProtein     string   `json:"query_protein"`
	Members          []string `json:"members"`
	GeneNames        []string `json:"gene_names,omitempty"`
	Proteins         []string `json:"proteins"` // column order of every matrix below
	FamilySize       int      `json:"family_size"`
	FamilySizePolicy string   `json:"family_size_policy"` // "members" | "aligned"
	AlignedColumns   int      `json:"aligned_columns"`
	Unaligned        []string `json:"unaligned,omitempty"`

	Thresholds ThresholdsV1 `json:"thresholds"`
	Rates      []RatesV1    `json:"rates"`

	Positions          []PositionV1 `json:"positions"`
	FunctionalResidues []int        `json:"functional_residues"`

	// Raw matrices, indexed [pos-1][column].
	ScoreMatrix       [][]int      `json:"score_matrix"`
	ProbabilityMatrix [][]*float64 `json:"probability_matrix"` // null = no aligned data (reads as 1.0)
}

// ThresholdsV1 are the cutoffs used for functional calls.
type ThresholdsV1 struct {
	Probability float64 `json:"probability"`
	Score       float64 `json:"score"`
}

// RatesV1 are one protein's background rates.
type RatesV1 struct {
	Protein  string  `json:"protein"`
	Length   int     `json:"length"`
	Mutation float64 `json:"mutation"`
	Hotspot  float64 `json:"hotspot"`
	Other    float64 `json:"other"`
	Clamped  bool    `json:"clamped,omitempty"`
}

// PositionV1 is one alignment position with its aligned residues and the
// aggregate columns.
type PositionV1 struct {
	Pos         int      `json:"pos"`
	Residues    []string `json:"residues"` // per protein column; "" for a padded cell
	Score       int      `json:"scores"`
	Probability float64  `json:"probability"`
	Functional  bool     `json:"functional"`
}
