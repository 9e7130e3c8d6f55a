package output

import "strings"

// TSVTail is the fixed trailing header of text/TSV outputs; protein columns
// come between "pos" and these.
const TSVTail = "scores\tprobability\tfunctional"

// FunctionalMark marks a functional position in text outputs.
const FunctionalMark = "★"

// Output formats.
const (
	FormatJSON   = "json"
	FormatJSONL  = "jsonl"
	FormatTSV    = "tsv"
	FormatPretty = "pretty"
)

// TSVHeader returns the header row for the given protein columns.
func TSVHeader(proteins []string) string {
	return "pos\t" + strings.Join(append(append([]string(nil), proteins...), TSVTail), "\t")
}
