// Package pipeline chains the PFMI3DSC stages: family lookup, profile
// extraction, structure download, structural alignment, scoring, result
// output and the HTML report.
//
// Every stage reads and writes files in one work directory, so a failed run
// can be inspected or resumed stage by stage from the CLI. Score is the
// only stage that touches the scoring core.
package pipeline
