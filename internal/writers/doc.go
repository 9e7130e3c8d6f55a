// Package writers turns scoring results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (JSON, JSONL, TSV, pretty).
//   - core/scoring stays domain-only; the pipeline stays orchestration-only.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
