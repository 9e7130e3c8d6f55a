// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"pfmi3dsc/pkg/api"
)

// Options are presentation switches shared by all result writers.
type Options struct {
	Header bool // TSV header row
}

// ResultWriterFunc serializes one result.
type ResultWriterFunc func(w io.Writer, v api.ResultV1, opt Options) error

// ResultWriters maps format → handler. Register in init() blocks.
var ResultWriters = map[string]ResultWriterFunc{}

// RegisterResult adds a handler (idempotent, last wins).
func RegisterResult(format string, fn ResultWriterFunc) { ResultWriters[format] = fn }

// Formats lists registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(ResultWriters))
	for f := range ResultWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteResult dispatches to the handler for format.
func WriteResult(format string, w io.Writer, v api.ResultV1, opt Options) error {
	fn, ok := ResultWriters[format]
	if !ok {
		return fmt.Errorf("unknown result format %q (no writer registered)", format)
	}
	return fn(w, v, opt)
}
