package writers

import (
	"io"

	"pfmi3dsc/internal/output"
	"pfmi3dsc/internal/pretty"
	"pfmi3dsc/pkg/api"
)

func init() {
	RegisterResult(output.FormatJSON, func(w io.Writer, v api.ResultV1, _ Options) error {
		return output.WriteJSON(w, v)
	})
	RegisterResult(output.FormatJSONL, func(w io.Writer, v api.ResultV1, _ Options) error {
		return output.WriteJSONL(w, v)
	})
	RegisterResult(output.FormatPretty, func(w io.Writer, v api.ResultV1, _ Options) error {
		return pretty.Render(w, v, pretty.DefaultOptions)
	})
	RegisterResult(output.FormatTSV, func(w io.Writer, v api.ResultV1, opt Options) error {
		return output.WriteTSV(w, v, opt.Header)
	})
}
