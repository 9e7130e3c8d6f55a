package writers

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfmi3dsc/pkg/api"
)

func sample() api.ResultV1 {
	return api.ResultV1{
		SchemaVersion: api.SchemaV1,
		QueryProtein:  "Q",
		Proteins:      []string{"A", "B"},
		Positions: []api.PositionV1{
			{Pos: 1, Residues: []string{"M", "M"}, Score: 0, Probability: 0.63},
			{Pos: 2, Residues: []string{"K", "K"}, Score: 4, Probability: 0.02},
		},
		FunctionalResidues: []int{},
	}
}

func TestUnknownResultFormatError(t *testing.T) {
	var b bytes.Buffer
	err := WriteResult("nope-format", &b, sample(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown result format")
	assert.Zero(t, b.Len())
}

func TestRegisteredFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "jsonl", "pretty", "tsv"}, Formats())
}

func TestWriteResultDispatch(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteResult("tsv", &b, sample(), Options{Header: true}))
	assert.True(t, strings.HasPrefix(b.String(), "pos\tA\tB\tscores"), b.String())

	b.Reset()
	require.NoError(t, WriteResult("json", &b, sample(), Options{}))
	assert.Contains(t, b.String(), `"query_protein": "Q"`)

	b.Reset()
	require.NoError(t, WriteResult("jsonl", &b, sample(), Options{}))
	assert.Equal(t, 2, strings.Count(b.String(), "\n"))
	assert.True(t, strings.HasPrefix(b.String(), `{"pos":1,"residues":["M","M"],"scores":0,`), b.String())

	b.Reset()
	require.NoError(t, WriteResult("pretty", &b, sample(), Options{}))
	assert.Contains(t, b.String(), "# query Q")
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(fmt.Errorf("write: %w", syscall.EPIPE)))
	assert.True(t, IsBrokenPipe(io.ErrClosedPipe))
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(io.EOF))
}
