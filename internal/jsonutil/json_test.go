package jsonutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name string `json:"name"`
	Pos  []int  `json:"pos"`
}

func TestEncodePretty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, EncodePretty(&b, doc{Name: "HRAS", Pos: []int{12}}))
	assert.Equal(t, "{\n  \"name\": \"HRAS\",\n  \"pos\": [\n    12\n  ]\n}\n", b.String())
}

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, WriteFile(path, doc{Name: "KRAS", Pos: []int{12, 13}}))

	var got doc
	require.NoError(t, ReadFile(path, &got))
	assert.Equal(t, doc{Name: "KRAS", Pos: []int{12, 13}}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestReadFileNamesPathOnBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	err := ReadFile(path, &doc{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
