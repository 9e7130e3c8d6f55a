package annotation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfmi3dsc/core/errs"
)

const profilesJSON = `{
  "uniprot_ids": ["P01112", "P01116", "P01111"],
  "gene_names": ["HRAS", "KRAS", "NRAS"],
  "biomuta_profile": {"P01112": [12, 13, 61], "P01116": [12]},
  "hotspot_profile": {"P01112": [12]}
}`

func TestDecodeProfilesAndIndex(t *testing.T) {
	p, err := DecodeProfiles(strings.NewReader(profilesJSON), "mut.json")
	require.NoError(t, err)

	idx := NewIndex(p, map[string]int{"P01112": 189, "P01116": 188})
	assert.Equal(t, "P01112", idx.Query())
	assert.Equal(t, []string{"P01112", "P01116", "P01111"}, idx.Members())
	assert.Equal(t, "KRAS", idx.Gene("P01116"))
	assert.Equal(t, "", idx.Gene("nope"))

	assert.Equal(t, 3, idx.Mutated("P01112").Len())
	assert.True(t, idx.Hotspot("P01112").Has(12))
	assert.False(t, idx.Hotspot("P01116").Has(12))

	n, err := idx.Length("P01116")
	require.NoError(t, err)
	assert.Equal(t, 188, n)
}

func TestUnknownProteinHasEmptySets(t *testing.T) {
	idx := NewIndex(Profiles{UniprotIDs: []string{"Q"}}, nil)
	assert.Equal(t, 0, idx.Mutated("X").Len())
	assert.Equal(t, 0, idx.Hotspot("X").Len())
	assert.False(t, idx.Mutated("X").Has(1))
}

func TestLengthErrors(t *testing.T) {
	idx := NewIndex(Profiles{UniprotIDs: []string{"Q"}}, map[string]int{"Z": 0})

	_, err := idx.Length("X")
	var lm *errs.LookupMiss
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, "X", lm.Protein)

	_, err = idx.Length("Z")
	var ce *errs.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Z", ce.Protein)
}

func TestDecodeProfilesRejects(t *testing.T) {
	cases := []struct {
		name  string
		input string
		field string
	}{
		{"not json", `{`, ""},
		{"missing ids", `{"biomuta_profile": {}}`, "uniprot_ids"},
		{"empty id", `{"uniprot_ids": ["A", ""]}`, "uniprot_ids[1]"},
		{"zero position", `{"uniprot_ids": ["A"], "hotspot_profile": {"A": [0]}}`, "hotspot_profile"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeProfiles(strings.NewReader(tc.input), "mut.json")
			var fe *errs.FormatError
			require.True(t, errors.As(err, &fe), "%v", err)
			assert.Equal(t, "mut.json", fe.Source)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mut.json")
	require.NoError(t, os.WriteFile(path, []byte(profilesJSON), 0o644))
	p, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Len(t, p.UniprotIDs, 3)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
