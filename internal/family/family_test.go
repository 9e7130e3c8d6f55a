package family

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

const tableCSV = `,families,uniprot_ACCID,gene name,biomuta,hotspot
0,RAS,"['P01112', 'P01116', 'P01111']","['HRAS', 'KRAS', 'NRAS']","[[12, 13, 61], [12], []]","[[12], [], [61]]"
1,ABL,P00519,ABL1,[[315]],[[]]
`

func loadFixture(t *testing.T) *Table {
	t.Helper()
	tab, err := ReadTable(strings.NewReader(tableCSV), "final_database.csv")
	require.NoError(t, err)
	return tab
}

func TestParseLiterals(t *testing.T) {
	ids, err := ParseStringList(`['A', "B"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids)

	ps, err := ParseIntLists("[[1, 2], [], [3]]")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {}, {3}}, ps)

	_, err = ParseStringList("P00519")
	assert.Error(t, err)
	_, err = ParseIntLists("[[1.5]]")
	assert.Error(t, err)
}

func TestParseLiterals_PythonForms(t *testing.T) {
	cases := []struct {
		in   string
		want [][]int
	}{
		{"[[12, 13,], [61]]", [][]int{{12, 13}, {61}}},
		{"[(12, 13), (61,)]", [][]int{{12, 13}, {61}}},
		{"[[12], None, []]", [][]int{{12}, {}, {}}},
		{"[\n  [1],\n  [2],\n]", [][]int{{1}, {2}}},
	}
	for _, c := range cases {
		got, err := ParseIntLists(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	ids, err := ParseStringList(`['P01112', 'P01116',]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"P01112", "P01116"}, ids)

	ids, err = ParseStringList(`('it\'s', "a\"b")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"it's", `a"b`}, ids)

	for _, bad := range []string{"['P01112', 'P01116'", "[[1] [2]]", "[[foo]]"} {
		_, err := ParseIntLists(bad)
		assert.Error(t, err, bad)
	}
}

func TestLookup_TrailingCommaMembers(t *testing.T) {
	db := tableCSV + `2,SRC,"['P12931', 'P07947',]","['SRC', 'YES1',]","[[], [],]","[[], [],]"` + "\n"
	tab, err := ReadTable(strings.NewReader(db), "db.csv")
	require.NoError(t, err)

	f, err := tab.Lookup("P07947")
	require.NoError(t, err)
	assert.Equal(t, []string{"P12931", "P07947"}, f.Members)
	assert.Equal(t, []string{"SRC", "YES1"}, f.GeneNames)
}

func TestLookup_MalformedMembersIsFormatError(t *testing.T) {
	db := tableCSV + `2,SRC,"['P12931', 'P07947'",SRC,[[]],[[]]` + "\n"
	tab, err := ReadTable(strings.NewReader(db), "db.csv")
	require.NoError(t, err)

	_, err = tab.Lookup("P07947")
	var fe *errs.FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, ColAccIDs, fe.Field)
	assert.Equal(t, 4, fe.Line)

	// Rows that do not mention the accession stay searchable.
	f, err := tab.Lookup("P00519")
	require.NoError(t, err)
	assert.Equal(t, "ABL", f.Name)
}

func TestLookup(t *testing.T) {
	tab := loadFixture(t)

	f, err := tab.Lookup("P01116")
	require.NoError(t, err)
	assert.Equal(t, "RAS", f.Name)
	assert.Equal(t, "P01116", f.InputAccession)
	assert.Equal(t, []string{"P01112", "P01116", "P01111"}, f.Members)
	assert.Equal(t, []string{"HRAS", "KRAS", "NRAS"}, f.GeneNames)

	f, err = tab.Lookup("P00519")
	require.NoError(t, err)
	assert.Equal(t, []string{"P00519"}, f.Members)

	// Exact membership: a prefix of an accession is not a hit.
	_, err = tab.Lookup("P0111")
	var lm *errs.LookupMiss
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, "P0111", lm.Protein)
}

func TestExtractProfiles(t *testing.T) {
	tab := loadFixture(t)
	f, err := tab.Lookup("P01112")
	require.NoError(t, err)

	p, err := tab.ExtractProfiles(f)
	require.NoError(t, err)
	assert.Equal(t, f.Members, p.UniprotIDs)
	assert.Equal(t, []int{12, 13, 61}, p.Biomuta["P01112"])
	assert.Equal(t, []int{}, p.Biomuta["P01111"])
	assert.Equal(t, []int{61}, p.Hotspot["P01111"])
}

func TestExtractProfilesRejectsBadCell(t *testing.T) {
	bad := strings.Replace(tableCSV, "[[315]]", "[[x]]", 1)
	tab, err := ReadTable(strings.NewReader(bad), "db.csv")
	require.NoError(t, err)
	f, err := tab.Lookup("P00519")
	require.NoError(t, err)

	_, err = tab.ExtractProfiles(f)
	var fe *errs.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ColBiomuta, fe.Field)
	assert.Equal(t, 3, fe.Line)
}

func TestReadTableMissingColumn(t *testing.T) {
	_, err := ReadTable(strings.NewReader("families,uniprot_ACCID\nX,Y\n"), "db.csv")
	var fe *errs.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ColGenes, fe.Field)
}

func TestFamilyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.json")
	in := Family{InputAccession: "P01112", Name: "RAS", Members: []string{"P01112", "P01116"}}
	require.NoError(t, Write(path, in))

	out, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, os.WriteFile(path, []byte(`{"input_accid":"X","family_members":[]}`), 0o644))
	_, err = Read(path)
	var fe *errs.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "family_members", fe.Field)
}
