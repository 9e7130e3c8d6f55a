// internal/family/table.go
package family

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pfmi3dsc/core/errs"
)

// Table column names.
const (
	ColFamily   = "families"
	ColAccIDs   = "uniprot_ACCID"
	ColGenes    = "gene name"
	ColBiomuta  = "biomuta"
	ColHotspots = "hotspot"
)

// Row is one family record of the table. List cells are kept raw and parsed
// on demand, since most rows are never looked at.
type Row struct {
	Line       int
	Family     string
	Accessions string
	Genes      string
	Biomuta    string
	Hotspot    string
}

// Members parses the accession list. A cell that is not a list literal is a
// single accession; a cell that opens a list but does not parse is an error.
func (r Row) Members() ([]string, error) { return listCell(r.Accessions) }

// GeneNames parses the gene name list, with the same rules as Members.
func (r Row) GeneNames() ([]string, error) { return listCell(r.Genes) }

func listCell(raw string) ([]string, error) {
	cell := strings.TrimSpace(raw)
	if !strings.HasPrefix(cell, "[") && !strings.HasPrefix(cell, "(") {
		return []string{cell}, nil
	}
	return ParseStringList(cell)
}

// Has reports whether acc is one of the row's members. A malformed accession
// cell is only reported when its raw text mentions acc, so one bad row does
// not break lookups of unrelated accessions.
func (r Row) Has(acc string) (bool, error) {
	ids, err := r.Members()
	if err != nil {
		if strings.Contains(r.Accessions, acc) {
			return false, err
		}
		return false, nil
	}
	for _, m := range ids {
		if m == acc {
			return true, nil
		}
	}
	return false, nil
}

// Table is the parsed family database.
type Table struct {
	Source string
	Rows   []Row
}

// ReadTable parses a CSV family table with a header row. Extra columns are
// ignored; a missing required column is a FormatError.
func ReadTable(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, &errs.FormatError{Source: source, Line: 1, Err: fmt.Errorf("header: %w", err)}
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, need := range []string{ColFamily, ColAccIDs, ColGenes, ColBiomuta, ColHotspots} {
		if _, ok := col[need]; !ok {
			return nil, &errs.FormatError{Source: source, Line: 1, Field: need, Err: errors.New("missing column")}
		}
	}
	t := &Table{Source: source}
	for ln := 2; ; ln++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &errs.FormatError{Source: source, Line: ln, Err: err}
		}
		get := func(name string) string {
			if i := col[name]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		t.Rows = append(t.Rows, Row{
			Line:       ln,
			Family:     get(ColFamily),
			Accessions: get(ColAccIDs),
			Genes:      get(ColGenes),
			Biomuta:    get(ColBiomuta),
			Hotspot:    get(ColHotspots),
		})
	}
	return t, nil
}

// LoadTable reads the family table at path.
func LoadTable(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ReadTable(fh, path)
}

// Find returns the first row listing acc as a member.
func (t *Table) Find(acc string) (Row, bool, error) {
	for _, r := range t.Rows {
		ok, err := r.Has(acc)
		if err != nil {
			return Row{}, false, &errs.FormatError{Source: t.Source, Line: r.Line, Field: ColAccIDs, Err: err}
		}
		if ok {
			return r, true, nil
		}
	}
	return Row{}, false, nil
}

// ParseStringList parses a list literal of strings such as
// "['P01112', 'P01116']". Quotes may be single or double; tuples and trailing
// commas are accepted.
func ParseStringList(s string) ([]string, error) {
	var out []string
	if err := parseLiteral(s, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseIntLists parses a nested list literal of positions such as
// "[[12, 13], [], (61,)]". A None element reads as an empty list.
func ParseIntLists(s string) ([][]int, error) {
	var out [][]int
	if err := parseLiteral(s, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i] == nil {
			out[i] = []int{}
		}
	}
	return out, nil
}

// parseLiteral decodes a literal list cell by rewriting it to JSON.
func parseLiteral(s string, v any) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "(") {
		return fmt.Errorf("not a list literal: %q", s)
	}
	doc, err := literalJSON(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(doc, v)
}

// literalJSON rewrites a literal built from lists, tuples, quoted strings,
// numbers, None, True and False into the equivalent JSON document.
func literalJSON(s string) ([]byte, error) {
	var b bytes.Buffer
	// comma is the output offset of a comma that may turn out to be trailing.
	comma := -1
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			str, n, err := quoted(s[i:])
			if err != nil {
				return nil, err
			}
			enc, _ := json.Marshal(str)
			b.Write(enc)
			comma = -1
			i += n
			continue
		case c == '[' || c == '(':
			b.WriteByte('[')
			comma = -1
		case c == ']' || c == ')':
			if comma >= 0 {
				b.Truncate(comma)
			}
			b.WriteByte(']')
			comma = -1
		case c == ',':
			comma = b.Len()
			b.WriteByte(',')
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(c)
		case isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			switch word := s[i:j]; word {
			case "None":
				b.WriteString("null")
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				if !isNumber(word) {
					return nil, fmt.Errorf("unexpected token %q at offset %d", word, i)
				}
				b.WriteString(word)
			}
			comma = -1
			i = j
			continue
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
		i++
	}
	return b.Bytes(), nil
}

// quoted reads a quoted string at the start of s and returns its value and
// the number of bytes consumed.
func quoted(s string) (string, int, error) {
	q := s[0]
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == q:
			return sb.String(), i + 1, nil
		case c == '\\' && i+1 < len(s):
			i++
			switch e := s[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated string starting %q", s)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '+' ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNumber(w string) bool {
	_, err := strconv.ParseFloat(w, 64)
	return err == nil
}
