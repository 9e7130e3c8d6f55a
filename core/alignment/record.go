// core/alignment/record.go
package alignment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pfmi3dsc/core/errs"
)

// FormatOutput is the aligner --format-output column list, in record order.
const FormatOutput = "query,target,qaln,taln,gapopen,qstart,qend,tstart,tend,qlen,tlen,tcov,qseq,tseq"

// Columns is FormatOutput split into field names.
var Columns = strings.Split(FormatOutput, ",")

// Record is one aligned pair: the query against one family member.
type Record struct {
	Query       string
	Target      string // normalized, see NormalizeID
	QueryAln    string
	TargetAln   string
	GapOpen     int
	QueryStart  int
	QueryEnd    int
	TargetStart int
	TargetEnd   int
	QueryLen    int
	TargetLen   int
	TargetCov   float64
	QuerySeq    string
	TargetSeq   string
}

// NormalizeID drops everything from the first '.' on, so file names and
// versioned accessions ("P01112.pdb", "P01112.2") map to the bare accession.
func NormalizeID(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// ParseTSV reads tab-separated aligner records. Blank lines and '#' comments
// are skipped, as is a single leading header row starting with "query".
// Any malformed line aborts the parse with an *errs.FormatError.
func ParseTSV(r io.Reader, source string) ([]Record, error) {
	var list []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		f := strings.Split(line, "\t")
		if len(list) == 0 && f[0] == Columns[0] && len(f) > 1 && f[1] == Columns[1] {
			continue
		}
		if len(f) != len(Columns) {
			return nil, &errs.FormatError{Source: source, Line: ln,
				Err: fmt.Errorf("bad field count %d (want %d)", len(f), len(Columns))}
		}
		rec, err := parseFields(f)
		if err != nil {
			var fe *errs.FormatError
			if errors.As(err, &fe) {
				fe.Source, fe.Line = source, ln
			}
			return nil, err
		}
		list = append(list, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return list, nil
}

func parseFields(f []string) (Record, error) {
	rec := Record{
		Query:     strings.TrimSpace(f[0]),
		Target:    NormalizeID(strings.TrimSpace(f[1])),
		QueryAln:  f[2],
		TargetAln: f[3],
		QuerySeq:  f[12],
		TargetSeq: f[13],
	}
	if rec.Query == "" {
		return rec, &errs.FormatError{Field: "query", Err: errors.New("empty")}
	}
	if rec.Target == "" {
		return rec, &errs.FormatError{Field: "target", Err: errors.New("empty")}
	}
	ints := []struct {
		col int
		dst *int
	}{
		{4, &rec.GapOpen}, {5, &rec.QueryStart}, {6, &rec.QueryEnd},
		{7, &rec.TargetStart}, {8, &rec.TargetEnd}, {9, &rec.QueryLen}, {10, &rec.TargetLen},
	}
	for _, it := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(f[it.col]))
		if err != nil {
			return rec, &errs.FormatError{Field: Columns[it.col], Protein: rec.Target, Err: err}
		}
		*it.dst = v
	}
	cov, err := strconv.ParseFloat(strings.TrimSpace(f[11]), 64)
	if err != nil {
		return rec, &errs.FormatError{Field: Columns[11], Protein: rec.Target, Err: err}
	}
	rec.TargetCov = cov
	return rec, nil
}

// LoadTSV parses each path in order and concatenates the records.
// "-" reads stdin; gzip input is accepted.
func LoadTSV(paths ...string) ([]Record, error) {
	var all []Record
	for _, p := range paths {
		rc, err := openReader(p)
		if err != nil {
			return nil, err
		}
		recs, err := ParseTSV(rc, p)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return all, nil
}
