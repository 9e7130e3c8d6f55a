// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"pfmi3dsc/internal/app"
)

const tableCSV = `,families,uniprot_ACCID,gene name,biomuta,hotspot
0,RAS,"['Q', 'A', 'B', 'C']","['GQ', 'GA', 'GB', 'GC']","[[], [3], [], []]","[[], [2], [2], [2]]"
`

// fakeFoldseek aligns every target as MKVL over 10 residues; with
// FAKE_SLEEP set it stalls first, long enough to be cancelled.
const fakeFoldseek = `#!/bin/sh
if [ -n "$FAKE_SLEEP" ]; then sleep "$FAKE_SLEEP"; fi
printf '%s\t%s\tMKVL\tMKVL\t0\t1\t4\t1\t4\t4\t10\t1.0\tMKVL\tMKVL\n' "$(basename "$2")" "$(basename "$3")" > "$4"
`

func write(t *testing.T, fn, data string, mode os.FileMode) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), mode); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

// setup writes the family table, a fake aligner and a config pointing at a
// local structure server, and returns the config path.
func setup(t *testing.T, alignConcurrency int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ATOM\n"))
	}))
	t.Cleanup(srv.Close)

	db := write(t, filepath.Join(dir, "final_database.csv"), tableCSV, 0o644)
	bin := write(t, filepath.Join(dir, "foldseek"), fakeFoldseek, 0o755)
	cfg := fmt.Sprintf(`data:
  database: %s
fetch:
  url_template: %s/AF-%%s.pdb
  rate_per_second: 0
align:
  binary: %s
  concurrency: %d
`, db, srv.URL, bin, alignConcurrency)
	return write(t, filepath.Join(dir, "pfmi3dsc.yaml"), cfg, 0o644)
}

func TestEndToEnd(t *testing.T) {
	cfg := setup(t, 1)
	work := t.TempDir()

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--config", cfg, "run", "Q", "--workdir", work}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf.String())
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join(work, "report.html") {
		t.Fatalf("expected report path on stdout, got %q", got)
	}
	html, err := os.ReadFile(filepath.Join(work, "report.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "★") {
		t.Fatalf("expected a functional residue in the report")
	}

	// The staged commands reproduce the result from the run's intermediates.
	out.Reset()
	code = app.Run([]string{"score", filepath.Join(work, "alignment.tsv"),
		"--profiles", filepath.Join(work, "mutations.json"), "--query", "Q"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("score exit %d, err=%s", code, errBuf.String())
	}
	want, err := os.ReadFile(filepath.Join(work, "result.json"))
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != string(want) {
		t.Fatalf("score output differs from run result.json")
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	run := func(concurrency int) string {
		cfg := setup(t, concurrency)
		work := t.TempDir()
		var out, errB bytes.Buffer
		code := app.Run([]string{"--config", cfg, "run", "Q", "-w", work}, &out, &errB)
		if code != 0 {
			t.Fatalf("exit %d: %s", code, errB.String())
		}
		data, err := os.ReadFile(filepath.Join(work, "result.json"))
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if s1, s4 := run(1), run(4); s1 != s4 {
		t.Fatalf("parallel != serial\n1:\n%s\n4:\n%s", s1, s4)
	}
}
