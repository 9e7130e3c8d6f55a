// internal/foldseek/runner.go
package foldseek

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pfmi3dsc/core/alignment"
	"pfmi3dsc/internal/cmdutil"
	"pfmi3dsc/internal/metrics"
)

// Runner aligns every family structure against the query with
// `foldseek easy-search`, one process per pair.
type Runner struct {
	Binary      string
	TmpDir      string
	Threads     int // 0 = aligner default
	Concurrency int
	Log         *slog.Logger
	Metrics     *metrics.Metrics
}

// Summary describes one Run.
type Summary struct {
	Query   string   // query structure path
	Aligned []string // member structures with output, family order
	Failed  []string // member structures whose run failed
}

const waitDelay = 2 * time.Second

var (
	ErrNoQuery  = errors.New("no structure for the query accession")
	ErrNoFamily = errors.New("no family structures besides the query")
	ErrNoPairs  = errors.New("every aligner run failed")
)

// QueryPath picks the structure of acc: an exact basename match first,
// then the first basename containing acc.
func QueryPath(pdbs []string, acc string) (string, bool) {
	for _, p := range pdbs {
		if alignment.NormalizeID(filepath.Base(p)) == acc {
			return p, true
		}
	}
	for _, p := range pdbs {
		if strings.Contains(filepath.Base(p), acc) {
			return p, true
		}
	}
	return "", false
}

// Run aligns the query against the other structures and writes the
// concatenated TSV to out, in family order whatever order the runs finish.
func (r *Runner) Run(ctx context.Context, pdbs []string, queryAcc, out string) (Summary, error) {
	query, ok := QueryPath(pdbs, queryAcc)
	if !ok {
		return Summary{}, fmt.Errorf("%w %s", ErrNoQuery, queryAcc)
	}
	var family []string
	for _, p := range pdbs {
		if p != query {
			family = append(family, p)
		}
	}
	if len(family) == 0 {
		return Summary{}, ErrNoFamily
	}
	if err := os.MkdirAll(r.TmpDir, 0o755); err != nil {
		return Summary{}, err
	}

	outputs := make([][]byte, len(family))
	fails := make([]error, len(family))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Concurrency))
	for i, target := range family {
		g.Go(func() error {
			data, err := r.pair(ctx, query, target)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				cmdutil.Warnf(r.Log, "foldseek failed for %s: %v", target, err)
				r.Metrics.Aligned("failed")
				fails[i] = err
				return nil
			}
			r.Metrics.Aligned("ok")
			outputs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Query: query}
	var merged bytes.Buffer
	for i, target := range family {
		if fails[i] != nil {
			sum.Failed = append(sum.Failed, target)
			continue
		}
		sum.Aligned = append(sum.Aligned, target)
		merged.Write(outputs[i])
		if n := len(outputs[i]); n > 0 && outputs[i][n-1] != '\n' {
			merged.WriteByte('\n')
		}
	}
	if len(sum.Aligned) == 0 {
		return sum, ErrNoPairs
	}
	if err := os.WriteFile(out, merged.Bytes(), 0o644); err != nil {
		return sum, err
	}
	return sum, nil
}

// Args is the easy-search command line for one pair.
func (r *Runner) Args(query, target, out, tmp string) []string {
	args := []string{"easy-search", query, target, out, tmp, "--format-output", alignment.FormatOutput}
	if r.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(r.Threads))
	}
	return args
}

func (r *Runner) pair(ctx context.Context, query, target string) ([]byte, error) {
	name := strings.SplitN(filepath.Base(target), ".", 2)[0]
	out := filepath.Join(r.TmpDir, name+".tsv")
	tmp := filepath.Join(r.TmpDir, name)
	_ = os.Remove(out)

	cmd := exec.CommandContext(ctx, r.Binary, r.Args(query, target, out, tmp)...)
	// Children of a killed aligner may hold stderr open.
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return os.ReadFile(out)
}
