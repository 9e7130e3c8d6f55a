// internal/structure/fetch.go
package structure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"pfmi3dsc/internal/cmdutil"
	"pfmi3dsc/internal/metrics"
)

// Fetcher downloads predicted structures, one PDB file per accession.
type Fetcher struct {
	URLTemplate   string // fmt template with one %s for the accession
	OutDir        string
	Concurrency   int
	RatePerSecond float64 // 0 = unlimited
	Client        *http.Client
	Log           *slog.Logger
	Metrics       *metrics.Metrics
}

// Fetched is the outcome of one download.
type Fetched struct {
	Accession string
	Path      string
	Cached    bool
	Err       error
}

// ErrNoStructures is returned when not a single structure is available.
var ErrNoStructures = errors.New("no structures could be fetched")

// Path is where the structure for acc is stored.
func (f *Fetcher) Path(acc string) string {
	return filepath.Join(f.OutDir, acc+".pdb")
}

// Fetch downloads every accession not already on disk. Individual failures
// are logged and reported in the result; only a run where nothing is
// available returns an error. Results keep the input order.
func (f *Fetcher) Fetch(ctx context.Context, accessions []string) ([]Fetched, error) {
	if err := os.MkdirAll(f.OutDir, 0o755); err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	limit := rate.Inf
	if f.RatePerSecond > 0 {
		limit = rate.Limit(f.RatePerSecond)
	}
	lim := rate.NewLimiter(limit, 1)

	out := make([]Fetched, len(accessions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, f.Concurrency))
	var mu sync.Mutex
	for i, acc := range accessions {
		g.Go(func() error {
			res := Fetched{Accession: acc, Path: f.Path(acc)}
			if st, err := os.Stat(res.Path); err == nil && st.Size() > 0 {
				res.Cached = true
				f.Metrics.Fetched("cached")
			} else if err := lim.Wait(ctx); err != nil {
				return err
			} else if res.Err = f.download(ctx, client, acc, res.Path); res.Err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				cmdutil.Warnf(f.Log, "fetch %s: %v", acc, res.Err)
				f.Metrics.Fetched("failed")
			} else {
				f.Metrics.Fetched("downloaded")
			}
			mu.Lock()
			out[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range out {
		if r.Err == nil {
			return out, nil
		}
	}
	return out, ErrNoStructures
}

func (f *Fetcher) download(ctx context.Context, client *http.Client, acc, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(f.URLTemplate, acc), nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", req.URL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Available returns the paths of successful results, in order.
func Available(rs []Fetched) []string {
	var out []string
	for _, r := range rs {
		if r.Err == nil && r.Path != "" {
			out = append(out, r.Path)
		}
	}
	return out
}
