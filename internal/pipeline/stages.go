// internal/pipeline/stages.go
package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"os"

	"pfmi3dsc/core/annotation"
	"pfmi3dsc/internal/config"
	"pfmi3dsc/internal/family"
	"pfmi3dsc/internal/foldseek"
	"pfmi3dsc/internal/report"
	"pfmi3dsc/internal/structure"
	"pfmi3dsc/pkg/api"
)

// Family looks up the family of acc in the table at db.
func Family(ctx context.Context, env Env, db, acc string) (family.Family, error) {
	var f family.Family
	err := env.stage(ctx, "family", func(context.Context) error {
		tab, err := family.LoadTable(db)
		if err != nil {
			return err
		}
		if f, err = tab.Lookup(acc); err != nil {
			return err
		}
		env.log().Info("family found", "protein", acc, "family", f.Name, "members", len(f.Members))
		return nil
	})
	return f, err
}

// Profiles extracts the mutation and hotspot lists of f from the table at db.
func Profiles(ctx context.Context, env Env, db string, f family.Family) (annotation.Profiles, error) {
	var p annotation.Profiles
	err := env.stage(ctx, "profiles", func(context.Context) error {
		tab, err := family.LoadTable(db)
		if err != nil {
			return err
		}
		p, err = tab.ExtractProfiles(f)
		return err
	})
	return p, err
}

// Fetch downloads the structures of ids and returns the available paths in
// id order.
func Fetch(ctx context.Context, env Env, cfg config.FetchConfig, ids []string) ([]string, error) {
	var paths []string
	err := env.stage(ctx, "fetch", func(ctx context.Context) error {
		client := env.Client
		if client == nil {
			client = &http.Client{Timeout: cfg.Timeout}
		}
		f := &structure.Fetcher{
			URLTemplate:   cfg.URLTemplate,
			OutDir:        cfg.OutDir,
			Concurrency:   cfg.Concurrency,
			RatePerSecond: cfg.RatePerSecond,
			Client:        client,
			Log:           env.log(),
			Metrics:       env.Metrics,
		}
		rs, err := f.Fetch(ctx, ids)
		paths = structure.Available(rs)
		env.log().Info("structures ready", "available", len(paths), "requested", len(ids))
		return err
	})
	return paths, err
}

// Align runs the structural aligner for the query acc over pdbs and writes
// the merged TSV to out.
func Align(ctx context.Context, env Env, cfg config.AlignConfig, pdbs []string, acc, out string) (foldseek.Summary, error) {
	var sum foldseek.Summary
	err := env.stage(ctx, "align", func(ctx context.Context) error {
		r := &foldseek.Runner{
			Binary:      cfg.Binary,
			TmpDir:      cfg.TmpDir,
			Threads:     cfg.Threads,
			Concurrency: cfg.Concurrency,
			Log:         env.log(),
			Metrics:     env.Metrics,
		}
		var err error
		sum, err = r.Run(ctx, pdbs, acc, out)
		return err
	})
	return sum, err
}

// Report renders v as HTML to path. The file is written only on success.
func Report(ctx context.Context, env Env, v api.ResultV1, path string) error {
	return env.stage(ctx, "report", func(context.Context) error {
		var buf bytes.Buffer
		if err := report.Render(&buf, v); err != nil {
			return err
		}
		return os.WriteFile(path, buf.Bytes(), 0o644)
	})
}
