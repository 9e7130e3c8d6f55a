// internal/pipeline/run.go
package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"pfmi3dsc/core/scoring"
	"pfmi3dsc/internal/config"
	"pfmi3dsc/internal/family"
	"pfmi3dsc/internal/jsonutil"
	"pfmi3dsc/internal/output"
	"pfmi3dsc/internal/structure"
	"pfmi3dsc/internal/writers"
	"pfmi3dsc/pkg/api"
)

// Intermediate file names inside the work directory.
const (
	FamilyFile    = "family.json"
	ProfilesFile  = "mutations.json"
	PDBListFile   = "pdbs.txt"
	AlignmentFile = "alignment.tsv"
	ResultFile    = "result.json"
	ReportFile    = "report.html"
)

// RunInputs selects the query and where the run writes.
type RunInputs struct {
	Accession string
	WorkDir   string
}

// Outputs lists what a full run produced.
type Outputs struct {
	Family  family.Family
	Result  api.ResultV1
	Files   map[string]string // file name -> path
	Skipped []string          // members without a structure
}

// Run executes every stage for one accession. Relative structure and
// aligner scratch directories are placed under the work directory.
func Run(ctx context.Context, env Env, cfg config.Config, in RunInputs) (Outputs, error) {
	if err := cfg.Validate(); err != nil {
		return Outputs{}, err
	}
	policy, err := scoring.ParseFamilySizePolicy(cfg.Scoring.FamilySize)
	if err != nil {
		return Outputs{}, err
	}
	if err := os.MkdirAll(in.WorkDir, 0o755); err != nil {
		return Outputs{}, err
	}
	path := func(name string) string { return filepath.Join(in.WorkDir, name) }
	cfg.Fetch.OutDir = under(in.WorkDir, cfg.Fetch.OutDir)
	cfg.Align.TmpDir = under(in.WorkDir, cfg.Align.TmpDir)

	out := Outputs{Files: map[string]string{}}
	if out.Family, err = Family(ctx, env, cfg.Data.Database, in.Accession); err != nil {
		return out, err
	}
	if err := family.Write(path(FamilyFile), out.Family); err != nil {
		return out, err
	}
	out.Files[FamilyFile] = path(FamilyFile)

	prof, err := Profiles(ctx, env, cfg.Data.Database, out.Family)
	if err != nil {
		return out, err
	}
	if err := jsonutil.WriteFile(path(ProfilesFile), prof); err != nil {
		return out, err
	}
	out.Files[ProfilesFile] = path(ProfilesFile)

	pdbs, err := Fetch(ctx, env, cfg.Fetch, out.Family.Members)
	if err != nil {
		return out, err
	}
	got := map[string]bool{}
	for _, p := range pdbs {
		got[p] = true
	}
	for _, id := range out.Family.Members {
		if !got[filepath.Join(cfg.Fetch.OutDir, id+".pdb")] {
			out.Skipped = append(out.Skipped, id)
		}
	}
	var list bytes.Buffer
	if err := structure.WriteList(&list, pdbs); err != nil {
		return out, err
	}
	if err := os.WriteFile(path(PDBListFile), list.Bytes(), 0o644); err != nil {
		return out, err
	}
	out.Files[PDBListFile] = path(PDBListFile)

	if _, err := Align(ctx, env, cfg.Align, pdbs, in.Accession, path(AlignmentFile)); err != nil {
		return out, err
	}
	out.Files[AlignmentFile] = path(AlignmentFile)

	out.Result, err = Score(ctx, env, ScoreInputs{
		Alignments:  []string{path(AlignmentFile)},
		Profiles:    path(ProfilesFile),
		Query:       in.Accession,
		Policy:      policy,
		AllowRagged: cfg.Scoring.AllowRagged,
	})
	if err != nil {
		return out, err
	}
	if err := jsonutil.WriteFile(path(ResultFile), out.Result); err != nil {
		return out, err
	}
	out.Files[ResultFile] = path(ResultFile)
	if cfg.Output.Format != output.FormatJSON {
		name := "result." + cfg.Output.Format
		var buf bytes.Buffer
		if err := writers.WriteResult(cfg.Output.Format, &buf, out.Result, writers.Options{Header: cfg.Output.Header}); err != nil {
			return out, err
		}
		if err := os.WriteFile(path(name), buf.Bytes(), 0o644); err != nil {
			return out, err
		}
		out.Files[name] = path(name)
	}

	if err := Report(ctx, env, out.Result, path(ReportFile)); err != nil {
		return out, err
	}
	out.Files[ReportFile] = path(ReportFile)
	return out, nil
}

func under(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
