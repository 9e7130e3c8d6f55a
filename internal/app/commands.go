// internal/app/commands.go
package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"pfmi3dsc/core/scoring"
	"pfmi3dsc/internal/cliutil"
	"pfmi3dsc/internal/config"
	"pfmi3dsc/internal/family"
	"pfmi3dsc/internal/jsonutil"
	"pfmi3dsc/internal/pipeline"
	"pfmi3dsc/internal/report"
	"pfmi3dsc/internal/structure"
	"pfmi3dsc/internal/version"
	"pfmi3dsc/internal/writers"
)

func newFamilyCmd(st *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "family ACCESSION",
		Short: "Look up the family of a UniProt accession in the family table",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			f, err := pipeline.Family(cmd.Context(), st.env, st.cfg.Data.Database, a[0])
			if err != nil {
				return err
			}
			return st.emit(out, func(w io.Writer) error { return jsonutil.EncodePretty(w, f) })
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newProfilesCmd(st *state) *cobra.Command {
	var famPath, out string
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Extract mutation and hotspot profiles for a family",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := family.Read(famPath)
			if err != nil {
				return err
			}
			p, err := pipeline.Profiles(cmd.Context(), st.env, st.cfg.Data.Database, f)
			if err != nil {
				return err
			}
			return st.emit(out, func(w io.Writer) error { return jsonutil.EncodePretty(w, p) })
		},
	}
	cmd.Flags().StringVar(&famPath, "family", "family.json", "family JSON from the family command")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newFetchCmd(st *state) *cobra.Command {
	var famPath, out, outDir string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download predicted structures for every family member",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := family.Read(famPath)
			if err != nil {
				return err
			}
			fc := st.cfg.Fetch
			if cmd.Flags().Changed("out-dir") {
				fc.OutDir = outDir
			}
			paths, err := pipeline.Fetch(cmd.Context(), st.env, fc, f.Members)
			if err != nil {
				return err
			}
			return st.emit(out, func(w io.Writer) error { return structure.WriteList(w, paths) })
		},
	}
	cmd.Flags().StringVar(&famPath, "family", "family.json", "family JSON from the family command")
	cmd.Flags().StringVar(&outDir, "out-dir", config.Default().Fetch.OutDir, "structure directory")
	cmd.Flags().StringVarP(&out, "out", "o", "", "structure list file (default stdout)")
	return cmd
}

func newAlignCmd(st *state) *cobra.Command {
	var listPath, query, out string
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align family structures against the query with foldseek",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if query == "" {
				return usageError{fmt.Errorf("--query is required")}
			}
			pdbs, err := structure.ReadList(listPath)
			if err != nil {
				return err
			}
			for i, p := range pdbs {
				if abs, err := filepath.Abs(p); err == nil {
					pdbs[i] = abs
				}
			}
			sum, err := pipeline.Align(cmd.Context(), st.env, st.cfg.Align, pdbs, query, out)
			if err != nil {
				return err
			}
			st.env.Log.Info("alignment written", "path", out, "aligned", len(sum.Aligned), "failed", len(sum.Failed))
			return nil
		},
	}
	cmd.Flags().StringVar(&listPath, "pdbs", "pdbs.txt", "structure list from the fetch command")
	cmd.Flags().StringVar(&query, "query", "", "query UniProt accession")
	cmd.Flags().StringVarP(&out, "out", "o", "alignment.tsv", "merged alignment TSV")
	return cmd
}

func newScoreCmd(st *state) *cobra.Command {
	var profiles, query, out string
	cmd := &cobra.Command{
		Use:   "score ALIGNMENT...",
		Short: "Score alignment positions and flag functional residues",
		Long: `Score reads one or more aligner TSV files (globs allowed, "-" for stdin,
gzip detected) and the profiles JSON, and writes the result in --format.`,
		Args: args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			files, err := cliutil.ExpandPositionals(a)
			if err != nil {
				return usageError{err}
			}
			if cliutil.CountStdin(files) > 1 {
				return usageError{fmt.Errorf("stdin (-) given more than once")}
			}
			policy, err := scoring.ParseFamilySizePolicy(st.cfg.Scoring.FamilySize)
			if err != nil {
				return err
			}
			v, err := pipeline.Score(cmd.Context(), st.env, pipeline.ScoreInputs{
				Alignments:  files,
				Profiles:    profiles,
				Query:       query,
				Policy:      policy,
				AllowRagged: st.cfg.Scoring.AllowRagged,
			})
			if err != nil {
				return err
			}
			err = st.emit(out, func(w io.Writer) error {
				return writers.WriteResult(st.cfg.Output.Format, w, v, writers.Options{Header: st.cfg.Output.Header})
			})
			if err != nil {
				return err
			}
			return st.noHits(v.FunctionalResidues)
		},
	}
	cmd.Flags().StringVarP(&profiles, "profiles", "p", "mutations.json", "profiles JSON from the profiles command")
	cmd.Flags().StringVar(&query, "query", "", "query accession (default: first profile id)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newReportCmd(st *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report RESULT.json",
		Short: "Render a JSON result as an HTML table",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			v, err := report.ReadResult(a[0])
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return st.emit(out, func(w io.Writer) error { return report.Render(w, v) })
			}
			return pipeline.Report(cmd.Context(), st.env, v, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newRunCmd(st *state) *cobra.Command {
	var workDir string
	cmd := &cobra.Command{
		Use:   "run ACCESSION",
		Short: "Run every stage for one accession in a work directory",
		Long: `Run looks up the family, extracts profiles, downloads structures, aligns
them against the query, scores and renders the report under --workdir.

Pairwise alignments usually differ in length; pass --allow-ragged (or set
scoring.allow_ragged) to pad shorter ones instead of stopping at the score
stage.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			out, err := pipeline.Run(cmd.Context(), st.env, st.cfg, pipeline.RunInputs{Accession: a[0], WorkDir: workDir})
			for _, id := range out.Skipped {
				st.env.Log.Warn("no structure for family member", "protein", id)
			}
			if err != nil {
				return err
			}
			st.env.Log.Info("run complete", "query", a[0], "functional", len(out.Result.FunctionalResidues),
				"result", out.Files[pipeline.ResultFile], "report", out.Files[pipeline.ReportFile])
			_, err = fmt.Fprintln(st.stdout, out.Files[pipeline.ReportFile])
			if err != nil {
				return writeError{err}
			}
			return st.noHits(out.Result.FunctionalResidues)
		},
	}
	cmd.Flags().StringVarP(&workDir, "workdir", "w", ".", "directory for intermediate and result files")
	return cmd
}

func newConfigCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  args(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			return st.emit("", func(w io.Writer) error {
				data, err := config.Marshal(st.cfg)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			})
		},
	}
}

func newVersionCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  args(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(st.stdout, "pfmi3dsc version %s\n", version.Version)
			return err
		},
	}
}
