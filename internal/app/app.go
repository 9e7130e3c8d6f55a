// internal/app/app.go
package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"pfmi3dsc/core/errs"
	"pfmi3dsc/internal/cli"
	"pfmi3dsc/internal/cmdutil"
	"pfmi3dsc/internal/config"
	"pfmi3dsc/internal/metrics"
	"pfmi3dsc/internal/pipeline"
	"pfmi3dsc/internal/telemetry"
	"pfmi3dsc/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2 // bad flags, malformed input, configuration errors
	ExitWrite     = 3
	ExitCancelled = 130
)

// usageError marks command-line mistakes.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// writeError marks failures writing results.
type writeError struct{ err error }

func (e writeError) Error() string { return e.err.Error() }
func (e writeError) Unwrap() error { return e.err }

// noHitError carries the configured exit code for a run without
// functional residues.
type noHitError struct{ code int }

func (e noHitError) Error() string { return "no functional residues" }

// state is shared by the commands of one invocation.
type state struct {
	opts   cli.Options
	cfg    config.Config
	env    pipeline.Env
	stdout io.Writer
	stderr io.Writer
	trace  telemetry.Tracing
}

// RunContext executes one command line and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	st := &state{stdout: outw, stderr: stderr, trace: telemetry.Disabled()}
	root := newRoot(st)
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)

	if serr := st.trace.Shutdown(context.Background()); serr != nil {
		_, _ = fmt.Fprintln(stderr, "trace:", serr)
	}
	if merr := st.env.Metrics.WriteTextfile(st.opts.MetricsOut); merr != nil {
		_, _ = fmt.Fprintln(stderr, "metrics:", merr)
	}
	if ferr := outw.Flush(); ferr != nil && !writers.IsBrokenPipe(ferr) && err == nil {
		err = writeError{ferr}
	}
	return exitCode(parent, err, stderr)
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var nh noHitError
	if errors.As(err, &nh) {
		return nh.code
	}
	if writers.IsBrokenPipe(err) {
		return ExitOK
	}
	_, _ = fmt.Fprintln(stderr, "pfmi3dsc:", err)
	var ue usageError
	var we writeError
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.As(err, &ue) || errs.IsInput(err) || errors.Is(err, fs.ErrNotExist):
		return ExitUsage
	case errors.As(err, &we):
		return ExitWrite
	}
	return ExitFailure
}

func newRoot(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   "pfmi3dsc",
		Short: "Predict functional residues from protein family structural alignments",
		Long: `pfmi3dsc scores each position of a structural alignment of a protein
family against the family's mutation and cancer hotspot annotations, and
flags positions whose joint probability is low and whose score is high.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: st.setup,
		Args:              args(cobra.NoArgs),
		RunE:              func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cli.Bind(root.PersistentFlags(), &st.opts)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	root.AddCommand(
		newFamilyCmd(st),
		newProfilesCmd(st),
		newFetchCmd(st),
		newAlignCmd(st),
		newScoreCmd(st),
		newReportCmd(st),
		newRunCmd(st),
		newConfigCmd(st),
		newVersionCmd(st),
	)
	return root
}

// setup loads the configuration and builds the logger, metrics and tracer.
func (st *state) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(st.opts.ConfigFile)
	if err != nil {
		return err
	}
	if err := st.opts.Apply(cmd.Flags(), &cfg); err != nil {
		return err
	}
	st.cfg = cfg
	st.env = pipeline.Env{
		Log:     cmdutil.NewLogger(st.stderr, st.opts.Quiet, st.opts.Verbose),
		Metrics: metrics.New(),
	}
	if st.opts.Trace {
		if st.trace, err = telemetry.Setup(st.stderr); err != nil {
			return err
		}
	}
	st.env.Tracer = st.trace.Tracer
	return nil
}

// args wraps a cobra argument validator so its errors count as usage errors.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// emit renders with fn and writes the bytes to path, or to stdout for ""
// and "-". Rendering completes before anything is written.
func (st *state) emit(path string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	if path == "" || path == "-" {
		if _, err := st.stdout.Write(buf.Bytes()); err != nil {
			return writeError{err}
		}
		return nil
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return writeError{err}
	}
	return nil
}

// noHits applies --no-hit-exit-code.
func (st *state) noHits(functional []int) error {
	if len(functional) == 0 && st.cfg.Output.NoHitExitCode != 0 {
		return noHitError{st.cfg.Output.NoHitExitCode}
	}
	return nil
}
