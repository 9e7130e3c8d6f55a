// internal/cli/options.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"pfmi3dsc/internal/config"
	"pfmi3dsc/internal/writers"
)

// Options holds the global flags shared by every subcommand.
type Options struct {
	// Configuration
	ConfigFile string
	Database   string

	// Scoring
	FamilySize  string
	AllowRagged bool

	// Output
	Format        string
	NoHeader      bool
	NoHitExitCode int

	// Diagnostics
	Quiet      bool
	Verbose    bool
	Trace      bool
	MetricsOut string
}

// Bind registers the global flags on fs.
func Bind(fs *pflag.FlagSet, o *Options) {
	def := config.Default()

	fs.StringVarP(&o.ConfigFile, "config", "c", "", "YAML config file (defaults apply to missing keys)")
	fs.StringVar(&o.Database, "database", def.Data.Database, "family table (final_database.csv)")

	fs.StringVar(&o.FamilySize, "family-size", def.Scoring.FamilySize, "family size for thresholds: members | aligned")
	fs.BoolVar(&o.AllowRagged, "allow-ragged", def.Scoring.AllowRagged, "pad alignments of unequal length instead of failing")

	fs.StringVarP(&o.Format, "format", "f", def.Output.Format,
		fmt.Sprintf("result format: %s", strings.Join(writers.Formats(), " | ")))
	fs.BoolVar(&o.NoHeader, "no-header", false, "omit the TSV header row")
	fs.IntVar(&o.NoHitExitCode, "no-hit-exit-code", def.Output.NoHitExitCode, "exit code when no residue is functional")

	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "log errors only")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "log debug records")
	fs.BoolVar(&o.Trace, "trace", false, "export stage spans to stderr")
	fs.StringVar(&o.MetricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")
}

// Apply copies the flags the user set on fs over cfg and validates the
// result. Flags left at their defaults never override the config file.
func (o *Options) Apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("database") {
		cfg.Data.Database = o.Database
	}
	if fs.Changed("family-size") {
		cfg.Scoring.FamilySize = o.FamilySize
	}
	if fs.Changed("allow-ragged") {
		cfg.Scoring.AllowRagged = o.AllowRagged
	}
	if fs.Changed("format") {
		cfg.Output.Format = o.Format
	}
	if fs.Changed("no-header") {
		cfg.Output.Header = !o.NoHeader
	}
	if fs.Changed("no-hit-exit-code") {
		cfg.Output.NoHitExitCode = o.NoHitExitCode
	}
	return cfg.Validate()
}
