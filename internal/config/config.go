// internal/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pfmi3dsc/core/errs"
)

// Config is the full run configuration. Every field has a default; a YAML
// file only needs the keys it changes.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Align   AlignConfig   `yaml:"align"`
	Scoring ScoringConfig `yaml:"scoring"`
	Output  OutputConfig  `yaml:"output"`
}

// DataConfig locates the family table.
type DataConfig struct {
	Database string `yaml:"database"` // final_database.csv
}

// FetchConfig controls structure downloads.
type FetchConfig struct {
	URLTemplate   string        `yaml:"url_template" validate:"required,contains=%s"`
	OutDir        string        `yaml:"out_dir" validate:"required"`
	Concurrency   int           `yaml:"concurrency" validate:"gte=1,lte=64"`
	RatePerSecond float64       `yaml:"rate_per_second" validate:"gte=0"` // 0 = unlimited
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
}

// AlignConfig controls the structural aligner.
type AlignConfig struct {
	Binary      string `yaml:"binary" validate:"required"`
	TmpDir      string `yaml:"tmp_dir" validate:"required"`
	Threads     int    `yaml:"threads" validate:"gte=0"` // 0 = aligner default
	Concurrency int    `yaml:"concurrency" validate:"gte=1,lte=64"`
}

// ScoringConfig controls the scoring core.
type ScoringConfig struct {
	FamilySize  string `yaml:"family_size" validate:"oneof=members aligned"`
	AllowRagged bool   `yaml:"allow_ragged"`
}

// OutputConfig controls result serialization.
type OutputConfig struct {
	Format        string `yaml:"format" validate:"oneof=json jsonl tsv pretty"`
	Header        bool   `yaml:"header"`
	NoHitExitCode int    `yaml:"no_hit_exit_code" validate:"gte=0,lte=255"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{Database: filepath.Join("data", "final_database.csv")},
		Fetch: FetchConfig{
			URLTemplate:   "https://alphafold.ebi.ac.uk/files/AF-%s-F1-model_v4.pdb",
			OutDir:        "pdb_files",
			Concurrency:   4,
			RatePerSecond: 5,
			Timeout:       60 * time.Second,
		},
		Align: AlignConfig{
			Binary:      "foldseek",
			TmpDir:      "tmpFoldseek",
			Concurrency: 1,
		},
		Scoring: ScoringConfig{FamilySize: "members"},
		Output:  OutputConfig{Format: "json", Header: true},
	}
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
	})
	return v
}()

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		return &errs.ConfigurationError{Reason: fmt.Sprintf("%s: failed %q check (value %v)", ns, fe.Tag(), fe.Value())}
	}
	return err
}

// Decode reads YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader, source string) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &errs.FormatError{Source: source, Err: err}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the config file at path; an empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	return Decode(bytes.NewReader(data), path)
}

// Marshal renders c as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
