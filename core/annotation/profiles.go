// core/annotation/profiles.go
package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"pfmi3dsc/core/errs"
)

// Profiles is the annotation input: the family id list (query first) and
// per-protein mutated / hotspot residue positions.
type Profiles struct {
	UniprotIDs []string         `json:"uniprot_ids" validate:"required,min=1,dive,required"`
	GeneNames  []string         `json:"gene_names"`
	Biomuta    map[string][]int `json:"biomuta_profile"`
	Hotspot    map[string][]int `json:"hotspot_profile"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks required fields and rejects positions below 1.
// source labels the returned *errs.FormatError.
func (p *Profiles) Validate(source string) error {
	if err := validate.Struct(p); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return &errs.FormatError{Source: source, Field: ve[0].Field(),
				Err: fmt.Errorf("failed %q check", ve[0].Tag())}
		}
		return &errs.FormatError{Source: source, Err: err}
	}
	for _, f := range []struct {
		name string
		m    map[string][]int
	}{{"biomuta_profile", p.Biomuta}, {"hotspot_profile", p.Hotspot}} {
		for _, id := range sortedKeys(f.m) {
			for _, pos := range f.m[id] {
				if pos < 1 {
					return &errs.FormatError{Source: source, Protein: id, Field: f.name,
						Err: fmt.Errorf("position %d < 1", pos)}
				}
			}
		}
	}
	return nil
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecodeProfiles reads and validates one Profiles JSON document.
func DecodeProfiles(r io.Reader, source string) (Profiles, error) {
	var p Profiles
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Profiles{}, &errs.FormatError{Source: source, Err: err}
	}
	if err := p.Validate(source); err != nil {
		return Profiles{}, err
	}
	return p, nil
}

// LoadProfiles reads a Profiles JSON file.
func LoadProfiles(path string) (Profiles, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Profiles{}, err
	}
	defer func() { _ = fh.Close() }()
	return DecodeProfiles(fh, path)
}
