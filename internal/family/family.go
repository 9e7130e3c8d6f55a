// internal/family/family.go
package family

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pfmi3dsc/core/annotation"
	"pfmi3dsc/core/errs"
	"pfmi3dsc/internal/jsonutil"
)

// Family is the lookup result for one accession.
type Family struct {
	InputAccession string   `json:"input_accid" validate:"required"`
	Name           string   `json:"family_name"`
	Members        []string `json:"family_members" validate:"required,min=1,dive,required"`
	GeneNames      []string `json:"gene_names"`
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

// Lookup finds the family of acc.
func (t *Table) Lookup(acc string) (Family, error) {
	row, ok, err := t.Find(acc)
	if err != nil {
		return Family{}, err
	}
	if !ok {
		return Family{}, &errs.LookupMiss{Protein: acc, What: "family in " + t.Source}
	}
	members, err := row.Members()
	if err != nil {
		return Family{}, &errs.FormatError{Source: t.Source, Line: row.Line, Field: ColAccIDs, Err: err}
	}
	genes, err := row.GeneNames()
	if err != nil {
		return Family{}, &errs.FormatError{Source: t.Source, Line: row.Line, Field: ColGenes, Err: err}
	}
	return Family{
		InputAccession: acc,
		Name:           row.Family,
		Members:        members,
		GeneNames:      genes,
	}, nil
}

// ExtractProfiles pairs the row's biomuta and hotspot lists with the family
// members. The row is the first one containing any member, in member order.
// Lists shorter than the member list leave the remaining members without
// an entry (they read as empty sets downstream).
func (t *Table) ExtractProfiles(f Family) (annotation.Profiles, error) {
	var (
		row   Row
		found bool
		err   error
	)
	for _, id := range f.Members {
		if row, found, err = t.Find(id); err != nil {
			return annotation.Profiles{}, err
		}
		if found {
			break
		}
	}
	if !found {
		return annotation.Profiles{}, &errs.LookupMiss{Protein: f.InputAccession, What: "family row for any member in " + t.Source}
	}
	bm, err := ParseIntLists(row.Biomuta)
	if err != nil {
		return annotation.Profiles{}, &errs.FormatError{Source: t.Source, Line: row.Line, Field: ColBiomuta, Err: err}
	}
	hs, err := ParseIntLists(row.Hotspot)
	if err != nil {
		return annotation.Profiles{}, &errs.FormatError{Source: t.Source, Line: row.Line, Field: ColHotspots, Err: err}
	}
	p := annotation.Profiles{
		UniprotIDs: append([]string(nil), f.Members...),
		GeneNames:  append([]string(nil), f.GeneNames...),
		Biomuta:    make(map[string][]int, len(f.Members)),
		Hotspot:    make(map[string][]int, len(f.Members)),
	}
	for i, id := range f.Members {
		if i < len(bm) {
			p.Biomuta[id] = bm[i]
		}
		if i < len(hs) {
			p.Hotspot[id] = hs[i]
		}
	}
	if err := p.Validate(t.Source); err != nil {
		return annotation.Profiles{}, err
	}
	return p, nil
}

// Write stores f as JSON.
func Write(path string, f Family) error { return jsonutil.WriteFile(path, f) }

// Read loads and validates a family JSON file.
func Read(path string) (Family, error) {
	var f Family
	if err := jsonutil.ReadFile(path, &f); err != nil {
		return Family{}, &errs.FormatError{Source: path, Err: err}
	}
	if err := validate.Struct(f); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return Family{}, &errs.FormatError{Source: path, Field: ve[0].Field(), Err: fmt.Errorf("failed %q check", ve[0].Tag())}
		}
		return Family{}, &errs.FormatError{Source: path, Err: err}
	}
	return f, nil
}
