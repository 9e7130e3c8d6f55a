// core/errs/errs.go
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// FormatError reports malformed alignment, annotation or table input.
// Source is a file path (or a label for in-memory input); Line is 1-based
// and zero when the defect is not tied to a line.
type FormatError struct {
	Source  string
	Line    int
	Field   string
	Protein string
	Err     error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Protein != "" {
		fmt.Fprintf(&b, ": protein %s", e.Protein)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

// ConfigurationError reports a run that cannot be scored as configured
// (family size below two, non-positive protein length, bad settings).
type ConfigurationError struct {
	Protein string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Protein != "" {
		return fmt.Sprintf("configuration: protein %s: %s", e.Protein, e.Reason)
	}
	return "configuration: " + e.Reason
}

// LookupMiss reports a protein that is absent where its data is required.
// Position-set queries never produce it; they default to empty sets.
type LookupMiss struct {
	Protein string
	What    string
}

func (e *LookupMiss) Error() string {
	return fmt.Sprintf("lookup: no %s for protein %s", e.What, e.Protein)
}

// IsInput reports whether err is one of the input-side errors above.
func IsInput(err error) bool {
	var fe *FormatError
	var ce *ConfigurationError
	var lm *LookupMiss
	return errors.As(err, &fe) || errors.As(err, &ce) || errors.As(err, &lm)
}
