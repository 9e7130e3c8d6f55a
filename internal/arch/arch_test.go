// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const module = "pfmi3dsc/"

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	outer := []string{
		"pfmi3dsc/internal/pipeline", "pfmi3dsc/internal/app",
		"pfmi3dsc/internal/cli", "pfmi3dsc/cmd/",
	}
	bans := map[string][]string{
		// The scoring core is pure: no collaborators, no presentation.
		"pfmi3dsc/core/": {"pfmi3dsc/internal/", "pfmi3dsc/pkg/", "pfmi3dsc/cmd/"},
		"pfmi3dsc/pkg/":  {"pfmi3dsc/internal/", "pfmi3dsc/core/", "pfmi3dsc/cmd/"},
		"pfmi3dsc/internal/pipeline": {
			"pfmi3dsc/internal/app", "pfmi3dsc/internal/cli", "pfmi3dsc/cmd/",
		},
		"pfmi3dsc/internal/writers":   outer,
		"pfmi3dsc/internal/output":    outer,
		"pfmi3dsc/internal/report":    outer,
		"pfmi3dsc/internal/family":    outer,
		"pfmi3dsc/internal/structure": outer,
		"pfmi3dsc/internal/foldseek":  outer,
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, module) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, module) {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
