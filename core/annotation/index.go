// core/annotation/index.go
package annotation

import (
	"fmt"

	"pfmi3dsc/core/errs"
)

// PositionSet is a set of 1-based residue positions.
type PositionSet map[int]struct{}

func newSet(ps []int) PositionSet {
	s := make(PositionSet, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s PositionSet) Has(pos int) bool {
	_, ok := s[pos]
	return ok
}

// Len is the number of distinct positions.
func (s PositionSet) Len() int { return len(s) }

var empty = PositionSet{}

// Index answers per-protein annotation queries. It is immutable once built.
type Index struct {
	members []string
	genes   []string
	mutated map[string]PositionSet
	hotspot map[string]PositionSet
	lengths map[string]int
}

// NewIndex builds an index from profiles and residue lengths. Lengths usually
// come from the alignment (target length per member).
func NewIndex(p Profiles, lengths map[string]int) *Index {
	idx := &Index{
		members: append([]string(nil), p.UniprotIDs...),
		genes:   append([]string(nil), p.GeneNames...),
		mutated: make(map[string]PositionSet, len(p.Biomuta)),
		hotspot: make(map[string]PositionSet, len(p.Hotspot)),
		lengths: make(map[string]int, len(lengths)),
	}
	for id, ps := range p.Biomuta {
		idx.mutated[id] = newSet(ps)
	}
	for id, ps := range p.Hotspot {
		idx.hotspot[id] = newSet(ps)
	}
	for id, n := range lengths {
		idx.lengths[id] = n
	}
	return idx
}

// Mutated returns the mutated positions of id. Unknown proteins have no
// recorded mutations, so they get the empty set rather than an error.
func (x *Index) Mutated(id string) PositionSet {
	if s, ok := x.mutated[id]; ok {
		return s
	}
	return empty
}

// Hotspot returns the hotspot positions of id, empty for unknown proteins.
func (x *Index) Hotspot(id string) PositionSet {
	if s, ok := x.hotspot[id]; ok {
		return s
	}
	return empty
}

// Length returns the residue count of id.
func (x *Index) Length(id string) (int, error) {
	n, ok := x.lengths[id]
	if !ok {
		return 0, &errs.LookupMiss{Protein: id, What: "length"}
	}
	if n <= 0 {
		return 0, &errs.ConfigurationError{Protein: id, Reason: fmt.Sprintf("length %d must be > 0", n)}
	}
	return n, nil
}

// Query is the first family member.
func (x *Index) Query() string {
	if len(x.members) == 0 {
		return ""
	}
	return x.members[0]
}

// Members is the family id list in input order.
func (x *Index) Members() []string { return append([]string(nil), x.members...) }

// Gene returns the gene name paired with id, if any.
func (x *Index) Gene(id string) string {
	for i, m := range x.members {
		if m == id && i < len(x.genes) {
			return x.genes[i]
		}
	}
	return ""
}
