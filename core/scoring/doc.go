// Package scoring turns an alignment matrix and per-protein annotations into
// per-position family scores, joint background probabilities and functional
// residue calls. It is pure: no I/O, no goroutines, no context. Callers own
// loading inputs and serializing the Result (see pkg/api for the wire form).
package scoring
