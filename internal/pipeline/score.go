// internal/pipeline/score.go
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"pfmi3dsc/core/alignment"
	"pfmi3dsc/core/annotation"
	"pfmi3dsc/core/errs"
	"pfmi3dsc/core/scoring"
	"pfmi3dsc/internal/output"
	"pfmi3dsc/pkg/api"
)

// ScoreInputs names the files of one scoring run.
type ScoreInputs struct {
	Alignments  []string // aligner TSV files, concatenated in order
	Profiles    string   // annotation JSON
	Query       string   // defaults to the first profile id
	Policy      scoring.FamilySizePolicy
	AllowRagged bool
}

// Score loads the inputs, runs the scoring core and converts the result to
// the v1 schema. Nothing is written; a failure leaves no partial result.
func Score(ctx context.Context, env Env, in ScoreInputs) (api.ResultV1, error) {
	var v api.ResultV1
	err := env.stage(ctx, "score", func(ctx context.Context) error {
		var err error
		v, err = score(env, in)
		return err
	})
	return v, err
}

func score(env Env, in ScoreInputs) (api.ResultV1, error) {
	if len(in.Alignments) == 0 {
		return api.ResultV1{}, &errs.ConfigurationError{Reason: "no alignment files"}
	}
	recs, err := alignment.LoadTSV(in.Alignments...)
	if err != nil {
		return api.ResultV1{}, err
	}
	source := in.Alignments[0]
	if len(in.Alignments) > 1 {
		source = fmt.Sprintf("%s (+%d more)", source, len(in.Alignments)-1)
	}
	m, err := alignment.Ingest(recs, alignment.IngestOptions{Source: source, AllowRagged: in.AllowRagged})
	if errors.Is(err, alignment.ErrRaggedLength) {
		return api.ResultV1{}, fmt.Errorf("%w (use --allow-ragged or scoring.allow_ragged to pad shorter alignments)", err)
	}
	if err != nil {
		return api.ResultV1{}, err
	}
	prof, err := annotation.LoadProfiles(in.Profiles)
	if err != nil {
		return api.ResultV1{}, err
	}
	idx := annotation.NewIndex(prof, m.Lengths())

	query := in.Query
	if query == "" {
		query = idx.Query()
	}
	res, err := scoring.Score(m, idx, scoring.Options{Query: query, Members: idx.Members(), Policy: in.Policy})
	if err != nil {
		return api.ResultV1{}, err
	}

	log := env.log()
	for _, id := range res.Unaligned {
		log.Warn("family member has no alignment column", "protein", id)
	}
	if len(res.Unaligned) > 0 {
		log.Warn("family size differs from aligned proteins",
			"policy", string(res.Policy), "family_size", res.FamilySize,
			"members", len(res.Members), "aligned", len(res.Members)-len(res.Unaligned))
	}
	env.Metrics.Scored(len(recs), res.Scores.Len(), len(res.Functional))

	id, err := runID(recs, prof, query, res.Policy, in.AllowRagged)
	if err != nil {
		return api.ResultV1{}, err
	}
	return output.ToAPIResult(res, output.Meta{RunID: id, GeneNames: prof.GeneNames}), nil
}

// runID hashes the parsed inputs and the options that change the result.
// Map keys marshal sorted, so equal inputs give equal ids.
func runID(recs []alignment.Record, prof annotation.Profiles, query string, policy scoring.FamilySizePolicy, ragged bool) (string, error) {
	r, err := json.Marshal(recs)
	if err != nil {
		return "", err
	}
	p, err := json.Marshal(prof)
	if err != nil {
		return "", err
	}
	return output.RunID(r, p, []byte(query), []byte(policy), []byte(strconv.FormatBool(ragged))), nil
}
