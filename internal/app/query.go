package app

import (
	"context"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/lyrics"
	"github.com/uta-tools/lyricmatch/core/match"
)

// TokenResolver resolves stored tokens by id.
type TokenResolver interface {
	TokensByIDs(ctx context.Context, ids []string) ([]lyrics.Token, error)
}

// Report pairs a stored run with the source tokens its results
// reference. Results carry token ids only; the token store stays the
// single source of truth for surfaces and positions.
type Report struct {
	Run    *match.Run
	Tokens map[string]lyrics.Token
}

// Querier loads persisted runs and resolves their token references.
type Querier struct {
	Runs   match.Persistence
	Tokens TokenResolver
}

// Report loads the run and every token its results reference, from both
// the matched-id lists and the per-mora source ids.
func (q *Querier) Report(ctx context.Context, runID string) (*Report, error) {
	run, err := q.Runs.FindByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperrors.NewNotFound("match run", runID)
	}

	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, res := range run.Results {
		for _, id := range res.MatchedTokenIDs {
			add(id)
		}
		for _, d := range res.MoraDetails {
			add(d.SourceTokenID)
		}
	}

	report := &Report{Run: run, Tokens: map[string]lyrics.Token{}}
	if len(ids) > 0 {
		tokens, err := q.Tokens.TokensByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, tok := range tokens {
			report.Tokens[tok.ID()] = tok
		}
	}
	return report, nil
}
