package match

import (
	"context"
	"fmt"

	"github.com/uta-tools/lyricmatch/core/mora"
	"github.com/uta-tools/lyricmatch/core/reading"
)

// Strategy matches input units against one corpus through a TokenLookup.
// It depends only on the lookup abstraction, never on a concrete store,
// and holds no mutable state of its own: every invocation is a sequential
// fold over the input units.
type Strategy struct {
	lookup TokenLookup
}

// NewStrategy builds a Strategy over the given lookup.
func NewStrategy(lookup TokenLookup) *Strategy {
	return &Strategy{lookup: lookup}
}

// Run evaluates every unit in input order and returns one Result per
// unit, in the same order. The configuration is validated before any unit
// is evaluated; an invalid configuration fails the whole run. A lookup
// failure also aborts the run — local read failures are not retried.
func (s *Strategy) Run(ctx context.Context, units []Unit, corpusID string, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(units))
	for _, u := range units {
		res, err := s.matchUnit(ctx, u, corpusID, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// matchUnit evaluates the stages in strict priority order,
// short-circuiting on the first success. Each unit costs at most one
// surface lookup, one reading lookup and one point lookup per mora.
func (s *Strategy) matchUnit(ctx context.Context, u Unit, corpusID string, cfg Config) (Result, error) {
	normalized := reading.Normalize(u.Reading)
	res := Result{
		InputSurface: u.Surface,
		InputReading: normalized,
		Type:         NoMatch,
	}

	// Stage 1: exact surface.
	ids, err := s.lookup.FindBySurface(ctx, corpusID, u.Surface)
	if err != nil {
		return Result{}, fmt.Errorf("surface lookup for %q: %w", u.Surface, err)
	}
	if len(ids) > 0 {
		res.Type = ExactSurface
		res.MatchedTokenIDs = ids
		return res, nil
	}

	// Stage 2: exact reading.
	ids, err = s.lookup.FindByReading(ctx, corpusID, normalized)
	if err != nil {
		return Result{}, fmt.Errorf("reading lookup for %q: %w", normalized, err)
	}
	if len(ids) > 0 {
		res.Type = ExactReading
		res.MatchedTokenIDs = ids
		return res, nil
	}

	// Stage 3: mora combination.
	details, err := s.moraCombination(ctx, corpusID, normalized, cfg)
	if err != nil {
		return Result{}, err
	}
	if details != nil {
		res.Type = MoraCombination
		res.MoraDetails = details
	}
	return res, nil
}

// moraCombination locates every mora of the normalized reading in the
// corpus. It returns nil (no match, no error) when the reading is empty,
// when its mora count exceeds the configured bound, or when any single
// mora is absent from the corpus — partial combinations are never
// returned.
func (s *Strategy) moraCombination(ctx context.Context, corpusID, normalized string, cfg Config) ([]MoraDetail, error) {
	morae := mora.Segment(normalized)
	if len(morae) == 0 || len(morae) > cfg.MaxMoraLength {
		return nil, nil
	}
	details := make([]MoraDetail, 0, len(morae))
	for _, m := range morae {
		loc, err := s.lookup.LocateMora(ctx, corpusID, m.Value())
		if err != nil {
			return nil, fmt.Errorf("mora lookup for %q: %w", m.Value(), err)
		}
		if loc == nil {
			return nil, nil
		}
		details = append(details, MoraDetail{
			Mora:          m.Value(),
			SourceTokenID: loc.TokenID,
			MoraIndex:     loc.MoraIndex,
		})
	}
	return details, nil
}
