package match

import (
	"context"

	"github.com/uta-tools/lyricmatch/core/lyrics"
)

// MoraLocation identifies one mora occurrence inside a source token.
type MoraLocation struct {
	TokenID   string
	MoraIndex int
}

// TokenLookup is the read-only view of a registered corpus that the
// strategy matches against. All operations are scoped by corpus id.
//
// Implementations must return results in a stable deterministic order —
// ascending line index, then token index, then mora position — because
// exact-match ties are broken by lookup order alone. They must return
// empty results, not errors, when nothing matches; an error means the
// store itself failed and aborts the whole run. Corpora are immutable
// once registered, so implementations must support safe concurrent reads.
type TokenLookup interface {
	// FindBySurface returns the ids of tokens whose surface equals
	// surface exactly.
	FindBySurface(ctx context.Context, corpusID, surface string) ([]string, error)

	// FindByReading returns the ids of tokens whose normalized reading
	// equals normalizedReading exactly.
	FindByReading(ctx context.Context, corpusID, normalizedReading string) ([]string, error)

	// LocateMora returns the first occurrence of the mora anywhere in
	// the corpus, or nil when the corpus contains no such mora.
	LocateMora(ctx context.Context, corpusID, mora string) (*MoraLocation, error)
}

// CorpusMetadata resolves corpus metadata records.
type CorpusMetadata interface {
	// Get returns the corpus with the given id, or a NotFoundError.
	Get(ctx context.Context, corpusID string) (*lyrics.Corpus, error)

	// FindByHash returns the corpus whose content hash equals
	// contentHash, or (nil, nil) when no such corpus is registered.
	FindByHash(ctx context.Context, contentHash string) (*lyrics.Corpus, error)
}

// Persistence stores completed match runs. Save must persist the run and
// all of its results atomically: either the whole run is visible or none
// of it is.
type Persistence interface {
	// Save persists the run and returns its id.
	Save(ctx context.Context, run *Run) (string, error)

	// FindByID returns the run with the given id, including its ordered
	// results, or (nil, nil) when no such run exists.
	FindByID(ctx context.Context, runID string) (*Run, error)
}
