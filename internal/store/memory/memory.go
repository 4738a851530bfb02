// Package memory provides an in-memory implementation of the storage
// ports. It backs unit tests and mirrors the SQLite store's contract,
// including the deterministic ascending-position ordering of lookups.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/lyrics"
	"github.com/uta-tools/lyricmatch/core/match"
)

// Store holds corpora, tokens and runs in process memory.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	corpora map[string]lyrics.Corpus
	tokens  map[string][]lyrics.Token // corpus id → tokens, position-ordered
	byID    map[string]lyrics.Token
	runs    map[string]match.Run
}

// Compile-time port checks.
var (
	_ match.TokenLookup    = (*Store)(nil)
	_ match.CorpusMetadata = (*Store)(nil)
	_ match.Persistence    = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		corpora: make(map[string]lyrics.Corpus),
		tokens:  make(map[string][]lyrics.Token),
		byID:    make(map[string]lyrics.Token),
		runs:    make(map[string]match.Run),
	}
}

// SaveCorpus stores a corpus metadata record.
func (s *Store) SaveCorpus(ctx context.Context, c *lyrics.Corpus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpora[c.ID] = *c
	return nil
}

// Get returns the corpus with the given id.
func (s *Store) Get(ctx context.Context, corpusID string) (*lyrics.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.corpora[corpusID]
	if !ok {
		return nil, apperrors.NewNotFound("corpus", corpusID)
	}
	return &c, nil
}

// FindByHash returns the corpus with the given content hash, or nil.
func (s *Store) FindByHash(ctx context.Context, contentHash string) (*lyrics.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.corpora {
		if c.ContentHash == contentHash {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

// FindByTitle returns corpora whose title contains the given substring.
func (s *Store) FindByTitle(ctx context.Context, title string) ([]lyrics.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []lyrics.Corpus
	for _, c := range s.corpora {
		if strings.Contains(c.Title, title) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListCorpora returns up to limit corpora, newest first.
func (s *Store) ListCorpora(ctx context.Context, limit int) ([]lyrics.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lyrics.Corpus, 0, len(s.corpora))
	for _, c := range s.corpora {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteCorpus removes a corpus and, cascading, its tokens and runs.
func (s *Store) DeleteCorpus(ctx context.Context, corpusID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.corpora, corpusID)
	for _, t := range s.tokens[corpusID] {
		delete(s.byID, t.ID())
	}
	delete(s.tokens, corpusID)
	for id, r := range s.runs {
		if r.CorpusID == corpusID {
			delete(s.runs, id)
		}
	}
	return nil
}

// SaveTokens stores tokens in bulk, keeping each corpus position-ordered.
func (s *Store) SaveTokens(ctx context.Context, tokens []lyrics.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tokens {
		s.tokens[t.CorpusID] = append(s.tokens[t.CorpusID], t)
		s.byID[t.ID()] = t
	}
	for corpusID := range s.tokens {
		ts := s.tokens[corpusID]
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].LineIndex != ts[j].LineIndex {
				return ts[i].LineIndex < ts[j].LineIndex
			}
			return ts[i].TokenIndex < ts[j].TokenIndex
		})
	}
	return nil
}

// TokenByID returns a single token, or a NotFoundError.
func (s *Store) TokenByID(ctx context.Context, tokenID string) (*lyrics.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[tokenID]
	if !ok {
		return nil, apperrors.NewNotFound("token", tokenID)
	}
	return &t, nil
}

// TokensByIDs resolves tokens for the given ids; unknown ids are skipped.
func (s *Store) TokensByIDs(ctx context.Context, tokenIDs []string) ([]lyrics.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []lyrics.Token
	for _, id := range tokenIDs {
		if t, ok := s.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// CountTokens returns the number of tokens in a corpus.
func (s *Store) CountTokens(ctx context.Context, corpusID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens[corpusID]), nil
}

// ListTokens returns up to limit tokens of a corpus in position order.
func (s *Store) ListTokens(ctx context.Context, corpusID string, limit int) ([]lyrics.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts := s.tokens[corpusID]
	if limit > 0 && len(ts) > limit {
		ts = ts[:limit]
	}
	out := make([]lyrics.Token, len(ts))
	copy(out, ts)
	return out, nil
}

// FindBySurface returns ids of tokens with the exact surface, in
// ascending position order.
func (s *Store) FindBySurface(ctx context.Context, corpusID, surface string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, t := range s.tokens[corpusID] {
		if t.Surface == surface {
			ids = append(ids, t.ID())
		}
	}
	return ids, nil
}

// FindByReading returns ids of tokens with the exact normalized reading,
// in ascending position order.
func (s *Store) FindByReading(ctx context.Context, corpusID, normalizedReading string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, t := range s.tokens[corpusID] {
		if t.Reading.Normalized() == normalizedReading {
			ids = append(ids, t.ID())
		}
	}
	return ids, nil
}

// LocateMora returns the first occurrence of the mora in the corpus,
// scanning tokens in position order and each token's morae in sequence.
func (s *Store) LocateMora(ctx context.Context, corpusID, m string) (*match.MoraLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tokens[corpusID] {
		for i, tm := range t.Morae() {
			if tm.Value() == m {
				return &match.MoraLocation{TokenID: t.ID(), MoraIndex: i}, nil
			}
		}
	}
	return nil, nil
}

// Save stores a run with all its results as one unit.
func (s *Store) Save(ctx context.Context, run *match.Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *run
	stored.Results = make([]match.Result, len(run.Results))
	copy(stored.Results, run.Results)
	s.runs[run.ID] = stored
	return run.ID, nil
}

// FindByID returns a run with its ordered results, or nil.
func (s *Store) FindByID(ctx context.Context, runID string) (*match.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// RunsByCorpus returns runs executed against a corpus, newest first.
func (s *Store) RunsByCorpus(ctx context.Context, corpusID string) ([]match.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []match.Run
	for _, r := range s.runs {
		if r.CorpusID == corpusID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]match.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]match.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}
