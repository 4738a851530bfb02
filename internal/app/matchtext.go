package app

import (
	"context"
	"time"

	"github.com/uta-tools/lyricmatch/core/match"
	"github.com/uta-tools/lyricmatch/internal/logging"
)

// Matcher runs the matching strategy over tokenized input and persists
// the outcome as a match run.
type Matcher struct {
	Corpora   match.CorpusMetadata
	Lookup    match.TokenLookup
	Runs      match.Persistence
	Tokenizer Tokenizer
}

// Match tokenizes text, matches every unit against the corpus and saves
// the run. It returns the persisted run id. The configuration is
// validated up front and recorded verbatim on the run.
func (m *Matcher) Match(ctx context.Context, text, corpusID string, cfg match.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	// Fail early on an unknown corpus instead of producing an all-NoMatch run.
	if _, err := m.Corpora.Get(ctx, corpusID); err != nil {
		return "", err
	}

	units := m.Tokenizer.Tokenize(text)
	in := make([]match.Unit, len(units))
	for i, u := range units {
		in[i] = match.Unit{Surface: u.Surface, Reading: u.Reading}
	}

	// A per-run cache; repeated surfaces and morae in the input hit the
	// store once.
	results, err := match.NewStrategy(match.NewCachedLookup(m.Lookup)).Run(ctx, in, corpusID, cfg)
	if err != nil {
		return "", err
	}

	run := &match.Run{
		ID:        newID("run"),
		CorpusID:  corpusID,
		Timestamp: time.Now(),
		InputText: text,
		Config:    cfg,
		Results:   results,
	}
	runID, err := m.Runs.Save(ctx, run)
	if err != nil {
		return "", err
	}
	logging.Info("match run saved", "run_id", runID, "corpus_id", corpusID, "units", len(results))
	return runID, nil
}
