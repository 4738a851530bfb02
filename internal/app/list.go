package app

import (
	"context"

	"github.com/uta-tools/lyricmatch/core/lyrics"
	"github.com/uta-tools/lyricmatch/core/match"
)

// CorpusLister lists registered corpora, newest first.
type CorpusLister interface {
	ListCorpora(ctx context.Context, limit int) ([]lyrics.Corpus, error)
	FindByTitle(ctx context.Context, title string) ([]lyrics.Corpus, error)
}

// RunLister lists stored match runs, newest first, without results.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]match.Run, error)
	RunsByCorpus(ctx context.Context, corpusID string) ([]match.Run, error)
}

// Lister bundles the read-only listing operations.
type Lister struct {
	Corpora CorpusLister
	Runs    RunLister
}

// ListCorpora returns corpora filtered by title substring when title is
// non-empty, otherwise the newest limit corpora.
func (l *Lister) ListCorpora(ctx context.Context, title string, limit int) ([]lyrics.Corpus, error) {
	if title != "" {
		return l.Corpora.FindByTitle(ctx, title)
	}
	return l.Corpora.ListCorpora(ctx, limit)
}

// ListRuns returns runs scoped to one corpus when corpusID is non-empty,
// otherwise the newest limit runs.
func (l *Lister) ListRuns(ctx context.Context, corpusID string, limit int) ([]match.Run, error) {
	if corpusID != "" {
		return l.Runs.RunsByCorpus(ctx, corpusID)
	}
	return l.Runs.ListRuns(ctx, limit)
}
