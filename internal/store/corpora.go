package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/lyrics"
)

// SaveCorpus stores a corpus metadata record.
func (s *Store) SaveCorpus(ctx context.Context, c *lyrics.Corpus) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO corpora (corpus_id, content_hash, title, created_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.ContentHash, c.Title, encodeTime(c.CreatedAt))
	if err != nil {
		return apperrors.NewStore("insert", "corpora", err)
	}
	return nil
}

// Get returns the corpus with the given id, or a NotFoundError.
func (s *Store) Get(ctx context.Context, corpusID string) (*lyrics.Corpus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT corpus_id, content_hash, title, created_at
		FROM corpora WHERE corpus_id = ?`, corpusID)
	c, err := scanCorpus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("corpus", corpusID)
	}
	if err != nil {
		return nil, apperrors.NewStore("query", "corpora", err)
	}
	return c, nil
}

// FindByHash returns the corpus with the given content hash, or nil when
// no identical text has been registered.
func (s *Store) FindByHash(ctx context.Context, contentHash string) (*lyrics.Corpus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT corpus_id, content_hash, title, created_at
		FROM corpora WHERE content_hash = ?`, contentHash)
	c, err := scanCorpus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStore("query", "corpora", err)
	}
	return c, nil
}

// FindByTitle returns corpora whose title contains the given substring,
// newest first.
func (s *Store) FindByTitle(ctx context.Context, title string) ([]lyrics.Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT corpus_id, content_hash, title, created_at
		FROM corpora WHERE title LIKE '%' || ? || '%'
		ORDER BY created_at DESC`, title)
	if err != nil {
		return nil, apperrors.NewStore("query", "corpora", err)
	}
	defer rows.Close()
	return collectCorpora(rows)
}

// ListCorpora returns up to limit corpora, newest first.
func (s *Store) ListCorpora(ctx context.Context, limit int) ([]lyrics.Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT corpus_id, content_hash, title, created_at
		FROM corpora ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStore("query", "corpora", err)
	}
	defer rows.Close()
	return collectCorpora(rows)
}

// DeleteCorpus removes a corpus and, cascading, its tokens, runs and
// results in one transaction.
func (s *Store) DeleteCorpus(ctx context.Context, corpusID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM match_results WHERE run_id IN
				(SELECT run_id FROM match_runs WHERE corpus_id = ?)`, corpusID); err != nil {
			return apperrors.NewStore("delete", "match_results", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM match_runs WHERE corpus_id = ?`, corpusID); err != nil {
			return apperrors.NewStore("delete", "match_runs", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM lyric_tokens WHERE corpus_id = ?`, corpusID); err != nil {
			return apperrors.NewStore("delete", "lyric_tokens", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM corpora WHERE corpus_id = ?`, corpusID); err != nil {
			return apperrors.NewStore("delete", "corpora", err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCorpus(row rowScanner) (*lyrics.Corpus, error) {
	var c lyrics.Corpus
	var createdAt string
	if err := row.Scan(&c.ID, &c.ContentHash, &c.Title, &createdAt); err != nil {
		return nil, err
	}
	t, err := decodeTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = t
	return &c, nil
}

func collectCorpora(rows *sql.Rows) ([]lyrics.Corpus, error) {
	var out []lyrics.Corpus
	for rows.Next() {
		c, err := scanCorpus(rows)
		if err != nil {
			return nil, apperrors.NewStore("scan", "corpora", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("scan", "corpora", err)
	}
	return out, nil
}
