// Package store implements the storage ports on SQLite. One Store owns
// the corpus metadata, the token index and the match run tables; it is
// the single production implementation behind the matching strategy's
// lookup port and the registration/query use cases.
//
// Mora sequences and mora match details cross the storage boundary as
// JSON blobs. That is a storage concern only: the domain types stay plain
// structured values and the codec lives entirely in this package.
package store

import (
	"context"
	"database/sql"
	"os"
	"time"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/match"
	"github.com/uta-tools/lyricmatch/core/sqlite"
)

// Store wraps a SQLite database holding corpora, tokens and match runs.
// Reads are safe for concurrent use; registered corpora are append-only,
// so match runs may read them concurrently without coordination.
type Store struct {
	db *sql.DB
}

// Compile-time port checks.
var (
	_ match.TokenLookup    = (*Store)(nil)
	_ match.CorpusMetadata = (*Store)(nil)
	_ match.Persistence    = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS corpora (
	corpus_id    TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL UNIQUE,
	title        TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS lyric_tokens (
	token_id    TEXT PRIMARY KEY,
	corpus_id   TEXT NOT NULL REFERENCES corpora(corpus_id),
	surface     TEXT NOT NULL,
	reading     TEXT NOT NULL,
	raw_reading TEXT NOT NULL,
	lemma       TEXT NOT NULL,
	pos         TEXT NOT NULL,
	line_index  INTEGER NOT NULL,
	token_index INTEGER NOT NULL,
	morae_json  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tokens_corpus_surface
	ON lyric_tokens(corpus_id, surface);
CREATE INDEX IF NOT EXISTS idx_tokens_corpus_reading
	ON lyric_tokens(corpus_id, reading);
CREATE INDEX IF NOT EXISTS idx_tokens_corpus_position
	ON lyric_tokens(corpus_id, line_index, token_index);

CREATE TABLE IF NOT EXISTS match_runs (
	run_id      TEXT PRIMARY KEY,
	corpus_id   TEXT NOT NULL REFERENCES corpora(corpus_id),
	input_text  TEXT NOT NULL,
	timestamp   TEXT NOT NULL,
	config_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS match_results (
	run_id                 TEXT NOT NULL REFERENCES match_runs(run_id),
	result_index           INTEGER NOT NULL,
	input_surface          TEXT NOT NULL,
	input_reading          TEXT NOT NULL,
	match_type             TEXT NOT NULL,
	matched_token_ids_json TEXT NOT NULL DEFAULT '[]',
	mora_details_json      TEXT,
	PRIMARY KEY (run_id, result_index)
);
`

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, apperrors.NewStore("open", path, err)
	}
	// SQLite serializes writers anyway; a single pooled connection also
	// keeps ":memory:" databases visible across the pool.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing database at path read-only. Schema
// creation is skipped; the file must already exist.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewStore("open", path, err)
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, apperrors.NewStore("open", path, err)
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return apperrors.NewStore("create", "schema", err)
	}
	return nil
}

// DB exposes the underlying handle for maintenance tooling.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Timestamps are stored as RFC 3339 text with fixed-width nanoseconds so
// that lexicographic ORDER BY matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStore("begin", "transaction", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewStore("commit", "transaction", err)
	}
	return nil
}
