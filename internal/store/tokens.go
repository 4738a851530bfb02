package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/lyrics"
	"github.com/uta-tools/lyricmatch/core/match"
	"github.com/uta-tools/lyricmatch/core/mora"
	"github.com/uta-tools/lyricmatch/core/reading"
)

// SaveTokens stores tokens in bulk inside one transaction. The mora
// sequence of each token is serialized alongside it so that per-mora
// lookups run entirely in SQL.
func (s *Store) SaveTokens(ctx context.Context, tokens []lyrics.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO lyric_tokens
			(token_id, corpus_id, surface, reading, raw_reading, lemma, pos,
			 line_index, token_index, morae_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return apperrors.NewStore("prepare", "lyric_tokens", err)
		}
		defer stmt.Close()
		for _, t := range tokens {
			moraeJSON, err := json.Marshal(mora.Values(t.Morae()))
			if err != nil {
				return apperrors.NewStore("encode", "lyric_tokens", err)
			}
			if _, err := stmt.ExecContext(ctx,
				t.ID(), t.CorpusID, t.Surface, t.Reading.Normalized(), t.Reading.Raw(),
				t.Lemma, t.POS, t.LineIndex, t.TokenIndex, string(moraeJSON)); err != nil {
				return apperrors.NewStore("insert", "lyric_tokens", err)
			}
		}
		return nil
	})
}

const tokenColumns = `token_id, corpus_id, surface, raw_reading, lemma, pos, line_index, token_index`

// TokenByID returns a single token, or a NotFoundError.
func (s *Store) TokenByID(ctx context.Context, tokenID string) (*lyrics.Token, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tokenColumns+` FROM lyric_tokens WHERE token_id = ?`, tokenID)
	t, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("token", tokenID)
	}
	if err != nil {
		return nil, apperrors.NewStore("query", "lyric_tokens", err)
	}
	return t, nil
}

// TokensByIDs resolves tokens for the given ids in ascending position
// order. Unknown ids are skipped.
func (s *Store) TokensByIDs(ctx context.Context, tokenIDs []string) ([]lyrics.Token, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tokenIDs)), ",")
	args := make([]any, len(tokenIDs))
	for i, id := range tokenIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tokenColumns+` FROM lyric_tokens
		WHERE token_id IN (`+placeholders+`)
		ORDER BY line_index, token_index`, args...)
	if err != nil {
		return nil, apperrors.NewStore("query", "lyric_tokens", err)
	}
	defer rows.Close()
	return collectTokens(rows)
}

// CountTokens returns the number of tokens in a corpus.
func (s *Store) CountTokens(ctx context.Context, corpusID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lyric_tokens WHERE corpus_id = ?`, corpusID).Scan(&n)
	if err != nil {
		return 0, apperrors.NewStore("query", "lyric_tokens", err)
	}
	return n, nil
}

// ListTokens returns up to limit tokens of a corpus in position order.
func (s *Store) ListTokens(ctx context.Context, corpusID string, limit int) ([]lyrics.Token, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tokenColumns+` FROM lyric_tokens
		WHERE corpus_id = ?
		ORDER BY line_index, token_index LIMIT ?`, corpusID, limit)
	if err != nil {
		return nil, apperrors.NewStore("query", "lyric_tokens", err)
	}
	defer rows.Close()
	return collectTokens(rows)
}

// FindBySurface returns ids of tokens whose surface equals surface
// exactly, in ascending position order.
func (s *Store) FindBySurface(ctx context.Context, corpusID, surface string) ([]string, error) {
	return s.findIDs(ctx, `
		SELECT token_id FROM lyric_tokens
		WHERE corpus_id = ? AND surface = ?
		ORDER BY line_index, token_index`, corpusID, surface)
}

// FindByReading returns ids of tokens whose normalized reading equals
// normalizedReading exactly, in ascending position order.
func (s *Store) FindByReading(ctx context.Context, corpusID, normalizedReading string) ([]string, error) {
	return s.findIDs(ctx, `
		SELECT token_id FROM lyric_tokens
		WHERE corpus_id = ? AND reading = ?
		ORDER BY line_index, token_index`, corpusID, normalizedReading)
}

// LocateMora returns the first occurrence of the mora in the corpus, by
// ascending line index, token index, then mora position, or nil when the
// corpus contains no such mora. The serialized mora array is unnested
// with json_each so the scan stays inside SQLite.
func (s *Store) LocateMora(ctx context.Context, corpusID, m string) (*match.MoraLocation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.token_id, je.key
		FROM lyric_tokens t, json_each(t.morae_json) je
		WHERE t.corpus_id = ? AND je.value = ?
		ORDER BY t.line_index, t.token_index, je.key
		LIMIT 1`, corpusID, m)
	var loc match.MoraLocation
	err := row.Scan(&loc.TokenID, &loc.MoraIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStore("query", "lyric_tokens", err)
	}
	return &loc, nil
}

func (s *Store) findIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStore("query", "lyric_tokens", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewStore("scan", "lyric_tokens", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("scan", "lyric_tokens", err)
	}
	return ids, nil
}

func scanToken(row rowScanner) (*lyrics.Token, error) {
	var t lyrics.Token
	var tokenID, rawReading string
	if err := row.Scan(&tokenID, &t.CorpusID, &t.Surface, &rawReading,
		&t.Lemma, &t.POS, &t.LineIndex, &t.TokenIndex); err != nil {
		return nil, err
	}
	t.Reading = reading.New(rawReading)
	return &t, nil
}

func collectTokens(rows *sql.Rows) ([]lyrics.Token, error) {
	var out []lyrics.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, apperrors.NewStore("scan", "lyric_tokens", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("scan", "lyric_tokens", err)
	}
	return out, nil
}
