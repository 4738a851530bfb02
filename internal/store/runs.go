package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	apperrors "github.com/uta-tools/lyricmatch/core/errors"
	"github.com/uta-tools/lyricmatch/core/match"
)

// Save persists a run and all of its results in one transaction, so
// either the whole run becomes visible or none of it does.
func (s *Store) Save(ctx context.Context, run *match.Run) (string, error) {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return "", apperrors.NewStore("encode", "match_runs", err)
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_runs (run_id, corpus_id, input_text, timestamp, config_json)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, run.CorpusID, run.InputText, encodeTime(run.Timestamp), string(configJSON)); err != nil {
			return apperrors.NewStore("insert", "match_runs", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO match_results
			(run_id, result_index, input_surface, input_reading, match_type,
			 matched_token_ids_json, mora_details_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return apperrors.NewStore("prepare", "match_results", err)
		}
		defer stmt.Close()
		for i, res := range run.Results {
			ids := res.MatchedTokenIDs
			if ids == nil {
				ids = []string{}
			}
			idsJSON, err := json.Marshal(ids)
			if err != nil {
				return apperrors.NewStore("encode", "match_results", err)
			}
			var detailsJSON sql.NullString
			if res.MoraDetails != nil {
				b, err := json.Marshal(res.MoraDetails)
				if err != nil {
					return apperrors.NewStore("encode", "match_results", err)
				}
				detailsJSON = sql.NullString{String: string(b), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, run.ID, i, res.InputSurface,
				res.InputReading, string(res.Type), string(idsJSON), detailsJSON); err != nil {
				return apperrors.NewStore("insert", "match_results", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// FindByID returns the run with its ordered results, or (nil, nil) when
// no such run exists.
func (s *Store) FindByID(ctx context.Context, runID string) (*match.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, corpus_id, input_text, timestamp, config_json
		FROM match_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStore("query", "match_runs", err)
	}
	results, err := s.resultsByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return run, nil
}

// RunsByCorpus returns runs executed against a corpus, newest first,
// without their results.
func (s *Store) RunsByCorpus(ctx context.Context, corpusID string) ([]match.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, corpus_id, input_text, timestamp, config_json
		FROM match_runs WHERE corpus_id = ?
		ORDER BY timestamp DESC`, corpusID)
	if err != nil {
		return nil, apperrors.NewStore("query", "match_runs", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

// ListRuns returns up to limit runs, newest first, without their results.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]match.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, corpus_id, input_text, timestamp, config_json
		FROM match_runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStore("query", "match_runs", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

// DeleteRun removes a run and its results in one transaction.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM match_results WHERE run_id = ?`, runID); err != nil {
			return apperrors.NewStore("delete", "match_results", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM match_runs WHERE run_id = ?`, runID); err != nil {
			return apperrors.NewStore("delete", "match_runs", err)
		}
		return nil
	})
}

func (s *Store) resultsByRunID(ctx context.Context, runID string) ([]match.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT input_surface, input_reading, match_type,
		       matched_token_ids_json, mora_details_json
		FROM match_results WHERE run_id = ?
		ORDER BY result_index`, runID)
	if err != nil {
		return nil, apperrors.NewStore("query", "match_results", err)
	}
	defer rows.Close()
	var out []match.Result
	for rows.Next() {
		var res match.Result
		var typ, idsJSON string
		var detailsJSON sql.NullString
		if err := rows.Scan(&res.InputSurface, &res.InputReading, &typ,
			&idsJSON, &detailsJSON); err != nil {
			return nil, apperrors.NewStore("scan", "match_results", err)
		}
		res.Type = match.Type(typ)
		var ids []string
		if err := json.Unmarshal([]byte(idsJSON), &ids); err != nil {
			return nil, apperrors.NewStore("decode", "match_results", err)
		}
		if len(ids) > 0 {
			res.MatchedTokenIDs = ids
		}
		if detailsJSON.Valid {
			if err := json.Unmarshal([]byte(detailsJSON.String), &res.MoraDetails); err != nil {
				return nil, apperrors.NewStore("decode", "match_results", err)
			}
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("scan", "match_results", err)
	}
	return out, nil
}

func scanRun(row rowScanner) (*match.Run, error) {
	var run match.Run
	var timestamp, configJSON string
	if err := row.Scan(&run.ID, &run.CorpusID, &run.InputText, &timestamp, &configJSON); err != nil {
		return nil, err
	}
	t, err := decodeTime(timestamp)
	if err != nil {
		return nil, err
	}
	run.Timestamp = t
	if err := json.Unmarshal([]byte(configJSON), &run.Config); err != nil {
		return nil, err
	}
	return &run, nil
}

func collectRuns(rows *sql.Rows) ([]match.Run, error) {
	var out []match.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, apperrors.NewStore("scan", "match_runs", err)
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("scan", "match_runs", err)
	}
	return out, nil
}
