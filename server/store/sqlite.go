package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hubenschmidt/go-docqa/server/store/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements HistoryStore using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed history store
func NewSQLiteStore(dsn string) (HistoryStore, error) {
	if dsn == "" {
		dsn = "data/docqa.db"
	}

	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, r AskRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO ask_history (
			id, timestamp, document_id, filename, question, answer,
			source_count, top_score, input_tokens, output_tokens,
			elapsed_ms, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.DocumentID, r.Filename, r.Question, r.Answer,
		r.SourceCount, r.TopScore, r.InputTokens, r.OutputTokens,
		r.ElapsedMs, r.Status,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (AskRecord, error) {
	var r AskRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, document_id, filename, question, answer,
			   source_count, top_score, input_tokens, output_tokens,
			   elapsed_ms, status
		FROM ask_history WHERE id = ?`, id).Scan(
		&r.ID, &r.Timestamp, &r.DocumentID, &r.Filename, &r.Question, &r.Answer,
		&r.SourceCount, &r.TopScore, &r.InputTokens, &r.OutputTokens,
		&r.ElapsedMs, &r.Status,
	)
	if err == sql.ErrNoRows {
		return r, ErrNotFound
	}
	if err != nil {
		return r, fmt.Errorf("query record: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]AskRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, document_id, filename, question, answer,
			   source_count, top_score, input_tokens, output_tokens,
			   elapsed_ms, status
		FROM ask_history ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []AskRecord
	for rows.Next() {
		var r AskRecord
		if err := rows.Scan(
			&r.ID, &r.Timestamp, &r.DocumentID, &r.Filename, &r.Question, &r.Answer,
			&r.SourceCount, &r.TopScore, &r.InputTokens, &r.OutputTokens,
			&r.ElapsedMs, &r.Status,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ask_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Summary(ctx context.Context) (HistorySummary, error) {
	var sum HistorySummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COALESCE(SUM(input_tokens), 0),
			   COALESCE(SUM(output_tokens), 0),
			   COALESCE(SUM(CASE WHEN status != 'success' THEN 1 ELSE 0 END), 0),
			   COALESCE(AVG(elapsed_ms), 0)
		FROM ask_history`).Scan(
		&sum.TotalAsks, &sum.TotalInputTokens, &sum.TotalOutputTokens,
		&sum.TotalErrors, &sum.AvgLatencyMs,
	)
	if err != nil {
		return sum, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
