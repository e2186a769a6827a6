package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hubenschmidt/go-docqa/server/store/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements HistoryStore using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed history store
func NewPostgresStore(dsn string) (HistoryStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runPostgresMigrations(db *sql.DB) error {
	data, err := migrations.Postgres.ReadFile("postgres/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, r AskRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ask_history (
			id, timestamp, document_id, filename, question, answer,
			source_count, top_score, input_tokens, output_tokens,
			elapsed_ms, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			answer = EXCLUDED.answer,
			source_count = EXCLUDED.source_count,
			top_score = EXCLUDED.top_score,
			input_tokens = EXCLUDED.input_tokens,
			output_tokens = EXCLUDED.output_tokens,
			elapsed_ms = EXCLUDED.elapsed_ms,
			status = EXCLUDED.status`,
		r.ID, r.Timestamp, r.DocumentID, r.Filename, r.Question, r.Answer,
		r.SourceCount, r.TopScore, r.InputTokens, r.OutputTokens,
		r.ElapsedMs, r.Status,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (AskRecord, error) {
	var r AskRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, document_id, filename, question, answer,
			   source_count, top_score, input_tokens, output_tokens,
			   elapsed_ms, status
		FROM ask_history WHERE id = $1`, id).Scan(
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

func (s *PostgresStore) List(ctx context.Context) ([]AskRecord, error) {
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

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ask_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Summary(ctx context.Context) (HistorySummary, error) {
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

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
