// Package store persists the question/answer history. This is an
// operational log of exchanges; the vector index itself is never persisted.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("not found")

// AskRecord is one question/answer exchange.
type AskRecord struct {
	ID           string  `json:"id"`
	Timestamp    int64   `json:"timestamp"`
	DocumentID   string  `json:"document_id"`
	Filename     string  `json:"filename"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	SourceCount  int     `json:"source_count"`
	TopScore     float64 `json:"top_score"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	ElapsedMs    int64   `json:"elapsed_ms"`
	Status       string  `json:"status"`
}

// HistorySummary contains aggregated history metrics
type HistorySummary struct {
	TotalAsks         int     `json:"total_asks"`
	TotalInputTokens  int     `json:"total_input_tokens"`
	TotalOutputTokens int     `json:"total_output_tokens"`
	TotalErrors       int     `json:"total_errors"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
}

// HistoryStore defines the interface for ask-history persistence
type HistoryStore interface {
	Add(ctx context.Context, r AskRecord) error
	Get(ctx context.Context, id string) (AskRecord, error)
	List(ctx context.Context) ([]AskRecord, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (HistorySummary, error)
	Close() error
}
