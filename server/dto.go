package server

import (
	"github.com/hubenschmidt/go-docqa/engine"
	"github.com/hubenschmidt/go-docqa/server/store"
)

// Re-export types from store package
type (
	AskRecord      = store.AskRecord
	HistorySummary = store.HistorySummary
)

type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
	Stream   bool   `json:"stream,omitempty"`
}

type AskResponse struct {
	Answer   string          `json:"answer"`
	Sources  []engine.Source `json:"sources"`
	Metadata Metadata        `json:"metadata"`
}

type Metadata struct {
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	ElapsedMs    int64  `json:"elapsed_ms"`
}

type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	EmbedModel string `json:"embed_model"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

type HistoryListResponse struct {
	Records []AskRecord `json:"records"`
}

type MetricsResponse struct {
	DocumentsIngested int     `json:"documents_ingested"`
	ChunksIndexed     int     `json:"chunks_indexed"`
	QuestionsAnswered int     `json:"questions_answered"`
	QuestionFailures  int     `json:"question_failures"`
	TokensIn          int     `json:"tokens_in"`
	TokensOut         int     `json:"tokens_out"`
	AvgAskLatencyMs   float64 `json:"avg_ask_latency_ms"`

	History HistorySummary `json:"history"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
