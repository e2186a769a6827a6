package engine

import (
	"time"

	"github.com/hubenschmidt/go-docqa/llm"
)

// IngestResult describes a completed document ingestion.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	EmbedModel string `json:"embed_model"`
	TextLength int    `json:"text_length"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

// Source is a cited snippet backing an answer. Ordinal is the citation
// number used in the answer text; Position is the chunk's place in the
// document.
type Source struct {
	Ordinal  int     `json:"ordinal"`
	Position int     `json:"position"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// Answer is the generated response plus its supporting sources.
type Answer struct {
	Text      string    `json:"text"`
	Sources   []Source  `json:"sources"`
	Model     string    `json:"model"`
	Usage     llm.Usage `json:"usage"`
	ElapsedMs int64     `json:"elapsed_ms"`
}

// Status reports whether a document is currently indexed.
type Status struct {
	Indexed    bool      `json:"indexed"`
	DocumentID string    `json:"document_id,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	ChunkCount int       `json:"chunk_count,omitempty"`
	IndexedAt  time.Time `json:"indexed_at,omitempty"`
}
