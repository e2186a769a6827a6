// Package vector provides the in-memory vector index and similarity search.
package vector

import "context"

// Chunk is an embedded slice of the current document.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Ordinal    int       `json:"ordinal"`
	Text       string    `json:"text"`
	Embedding  []float64 `json:"embedding,omitempty"`
}

// SearchResult represents a search result with similarity score.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"` // cosine similarity
}

// Store provides vector storage and similarity search operations.
type Store interface {
	// Upsert stores chunks, updating existing ones by ID.
	Upsert(ctx context.Context, chunks []Chunk) error

	// Search finds chunks similar to the given embedding.
	Search(ctx context.Context, embedding []float64, topK int) ([]SearchResult, error)

	// Count returns the number of stored chunks.
	Count() int

	// Close releases resources.
	Close() error
}
