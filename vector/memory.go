package vector

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory vector store. The QA engine builds a fresh one
// per ingested document and swaps it in wholesale.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]Chunk
}

// NewMemoryStore creates a new in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chunks: make(map[string]Chunk),
	}
}

// Upsert stores chunks, updating existing ones by ID.
func (s *MemoryStore) Upsert(ctx context.Context, chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range chunks {
		s.chunks[ch.ID] = ch
	}
	return nil
}

// Search finds chunks similar to the given embedding using brute-force
// cosine similarity. Ties break on ordinal so results are deterministic.
func (s *MemoryStore) Search(ctx context.Context, embedding []float64, topK int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := s.computeSimilarities(embedding)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Ordinal < results[j].Chunk.Ordinal
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

func (s *MemoryStore) computeSimilarities(embedding []float64) []SearchResult {
	results := make([]SearchResult, 0, len(s.chunks))
	for _, ch := range s.chunks {
		if len(ch.Embedding) > 0 {
			results = append(results, SearchResult{Chunk: ch, Score: CosineSimilarity(embedding, ch.Embedding)})
		}
	}
	return results
}

// Count returns the number of chunks in the store.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Close is a no-op for in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
