// Package engine orchestrates the QA pipeline: load, chunk, embed, index,
// retrieve, generate. It holds a single mutable current index, replaced
// wholesale on every ingest.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hubenschmidt/go-docqa/chunker"
	"github.com/hubenschmidt/go-docqa/core"
	"github.com/hubenschmidt/go-docqa/llm"
	"github.com/hubenschmidt/go-docqa/loader"
	"github.com/hubenschmidt/go-docqa/monitor"
	"github.com/hubenschmidt/go-docqa/vector"
)

type Config struct {
	Client   llm.Client
	Embedder llm.EmbeddingClient

	ChatModel  string // default: gpt-4o-mini
	EmbedModel string // default: text-embedding-3-small

	ChunkSize    int
	ChunkOverlap int

	TopK     int     // default: 4
	MinScore float64 // results scoring below are dropped before prompting

	EmbedBatchSize   int // chunks per embedding request (default: 32)
	EmbedConcurrency int // concurrent embedding requests (default: 4)

	SystemPrompt string
	Collector    monitor.Collector
	Logger       *zap.Logger
}

// Engine answers questions about the most recently ingested document.
type Engine struct {
	client       llm.Client
	embedder     llm.EmbeddingClient
	chatModel    string
	embedModel   string
	chunker      *chunker.Chunker
	topK         int
	minScore     float64
	batchSize    int
	concurrency  int
	systemPrompt string
	collector    monitor.Collector
	log          *zap.Logger

	mu      sync.RWMutex
	current *documentIndex
}

// documentIndex is the immutable product of one ingest. Asks read it under
// RLock; a new ingest swaps the pointer, never mutates in place.
type documentIndex struct {
	docID      string
	filename   string
	store      vector.Store
	chunkCount int
	indexedAt  time.Time
}

func New(cfg Config) (*Engine, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: nil LLM client", core.ErrInvalidConfig)
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("%w: nil embedding client", core.ErrInvalidConfig)
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 4
	}
	batchSize := cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 32
	}
	concurrency := cfg.EmbedConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	collector := cfg.Collector
	if collector == nil {
		collector = monitor.NewNoOpCollector()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		client:       cfg.Client,
		embedder:     cfg.Embedder,
		chatModel:    chatModel,
		embedModel:   embedModel,
		chunker:      chunker.New(cfg.ChunkSize, cfg.ChunkOverlap),
		topK:         topK,
		minScore:     cfg.MinScore,
		batchSize:    batchSize,
		concurrency:  concurrency,
		systemPrompt: systemPrompt,
		collector:    collector,
		log:          logger,
	}, nil
}

// Ingest extracts, chunks, and embeds the document at path, then replaces
// the current index. A failed ingest leaves the previous index in place.
func (e *Engine) Ingest(ctx context.Context, path, filename string) (*IngestResult, error) {
	start := time.Now()

	doc, err := loader.Load(path, filename)
	if err != nil {
		return nil, core.NewQAError("ingest", "load", err)
	}

	pieces := e.chunker.Split(doc.Text)
	if len(pieces) == 0 {
		return nil, core.NewQAError("ingest", "chunk", core.ErrEmptyDocument)
	}

	docID := uuid.NewString()
	e.log.Info("ingesting document",
		zap.String("document_id", docID),
		zap.String("filename", filename),
		zap.Int("chunks", len(pieces)))

	chunks, err := e.embedChunks(ctx, docID, pieces)
	if err != nil {
		return nil, core.NewQAError("ingest", "embed", err)
	}

	store := vector.NewMemoryStore()
	if err := store.Upsert(ctx, chunks); err != nil {
		return nil, core.NewQAError("ingest", "index", err)
	}

	idx := &documentIndex{
		docID:      docID,
		filename:   filename,
		store:      store,
		chunkCount: len(chunks),
		indexedAt:  time.Now(),
	}

	e.mu.Lock()
	old := e.current
	e.current = idx
	e.mu.Unlock()
	if old != nil {
		old.store.Close()
	}

	elapsed := time.Since(start)
	e.collector.RecordIngest(len(chunks), elapsed)
	e.log.Info("document indexed",
		zap.String("document_id", docID),
		zap.Int("chunks", len(chunks)),
		zap.Duration("elapsed", elapsed))

	return &IngestResult{
		DocumentID: docID,
		Filename:   filename,
		ChunkCount: len(chunks),
		EmbedModel: e.embedModel,
		TextLength: len(doc.Text),
		ElapsedMs:  elapsed.Milliseconds(),
	}, nil
}

// embedChunks embeds pieces in batches, several batches in flight at once.
// Order is preserved: chunk ordinals follow document order.
func (e *Engine) embedChunks(ctx context.Context, docID string, pieces []string) ([]vector.Chunk, error) {
	chunks := make([]vector.Chunk, len(pieces))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for batchStart := 0; batchStart < len(pieces); batchStart += e.batchSize {
		batchEnd := batchStart + e.batchSize
		if batchEnd > len(pieces) {
			batchEnd = len(pieces)
		}
		offset, batch := batchStart, pieces[batchStart:batchEnd]

		g.Go(func() error {
			resps, err := e.embedder.EmbedBatch(gctx, e.embedModel, batch)
			if err != nil {
				return fmt.Errorf("embed batch at %d: %w", offset, err)
			}
			if len(resps) != len(batch) {
				return fmt.Errorf("embed batch at %d: got %d embeddings for %d inputs", offset, len(resps), len(batch))
			}
			for i, r := range resps {
				ord := offset + i
				chunks[ord] = vector.Chunk{
					ID:         fmt.Sprintf("%s-%d", docID, ord),
					DocumentID: docID,
					Ordinal:    ord,
					Text:       batch[i],
					Embedding:  r.Embedding,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// Ask retrieves the top-k chunks for the question and generates an answer
// with cited sources. topK <= 0 uses the engine default.
func (e *Engine) Ask(ctx context.Context, question string, topK int) (*Answer, error) {
	start := time.Now()

	results, err := e.retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Chat(ctx, e.chatModel, e.systemPrompt, buildUserPrompt(question, results))
	elapsed := time.Since(start)
	if err != nil {
		e.collector.RecordAsk(0, 0, elapsed, true)
		return nil, core.NewQAError("ask", "generate", err)
	}

	e.collector.RecordAsk(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, elapsed, false)

	return &Answer{
		Text:      resp.Content,
		Sources:   buildSources(results),
		Model:     e.chatModel,
		Usage:     resp.Usage,
		ElapsedMs: elapsed.Milliseconds(),
	}, nil
}

// AskStream is like Ask but streams the generated answer. Sources are
// returned immediately; the caller drains the channel for answer text.
func (e *Engine) AskStream(ctx context.Context, question string, topK int) (<-chan llm.StreamChunk, []Source, error) {
	results, err := e.retrieve(ctx, question, topK)
	if err != nil {
		return nil, nil, err
	}

	sc, ok := e.client.(llm.StreamClient)
	if !ok {
		// Non-streaming client: single chunk followed by done.
		ch := make(chan llm.StreamChunk, 2)
		go func() {
			defer close(ch)
			resp, err := e.client.Chat(ctx, e.chatModel, e.systemPrompt, buildUserPrompt(question, results))
			if err != nil {
				ch <- llm.StreamChunk{Error: err, Done: true}
				return
			}
			ch <- llm.StreamChunk{Content: resp.Content}
			ch <- llm.StreamChunk{Done: true, Usage: &resp.Usage}
		}()
		return ch, buildSources(results), nil
	}

	msgs := []llm.Message{{Role: string(core.RoleUser), Content: buildUserPrompt(question, results)}}
	ch, err := sc.ChatStreamWithMessages(ctx, e.chatModel, e.systemPrompt, msgs)
	if err != nil {
		return nil, nil, core.NewQAError("ask", "generate", err)
	}
	return ch, buildSources(results), nil
}

func (e *Engine) retrieve(ctx context.Context, question string, topK int) ([]vector.SearchResult, error) {
	if question == "" {
		return nil, core.ErrEmptyQuestion
	}

	e.mu.RLock()
	idx := e.current
	e.mu.RUnlock()
	if idx == nil {
		return nil, core.ErrNoDocument
	}

	if topK <= 0 {
		topK = e.topK
	}

	qEmbed, err := e.embedder.Embed(ctx, e.embedModel, question)
	if err != nil {
		return nil, core.NewQAError("ask", "embed", err)
	}

	results, err := idx.store.Search(ctx, qEmbed.Embedding, topK)
	if err != nil {
		return nil, core.NewQAError("ask", "retrieve", err)
	}

	if e.minScore > 0 {
		filtered := results[:0]
		for _, r := range results {
			if r.Score >= e.minScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	e.log.Debug("retrieved context",
		zap.String("document_id", idx.docID),
		zap.Int("results", len(results)))

	return results, nil
}

// Status reports the current index state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.current == nil {
		return Status{Indexed: false}
	}
	return Status{
		Indexed:    true,
		DocumentID: e.current.docID,
		Filename:   e.current.filename,
		ChunkCount: e.current.chunkCount,
		IndexedAt:  e.current.indexedAt,
	}
}

// Metrics returns a snapshot of engine activity.
func (e *Engine) Metrics() monitor.EngineMetrics {
	return e.collector.Snapshot()
}
