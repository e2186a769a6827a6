// Package docqa provides question answering over a single uploaded document.
//
// Example usage:
//
//	client := docqa.NewUnifiedClient(docqa.UnifiedConfig{OpenAIKey: os.Getenv("OPENAI_API_KEY")})
//	eng, err := docqa.NewEngine(docqa.EngineConfig{Client: client, Embedder: client})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := eng.Ingest(ctx, "report.pdf", "report.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//	answer, err := eng.Ask(ctx, "What is the executive summary?", 0)
package docqa

import (
	"net/http"

	"github.com/hubenschmidt/go-docqa/chunker"
	"github.com/hubenschmidt/go-docqa/config"
	"github.com/hubenschmidt/go-docqa/core"
	"github.com/hubenschmidt/go-docqa/engine"
	"github.com/hubenschmidt/go-docqa/llm"
	"github.com/hubenschmidt/go-docqa/loader"
	"github.com/hubenschmidt/go-docqa/monitor"
	"github.com/hubenschmidt/go-docqa/server"
	"github.com/hubenschmidt/go-docqa/vector"
	"github.com/hubenschmidt/go-docqa/web"
)

// Engine aliases
type (
	Engine       = engine.Engine
	EngineConfig = engine.Config
	IngestResult = engine.IngestResult
	Answer       = engine.Answer
	Source       = engine.Source
	Status       = engine.Status
)

// NewEngine creates a new QA engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	return engine.New(cfg)
}

// LLM client aliases
type (
	LLMClient       = llm.Client
	EmbeddingClient = llm.EmbeddingClient
	UnifiedClient   = llm.UnifiedClient
	UnifiedConfig   = llm.UnifiedConfig
)

// NewUnifiedClient creates a new unified LLM client that auto-routes to the
// appropriate provider.
func NewUnifiedClient(cfg UnifiedConfig) *UnifiedClient {
	return llm.NewUnifiedClient(cfg)
}

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	return server.New(cfg)
}

// WebHandler returns an http.Handler that serves the embedded web UI.
func WebHandler() http.Handler {
	return web.Handler()
}

// Core aliases
type (
	Message = core.Message
	QAError = core.QAError
)

// Sentinel errors re-exported for callers matching with errors.Is.
var (
	ErrNoDocument        = core.ErrNoDocument
	ErrUnsupportedFormat = core.ErrUnsupportedFormat
	ErrEmptyDocument     = core.ErrEmptyDocument
	ErrEmptyQuestion     = core.ErrEmptyQuestion
)

// Document loading aliases
type Document = loader.Document

// LoadDocument extracts the plain text of the file at path.
func LoadDocument(path, name string) (*Document, error) {
	return loader.Load(path, name)
}

// SupportedExtensions lists the file extensions the loader accepts.
func SupportedExtensions() []string {
	return loader.SupportedExtensions()
}

// Chunker aliases
type Chunker = chunker.Chunker

// NewChunker creates a chunker with the given size and overlap in runes.
func NewChunker(size, overlap int) *Chunker {
	return chunker.New(size, overlap)
}

// Vector store aliases
type (
	VectorStore        = vector.Store
	VectorChunk        = vector.Chunk
	VectorSearchResult = vector.SearchResult
)

// NewMemoryVectorStore creates a new in-memory vector store.
func NewMemoryVectorStore() *vector.MemoryStore {
	return vector.NewMemoryStore()
}

// Monitor aliases
type (
	Collector         = monitor.Collector
	InMemoryCollector = monitor.InMemoryCollector
	EngineMetrics     = monitor.EngineMetrics
)

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector() *InMemoryCollector {
	return monitor.NewInMemoryCollector()
}

// Config aliases
type AppConfig = config.AppConfig

// LoadConfig reads the application config from path, falling back to
// defaults when the file does not exist.
func LoadConfig(path string) (*AppConfig, error) {
	return config.Load(path)
}
