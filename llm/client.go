package llm

import (
	"context"
)

type Client interface {
	Chat(ctx context.Context, model string, system, user string) (*ChatResponse, error)
	ChatWithMessages(ctx context.Context, model string, system string, msgs []Message) (*ChatResponse, error)
}

type StreamClient interface {
	Client
	ChatStreamWithMessages(ctx context.Context, model string, system string, msgs []Message) (<-chan StreamChunk, error)
}

// EmbeddingClient turns text into vectors.
type EmbeddingClient interface {
	Embed(ctx context.Context, model, input string) (*EmbeddingResponse, error)
	EmbedBatch(ctx context.Context, model string, inputs []string) ([]EmbeddingResponse, error)
}

// ClientConfig sets the HTTP parameters for a provider client. Timeout is
// in seconds; zero means the provider default.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout int
}
