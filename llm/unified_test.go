package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedClient_ResolveClient(t *testing.T) {
	u := NewUnifiedClient(UnifiedConfig{
		OpenAIKey:    "sk-test",
		AnthropicKey: "ak-test",
		OllamaURL:    "http://localhost:11434/v1",
	})

	client, model := u.resolveClient("gpt-4o-mini")
	assert.Same(t, u.openai, client.(*OpenAIClient))
	assert.Equal(t, "gpt-4o-mini", model)

	client, model = u.resolveClient("claude-3-5-sonnet")
	assert.Same(t, u.anthropic, client.(*AnthropicClient))
	assert.Equal(t, "claude-3-5-sonnet", model)

	client, model = u.resolveClient("ollama/llama3")
	assert.Same(t, u.ollama, client.(*OpenAIClient))
	assert.Equal(t, "llama3", model)

	// Unknown models fall back to the default provider.
	client, _ = u.resolveClient("some-custom-model")
	assert.Same(t, u.openai, client.(*OpenAIClient))
}

func TestUnifiedClient_MissingProviders(t *testing.T) {
	u := NewUnifiedClient(UnifiedConfig{AnthropicKey: "ak-test"})

	assert.False(t, u.HasOpenAI())
	assert.True(t, u.HasAnthropic())
	assert.False(t, u.HasOllama())

	// A gpt- model must not route to a provider that is not configured.
	client, _ := u.resolveClient("gpt-4o-mini")
	require.NotNil(t, client)
	assert.Same(t, u.anthropic, client.(*AnthropicClient))
}

func TestUnifiedClient_NoProviders(t *testing.T) {
	u := NewUnifiedClient(UnifiedConfig{})

	client, _ := u.resolveClient("gpt-4o-mini")
	assert.Nil(t, client)

	_, err := u.Chat(t.Context(), "gpt-4o-mini", "", "hi")
	assert.Error(t, err)
}

func TestUnifiedClient_ResolveEmbeddingClient(t *testing.T) {
	u := NewUnifiedClient(UnifiedConfig{
		OpenAIKey: "sk-test",
		OllamaURL: "http://localhost:11434/v1",
	})

	client, model := u.resolveEmbeddingClient("text-embedding-3-small")
	assert.Same(t, u.openai, client.(*OpenAIClient))
	assert.Equal(t, "text-embedding-3-small", model)

	client, model = u.resolveEmbeddingClient("ollama/nomic-embed-text")
	assert.Same(t, u.ollamaEmbed, client.(*OllamaEmbedClient))
	assert.Equal(t, "nomic-embed-text", model)
}

func TestUnifiedClient_EmbeddingFallsBackToOllama(t *testing.T) {
	u := NewUnifiedClient(UnifiedConfig{OllamaURL: "http://localhost:11434/v1"})

	client, _ := u.resolveEmbeddingClient("nomic-embed-text")
	require.NotNil(t, client)
	assert.Same(t, u.ollamaEmbed, client.(*OllamaEmbedClient))

	// OpenAI-style model names cannot be served without an OpenAI key.
	client, _ = u.resolveEmbeddingClient("text-embedding-3-small")
	assert.Nil(t, client)
}
