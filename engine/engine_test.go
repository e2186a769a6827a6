package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/go-docqa/core"
	"github.com/hubenschmidt/go-docqa/llm"
	"github.com/hubenschmidt/go-docqa/monitor"
)

var topics = []string{"apple", "banana", "cherry"}

// fakeEmbedder maps text onto keyword-count vectors so similarity is easy
// to reason about: a chunk about apples lands near the "apple" query.
type fakeEmbedder struct {
	failNext bool
}

func embedText(s string) []float64 {
	s = strings.ToLower(s)
	v := make([]float64, len(topics))
	for i, kw := range topics {
		v[i] = float64(strings.Count(s, kw)) + 0.001
	}
	return v
}

func (f *fakeEmbedder) Embed(ctx context.Context, model, input string) (*llm.EmbeddingResponse, error) {
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("%w: fake failure", core.ErrEmbeddingFailed)
	}
	return &llm.EmbeddingResponse{Embedding: embedText(input)}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, model string, inputs []string) ([]llm.EmbeddingResponse, error) {
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("%w: fake failure", core.ErrEmbeddingFailed)
	}
	out := make([]llm.EmbeddingResponse, len(inputs))
	for i, in := range inputs {
		out[i] = llm.EmbeddingResponse{Embedding: embedText(in)}
	}
	return out, nil
}

type fakeChat struct {
	lastSystem string
	lastUser   string
	reply      string
	err        error
}

func (f *fakeChat) Chat(ctx context.Context, model string, system, user string) (*llm.ChatResponse, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{
		Content: f.reply,
		Usage:   llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func (f *fakeChat) ChatWithMessages(ctx context.Context, model string, system string, msgs []llm.Message) (*llm.ChatResponse, error) {
	if len(msgs) > 0 {
		return f.Chat(ctx, model, system, msgs[len(msgs)-1].Content)
	}
	return f.Chat(ctx, model, system, "")
}

func sampleDocument() string {
	return strings.Repeat("Apples are red fruit. ", 5) +
		strings.Repeat("Bananas are yellow fruit. ", 5) +
		strings.Repeat("Cherries are small fruit. ", 5)
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestEngine(t *testing.T, chat *fakeChat, embed *fakeEmbedder) *Engine {
	t.Helper()
	eng, err := New(Config{
		Client:    chat,
		Embedder:  embed,
		ChunkSize: 110,
		Collector: monitor.NewInMemoryCollector(),
	})
	require.NoError(t, err)
	return eng
}

func TestNew_RequiresClients(t *testing.T) {
	_, err := New(Config{Embedder: &fakeEmbedder{}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = New(Config{Client: &fakeChat{}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestAsk_NoDocument(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "hi"}, &fakeEmbedder{})

	_, err := eng.Ask(context.Background(), "anything?", 0)
	assert.True(t, errors.Is(err, core.ErrNoDocument))
}

func TestAsk_EmptyQuestion(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "hi"}, &fakeEmbedder{})

	_, err := eng.Ask(context.Background(), "", 0)
	assert.True(t, errors.Is(err, core.ErrEmptyQuestion))
}

func TestIngest(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "ok"}, &fakeEmbedder{})
	path := writeDoc(t, sampleDocument())

	result, err := eng.Ingest(context.Background(), path, "doc.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, result.DocumentID)
	assert.Equal(t, "doc.txt", result.Filename)
	assert.Greater(t, result.ChunkCount, 1)
	assert.Equal(t, "text-embedding-3-small", result.EmbedModel)

	st := eng.Status()
	assert.True(t, st.Indexed)
	assert.Equal(t, result.DocumentID, st.DocumentID)
	assert.Equal(t, result.ChunkCount, st.ChunkCount)
	assert.False(t, st.IndexedAt.IsZero())
}

func TestIngest_ReplacesPreviousIndex(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "ok"}, &fakeEmbedder{})

	first, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "first.txt")
	require.NoError(t, err)

	second, err := eng.Ingest(context.Background(), writeDoc(t, "Cherries everywhere. Cherries again."), "second.txt")
	require.NoError(t, err)
	assert.NotEqual(t, first.DocumentID, second.DocumentID)

	st := eng.Status()
	assert.Equal(t, "second.txt", st.Filename)
	assert.Equal(t, second.DocumentID, st.DocumentID)
}

func TestIngest_FailureKeepsOldIndex(t *testing.T) {
	embed := &fakeEmbedder{}
	eng := newTestEngine(t, &fakeChat{reply: "ok"}, embed)

	first, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "first.txt")
	require.NoError(t, err)

	embed.failNext = true
	_, err = eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "second.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmbeddingFailed))

	st := eng.Status()
	assert.Equal(t, first.DocumentID, st.DocumentID)
	assert.Equal(t, "first.txt", st.Filename)
}

func TestIngest_EmptyDocument(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "ok"}, &fakeEmbedder{})

	_, err := eng.Ingest(context.Background(), writeDoc(t, "   \n  "), "blank.txt")
	assert.True(t, errors.Is(err, core.ErrEmptyDocument))
}

func TestAsk(t *testing.T) {
	chat := &fakeChat{reply: "Apples are red [1]."}
	eng := newTestEngine(t, chat, &fakeEmbedder{})

	_, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "doc.txt")
	require.NoError(t, err)

	answer, err := eng.Ask(context.Background(), "What color are apples?", 0)
	require.NoError(t, err)
	assert.Equal(t, "Apples are red [1].", answer.Text)
	assert.Equal(t, "gpt-4o-mini", answer.Model)
	assert.Equal(t, 10, answer.Usage.PromptTokens)
	require.NotEmpty(t, answer.Sources)

	// Best match should be the apple chunk, numbered as the first passage.
	assert.Equal(t, 1, answer.Sources[0].Ordinal)
	assert.Contains(t, strings.ToLower(answer.Sources[0].Snippet), "apple")

	// The prompt carries the retrieved passages and the question.
	assert.Contains(t, chat.lastUser, "Context passages:")
	assert.Contains(t, chat.lastUser, "[1]")
	assert.Contains(t, chat.lastUser, "Question: What color are apples?")
}

func TestAsk_TopKOverride(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "ok"}, &fakeEmbedder{})

	_, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "doc.txt")
	require.NoError(t, err)

	answer, err := eng.Ask(context.Background(), "bananas?", 1)
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 1)
	assert.Contains(t, strings.ToLower(answer.Sources[0].Snippet), "banana")
}

func TestAsk_MinScoreFilter(t *testing.T) {
	eng, err := New(Config{
		Client:    &fakeChat{reply: "ok"},
		Embedder:  &fakeEmbedder{},
		ChunkSize: 110,
		MinScore:  0.95,
	})
	require.NoError(t, err)

	_, err = eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "doc.txt")
	require.NoError(t, err)

	answer, err := eng.Ask(context.Background(), "apple", 0)
	require.NoError(t, err)
	require.NotEmpty(t, answer.Sources)
	for _, src := range answer.Sources {
		assert.GreaterOrEqual(t, src.Score, 0.95)
		assert.Contains(t, strings.ToLower(src.Snippet), "apple")
	}
}

func TestAsk_GenerateError(t *testing.T) {
	chat := &fakeChat{err: fmt.Errorf("%w: upstream 500", core.ErrLLMRequest)}
	eng := newTestEngine(t, chat, &fakeEmbedder{})

	_, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "doc.txt")
	require.NoError(t, err)

	_, err = eng.Ask(context.Background(), "anything?", 0)
	assert.True(t, errors.Is(err, core.ErrLLMRequest))
}

func TestAskStream_NonStreamingFallback(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "streamed answer"}, &fakeEmbedder{})

	_, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "doc.txt")
	require.NoError(t, err)

	ch, sources, err := eng.AskStream(context.Background(), "apples?", 0)
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	var text string
	var usage *llm.Usage
	for chunk := range ch {
		require.NoError(t, chunk.Error)
		text += chunk.Content
		if chunk.Done {
			usage = chunk.Usage
		}
	}
	assert.Equal(t, "streamed answer", text)
	require.NotNil(t, usage)
	assert.Equal(t, 5, usage.CompletionTokens)
}

func TestMetrics(t *testing.T) {
	eng := newTestEngine(t, &fakeChat{reply: "ok"}, &fakeEmbedder{})

	_, err := eng.Ingest(context.Background(), writeDoc(t, sampleDocument()), "doc.txt")
	require.NoError(t, err)
	_, err = eng.Ask(context.Background(), "apples?", 0)
	require.NoError(t, err)

	m := eng.Metrics()
	assert.Equal(t, 1, m.Ingest.Documents)
	assert.Greater(t, m.Ingest.Chunks, 1)
	assert.Equal(t, 1, m.Ask.Questions)
	assert.Equal(t, 0, m.Ask.Failures)
	assert.Equal(t, 10, m.Ask.TokensIn)
	assert.Equal(t, 5, m.Ask.TokensOut)
}
