package engine

import (
	"fmt"
	"strings"

	"github.com/hubenschmidt/go-docqa/vector"
)

const defaultSystemPrompt = "You are a question-answering assistant for a single uploaded document. " +
	"Answer using only the numbered context passages below. " +
	"Cite the passages you used as [1], [2], and so on. " +
	"If the context does not contain the answer, say that the document does not cover it."

const snippetLimit = 300

// buildUserPrompt assembles the numbered context blocks followed by the
// question. Passage numbers line up with the returned source ordinals.
func buildUserPrompt(question string, results []vector.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Context passages:\n\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("[%d] %s\n\n", i+1, r.Chunk.Text))
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

// buildSources keeps the same numbering as the prompt, so an answer citing
// [2] refers to sources[1].
func buildSources(results []vector.SearchResult) []Source {
	sources := make([]Source, 0, len(results))
	for i, r := range results {
		sources = append(sources, Source{
			Ordinal:  i + 1,
			Position: r.Chunk.Ordinal,
			Snippet:  snippet(r.Chunk.Text),
			Score:    r.Score,
		})
	}
	return sources
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:snippetLimit])) + "..."
}
