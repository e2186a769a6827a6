// Package chunker splits document text into fixed-size overlapping chunks
// for embedding and retrieval.
package chunker

import (
	"strings"
	"unicode"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 200

	// A window only breaks early at a sentence or word boundary if the
	// boundary falls inside its last fifth.
	boundaryZone = 5
)

type Chunker struct {
	Size    int // maximum chunk length in runes
	Overlap int // runes carried over into the next chunk
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Split cuts text into chunks of at most Size runes with Overlap runes of
// context repeated between consecutive chunks. Cuts prefer sentence ends,
// then word boundaries. Whitespace-only chunks are dropped. The output is
// deterministic for a given input.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.Size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.adjustBreak(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end == len(runes) {
			break
		}
		next := end - c.Overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// adjustBreak moves the cut point back to the nearest sentence end, or
// failing that the nearest word boundary, within the window's tail.
func (c *Chunker) adjustBreak(runes []rune, start, end int) int {
	limit := end - c.Size/boundaryZone
	if limit < start+1 {
		limit = start + 1
	}

	for i := end - 1; i >= limit; i-- {
		if isSentenceEnd(runes, i) {
			return i + 1
		}
	}
	for i := end - 1; i >= limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(runes []rune, i int) bool {
	switch runes[i] {
	case '.', '!', '?':
	default:
		return false
	}
	// Terminator counts only when followed by whitespace or end of text.
	return i+1 >= len(runes) || unicode.IsSpace(runes[i+1])
}
