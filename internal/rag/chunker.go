package rag

import "strings"

// Chunker splits document text into overlapping character chunks.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker returns a chunker producing chunks of roughly size characters
// sharing overlap characters with their predecessor.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split breaks text into chunks. Chunk boundaries prefer whitespace near
// the target size so instructions are not cut mid-word.
func (c *Chunker) Split(source, text string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []Chunk
	runes := []rune(text)
	start := 0
	idx := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else if soft := breakNear(runes, end); soft-c.overlap > start {
			// Only take the whitespace boundary when the next chunk still
			// advances; otherwise keep the hard boundary.
			end = soft
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, Chunk{Source: source, Index: idx, Text: piece})
			idx++
		}

		if end == len(runes) {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// breakNear walks backwards from pos looking for whitespace to break on,
// giving up after 100 characters.
func breakNear(runes []rune, pos int) int {
	limit := pos - 100
	if limit < 1 {
		limit = 1
	}
	for i := pos; i > limit; i-- {
		switch runes[i-1] {
		case ' ', '\n', '\t':
			return i
		}
	}
	return pos
}
