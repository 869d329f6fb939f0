package chunker

import (
	"strings"
	"unicode"
)

// Options controls how text is chunked. Sizes are measured in runes so text
// without word separators (Japanese, Chinese) still splits evenly.
type Options struct {
	ChunkSize int
	Overlap   int
}

// Chunk represents a slice of the document text.
type Chunk struct {
	Index     int
	Text      string
	RuneCount int
}

const defaultChunkSize = 1024

// ChunkText performs a sliding window with overlap. A window is cut at the last
// sentence end, or failing that the last whitespace, found in its second half.
func ChunkText(text string, opts Options) []Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	if opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		opts.Overlap = 0
	}

	runes := []rune(strings.Join(strings.Fields(text), " "))
	var chunks []Chunk
	if len(runes) == 0 {
		return chunks
	}

	for start := 0; start < len(runes); {
		end := start + opts.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start, end)
		}
		segment := strings.TrimSpace(string(runes[start:end]))
		if segment != "" {
			chunks = append(chunks, Chunk{
				Index:     len(chunks),
				Text:      segment,
				RuneCount: len([]rune(segment)),
			})
		}
		if end == len(runes) {
			break
		}
		next := end - opts.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func breakPoint(runes []rune, start, end int) int {
	floor := start + (end-start)/2
	for i := end; i > floor; i-- {
		if isSentenceEnd(runes[i-1]) {
			return i
		}
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
