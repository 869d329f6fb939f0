package chunker

import (
	"strings"
	"testing"
)

func TestChunkTextEmpty(t *testing.T) {
	if chunks := ChunkText("   \n\t ", Options{ChunkSize: 10}); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestChunkTextSingleChunk(t *testing.T) {
	chunks := ChunkText("Go is\n  a programming   language.", Options{ChunkSize: 100, Overlap: 10})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "Go is a programming language." {
		t.Errorf("unexpected normalised text %q", chunks[0].Text)
	}
	if chunks[0].RuneCount != len("Go is a programming language.") {
		t.Errorf("unexpected rune count %d", chunks[0].RuneCount)
	}
}

func TestChunkTextOverlapWithoutBoundaries(t *testing.T) {
	chunks := ChunkText("abcdefghij", Options{ChunkSize: 4, Overlap: 1})
	want := []string{"abcd", "defg", "ghij"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: got %q, want %q", i, chunks[i].Text, w)
		}
		if chunks[i].Index != i {
			t.Errorf("chunk %d: index %d", i, chunks[i].Index)
		}
	}
}

func TestChunkTextBreaksAtJapaneseSentence(t *testing.T) {
	chunks := ChunkText("今日は晴れ。明日は雨。", Options{ChunkSize: 8})
	want := []string{"今日は晴れ。", "明日は雨。"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: got %q, want %q", i, chunks[i].Text, w)
		}
	}
}

func TestChunkTextBreaksAtWhitespace(t *testing.T) {
	chunks := ChunkText("alpha beta gamma delta", Options{ChunkSize: 12})
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "alpha beta" {
		t.Errorf("expected cut at whitespace, got %q", chunks[0].Text)
	}
	joined := make([]string, len(chunks))
	for i, c := range chunks {
		joined[i] = c.Text
	}
	if strings.Join(joined, " ") != "alpha beta gamma delta" {
		t.Errorf("chunks lost text: %q", joined)
	}
}

func TestChunkTextInvalidOptionsUseDefaults(t *testing.T) {
	text := strings.Repeat("x", defaultChunkSize+10)
	chunks := ChunkText(text, Options{ChunkSize: 0, Overlap: -5})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks with default size, got %d", len(chunks))
	}
	if chunks[0].RuneCount != defaultChunkSize {
		t.Errorf("expected first chunk of %d runes, got %d", defaultChunkSize, chunks[0].RuneCount)
	}
}
