package document

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-pages/internal/document/documenttest"
)

func TestPDFReaderExtractsPages(t *testing.T) {
	dir := t.TempDir()
	r := &PDFReader{TempDir: dir}

	docs, err := r.Read(context.Background(), "manual.pdf", documenttest.PDF("Hello page one", "Second (page) text"))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Contains(t, docs[0].Text, "Hello page one")
	assert.Equal(t, 1, docs[0].Page)
	assert.Equal(t, "1", docs[0].Metadata[MetaPageLabel])
	assert.Equal(t, "manual.pdf", docs[0].Metadata[MetaFileName])

	assert.Contains(t, docs[1].Text, "Second (page) text")
	assert.Equal(t, "2", docs[1].Metadata[MetaPageLabel])

	assertTempDirEmpty(t, dir)
}

func TestPDFReaderRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	r := &PDFReader{TempDir: dir}

	_, err := r.Read(context.Background(), "notes.pdf", []byte("this is not a pdf at all, just some text padding it out past one hundred bytes so the trailer scan has room to look"))
	require.ErrorIs(t, err, ErrUnreadable)

	assertTempDirEmpty(t, dir)
}

func TestPDFReaderNoText(t *testing.T) {
	dir := t.TempDir()
	r := &PDFReader{TempDir: dir}

	_, err := r.Read(context.Background(), "blank.pdf", documenttest.PDF("   "))
	require.ErrorIs(t, err, ErrNoText)

	assertTempDirEmpty(t, dir)
}

func TestPDFReaderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFReader().Read(ctx, "a.pdf", documenttest.PDF("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func assertTempDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file should be removed after Read")
}
