package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrNoText     = errors.New("document has no extractable text")
	ErrUnreadable = errors.New("document is not a readable pdf")
)

// PDFReader extracts one Document per PDF page. The upload is written to a
// temp file that only lives for the duration of Read.
type PDFReader struct {
	// TempDir overrides os.TempDir; empty means the default.
	TempDir string
}

func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

func (r *PDFReader) Read(ctx context.Context, filename string, data []byte) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(r.TempDir, "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	docs, err := extractPages(ctx, reader, filename)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoText
	}
	return docs, nil
}

// extractPages walks every page. The pdf package panics on some malformed
// object graphs, so panics are turned into errors here.
func extractPages(ctx context.Context, reader *pdf.Reader, filename string) (docs []Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			docs, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()
	fonts := make(map[string]*pdf.Font)
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, perr := page.GetPlainText(fonts)
		if perr != nil {
			return nil, fmt.Errorf("extract page %d: %w", pageNum, perr)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{
			Text: text,
			Page: pageNum,
			Metadata: map[string]string{
				MetaPageLabel: strconv.Itoa(pageNum),
				MetaFileName:  filename,
			},
		})
	}
	return docs, nil
}
