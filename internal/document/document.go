package document

import "context"

// Document is the text of one page of an uploaded file.
type Document struct {
	Text     string
	Page     int
	Metadata map[string]string
}

const (
	MetaPageLabel = "page_label"
	MetaFileName  = "file_name"
)

// Reader extracts page documents from raw file bytes.
type Reader interface {
	Read(ctx context.Context, filename string, data []byte) ([]Document, error)
}
