package findmystore

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// Document represents an uploaded or imported document available for
// question answering.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Format      Format    `json:"format"`
	Source      string    `json:"source"` // File name or URL
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	ContentHash string    `json:"contentHash"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "document name required")
	}
	if d.Format == "" {
		return Errorf(EINVALID, "document format required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// CreateDocument creates a new document. Returns ECONFLICT if a document
	// with the same content hash already exists.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter, newest first.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// DeleteDocument permanently removes a document and all associated chunks.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID          *string `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	ContentHash *string `json:"contentHash,omitempty"`
	Format      *Format `json:"format,omitempty"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Format is a document format.
type Format string

// Format constants.
const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatURL      Format = "url"
)

// DetectFormat returns the format for a file name based on its extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".text", ".csv":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", Errorf(EINVALID, "unsupported document type %q (want pdf, docx, txt, md or html)", filepath.Ext(name))
}

// ParseResult holds the text extracted from a document.
type ParseResult struct {
	Title string
	Text  string // Plain text or Markdown
}

// Parser extracts text from a document of a specific format.
type Parser interface {
	// Parse reads the raw document bytes. Returns EINVALID if the input is
	// not a readable document of the parser's format.
	Parse(ctx context.Context, data []byte) (*ParseResult, error)
}

// Archive keeps the raw bytes of uploaded documents.
type Archive interface {
	// Put stores the raw bytes for a document and returns the stored path.
	Put(ctx context.Context, doc *Document, data []byte) (string, error)

	// Remove deletes the stored bytes for a document. Missing files are ignored.
	Remove(ctx context.Context, doc *Document) error
}
