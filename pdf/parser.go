// Package pdf extracts text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/ledongthuc/pdf"
)

var _ findmystore.Parser = (*Parser)(nil)

// Parser extracts plain text from PDFs with ledongthuc/pdf.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the text of every page. Scanned PDFs without a text layer
// yield EINVALID.
func (p *Parser) Parse(_ context.Context, data []byte) (result *findmystore.ParseResult, err error) {
	if len(data) == 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "empty PDF")
	}

	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, findmystore.Errorf(findmystore.EINVALID, "unreadable PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "unreadable PDF: %v", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, findmystore.Errorf(findmystore.EINVALID, "read PDF page %d: %v", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(text)
		}
	}

	text := sb.String()
	if text == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "PDF has no extractable text")
	}
	return &findmystore.ParseResult{Title: title(r), Text: text}, nil
}

// title reads the document information dictionary.
func title(r *pdf.Reader) string {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	return strings.TrimSpace(info.Key("Title").Text())
}

