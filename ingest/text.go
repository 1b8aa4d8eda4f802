package ingest

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/findmystore"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var _ findmystore.Parser = (*TextParser)(nil)

// TextParser reads plain text and Markdown uploads. A byte order mark
// selects UTF-8 or UTF-16; text without a BOM that is not valid UTF-8 is
// decoded as Windows-1252, which is what spreadsheet exports usually are.
type TextParser struct{}

// NewTextParser creates a new TextParser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse decodes the text and takes the first Markdown H1 as the title.
func (p *TextParser) Parse(_ context.Context, data []byte) (*findmystore.ParseResult, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "decode text: %v", err)
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "document has no text")
	}
	return &findmystore.ParseResult{Title: markdownTitle(text), Text: text}, nil
}

func decodeText(data []byte) (string, error) {
	hasBOM := bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
	if !hasBOM && !utf8.Valid(data) {
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		return string(out), err
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	return string(out), err
}

func markdownTitle(text string) string {
	s := bufio.NewScanner(strings.NewReader(text))
	for s.Scan() {
		if title, ok := strings.CutPrefix(strings.TrimSpace(s.Text()), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}
