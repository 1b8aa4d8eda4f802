// Package etree extracts text from DOCX (Office Open XML) documents.
package etree

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/findmystore"
)

var _ findmystore.Parser = (*Parser)(nil)

// Maximum size of a single XML part read from the archive.
const maxPartSize = 32 << 20

// Parser converts a DOCX body into Markdown. Heading styles become Markdown
// headings so chunking can follow the document structure.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads word/document.xml and the core properties title.
func (p *Parser) Parse(_ context.Context, data []byte) (*findmystore.ParseResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "unreadable DOCX: %v", err)
	}

	body, err := readPart(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "DOCX has no word/document.xml")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "malformed DOCX body: %v", err)
	}

	var paragraphs []string
	title := ""
	for _, para := range doc.FindElements("//w:p") {
		text := strings.TrimSpace(paragraphText(para))
		if text == "" {
			continue
		}
		style := paragraphStyle(para)
		if style == "title" && title == "" {
			title = text
		}
		paragraphs = append(paragraphs, headingPrefix(style)+text)
	}
	if len(paragraphs) == 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "DOCX has no text")
	}

	if t := coreTitle(zr); t != "" {
		title = t
	}
	return &findmystore.ParseResult{Title: title, Text: strings.Join(paragraphs, "\n\n")}, nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, findmystore.Errorf(findmystore.EINVALID, "open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		if err != nil {
			return nil, findmystore.Errorf(findmystore.EINVALID, "read %s: %v", name, err)
		}
		return data, nil
	}
	return nil, nil
}

// paragraphText concatenates the runs of a paragraph in document order.
func paragraphText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			switch child.Tag {
			case "t":
				sb.WriteString(child.Text())
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			case "pPr", "rPr", "instrText", "delText":
			default:
				walk(child)
			}
		}
	}
	walk(el)
	return sb.String()
}

// paragraphStyle returns the lower-cased style ID, e.g. "heading1".
func paragraphStyle(para *etree.Element) string {
	s := para.FindElement("./w:pPr/w:pStyle")
	if s == nil {
		return ""
	}
	return strings.ToLower(s.SelectAttrValue("w:val", ""))
}

func headingPrefix(style string) string {
	if style == "title" {
		return "# "
	}
	if lvl, ok := strings.CutPrefix(style, "heading"); ok && len(lvl) == 1 && lvl[0] >= '1' && lvl[0] <= '6' {
		return strings.Repeat("#", int(lvl[0]-'0')) + " "
	}
	return ""
}

func coreTitle(zr *zip.Reader) string {
	data, err := readPart(zr, "docProps/core.xml")
	if err != nil || data == nil {
		return ""
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return ""
	}
	if el := doc.FindElement("//dc:title"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
