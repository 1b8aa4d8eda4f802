// Package goquery parses uploaded HTML documents.
package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/findmystore"
)

var _ findmystore.Parser = (*Parser)(nil)

// chrome matches page furniture that never carries document content.
const chrome = "script, style, noscript, template, iframe, svg, nav, header, footer, aside, form, [role=navigation], [aria-hidden=true]"

// Parser strips page chrome from an HTML document and converts the rest to
// Markdown.
type Parser struct {
	conv findmystore.Converter
}

// NewParser creates a Parser that converts with conv.
func NewParser(conv findmystore.Converter) *Parser {
	return &Parser{conv: conv}
}

// Parse returns the document title and its body as Markdown. The title is
// taken from <title>, falling back to the first <h1>.
func (p *Parser) Parse(_ context.Context, data []byte) (*findmystore.ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("head title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	body := doc.Find("body")
	body.Find(chrome).Remove()

	// Prefer the main content region when the page marks one.
	content := body.Find("main, article, [role=main]").First()
	if content.Length() == 0 {
		content = body
	}
	if strings.TrimSpace(content.Text()) == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "HTML document has no text")
	}

	html, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "failed to render HTML: %v", err)
	}
	text, err := p.conv.Convert(html)
	if err != nil {
		return nil, err
	}
	return &findmystore.ParseResult{Title: title, Text: strings.TrimSpace(text)}, nil
}
