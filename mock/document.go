package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of findmystore.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *findmystore.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*findmystore.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter findmystore.DocumentFilter) ([]*findmystore.Document, error)
	DeleteDocumentFn   func(ctx context.Context, id string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *findmystore.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*findmystore.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter findmystore.DocumentFilter) ([]*findmystore.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

var _ findmystore.Parser = (*Parser)(nil)

// Parser is a mock implementation of findmystore.Parser.
type Parser struct {
	ParseFn func(ctx context.Context, data []byte) (*findmystore.ParseResult, error)
}

func (p *Parser) Parse(ctx context.Context, data []byte) (*findmystore.ParseResult, error) {
	return p.ParseFn(ctx, data)
}

var _ findmystore.Archive = (*Archive)(nil)

// Archive is a mock implementation of findmystore.Archive.
type Archive struct {
	PutFn    func(ctx context.Context, doc *findmystore.Document, data []byte) (string, error)
	RemoveFn func(ctx context.Context, doc *findmystore.Document) error
}

func (a *Archive) Put(ctx context.Context, doc *findmystore.Document, data []byte) (string, error) {
	return a.PutFn(ctx, doc, data)
}

func (a *Archive) Remove(ctx context.Context, doc *findmystore.Document) error {
	return a.RemoveFn(ctx, doc)
}
