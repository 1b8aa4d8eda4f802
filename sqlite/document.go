package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/findmystore"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ findmystore.DocumentService = (*DocumentService)(nil)

// DocumentService implements findmystore.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns a 16-digit hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

const documentColumns = "id, name, format, source, title, content, content_hash, size, created_at"

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *findmystore.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ContentHash = hashContent(doc.Content)
	doc.ID = uuid.New().String()
	doc.CreatedAt = time.Now().UTC()
	if doc.Size == 0 {
		doc.Size = int64(len(doc.Content))
	}

	// The hash check and the insert are one statement so concurrent uploads
	// of the same content cannot both pass.
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, format, source, title, content, content_hash, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING
	`, doc.ID, doc.Name, string(doc.Format), doc.Source, doc.Title, doc.Content, doc.ContentHash,
		doc.Size, formatTime(doc.CreatedAt))
	if err != nil {
		doc.ID = ""
		if isConstraintErr(err) {
			return findmystore.Errorf(findmystore.ECONFLICT, "document already exists")
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	doc.ID = ""

	var existingID string
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM documents WHERE content_hash = ?", doc.ContentHash).Scan(&existingID); err != nil {
		return fmt.Errorf("find duplicate document: %w", err)
	}
	return findmystore.Errorf(findmystore.ECONFLICT, "document already uploaded as %s", existingID)
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*findmystore.Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, findmystore.Errorf(findmystore.ENOTFOUND, "document not found")
	}
	return doc, err
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter findmystore.DocumentFilter) ([]*findmystore.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}
	if filter.Format != nil {
		query.WriteString(" AND format = ?")
		args = append(args, string(*filter.Format))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*findmystore.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document. Chunks are removed by the
// foreign key cascade.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return findmystore.Errorf(findmystore.ENOTFOUND, "document not found")
	}

	return nil
}

func scanDocument(row scanner) (*findmystore.Document, error) {
	var doc findmystore.Document
	var format, createdAt string

	if err := row.Scan(&doc.ID, &doc.Name, &format, &doc.Source, &doc.Title, &doc.Content,
		&doc.ContentHash, &doc.Size, &createdAt); err != nil {
		return nil, err
	}
	doc.Format = findmystore.Format(format)

	var err error
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
