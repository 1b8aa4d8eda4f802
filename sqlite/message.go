package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/findmystore"
)

// Compile-time interface verification.
var _ findmystore.MessageService = (*MessageService)(nil)

// MessageService implements findmystore.MessageService using SQLite.
type MessageService struct {
	db *DB
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *DB) *MessageService {
	return &MessageService{db: db}
}

// CreateMessages appends messages to their sessions in one transaction.
func (s *MessageService) CreateMessages(ctx context.Context, msgs []*findmystore.Message) error {
	for _, m := range msgs {
		if m.SessionID == "" {
			return findmystore.Errorf(findmystore.EINVALID, "message session ID required")
		}
		if m.Role != findmystore.RoleUser && m.Role != findmystore.RoleAssistant {
			return findmystore.Errorf(findmystore.EINVALID, "invalid message role %q", m.Role)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, m := range msgs {
		m.CreatedAt = now
		result, err := tx.ExecContext(ctx, `
			INSERT INTO messages (session_id, role, content, created_at)
			VALUES (?, ?, ?, ?)
		`, m.SessionID, string(m.Role), m.Content, formatTime(m.CreatedAt))
		if err != nil {
			return err
		}
		if m.ID, err = result.LastInsertId(); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindMessages returns up to limit most recent messages of a session in
// chronological order.
func (s *MessageService) FindMessages(ctx context.Context, sessionID string, limit int) ([]*findmystore.Message, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at FROM (
			SELECT id, session_id, role, content, created_at
			FROM messages
			WHERE session_id = ?
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*findmystore.Message
	for rows.Next() {
		var m findmystore.Message
		var role, createdAt string

		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.Role = findmystore.Role(role)
		if m.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}

	return msgs, rows.Err()
}
