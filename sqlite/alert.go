package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/findmystore"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ findmystore.AlertService = (*AlertService)(nil)

// AlertService implements findmystore.AlertService using SQLite.
type AlertService struct {
	db *DB
}

// NewAlertService creates a new AlertService.
func NewAlertService(db *DB) *AlertService {
	return &AlertService{db: db}
}

// CreateAlert records an alert.
func (s *AlertService) CreateAlert(ctx context.Context, alert *findmystore.Alert) error {
	if alert.SubscriptionID == "" {
		return findmystore.Errorf(findmystore.EINVALID, "alert subscription ID required")
	}

	alert.ID = uuid.New().String()
	alert.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, subscription_id, store_id, product, qty, price, kind, status, message_id, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, alert.ID, alert.SubscriptionID, alert.StoreID, alert.Product, alert.Qty, alert.Price,
		string(alert.Kind), string(alert.Status), alert.MessageID, alert.Error, formatTime(alert.CreatedAt))
	if isConstraintErr(err) {
		return findmystore.Errorf(findmystore.ENOTFOUND, "subscription not found")
	}
	return err
}

// FindAlerts retrieves alerts matching the filter, newest first.
func (s *AlertService) FindAlerts(ctx context.Context, filter findmystore.AlertFilter) ([]*findmystore.Alert, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, subscription_id, store_id, product, qty, price, kind, status,
		message_id, error, created_at FROM alerts WHERE 1=1`)

	if filter.SubscriptionID != nil {
		query.WriteString(" AND subscription_id = ?")
		args = append(args, *filter.SubscriptionID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*findmystore.Alert
	for rows.Next() {
		var alert findmystore.Alert
		var kind, status, createdAt string

		if err := rows.Scan(&alert.ID, &alert.SubscriptionID, &alert.StoreID, &alert.Product, &alert.Qty,
			&alert.Price, &kind, &status, &alert.MessageID, &alert.Error, &createdAt); err != nil {
			return nil, err
		}
		alert.Kind = findmystore.AlertKind(kind)
		alert.Status = findmystore.AlertStatus(status)
		if alert.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		alerts = append(alerts, &alert)
	}

	return alerts, rows.Err()
}
