package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/findmystore"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ findmystore.SubscriptionService = (*SubscriptionService)(nil)

// SubscriptionService implements findmystore.SubscriptionService using SQLite.
type SubscriptionService struct {
	db *DB
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(db *DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// CreateSubscription creates a new subscription.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, sub *findmystore.Subscription) error {
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Product = findmystore.NormalizeProduct(sub.Product)
	sub.City = strings.TrimSpace(sub.City)
	if err := sub.Validate(); err != nil {
		return err
	}

	sub.ID = uuid.New().String()
	sub.CreatedAt = time.Now().UTC()

	var maxPrice sql.NullFloat64
	if sub.MaxPrice != nil {
		maxPrice = sql.NullFloat64{Float64: *sub.MaxPrice, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, email, product, city, max_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.Email, sub.Product, sub.City, maxPrice, formatTime(sub.CreatedAt))

	return err
}

// FindSubscriptions retrieves subscriptions matching the filter, oldest first.
func (s *SubscriptionService) FindSubscriptions(ctx context.Context, filter findmystore.SubscriptionFilter) ([]*findmystore.Subscription, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, email, product, city, max_price, created_at FROM subscriptions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Email != nil {
		query.WriteString(" AND email = ? COLLATE NOCASE")
		args = append(args, strings.TrimSpace(*filter.Email))
	}
	if filter.Product != nil {
		query.WriteString(" AND product = ?")
		args = append(args, findmystore.NormalizeProduct(*filter.Product))
	}

	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*findmystore.Subscription
	for rows.Next() {
		var sub findmystore.Subscription
		var maxPrice sql.NullFloat64
		var createdAt string

		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Product, &sub.City, &maxPrice, &createdAt); err != nil {
			return nil, err
		}
		if maxPrice.Valid {
			v := maxPrice.Float64
			sub.MaxPrice = &v
		}
		if sub.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}

	return subs, rows.Err()
}

// DeleteSubscription permanently removes a subscription and its alerts.
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return findmystore.Errorf(findmystore.ENOTFOUND, "subscription not found")
	}

	return nil
}
