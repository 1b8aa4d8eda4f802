package findmystore

import (
	"context"
	"net/mail"
	"strings"
	"time"
)

// Subscription is a request to be alerted when a product is restocked.
// A subscription with MaxPrice only fires when the price is at or below it.
type Subscription struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Product   string    `json:"product"`
	City      string    `json:"city"`
	MaxPrice  *float64  `json:"maxPrice,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the subscription contains invalid fields.
func (s *Subscription) Validate() error {
	if strings.TrimSpace(s.Product) == "" {
		return Errorf(EINVALID, "subscription product required")
	}
	if strings.TrimSpace(s.City) == "" {
		return Errorf(EINVALID, "subscription city required")
	}
	if s.Email == "" {
		return Errorf(EINVALID, "subscription email required")
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return Errorf(EINVALID, "invalid subscription email %q", s.Email)
	}
	if s.MaxPrice != nil && *s.MaxPrice < 0 {
		return Errorf(EINVALID, "subscription max price must not be negative")
	}
	return nil
}

// Matches reports whether a restock of product at a store in city at price
// should alert this subscription. An empty city on either side matches.
func (s *Subscription) Matches(product, city string, price float64) bool {
	if !strings.EqualFold(NormalizeProduct(s.Product), NormalizeProduct(product)) {
		return false
	}
	if s.City != "" && city != "" && !strings.EqualFold(strings.TrimSpace(s.City), strings.TrimSpace(city)) {
		return false
	}
	if s.MaxPrice != nil && price > *s.MaxPrice {
		return false
	}
	return true
}

// SubscriptionService represents a service for managing alert subscriptions.
type SubscriptionService interface {
	// CreateSubscription creates a new subscription.
	CreateSubscription(ctx context.Context, sub *Subscription) error

	// FindSubscriptions retrieves subscriptions matching the filter.
	FindSubscriptions(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, error)

	// DeleteSubscription permanently removes a subscription.
	// Returns ENOTFOUND if the subscription does not exist.
	DeleteSubscription(ctx context.Context, id string) error
}

// SubscriptionFilter represents a filter for FindSubscriptions.
type SubscriptionFilter struct {
	ID      *string `json:"id,omitempty"`
	Email   *string `json:"email,omitempty"`
	Product *string `json:"product,omitempty"` // Case-insensitive

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AlertKind distinguishes plain restock alerts from price-capped deal alerts.
type AlertKind string

// AlertKind constants.
const (
	AlertKindRestock AlertKind = "restock"
	AlertKindDeal    AlertKind = "deal"
)

// AlertStatus is the delivery outcome of an alert.
type AlertStatus string

// AlertStatus constants.
const (
	AlertStatusSent    AlertStatus = "sent"
	AlertStatusFailed  AlertStatus = "failed"
	AlertStatusSkipped AlertStatus = "skipped" // No mailer configured
)

// Alert records one notification attempt for a subscription.
type Alert struct {
	ID             string      `json:"id"`
	SubscriptionID string      `json:"subscriptionId"`
	StoreID        int64       `json:"storeId"`
	Product        string      `json:"product"`
	Qty            int         `json:"qty"`
	Price          float64     `json:"price"`
	Kind           AlertKind   `json:"kind"`
	Status         AlertStatus `json:"status"`
	MessageID      string      `json:"messageId,omitempty"`
	Error          string      `json:"error,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// AlertService represents a service for recording alerts.
type AlertService interface {
	// CreateAlert records an alert.
	CreateAlert(ctx context.Context, alert *Alert) error

	// FindAlerts retrieves alerts matching the filter, newest first.
	FindAlerts(ctx context.Context, filter AlertFilter) ([]*Alert, error)
}

// AlertFilter represents a filter for FindAlerts.
type AlertFilter struct {
	SubscriptionID *string      `json:"subscriptionId,omitempty"`
	Status         *AlertStatus `json:"status,omitempty"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RestockResult reports the outcome of a restock.
type RestockResult struct {
	Item     *StockItem `json:"item"`
	Matched  int        `json:"matched"`
	Notified int        `json:"notified"`
	Failed   int        `json:"failed"` // Not sent, or sent but not recorded
}
