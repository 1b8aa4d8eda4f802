package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.SubscriptionService = (*SubscriptionService)(nil)

// SubscriptionService is a mock implementation of findmystore.SubscriptionService.
type SubscriptionService struct {
	CreateSubscriptionFn func(ctx context.Context, sub *findmystore.Subscription) error
	FindSubscriptionsFn  func(ctx context.Context, filter findmystore.SubscriptionFilter) ([]*findmystore.Subscription, error)
	DeleteSubscriptionFn func(ctx context.Context, id string) error
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, sub *findmystore.Subscription) error {
	return s.CreateSubscriptionFn(ctx, sub)
}

func (s *SubscriptionService) FindSubscriptions(ctx context.Context, filter findmystore.SubscriptionFilter) ([]*findmystore.Subscription, error) {
	return s.FindSubscriptionsFn(ctx, filter)
}

func (s *SubscriptionService) DeleteSubscription(ctx context.Context, id string) error {
	return s.DeleteSubscriptionFn(ctx, id)
}

var _ findmystore.AlertService = (*AlertService)(nil)

// AlertService is a mock implementation of findmystore.AlertService.
type AlertService struct {
	CreateAlertFn func(ctx context.Context, alert *findmystore.Alert) error
	FindAlertsFn  func(ctx context.Context, filter findmystore.AlertFilter) ([]*findmystore.Alert, error)
}

func (s *AlertService) CreateAlert(ctx context.Context, alert *findmystore.Alert) error {
	return s.CreateAlertFn(ctx, alert)
}

func (s *AlertService) FindAlerts(ctx context.Context, filter findmystore.AlertFilter) ([]*findmystore.Alert, error) {
	return s.FindAlertsFn(ctx, filter)
}
