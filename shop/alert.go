package shop

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/fwojciec/findmystore"
	"golang.org/x/sync/errgroup"
)

// DefaultMailFrom is the sender used when Service.MailFrom is empty.
const DefaultMailFrom = "FindMyStore <alerts@findmystore.local>"

// Subscribe stores a restock or deal alert subscription.
func (s *Service) Subscribe(ctx context.Context, sub *findmystore.Subscription) error {
	return s.Subscriptions.CreateSubscription(ctx, sub)
}

// Unsubscribe removes a subscription.
func (s *Service) Unsubscribe(ctx context.Context, id string) error {
	return s.Subscriptions.DeleteSubscription(ctx, id)
}

// ListSubscriptions returns subscriptions matching the filter.
func (s *Service) ListSubscriptions(ctx context.Context, filter findmystore.SubscriptionFilter) ([]*findmystore.Subscription, error) {
	return s.Subscriptions.FindSubscriptions(ctx, filter)
}

// ListAlerts returns recorded alerts, newest first.
func (s *Service) ListAlerts(ctx context.Context, filter findmystore.AlertFilter) ([]*findmystore.Alert, error) {
	return s.Alerts.FindAlerts(ctx, filter)
}

// Restock adds qty units of a product at a store and alerts matching
// subscribers. A zero qty means DefaultRestockQty. A new product needs a
// price, either given or from the Estimator. Failed sends are recorded as
// failed alerts and never fail the restock.
func (s *Service) Restock(ctx context.Context, storeID int64, product string, qty int, price *float64) (*findmystore.RestockResult, error) {
	product = findmystore.NormalizeProduct(product)
	if product == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "product required")
	}
	if qty == 0 {
		qty = DefaultRestockQty
	}
	if qty < 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "restock qty must be positive")
	}
	if price != nil && *price < 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "price must not be negative")
	}

	store, err := s.Stores.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	item, err := s.Inventory.FindStockItem(ctx, storeID, product)
	switch {
	case err == nil:
		item.Qty = max(0, item.Qty) + qty
		if price != nil {
			item.Price = *price
		}
		item.Estimated = false
	case findmystore.ErrorCode(err) != findmystore.ENOTFOUND:
		return nil, err
	case price != nil:
		item = &findmystore.StockItem{StoreID: storeID, Product: product, Qty: qty, Price: *price}
	case s.Estimator != nil:
		item = &findmystore.StockItem{StoreID: storeID, Product: product, Qty: qty, Price: s.Estimator.RestockPrice(product)}
	default:
		return nil, findmystore.Errorf(findmystore.EINVALID, "price required for new product %q", product)
	}
	if err := s.Inventory.SetStockItem(ctx, item); err != nil {
		return nil, err
	}

	result := &findmystore.RestockResult{Item: item}
	if s.Subscriptions == nil {
		return result, nil
	}

	subs, err := s.Subscriptions.FindSubscriptions(ctx, findmystore.SubscriptionFilter{Product: &product})
	if err != nil {
		return nil, err
	}
	var matched []*findmystore.Subscription
	for _, sub := range subs {
		if sub.Matches(product, store.City, item.Price) {
			matched = append(matched, sub)
		}
	}
	result.Matched = len(matched)

	if err := s.notify(ctx, store, item, matched, result); err != nil {
		return nil, err
	}
	return result, nil
}

// notify sends one alert per subscription concurrently and records each attempt.
func (s *Service) notify(ctx context.Context, store *findmystore.Store, item *findmystore.StockItem, subs []*findmystore.Subscription, result *findmystore.RestockResult) error {
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for _, sub := range subs {
		g.Go(func() error {
			alert := &findmystore.Alert{
				SubscriptionID: sub.ID,
				StoreID:        store.ID,
				Product:        item.Product,
				Qty:            item.Qty,
				Price:          item.Price,
				Kind:           findmystore.AlertKindRestock,
			}
			if sub.MaxPrice != nil {
				alert.Kind = findmystore.AlertKindDeal
			}

			if s.Mailer == nil {
				alert.Status = findmystore.AlertStatusSkipped
			} else if id, err := s.Mailer.SendEmail(ctx, s.alertEmail(sub, store, item, alert.Kind)); err != nil {
				alert.Status = findmystore.AlertStatusFailed
				alert.Error = errorText(err)
			} else {
				alert.Status = findmystore.AlertStatusSent
				alert.MessageID = id
			}

			// The stock change is already committed, so an unrecorded alert
			// is reported in the result instead of failing the restock.
			if s.Alerts != nil {
				if err := s.Alerts.CreateAlert(ctx, alert); err != nil {
					if s.Logger != nil {
						s.Logger.Warn("record alert", "subscription", sub.ID, "product", item.Product, "status", alert.Status, "err", err)
					}
					mu.Lock()
					defer mu.Unlock()
					result.Failed++
					return nil
				}
			}

			mu.Lock()
			defer mu.Unlock()
			switch alert.Status {
			case findmystore.AlertStatusSent:
				result.Notified++
			case findmystore.AlertStatusFailed:
				result.Failed++
			}
			return nil
		})
	}
	return g.Wait()
}

var alertHTML = template.Must(template.New("alert").Parse(`<p>Good news! <strong>{{.Product}}</strong> is back in stock at <strong>{{.Store}}</strong> ({{.City}}).</p>
<ul>
<li>Quantity: {{.Qty}}</li>
<li>Price: ₹{{printf "%.2f" .Price}}</li>
</ul>
<p><a href="{{.MapLink}}">Open in Google Maps</a></p>
<p style="color:#888">Subscription {{.SubscriptionID}}. Reply STOP or unsubscribe in FindMyStore to stop these alerts.</p>
`))

type alertView struct {
	Product        string
	Store          string
	City           string
	Qty            int
	Price          float64
	MapLink        string
	SubscriptionID string
}

func (s *Service) alertEmail(sub *findmystore.Subscription, store *findmystore.Store, item *findmystore.StockItem, kind findmystore.AlertKind) *findmystore.Email {
	from := s.MailFrom
	if from == "" {
		from = DefaultMailFrom
	}

	subject := fmt.Sprintf("Back in stock: %s at %s", item.Product, store.Name)
	if kind == findmystore.AlertKindDeal {
		subject = fmt.Sprintf("Deal alert: %s for ₹%.2f at %s", item.Product, item.Price, store.Name)
	}

	view := alertView{
		Product:        item.Product,
		Store:          store.Name,
		City:           store.City,
		Qty:            item.Qty,
		Price:          item.Price,
		MapLink:        findmystore.PlaceLink(store.Location(), store.PlaceID),
		SubscriptionID: sub.ID,
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s is back in stock at %s (%s).\n\n", view.Product, view.Store, view.City)
	fmt.Fprintf(&text, "Quantity: %d\nPrice: ₹%.2f\nMap: %s\n\n", view.Qty, view.Price, view.MapLink)
	fmt.Fprintf(&text, "Subscription %s.\n", view.SubscriptionID)

	var html bytes.Buffer
	if err := alertHTML.Execute(&html, view); err != nil {
		html.Reset()
	}

	return &findmystore.Email{
		From:    from,
		To:      []string{sub.Email},
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}
}

// errorText keeps domain messages readable and preserves infrastructure detail.
func errorText(err error) string {
	if findmystore.ErrorCode(err) == findmystore.EINTERNAL {
		return err.Error()
	}
	return findmystore.ErrorMessage(err)
}
