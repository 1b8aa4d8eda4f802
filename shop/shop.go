// Package shop implements the shopping assistant operations: store search,
// stock checks, price comparison, shopping list plans, and restock alerts.
package shop

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/fwojciec/findmystore"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel stock checks and alert sends.
const DefaultConcurrency = 4

// DefaultRestockQty is used when a restock does not name a quantity.
const DefaultRestockQty = 10

// Service orchestrates the shopping operations over storage and external services.
// Geocoder, Estimator, Mailer and Logger are optional.
type Service struct {
	Stores        findmystore.StoreService
	Inventory     findmystore.InventoryService
	Subscriptions findmystore.SubscriptionService
	Alerts        findmystore.AlertService
	Finder        findmystore.StoreFinder
	Geocoder      findmystore.Geocoder
	Estimator     findmystore.StockEstimator
	Mailer        findmystore.Mailer
	MailFrom      string
	Concurrency   int
	Logger        *slog.Logger
}

func (s *Service) concurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return DefaultConcurrency
}

// SearchStores finds stores for the query and persists them so their IDs
// are stable across calls.
func (s *Service) SearchStores(ctx context.Context, q findmystore.StoreQuery) ([]*findmystore.Store, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}

	found, err := s.Finder.FindStores(ctx, q)
	if err != nil {
		return nil, err
	}

	stores := make([]*findmystore.Store, 0, len(found))
	for _, store := range found {
		if err := s.Stores.UpsertStore(ctx, store); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, nil
}

// candidateStores returns the stores a comparison or plan runs over: a fresh
// search when the query names a city, else every known store in the category.
func (s *Service) candidateStores(ctx context.Context, q findmystore.StoreQuery) ([]*findmystore.Store, error) {
	if strings.TrimSpace(q.City) != "" {
		return s.SearchStores(ctx, q)
	}
	c, err := findmystore.ParseCategory(string(q.Category))
	if err != nil {
		return nil, err
	}
	var filter findmystore.StoreFilter
	if c != "" {
		filter.Category = &c
	}
	return s.Stores.FindStores(ctx, filter)
}

// CheckStock returns the stock of a product at a store. Live stores without
// a record get a simulated one when an Estimator is configured; it is saved
// so later checks agree.
func (s *Service) CheckStock(ctx context.Context, storeID int64, product string) (*findmystore.StockStatus, error) {
	product = findmystore.NormalizeProduct(product)
	if product == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "product required")
	}

	store, err := s.Stores.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.checkStock(ctx, store, product)
}

func (s *Service) checkStock(ctx context.Context, store *findmystore.Store, product string) (*findmystore.StockStatus, error) {
	status := &findmystore.StockStatus{StoreID: store.ID, Store: store.Name, Product: product}

	item, err := s.Inventory.FindStockItem(ctx, store.ID, product)
	switch {
	case err == nil:
	case findmystore.ErrorCode(err) != findmystore.ENOTFOUND:
		return nil, err
	case store.Live() && s.Estimator != nil:
		qty, price := s.Estimator.Estimate(store.ID, product)
		item = &findmystore.StockItem{StoreID: store.ID, Product: product, Qty: qty, Price: price, Estimated: true}
		if err := s.Inventory.SetStockItem(ctx, item); err != nil {
			return nil, err
		}
	default:
		return status, nil
	}

	price := item.Price
	status.Qty = item.Qty
	status.Price = &price
	status.Estimated = item.Estimated
	return status, nil
}

// checkAll checks a product at every store concurrently. Results are in store order.
func (s *Service) checkAll(ctx context.Context, stores []*findmystore.Store, product string) ([]*findmystore.StockStatus, error) {
	out := make([]*findmystore.StockStatus, len(stores))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, store := range stores {
		g.Go(func() error {
			status, err := s.checkStock(ctx, store, product)
			if err != nil {
				return err
			}
			out[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ComparePrices compares a product across the query's stores. Rows are
// ordered by quantity descending, then price ascending with unknown prices
// last, then store ID.
func (s *Service) ComparePrices(ctx context.Context, q findmystore.StoreQuery, product string) (*findmystore.Comparison, error) {
	product = findmystore.NormalizeProduct(product)
	if product == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "product required")
	}

	stores, err := s.candidateStores(ctx, q)
	if err != nil {
		return nil, err
	}
	statuses, err := s.checkAll(ctx, stores, product)
	if err != nil {
		return nil, err
	}

	center, hasCenter := s.center(ctx, q.City)

	cmp := &findmystore.Comparison{Product: product, Rows: make([]*findmystore.PriceRow, 0, len(stores))}
	for i, store := range stores {
		row := &findmystore.PriceRow{
			StoreID:  store.ID,
			Store:    store.Name,
			City:     store.City,
			Category: store.Category,
			Verified: store.Verified,
			Rating:   store.Rating,
			Qty:      statuses[i].Qty,
			Price:    statuses[i].Price,
			MapLink:  findmystore.PlaceLink(store.Location(), store.PlaceID),
		}
		if hasCenter {
			d := findmystore.RoundCents(findmystore.DistanceKM(center, store.Location()))
			row.DistanceKM = &d
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	sort.SliceStable(cmp.Rows, func(i, j int) bool {
		a, b := cmp.Rows[i], cmp.Rows[j]
		if a.Qty != b.Qty {
			return a.Qty > b.Qty
		}
		if (a.Price == nil) != (b.Price == nil) {
			return a.Price != nil
		}
		if a.Price != nil && *a.Price != *b.Price {
			return *a.Price < *b.Price
		}
		return a.StoreID < b.StoreID
	})

	for _, row := range cmp.Rows {
		if row.Qty <= 0 || row.Price == nil {
			continue
		}
		if cmp.Cheapest == nil || *row.Price < *cmp.Cheapest.Price ||
			(*row.Price == *cmp.Cheapest.Price && row.StoreID < cmp.Cheapest.StoreID) {
			cmp.Cheapest = row
		}
	}
	return cmp, nil
}

// center geocodes a city. Failures are not errors: distances are optional.
func (s *Service) center(ctx context.Context, city string) (findmystore.LatLng, bool) {
	if s.Geocoder == nil || strings.TrimSpace(city) == "" {
		return findmystore.LatLng{}, false
	}
	p, err := s.Geocoder.Geocode(ctx, city)
	if err != nil || p.IsZero() {
		return findmystore.LatLng{}, false
	}
	return p, true
}

// FindCheapest returns the lowest-priced available offer for a product,
// optionally capped at maxPrice. Ties go to the lower store ID.
func (s *Service) FindCheapest(ctx context.Context, q findmystore.StoreQuery, product string, maxPrice *float64) (*findmystore.Offer, error) {
	product = findmystore.NormalizeProduct(product)
	if product == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "product required")
	}
	if maxPrice != nil && *maxPrice < 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "max price must not be negative")
	}

	stores, err := s.candidateStores(ctx, q)
	if err != nil {
		return nil, err
	}
	statuses, err := s.checkAll(ctx, stores, product)
	if err != nil {
		return nil, err
	}

	var best *findmystore.Offer
	for i, st := range statuses {
		if !st.Available() {
			continue
		}
		price := *st.Price
		if maxPrice != nil && price > *maxPrice {
			continue
		}
		if best == nil || price < best.Price || (price == best.Price && stores[i].ID < best.Store.ID) {
			best = &findmystore.Offer{Product: product, Qty: st.Qty, Price: price, Store: stores[i]}
		}
	}
	if best == nil {
		return nil, findmystore.Errorf(findmystore.ENOTFOUND, "no available %q found within criteria", product)
	}
	return best, nil
}

// Directions returns a Google Maps driving directions link to a store.
func (s *Service) Directions(ctx context.Context, storeID int64, origin string) (string, error) {
	store, err := s.Stores.FindStoreByID(ctx, storeID)
	if err != nil {
		return "", err
	}
	return findmystore.DirectionsLink(store.Location(), store.PlaceID, origin), nil
}
