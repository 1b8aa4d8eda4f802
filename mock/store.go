package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.StoreFinder = (*StoreFinder)(nil)

// StoreFinder is a mock implementation of findmystore.StoreFinder.
type StoreFinder struct {
	FindStoresFn func(ctx context.Context, q findmystore.StoreQuery) ([]*findmystore.Store, error)
}

func (f *StoreFinder) FindStores(ctx context.Context, q findmystore.StoreQuery) ([]*findmystore.Store, error) {
	return f.FindStoresFn(ctx, q)
}

var _ findmystore.Geocoder = (*Geocoder)(nil)

// Geocoder is a mock implementation of findmystore.Geocoder.
type Geocoder struct {
	GeocodeFn func(ctx context.Context, city string) (findmystore.LatLng, error)
}

func (g *Geocoder) Geocode(ctx context.Context, city string) (findmystore.LatLng, error) {
	return g.GeocodeFn(ctx, city)
}

var _ findmystore.StoreService = (*StoreService)(nil)

// StoreService is a mock implementation of findmystore.StoreService.
type StoreService struct {
	CreateStoreFn   func(ctx context.Context, store *findmystore.Store) error
	UpsertStoreFn   func(ctx context.Context, store *findmystore.Store) error
	FindStoreByIDFn func(ctx context.Context, id int64) (*findmystore.Store, error)
	FindStoresFn    func(ctx context.Context, filter findmystore.StoreFilter) ([]*findmystore.Store, error)
}

func (s *StoreService) CreateStore(ctx context.Context, store *findmystore.Store) error {
	return s.CreateStoreFn(ctx, store)
}

func (s *StoreService) UpsertStore(ctx context.Context, store *findmystore.Store) error {
	return s.UpsertStoreFn(ctx, store)
}

func (s *StoreService) FindStoreByID(ctx context.Context, id int64) (*findmystore.Store, error) {
	return s.FindStoreByIDFn(ctx, id)
}

func (s *StoreService) FindStores(ctx context.Context, filter findmystore.StoreFilter) ([]*findmystore.Store, error) {
	return s.FindStoresFn(ctx, filter)
}
