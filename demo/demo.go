// Package demo provides the built-in store catalog used when no maps API key
// is configured, plus simulated stock for live stores.
package demo

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/fwojciec/findmystore"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is the seeded set of stores and their inventory.
type Catalog struct {
	Cities []SeedCity  `yaml:"cities"`
	Stores []SeedStore `yaml:"stores"`
}

// SeedCity is a catalog city center.
type SeedCity struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// SeedStore is a catalog store with its stock.
type SeedStore struct {
	ID        int64       `yaml:"id"`
	Name      string      `yaml:"name"`
	City      string      `yaml:"city"`
	Category  string      `yaml:"category"`
	Hours     string      `yaml:"hours"`
	Address   string      `yaml:"address"`
	Lat       float64     `yaml:"lat"`
	Lng       float64     `yaml:"lng"`
	Rating    float64     `yaml:"rating"`
	Verified  bool        `yaml:"verified"`
	Inventory []SeedStock `yaml:"inventory"`
}

// SeedStock is a catalog stock entry.
type SeedStock struct {
	Product string  `yaml:"product"`
	Qty     int     `yaml:"qty"`
	Price   float64 `yaml:"price"`
}

// Store converts the seed entry to a domain store.
func (s SeedStore) Store() *findmystore.Store {
	return &findmystore.Store{
		ID:       s.ID,
		Name:     s.Name,
		City:     s.City,
		Category: findmystore.Category(s.Category),
		Hours:    s.Hours,
		Address:  s.Address,
		Lat:      s.Lat,
		Lng:      s.Lng,
		Rating:   s.Rating,
		Verified: s.Verified,
	}
}

// LoadCatalog parses the embedded seed file.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(seedYAML)
}

// ParseCatalog parses a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, s := range c.Stores {
		if s.ID <= 0 {
			return nil, fmt.Errorf("catalog store %d: id required", i)
		}
		if _, err := findmystore.ParseCategory(s.Category); err != nil {
			return nil, fmt.Errorf("catalog store %d: %w", s.ID, err)
		}
	}
	return &c, nil
}

// Seed writes the catalog into empty storage. It does nothing when any store
// already exists, so it is safe to call on every start.
func Seed(ctx context.Context, c *Catalog, stores findmystore.StoreService, inventory findmystore.InventoryService) (bool, error) {
	existing, err := stores.FindStores(ctx, findmystore.StoreFilter{Limit: 1})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, s := range c.Stores {
		if err := stores.CreateStore(ctx, s.Store()); err != nil {
			return false, fmt.Errorf("seed store %q: %w", s.Name, err)
		}
		for _, item := range s.Inventory {
			if err := inventory.SetStockItem(ctx, &findmystore.StockItem{
				StoreID: s.ID,
				Product: item.Product,
				Qty:     item.Qty,
				Price:   item.Price,
			}); err != nil {
				return false, fmt.Errorf("seed stock %q at %q: %w", item.Product, s.Name, err)
			}
		}
	}
	return true, nil
}

// Compile-time interface verification.
var (
	_ findmystore.StoreFinder = (*Finder)(nil)
	_ findmystore.Geocoder    = (*Finder)(nil)
)

// Finder serves store searches from the catalog.
type Finder struct {
	catalog *Catalog
}

// NewFinder creates a Finder over the catalog.
func NewFinder(c *Catalog) *Finder {
	return &Finder{catalog: c}
}

// FindStores returns catalog stores in the query's city and category.
// RadiusKM and OpenNow are ignored: the catalog is already city-scoped.
func (f *Finder) FindStores(_ context.Context, q findmystore.StoreQuery) ([]*findmystore.Store, error) {
	var out []*findmystore.Store
	for _, s := range f.catalog.Stores {
		if q.City != "" && !strings.EqualFold(s.City, strings.TrimSpace(q.City)) {
			continue
		}
		if q.Category != "" && findmystore.Category(s.Category) != q.Category {
			continue
		}
		out = append(out, s.Store())
	}
	return out, nil
}

// Geocode returns the catalog center of a city.
func (f *Finder) Geocode(_ context.Context, city string) (findmystore.LatLng, error) {
	for _, c := range f.catalog.Cities {
		if strings.EqualFold(c.Name, strings.TrimSpace(city)) {
			return findmystore.LatLng{Lat: c.Lat, Lng: c.Lng}, nil
		}
	}
	return findmystore.LatLng{}, findmystore.Errorf(findmystore.ENOTFOUND, "unknown city %q", city)
}
