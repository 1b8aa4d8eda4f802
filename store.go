package findmystore

import (
	"context"
	"strings"
	"time"
)

// Store represents a physical retail store.
type Store struct {
	ID           int64     `json:"id"`
	PlaceID      string    `json:"placeId,omitempty"` // Empty for seeded stores
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Category     Category  `json:"category"`
	Hours        string    `json:"hours,omitempty"`
	Address      string    `json:"address,omitempty"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Rating       float64   `json:"rating"`
	RatingsTotal int       `json:"ratingsTotal"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the store contains invalid fields.
func (s *Store) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return Errorf(EINVALID, "store name required")
	}
	if s.Lat < -90 || s.Lat > 90 {
		return Errorf(EINVALID, "store latitude out of range")
	}
	if s.Lng < -180 || s.Lng > 180 {
		return Errorf(EINVALID, "store longitude out of range")
	}
	return nil
}

// Live reports whether the store came from a live maps lookup rather than
// the seeded catalog. Live stores have no inventory feed of their own.
func (s *Store) Live() bool {
	return s.PlaceID != ""
}

// Location returns the store coordinates.
func (s *Store) Location() LatLng {
	return LatLng{Lat: s.Lat, Lng: s.Lng}
}

// Minimum rating and review count for a live store to count as verified.
const (
	VerifiedMinRating  = 4.3
	VerifiedMinRatings = 30
)

// IsVerified applies the verification rule for live stores.
func IsVerified(rating float64, ratingsTotal int) bool {
	return rating >= VerifiedMinRating && ratingsTotal >= VerifiedMinRatings
}

// Category is a store category.
type Category string

// Category constants.
const (
	CategoryGrocery     Category = "grocery"
	CategoryPharmacy    Category = "pharmacy"
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBakery      Category = "bakery"
	CategoryRestaurant  Category = "restaurant"

	// CategoryGeneral labels live stores found by a broad, untyped search.
	CategoryGeneral Category = "general"
)

// Categories lists the searchable categories in display order.
var Categories = []Category{
	CategoryGrocery,
	CategoryPharmacy,
	CategoryElectronics,
	CategoryClothing,
	CategoryBakery,
	CategoryRestaurant,
}

// placeTypes maps categories to Google Places types.
var placeTypes = map[Category]string{
	CategoryGrocery:     "grocery_or_supermarket",
	CategoryPharmacy:    "pharmacy",
	CategoryElectronics: "electronics_store",
	CategoryClothing:    "clothing_store",
	CategoryBakery:      "bakery",
	CategoryRestaurant:  "restaurant",
}

// BroadPlaceType is the place type used when no category is given.
const BroadPlaceType = "store"

// PlaceType returns the Google Places type for the category.
// Unknown or empty categories map to BroadPlaceType.
func (c Category) PlaceType() string {
	if t, ok := placeTypes[c]; ok {
		return t
	}
	return BroadPlaceType
}

// ParseCategory normalizes s into a Category. An empty string is valid and
// means "any category".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return "", nil
	}
	if _, ok := placeTypes[c]; !ok {
		return "", Errorf(EINVALID, "unknown category %q", s)
	}
	return c, nil
}

// Search radius bounds in kilometers.
const (
	DefaultRadiusKM = 6.0
	MaxRadiusKM     = 50.0
)

// StoreQuery describes a nearby store search.
type StoreQuery struct {
	City     string   `json:"city"`
	Category Category `json:"category,omitempty"`
	RadiusKM float64  `json:"radiusKm,omitempty"`
	OpenNow  bool     `json:"openNow,omitempty"`
}

// Normalize trims the query, applies the default radius and validates it.
func (q *StoreQuery) Normalize() error {
	q.City = strings.TrimSpace(q.City)
	if q.City == "" {
		return Errorf(EINVALID, "city required")
	}
	c, err := ParseCategory(string(q.Category))
	if err != nil {
		return err
	}
	q.Category = c
	if q.RadiusKM <= 0 {
		q.RadiusKM = DefaultRadiusKM
	}
	if q.RadiusKM > MaxRadiusKM {
		q.RadiusKM = MaxRadiusKM
	}
	return nil
}

// StoreFinder discovers stores near a city.
type StoreFinder interface {
	// FindStores returns candidate stores for the query. Returned stores
	// have no ID yet; callers persist them through StoreService.UpsertStore.
	FindStores(ctx context.Context, q StoreQuery) ([]*Store, error)
}

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	// Geocode returns ENOTFOUND if the city cannot be resolved.
	Geocode(ctx context.Context, city string) (LatLng, error)
}

// StoreService represents a service for managing stores.
type StoreService interface {
	// CreateStore creates a new store. A zero ID is assigned by storage.
	CreateStore(ctx context.Context, store *Store) error

	// UpsertStore inserts a store or updates the existing one with the same
	// PlaceID. The store's ID and timestamps are set on return.
	UpsertStore(ctx context.Context, store *Store) error

	// FindStoreByID retrieves a store by ID.
	// Returns ENOTFOUND if the store does not exist.
	FindStoreByID(ctx context.Context, id int64) (*Store, error)

	// FindStores retrieves stores matching the filter, ordered by ID.
	FindStores(ctx context.Context, filter StoreFilter) ([]*Store, error)
}

// StoreFilter represents a filter for FindStores.
type StoreFilter struct {
	IDs      []int64   `json:"ids,omitempty"`
	City     *string   `json:"city,omitempty"` // Case-insensitive
	Category *Category `json:"category,omitempty"`
	Verified *bool     `json:"verified,omitempty"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
