// Package googlemaps implements store discovery with the Google Maps
// Geocoding and Places APIs.
package googlemaps

import (
	"context"
	"math"
	"strings"

	"github.com/fwojciec/findmystore"
	"googlemaps.github.io/maps"
)

// Defaults applied to places without review data.
const (
	DefaultRating       = 4.2
	DefaultRatingsTotal = 20
)

// DefaultRateLimit is the client-side request limit per second.
const DefaultRateLimit = 10

var (
	_ findmystore.StoreFinder = (*Finder)(nil)
	_ findmystore.Geocoder    = (*Finder)(nil)
)

// Finder finds stores near a city with a nearby places search.
type Finder struct {
	client *maps.Client
}

type config struct {
	baseURL   string
	rateLimit int
}

// Option configures a Finder.
type Option func(*config)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(rps int) Option {
	return func(c *config) {
		c.rateLimit = rps
	}
}

// NewFinder creates a Finder for the given API key.
func NewFinder(apiKey string, opts ...Option) (*Finder, error) {
	if apiKey == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "maps API key required")
	}
	cfg := config{rateLimit: DefaultRateLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey), maps.WithRateLimit(cfg.rateLimit)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.baseURL))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, err
	}
	return &Finder{client: client}, nil
}

// Geocode returns the location of the first geocoding result for city.
func (f *Finder) Geocode(ctx context.Context, city string) (findmystore.LatLng, error) {
	results, err := f.client.Geocode(ctx, &maps.GeocodingRequest{Address: city})
	if err != nil && !isZeroResults(err) {
		return findmystore.LatLng{}, err
	}
	if len(results) == 0 {
		return findmystore.LatLng{}, findmystore.Errorf(findmystore.ENOTFOUND, "city %q not found", city)
	}
	loc := results[0].Geometry.Location
	return findmystore.LatLng{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// FindStores runs a nearby search around the city center. Cities that
// cannot be geocoded are searched around findmystore.DefaultCenter. Open-now
// filtering only applies to typed searches.
func (f *Finder) FindStores(ctx context.Context, q findmystore.StoreQuery) ([]*findmystore.Store, error) {
	center, err := f.Geocode(ctx, q.City)
	if findmystore.ErrorCode(err) == findmystore.ENOTFOUND {
		center = findmystore.DefaultCenter
	} else if err != nil {
		return nil, err
	}

	req := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: center.Lat, Lng: center.Lng},
		Radius:   uint(math.Round(q.RadiusKM * 1000)),
	}
	if placeType := q.Category.PlaceType(); placeType != findmystore.BroadPlaceType {
		req.Type = maps.PlaceType(placeType)
		req.OpenNow = q.OpenNow
	}

	resp, err := f.client.NearbySearch(ctx, req)
	if err != nil && !isZeroResults(err) {
		return nil, err
	}

	category := q.Category
	if category == "" {
		category = findmystore.CategoryGeneral
	}
	stores := make([]*findmystore.Store, 0, len(resp.Results))
	for _, p := range resp.Results {
		stores = append(stores, placeStore(p, q.City, category))
	}
	return stores, nil
}

func placeStore(p maps.PlacesSearchResult, city string, category findmystore.Category) *findmystore.Store {
	rating := math.Round(float64(p.Rating)*10) / 10
	if rating == 0 {
		rating = DefaultRating
	}
	total := p.UserRatingsTotal
	if total == 0 {
		total = DefaultRatingsTotal
	}
	return &findmystore.Store{
		PlaceID:      p.PlaceID,
		Name:         p.Name,
		City:         city,
		Category:     category,
		Address:      p.Vicinity,
		Lat:          p.Geometry.Location.Lat,
		Lng:          p.Geometry.Location.Lng,
		Rating:       rating,
		RatingsTotal: total,
		Verified:     findmystore.IsVerified(rating, total),
	}
}

// isZeroResults reports whether err is the API's empty-result status.
func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ZERO_RESULTS")
}
