package googlemaps_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/googlemaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geocodeOK = `{"status":"OK","results":[{"geometry":{"location":{"lat":19.076,"lng":72.8777}}}]}`

const nearbyOK = `{"status":"OK","results":[
 {"name":"Ratnadeep Supermarket","place_id":"ChIJ-r1","vicinity":"Road No. 36","rating":4.5,"user_ratings_total":320,
  "geometry":{"location":{"lat":19.08,"lng":72.88}}},
 {"name":"Corner Kirana","place_id":"ChIJ-k2","vicinity":"Lane 4",
  "geometry":{"location":{"lat":19.07,"lng":72.87}}}
]}`

// mapsServer serves canned geocoding and nearby search responses and
// records the nearby search query.
type mapsServer struct {
	*httptest.Server

	mu     sync.Mutex
	nearby url.Values
}

func newMapsServer(t *testing.T, geocode, nearby string) *mapsServer {
	t.Helper()

	s := &mapsServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geocode))
	})
	mux.HandleFunc("/maps/api/place/nearbysearch/json", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.nearby = r.URL.Query()
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nearby))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newFinder(t *testing.T, s *mapsServer) *googlemaps.Finder {
	t.Helper()

	f, err := googlemaps.NewFinder("AIzaTEST", googlemaps.WithBaseURL(s.URL))
	require.NoError(t, err)
	return f
}

func TestNewFinder_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := googlemaps.NewFinder("")
	assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
}

func TestFinder_Geocode(t *testing.T) {
	t.Parallel()

	t.Run("returns first result", func(t *testing.T) {
		t.Parallel()

		f := newFinder(t, newMapsServer(t, geocodeOK, nearbyOK))
		p, err := f.Geocode(context.Background(), "Mumbai")
		require.NoError(t, err)
		assert.Equal(t, findmystore.LatLng{Lat: 19.076, Lng: 72.8777}, p)
	})

	t.Run("returns ENOTFOUND for unknown cities", func(t *testing.T) {
		t.Parallel()

		f := newFinder(t, newMapsServer(t, `{"status":"ZERO_RESULTS","results":[]}`, nearbyOK))
		_, err := f.Geocode(context.Background(), "Atlantis")
		assert.Equal(t, findmystore.ENOTFOUND, findmystore.ErrorCode(err))
	})
}

func TestFinder_FindStores(t *testing.T) {
	t.Parallel()

	t.Run("maps places to stores", func(t *testing.T) {
		t.Parallel()

		s := newMapsServer(t, geocodeOK, nearbyOK)
		f := newFinder(t, s)

		stores, err := f.FindStores(context.Background(), findmystore.StoreQuery{
			City: "Mumbai", Category: findmystore.CategoryGrocery, RadiusKM: 2.5, OpenNow: true,
		})
		require.NoError(t, err)
		require.Len(t, stores, 2)

		assert.Equal(t, "ChIJ-r1", stores[0].PlaceID)
		assert.Equal(t, "Ratnadeep Supermarket", stores[0].Name)
		assert.Equal(t, "Mumbai", stores[0].City)
		assert.Equal(t, findmystore.CategoryGrocery, stores[0].Category)
		assert.Equal(t, "Road No. 36", stores[0].Address)
		assert.InDelta(t, 4.5, stores[0].Rating, 0.001)
		assert.True(t, stores[0].Verified)

		assert.InDelta(t, googlemaps.DefaultRating, stores[1].Rating, 0.001)
		assert.Equal(t, googlemaps.DefaultRatingsTotal, stores[1].RatingsTotal)
		assert.False(t, stores[1].Verified)

		s.mu.Lock()
		defer s.mu.Unlock()
		assert.Equal(t, "2500", s.nearby.Get("radius"))
		assert.Equal(t, "grocery_or_supermarket", s.nearby.Get("type"))
		assert.NotEmpty(t, s.nearby.Get("opennow"))
	})

	t.Run("broad search has no type and no open-now filter", func(t *testing.T) {
		t.Parallel()

		s := newMapsServer(t, geocodeOK, nearbyOK)
		f := newFinder(t, s)

		stores, err := f.FindStores(context.Background(), findmystore.StoreQuery{City: "Mumbai", RadiusKM: 6, OpenNow: true})
		require.NoError(t, err)
		assert.Equal(t, findmystore.CategoryGeneral, stores[0].Category)

		s.mu.Lock()
		defer s.mu.Unlock()
		assert.Empty(t, s.nearby.Get("type"))
		assert.Empty(t, s.nearby.Get("opennow"))
	})

	t.Run("falls back to the default center", func(t *testing.T) {
		t.Parallel()

		s := newMapsServer(t, `{"status":"ZERO_RESULTS","results":[]}`, `{"status":"ZERO_RESULTS","results":[]}`)
		f := newFinder(t, s)

		stores, err := f.FindStores(context.Background(), findmystore.StoreQuery{City: "Nowhere", RadiusKM: 6})
		require.NoError(t, err)
		assert.Empty(t, stores)

		s.mu.Lock()
		defer s.mu.Unlock()
		assert.Contains(t, s.nearby.Get("location"), "17.385")
	})
}
