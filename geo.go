package findmystore

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// LatLng is a point on the earth in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the point is unset.
func (p LatLng) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// String formats the point as "lat,lng" for map URLs.
func (p LatLng) String() string {
	return formatCoord(p.Lat) + "," + formatCoord(p.Lng)
}

// DefaultCenter is used when a city cannot be geocoded (Hyderabad).
var DefaultCenter = LatLng{Lat: 17.3850, Lng: 78.4867}

// earthRadiusKM is the mean earth radius.
const earthRadiusKM = 6371.0088

// DistanceKM returns the great-circle distance between two points.
func DistanceKM(a, b LatLng) float64 {
	from := s2.LatLngFromDegrees(a.Lat, a.Lng)
	to := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return from.Distance(to).Radians() * earthRadiusKM
}

// PlaceLink returns a Google Maps link to a place, or to the coordinates
// when the place ID is unknown.
func PlaceLink(p LatLng, placeID string) string {
	if placeID != "" {
		v := url.Values{}
		v.Set("api", "1")
		v.Set("query", "Google")
		v.Set("query_place_id", placeID)
		return "https://www.google.com/maps/search/?" + v.Encode()
	}
	return "https://www.google.com/maps?q=" + p.String()
}

// DirectionsLink returns a Google Maps driving directions URL to the
// destination. Origin is optional free text (address or "lat,lng").
func DirectionsLink(dest LatLng, placeID, origin string) string {
	var b strings.Builder
	b.WriteString("https://www.google.com/maps/dir/?api=1")
	b.WriteString("&destination=")
	b.WriteString(url.QueryEscape(dest.String()))
	if placeID != "" {
		b.WriteString("&destination_place_id=")
		b.WriteString(url.QueryEscape(placeID))
	}
	if origin = strings.TrimSpace(origin); origin != "" {
		b.WriteString("&origin=")
		b.WriteString(url.QueryEscape(origin))
	}
	b.WriteString("&travelmode=driving")
	return b.String()
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
