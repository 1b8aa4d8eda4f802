package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/findmystore"
)

var (
	_ findmystore.StoreFinder = (*LoggingStoreFinder)(nil)
	_ findmystore.Geocoder    = (*LoggingStoreFinder)(nil)
)

// LoggingStoreFinder wraps a StoreFinder and, if it has one, its Geocoder.
type LoggingStoreFinder struct {
	next   findmystore.StoreFinder
	geo    findmystore.Geocoder
	logger *slog.Logger
}

// NewLoggingStoreFinder creates a new LoggingStoreFinder. Geocode returns
// ENOTIMPLEMENTED when next is not also a Geocoder.
func NewLoggingStoreFinder(next findmystore.StoreFinder, logger *slog.Logger) *LoggingStoreFinder {
	geo, _ := next.(findmystore.Geocoder)
	return &LoggingStoreFinder{next: next, geo: geo, logger: logger}
}

// FindStores delegates and logs the query and result count.
func (f *LoggingStoreFinder) FindStores(ctx context.Context, q findmystore.StoreQuery) (stores []*findmystore.Store, err error) {
	defer func(begin time.Time) {
		f.logger.Info("find stores",
			"city", q.City,
			"category", string(q.Category),
			"radius_km", q.RadiusKM,
			"open_now", q.OpenNow,
			"count", len(stores),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindStores(ctx, q)
}

// Geocode delegates and logs at debug level.
func (f *LoggingStoreFinder) Geocode(ctx context.Context, city string) (p findmystore.LatLng, err error) {
	if f.geo == nil {
		return findmystore.LatLng{}, findmystore.Errorf(findmystore.ENOTIMPLEMENTED, "geocoding not supported")
	}
	defer func(begin time.Time) {
		f.logger.Debug("geocode",
			"city", city,
			"location", p.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.geo.Geocode(ctx, city)
}
