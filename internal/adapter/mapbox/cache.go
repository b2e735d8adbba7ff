package mapbox

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory expiring cache holding at
// most maxEntries results.
type CachedGeocoder struct {
	inner      domain.Geocoder
	cache      *gocache.Cache
	maxEntries int
	metrics    *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. Entries expire
// after ttl.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:      inner,
		cache:      gocache.New(ttl, 2*ttl),
		maxEntries: maxEntries,
		metrics:    metrics,
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := cacheKey(lat, lon)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.store(key, result)
	}
	return result, nil
}

// store adds an entry unless the cache is full of live entries.
func (c *CachedGeocoder) store(key string, result domain.GeocodingResult) {
	if c.cache.ItemCount() >= c.maxEntries {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxEntries {
			return
		}
	}
	c.cache.SetDefault(key, result)
}

// cacheKey rounds to six decimals (~0.1 m) so equal hotspots share an entry.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
}
