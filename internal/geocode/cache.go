// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/carmenbhuber/TheraFinder/internal/geo"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
	"github.com/carmenbhuber/TheraFinder/internal/metrics"
	"github.com/carmenbhuber/TheraFinder/internal/textutil"
)

type resolution uint8

const (
	resolved resolution = iota + 1
	unresolvable
)

type cacheEntry struct {
	state  resolution
	coords geo.Coordinate
	expiry time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiry.IsZero() && !now.Before(e.expiry)
}

// CachedGeocoder memoizes a Geocoder by normalized query. Unresolvable queries are cached as well,
// so each distinct query reaches the external service at most once while its entry is valid. A
// TTL of zero keeps entries for the lifetime of the process.
//
// Concurrent lookups of the same uncached query may both reach the external service; the last
// result written wins.
type CachedGeocoder struct {
	coder   Geocoder
	logger  *logger.Logger
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration, log *logger.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		logger:  log,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[string]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

// Resolve returns the coordinates for query and whether the query could be resolved. An empty
// query is never sent to the external service.
func (c *CachedGeocoder) Resolve(ctx context.Context, query string) (geo.Coordinate, bool) {
	key := textutil.Normalize(query)
	if key == "" {
		return geo.Coordinate{}, false
	}

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && !entry.expired(time.Now()) {
		metrics.GeocodeCacheHitsTotal.Inc()
		c.logger.Debug("geocode cache hit", slog.String("query", key),
			slog.Bool("resolved", entry.state == resolved))
		return entry.coords, entry.state == resolved
	}

	coords, err := c.coder.Search(ctx, query)
	switch {
	case err == nil:
		metrics.GeocodeLookupsTotal.WithLabelValues(c.coder.Name(), "resolved").Inc()
		c.store(key, cacheEntry{state: resolved, coords: coords}, c.ttlHit)
		c.logger.Debug("location resolved", slog.String("query", key), slog.String("provider", c.coder.Name()),
			slog.Float64("lat", coords.Lat), slog.Float64("lon", coords.Lon))
		return coords, true
	case errors.Is(err, ErrUnresolvable):
		metrics.GeocodeLookupsTotal.WithLabelValues(c.coder.Name(), "unresolvable").Inc()
		c.store(key, cacheEntry{state: unresolvable}, c.ttlMiss)
		c.logger.Debug("location unresolvable", slog.String("query", key), logger.Err(err))
		return geo.Coordinate{}, false
	default:
		metrics.GeocodeLookupsTotal.WithLabelValues(c.coder.Name(), "failed").Inc()
		c.logger.Warn("geocoding lookup failed", slog.String("query", key),
			slog.String("provider", c.coder.Name()), logger.Err(err))
		return geo.Coordinate{}, false
	}
}

// Purge drops all cached entries.
func (c *CachedGeocoder) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// Len returns the number of cached entries, expired ones included.
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *CachedGeocoder) store(key string, entry cacheEntry, ttl time.Duration) {
	if ttl > 0 {
		entry.expiry = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = entry
}
