// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/carmenbhuber/TheraFinder/internal/geo"
)

// RateLimitedGeocoder throttles requests to a Geocoder. Public geocoding services such as the OSM
// Nominatim instance allow at most one request per second.
type RateLimitedGeocoder struct {
	coder   Geocoder
	limiter *rate.Limiter
}

// NewRateLimitedGeocoder wraps coder with a token bucket allowing perSecond requests. A rate of
// zero or less disables throttling.
func NewRateLimitedGeocoder(coder Geocoder, perSecond float64) *RateLimitedGeocoder {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimitedGeocoder{
		coder:   coder,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (r *RateLimitedGeocoder) Name() string {
	return r.coder.Name()
}

// Search waits for the limiter and then delegates. Waiting is aborted when ctx is done.
func (r *RateLimitedGeocoder) Search(ctx context.Context, query string) (geo.Coordinate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return geo.Coordinate{}, err
	}
	return r.coder.Search(ctx, query)
}
