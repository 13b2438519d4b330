// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "therafinder_search_requests_total",
		Help: "Total number of provider searches by outcome",
	}, []string{"outcome"})
	SearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "therafinder_search_duration_ms",
		Help:    "Provider search duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	})
	SearchResultsCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "therafinder_search_results",
		Help:    "Number of providers returned per search",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	GeocodeCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "therafinder_geocode_cache_hits_total",
		Help: "Total geocoding cache hits",
	})
	GeocodeLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "therafinder_geocode_lookups_total",
		Help: "Total external geocoding lookups by provider and result",
	}, []string{"provider", "result"})
	DirectoryProviders = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "therafinder_directory_providers",
		Help: "Number of provider records currently loaded",
	})
	DirectoryReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "therafinder_directory_reloads_total",
		Help: "Total directory reloads by status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDurationMs)
	prometheus.MustRegister(SearchResultsCount)
	prometheus.MustRegister(GeocodeCacheHitsTotal)
	prometheus.MustRegister(GeocodeLookupsTotal)
	prometheus.MustRegister(DirectoryProviders)
	prometheus.MustRegister(DirectoryReloadsTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
