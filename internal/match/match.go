// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

// Package match finds providers for a location and/or specialization query.
//
// A location query is first compared against the postcode and city of every provider. Only if no
// provider matches exactly is the location geocoded and providers within RadiusKm of the resolved
// point returned, nearest first.
package match

import (
	"context"
	"log/slog"
	"time"

	"github.com/carmenbhuber/TheraFinder/internal/geo"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
	"github.com/carmenbhuber/TheraFinder/internal/metrics"
	"github.com/carmenbhuber/TheraFinder/internal/tabular"
	"github.com/carmenbhuber/TheraFinder/internal/textutil"
	"github.com/carmenbhuber/TheraFinder/internal/vartype"
)

// RadiusKm is the maximum distance of a provider from a geocoded location. The boundary is
// inclusive.
const RadiusKm = 20.0

// Columns names the record columns the engine reads.
type Columns struct {
	Institution    string
	Canton         string
	City           string
	Postcode       string
	Phone          string
	Email          string
	Homepage       string
	Specialization string
	Latitude       string
	Longitude      string
}

// DefaultColumns returns the column labels of the provider directory.
func DefaultColumns() Columns {
	return Columns{
		Institution:    "Therapiestelle",
		Canton:         "Kanton",
		City:           "Ort",
		Postcode:       "PLZ",
		Phone:          "Tel.",
		Email:          "E-Mail",
		Homepage:       "Homepage",
		Specialization: "Spezialisierung",
		Latitude:       "lat",
		Longitude:      "lon",
	}
}

// Criteria is a search request. Both fields may be empty.
type Criteria struct {
	Location       string
	Specialization string
}

// Resolver turns a free-text location into coordinates. It reports false if the location could
// not be resolved.
type Resolver interface {
	Resolve(ctx context.Context, query string) (geo.Coordinate, bool)
}

// Providers supplies the collection to search.
type Providers interface {
	Providers() []tabular.Record
}

// DistanceFunc returns the distance between two coordinates in kilometers.
type DistanceFunc func(a, b geo.Coordinate) float64

// Engine runs searches against a provider collection.
type Engine struct {
	providers Providers
	resolver  Resolver
	columns   Columns
	distance  DistanceFunc
	logger    *logger.Logger
}

// New returns an Engine searching providers and geocoding locations with resolver.
func New(providers Providers, resolver Resolver, columns Columns, log *logger.Logger) *Engine {
	return &Engine{
		providers: providers,
		resolver:  resolver,
		columns:   columns,
		distance:  geo.Coordinate.DistanceTo,
		logger:    log,
	}
}

// WithDistanceFunc replaces the great-circle distance used for radius search.
func (e *Engine) WithDistanceFunc(fn DistanceFunc) *Engine {
	if fn != nil {
		e.distance = fn
	}
	return e
}

// Columns returns the column names the engine reads.
func (e *Engine) Columns() Columns {
	return e.columns
}

// Match searches the current provider collection. Finding no providers or failing to resolve
// the location are regular outcomes reported through Result. An error is only returned if ctx
// is done.
func (e *Engine) Match(ctx context.Context, criteria Criteria) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	r := e.newRun(criteria)
	for r.phase != phaseDone {
		e.advance(ctx, r)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(r.result.Outcome.String()).Inc()
	metrics.SearchDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	metrics.SearchResultsCount.Observe(float64(len(r.result.Hits)))
	e.logger.Debug("search finished", slog.String("location", criteria.Location),
		slog.String("specialization", criteria.Specialization), slog.String("outcome", r.result.Outcome.String()),
		slog.Int("results", len(r.result.Hits)))

	return r.result, nil
}

// phase tracks how far a search has progressed.
type phase uint8

const (
	phaseNotStarted phase = iota
	phaseExactMatchChecked
	phaseGeocodeAttempted
	phaseDone
)

type run struct {
	criteria       Criteria
	location       string
	specialization string
	candidates     []tabular.Record
	origin         geo.Coordinate
	phase          phase
	result         Result
}

func (e *Engine) newRun(criteria Criteria) *run {
	return &run{
		criteria:       criteria,
		location:       textutil.Normalize(criteria.Location),
		specialization: textutil.Normalize(criteria.Specialization),
		phase:          phaseNotStarted,
	}
}

// advance moves a search forward by exactly one phase.
func (e *Engine) advance(ctx context.Context, r *run) {
	switch r.phase {
	case phaseNotStarted:
		r.candidates = e.filterSpecialization(e.providers.Providers(), r.specialization)
		if r.location == "" {
			r.result = newResult(OutcomeListing, "", withoutDistance(r.candidates))
			r.phase = phaseDone
			return
		}
		if exact := e.exactMatches(r.candidates, r.location); len(exact) > 0 {
			r.result = newResult(OutcomeExact, r.criteria.Location, withoutDistance(exact))
			r.phase = phaseDone
			return
		}
		r.phase = phaseExactMatchChecked
	case phaseExactMatchChecked:
		origin, ok := e.resolver.Resolve(ctx, r.criteria.Location)
		if !ok {
			r.result = newResult(OutcomeUnresolvable, r.criteria.Location, nil)
			r.phase = phaseDone
			return
		}
		r.origin = origin
		r.phase = phaseGeocodeAttempted
	case phaseGeocodeAttempted:
		r.result = newResult(OutcomeNearby, r.criteria.Location, e.withinRadius(r.candidates, r.origin))
		r.result.Origin = r.origin
		r.result.HasOrigin = true
		r.phase = phaseDone
	}
}

func (e *Engine) filterSpecialization(records []tabular.Record, specialization string) []tabular.Record {
	if specialization == "" {
		return records
	}
	filtered := make([]tabular.Record, 0)
	for _, record := range records {
		if containsNormalized(record.Get(e.columns.Specialization), specialization) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func (e *Engine) exactMatches(records []tabular.Record, location string) []tabular.Record {
	matches := make([]tabular.Record, 0)
	for _, record := range records {
		if textutil.Normalize(record.Get(e.columns.Postcode)) == location ||
			textutil.Normalize(record.Get(e.columns.City)) == location {
			matches = append(matches, record)
		}
	}
	return matches
}

func (e *Engine) withinRadius(records []tabular.Record, origin geo.Coordinate) []Hit {
	hits := make([]Hit, 0)
	for _, record := range records {
		coords, ok := geo.ParseCoordinate(record.Get(e.columns.Latitude), record.Get(e.columns.Longitude))
		if !ok {
			continue
		}
		distance := e.distance(origin, coords)
		if distance > RadiusKm {
			continue
		}
		hits = append(hits, Hit{Record: record, Distance: vartype.NewVariable(distance)})
	}
	sortByDistance(hits)
	return hits
}

func withoutDistance(records []tabular.Record) []Hit {
	hits := make([]Hit, 0, len(records))
	for _, record := range records {
		hits = append(hits, Hit{Record: record})
	}
	return hits
}
