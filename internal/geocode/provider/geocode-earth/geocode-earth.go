// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/carmenbhuber/TheraFinder/internal/geo"
	"github.com/carmenbhuber/TheraFinder/internal/geocode"
	"github.com/carmenbhuber/TheraFinder/internal/http"
)

const (
	APIEndpoint = "https://api.geocode.earth/v1/search"
	APITimeout  = time.Second * 10
	name        = "geocode-earth"
)

type GeocodeEarth struct {
	apikey  string
	country string
	http    *http.Client
	lang    language.Tag
}

type SearchResponse struct {
	Features []SearchFeature `json:"features"`
	Type     string          `json:"type"`
}

type SearchFeature struct {
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
	Type       string     `json:"type"`
}

// Geometry is a GeoJSON point. Coordinates are ordered longitude, latitude.
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
	Type        string    `json:"type"`
}

type Properties struct {
	DisplayName string `json:"label"`
	City        string `json:"locality"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Postcode    string `json:"postalcode"`
	State       string `json:"region"`
}

func New(client *http.Client, lang language.Tag, apikey, country string) *GeocodeEarth {
	return &GeocodeEarth{
		apikey:  apikey,
		country: country,
		lang:    lang,
		http:    client,
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) Search(ctx context.Context, address string) (geo.Coordinate, error) {
	var response SearchResponse

	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("text", address)
	query.Set("size", "1")
	query.Set("lang", g.lang.String())
	if g.country != "" {
		query.Set("boundary.country", g.country)
	}

	code, err := g.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if err != nil {
		if errors.Is(err, http.ErrUnexpectedStatus) || errors.Is(err, http.ErrInvalidJSON) {
			return geo.Coordinate{}, fmt.Errorf("%w: received non-positive response from geocode.earth API (%d): %w",
				geocode.ErrUnresolvable, code, err)
		}
		return geo.Coordinate{}, fmt.Errorf("failed to retrieve coordinates from geocode.earth API: %w", err)
	}
	if len(response.Features) < 1 {
		return geo.Coordinate{}, fmt.Errorf("%w: no coordinates found for address %q", geocode.ErrUnresolvable, address)
	}
	point := response.Features[0].Geometry.Coordinates
	if len(point) != 2 {
		return geo.Coordinate{}, fmt.Errorf("%w: unexpected %d coordinates in response, expected 2",
			geocode.ErrUnresolvable, len(point))
	}

	coords := geo.Coordinate{Lat: point[1], Lon: point[0]}
	if !coords.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%w: geocode.earth API returned invalid coordinates: %f, %f",
			geocode.ErrUnresolvable, coords.Lat, coords.Lon)
	}
	return coords, nil
}
