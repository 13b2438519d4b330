// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package opencage

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
	APIEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	APITimeout  = time.Second * 10
	name        = "opencage"
)

type OpenCage struct {
	apikey  string
	country string
	http    *http.Client
	lang    language.Tag
}

type Response struct {
	Results      []Result `json:"results"`
	TotalResults int      `json:"total_results"`
}

type Result struct {
	Components  Components `json:"components"`
	DisplayName string     `json:"formatted"`
	Geometry    Geometry   `json:"geometry"`
}

type Components struct {
	NomalizedCity string `json:"_normalized_city"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	Postcode      string `json:"postcode"`
	State         string `json:"state"`
	StateCode     string `json:"state_code"`
}

type Geometry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

func New(client *http.Client, lang language.Tag, apikey, country string) *OpenCage {
	return &OpenCage{
		apikey:  apikey,
		country: country,
		lang:    lang,
		http:    client,
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) Search(ctx context.Context, address string) (geo.Coordinate, error) {
	var response Response

	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("q", address)
	query.Set("limit", "1")
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	query.Set("language", o.lang.String())
	if o.country != "" {
		query.Set("countrycode", o.country)
	}

	if _, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout); err != nil {
		if errors.Is(err, http.ErrUnexpectedStatus) || errors.Is(err, http.ErrInvalidJSON) {
			return geo.Coordinate{}, fmt.Errorf("%w: OpenCage API: %w", geocode.ErrUnresolvable, err)
		}
		return geo.Coordinate{}, fmt.Errorf("failed to retrieve coordinates from OpenCage API: %w", err)
	}
	if len(response.Results) < 1 {
		return geo.Coordinate{}, fmt.Errorf("%w: no coordinates found for address %q", geocode.ErrUnresolvable, address)
	}

	coords := geo.Coordinate{
		Lat: response.Results[0].Geometry.Lat,
		Lon: response.Results[0].Geometry.Lon,
	}
	if !coords.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%w: OpenCage API returned invalid coordinates: %f, %f",
			geocode.ErrUnresolvable, coords.Lat, coords.Lon)
	}
	return coords, nil
}
