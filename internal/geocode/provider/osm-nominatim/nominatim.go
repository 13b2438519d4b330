// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"bytes"
	"context"
	"encoding/json"
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
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	APITimeout        = time.Second * 10
	name              = "osm-nominatim"
)

type Nominatim struct {
	http     *http.Client
	lang     language.Tag
	country  string
	endpoint string
}

type SearchResult struct {
	APILat      Decimal `json:"lat"`
	APILon      Decimal `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Decimal accepts a coordinate encoded either as a JSON string or as a JSON number. Nominatim
// returns strings, some mirrors return numbers.
type Decimal string

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Decimal(n.String())
	return nil
}

// New returns a Nominatim geocoder restricted to country (ISO 3166-1 alpha-2, may be empty)
// preferring results in lang.
func New(client *http.Client, lang language.Tag, country string) *Nominatim {
	return &Nominatim{
		http:     client,
		lang:     lang,
		country:  country,
		endpoint: APISearchEndpoint,
	}
}

// WithEndpoint points the geocoder to a self-hosted Nominatim instance.
func (n *Nominatim) WithEndpoint(endpoint string) *Nominatim {
	if endpoint != "" {
		n.endpoint = endpoint
	}
	return n
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Search(ctx context.Context, address string) (geo.Coordinate, error) {
	var result []SearchResult

	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", address)
	query.Set("limit", "1")
	if n.country != "" {
		query.Set("countrycodes", n.country)
	}
	headers := map[string]string{"Accept-Language": n.lang.String()}

	if _, err := n.http.GetWithTimeout(ctx, n.endpoint, &result, query, headers, APITimeout); err != nil {
		if errors.Is(err, http.ErrUnexpectedStatus) || errors.Is(err, http.ErrInvalidJSON) {
			return geo.Coordinate{}, fmt.Errorf("%w: Nominatim API: %w", geocode.ErrUnresolvable, err)
		}
		return geo.Coordinate{}, fmt.Errorf("failed to fetch address details from Nominatim API: %w", err)
	}

	if len(result) < 1 {
		return geo.Coordinate{}, fmt.Errorf("%w: no coordinates found for address %q", geocode.ErrUnresolvable, address)
	}
	coords, ok := geo.ParseCoordinate(string(result[0].APILat), string(result[0].APILon))
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("%w: failed to parse coordinates from Nominatim API response: %q, %q",
			geocode.ErrUnresolvable, result[0].APILat, result[0].APILon)
	}
	if !coords.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%w: Nominatim API returned invalid coordinates: %f, %f",
			geocode.ErrUnresolvable, coords.Lat, coords.Lon)
	}

	return coords, nil
}
