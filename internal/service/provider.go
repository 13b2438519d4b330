// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/carmenbhuber/TheraFinder/internal/config"
	"github.com/carmenbhuber/TheraFinder/internal/geocode"
	geocodeearth "github.com/carmenbhuber/TheraFinder/internal/geocode/provider/geocode-earth"
	"github.com/carmenbhuber/TheraFinder/internal/geocode/provider/opencage"
	nominatim "github.com/carmenbhuber/TheraFinder/internal/geocode/provider/osm-nominatim"
	"github.com/carmenbhuber/TheraFinder/internal/http"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
)

func selectGeocodeProvider(conf *config.Config, log *logger.Logger, client *http.Client) (*geocode.CachedGeocoder, error) {
	var coder geocode.Geocoder
	lang := conf.GeocoderLanguage()
	country := conf.Geocoder.Country

	switch strings.ToLower(conf.Geocoder.Provider) {
	case config.ProviderNominatim:
		coder = nominatim.New(client, lang, country).WithEndpoint(conf.Geocoder.Endpoint)
	case config.ProviderOpenCage:
		if conf.Geocoder.APIKey == "" {
			return nil, fmt.Errorf("opencage geocoder requires an API key")
		}
		coder = opencage.New(client, lang, conf.Geocoder.APIKey, country)
	case config.ProviderGeocodeEarth:
		if conf.Geocoder.APIKey == "" {
			return nil, fmt.Errorf("geocode-earth geocoder requires an API key")
		}
		coder = geocodeearth.New(client, lang, conf.Geocoder.APIKey, country)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", conf.Geocoder.Provider)
	}

	limited := geocode.NewRateLimitedGeocoder(coder, conf.Geocoder.RateLimit)
	return geocode.NewCachedGeocoder(limited, conf.Geocoder.CacheTTLHit, conf.Geocoder.CacheTTLMiss, log), nil
}
