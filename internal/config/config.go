// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const configEnv = "THERAFINDER"

// Geocoding providers
const (
	ProviderNominatim    = "nominatim"
	ProviderOpenCage     = "opencage"
	ProviderGeocodeEarth = "geocode-earth"
)

var ErrMissingAPIKey = errors.New("geocoding provider requires an API key")

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Data struct {
		// File takes precedence over URL
		File    string        `fig:"file"`
		URL     string        `fig:"url"`
		Refresh time.Duration `fig:"refresh"`
		Watch   bool          `fig:"watch"`
	} `fig:"data"`

	Columns struct {
		Institution    string `fig:"institution" default:"Therapiestelle"`
		Canton         string `fig:"canton" default:"Kanton"`
		City           string `fig:"city" default:"Ort"`
		Postcode       string `fig:"postcode" default:"PLZ"`
		Phone          string `fig:"phone" default:"Tel."`
		Email          string `fig:"email" default:"E-Mail"`
		Homepage       string `fig:"homepage" default:"Homepage"`
		Specialization string `fig:"specialization" default:"Spezialisierung"`
		Latitude       string `fig:"latitude" default:"lat"`
		Longitude      string `fig:"longitude" default:"lon"`
	} `fig:"columns"`

	Geocoder struct {
		// Allowed values: nominatim, opencage, geocode-earth
		Provider string `fig:"provider" default:"nominatim"`
		APIKey   string `fig:"apikey"`
		// Endpoint overrides the Nominatim search URL for self-hosted instances
		Endpoint string `fig:"endpoint"`
		Country  string `fig:"country" default:"ch"`
		Language string `fig:"language" default:"de"`
		// Requests per second, 0 disables throttling
		RateLimit    float64       `fig:"rate_limit" default:"1"`
		CacheTTLHit  time.Duration `fig:"cache_ttl_hit"`
		CacheTTLMiss time.Duration `fig:"cache_ttl_miss"`
	} `fig:"geocoder"`

	Server struct {
		Listen string `fig:"listen" default:"127.0.0.1:8080"`
	} `fig:"server"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Locale == "" {
		c.Locale = getLocale()
	}

	c.Geocoder.Provider = strings.ToLower(strings.TrimSpace(c.Geocoder.Provider))
	switch c.Geocoder.Provider {
	case ProviderNominatim, "osm-nominatim":
		c.Geocoder.Provider = ProviderNominatim
	case ProviderOpenCage, ProviderGeocodeEarth:
		if c.Geocoder.APIKey == "" {
			return fmt.Errorf("%w: %s", ErrMissingAPIKey, c.Geocoder.Provider)
		}
	default:
		return fmt.Errorf("invalid geocoding provider: %s", c.Geocoder.Provider)
	}
	if _, err := language.Parse(c.Geocoder.Language); err != nil {
		return fmt.Errorf("invalid geocoding language %q: %w", c.Geocoder.Language, err)
	}
	c.Geocoder.Country = strings.ToLower(strings.TrimSpace(c.Geocoder.Country))
	if c.Geocoder.Country != "" && len(c.Geocoder.Country) != 2 {
		return fmt.Errorf("invalid geocoding country code: %s", c.Geocoder.Country)
	}
	if c.Geocoder.RateLimit < 0 {
		return fmt.Errorf("invalid geocoding rate limit: %f", c.Geocoder.RateLimit)
	}
	if c.Geocoder.CacheTTLHit < 0 || c.Geocoder.CacheTTLMiss < 0 {
		return fmt.Errorf("invalid geocoding cache TTL: %s/%s", c.Geocoder.CacheTTLHit, c.Geocoder.CacheTTLMiss)
	}
	if c.Data.Refresh < 0 {
		return fmt.Errorf("invalid data refresh interval: %s", c.Data.Refresh)
	}
	if c.Data.Watch && c.Data.File == "" {
		return errors.New("watching for data changes requires a data file")
	}
	if c.Server.Listen == "" {
		return errors.New("server listen address must not be empty")
	}

	return nil
}

// GeocoderLanguage returns the parsed language preference for geocoding results.
func (c *Config) GeocoderLanguage() language.Tag {
	tag, err := language.Parse(c.Geocoder.Language)
	if err != nil {
		return language.German
	}
	return tag
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
