// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	const (
		expectLogLevel  = slog.LevelInfo
		expectProvider  = ProviderNominatim
		expectCountry   = "ch"
		expectLanguage  = "de"
		expectRateLimit = 1.0
		expectListen    = "127.0.0.1:8080"
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Geocoder.Provider != expectProvider {
			t.Errorf("expected geocoder to be: %s, got %s", expectProvider, conf.Geocoder.Provider)
		}
		if conf.Geocoder.Country != expectCountry {
			t.Errorf("expected country to be: %s, got %s", expectCountry, conf.Geocoder.Country)
		}
		if conf.Geocoder.Language != expectLanguage {
			t.Errorf("expected language to be: %s, got %s", expectLanguage, conf.Geocoder.Language)
		}
		if conf.Geocoder.RateLimit != expectRateLimit {
			t.Errorf("expected rate limit to be: %f, got %f", expectRateLimit, conf.Geocoder.RateLimit)
		}
		if conf.Geocoder.CacheTTLHit != 0 || conf.Geocoder.CacheTTLMiss != 0 {
			t.Errorf("expected cache entries to never expire, got %s/%s", conf.Geocoder.CacheTTLHit,
				conf.Geocoder.CacheTTLMiss)
		}
		if conf.Server.Listen != expectListen {
			t.Errorf("expected listen address to be: %s, got %s", expectListen, conf.Server.Listen)
		}
		if conf.Columns.Postcode != "PLZ" || conf.Columns.City != "Ort" || conf.Columns.Phone != "Tel." {
			t.Errorf("unexpected default columns: %+v", conf.Columns)
		}
		if conf.GeocoderLanguage() != language.German {
			t.Errorf("expected geocoder language to be German, got %s", conf.GeocoderLanguage())
		}
	})
	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("THERAFINDER_GEOCODER_PROVIDER", "OpenCage")
		t.Setenv("THERAFINDER_GEOCODER_APIKEY", "secret")
		t.Setenv("THERAFINDER_GEOCODER_CACHE_TTL_MISS", "10m")
		t.Setenv("THERAFINDER_DATA_URL", "https://example.com/providers.csv")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != ProviderOpenCage {
			t.Errorf("expected geocoder to be: %s, got %s", ProviderOpenCage, conf.Geocoder.Provider)
		}
		if conf.Geocoder.CacheTTLMiss != 10*time.Minute {
			t.Errorf("expected miss TTL to be 10m, got %s", conf.Geocoder.CacheTTLMiss)
		}
		if conf.Data.URL != "https://example.com/providers.csv" {
			t.Errorf("unexpected data URL: %s", conf.Data.URL)
		}
	})
	t.Run("the osm-nominatim alias is accepted", func(t *testing.T) {
		t.Setenv("THERAFINDER_GEOCODER_PROVIDER", "osm-nominatim")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Provider != ProviderNominatim {
			t.Errorf("expected geocoder to be: %s, got %s", ProviderNominatim, conf.Geocoder.Provider)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("THERAFINDER_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("API key providers require a key", func(t *testing.T) {
		for _, provider := range []string{ProviderOpenCage, ProviderGeocodeEarth} {
			t.Setenv("THERAFINDER_GEOCODER_PROVIDER", provider)
			_, err := New()
			if !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("expected error to be %s, got %v", ErrMissingAPIKey, err)
			}
		}
	})

	invalid := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "THERAFINDER_GEOCODER_PROVIDER", "google"},
		{"invalid language", "THERAFINDER_GEOCODER_LANGUAGE", "not a language"},
		{"invalid country", "THERAFINDER_GEOCODER_COUNTRY", "che"},
		{"negative rate limit", "THERAFINDER_GEOCODER_RATE_LIMIT", "-1"},
		{"negative hit TTL", "THERAFINDER_GEOCODER_CACHE_TTL_HIT", "-1m"},
		{"negative miss TTL", "THERAFINDER_GEOCODER_CACHE_TTL_MISS", "-1m"},
		{"negative refresh", "THERAFINDER_DATA_REFRESH", "-1h"},
		{"watch without file", "THERAFINDER_DATA_WATCH", "true"},
	}
	for _, tc := range invalid {
		t.Run("config validate "+tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := New()
			if err == nil {
				t.Error("expected config to fail, but didn't")
			}
		})
	}
}

func TestNewFromFile(t *testing.T) {
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Data.File != "testdata/providers.csv" {
			t.Errorf("expected data file to be: %s, got %s", "testdata/providers.csv", conf.Data.File)
		}
		if conf.Data.Refresh != time.Hour {
			t.Errorf("expected refresh interval to be: %s, got %s", time.Hour, conf.Data.Refresh)
		}
		if conf.Columns.Specialization != "Spezialisierung" {
			t.Errorf("expected default specialization column, got %s", conf.Columns.Specialization)
		}
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestGetLocale(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"de_CH.UTF-8", "de-CH"},
		{"en_US.UTF-8", "en-US"},
		{"C", "C"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("LC_MESSAGES", tc.value)
			if got := getLocale(); got != tc.want {
				t.Errorf("expected locale %q, got %q", tc.want, got)
			}
		})
	}
}
