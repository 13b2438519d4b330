// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/carmenbhuber/TheraFinder/internal/match"
)

// Status messages shown to users. The English text is the message ID; translations live in the
// embedded catalogs.
const (
	MsgEmptyQuery    = "Please enter a location/postcode or a specialization."
	MsgNoResults     = "No matching entries found."
	MsgNoNearby      = "No exact match found. No locations within the %d km radius could be determined."
	MsgResultsUpdate = "Results updated."
	MsgDistance      = "%.1f km away"
	MsgNoSource      = "Please select a data file or URL."
	MsgLoadFailed    = "The provider table could not be loaded."
	MsgNoInstitution = "Institution"

	MsgEntryLoaded   = "%d entry loaded."
	MsgEntriesLoaded = "%d entries loaded."
)

//go:embed locale/*
var locales embed.FS

// New returns a localizer for loc. An empty loc detects the locale of the environment and falls
// back to English.
func New(loc string) (*spreak.Localizer, error) {
	tag := language.Make(loc)
	var err error
	if loc == "" {
		tag, err = locale.Detect()
		if err != nil {
			tag = language.English // Unable to detect locale, fallback to English
		}
	}

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs(spreak.NoDomain, localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return spreak.NewLocalizer(bundle, tag), nil
}

// EntriesLoaded returns the localized status for a completed load of count records.
func EntriesLoaded(loc *spreak.Localizer, count int) string {
	return loc.NGetf(MsgEntryLoaded, MsgEntriesLoaded, count, count)
}

// SearchStatus returns the localized status line for a finished search.
func SearchStatus(loc *spreak.Localizer, result match.Result) string {
	switch {
	case len(result.Hits) == 0 && result.Outcome != match.OutcomeListing:
		return loc.Getf(MsgNoNearby, int(match.RadiusKm))
	case len(result.Hits) == 0:
		return loc.Get(MsgNoResults)
	default:
		return loc.Get(MsgResultsUpdate)
	}
}
