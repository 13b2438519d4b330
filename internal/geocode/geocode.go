// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"

	"github.com/carmenbhuber/TheraFinder/internal/geo"
)

// ErrUnresolvable is returned by a Geocoder when the service answered but the query could not be
// turned into coordinates: a non-successful response, no candidates or unparseable coordinates.
// Failures wrapping it are cached as negative results; any other error is treated as transient.
var ErrUnresolvable = errors.New("location could not be resolved")

// Geocoder resolves a free-text location to coordinates using an external service.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) (geo.Coordinate, error)
}
