// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package match

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/carmenbhuber/TheraFinder/internal/geo"
	"github.com/carmenbhuber/TheraFinder/internal/tabular"
	"github.com/carmenbhuber/TheraFinder/internal/textutil"
	"github.com/carmenbhuber/TheraFinder/internal/vartype"
)

// Outcome tells how a Result came about.
type Outcome uint8

const (
	// OutcomeListing means no location was given; the hits are all providers passing the
	// specialization filter.
	OutcomeListing Outcome = iota
	// OutcomeExact means providers matched the location by postcode or city.
	OutcomeExact
	// OutcomeNearby means the location was geocoded and the hits lie within RadiusKm.
	OutcomeNearby
	// OutcomeUnresolvable means no provider matched exactly and the location could not be geocoded.
	OutcomeUnresolvable
)

var outcomeNames = map[Outcome]string{
	OutcomeListing:      "listing",
	OutcomeExact:        "exact",
	OutcomeNearby:       "nearby",
	OutcomeUnresolvable: "unresolvable",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", o)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Hit is a provider record in a Result. Distance is only set for OutcomeNearby and is left out of
// the JSON encoding otherwise.
type Hit struct {
	Record   tabular.Record     `json:"fields"`
	Distance vartype.VarFloat64 `json:"distance_km,omitzero"`
}

// Result is the outcome of a search. OriginLabel is the location query as entered, or empty if
// no location was given. Origin is only meaningful if HasOrigin is true.
type Result struct {
	Hits        []Hit
	OriginLabel string
	Outcome     Outcome
	Origin      geo.Coordinate
	HasOrigin   bool
}

// Records returns the provider records of all hits in order.
func (r Result) Records() []tabular.Record {
	records := make([]tabular.Record, 0, len(r.Hits))
	for _, hit := range r.Hits {
		records = append(records, hit.Record)
	}
	return records
}

func newResult(outcome Outcome, label string, hits []Hit) Result {
	if hits == nil {
		hits = []Hit{}
	}
	return Result{Hits: hits, OriginLabel: label, Outcome: outcome}
}

// sortByDistance orders hits nearest first. Hits at equal distance keep their order.
func sortByDistance(hits []Hit) {
	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance.Value(), b.Distance.Value())
	})
}

func containsNormalized(value, needle string) bool {
	return strings.Contains(textutil.Normalize(value), needle)
}
