// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package geo

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPrefix matches the leading decimal number of a value. Anything after it is ignored.
var decimalPrefix = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Coordinate represents a geographic coordinate in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceTo returns the great-circle distance to other in kilometers.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return DistanceKm(c.Lat, c.Lon, other.Lat, other.Lon)
}

// DistanceKm calculates the great-circle distance between two points using the Haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// ParseDecimal parses the leading decimal degree value of value and ignores trailing text such
// as units or hemisphere letters. The first comma is read as decimal separator. It reports false
// if value does not start with a number or the number is not finite.
func ParseDecimal(value string) (float64, bool) {
	value = strings.Replace(strings.TrimSpace(value), ",", ".", 1)
	number := decimalPrefix.FindString(value)
	if number == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

// ParseCoordinate parses a latitude/longitude pair with ParseDecimal.
func ParseCoordinate(lat, lon string) (Coordinate, bool) {
	latVal, ok := ParseDecimal(lat)
	if !ok {
		return Coordinate{}, false
	}
	lonVal, ok := ParseDecimal(lon)
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{Lat: latVal, Lon: lonVal}, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
