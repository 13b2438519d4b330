// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package geo

import (
	"math"
	"testing"
)

const tolerance = 1e-9

var (
	zurichHB = Coordinate{Lat: 47.378, Lon: 8.540}
	bern     = Coordinate{Lat: 46.95, Lon: 7.45}
)

func TestDistanceKm(t *testing.T) {
	t.Run("identical points have zero distance", func(t *testing.T) {
		points := []Coordinate{zurichHB, bern, {0, 0}, {-33.8688, 151.2093}, {90, 0}, {-90, 180}}
		for _, p := range points {
			if d := p.DistanceTo(p); math.Abs(d) > tolerance {
				t.Errorf("expected zero distance for %v, got %f", p, d)
			}
		}
	})
	t.Run("distance is symmetric", func(t *testing.T) {
		pairs := [][2]Coordinate{
			{zurichHB, bern},
			{{0, 0}, {0, 180}},
			{{51.5074, -0.1278}, {40.7128, -74.0060}},
			{{-33.8688, 151.2093}, {35.6762, 139.6503}},
		}
		for _, pair := range pairs {
			ab := DistanceKm(pair[0].Lat, pair[0].Lon, pair[1].Lat, pair[1].Lon)
			ba := DistanceKm(pair[1].Lat, pair[1].Lon, pair[0].Lat, pair[0].Lon)
			if math.Abs(ab-ba) > tolerance {
				t.Errorf("expected symmetric distance for %v, got %f and %f", pair, ab, ba)
			}
		}
	})
	t.Run("known distances", func(t *testing.T) {
		tests := []struct {
			name string
			a, b Coordinate
			want float64
			tol  float64
		}{
			{"zurich to bern", zurichHB, bern, 95.6, 1},
			{"one degree of latitude", Coordinate{0, 0}, Coordinate{1, 0}, 111.195, 0.01},
			{"half the equator", Coordinate{0, 0}, Coordinate{0, 180}, math.Pi * EarthRadiusKm, 1e-6},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.a.DistanceTo(tc.b); math.Abs(got-tc.want) > tc.tol {
					t.Errorf("expected distance to be %f (±%f), got %f", tc.want, tc.tol, got)
				}
			})
		}
	})
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"47.37", 47.37, true},
		{"47,37", 47.37, true},
		{" 8.54 ", 8.54, true},
		{"-0.5", -0.5, true},
		{"", 0, false},
		{"   ", 0, false},
		{"+8.54", 8.54, true},
		{".5", 0.5, true},
		{"47.", 47, true},
		{"4.737e1", 47.37, true},
		{"47.3769°", 47.3769, true},
		{"8.54 E", 8.54, true},
		{"1,234,5", 1.234, true},
		{"0x1p4", 0, true},
		{"1_0", 1, true},
		{"5e", 5, true},
		{"abc", 0, false},
		{"N 47.37", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"Infinity", 0, false},
		{"1e400", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseDecimal(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ParseDecimal(%q) ok = %t, want %t", tc.input, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("ParseDecimal(%q) = %f, want %f", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseCoordinate(t *testing.T) {
	t.Run("both values parse", func(t *testing.T) {
		coords, ok := ParseCoordinate("47,4988", "8.7237")
		if !ok {
			t.Fatal("expected coordinate to parse")
		}
		if coords.Lat != 47.4988 || coords.Lon != 8.7237 {
			t.Errorf("unexpected coordinate: %+v", coords)
		}
	})
	t.Run("one broken value fails the pair", func(t *testing.T) {
		if _, ok := ParseCoordinate("47.37", ""); ok {
			t.Error("expected missing longitude to fail")
		}
		if _, ok := ParseCoordinate("n/a", "8.54"); ok {
			t.Error("expected broken latitude to fail")
		}
	})
	t.Run("trailing units are ignored", func(t *testing.T) {
		coords, ok := ParseCoordinate("47.3769°", "8.5417 E")
		if !ok {
			t.Fatal("expected coordinate to parse")
		}
		if coords.Lat != 47.3769 || coords.Lon != 8.5417 {
			t.Errorf("unexpected coordinate: %+v", coords)
		}
		if _, ok = ParseCoordinate("°47", "8.54"); ok {
			t.Error("expected broken latitude to fail")
		}
	})
}

func TestCoordinate_Valid(t *testing.T) {
	if !zurichHB.Valid() {
		t.Error("expected Zürich to be a valid coordinate")
	}
	if (Coordinate{Lat: 91, Lon: 0}).Valid() {
		t.Error("expected latitude 91 to be invalid")
	}
	if (Coordinate{Lat: 0, Lon: -181}).Valid() {
		t.Error("expected longitude -181 to be invalid")
	}
}
