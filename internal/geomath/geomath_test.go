package geomath

import (
	"errors"
	"math"
	"testing"
)

var samplePoints = []Coordinate{
	{23.8103, 90.4125},   // Dhaka
	{51.5074, -0.1278},   // London
	{40.7128, -74.0060},  // New York
	{-33.8688, 151.2093}, // Sydney
	{21.4225, 39.8262},   // Kaaba
	{89.9, 0},
	{-89.9, 179.9},
	{0, -180},
	{0, 180},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"north pole", Coordinate{90, 0}, false},
		{"date line", Coordinate{-90, -180}, false},
		{"latitude too high", Coordinate{90.01, 0}, true},
		{"latitude too low", Coordinate{-91, 0}, true},
		{"longitude too high", Coordinate{0, 180.5}, true},
		{"longitude too low", Coordinate{0, -181}, true},
		{"NaN latitude", Coordinate{math.NaN(), 0}, true},
		{"infinite longitude", Coordinate{0, math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate(%v) expected error, got nil", tt.c)
				}
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Errorf("Validate(%v) error = %v, want ErrInvalidCoordinate", tt.c, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%v) unexpected error: %v", tt.c, err)
			}
		})
	}
}

func TestNewCoordinate(t *testing.T) {
	c, err := NewCoordinate(23.8103, 90.4125)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 23.8103 || c.Longitude != 90.4125 {
		t.Errorf("NewCoordinate = %v", c)
	}

	if _, err := NewCoordinate(100, 0); err == nil {
		t.Error("expected error for latitude 100")
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			ab := DistanceKm(a, b)
			ba := DistanceKm(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("DistanceKm(%v,%v)=%v but reverse=%v", a, b, ab, ba)
			}
			if ab < 0 {
				t.Errorf("DistanceKm(%v,%v)=%v is negative", a, b, ab)
			}
			if ab > math.Pi*EarthRadiusKm+1e-9 {
				t.Errorf("DistanceKm(%v,%v)=%v exceeds half circumference", a, b, ab)
			}
		}
	}
}

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	for _, a := range samplePoints {
		if d := DistanceKm(a, a); d != 0 {
			t.Errorf("DistanceKm(%v,%v) = %v, want 0", a, a, d)
		}
	}
}

func TestDistanceKm_Known(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
		tol  float64
	}{
		{"antipodes on equator", Coordinate{0, 0}, Coordinate{0, 180}, math.Pi * EarthRadiusKm, 1e-6},
		{"one degree of latitude", Coordinate{0, 0}, Coordinate{1, 0}, 111.195, 0.01},
		{"London to Kaaba", Coordinate{51.5074, -0.1278}, Coordinate{21.4225, 39.8262}, 4793.8, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("DistanceKm = %.3f, want %.3f (+/- %v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestInitialBearingDeg_Range(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			if a == b {
				continue
			}
			got := InitialBearingDeg(a, b)
			if got < 0 || got >= 360 {
				t.Errorf("InitialBearingDeg(%v,%v) = %v, out of [0,360)", a, b, got)
			}
		}
	}
}

func TestInitialBearingDeg_Cardinal(t *testing.T) {
	tests := []struct {
		name string
		to   Coordinate
		want float64
	}{
		{"north", Coordinate{10, 0}, 0},
		{"east", Coordinate{0, 10}, 90},
		{"south", Coordinate{-10, 0}, 180},
		{"west", Coordinate{0, -10}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InitialBearingDeg(Coordinate{0, 0}, tt.to)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InitialBearingDeg = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitialBearingDeg_NotSymmetric(t *testing.T) {
	a := Coordinate{51.5074, -0.1278}
	b := Coordinate{21.4225, 39.8262}
	if InitialBearingDeg(a, b) == InitialBearingDeg(b, a) {
		t.Error("expected forward and reverse bearings to differ")
	}
}

func TestInitialBearingDeg_SamePoint(t *testing.T) {
	a := Coordinate{23.8103, 90.4125}
	if got := InitialBearingDeg(a, a); got != 0 {
		t.Errorf("InitialBearingDeg(a,a) = %v, want 0", got)
	}
}

func TestNormalize360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-720, 0},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := Normalize360(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
