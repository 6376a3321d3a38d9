package qibla

import (
	"errors"
	"math"
	"testing"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

func TestCalculate_KnownCities(t *testing.T) {
	tests := []struct {
		name         string
		c            geomath.Coordinate
		wantBearing  float64
		wantDistance float64
	}{
		{"Dhaka", geomath.Coordinate{Latitude: 23.8103, Longitude: 90.4125}, 277.57, 5171.95},
		{"London", geomath.Coordinate{Latitude: 51.5074, Longitude: -0.1278}, 118.99, 4793.78},
		{"New York", geomath.Coordinate{Latitude: 40.7128, Longitude: -74.0060}, 58.48, 10306.3},
		{"Jakarta", geomath.Coordinate{Latitude: -6.2088, Longitude: 106.8456}, 295.15, 7920.1},
		{"Cairo", geomath.Coordinate{Latitude: 30.0444, Longitude: 31.2357}, 136.14, 1287.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.c)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}
			if math.Abs(got.Bearing-tt.wantBearing) > 0.05 {
				t.Errorf("Bearing = %.3f, want %.2f", got.Bearing, tt.wantBearing)
			}
			if math.Abs(got.Distance-tt.wantDistance) > 1 {
				t.Errorf("Distance = %.2f, want %.2f", got.Distance, tt.wantDistance)
			}
		})
	}
}

func TestCalculate_AtKaaba(t *testing.T) {
	got, err := Calculate(Kaaba)
	if err != nil {
		t.Fatal(err)
	}
	if got.Distance != 0 || got.Bearing != 0 {
		t.Errorf("Calculate(Kaaba) = %+v, want zero result", got)
	}
}

func TestCalculate_InvalidCoordinate(t *testing.T) {
	_, err := Calculate(geomath.Coordinate{Latitude: 0, Longitude: 200})
	if !errors.Is(err, geomath.ErrInvalidCoordinate) {
		t.Errorf("error = %v, want ErrInvalidCoordinate", err)
	}
}

func TestRelativeDirection(t *testing.T) {
	tests := []struct {
		name    string
		bearing float64
		heading float64
		want    Direction
	}{
		{"aligned", 277.6, 277.6, FacingQibla},
		{"just inside right edge", 100, 91, FacingQibla},
		{"just inside left edge", 100, 109, FacingQibla},
		{"delta exactly 10", 100, 90, TurnRight},
		{"delta 179", 180, 1, TurnRight},
		{"delta exactly 180", 180, 0, TurnLeft},
		{"delta exactly 350", 0, 10, TurnLeft},
		{"delta 350.5 is facing", 0, 9.5, FacingQibla},
		{"wraps across north", 3, 355, FacingQibla},
		{"heading east of dhaka qibla", 277.6, 0, TurnLeft},
		{"heading south of london qibla", 119, 200, TurnLeft},
		{"heading north of london qibla", 119, 30, TurnRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeDirection(tt.bearing, tt.heading); got != tt.want {
				t.Errorf("RelativeDirection(%v, %v) = %v, want %v", tt.bearing, tt.heading, got, tt.want)
			}
		})
	}
}

func TestDirectionString(t *testing.T) {
	tests := map[Direction]string{
		FacingQibla: "Facing Qibla",
		TurnLeft:    "Turn Left",
		TurnRight:   "Turn Right",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestRotation(t *testing.T) {
	tests := []struct {
		bearing, heading, want float64
	}{
		{277.6, 277.6, 0},
		{90, 0, -90},
		{0, 90, -270},
	}
	for _, tt := range tests {
		if got := Rotation(tt.bearing, tt.heading); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Rotation(%v, %v) = %v, want %v", tt.bearing, tt.heading, got, tt.want)
		}
	}
}

func TestOffBy(t *testing.T) {
	if got := OffBy(10, 350); math.Abs(got-20) > 1e-9 {
		t.Errorf("OffBy(10, 350) = %v, want 20", got)
	}
	if got := OffBy(90, 0); math.Abs(got-90) > 1e-9 {
		t.Errorf("OffBy(90, 0) = %v, want 90", got)
	}
}
