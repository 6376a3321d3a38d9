package solar

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

var (
	london = geomath.Coordinate{Latitude: 51.5074, Longitude: -0.1278}
	dhaka  = geomath.Coordinate{Latitude: 23.8103, Longitude: 90.4125}
	tromso = geomath.Coordinate{Latitude: 69.6496, Longitude: 18.9560}
	oslo   = geomath.Coordinate{Latitude: 59.9139, Longitude: 10.7522}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// within fails the test when got is more than tol away from the given UTC clock time.
func within(t *testing.T, label string, got time.Time, y int, m time.Month, d, hh, mm int, tol time.Duration) {
	t.Helper()
	want := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	diff := got.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > tol {
		t.Errorf("%s = %s, want %s (+/- %s)", label, got.Format(time.RFC3339), want.Format(time.RFC3339), tol)
	}
}

func TestLondonReferenceTimes(t *testing.T) {
	// Reference values published by Al Adhan for 28 Feb 2026 (ISNA, 15°).
	date := day(2026, 2, 28)

	sunrise, err := Sunrise(date, london)
	if err != nil {
		t.Fatalf("Sunrise: %v", err)
	}
	within(t, "sunrise", sunrise, 2026, 2, 28, 6, 48, time.Minute)

	sunset, err := Sunset(date, london)
	if err != nil {
		t.Fatalf("Sunset: %v", err)
	}
	within(t, "sunset", sunset, 2026, 2, 28, 17, 39, time.Minute)

	dawn, err := Crossing(date, london, 15, Morning)
	if err != nil {
		t.Fatalf("Crossing(15, Morning): %v", err)
	}
	within(t, "fajr 15°", dawn, 2026, 2, 28, 5, 17, time.Minute)

	dusk, err := Crossing(date, london, 15, Evening)
	if err != nil {
		t.Fatalf("Crossing(15, Evening): %v", err)
	}
	within(t, "isha 15°", dusk, 2026, 2, 28, 19, 10, time.Minute)

	noon, err := Transit(date, london)
	if err != nil {
		t.Fatalf("Transit: %v", err)
	}
	within(t, "transit", noon, 2026, 2, 28, 12, 13, time.Minute)
}

func TestEastOfGreenwichEventsFallOnPreviousUTCDay(t *testing.T) {
	// Dhaka fajr (~05:06 local, UTC+6) is 23:06 UTC the previous evening.
	fajr, err := Crossing(day(2026, 2, 28), dhaka, 18, Morning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	within(t, "dhaka fajr", fajr, 2026, 2, 27, 23, 6, 2*time.Minute)
}

func TestOrdering(t *testing.T) {
	date := day(2025, 9, 1)
	for _, c := range []geomath.Coordinate{london, dhaka, {Latitude: -33.8688, Longitude: 151.2093}} {
		dawn, err := Crossing(date, c, 18, Morning)
		if err != nil {
			t.Fatalf("%v dawn: %v", c, err)
		}
		rise, _ := Sunrise(date, c)
		noon, _ := Transit(date, c)
		set, _ := Sunset(date, c)
		dusk, err := Crossing(date, c, 18, Evening)
		if err != nil {
			t.Fatalf("%v dusk: %v", c, err)
		}
		if !(dawn.Before(rise) && rise.Before(noon) && noon.Before(set) && set.Before(dusk)) {
			t.Errorf("%v: events out of order: %v %v %v %v %v", c, dawn, rise, noon, set, dusk)
		}
	}
}

func TestNoEvent(t *testing.T) {
	midsummer := day(2025, 6, 21)

	tests := []struct {
		name       string
		c          geomath.Coordinate
		depression float64
		side       Side
		wantErr    bool
	}{
		{"tromso midnight sun has no sunrise", tromso, StandardDepression, Morning, true},
		{"tromso midnight sun has no sunset", tromso, StandardDepression, Evening, true},
		{"oslo never reaches 18 degrees", oslo, 18, Morning, true},
		{"oslo still has a sunrise", oslo, StandardDepression, Morning, false},
		{"north pole", geomath.Coordinate{Latitude: 90, Longitude: 0}, StandardDepression, Morning, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Crossing(midsummer, tt.c, tt.depression, tt.side)
			if tt.wantErr {
				if !errors.Is(err, ErrNoEvent) {
					t.Fatalf("expected ErrNoEvent, got %v (time %v)", err, got)
				}
				if !got.IsZero() {
					t.Errorf("expected zero time alongside ErrNoEvent, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTransitExistsDuringPolarDay(t *testing.T) {
	if _, err := Transit(day(2025, 6, 21), tromso); err != nil {
		t.Errorf("Transit should always exist, got %v", err)
	}
}

func TestInvalidCoordinate(t *testing.T) {
	bad := geomath.Coordinate{Latitude: 95, Longitude: 0}
	if _, err := Crossing(day(2025, 1, 1), bad, 18, Morning); !errors.Is(err, geomath.ErrInvalidCoordinate) {
		t.Errorf("Crossing error = %v, want ErrInvalidCoordinate", err)
	}
	if _, err := Transit(day(2025, 1, 1), bad); !errors.Is(err, geomath.ErrInvalidCoordinate) {
		t.Errorf("Transit error = %v, want ErrInvalidCoordinate", err)
	}
	if _, err := Declination(day(2025, 1, 1), bad); !errors.Is(err, geomath.ErrInvalidCoordinate) {
		t.Errorf("Declination error = %v, want ErrInvalidCoordinate", err)
	}
}

func TestDeterministic(t *testing.T) {
	date := day(2026, 3, 20)
	a, err := Crossing(date, dhaka, 18, Evening)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		b, _ := Crossing(date, dhaka, 18, Evening)
		if !a.Equal(b) {
			t.Fatalf("run %d: %v != %v", i, b, a)
		}
	}
}

func TestTimeOfDayIgnored(t *testing.T) {
	morning := time.Date(2026, 3, 20, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 20, 23, 59, 0, 0, time.UTC)
	a, _ := Sunset(morning, london)
	b, _ := Sunset(evening, london)
	if !a.Equal(b) {
		t.Errorf("time of day changed the result: %v vs %v", a, b)
	}
}

func TestDeclinationSeasons(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want float64
		tol  float64
	}{
		{"june solstice", day(2025, 6, 21), 23.44, 0.05},
		{"december solstice", day(2025, 12, 21), -23.44, 0.05},
		{"march equinox", day(2025, 3, 20), 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Declination(tt.date, london)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Declination = %.3f, want %.2f", got, tt.want)
			}
		})
	}
}
