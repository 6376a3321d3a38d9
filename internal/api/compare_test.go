package api

import (
	"testing"
	"time"

	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

func TestClock(t *testing.T) {
	day := time.Date(2026, 2, 28, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"plain", "05:17", time.Date(2026, 2, 28, 5, 17, 0, 0, time.UTC), false},
		{"zone suffix", "19:10 (GMT)", time.Date(2026, 2, 28, 19, 10, 0, 0, time.UTC), false},
		{"padded", "  00:14 ", time.Date(2026, 2, 28, 0, 14, 0, 0, time.UTC), false},
		{"garbage", "noon", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clock(day, tt.value, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Clock(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Clock(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestClock_UsesDateInLocation(t *testing.T) {
	// 20:00 UTC on the 28th is already the 1st of March at UTC+6.
	plus6 := time.FixedZone("BDT", 6*3600)
	got, err := Clock(time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC), "05:06", plus6)
	if err != nil {
		t.Fatal(err)
	}
	if got.Day() != 1 || got.Month() != time.March {
		t.Errorf("Clock = %v, want 1 March", got)
	}
}

func TestCompare(t *testing.T) {
	at := func(d, h, m, s int) time.Time { return time.Date(2026, 2, d, h, m, s, 0, time.UTC) }
	local := []prayer.Prayer{
		{Name: prayer.Fajr, Time: at(28, 5, 16, 34)},
		{Name: prayer.Isha, Time: at(28, 19, 10, 34)},
		{Name: prayer.Midnight, Time: at(28, 23, 59, 40)},
	}
	ref := sampleResponse().Data.Timings
	ref.Midnight = "00:01"

	drifts, err := Compare(local, ref, time.UTC)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	want := []time.Duration{
		-26 * time.Second,
		34 * time.Second,
		-80 * time.Second, // reference is just past midnight on the next day
	}
	for i, d := range drifts {
		if d.Delta != want[i] {
			t.Errorf("%s delta = %v, want %v", d.Name, d.Delta, want[i])
		}
	}

	worst, ok := MaxDrift(drifts)
	if !ok || worst.Name != prayer.Midnight {
		t.Errorf("MaxDrift = %+v, want Midnight", worst)
	}
}

func TestCompare_MissingReference(t *testing.T) {
	local := []prayer.Prayer{{Name: prayer.Fajr, Time: time.Now()}}
	if _, err := Compare(local, Timings{}, time.UTC); err == nil {
		t.Error("Compare should fail when the reference lacks a prayer")
	}
}

func TestMaxDrift_Empty(t *testing.T) {
	if _, ok := MaxDrift(nil); ok {
		t.Error("MaxDrift(nil) should report nothing")
	}
}

func TestTimingsGet(t *testing.T) {
	ref := sampleResponse().Data.Timings
	for _, name := range prayer.AllPrayerNames {
		if ref.Get(name) == "" {
			t.Errorf("Get(%q) is empty", name)
		}
	}
	if ref.Get("Tahajjud") != "" {
		t.Error("unknown name should be empty")
	}
}

func TestHijriOffset(t *testing.T) {
	ref := sampleResponse().Data.Date.Hijri // 11 Ramadan 1447

	tests := []struct {
		local hijri.Date
		want  int
	}{
		{hijri.Date{Day: 11, Month: 9, Year: 1447}, 0},
		{hijri.Date{Day: 12, Month: 9, Year: 1447}, 1},
		{hijri.Date{Day: 10, Month: 9, Year: 1447}, -1},
		{hijri.Date{Day: 1, Month: 10, Year: 1447}, 20},
	}
	for _, tt := range tests {
		got, err := HijriOffset(tt.local, ref)
		if err != nil {
			t.Fatalf("HijriOffset(%v): %v", tt.local, err)
		}
		if got != tt.want {
			t.Errorf("HijriOffset(%v) = %d, want %d", tt.local, got, tt.want)
		}
	}

	if _, err := HijriOffset(hijri.Date{Day: 11, Month: 9, Year: 1447}, HijriDate{}); err == nil {
		t.Error("expected error for an empty reference date")
	}
}
