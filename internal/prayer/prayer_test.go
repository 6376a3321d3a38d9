package prayer

import (
	"testing"
	"time"
)

// helper to build a time.Time on a given date in UTC.
func makeTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 2, 28, hour, min, 0, 0, time.UTC)
}

func samplePrayers(t *testing.T) []Prayer {
	t.Helper()
	return Schedule{
		Fajr:    makeTime(t, 5, 17),
		Sunrise: makeTime(t, 6, 48),
		Dhuhr:   makeTime(t, 12, 13),
		Asr:     makeTime(t, 15, 2),
		Maghrib: makeTime(t, 17, 39),
		Isha:    makeTime(t, 19, 10),
	}.Prayers()
}

// ---------------------------------------------------------------------------
// NextPrayer
// ---------------------------------------------------------------------------

func TestNextPrayer_MiddleOfDay(t *testing.T) {
	prayers := samplePrayers(t)

	// At 13:00 Dhuhr (12:13) has passed, so Asr (15:02) is next.
	next := NextPrayer(prayers, makeTime(t, 13, 0))
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != Asr {
		t.Errorf("expected Asr, got %s", next.Name)
	}
}

func TestNextPrayer_BeforeFirstPrayer(t *testing.T) {
	next := NextPrayer(samplePrayers(t), makeTime(t, 3, 0))
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != Fajr {
		t.Errorf("expected Fajr, got %s", next.Name)
	}
}

func TestNextPrayer_AfterAllPrayers(t *testing.T) {
	next := NextPrayer(samplePrayers(t), makeTime(t, 22, 0))
	if next != nil {
		t.Errorf("expected nil after all prayers, got %s", next.Name)
	}
}

func TestNextPrayer_ExactTime(t *testing.T) {
	// Exactly at Dhuhr, Dhuhr is not after now, so Asr is next.
	next := NextPrayer(samplePrayers(t), makeTime(t, 12, 13))
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != Asr {
		t.Errorf("expected Asr, got %s", next.Name)
	}
}

func TestNextPrayer_EmptyList(t *testing.T) {
	next := NextPrayer([]Prayer{}, makeTime(t, 12, 0))
	if next != nil {
		t.Errorf("expected nil for empty prayer list, got %v", next)
	}
}

// ---------------------------------------------------------------------------
// CurrentPrayer
// ---------------------------------------------------------------------------

func TestCurrentPrayer(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string // "" means nil
	}{
		{"before fajr", makeTime(t, 3, 0), ""},
		{"exactly fajr", makeTime(t, 5, 17), Fajr},
		{"after dhuhr", makeTime(t, 13, 0), Dhuhr},
		{"exactly isha", makeTime(t, 19, 10), Isha},
		{"late night", makeTime(t, 23, 30), Isha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentPrayer(samplePrayers(t), tt.now)
			if tt.want == "" {
				if got != nil {
					t.Errorf("CurrentPrayer = %s, want nil", got.Name)
				}
				return
			}
			if got == nil {
				t.Fatalf("CurrentPrayer = nil, want %s", tt.want)
			}
			if got.Name != tt.want {
				t.Errorf("CurrentPrayer = %s, want %s", got.Name, tt.want)
			}
		})
	}
}

func TestCurrentAndNextAreAdjacent(t *testing.T) {
	prayers := samplePrayers(t)
	for m := 0; m < 24*60; m += 7 {
		now := makeTime(t, 0, m)
		cur := CurrentPrayer(prayers, now)
		next := NextPrayer(prayers, now)
		switch {
		case cur == nil && next == nil:
			t.Fatalf("%s: both nil", now.Format("15:04"))
		case cur == nil:
			if next.Name != Fajr {
				t.Errorf("%s: next = %s with no current, want Fajr", now.Format("15:04"), next.Name)
			}
		case next != nil:
			if !cur.Time.Before(next.Time) {
				t.Errorf("%s: current %s not before next %s", now.Format("15:04"), cur.Name, next.Name)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TimeRemaining
// ---------------------------------------------------------------------------

func TestTimeRemaining(t *testing.T) {
	p := Prayer{Name: Asr, Time: makeTime(t, 15, 2)}
	now := makeTime(t, 13, 0)

	d := TimeRemaining(p, now)
	if d.Hours() < 2.0 || d.Hours() > 2.1 {
		t.Errorf("expected ~2h, got %v", d)
	}
}

func TestTimeRemaining_Negative(t *testing.T) {
	p := Prayer{Name: Fajr, Time: makeTime(t, 5, 0)}
	now := makeTime(t, 10, 0)

	d := TimeRemaining(p, now)
	if d >= 0 {
		t.Errorf("expected negative duration, got %v", d)
	}
}

// ---------------------------------------------------------------------------
// FormatRemaining
// ---------------------------------------------------------------------------

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"only minutes", 45 * time.Minute, "45m"},
		{"exactly one hour", 1 * time.Hour, "1h 0m"},
		{"zero", 0, "0m"},
		{"negative", -30 * time.Minute, "0m"},
		{"large", 10*time.Hour + 59*time.Minute, "10h 59m"},
		{"just over an hour", 1*time.Hour + 1*time.Minute, "1h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRemaining(tt.duration)
			if got != tt.want {
				t.Errorf("FormatRemaining(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Names
// ---------------------------------------------------------------------------

func TestShortNames_AllPrayers(t *testing.T) {
	for _, name := range AllPrayerNames {
		if _, ok := ShortNames[name]; !ok {
			t.Errorf("ShortNames missing entry for prayer %q", name)
		}
	}
}

func TestLocalNames_Defaults(t *testing.T) {
	for _, name := range DefaultPrayerNames {
		if LocalNames[name] == "" {
			t.Errorf("LocalNames missing entry for prayer %q", name)
		}
	}
}

func TestIsValidName(t *testing.T) {
	if !IsValidName(Lastthird) {
		t.Error("Lastthird should be valid")
	}
	if IsValidName("Tahajjud") {
		t.Error("Tahajjud should not be valid")
	}
}
