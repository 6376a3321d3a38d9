package prayer

import (
	"fmt"
	"time"
)

// Prayer names, in the order the schedule produces them.
const (
	Imsak      = "Imsak"
	Fajr       = "Fajr"
	Sunrise    = "Sunrise"
	Dhuhr      = "Dhuhr"
	Asr        = "Asr"
	Sunset     = "Sunset"
	Maghrib    = "Maghrib"
	Isha       = "Isha"
	Midnight   = "Midnight"
	Firstthird = "Firstthird"
	Lastthird  = "Lastthird"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Name string
	Time time.Time
}

// AllPrayerNames lists every prayer/event a Day can report.
var AllPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha,
	Imsak, Midnight, Firstthird, Lastthird,
}

// DefaultPrayerNames are the six daily entries of a Schedule.
var DefaultPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha,
}

// ShortNames maps full prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	Fajr:       "F",
	Sunrise:    "S",
	Dhuhr:      "D",
	Asr:        "A",
	Sunset:     "St",
	Maghrib:    "M",
	Isha:       "I",
	Imsak:      "Im",
	Midnight:   "Mi",
	Firstthird: "F3",
	Lastthird:  "L3",
}

// LocalNames holds the Bengali names shown next to each of the six prayers.
var LocalNames = map[string]string{
	Fajr:    "ফজর",
	Sunrise: "সূর্যোদয়",
	Dhuhr:   "যোহর",
	Asr:     "আসর",
	Maghrib: "মাগরিব",
	Isha:    "ইশা",
}

// IsValidName reports whether name is one of AllPrayerNames.
func IsValidName(name string) bool {
	for _, n := range AllPrayerNames {
		if n == name {
			return true
		}
	}
	return false
}

// CurrentPrayer returns the last prayer whose time is at or before now.
// It returns nil when now precedes the first prayer.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		current = &prayers[i]
	}
	return current
}

// NextPrayer finds the next upcoming prayer from the given slice, relative to now.
// If all prayers for today have passed, it returns nil (caller should compute tomorrow's Fajr).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
