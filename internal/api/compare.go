package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// Clock parses an "HH:MM" value, optionally followed by a zone label such as
// " (BST)", as a time on the calendar date of day in loc.
func Clock(day time.Time, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", value, err)
	}
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}

// Drift is how far a locally computed time is from the reference.
type Drift struct {
	Name      string        `json:"name"`
	Local     time.Time     `json:"local"`
	Reference time.Time     `json:"reference"`
	Delta     time.Duration `json:"delta"` // local minus reference
}

// Compare pairs each local prayer with the reference value of the same name.
// A reference clock more than 12 hours away is taken from the adjacent day.
func Compare(local []prayer.Prayer, ref Timings, loc *time.Location) ([]Drift, error) {
	out := make([]Drift, 0, len(local))
	for _, p := range local {
		raw := ref.Get(p.Name)
		if raw == "" {
			return nil, fmt.Errorf("reference has no %s", p.Name)
		}
		r, err := Clock(p.Time, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		switch d := p.Time.Sub(r); {
		case d > 12*time.Hour:
			r = r.AddDate(0, 0, 1)
		case d < -12*time.Hour:
			r = r.AddDate(0, 0, -1)
		}
		out = append(out, Drift{
			Name:      p.Name,
			Local:     p.Time.In(loc),
			Reference: r,
			Delta:     p.Time.Sub(r),
		})
	}
	return out, nil
}

// MaxDrift returns the entry with the largest absolute delta.
func MaxDrift(drifts []Drift) (Drift, bool) {
	var worst Drift
	found := false
	for _, d := range drifts {
		if !found || d.Delta.Abs() > worst.Delta.Abs() {
			worst, found = d, true
		}
	}
	return worst, found
}

// HijriOffset returns how many days the local Hijri date runs ahead of the
// reference date; a non-zero value is what hijri_adjustment would correct.
func HijriOffset(local hijri.Date, ref HijriDate) (int, error) {
	r, err := ref.Civil()
	if err != nil {
		return 0, err
	}
	lt, err := hijri.ToGregorian(local.Year, local.Month, local.Day)
	if err != nil {
		return 0, err
	}
	rt, _ := hijri.ToGregorian(r.Year, r.Month, r.Day)
	return int(lt.Sub(rt) / (24 * time.Hour)), nil
}
