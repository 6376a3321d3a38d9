package hijri

import (
	"sort"
	"time"
)

// Observance is a recurring day (or run of days) in the Hijri year.
type Observance struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	EndDay    int    `json:"end_day,omitempty"` // last day for multi-day observances
}

// Observances are the important dates shown on the calendar screen.
var Observances = []Observance{
	{Name: "Islamic New Year", LocalName: "ইসলামিক নববর্ষ", Month: 1, Day: 1},
	{Name: "Day of Ashura", LocalName: "আশুরা", Month: 1, Day: 10},
	{Name: "Mawlid al-Nabi", LocalName: "ঈদ-এ-মিলাদুন্নবী", Month: 3, Day: 12},
	{Name: "Isra and Miraj", LocalName: "শবে মিরাজ", Month: 7, Day: 27},
	{Name: "Shab-e-Barat", LocalName: "শবে বরাত", Month: 8, Day: 15},
	{Name: "Month of Ramadan", LocalName: "রমজান মাস", Month: 9, Day: 1, EndDay: 30},
	{Name: "Laylat al-Qadr", LocalName: "শবে কদর", Month: 9, Day: 27},
	{Name: "Eid al-Fitr", LocalName: "ঈদুল ফিতর", Month: 10, Day: 1},
	{Name: "Hajj Days", LocalName: "হজের দিনসমূহ", Month: 12, Day: 8, EndDay: 10},
	{Name: "Day of Arafah", LocalName: "আরাফার দিন", Month: 12, Day: 9},
	{Name: "Eid al-Adha", LocalName: "ঈদুল আযহা", Month: 12, Day: 10},
}

func (o Observance) lastDay() int {
	if o.EndDay > o.Day {
		return o.EndDay
	}
	return o.Day
}

// Contains reports whether d falls on the observance.
func (o Observance) Contains(d Date) bool {
	return d.Month == o.Month && d.Day >= o.Day && d.Day <= o.lastDay()
}

// Occurrence is one observance in a specific Hijri year.
type Occurrence struct {
	Observance
	Hijri     Date      `json:"hijri"`
	Gregorian time.Time `json:"gregorian"`
}

// On returns the observances that include the calendar date of t.
func On(t time.Time) []Observance {
	d := ToHijri(t)
	var out []Observance
	for _, o := range Observances {
		if o.Contains(d) {
			out = append(out, o)
		}
	}
	return out
}

// Upcoming returns the next n observance start days on or after the calendar
// date of from, in date order.
func Upcoming(from time.Time, n int) []Occurrence {
	if n <= 0 {
		return nil
	}
	start := jdnToTime(gregorianJDN(from))
	year := ToHijri(from).Year

	var out []Occurrence
	for y := year; len(out) < n; y++ {
		var batch []Occurrence
		for _, o := range Observances {
			g, err := ToGregorian(y, o.Month, o.Day)
			if err != nil || g.Before(start) {
				continue
			}
			batch = append(batch, Occurrence{
				Observance: o,
				Hijri:      fromJDN(toJDN(y, o.Month, o.Day)),
				Gregorian:  g,
			})
		}
		sort.SliceStable(batch, func(i, j int) bool { return batch[i].Gregorian.Before(batch[j].Gregorian) })
		out = append(out, batch...)
	}
	return out[:n]
}
