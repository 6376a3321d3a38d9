package api

import (
	"fmt"
	"strconv"

	"github.com/smokyabdulrahman/salat/internal/hijri"
)

// Response represents the top-level Al Adhan API response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// The API may include a timezone suffix like " (BST)" which Clock strips.
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird"`
	Lastthird  string `json:"Lastthird"`
}

// DateInfo carries the Hijri date the API reports for the requested day.
type DateInfo struct {
	Hijri HijriDate `json:"hijri"`
}

// HijriDate is the API's Hijri date. Numbers arrive as strings.
type HijriDate struct {
	Date  string     `json:"date"` // e.g. "11-09-1447"
	Day   string     `json:"day"`
	Month HijriMonth `json:"month"`
	Year  string     `json:"year"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "Ramaḍān"
}

// Civil converts the API date into a tabular calendar date.
func (h HijriDate) Civil() (hijri.Date, error) {
	day, err := strconv.Atoi(h.Day)
	if err != nil {
		return hijri.Date{}, fmt.Errorf("hijri day %q: %w", h.Day, err)
	}
	year, err := strconv.Atoi(h.Year)
	if err != nil {
		return hijri.Date{}, fmt.Errorf("hijri year %q: %w", h.Year, err)
	}
	if _, err := hijri.ToGregorian(year, h.Month.Number, day); err != nil {
		return hijri.Date{}, err
	}
	return hijri.Date{Day: day, Month: h.Month.Number, Year: year, MonthName: hijri.MonthNames[h.Month.Number-1]}, nil
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Get returns the raw value for a prayer name, or "" if unknown.
func (t Timings) Get(name string) string {
	switch name {
	case "Fajr":
		return t.Fajr
	case "Sunrise":
		return t.Sunrise
	case "Dhuhr":
		return t.Dhuhr
	case "Asr":
		return t.Asr
	case "Sunset":
		return t.Sunset
	case "Maghrib":
		return t.Maghrib
	case "Isha":
		return t.Isha
	case "Imsak":
		return t.Imsak
	case "Midnight":
		return t.Midnight
	case "Firstthird":
		return t.Firstthird
	case "Lastthird":
		return t.Lastthird
	}
	return ""
}
