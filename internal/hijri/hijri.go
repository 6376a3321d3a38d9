// Package hijri converts between the Gregorian calendar and the civil tabular
// Islamic calendar (30-year cycle, leap years 2, 5, 7, 10, 13, 16, 18, 21, 24,
// 26 and 29). Tabular dates can differ by a day from the observed calendar.
package hijri

import (
	"errors"
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Epoch is the Julian day number of 1 Muharram 1 AH (16 July 622, Julian calendar).
const Epoch = 1948440

const unixEpochJDN = 2440588

// ErrInvalidDate is returned by ToGregorian for out-of-range components.
var ErrInvalidDate = errors.New("invalid hijri date")

// MonthNames are the transliterated month names, Muharram first.
var MonthNames = [12]string{
	"Muharram",
	"Safar",
	"Rabi al-Awwal",
	"Rabi al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Shaban",
	"Ramadan",
	"Shawwal",
	"Dhul Qadah",
	"Dhul Hijjah",
}

// BengaliMonthNames are the month names in Bengali script.
var BengaliMonthNames = [12]string{
	"মুহাররম",
	"সফর",
	"রবিউল আউয়াল",
	"রবিউস সানি",
	"জমাদিউল আউয়াল",
	"জমাদিউস সানি",
	"রজব",
	"শাবান",
	"রমজান",
	"শাওয়াল",
	"জিলকদ",
	"জিলহজ",
}

// Date is a day in the tabular Hijri calendar.
type Date struct {
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	MonthName string `json:"month_name"`
}

// Format renders the date as "11 Ramadan 1447 AH".
func (d Date) Format() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, d.MonthName, d.Year)
}

func (d Date) String() string { return d.Format() }

// LocalMonthName returns the Bengali month name.
func (d Date) LocalMonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return BengaliMonthNames[d.Month-1]
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// IsLeapYear reports whether year has 355 days.
func IsLeapYear(year int) bool {
	return floorMod(14+11*year, 30) < 11
}

func daysBeforeYear(year int) int {
	return (year-1)*354 + floorDiv(3+11*year, 30)
}

func daysBeforeMonth(month int) int {
	return (59*(month-1) + 1) / 2
}

func toJDN(year, month, day int) int {
	return Epoch - 1 + daysBeforeYear(year) + daysBeforeMonth(month) + day
}

func fromJDN(n int) Date {
	year := floorDiv(30*(n-Epoch)+10646, 10631)
	for toJDN(year+1, 1, 1) <= n {
		year++
	}
	for toJDN(year, 1, 1) > n {
		year--
	}
	month := 12
	for toJDN(year, month, 1) > n {
		month--
	}
	return Date{
		Day:       n - toJDN(year, month, 1) + 1,
		Month:     month,
		Year:      year,
		MonthName: MonthNames[month-1],
	}
}

// gregorianJDN returns the Julian day number of t's calendar date in t's location.
func gregorianJDN(t time.Time) int {
	y, m, d := t.Date()
	return int(julian.CalendarGregorianToJD(y, int(m), float64(d)) + 0.5)
}

func jdnToTime(n int) time.Time {
	return time.Date(1970, time.January, 1+(n-unixEpochJDN), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns 29 or 30.
func DaysInMonth(year, month int) int {
	if month == 12 {
		if IsLeapYear(year) {
			return 30
		}
		return 29
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

// ToHijri converts the calendar date of t, taken in t's own location.
func ToHijri(t time.Time) Date {
	return fromJDN(gregorianJDN(t))
}

// Adjust converts t shifted by days, for users who follow a local sighting
// that runs ahead of or behind the tabular calendar.
func Adjust(t time.Time, days int) Date {
	return ToHijri(t.AddDate(0, 0, days))
}

// ToGregorian returns midnight UTC of the Gregorian day matching the Hijri date.
func ToGregorian(year, month, day int) (time.Time, error) {
	if year < 1 {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return time.Time{}, fmt.Errorf("%w: day %d of %s %d", ErrInvalidDate, day, MonthNames[month-1], year)
	}
	return jdnToTime(toJDN(year, month, day)), nil
}
