// Package solar computes the instants at which the sun crosses a given angle
// relative to the horizon for one calendar day at one place.
//
// Solar coordinates come from the low-precision Meeus algorithms (chapter 25),
// the equation of time from the sun's mean longitude and apparent right
// ascension (chapter 28), and event times from the hour-angle relation
//
//	cos(H) = (sin(h) - sin(lat)*sin(decl)) / (cos(lat)*cos(decl))
//
// All results are UTC instants rounded to the second.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// StandardDepression is the sunrise/sunset depression in degrees: 34' of
// refraction plus the 16' semi-diameter of the solar disk.
const StandardDepression = 0.833

const j2000 = 2451545.0

// ErrNoEvent is returned when the sun never reaches the requested angle on the
// requested day, as happens near the poles.
var ErrNoEvent = errors.New("sun does not reach the requested angle")

// Side selects the dawn or dusk branch of a crossing.
type Side int

const (
	Morning Side = iota
	Evening
)

func (s Side) String() string {
	if s == Morning {
		return "morning"
	}
	return "evening"
}

type position struct {
	declination float64 // degrees
	eqTime      float64 // minutes
}

// sunAt returns the sun's declination and the equation of time at jd.
func sunAt(jd float64) position {
	α, δ := solar.ApparentEquatorial(jd)
	T := (jd - j2000) / 36525
	l0 := geomath.Normalize360(280.46646 + T*(36000.76983+T*0.0003032))

	e := l0 - 0.0057183 - geomath.Degrees(α.Rad())
	e = geomath.Normalize360(e+180) - 180

	return position{
		declination: geomath.Degrees(δ.Rad()),
		eqTime:      e * 4,
	}
}

// dayStart returns the Julian day at 0h UT of date's calendar day.
func dayStart(date time.Time) float64 {
	y, m, d := date.Date()
	return julian.CalendarGregorianToJD(y, int(m), float64(d))
}

func utcMidnight(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hoursToTime(date time.Time, hours float64) time.Time {
	return utcMidnight(date).Add(time.Duration(hours * float64(time.Hour))).Round(time.Second)
}

func transitHours(jd0, lon float64) float64 {
	approx := 12 - lon/15
	p := sunAt(jd0 + approx/24)
	return 12 - lon/15 - p.eqTime/60
}

// crossingHours returns the UT hour (relative to jd0) at which the sun's
// altitude equals altitude on the given side of the meridian. The first
// estimate is refined once with the sun's position at that estimate.
func crossingHours(jd0 float64, c geomath.Coordinate, altitude float64, side Side) (float64, error) {
	lat := geomath.Radians(c.Latitude)
	h0 := geomath.Radians(altitude)

	est := transitHours(jd0, c.Longitude)
	for pass := 0; pass < 2; pass++ {
		p := sunAt(jd0 + est/24)
		transit := 12 - c.Longitude/15 - p.eqTime/60
		decl := geomath.Radians(p.declination)

		cosH := (math.Sin(h0) - math.Sin(lat)*math.Sin(decl)) / (math.Cos(lat) * math.Cos(decl))
		if math.IsNaN(cosH) || cosH < -1 || cosH > 1 {
			return 0, fmt.Errorf("%w: altitude %.3f° on %s side", ErrNoEvent, altitude, side)
		}
		h := geomath.Degrees(math.Acos(cosH)) / 15

		if side == Morning {
			est = transit - h
		} else {
			est = transit + h
		}
	}
	return est, nil
}

// Transit returns the instant of solar noon on date's calendar day.
func Transit(date time.Time, c geomath.Coordinate) (time.Time, error) {
	if err := c.Validate(); err != nil {
		return time.Time{}, err
	}
	return hoursToTime(date, transitHours(dayStart(date), c.Longitude)), nil
}

// Declination returns the sun's declination in degrees at solar noon.
func Declination(date time.Time, c geomath.Coordinate) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	jd0 := dayStart(date)
	return sunAt(jd0 + transitHours(jd0, c.Longitude)/24).declination, nil
}

// AltitudeCrossing returns the instant the sun's centre reaches the signed
// altitude (degrees, negative below the horizon) on the given side of noon.
func AltitudeCrossing(date time.Time, c geomath.Coordinate, altitude float64, side Side) (time.Time, error) {
	if err := c.Validate(); err != nil {
		return time.Time{}, err
	}
	hours, err := crossingHours(dayStart(date), c, altitude, side)
	if err != nil {
		return time.Time{}, err
	}
	return hoursToTime(date, hours), nil
}

// Crossing returns the instant the sun is depression degrees below the
// horizon on the given side of noon.
func Crossing(date time.Time, c geomath.Coordinate, depression float64, side Side) (time.Time, error) {
	return AltitudeCrossing(date, c, -depression, side)
}

// Sunrise returns the standard sunrise instant.
func Sunrise(date time.Time, c geomath.Coordinate) (time.Time, error) {
	return Crossing(date, c, StandardDepression, Morning)
}

// Sunset returns the standard sunset instant.
func Sunset(date time.Time, c geomath.Coordinate) (time.Time, error) {
	return Crossing(date, c, StandardDepression, Evening)
}
