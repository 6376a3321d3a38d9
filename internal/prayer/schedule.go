package prayer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/solar"
)

var (
	// ErrDegenerateLatitude is returned when the sun never reaches one of the
	// required angles on the requested day. It wraps solar.ErrNoEvent.
	ErrDegenerateLatitude = errors.New("prayer time undefined at this latitude")

	// ErrOutOfOrder is returned when the computed times are not strictly
	// increasing. Above the polar circles the sun can reach every angle yet
	// leave Asr within a minute of Dhuhr; those errors also match
	// ErrDegenerateLatitude.
	ErrOutOfOrder = errors.New("prayer times out of order")
)

// Schedule holds the six daily times for one date and place.
type Schedule struct {
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Maghrib time.Time
	Isha    time.Time
}

// Prayers returns the schedule as an ordered slice.
func (s Schedule) Prayers() []Prayer {
	return []Prayer{
		{Name: Fajr, Time: s.Fajr},
		{Name: Sunrise, Time: s.Sunrise},
		{Name: Dhuhr, Time: s.Dhuhr},
		{Name: Asr, Time: s.Asr},
		{Name: Maghrib, Time: s.Maghrib},
		{Name: Isha, Time: s.Isha},
	}
}

// Current returns the prayer in progress at now, or nil before Fajr.
func (s Schedule) Current(now time.Time) *Prayer {
	return CurrentPrayer(s.Prayers(), now)
}

// Next returns the first prayer after now, or nil after Isha.
func (s Schedule) Next(now time.Time) *Prayer {
	return NextPrayer(s.Prayers(), now)
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

func degenerate(name string, err error) error {
	if errors.Is(err, solar.ErrNoEvent) {
		return fmt.Errorf("%w: %s: %w", ErrDegenerateLatitude, name, err)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// asrAltitude returns the solar altitude at which an object's shadow equals
// factor times its length plus its noon shadow.
func asrAltitude(latitude, declination, factor float64) float64 {
	noon := math.Tan(geomath.Radians(math.Abs(latitude - declination)))
	return geomath.Degrees(math.Atan(1 / (factor + noon)))
}

// ComputeSchedule computes the six daily prayer times for the calendar date
// of date (in its own location) at c. Times are returned in date's location.
func ComputeSchedule(date time.Time, c geomath.Coordinate, params CalculationParameters) (Schedule, error) {
	if err := c.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := params.Validate(); err != nil {
		return Schedule{}, err
	}
	loc := date.Location()

	fajr, err := solar.Crossing(date, c, params.FajrAngle, solar.Morning)
	if err != nil {
		return Schedule{}, degenerate(Fajr, err)
	}
	sunrise, err := solar.Sunrise(date, c)
	if err != nil {
		return Schedule{}, degenerate(Sunrise, err)
	}
	transit, err := solar.Transit(date, c)
	if err != nil {
		return Schedule{}, err
	}
	decl, err := solar.Declination(date, c)
	if err != nil {
		return Schedule{}, err
	}
	asr, err := solar.AltitudeCrossing(date, c, asrAltitude(c.Latitude, decl, params.Madhab.ShadowFactor()), solar.Evening)
	if err != nil {
		return Schedule{}, degenerate(Asr, err)
	}

	maghribDepression := solar.StandardDepression
	if params.MaghribAngle > 0 {
		maghribDepression = params.MaghribAngle
	}
	maghrib, err := solar.Crossing(date, c, maghribDepression, solar.Evening)
	if err != nil {
		return Schedule{}, degenerate(Maghrib, err)
	}

	var isha time.Time
	if params.IshaInterval > 0 {
		isha = maghrib.Add(minutes(params.IshaInterval))
	} else {
		isha, err = solar.Crossing(date, c, params.IshaAngle, solar.Evening)
		if err != nil {
			return Schedule{}, degenerate(Isha, err)
		}
	}

	s := Schedule{
		Fajr:    fajr.Add(minutes(params.Offsets.Fajr)).In(loc),
		Sunrise: sunrise.In(loc),
		Dhuhr:   transit.Add(time.Minute + minutes(params.Offsets.Dhuhr)).In(loc),
		Asr:     asr.Add(minutes(params.Offsets.Asr)).In(loc),
		Maghrib: maghrib.Add(minutes(params.Offsets.Maghrib)).In(loc),
		Isha:    isha.Add(minutes(params.Offsets.Isha)).In(loc),
	}
	if err := s.checkOrder(); err != nil {
		if math.Abs(c.Latitude) >= polarLatitude {
			return Schedule{}, fmt.Errorf("%w: %w", ErrDegenerateLatitude, err)
		}
		return Schedule{}, err
	}
	return s, nil
}

// polarLatitude is the latitude from which the sun can skim the horizon
// for a whole day.
const polarLatitude = 66

func (s Schedule) checkOrder() error {
	prayers := s.Prayers()
	for i := 1; i < len(prayers); i++ {
		if !prayers[i-1].Time.Before(prayers[i].Time) {
			return fmt.Errorf("%w: %s (%s) is not before %s (%s)", ErrOutOfOrder,
				prayers[i-1].Name, prayers[i-1].Time.Format(time.RFC3339),
				prayers[i].Name, prayers[i].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Day is a Schedule plus the supplementary times of the Al Adhan timings
// object. The night runs from sunset to the next sunrise.
type Day struct {
	Schedule
	Imsak      time.Time
	Sunset     time.Time
	Midnight   time.Time
	Firstthird time.Time
	Lastthird  time.Time
}

// ImsakLead is how long before Fajr Imsak falls.
const ImsakLead = 10 * time.Minute

// ComputeDay computes the schedule and the supplementary times for date.
func ComputeDay(date time.Time, c geomath.Coordinate, params CalculationParameters) (Day, error) {
	s, err := ComputeSchedule(date, c, params)
	if err != nil {
		return Day{}, err
	}
	loc := date.Location()

	sunset, err := solar.Sunset(date, c)
	if err != nil {
		return Day{}, degenerate(Sunset, err)
	}
	y, m, d := date.Date()
	nextSunrise, err := solar.Sunrise(time.Date(y, m, d+1, 12, 0, 0, 0, loc), c)
	if err != nil {
		return Day{}, degenerate(Sunrise, err)
	}
	night := nextSunrise.Sub(sunset)

	return Day{
		Schedule:   s,
		Imsak:      s.Fajr.Add(-ImsakLead),
		Sunset:     sunset.In(loc),
		Midnight:   sunset.Add(night / 2).Round(time.Second).In(loc),
		Firstthird: sunset.Add(night / 3).Round(time.Second).In(loc),
		Lastthird:  sunset.Add(night * 2 / 3).Round(time.Second).In(loc),
	}, nil
}

// Time returns the time of the named prayer or event.
func (d Day) Time(name string) (time.Time, bool) {
	switch name {
	case Fajr:
		return d.Fajr, true
	case Sunrise:
		return d.Sunrise, true
	case Dhuhr:
		return d.Dhuhr, true
	case Asr:
		return d.Asr, true
	case Sunset:
		return d.Sunset, true
	case Maghrib:
		return d.Maghrib, true
	case Isha:
		return d.Isha, true
	case Imsak:
		return d.Imsak, true
	case Midnight:
		return d.Midnight, true
	case Firstthird:
		return d.Firstthird, true
	case Lastthird:
		return d.Lastthird, true
	}
	return time.Time{}, false
}

// Select returns the named prayers in the order given.
func (d Day) Select(names []string) ([]Prayer, error) {
	prayers := make([]Prayer, 0, len(names))
	for _, name := range names {
		t, ok := d.Time(name)
		if !ok {
			return nil, fmt.Errorf("unknown prayer name: %q", name)
		}
		prayers = append(prayers, Prayer{Name: name, Time: t})
	}
	return prayers, nil
}
