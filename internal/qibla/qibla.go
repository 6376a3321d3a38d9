// Package qibla computes the direction and distance to the Kaaba and turns a
// device heading into a left/right/facing hint.
package qibla

import (
	"math"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// Kaaba is the position of the Kaaba in Makkah.
var Kaaba = geomath.Coordinate{Latitude: 21.4225, Longitude: 39.8262}

// DeadZone is the half-width in degrees of the arc counted as facing the Qibla.
const DeadZone = 10.0

// Result is the Qibla bearing (degrees clockwise from true north) and the
// great-circle distance to the Kaaba in kilometres.
type Result struct {
	Bearing  float64 `json:"bearing"`
	Distance float64 `json:"distance"`
}

// Calculate returns the Qibla for observer.
func Calculate(observer geomath.Coordinate) (Result, error) {
	if err := observer.Validate(); err != nil {
		return Result{}, err
	}
	return Result{
		Bearing:  geomath.InitialBearingDeg(observer, Kaaba),
		Distance: geomath.DistanceKm(observer, Kaaba),
	}, nil
}

// Direction tells the user which way to turn.
type Direction int

const (
	FacingQibla Direction = iota
	TurnLeft
	TurnRight
)

func (d Direction) String() string {
	switch d {
	case FacingQibla:
		return "Facing Qibla"
	case TurnLeft:
		return "Turn Left"
	case TurnRight:
		return "Turn Right"
	}
	return "Unknown"
}

// MarshalText lets a Direction appear as its display text in JSON.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// delta is the clockwise angle from heading to the Qibla bearing in [0, 360).
func delta(qiblaBearing, heading float64) float64 {
	return geomath.Normalize360(qiblaBearing - heading)
}

// RelativeDirection classifies a device heading against the Qibla bearing.
// Within DeadZone degrees either side the user is facing the Qibla; otherwise
// the shorter turn wins, with an exact half-turn reported as left.
func RelativeDirection(qiblaBearing, heading float64) Direction {
	d := delta(qiblaBearing, heading)
	switch {
	case d < DeadZone || d > 360-DeadZone:
		return FacingQibla
	case d < 180:
		return TurnRight
	default:
		return TurnLeft
	}
}

// Rotation is the angle in degrees the compass needle is rotated so that it
// points at the Qibla from the current heading.
func Rotation(qiblaBearing, heading float64) float64 {
	r := -delta(qiblaBearing, heading)
	if r == 0 {
		return 0
	}
	return r
}

// OffBy returns the smallest unsigned angle between heading and the Qibla.
func OffBy(qiblaBearing, heading float64) float64 {
	d := delta(qiblaBearing, heading)
	return math.Min(d, 360-d)
}
