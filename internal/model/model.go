// Package model holds the rows persisted per device.
package model

import (
	"time"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// Preferences is the saved location for a device. Location fields are nil
// until the device has saved one.
type Preferences struct {
	UserID       string    `db:"user_id"            json:"user_id"`
	Latitude     *float64  `db:"location_latitude"  json:"location_latitude,omitempty"`
	Longitude    *float64  `db:"location_longitude" json:"location_longitude,omitempty"`
	LocationName *string   `db:"location_name"      json:"location_name,omitempty"`
	UpdatedAt    time.Time `db:"updated_at"         json:"updated_at"`
}

// Coordinate returns the saved location, if both parts are set.
func (p Preferences) Coordinate() (geomath.Coordinate, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return geomath.Coordinate{}, false
	}
	return geomath.Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}, true
}

// Mosque is a favorite mosque.
type Mosque struct {
	ID        string    `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"user_id"`
	Name      string    `db:"name"       json:"name"`
	Address   string    `db:"address"    json:"address"`
	Latitude  float64   `db:"latitude"   json:"latitude"`
	Longitude float64   `db:"longitude"  json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	DistanceKm *float64 `db:"-" json:"distance_km,omitempty"`
}

// Coordinate returns the mosque's position.
func (m Mosque) Coordinate() geomath.Coordinate {
	return geomath.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}
}

// TasbihCount is the saved state of a device's tasbih counter.
type TasbihCount struct {
	UserID    string    `db:"user_id"    json:"user_id"`
	Count     int       `db:"count"      json:"count"`
	Target    int       `db:"target"     json:"target"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
