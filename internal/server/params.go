package server

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

const dateLayout = "2006-01-02"

func queryFloat(c *gin.Context, key string) (float64, bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return v, true, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return v, nil
}

// queryCoordinate reads latitude/longitude. present is false when both are absent.
func queryCoordinate(c *gin.Context) (coord geomath.Coordinate, present bool, err error) {
	lat, hasLat, err := queryFloat(c, "latitude")
	if err != nil {
		return coord, true, err
	}
	lon, hasLon, err := queryFloat(c, "longitude")
	if err != nil {
		return coord, true, err
	}
	if !hasLat && !hasLon {
		return coord, false, nil
	}
	if hasLat != hasLon {
		return coord, true, fmt.Errorf("latitude and longitude must be given together")
	}
	coord, err = geomath.NewCoordinate(lat, lon)
	return coord, true, err
}

func requireCoordinate(c *gin.Context) (geomath.Coordinate, error) {
	coord, present, err := queryCoordinate(c)
	if err != nil {
		return coord, err
	}
	if !present {
		return coord, fmt.Errorf("latitude and longitude are required")
	}
	return coord, nil
}

func queryLocation(c *gin.Context) (*time.Location, error) {
	name := c.Query("timezone")
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone: unknown zone %q", name)
	}
	return loc, nil
}

// queryDate parses ?date=YYYY-MM-DD in loc, defaulting to today.
func queryDate(c *gin.Context, key string, loc *time.Location, now time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", key, raw)
	}
	return t, nil
}
