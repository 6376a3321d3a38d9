package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/geo"
	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// place is the resolved observer position and output time zone.
type place struct {
	Coordinate geomath.Coordinate
	Name       string
	Location   *time.Location
}

// detectLocation is swapped out in tests.
var detectLocation = geo.DetectLocation

// resolvePlace determines the effective location.
// Priority: CLI flags > config > cached geolocation > IP auto-detect > Dhaka.
func resolvePlace(cfg *config.Config) (place, error) {
	var (
		pl       place
		detectTZ string
	)

	if c, ok := cfg.Coordinate(); ok {
		if err := c.Validate(); err != nil {
			return place{}, err
		}
		pl.Coordinate = c
		pl.Name = cfg.LocationName
	} else {
		loc := autoLocation(cfg.CacheDir)
		pl.Coordinate = loc.Coordinate()
		pl.Name = loc.Name()
		detectTZ = loc.Timezone
	}

	if pl.Name == "" {
		pl.Name = fmt.Sprintf("%.4f, %.4f", pl.Coordinate.Latitude, pl.Coordinate.Longitude)
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = detectTZ
	}
	pl.Location = time.Local
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return place{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		pl.Location = loc
	}
	return pl, nil
}

// autoLocation tries the cached geolocation, then ip-api.com, then falls
// back to Dhaka.
func autoLocation(cacheDir string) geo.Location {
	c, err := cache.New(cacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}

	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			log.Debug().Str("city", cached.City).Msg("using cached location")
			return *cached
		}
	}

	detected, err := detectLocation()
	if err != nil {
		log.Warn().Err(err).Str("fallback", geo.Fallback.Name()).Msg("location detection failed")
		return geo.Fallback
	}
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Debug().Err(err).Msg("saving detected location")
		}
	}
	return *detected
}
