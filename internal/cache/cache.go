// Package cache keeps detected locations and reference timings on disk.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salat/internal/api"
	"github.com/smokyabdulrahman/salat/internal/geo"
	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const (
	referenceCacheFile = "reference_%s.json" // keyed by hash
	geoCacheFile       = "geolocation.json"
	geoTTL             = 24 * time.Hour
)

// Cache is a directory of JSON files.
type Cache struct {
	dir string
}

// ReferenceEntry is one day of Al Adhan timings and the query that
// produced them.
type ReferenceEntry struct {
	Date    string        `json:"date"`  // YYYY-MM-DD
	Query   string        `json:"query"` // encoded request parameters
	Timings api.Timings   `json:"timings"`
	Hijri   api.HijriDate `json:"hijri"`
	Meta    api.Meta      `json:"meta"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/salat/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "salat")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// cacheKey hashes the date and the request parameters. Everything that
// changes the reference answer is part of the query.
func cacheKey(date, query string) string {
	h := sha256.Sum256([]byte(date + "?" + query))
	return fmt.Sprintf("%x", h[:8])
}

func (c *Cache) referencePath(date, query string) string {
	return filepath.Join(c.dir, fmt.Sprintf(referenceCacheFile, cacheKey(date, query)))
}

// LoadReference returns the cached reference for the calendar date of date,
// or nil when there is none for exactly these parameters.
func (c *Cache) LoadReference(date time.Time, at geomath.Coordinate, params prayer.CalculationParameters) *ReferenceEntry {
	day, query := date.Format(time.DateOnly), api.Query(at, params).Encode()

	data, err := os.ReadFile(c.referencePath(day, query))
	if err != nil {
		return nil
	}
	var entry ReferenceEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Debug().Err(err).Msg("ignoring corrupt reference cache")
		return nil
	}
	// A hash collision or a hand-edited file must not serve another request.
	if entry.Date != day || entry.Query != query {
		return nil
	}
	return &entry
}

// SaveReference stores resp as the reference for date and params.
func (c *Cache) SaveReference(date time.Time, at geomath.Coordinate, params prayer.CalculationParameters, resp *api.Response) error {
	entry := ReferenceEntry{
		Date:    date.Format(time.DateOnly),
		Query:   api.Query(at, params).Encode(),
		Timings: resp.Data.Timings,
		Hijri:   resp.Data.Date.Hijri,
		Meta:    resp.Data.Meta,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(c.referencePath(entry.Date, entry.Query), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Debug().Err(err).Msg("ignoring corrupt geolocation cache")
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}
