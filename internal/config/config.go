// Package config provides persistent configuration for the salat CLI.
//
// Configuration is stored as JSON at ~/.config/salat/config.json
// (XDG-compliant). The merge priority is: CLI flags > SALAT_* environment >
// config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const (
	configDirName  = "salat"
	configFileName = "config.json"

	// EnvPrefix is prepended to the upper-cased key name, e.g. SALAT_LATITUDE.
	EnvPrefix = "SALAT_"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude",
	"location_name", "timezone",
	"method", "madhab", "offsets",
	"hijri_adjustment",
	"time_format",
	"prayers",
	"cache_dir",
	"device_id", "store_dsn",
	"mqtt_broker", "heading_topic",
	"server_address",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	LocationName    string          `json:"location_name,omitempty"`
	Timezone        string          `json:"timezone,omitempty"` // IANA name; empty means the system zone
	Method          *int            `json:"method,omitempty"`   // pointer so we can distinguish "not set" from 0
	Madhab          string          `json:"madhab,omitempty"`   // "standard" or "hanafi"
	Offsets         *prayer.Offsets `json:"offsets,omitempty"`
	HijriAdjustment int             `json:"hijri_adjustment,omitempty"`
	TimeFormat      string          `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers         string          `json:"prayers,omitempty"`     // comma-separated list
	CacheDir        string          `json:"cache_dir,omitempty"`
	DeviceID        string          `json:"device_id,omitempty"`
	StoreDSN        string          `json:"store_dsn,omitempty"`
	MQTTBroker      string          `json:"mqtt_broker,omitempty"`
	HeadingTopic    string          `json:"heading_topic,omitempty"`
	ServerAddress   string          `json:"server_address,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := prayer.Karachi
	return Config{
		Method:        &method,
		Madhab:        prayer.Hanafi.String(),
		TimeFormat:    "24h",
		HeadingTopic:  "salat/heading",
		ServerAddress: ":8080",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env")
// into the process environment. Missing files are ignored and variables
// already set are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv overlays every SALAT_<KEY> variable that is set. Values are
// validated like `config set`; all failures are reported together.
func (c *Config) ApplyEnv() error {
	var errs []error
	for _, key := range ValidKeys {
		v, ok := os.LookupEnv(EnvName(key))
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvName(key), err))
		}
	}
	return errors.Join(errs...)
}

func parseFloatIn(key, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be between %v and %v", key, value, -limit, limit)
	}
	return v, nil
}

// ParseOffsets parses "fajr,dhuhr,asr,maghrib,isha" minute adjustments.
func ParseOffsets(value string) (prayer.Offsets, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 5 {
		return prayer.Offsets{}, fmt.Errorf("invalid offsets %q: want 5 comma-separated minutes (fajr,dhuhr,asr,maghrib,isha)", value)
	}
	var mins [5]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return prayer.Offsets{}, fmt.Errorf("invalid offsets %q: %q is not an integer", value, p)
		}
		mins[i] = v
	}
	return prayer.Offsets{Fajr: mins[0], Dhuhr: mins[1], Asr: mins[2], Maghrib: mins[3], Isha: mins[4]}, nil
}

// FormatOffsets is the inverse of ParseOffsets.
func FormatOffsets(o prayer.Offsets) string {
	return fmt.Sprintf("%d,%d,%d,%d,%d", o.Fajr, o.Dhuhr, o.Asr, o.Maghrib, o.Isha)
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := parseFloatIn(key, value, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseFloatIn(key, value, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "location_name":
		c.LocationName = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if _, err := prayer.MethodByID(v); err != nil {
			return fmt.Errorf("invalid method %q: %w", value, err)
		}
		c.Method = &v
	case "madhab":
		m, err := prayer.ParseMadhab(value)
		if err != nil {
			return err
		}
		c.Madhab = m.String()
	case "offsets":
		o, err := ParseOffsets(value)
		if err != nil {
			return err
		}
		c.Offsets = &o
	case "hijri_adjustment":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid hijri_adjustment %q: must be an integer", value)
		}
		if v < -2 || v > 2 {
			return fmt.Errorf("invalid hijri_adjustment %q: must be between -2 and 2", value)
		}
		c.HijriAdjustment = v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		// Validate each prayer name.
		names := strings.Split(value, ",")
		for _, n := range names {
			n = strings.TrimSpace(n)
			if !prayer.IsValidName(n) {
				return fmt.Errorf("invalid prayer name %q in prayers list", n)
			}
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	case "device_id":
		c.DeviceID = strings.TrimSpace(value)
	case "store_dsn":
		c.StoreDSN = value
	case "mqtt_broker":
		c.MQTTBroker = value
	case "heading_topic":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid heading_topic: must not be empty")
		}
		c.HeadingTopic = value
	case "server_address":
		c.ServerAddress = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		if c.Latitude == nil {
			return "", nil
		}
		return strconv.FormatFloat(*c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == nil {
			return "", nil
		}
		return strconv.FormatFloat(*c.Longitude, 'f', -1, 64), nil
	case "location_name":
		return c.LocationName, nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "madhab":
		return c.Madhab, nil
	case "offsets":
		if c.Offsets == nil {
			return "", nil
		}
		return FormatOffsets(*c.Offsets), nil
	case "hijri_adjustment":
		if c.HijriAdjustment == 0 {
			return "", nil
		}
		return strconv.Itoa(c.HijriAdjustment), nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "device_id":
		return c.DeviceID, nil
	case "store_dsn":
		return c.StoreDSN, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "heading_topic":
		return c.HeadingTopic, nil
	case "server_address":
		return c.ServerAddress, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Merge overlays the keys set in o onto c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Latitude != nil {
		c.Latitude = o.Latitude
	}
	if o.Longitude != nil {
		c.Longitude = o.Longitude
	}
	if o.Method != nil {
		c.Method = o.Method
	}
	if o.Offsets != nil {
		c.Offsets = o.Offsets
	}
	if o.HijriAdjustment != 0 {
		c.HijriAdjustment = o.HijriAdjustment
	}
	for _, f := range []struct{ dst, src *string }{
		{&c.LocationName, &o.LocationName},
		{&c.Timezone, &o.Timezone},
		{&c.Madhab, &o.Madhab},
		{&c.TimeFormat, &o.TimeFormat},
		{&c.Prayers, &o.Prayers},
		{&c.CacheDir, &o.CacheDir},
		{&c.DeviceID, &o.DeviceID},
		{&c.StoreDSN, &o.StoreDSN},
		{&c.MQTTBroker, &o.MQTTBroker},
		{&c.HeadingTopic, &o.HeadingTopic},
		{&c.ServerAddress, &o.ServerAddress},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// Coordinate returns the configured location if both parts are set.
func (c *Config) Coordinate() (geomath.Coordinate, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return geomath.Coordinate{}, false
	}
	return geomath.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}, true
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PrayerNames returns the configured prayers, or the six daily ones.
func (c *Config) PrayerNames() []string {
	if c.Prayers == "" {
		return prayer.DefaultPrayerNames
	}
	var names []string
	for _, n := range strings.Split(c.Prayers, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Params builds calculation parameters from method, madhab and offsets,
// defaulting to Karachi with the Hanafi Asr.
func (c *Config) Params() (prayer.CalculationParameters, error) {
	m, err := prayer.MethodByID(c.MethodOrDefault(prayer.Karachi))
	if err != nil {
		return prayer.CalculationParameters{}, err
	}
	p := m.Params()
	p.Madhab = prayer.Hanafi
	if c.Madhab != "" {
		if p.Madhab, err = prayer.ParseMadhab(c.Madhab); err != nil {
			return prayer.CalculationParameters{}, err
		}
	}
	if c.Offsets != nil {
		p.Offsets = *c.Offsets
	}
	return p, p.Validate()
}
