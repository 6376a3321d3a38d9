// Command salat-status prints the next prayer as a single line for status
// bars such as tmux. Times are computed locally; only location detection
// touches the network.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/geo"
	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

// Swapped out in tests.
var (
	now            = time.Now
	detectLocation = geo.DetectLocation
)

type options struct {
	latitude, longitude float64
	timezone            string
	method, school      int
	format, timeFormat  string
	prayers             string
	cacheDir            string
	showVersion         bool
	listMethods         bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("salat-status", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Location flags
	fs.Float64Var(&o.latitude, "latitude", 0, "Latitude for prayer time calculation")
	fs.Float64Var(&o.longitude, "longitude", 0, "Longitude for prayer time calculation")
	fs.StringVar(&o.timezone, "timezone", "", "IANA time zone (default: detected, then local)")

	// Calculation flags
	fs.IntVar(&o.method, "method", prayer.Karachi, "Calculation method ID (see --list-methods)")
	fs.IntVar(&o.school, "school", int(prayer.Hanafi), "Asr rule: 0=Standard, 1=Hanafi")

	// Display flags
	fs.StringVar(&o.format, "format", prayer.FormatNameAndTime, "Display format: "+strings.Join(prayer.FormatModes, ", ")+", or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}')")
	fs.StringVar(&o.timeFormat, "time-format", "24h", "Time format: 12h or 24h")
	fs.StringVar(&o.prayers, "prayers", "", "Comma-separated list of prayers to track (default: Fajr,Sunrise,Dhuhr,Asr,Maghrib,Isha)")

	fs.StringVar(&o.cacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/salat/)")

	// Info flags
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&o.listMethods, "list-methods", false, "Print supported calculation methods and exit")

	err := fs.Parse(args)
	return o, err
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if o.showVersion {
		fmt.Fprintf(stdout, "salat-status %s\n", version)
		return nil
	}
	if o.listMethods {
		printMethods(stdout)
		return nil
	}

	if err := prayer.ValidateFormat(o.format); err != nil {
		return err
	}
	params, err := buildParams(o.method, o.school)
	if err != nil {
		return err
	}

	selected := prayer.DefaultPrayerNames
	if o.prayers != "" {
		selected = nil
		for _, n := range strings.Split(o.prayers, ",") {
			if n = strings.TrimSpace(n); n != "" {
				selected = append(selected, n)
			}
		}
		if len(selected) == 0 {
			return errors.New("no prayers selected")
		}
	}

	layout := "15:04"
	if o.timeFormat == "12h" {
		layout = "3:04 PM"
	}

	at, tz, err := resolveLocation(o, stderr)
	if err != nil {
		return err
	}
	if o.timezone != "" {
		tz = o.timezone
	}
	loc := time.Local
	if tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
	}

	current := now().In(loc)
	prayers, err := selectDay(current, at, params, selected)
	if err != nil {
		return err
	}
	next := prayer.NextPrayer(prayers, current)

	// If all today's prayers have passed, use tomorrow's first prayer.
	if next == nil {
		tomorrow, err := selectDay(current.AddDate(0, 0, 1), at, params, selected)
		if err != nil {
			// Keep the status bar readable rather than printing an error.
			fmt.Fprintf(stdout, "%s --:--", prayers[len(prayers)-1].Name)
			return nil
		}
		next = &tomorrow[0]
	}

	fmt.Fprint(stdout, prayer.FormatOutput(*next, current, o.format, layout))
	return nil
}

func buildParams(method, school int) (prayer.CalculationParameters, error) {
	m, err := prayer.MethodByID(method)
	if err != nil {
		return prayer.CalculationParameters{}, err
	}
	p := m.Params()
	switch prayer.Madhab(school) {
	case prayer.Standard, prayer.Hanafi:
		p.Madhab = prayer.Madhab(school)
	default:
		return prayer.CalculationParameters{}, fmt.Errorf("invalid school %d (want 0 or 1)", school)
	}
	return p, nil
}

// selectDay computes the day's schedule and returns the selected prayers
// in chronological order.
func selectDay(date time.Time, at geomath.Coordinate, params prayer.CalculationParameters, names []string) ([]prayer.Prayer, error) {
	day, err := prayer.ComputeDay(date, at, params)
	if err != nil {
		return nil, err
	}
	prayers, err := day.Select(names)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(prayers, func(i, j int) bool { return prayers[i].Time.Before(prayers[j].Time) })
	return prayers, nil
}

// resolveLocation returns the coordinate to compute for and an optional
// timezone hint. Explicit flags win, then the cached geolocation, then
// IP detection.
func resolveLocation(o options, stderr io.Writer) (geomath.Coordinate, string, error) {
	if o.latitude != 0 || o.longitude != 0 {
		at := geomath.Coordinate{Latitude: o.latitude, Longitude: o.longitude}
		return at, "", at.Validate()
	}

	c, err := cache.New(o.cacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		fmt.Fprintf(stderr, "warning: cache disabled: %v\n", err)
		c = nil
	}
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return cached.Coordinate(), cached.Timezone, nil
		}
	}

	detected, err := detectLocation()
	if err != nil {
		return geomath.Coordinate{}, "", fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if c != nil {
		_ = c.SaveGeo(detected) // best-effort
	}
	return detected.Coordinate(), detected.Timezone, nil
}

// printMethods prints the table of supported calculation methods.
func printMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-4s %s\n", "ID", "Name")
	fmt.Fprintf(w, "  %-4s %s\n", "──", "────")
	for _, m := range prayer.Methods() {
		fmt.Fprintf(w, "  %-4d %s\n", m.ID, m.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <ID> to select a calculation method.")
	fmt.Fprintf(w, "If omitted, method %d (Karachi) is used.\n", prayer.Karachi)
}
