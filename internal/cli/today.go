package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// session bundles what every schedule command needs.
type session struct {
	cfg    *config.Config
	params prayer.CalculationParameters
	place  place
	now    time.Time // in place.Location
	layout string
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	pl, err := resolvePlace(cfg)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		params: params,
		place:  pl,
		now:    now().In(pl.Location),
		layout: goTimeFormat(cfg.TimeFormat),
	}, nil
}

// day computes the schedule for the calendar date of date.
func (s *session) day(date time.Time) (prayer.Day, error) {
	return prayer.ComputeDay(date.In(s.place.Location), s.place.Coordinate, s.params)
}

// hijriDate returns the Hijri date of t with the configured adjustment.
func (s *session) hijriDate(t time.Time) hijri.Date {
	return hijri.Adjust(t, s.cfg.HijriAdjustment)
}

func (s *session) observances(t time.Time) []string {
	var names []string
	for _, o := range hijri.On(t.AddDate(0, 0, s.cfg.HijriAdjustment)) {
		names = append(names, o.Name)
	}
	return names
}

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	day, err := s.day(s.now)
	if err != nil {
		return err
	}
	prayers, err := day.Select(s.cfg.PrayerNames())
	if err != nil {
		return err
	}

	current := prayer.CurrentPrayer(prayers, s.now)
	next := prayer.NextPrayer(prayers, s.now)

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), s, prayers, current, next)
	}
	printTodayRich(cmd.OutOrStdout(), s, prayers, current, next)
	return nil
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, s *session, prayers []prayer.Prayer, current, next *prayer.Prayer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", s.place.Name)
	fmt.Fprintf(w, "  %s\n", s.place.Location)
	fmt.Fprintf(w, "  %s\n", s.now.Format("02 Jan 2006"))

	h := s.hijriDate(s.now)
	fmt.Fprintf(w, "  %s %s\n", h.Format(), display.Gray("("+h.LocalMonthName()+")"))
	for _, name := range s.observances(s.now) {
		fmt.Fprintf(w, "  %s\n", display.Green(name))
	}

	fmt.Fprintln(w)

	maxNameLen := 0
	for _, p := range prayers {
		maxNameLen = max(maxNameLen, len(p.Name))
	}

	for _, p := range prayers {
		line := fmt.Sprintf("  %-*s  %s", maxNameLen, p.Name, p.Time.Format(s.layout))

		switch {
		case current != nil && p.Name == current.Name:
			fmt.Fprintln(w, display.Dim(line))
		case next != nil && p.Name == next.Name:
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, s.now))
			fmt.Fprintln(w, display.Accent(line)+display.Accent("  <- next in "+remaining))
		default:
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location    todayJSONLocation `json:"location"`
	Date        todayJSONDate     `json:"date"`
	Timings     map[string]string `json:"timings"`
	Current     string            `json:"current"`
	Next        *todayJSONNext    `json:"next"`
	Observances []string          `json:"observances,omitempty"`
}

type todayJSONLocation struct {
	Name      string  `json:"name"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func (s *session) jsonLocation() todayJSONLocation {
	return todayJSONLocation{
		Name:      s.place.Name,
		Timezone:  s.place.Location.String(),
		Latitude:  s.place.Coordinate.Latitude,
		Longitude: s.place.Coordinate.Longitude,
	}
}

func timingsMap(prayers []prayer.Prayer, layout string) map[string]string {
	timings := make(map[string]string, len(prayers))
	for _, p := range prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(layout)
	}
	return timings
}

func printTodayJSON(w io.Writer, s *session, prayers []prayer.Prayer, current, next *prayer.Prayer) error {
	out := todayJSON{
		Location: s.jsonLocation(),
		Date: todayJSONDate{
			Gregorian: s.now.Format("02 Jan 2006"),
			Hijri:     s.hijriDate(s.now).Format(),
		},
		Timings:     timingsMap(prayers, s.layout),
		Observances: s.observances(s.now),
	}

	if current != nil {
		out.Current = strings.ToLower(current.Name)
	}
	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.layout),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now)),
		}
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
