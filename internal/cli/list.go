package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const missingTime = "--:--"

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// dayRow is one date of a multi-day listing. Times is empty when the
// schedule is undefined on that date.
type dayRow struct {
	Date  time.Time
	Times map[string]time.Time
}

func (r dayRow) format(name, layout string) string {
	t, ok := r.Times[name]
	if !ok {
		return missingTime
	}
	return t.Format(layout)
}

// computeDays returns the selected prayers for days consecutive dates from
// today. Dates the sun never reaches the required angles are logged and kept
// with no times.
func computeDays(s *session, days int, names []string) ([]dayRow, error) {
	rows := make([]dayRow, 0, days)
	for i := 0; i < days; i++ {
		date := s.now.AddDate(0, 0, i)
		row := dayRow{Date: date, Times: make(map[string]time.Time, len(names))}

		day, err := s.day(date)
		if err != nil {
			log.Warn().Err(err).Str("date", date.Format(time.DateOnly)).Msg("no schedule")
			rows = append(rows, row)
			continue
		}
		prayers, err := day.Select(names)
		if err != nil {
			return nil, err
		}
		for _, p := range prayers {
			row.Times[p.Name] = p.Time
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDays(arg string) (int, error) {
	switch arg {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer, 'week' or 'month')", arg)
	}
	return n, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
		}
		days = n
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	names := s.cfg.PrayerNames()

	rows, err := computeDays(s, days, names)
	if err != nil {
		return err
	}

	if FlagJSON {
		return printListJSON(cmd.OutOrStdout(), s, rows, names)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("Prayer Times - %d Days", days))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place.Name)
	fmt.Fprintln(w)

	headers := append([]string{"Date"}, names...)
	fmt.Fprint(w, renderRows(s, rows, headers, names))
	fmt.Fprintln(w)
	return nil
}

// renderRows builds the table with today's row highlighted.
func renderRows(s *session, rows []dayRow, headers, names []string) string {
	tbl := display.NewTable(headers)
	today := s.now.Format(time.DateOnly)

	for i, r := range rows {
		row := []string{r.Date.Format("Mon 02 Jan")}
		for _, name := range names {
			row = append(row, r.format(name, s.layout))
		}
		tbl.AddRow(row)

		if r.Date.Format(time.DateOnly) == today {
			tbl.SetHighlightRow(i)
		}
	}
	return tbl.Render()
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(w io.Writer, s *session, rows []dayRow, names []string) error {
	out := listJSONOutput{Location: s.jsonLocation()}

	for _, r := range rows {
		timings := make(map[string]string, len(names))
		for _, name := range names {
			timings[strings.ToLower(name)] = r.format(name, s.layout)
		}
		out.Days = append(out.Days, listJSONDay{
			Date:    r.Date.Format("02 Jan 2006"),
			Hijri:   s.hijriDate(r.Date).Format(),
			Timings: timings,
		})
	}

	return writeJSON(w, out)
}

// normalizePrayerName matches name case-insensitively against every known
// prayer or event.
func normalizePrayerName(name string) (string, error) {
	for _, n := range prayer.AllPrayerNames {
		if strings.EqualFold(n, name) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown prayer %q; valid names: %s", name, strings.Join(prayer.AllPrayerNames, ", "))
}
