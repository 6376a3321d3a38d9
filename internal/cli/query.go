package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " + strings.Join(prayer.AllPrayerNames, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

type queryJSONSingle struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
	Hijri  string `json:"hijri"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	Time  string `json:"time"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := normalizePrayerName(args[0])
	if err != nil {
		return err
	}

	days := 1
	if flagQueryDays != "" {
		if days, err = parseDays(flagQueryDays); err != nil {
			return fmt.Errorf("invalid --days value: %w", err)
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	rows, err := computeDays(s, days, []string{name})
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if days == 1 {
		r := rows[0]
		if _, ok := r.Times[name]; !ok {
			return fmt.Errorf("%s is undefined on %s at this latitude", name, r.Date.Format("02 Jan 2006"))
		}
		if FlagJSON {
			return writeJSON(w, queryJSONSingle{
				Prayer: strings.ToLower(name),
				Time:   r.format(name, s.layout),
				Date:   r.Date.Format("02 Jan 2006"),
				Hijri:  s.hijriDate(r.Date).Format(),
			})
		}
		fmt.Fprintf(w, "%s %s\n", name, r.format(name, s.layout))
		return nil
	}

	if FlagJSON {
		out := queryJSONMulti{Location: s.jsonLocation(), Prayer: strings.ToLower(name)}
		for _, r := range rows {
			out.Days = append(out.Days, queryJSONDay{
				Date:  r.Date.Format("02 Jan 2006"),
				Hijri: s.hijriDate(r.Date).Format(),
				Time:  r.format(name, s.layout),
			})
		}
		return writeJSON(w, out)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("%s Times - %d Days", name, days))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place.Name)
	fmt.Fprintln(w)
	fmt.Fprint(w, renderRows(s, rows, []string{"Date", name}, []string{name}))
	fmt.Fprintln(w)
	return nil
}
