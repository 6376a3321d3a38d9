package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/hijri"
)

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri [YYYY-MM-DD]",
		Short: "Show the Hijri date",
		Long:  "Convert a Gregorian date (default: today) to the tabular Hijri calendar.\nThe hijri_adjustment setting shifts the result by up to two days.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHijri,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "to-gregorian <year> <month> <day>",
		Short: "Convert a Hijri date to Gregorian",
		Args:  cobra.ExactArgs(3),
		RunE:  runToGregorian,
	})

	return cmd
}

type hijriJSON struct {
	Gregorian   string     `json:"gregorian"`
	Hijri       hijri.Date `json:"hijri"`
	Formatted   string     `json:"formatted"`
	LocalMonth  string     `json:"local_month"`
	Observances []string   `json:"observances,omitempty"`
}

func runHijri(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	date := now().In(loc)
	if len(args) == 1 {
		if date, err = time.ParseInLocation(time.DateOnly, args[0], loc); err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
		}
	}

	s := &session{cfg: cfg}
	h := s.hijriDate(date)
	observances := s.observances(date)

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), hijriJSON{
			Gregorian:   date.Format(time.DateOnly),
			Hijri:       h,
			Formatted:   h.Format(),
			LocalMonth:  h.LocalMonthName(),
			Observances: observances,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s  %s\n", display.Bold(h.Format()), display.Gray(h.LocalMonthName()))
	for _, name := range observances {
		fmt.Fprintf(w, "%s\n", display.Green(name))
	}
	return nil
}

func runToGregorian(cmd *cobra.Command, args []string) error {
	var parts [3]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid number %q", a)
		}
		parts[i] = n
	}

	g, err := hijri.ToGregorian(parts[0], parts[1], parts[2])
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"gregorian": g.Format(time.DateOnly)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), g.Format("Mon 02 Jan 2006"))
	return nil
}

var flagCalendarCount int

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List upcoming Islamic observances",
		Args:  cobra.NoArgs,
		RunE:  runCalendar,
	}
	cmd.Flags().IntVarP(&flagCalendarCount, "count", "n", 10, "Number of observances to list")
	return cmd
}

type occurrenceJSON struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
	Hijri     string `json:"hijri"`
	Gregorian string `json:"gregorian"`
	DaysLeft  int    `json:"days_left"`
}

func runCalendar(cmd *cobra.Command, args []string) error {
	if flagCalendarCount < 1 {
		return fmt.Errorf("invalid --count %d: must be positive", flagCalendarCount)
	}
	cfg := effectiveConfig(cmd)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Shift into tabular dates, then back for display.
	today := now().In(loc)
	from := today.AddDate(0, 0, cfg.HijriAdjustment)
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	var rows []occurrenceJSON
	for _, o := range hijri.Upcoming(from, flagCalendarCount) {
		g := o.Gregorian.AddDate(0, 0, -cfg.HijriAdjustment)
		rows = append(rows, occurrenceJSON{
			Name:      o.Name,
			LocalName: o.LocalName,
			Hijri:     o.Hijri.Format(),
			Gregorian: g.Format(time.DateOnly),
			DaysLeft:  int(o.Gregorian.Sub(fromDay).Hours() / 24),
		})
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	tbl := display.NewTable([]string{"Date", "Hijri", "Observance", "In"})
	tbl.AlignRight(3)
	for _, r := range rows {
		g, _ := time.Parse(time.DateOnly, r.Gregorian)
		in := "today"
		if r.DaysLeft > 0 {
			in = fmt.Sprintf("%dd", r.DaysLeft)
		}
		tbl.AddRow([]string{g.Format("Mon 02 Jan 2006"), r.Hijri, r.Name, in})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
