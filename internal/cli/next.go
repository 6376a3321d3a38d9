package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nAfter the last prayer of the day it shows the first one of tomorrow.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: "+strings.Join(prayer.FormatModes, ", ")+", or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	if err := prayer.ValidateFormat(flagFormat); err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > defaults.
	names := s.cfg.PrayerNames()
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		names = nil
		for _, n := range strings.Split(flagPrayers, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	if len(names) == 0 {
		return errors.New("no prayers selected")
	}

	day, err := s.day(s.now)
	if err != nil {
		return err
	}
	prayers, err := day.Select(names)
	if err != nil {
		return err
	}

	sortByTime(prayers)
	next := prayer.NextPrayer(prayers, s.now)

	// If all today's prayers have passed, use tomorrow's first prayer.
	if next == nil {
		tomorrow, err := s.day(s.now.AddDate(0, 0, 1))
		if err != nil {
			// Show the last prayer with a "done" indicator rather than
			// breaking a status bar.
			log.Warn().Err(err).Msg("computing tomorrow's schedule")
			last := prayers[len(prayers)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "%s --:--", last.Name)
			return nil
		}
		tomorrowPrayers, err := tomorrow.Select(names)
		if err != nil {
			return err
		}
		sortByTime(tomorrowPrayers)
		next = &tomorrowPrayers[0]
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(*next, s.now, flagFormat, s.layout))
	return nil
}

func sortByTime(prayers []prayer.Prayer) {
	sort.SliceStable(prayers, func(i, j int) bool { return prayers[i].Time.Before(prayers[j].Time) })
}
