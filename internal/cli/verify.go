package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/api"
	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var (
	flagTolerance time.Duration

	// newAPIClient is swapped out in tests.
	newAPIClient = api.NewClient
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare today's times against the Al Adhan API",
		Long: "Fetch today's timings from the Al Adhan API with the same method, madhab\n" +
			"and offsets, and show how far each locally computed time is from it.\n" +
			"Exits non-zero when any time differs by more than --tolerance.",
		Args: cobra.NoArgs,
		RunE: runVerify,
	}
	cmd.Flags().DurationVar(&flagTolerance, "tolerance", 2*time.Minute, "Largest accepted difference")
	return cmd
}

// reference returns the API answer for the session's date, from the cache
// when possible.
func reference(cmd *cobra.Command, s *session) (api.Data, error) {
	c, err := cache.New(s.cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}
	if c != nil {
		if e := c.LoadReference(s.now, s.place.Coordinate, s.params); e != nil {
			log.Debug().Str("date", e.Date).Msg("reference from cache")
			return api.Data{Timings: e.Timings, Date: api.DateInfo{Hijri: e.Hijri}, Meta: e.Meta}, nil
		}
	}

	resp, err := newAPIClient().Fetch(cmd.Context(), s.now, s.place.Coordinate, s.params)
	if err != nil {
		return api.Data{}, fmt.Errorf("fetching reference times: %w", err)
	}
	if c != nil {
		if err := c.SaveReference(s.now, s.place.Coordinate, s.params, resp); err != nil {
			log.Debug().Err(err).Msg("caching reference")
		}
	}
	return resp.Data, nil
}

type verifyJSON struct {
	Drifts []api.Drift `json:"drifts"`
	// HijriOffset is nil when the reference carries no usable Hijri date.
	HijriOffset *int `json:"hijri_offset,omitempty"`
}

func formatDelta(d time.Duration) string {
	if d >= 0 {
		return "+" + d.String()
	}
	return d.String()
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	day, err := s.day(s.now)
	if err != nil {
		return err
	}
	local, err := day.Select(prayer.AllPrayerNames)
	if err != nil {
		return err
	}

	ref, err := reference(cmd, s)
	if err != nil {
		return err
	}
	refLoc := s.place.Location
	if tz := ref.Meta.Timezone; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			refLoc = l
		}
	}

	drifts, err := api.Compare(local, ref.Timings, refLoc)
	if err != nil {
		return err
	}
	worst, _ := api.MaxDrift(drifts)

	out := verifyJSON{Drifts: drifts}
	localHijri := s.hijriDate(s.now)
	if n, err := api.HijriOffset(localHijri, ref.Date.Hijri); err != nil {
		log.Debug().Err(err).Msg("reference hijri date")
	} else {
		out.HijriOffset = &n
	}

	if FlagJSON {
		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		tbl := display.NewTable([]string{"Prayer", "Local", "Al Adhan", "Drift"})
		tbl.AlignRight(3)
		for _, d := range drifts {
			delta := formatDelta(d.Delta)
			if d.Delta.Abs() > flagTolerance {
				delta = display.Yellow(delta)
			}
			tbl.AddRow([]string{d.Name, d.Local.In(refLoc).Format(time.TimeOnly), d.Reference.Format("15:04"), delta})
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Largest drift: %s %s\n", worst.Name, formatDelta(worst.Delta))
		if out.HijriOffset != nil && *out.HijriOffset != 0 {
			fmt.Fprintf(w, "Hijri date: %s is %+d day(s) from Al Adhan; set hijri_adjustment to %d to match\n",
				localHijri.Format(), *out.HijriOffset, s.cfg.HijriAdjustment-*out.HijriOffset)
		}
	}

	if worst.Delta.Abs() > flagTolerance {
		return fmt.Errorf("%s differs from Al Adhan by %s, more than %s", worst.Name, formatDelta(worst.Delta), flagTolerance)
	}
	return nil
}
