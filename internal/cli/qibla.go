package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/qibla"
	"github.com/smokyabdulrahman/salat/internal/sensor"
)

var (
	flagHeading  float64
	flagInterval time.Duration
)

func newQiblaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qibla",
		Short: "Show the Qibla direction",
		Long:  "Print the bearing and distance to the Kaaba.\nWith --heading, also print which way to turn from that heading.",
		Args:  cobra.NoArgs,
		RunE:  runQibla,
	}
	cmd.Flags().Float64Var(&flagHeading, "heading", 0, "Current device heading in degrees clockwise from north")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Follow a live heading stream",
		Long: "Read headings from the configured MQTT broker, or from stdin when it is not a terminal,\n" +
			"and print the turn direction for each. Stdin lines hold a heading in degrees or a magnetometer \"x y\" pair.",
		Args: cobra.NoArgs,
		RunE: runQiblaWatch,
	}
	watch.Flags().DurationVar(&flagInterval, "interval", sensor.DefaultInterval, "Minimum time between updates")
	cmd.AddCommand(watch)

	return cmd
}

type qiblaJSON struct {
	Location  todayJSONLocation `json:"location"`
	Bearing   float64           `json:"bearing"`
	Distance  float64           `json:"distance_km"`
	Heading   *float64          `json:"heading,omitempty"`
	Direction *qibla.Direction  `json:"direction,omitempty"`
	OffBy     *float64          `json:"off_by,omitempty"`
}

func runQibla(cmd *cobra.Command, args []string) error {
	pl, err := resolvePlace(effectiveConfig(cmd))
	if err != nil {
		return err
	}
	res, err := qibla.Calculate(pl.Coordinate)
	if err != nil {
		return err
	}
	withHeading := cmd.Flags().Changed("heading")
	w := cmd.OutOrStdout()

	if FlagJSON {
		out := qiblaJSON{
			Location: todayJSONLocation{
				Name:      pl.Name,
				Timezone:  pl.Location.String(),
				Latitude:  pl.Coordinate.Latitude,
				Longitude: pl.Coordinate.Longitude,
			},
			Bearing:  res.Bearing,
			Distance: res.Distance,
		}
		if withHeading {
			dir := qibla.RelativeDirection(res.Bearing, flagHeading)
			off := qibla.OffBy(res.Bearing, flagHeading)
			out.Heading, out.Direction, out.OffBy = &flagHeading, &dir, &off
		}
		return writeJSON(w, out)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Qibla"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", pl.Name)
	fmt.Fprintf(w, "  Bearing   %.1f° from true north\n", res.Bearing)
	fmt.Fprintf(w, "  Distance  %.0f km\n", res.Distance)
	if withHeading {
		fmt.Fprintf(w, "  Heading   %.1f°\n", flagHeading)
		fmt.Fprintf(w, "  %s\n", directionLine(res.Bearing, flagHeading))
	}
	fmt.Fprintln(w)
	return nil
}

func directionLine(bearing, heading float64) string {
	dir := qibla.RelativeDirection(bearing, heading)
	if dir == qibla.FacingQibla {
		return display.Green(dir.String())
	}
	return display.Yellow(fmt.Sprintf("%s (%.1f° off)", dir, qibla.OffBy(bearing, heading)))
}

// headingCapability picks the heading source: the MQTT broker when one is
// configured, otherwise stdin unless it is a terminal.
func headingCapability(cmd *cobra.Command, cfg *config.Config) (sensor.Capability, func()) {
	if cfg.MQTTBroker != "" {
		client, err := sensor.Dial(cfg.MQTTBroker, "salat-"+uuid.NewString())
		if err != nil {
			return sensor.Unavailable(err.Error()), func() {}
		}
		src := sensor.NewMQTTSource(client, cfg.HeadingTopic)
		return sensor.Available(src), src.Close
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && display.IsTerminal(f) {
		return sensor.Unavailable("no MQTT broker configured and stdin is a terminal"), func() {}
	}
	return sensor.Available(sensor.NewReaderSource(in)), func() {}
}

type headingJSON struct {
	Heading   float64         `json:"heading"`
	Direction qibla.Direction `json:"direction"`
	Rotation  float64         `json:"rotation"`
	OffBy     float64         `json:"off_by"`
	At        time.Time       `json:"at"`
}

func runQiblaWatch(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	pl, err := resolvePlace(cfg)
	if err != nil {
		return err
	}
	res, err := qibla.Calculate(pl.Coordinate)
	if err != nil {
		return err
	}

	capability, closeSource := headingCapability(cmd, cfg)
	defer closeSource()
	if !capability.Ok() {
		return capability.Err()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	samples, err := capability.Source.Samples(ctx)
	if err != nil {
		return err
	}
	log.Debug().Float64("bearing", res.Bearing).Msg("watching heading")

	w := cmd.OutOrStdout()
	enc := json.NewEncoder(w)
	for s := range sensor.Latest(ctx, samples, flagInterval) {
		if FlagJSON {
			if err := enc.Encode(headingJSON{
				Heading:   s.Heading,
				Direction: qibla.RelativeDirection(res.Bearing, s.Heading),
				Rotation:  qibla.Rotation(res.Bearing, s.Heading),
				OffBy:     qibla.OffBy(res.Bearing, s.Heading),
				At:        s.At,
			}); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%6.1f°  %s\n", s.Heading, directionLine(res.Bearing, s.Heading))
	}
	return nil
}
