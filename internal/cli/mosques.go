package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/display"
	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/mosque"
)

var flagMosqueAddress string

func newMosquesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mosques",
		Aliases: []string{"mosque"},
		Short:   "Manage favorite mosques",
		Long:    "List favorite mosques, nearest first when a location is configured.",
		Args:    cobra.NoArgs,
		RunE:    runMosquesList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite mosques",
		Args:  cobra.NoArgs,
		RunE:  runMosquesList,
	})

	add := &cobra.Command{
		Use:   "add <name> <latitude> <longitude>",
		Short: "Add a favorite mosque",
		Args:  cobra.ExactArgs(3),
		RunE:  runMosquesAdd,
	}
	add.Flags().StringVar(&flagMosqueAddress, "address", "", "Street address")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a favorite mosque",
		Args:    cobra.ExactArgs(1),
		RunE:    runMosquesRemove,
	})

	return cmd
}

func mosqueService(cmd *cobra.Command) (*mosque.Service, string, func() error, error) {
	cfg := effectiveConfig(cmd)
	db, err := openStore(cfg)
	if err != nil {
		return nil, "", nil, err
	}
	return mosque.NewService(db), deviceID(cfg), db.Close, nil
}

func runMosquesList(cmd *cobra.Command, args []string) error {
	svc, device, closeDB, err := mosqueService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	var from *geomath.Coordinate
	if c, ok := effectiveConfig(cmd).Coordinate(); ok {
		from = &c
	}

	mosques, err := svc.Nearby(cmd.Context(), device, from)
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), mosques)
	}

	w := cmd.OutOrStdout()
	if len(mosques) == 0 {
		fmt.Fprintln(w, "No favorite mosques yet. Add one with 'salat mosques add <name> <latitude> <longitude>'.")
		return nil
	}

	tbl := display.NewTable([]string{"ID", "Name", "Address", "Distance"})
	tbl.AlignRight(3)
	for _, m := range mosques {
		dist := ""
		if m.DistanceKm != nil {
			dist = fmt.Sprintf("%.1f km", *m.DistanceKm)
		}
		tbl.AddRow([]string{m.ID, m.Name, m.Address, dist})
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

func runMosquesAdd(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", args[1])
	}
	lon, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", args[2])
	}

	svc, device, closeDB, err := mosqueService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	m, err := svc.Add(cmd.Context(), device, args[0], flagMosqueAddress, geomath.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), m)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", m.Name, m.ID)
	return nil
}

func runMosquesRemove(cmd *cobra.Command, args []string) error {
	svc, device, closeDB, err := mosqueService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := svc.Remove(cmd.Context(), device, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}
