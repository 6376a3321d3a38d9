package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/model"
	"github.com/smokyabdulrahman/salat/internal/store"
	"github.com/smokyabdulrahman/salat/internal/tasbih"
	"github.com/smokyabdulrahman/salat/internal/tui"
)

func newTasbihCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasbih",
		Short: "Interactive dhikr counter",
		Long:  "Open the tasbih counter. The count is saved after every tap and restored next time.",
		Args:  cobra.NoArgs,
		RunE:  runTasbih,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved count",
		Args:  cobra.NoArgs,
		RunE:  runTasbihShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the count to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTasbih(cmd, func(c *tasbih.Counter) error {
				c.Reset()
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "target <n>",
		Short: "Set the round size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid target %q", args[0])
			}
			return updateTasbih(cmd, func(c *tasbih.Counter) error {
				return c.SetTarget(n)
			})
		},
	})

	return cmd
}

// loadCounter returns the saved counter, or a fresh one if none is saved.
func loadCounter(ctx context.Context, db *store.DB, device string) (tasbih.Counter, error) {
	saved, err := db.GetTasbih(ctx, device)
	if errors.Is(err, store.ErrNotFound) {
		return tasbih.New(0, tasbih.DefaultTarget), nil
	}
	if err != nil {
		return tasbih.Counter{}, err
	}
	return tasbih.New(saved.Count, saved.Target), nil
}

func saveCounter(ctx context.Context, db *store.DB, device string, c tasbih.Counter) error {
	return db.SaveTasbih(ctx, &model.TasbihCount{UserID: device, Count: c.Count, Target: c.Target})
}

func runTasbih(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	device := deviceID(cfg)

	counter, err := loadCounter(cmd.Context(), db, device)
	if err != nil {
		return err
	}

	save := func(c tasbih.Counter) error {
		return saveCounter(context.Background(), db, device, c)
	}
	p := tea.NewProgram(tui.New(counter, save),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithContext(cmd.Context()),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok {
		c := m.Counter()
		fmt.Fprintf(cmd.OutOrStdout(), "%d taps, %d sets of %d\n", c.Count, c.CompletedSets(), c.Target)
	}
	return nil
}

type tasbihJSON struct {
	Count         int     `json:"count"`
	Target        int     `json:"target"`
	Current       int     `json:"current"`
	CompletedSets int     `json:"completed_sets"`
	Progress      float64 `json:"progress"`
}

func printCounter(cmd *cobra.Command, c tasbih.Counter) error {
	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), tasbihJSON{
			Count:         c.Count,
			Target:        c.Target,
			Current:       c.Current(),
			CompletedSets: c.CompletedSets(),
			Progress:      c.Progress(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d / %d  (count %d, sets completed: %d)\n",
		c.Current(), c.Target, c.Count, c.CompletedSets())
	return nil
}

func runTasbihShow(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := loadCounter(cmd.Context(), db, deviceID(cfg))
	if err != nil {
		return err
	}
	return printCounter(cmd, c)
}

func updateTasbih(cmd *cobra.Command, change func(*tasbih.Counter) error) error {
	cfg := effectiveConfig(cmd)
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	device := deviceID(cfg)

	c, err := loadCounter(cmd.Context(), db, device)
	if err != nil {
		return err
	}
	if err := change(&c); err != nil {
		return err
	}
	if err := saveCounter(cmd.Context(), db, device, c); err != nil {
		return err
	}
	return printCounter(cmd, c)
}
