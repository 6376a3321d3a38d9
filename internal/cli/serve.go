package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/server"
)

var (
	flagAddr    string
	flagNoStore bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Serve prayer times, Qibla and Hijri endpoints under /api/v1.\n" +
			"Saved preferences, mosques and tasbih counts are kept in the store unless --no-store is given.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default: server_address setting, :8080)")
	cmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Disable the /devices routes")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// A server logs requests at info.
	if zerolog.GlobalLevel() > zerolog.InfoLevel && os.Getenv(config.EnvPrefix+"LOG_LEVEL") == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := effectiveConfig(cmd)
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	addr := cfg.ServerAddress
	if flagAddr != "" {
		addr = flagAddr
	}

	var srv *server.Server
	if flagNoStore {
		srv = server.New(nil, params)
	} else {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info().Str("driver", db.Driver()).Msg("store opened")
		srv = server.New(db, params)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, addr)
}
