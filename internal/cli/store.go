package cli

import (
	"os"
	"path/filepath"

	"github.com/smokyabdulrahman/salat/internal/config"
	"github.com/smokyabdulrahman/salat/internal/store"
)

const (
	localDevice   = "local"
	storeFileName = "salat.db"
)

// deviceID is the row key used for this machine's saved data.
func deviceID(cfg *config.Config) string {
	if cfg.DeviceID != "" {
		return cfg.DeviceID
	}
	return localDevice
}

// openStore opens the configured store, defaulting to a SQLite file next to
// the config file.
func openStore(cfg *config.Config) (*store.DB, error) {
	dsn := cfg.StoreDSN
	if dsn == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dir, storeFileName)
	}
	return store.Open(dsn)
}
