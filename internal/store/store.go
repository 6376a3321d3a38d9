// Package store persists device preferences, favorite mosques and tasbih
// counts in SQLite or PostgreSQL through sqlx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DB is a handle on the store.
type DB struct {
	db     *sqlx.DB
	driver string
	now    func() time.Time
}

// ParseDSN maps a DSN to a driver name and data source:
// postgres:// and postgresql:// URLs use lib/pq, sqlite:// URLs and plain
// paths use SQLite.
func ParseDSN(dsn string) (driver, source string, err error) {
	switch {
	case dsn == "":
		return "", "", errors.New("empty store DSN")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.Contains(dsn, "://"):
		return "", "", fmt.Errorf("unsupported store DSN scheme in %q", dsn)
	default:
		return "sqlite", dsn, nil
	}
}

// Open connects and creates the schema if needed.
func Open(dsn string) (*DB, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	x, err := sqlx.Connect(driver, source)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s store: %w", driver, err)
	}
	if driver == "sqlite" {
		// One connection keeps :memory: databases shared and serializes writers.
		x.SetMaxOpenConns(1)
	}

	s := &DB{db: x, driver: driver, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(); err != nil {
		x.Close()
		return nil, err
	}
	log.Debug().Str("driver", driver).Msg("store ready")
	return s, nil
}

// Close releases the connection pool.
func (s *DB) Close() error {
	return s.db.Close()
}

// Driver returns "sqlite" or "postgres".
func (s *DB) Driver() string {
	return s.driver
}

func (s *DB) migrate() error {
	ts := "DATETIME"
	if s.driver == "postgres" {
		ts = "TIMESTAMPTZ"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT PRIMARY KEY,
			location_latitude DOUBLE PRECISION,
			location_longitude DOUBLE PRECISION,
			location_name TEXT,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS favorite_mosques (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorite_mosques_user ON favorite_mosques(user_id)`,
		`CREATE TABLE IF NOT EXISTS tasbih_counts (
			user_id TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0,
			target INTEGER NOT NULL DEFAULT 33,
			updated_at ` + ts + ` NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func (s *DB) get(ctx context.Context, dest any, query string, args ...any) error {
	return s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
}

func (s *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.db.Rebind(query), args...)
}
