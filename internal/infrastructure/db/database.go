package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	config "github.com/kaspazof/kaspazof-api/configs"
)

// Database is an optional Postgres handle. The API keeps no data in it; it is only probed
// so that the system status page can report the database the deployment ships with.
type Database struct {
	DB *sqlx.DB
}

// NewDatabase opens the pool without connecting; the first probe dials.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	dbx, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		dbx.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		dbx.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		dbx.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Database{DB: dbx}, nil
}

// Ping runs a trivial query so that a reachable server with a broken session still fails.
func (d *Database) Ping(ctx context.Context) error {
	var one int
	if err := d.DB.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("database probe: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}
