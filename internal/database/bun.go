package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/redmonkez12/taskflow/internal/config"
)

// NewBunDB creates a new Bun DB instance from an existing sql.DB connection,
// picking the dialect that matches driver.
func NewBunDB(sqlDB *sql.DB, driver string) *bun.DB {
	if driver == config.DriverSQLite {
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
	return bun.NewDB(sqlDB, pgdialect.New())
}

// Open connects to the configured store and verifies the connection.
func Open(cfg config.DatabaseConfig) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		sqlDB, err = sql.Open(sqliteshim.ShimName, cfg.Path)
	case config.DriverPostgres:
		sqlDB, err = sql.Open("postgres", cfg.ConnectionString())
	case config.DriverPgx:
		sqlDB, err = sql.Open("pgx", cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(5)
	}

	return NewBunDB(sqlDB, cfg.Driver), nil
}
