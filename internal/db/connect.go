package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// dialect holds what differs between the supported databases.
type dialect struct {
	sqlDriver  string
	defaultDSN string
	schema     string
}

var dialects = map[Driver]dialect{
	DriverSQLite:   {"sqlite", "file:railquiz.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", schemaSQLite},
	DriverPostgres: {"pgx", "postgres://localhost:5432/railquiz?sslmode=disable", schemaPostgres},
}

// Open connects to driver (its default DSN when dsn is empty), pings it and
// ensures the session_values table exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}
	if dsn == "" {
		dsn = d.defaultDSN
	}
	dbh, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}
	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("db: ping %s: %w", driver, err)
	}
	if err := ensureSchema(ctx, dbh, driver); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return dbh, nil
}

func ensureSchema(ctx context.Context, dbh *sql.DB, driver Driver) error {
	if _, err := dbh.ExecContext(ctx, dialects[driver].schema); err != nil {
		return fmt.Errorf("db: schema %s: %w", driver, err)
	}
	return nil
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS session_values (
  session_id TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  expires_at INTEGER NOT NULL DEFAULT 0, -- unix seconds, 0 = never
  PRIMARY KEY (session_id, key)
);

CREATE INDEX IF NOT EXISTS session_values_expires ON session_values (expires_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS session_values (
  session_id TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  expires_at BIGINT NOT NULL DEFAULT 0,
  PRIMARY KEY (session_id, key)
);

CREATE INDEX IF NOT EXISTS session_values_expires ON session_values (expires_at);
`
