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

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:rmleveltest.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/rmleveltest?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  variant_id TEXT NOT NULL,
  student_name TEXT NOT NULL DEFAULT '',
  school TEXT NOT NULL DEFAULT '',
  grade TEXT NOT NULL DEFAULT '',
  answers_json TEXT NOT NULL,
  breakdown_json TEXT NOT NULL,
  total_correct INTEGER NOT NULL,
  created_at INTEGER NOT NULL,             -- unix millis
  notify_status TEXT NOT NULL DEFAULT '',  -- pending|ok|failed
  notify_attempts INTEGER NOT NULL DEFAULT 0,
  notify_error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS results_created_at ON results (created_at DESC);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                         -- ResultRecorded | NotifyChanged
  key TEXT NOT NULL,                         -- natural key: result id
  data TEXT NOT NULL,                        -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  variant_id TEXT NOT NULL,
  student_name TEXT NOT NULL DEFAULT '',
  school TEXT NOT NULL DEFAULT '',
  grade TEXT NOT NULL DEFAULT '',
  answers_json TEXT NOT NULL,
  breakdown_json TEXT NOT NULL,
  total_correct INTEGER NOT NULL,
  created_at BIGINT NOT NULL,
  notify_status TEXT NOT NULL DEFAULT '',
  notify_attempts INTEGER NOT NULL DEFAULT 0,
  notify_error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS results_created_at ON results (created_at DESC);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
