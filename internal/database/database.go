// Package database opens the SQLite database and creates the quiz schema.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/starquake/quizdb/internal/migrations"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// ErrUnsupportedDriver is returned when the database driver is not supported. We only support sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// dsnPragmas are applied to every connection. foreign_keys must be on for the answers foreign key to hold.
const dsnPragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"

// DSN returns the data source name for the database file at path.
func DSN(path string) string {
	return "file:" + path + "?" + dsnPragmas
}

// Open opens a database handle limited to a single connection and checks that it is reachable.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverName {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err = conn.PingContext(ctx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}

		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return conn, nil
}

// Migrate creates the quiz tables. Running it again is a no-op.
func Migrate(ctx context.Context, conn *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, conn, migrations.FS)
	if err != nil {
		return fmt.Errorf("error creating migration provider: %w", err)
	}

	if _, err = provider.Up(ctx); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}
