// Package dbtest provides helpers for testing database code.
package dbtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/starquake/quizdb/internal/database"
)

// Path returns the path of a fresh, not yet existing database file inside t.TempDir.
func Path(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "quizdb-test.sqlite")
}

// CreateTemp creates an empty database file and returns its path. The file is removed when the test ends.
func CreateTemp(t *testing.T) string {
	t.Helper()

	tmpDB, err := os.CreateTemp(t.TempDir(), "quizdb-test-*.sqlite")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}
	tmpDBPath := tmpDB.Name()
	if err = tmpDB.Close(); err != nil {
		t.Fatalf("failed to close temp db: %v", err)
	}

	return tmpDBPath
}

// Open opens the database at path with the schema applied. The handle is closed when the test ends.
func Open(t *testing.T, path string) *sqlx.DB {
	t.Helper()

	conn, err := database.Open(t.Context(), database.DriverName, database.DSN(path))
	if err != nil {
		t.Fatalf("error opening SQLite database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Errorf("error closing database: %v", closeErr)
		}
	})

	if err = database.Migrate(t.Context(), conn.DB); err != nil {
		t.Fatalf("error running migrations: %v", err)
	}

	return conn
}
