package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/starquake/quizdb/internal/database"
	"github.com/starquake/quizdb/internal/dbtest"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	got := database.DSN("/tmp/quiz.sqlite")
	if want := "file:/tmp/quiz.sqlite?"; !strings.HasPrefix(got, want) {
		t.Errorf("DSN() = %q, want prefix %q", got, want)
	}
	if want := "_pragma=foreign_keys(1)"; !strings.Contains(got, want) {
		t.Errorf("DSN() = %q, want it to contain %q", got, want)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		conn, err := database.Open(t.Context(), database.DriverName, database.DSN(dbtest.Path(t)))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer func() {
			if closeErr := conn.Close(); closeErr != nil {
				t.Errorf("failed to close database: %v", closeErr)
			}
		}()

		var fk int
		if err = conn.GetContext(t.Context(), &fk, "PRAGMA foreign_keys"); err != nil {
			t.Fatalf("failed to read foreign_keys pragma: %v", err)
		}
		if fk != 1 {
			t.Errorf("foreign_keys = %d, want 1", fk)
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()

		_, err := database.Open(t.Context(), "postgres", "postgres://localhost")
		if !errors.Is(err, database.ErrUnsupportedDriver) {
			t.Fatalf("got error %v, want %v", err, database.ErrUnsupportedDriver)
		}
	})

	t.Run("context canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		conn, err := database.Open(ctx, database.DriverName, database.DSN(dbtest.Path(t)))
		if err == nil {
			_ = conn.Close()
			t.Fatal("expected error due to canceled context, got nil")
		}
	})
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	path := dbtest.Path(t)
	conn := dbtest.Open(t, path)

	// A second run must not fail or change anything.
	if err := database.Migrate(t.Context(), conn.DB); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}

	columns := func(table string) []string {
		var names []string
		if err := conn.SelectContext(t.Context(), &names,
			"SELECT name FROM pragma_table_info(?) ORDER BY cid", table); err != nil {
			t.Fatalf("failed to read columns of %s: %v", table, err)
		}

		return names
	}

	if diff := cmp.Diff(columns("questions"), []string{"id", "question"}); diff != "" {
		t.Errorf("questions columns diff (-got +want):\n%s", diff)
	}
	want := []string{"id", "question_id", "answer_a", "answer_b", "answer_c", "answer_d"}
	if diff := cmp.Diff(columns("answers"), want); diff != "" {
		t.Errorf("answers columns diff (-got +want):\n%s", diff)
	}
}
