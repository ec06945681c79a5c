package store_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/starquake/quizdb/internal/dbtest"
	"github.com/starquake/quizdb/internal/logging"
	"github.com/starquake/quizdb/internal/quiz"
	. "github.com/starquake/quizdb/internal/store"
	"github.com/starquake/quizdb/internal/testutil"
)

// openStore returns a connected store on a fresh database. The scope is closed when the test ends.
func openStore(t *testing.T, opts ...Option) *QuizStore {
	t.Helper()

	s, err := New(t.Context(), dbtest.Path(t), testutil.Logger(t), opts...)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err = s.Open(t.Context()); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := s.Close(); closeErr != nil {
			t.Errorf("failed to close store: %v", closeErr)
		}
	})

	return s
}

// seed adds a question with its answers and returns the question id.
func seed(t *testing.T, s *QuizStore, text string, answers ...string) int64 {
	t.Helper()

	id, err := s.AddQuestion(t.Context(), text)
	if err != nil {
		t.Fatalf("failed to add question: %v", err)
	}
	if err = s.AddAnswers(t.Context(), id, answers); err != nil {
		t.Fatalf("failed to add answers: %v", err)
	}

	return id
}

func count(t *testing.T, s *QuizStore, table string) int64 {
	t.Helper()

	n, err := s.CountRows(t.Context(), table)
	if err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}

	return n
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates tables", func(t *testing.T) {
		t.Parallel()

		s := openStore(t)

		tests := []struct {
			table string
			want  []string
		}{
			{"questions", []string{"id", "question"}},
			{"answers", []string{"id", "question_id", "answer_a", "answer_b", "answer_c", "answer_d"}},
		}
		for _, tt := range tests {
			got, err := s.Columns(t.Context(), tt.table)
			if err != nil {
				t.Fatalf("failed to read columns of %s: %v", tt.table, err)
			}
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Errorf("%s columns diff (-got +want):\n%s", tt.table, diff)
			}
		}
	})

	t.Run("existing empty file", func(t *testing.T) {
		t.Parallel()

		s, err := New(t.Context(), dbtest.CreateTemp(t), testutil.Logger(t))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		err = s.With(t.Context(), func(s *QuizStore) error {
			if got, want := count(t, s, "answers"), int64(0); got != want {
				t.Errorf("answers rows = %d, want %d", got, want)
			}

			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		path := dbtest.Path(t)
		logger := testutil.Logger(t)

		first, err := New(t.Context(), path, logger)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		err = first.With(t.Context(), func(s *QuizStore) error {
			_, addErr := s.AddQuestion(t.Context(), "kept?")

			return addErr
		})
		if err != nil {
			t.Fatalf("failed to add question: %v", err)
		}

		second, err := New(t.Context(), path, logger)
		if err != nil {
			t.Fatalf("failed to create store a second time: %v", err)
		}
		err = second.With(t.Context(), func(s *QuizStore) error {
			if got, want := count(t, s, "questions"), int64(1); got != want {
				t.Errorf("questions rows = %d, want %d", got, want)
			}

			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		if _, err := New(ctx, dbtest.Path(t), testutil.Logger(t)); err == nil {
			t.Fatal("expected error for canceled context, got nil")
		}
	})
}

func TestQuizStore_Scope(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T) *QuizStore {
		t.Helper()

		s, err := New(t.Context(), dbtest.Path(t), testutil.Logger(t))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		return s
	}

	t.Run("open and close", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		if s.Connected() {
			t.Fatal("new store is connected")
		}

		if err := s.Open(t.Context()); err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		if !s.Connected() {
			t.Error("store is not connected inside the scope")
		}
		if s.Scope().IsNil() {
			t.Error("scope id is nil inside the scope")
		}
		if err := s.Ping(t.Context()); err != nil {
			t.Errorf("failed to ping: %v", err)
		}

		if err := s.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}
		if s.Connected() {
			t.Error("store is still connected after Close")
		}
		if !s.Scope().IsNil() {
			t.Error("scope id is set after Close")
		}

		if err := s.Close(); err != nil {
			t.Errorf("second Close returned %v", err)
		}
	})

	t.Run("open twice", func(t *testing.T) {
		t.Parallel()

		s := openStore(t)
		if err := s.Open(t.Context()); !errors.Is(err, ErrScopeOpen) {
			t.Fatalf("got error %v, want %v", err, ErrScopeOpen)
		}
		if !s.Connected() {
			t.Error("failed Open closed the existing scope")
		}
	})

	t.Run("with releases on success", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		var inside bool
		err := s.With(t.Context(), func(s *QuizStore) error {
			inside = s.Connected()

			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !inside {
			t.Error("store was not connected inside With")
		}
		if s.Connected() {
			t.Error("store is still connected after With")
		}
	})

	t.Run("with logs the scope", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s, err := New(t.Context(), dbtest.Path(t), logging.NewLoggerWithLevel(&buf, logging.LevelDebug))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		var scope string
		err = s.With(t.Context(), func(s *QuizStore) error {
			scope = s.Scope().String()

			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, msg := range []string{"scope opened", "scope closed"} {
			if !strings.Contains(buf.String(), "msg=\""+msg+"\" scope="+scope) {
				t.Errorf("log %q does not contain %q for scope %s", buf.String(), msg, scope)
			}
		}
	})

	t.Run("with releases on error", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		errBoom := errors.New("boom")
		err := s.With(t.Context(), func(*QuizStore) error {
			return errBoom
		})
		if !errors.Is(err, errBoom) {
			t.Fatalf("got error %v, want %v", err, errBoom)
		}
		if s.Connected() {
			t.Error("store is still connected after a failing With")
		}
	})

	t.Run("with releases on panic", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic to propagate")
				}
			}()
			_ = s.With(t.Context(), func(*QuizStore) error {
				panic("boom")
			})
		}()
		if s.Connected() {
			t.Error("store is still connected after a panicking With")
		}
	})

	t.Run("operations outside a scope", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := t.Context()

		calls := map[string]func() error{
			"AddQuestion": func() error { _, err := s.AddQuestion(ctx, "q"); return err },
			"AddAnswers":  func() error { return s.AddAnswers(ctx, 1, []string{"a", "b", "c", "d"}) },
			"GetQuestion": func() error { _, err := s.GetQuestion(ctx, 1); return err },
			"GetAnswers":  func() error { _, err := s.GetAnswers(ctx, 1); return err },
			"UpdateQuestion": func() error {
				return s.UpdateQuestion(ctx, 1, "q")
			},
			"UpdateAnswers": func() error {
				return s.UpdateAnswers(ctx, quiz.AnswerUpdate{})
			},
			"RemoveQuestion": func() error { return s.RemoveQuestion(ctx, 1, false) },
			"RemoveAnswer": func() error {
				return s.RemoveAnswer(ctx, quiz.AnswerRemoval{AnswerID: 1})
			},
			"Columns":      func() error { _, err := s.Columns(ctx, "questions"); return err },
			"CountRows":    func() error { _, err := s.CountRows(ctx, "questions"); return err },
			"DisplayTable": func() error { _, err := s.DisplayTable(ctx, "questions"); return err },
			"DisplayTable unknown table": func() error {
				_, err := s.DisplayTable(ctx, "users")
				return err
			},
			"ClearTable":   func() error { return s.ClearTable(ctx, "questions") },
			"Ping":         func() error { return s.Ping(ctx) },
		}
		for name, call := range calls {
			if err := call(); !errors.Is(err, ErrNotConnected) {
				t.Errorf("%s() error = %v, want %v", name, err, ErrNotConnected)
			}
		}
	})
}
