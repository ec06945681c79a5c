// Package store provides QuizStore, a scoped connection to the quiz database.
//
// A QuizStore is used inside a scope: Open acquires the connection and the
// cursor, Close releases both. With wraps the pair so the scope is always left:
//
//	err := s.With(ctx, func(s *store.QuizStore) error {
//		id, err := s.AddQuestion(ctx, "What is Azure?")
//		if err != nil {
//			return err
//		}
//		return s.AddAnswers(ctx, id, []string{"cloud", "music player", "color", "food"})
//	})
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/starquake/quizdb/internal/database"
	"github.com/starquake/quizdb/internal/logging"
	"github.com/starquake/quizdb/internal/quiz"
	"github.com/starquake/quizdb/internal/render"
)

var (
	// ErrNotConnected is returned when an operation is called outside of a scope.
	ErrNotConnected = errors.New("store is not connected")
	// ErrScopeOpen is returned by Open when the scope is already open.
	ErrScopeOpen = errors.New("store scope is already open")
)

// QuizStore manages the questions and answers tables of a single SQLite file.
// It is not safe for concurrent use.
type QuizStore struct {
	driver string
	dsn    string
	logger *logging.Logger

	confirm quiz.Confirmer
	render  render.Func

	scope  xid.ID
	conn   *sqlx.DB
	cursor *sqlx.Conn
}

// Option configures a QuizStore.
type Option func(*QuizStore)

// WithConfirmer sets the collaborator RemoveAnswer asks before removing a question.
func WithConfirmer(c quiz.Confirmer) Option {
	return func(s *QuizStore) {
		s.confirm = c
	}
}

// WithRenderer sets the renderer used by DisplayTable.
func WithRenderer(fn render.Func) Option {
	return func(s *QuizStore) {
		s.render = fn
	}
}

// WithDSN replaces the data source name derived from the path.
func WithDSN(dsn string) Option {
	return func(s *QuizStore) {
		s.dsn = dsn
	}
}

// New returns a QuizStore for the database file at path and makes sure both tables exist.
// The returned store is not connected.
func New(ctx context.Context, path string, logger *logging.Logger, opts ...Option) (*QuizStore, error) {
	s := &QuizStore{
		driver: database.DriverName,
		dsn:    database.DSN(path),
		logger: logger,
		render: render.Text,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *QuizStore) createTables(ctx context.Context) (err error) {
	conn, err := database.Open(ctx, s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("error closing database: %w", closeErr))
		}
	}()

	if err = database.Migrate(ctx, conn.DB); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	return nil
}

// Open enters the scope: it opens the connection and acquires the cursor.
func (s *QuizStore) Open(ctx context.Context) error {
	if s.conn != nil || s.cursor != nil {
		return ErrScopeOpen
	}

	conn, err := database.Open(ctx, s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("error opening database connection: %w", err)
	}

	cursor, err := conn.Connx(ctx)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}

		return fmt.Errorf("error acquiring cursor: %w", err)
	}

	s.conn = conn
	s.cursor = cursor
	s.scope = xid.New()
	s.logger.Debug(ctx, "scope opened", logging.String("scope", s.scope.String()))

	return nil
}

// Close leaves the scope. Connection and cursor are released and cleared even if closing fails.
// Closing a store that is not connected does nothing.
func (s *QuizStore) Close() error {
	var err error
	if s.cursor != nil {
		if cursorErr := s.cursor.Close(); cursorErr != nil {
			err = fmt.Errorf("error closing cursor: %w", cursorErr)
		}
	}
	if s.conn != nil {
		if connErr := s.conn.Close(); connErr != nil {
			err = errors.Join(err, fmt.Errorf("error closing database connection: %w", connErr))
		}
	}

	s.cursor = nil
	s.conn = nil
	s.scope = xid.NilID()

	return err
}

// With runs fn inside a scope. The scope is closed on every exit path and a close error is joined to fn's error.
func (s *QuizStore) With(ctx context.Context, fn func(*QuizStore) error) (err error) {
	if err = s.Open(ctx); err != nil {
		return err
	}
	scope := s.scope
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		s.logger.Debug(ctx, "scope closed", logging.String("scope", scope.String()))
	}()

	return fn(s)
}

// Connected reports whether the store is inside a scope.
func (s *QuizStore) Connected() bool {
	return s.conn != nil && s.cursor != nil
}

// Scope returns the id of the current scope, or the nil id outside of a scope.
func (s *QuizStore) Scope() xid.ID {
	return s.scope
}

// Ping checks the connection to the database, ensuring it's reachable and responsive.
func (s *QuizStore) Ping(ctx context.Context) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	if err := s.cursor.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (s *QuizStore) active() (*sqlx.Conn, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	return s.cursor, nil
}

func (s *QuizStore) debug(ctx context.Context, msg string, attrs ...logging.Attr) {
	attrs = append(attrs, logging.String("scope", s.scope.String()))
	s.logger.Debug(ctx, msg, attrs...)
}
