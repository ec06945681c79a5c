package store

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/starquake/quizdb/internal/quiz"
)

// primaryResultCode masks an extended SQLite result code down to its primary code.
const primaryResultCode = 0xff

// classify turns SQLite constraint failures into a quiz.ConstraintError and wraps everything else with msg.
func classify(err error, msg string) error {
	sqliteErr := &sqlite.Error{}
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&primaryResultCode != sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%s: %w", msg, err)
	}

	var c quiz.Constraint
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		c = quiz.ConstraintUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		c = quiz.ConstraintForeignKey
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		c = quiz.ConstraintNotNull
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		c = quiz.ConstraintPrimaryKey
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		c = quiz.ConstraintCheck
	default:
		c = quiz.ConstraintOther
	}

	return &quiz.ConstraintError{Constraint: c, Err: err}
}
