package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation error")
	// ErrConstraint matches every ConstraintError.
	ErrConstraint = errors.New("constraint violation")
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")
)

// ValidationError is returned when the caller passes invalid input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (*ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Constraint names a schema constraint.
type Constraint string

// Constraints reported by ConstraintError.
const (
	ConstraintUnique     Constraint = "unique"
	ConstraintForeignKey Constraint = "foreign key"
	ConstraintNotNull    Constraint = "not null"
	ConstraintPrimaryKey Constraint = "primary key"
	ConstraintCheck      Constraint = "check"
	ConstraintOther      Constraint = "constraint"
)

// ConstraintError is returned when a statement violates a schema constraint.
type ConstraintError struct {
	Constraint Constraint
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrConstraint, e.Constraint, e.Err)
}

// Is reports whether target is ErrConstraint.
func (*ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// Unwrap returns the driver error.
func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a point lookup finds no row.
type NotFoundError struct {
	Table Table
	Key   string
	Value int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no row in %s with %s %d", ErrNotFound, e.Table, e.Key, e.Value)
}

// Is reports whether target is ErrNotFound.
func (*NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
