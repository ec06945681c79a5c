// Package quiz contains the quiz domain types: questions, their answer sets,
// the names of the tables they live in and the errors the store returns.
package quiz

import (
	"context"
	"fmt"
	"strings"
)

// AnswerCount is the number of answers every question has.
const AnswerCount = 4

// Question represents a quiz prompt.
type Question struct {
	ID   int64  `db:"id"`
	Text string `db:"question"`
}

// AnswerSet holds the four answers of a question. By convention A is the correct answer.
type AnswerSet struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	A          string `db:"answer_a"`
	B          string `db:"answer_b"`
	C          string `db:"answer_c"`
	D          string `db:"answer_d"`
}

// Correct returns the correct answer.
func (a *AnswerSet) Correct() string {
	return a.A
}

// Answers returns the answers in column order.
func (a *AnswerSet) Answers() []string {
	return []string{a.A, a.B, a.C, a.D}
}

// Table is the name of one of the quiz tables.
type Table string

const (
	// TableQuestions holds the questions.
	TableQuestions Table = "questions"
	// TableAnswers holds the answer sets.
	TableAnswers Table = "answers"
)

// ParseTable checks that name is one of the known tables.
func ParseTable(name string) (Table, error) {
	switch t := Table(strings.ToLower(strings.TrimSpace(name))); t {
	case TableQuestions, TableAnswers:
		return t, nil
	default:
		return "", &ValidationError{Field: "table", Reason: fmt.Sprintf("unknown table %q", name)}
	}
}

// MatchColumn selects the column UpdateAnswers matches rows on.
type MatchColumn string

const (
	// MatchByID matches answer sets on their own id.
	MatchByID MatchColumn = "id"
	// MatchByQuestionID matches answer sets on the id of their question.
	MatchByQuestionID MatchColumn = "question_id"
)

// ParseMatchColumn parses s into a MatchColumn. An empty string means MatchByID.
func ParseMatchColumn(s string) (MatchColumn, error) {
	switch m := MatchColumn(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MatchByID, nil
	case MatchByID, MatchByQuestionID:
		return m, nil
	default:
		return "", &ValidationError{
			Field:  "match",
			Reason: fmt.Sprintf("must be %q or %q, got %q", MatchByID, MatchByQuestionID, s),
		}
	}
}

// AnswerUpdate describes a partial update of an answer set. Nil fields are left alone.
type AnswerUpdate struct {
	ID         *int64
	QuestionID *int64
	AnswerA    *string
	AnswerB    *string
	AnswerC    *string
	AnswerD    *string
	MatchBy    MatchColumn
}

// AnswerRemoval describes which answer sets to remove. Zero ids are treated as unset.
type AnswerRemoval struct {
	AnswerID               int64
	QuestionID             int64
	QuestionAlreadyRemoved bool
}

// Confirmer asks the user to confirm an action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// ValidateAnswers checks that exactly AnswerCount answers are given.
func ValidateAnswers(answers []string) error {
	if len(answers) != AnswerCount {
		return &ValidationError{
			Field:  "answers",
			Reason: fmt.Sprintf("exactly %d answers are required, got %d", AnswerCount, len(answers)),
		}
	}

	return nil
}

// ParseAnswers converts loosely typed input, e.g. decoded YAML, into answers.
// Every item must be a string.
func ParseAnswers(values []any) ([]string, error) {
	if len(values) != AnswerCount {
		return nil, &ValidationError{
			Field:  "answers",
			Reason: fmt.Sprintf("exactly %d answers are required, got %d", AnswerCount, len(values)),
		}
	}

	answers := make([]string, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("answers[%d]", i),
				Reason: fmt.Sprintf("answer %d is not a string: %v", i+1, v),
			}
		}
		answers = append(answers, s)
	}

	return answers, nil
}
