package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starquake/quizdb/internal/logging"
	"github.com/starquake/quizdb/internal/quiz"
)

// AddQuestion stores the trimmed text as a new question and returns its id.
func (s *QuizStore) AddQuestion(ctx context.Context, text string) (int64, error) {
	cursor, err := s.active()
	if err != nil {
		return 0, err
	}

	res, err := cursor.ExecContext(ctx, `INSERT INTO questions (question) VALUES (?)`, strings.TrimSpace(text))
	if err != nil {
		return 0, classify(err, "error adding question")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error getting last insert ID: %w", err)
	}

	s.debug(ctx, "question added", logging.Int64("question_id", id))

	return id, nil
}

// GetQuestion returns the question with the given id.
func (s *QuizStore) GetQuestion(ctx context.Context, id int64) (*quiz.Question, error) {
	cursor, err := s.active()
	if err != nil {
		return nil, err
	}

	q := &quiz.Question{}
	err = cursor.GetContext(ctx, q, `SELECT id, question FROM questions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &quiz.NotFoundError{Table: quiz.TableQuestions, Key: "id", Value: id}
		}

		return nil, fmt.Errorf("error getting question %d: %w", id, err)
	}

	return q, nil
}

// UpdateQuestion overwrites the text of the question with the given id.
func (s *QuizStore) UpdateQuestion(ctx context.Context, id int64, text string) error {
	cursor, err := s.active()
	if err != nil {
		return err
	}

	res, err := cursor.ExecContext(ctx, `UPDATE questions SET question = ? WHERE id = ?`, text, id)
	if err != nil {
		return classify(err, "error updating question")
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	} else if n == 0 {
		return &quiz.NotFoundError{Table: quiz.TableQuestions, Key: "id", Value: id}
	}

	s.debug(ctx, "question updated", logging.Int64("question_id", id))

	return nil
}

// RemoveQuestion removes the question with the given id. Unless answersAlreadyRemoved is set,
// its answer set is removed as well. Answers go first so the foreign key holds at every step.
func (s *QuizStore) RemoveQuestion(ctx context.Context, questionID int64, answersAlreadyRemoved bool) error {
	cursor, err := s.active()
	if err != nil {
		return err
	}

	if !answersAlreadyRemoved {
		if _, err = cursor.ExecContext(ctx, `DELETE FROM answers WHERE question_id = ?`, questionID); err != nil {
			return classify(err, "error removing answers")
		}
	}
	if _, err = cursor.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, questionID); err != nil {
		return classify(err, "error removing question")
	}

	s.debug(ctx, "question removed",
		logging.Int64("question_id", questionID),
		logging.Bool("answers_already_removed", answersAlreadyRemoved),
	)

	return nil
}
