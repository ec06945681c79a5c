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

// RemoveQuestionPrompt is the message RemoveAnswer passes to the Confirmer.
const RemoveQuestionPrompt = "Would you like to remove the corresponding question? Yes/No: "

// AddAnswers stores the answer set of a question. Exactly four answers are required and
// the first one is the correct one. Each answer is trimmed.
func (s *QuizStore) AddAnswers(ctx context.Context, questionID int64, answers []string) error {
	cursor, err := s.active()
	if err != nil {
		return err
	}
	if err = quiz.ValidateAnswers(answers); err != nil {
		return err
	}

	_, err = cursor.ExecContext(ctx,
		`INSERT INTO answers (question_id, answer_a, answer_b, answer_c, answer_d) VALUES (?, ?, ?, ?, ?)`,
		questionID,
		strings.TrimSpace(answers[0]),
		strings.TrimSpace(answers[1]),
		strings.TrimSpace(answers[2]),
		strings.TrimSpace(answers[3]),
	)
	if err != nil {
		return classify(err, "error adding answers")
	}

	s.debug(ctx, "answers added", logging.Int64("question_id", questionID))

	return nil
}

// GetAnswers returns the answer set of the question with the given id.
func (s *QuizStore) GetAnswers(ctx context.Context, questionID int64) (*quiz.AnswerSet, error) {
	cursor, err := s.active()
	if err != nil {
		return nil, err
	}

	a := &quiz.AnswerSet{}
	err = cursor.GetContext(ctx, a,
		`SELECT id, question_id, answer_a, answer_b, answer_c, answer_d FROM answers WHERE question_id = ?`,
		questionID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &quiz.NotFoundError{Table: quiz.TableAnswers, Key: "question_id", Value: questionID}
		}

		return nil, fmt.Errorf("error getting answers for question %d: %w", questionID, err)
	}

	return a, nil
}

// RemoveAnswer removes answer sets by question id and/or by answer id. Unless the question is
// already removed, the Confirmer is asked whether the question should go too.
func (s *QuizStore) RemoveAnswer(ctx context.Context, r quiz.AnswerRemoval) error {
	cursor, err := s.active()
	if err != nil {
		return err
	}
	if r.AnswerID == 0 && r.QuestionID == 0 {
		return &quiz.ValidationError{Field: "answer_id", Reason: "an answer id or a question id is required"}
	}

	// The question is resolved before anything is deleted.
	questionID := r.QuestionID
	if r.AnswerID != 0 && questionID == 0 && !r.QuestionAlreadyRemoved {
		err = cursor.GetContext(ctx, &questionID, `SELECT question_id FROM answers WHERE id = ?`, r.AnswerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &quiz.NotFoundError{Table: quiz.TableAnswers, Key: "id", Value: r.AnswerID}
			}

			return fmt.Errorf("error looking up question of answer %d: %w", r.AnswerID, err)
		}
	}

	if r.QuestionID != 0 {
		if _, err = cursor.ExecContext(ctx, `DELETE FROM answers WHERE question_id = ?`, r.QuestionID); err != nil {
			return classify(err, "error removing answers")
		}
	}
	if r.AnswerID != 0 {
		if _, err = cursor.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, r.AnswerID); err != nil {
			return classify(err, "error removing answers")
		}
	}

	s.debug(ctx, "answers removed",
		logging.Int64("answer_id", r.AnswerID),
		logging.Int64("question_id", questionID),
	)

	if r.QuestionAlreadyRemoved || s.confirm == nil {
		return nil
	}

	ok, err := s.confirm.Confirm(ctx, RemoveQuestionPrompt)
	if err != nil {
		return fmt.Errorf("error confirming question removal: %w", err)
	}
	if !ok {
		return nil
	}

	return s.RemoveQuestion(ctx, questionID, true)
}

// answerColumn is a column UpdateAnswers may set.
type answerColumn struct {
	name  string
	value any
}

// UpdateAnswers sets the given fields of the answer set matched by u.MatchBy. Each field is written
// by its own statement, so a failure part way leaves the earlier fields updated.
func (s *QuizStore) UpdateAnswers(ctx context.Context, u quiz.AnswerUpdate) error {
	cursor, err := s.active()
	if err != nil {
		return err
	}

	match, err := quiz.ParseMatchColumn(string(u.MatchBy))
	if err != nil {
		return err
	}

	var columns []answerColumn
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"answer_a", u.AnswerA},
		{"answer_b", u.AnswerB},
		{"answer_c", u.AnswerC},
		{"answer_d", u.AnswerD},
	} {
		if f.value != nil {
			columns = append(columns, answerColumn{f.name, *f.value})
		}
	}

	var key int64
	switch match {
	case quiz.MatchByID:
		if u.ID == nil {
			return &quiz.ValidationError{Field: "id", Reason: "an answer id is required when matching on id"}
		}
		if len(columns) == 0 && u.QuestionID == nil {
			return &quiz.ValidationError{Field: "answers", Reason: "at least one field should be updated"}
		}
		if u.QuestionID != nil {
			columns = append([]answerColumn{{"question_id", *u.QuestionID}}, columns...)
		}
		key = *u.ID
	case quiz.MatchByQuestionID:
		if u.ID != nil {
			return &quiz.ValidationError{Field: "id", Reason: "cannot update answer id (primary key)"}
		}
		if u.QuestionID == nil {
			return &quiz.ValidationError{
				Field:  "question_id",
				Reason: "a question id is required when matching on question_id",
			}
		}
		if len(columns) == 0 {
			return &quiz.ValidationError{Field: "answers", Reason: "at least one field should be updated"}
		}
		key = *u.QuestionID
	}

	// Column and match names come from the fixed lists above, never from the caller.
	for _, c := range columns {
		query := fmt.Sprintf(`UPDATE answers SET %s = ? WHERE %s = ?`, c.name, match)
		res, execErr := cursor.ExecContext(ctx, query, c.value, key)
		if execErr != nil {
			return classify(execErr, "error updating "+c.name)
		}
		n, execErr := res.RowsAffected()
		if execErr != nil {
			return fmt.Errorf("error getting rows affected: %w", execErr)
		}
		if n == 0 {
			return &quiz.NotFoundError{Table: quiz.TableAnswers, Key: string(match), Value: key}
		}
	}

	s.debug(ctx, "answers updated",
		logging.String("match", string(match)),
		logging.Int64("key", key),
		logging.Int64("fields", int64(len(columns))),
	)

	return nil
}
