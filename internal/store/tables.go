package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/starquake/quizdb/internal/logging"
	"github.com/starquake/quizdb/internal/quiz"
)

// Columns returns the column names of table in schema order.
func (s *QuizStore) Columns(ctx context.Context, table string) ([]string, error) {
	cursor, err := s.active()
	if err != nil {
		return nil, err
	}
	t, err := quiz.ParseTable(table)
	if err != nil {
		return nil, err
	}

	var columns []string
	err = cursor.SelectContext(ctx, &columns, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, string(t))
	if err != nil {
		return nil, fmt.Errorf("error reading columns of %s: %w", t, err)
	}

	return columns, nil
}

// CountRows returns the number of rows in table.
func (s *QuizStore) CountRows(ctx context.Context, table string) (int64, error) {
	cursor, err := s.active()
	if err != nil {
		return 0, err
	}
	t, err := quiz.ParseTable(table)
	if err != nil {
		return 0, err
	}

	var n int64
	if err = cursor.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+string(t)); err != nil {
		return 0, fmt.Errorf("error counting rows of %s: %w", t, err)
	}

	return n, nil
}

// DisplayTable renders every row of table with its column names as headers.
func (s *QuizStore) DisplayTable(ctx context.Context, table string) (string, error) {
	cursor, err := s.active()
	if err != nil {
		return "", err
	}
	t, err := quiz.ParseTable(table)
	if err != nil {
		return "", err
	}
	columns, err := s.Columns(ctx, string(t))
	if err != nil {
		return "", err
	}

	rows, err := cursor.QueryxContext(ctx, `SELECT * FROM `+string(t)+` ORDER BY id`)
	if err != nil {
		return "", fmt.Errorf("error querying %s: %w", t, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Error(ctx, "error closing rows", logging.ErrAttr(closeErr))
		}
	}()

	var cells [][]string
	for rows.Next() {
		values, scanErr := rows.SliceScan()
		if scanErr != nil {
			return "", fmt.Errorf("error scanning %s row: %w", t, scanErr)
		}
		row := make([]string, 0, len(values))
		for _, v := range values {
			row = append(row, cell(v))
		}
		cells = append(cells, row)
	}
	if err = rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating %s rows: %w", t, err)
	}

	out, err := s.render(columns, cells)
	if err != nil {
		return "", fmt.Errorf("error rendering %s: %w", t, err)
	}

	return out, nil
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// ClearTable removes every row of table. Clearing questions also removes the answer sets
// that reference them, since an answer set cannot outlive its question.
func (s *QuizStore) ClearTable(ctx context.Context, table string) error {
	cursor, err := s.active()
	if err != nil {
		return err
	}
	t, err := quiz.ParseTable(table)
	if err != nil {
		return err
	}

	if t == quiz.TableQuestions {
		_, err = cursor.ExecContext(ctx, `DELETE FROM answers WHERE question_id IN (SELECT id FROM questions)`)
		if err != nil {
			return classify(err, "error clearing answers")
		}
	}
	if _, err = cursor.ExecContext(ctx, `DELETE FROM `+string(t)); err != nil {
		return classify(err, "error clearing "+string(t))
	}

	s.debug(ctx, "table cleared", logging.String("table", string(t)))

	return nil
}
