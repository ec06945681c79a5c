// Package quizfile reads questions and answers from YAML files for bulk loading.
//
// A file looks like this, with the correct answer first:
//
//	questions:
//	  - text: What is Azure?
//	    answers: [cloud, music player, color, food]
package quizfile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/starquake/quizdb/internal/quiz"
)

// Entry is one question with its answers as found in the file.
// Answers are kept untyped until they are validated.
type Entry struct {
	Text    string `yaml:"text"`
	Answers []any  `yaml:"answers"`
}

// File is a decoded quiz file.
type File struct {
	Questions []Entry `yaml:"questions"`
}

// Writer is the part of the store Import needs.
type Writer interface {
	AddQuestion(ctx context.Context, text string) (int64, error)
	AddAnswers(ctx context.Context, questionID int64, answers []string) error
}

// Decode reads a quiz file from r.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, nil
		}

		return nil, fmt.Errorf("error decoding quiz file: %w", err)
	}

	return f, nil
}

// Validate checks every entry without writing anything.
func (f *File) Validate() error {
	for i, e := range f.Questions {
		if _, err := quiz.ParseAnswers(e.Answers); err != nil {
			return fmt.Errorf("question %d (%q): %w", i+1, e.Text, err)
		}
	}

	return nil
}

// Import validates f and then adds each question followed by its answers.
// It returns the ids of the questions created. Each call commits on its own,
// so a failure part way leaves the earlier questions in place.
func Import(ctx context.Context, w Writer, f *File) ([]int64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(f.Questions))
	for i, e := range f.Questions {
		// Validate succeeded, so the answers parse.
		answers, _ := quiz.ParseAnswers(e.Answers)

		id, err := w.AddQuestion(ctx, e.Text)
		if err != nil {
			return ids, fmt.Errorf("error adding question %d: %w", i+1, err)
		}
		ids = append(ids, id)

		if err = w.AddAnswers(ctx, id, answers); err != nil {
			return ids, fmt.Errorf("error adding answers of question %d: %w", i+1, err)
		}
	}

	return ids, nil
}
