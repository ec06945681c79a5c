// Package app contains the entrypoint of the quizdb command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/starquake/quizdb/internal/config"
	"github.com/starquake/quizdb/internal/logging"
	"github.com/starquake/quizdb/internal/prompt"
	"github.com/starquake/quizdb/internal/quiz"
	"github.com/starquake/quizdb/internal/quizfile"
	"github.com/starquake/quizdb/internal/render"
	"github.com/starquake/quizdb/internal/store"
)

var (
	// ErrUnknownCommand is returned for a command that does not exist.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command is called with missing or extra arguments.
	ErrUsage = errors.New("usage error")
)

// env bundles what a command needs.
type env struct {
	store  *store.QuizStore
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error
}

var commands = map[string]command{
	"add-question":    {"-text TEXT", runAddQuestion},
	"add-answers":     {"-question-id ID CORRECT B C D", runAddAnswers},
	"remove-question": {"-id ID [-answers-removed]", runRemoveQuestion},
	"remove-answer":   {"[-id ID] [-question-id ID] [-question-removed]", runRemoveAnswer},
	"update-question": {"-id ID -text TEXT", runUpdateQuestion},
	"update-answers":  {"[-id ID] [-question-id ID] [-a A] [-b B] [-c C] [-d D] [-match id|question_id]", runUpdateAnswers},
	"get":             {"-id ID", runGet},
	"display":         {"-table questions|answers", runDisplay},
	"clear":           {"-table questions|answers", runClear},
	"import":          {"-file FILE", runImport},
}

// Run parses the configuration, opens the quiz database and runs the command in args.
func Run(
	ctx context.Context,
	args []string,
	getenv func(string) string,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	var err error
	mainCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if len(args) == 0 {
		usage(stderr)

		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(stderr)

		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}

	var cfg *config.Config
	if cfg, err = config.Parse(getenv); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	logger := logging.NewLoggerWithLevel(stderr, cfg.LogLevel)

	renderer, err := render.For(cfg.DisplayFormat)
	if err != nil {
		return fmt.Errorf("error selecting renderer: %w", err)
	}

	s, err := store.New(mainCtx, cfg.DBPath, logger,
		store.WithConfirmer(prompt.NewConfirmer(stdin, stdout)),
		store.WithRenderer(renderer),
	)
	if err != nil {
		msg := "error opening quiz database"
		logger.Error(mainCtx, msg, logging.String("path", cfg.DBPath), logging.ErrAttr(err))

		return fmt.Errorf("%s: %w", msg, err)
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "usage: quizdb %s %s\n", args[0], cmd.usage)
	}

	return s.With(mainCtx, func(s *store.QuizStore) error {
		return cmd.run(mainCtx, &env{store: s, stdout: stdout, stderr: stderr}, fs, args[1:])
	})
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: quizdb <command> [flags]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-16s %s\n", name, commands[name].usage)
	}
	_, _ = io.WriteString(w, b.String())
}

// parse parses args and returns the set of flags that were given.
func parse(fs *flag.FlagSet, args []string) (map[string]bool, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		given[f.Name] = true
	})

	return given, nil
}

func require(fs *flag.FlagSet, given map[string]bool, names ...string) error {
	for _, name := range names {
		if !given[name] {
			fs.Usage()

			return fmt.Errorf("%w: -%s is required", ErrUsage, name)
		}
	}

	return nil
}

func noArgs(fs *flag.FlagSet) error {
	if fs.NArg() > 0 {
		fs.Usage()

		return fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}

	return nil
}

func runAddQuestion(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	text := fs.String("text", "", "question text")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "text"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	id, err := e.store.AddQuestion(ctx, *text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "added question %d\n", id)

	return err
}

func runAddAnswers(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	questionID := fs.Int64("question-id", 0, "id of the question")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "question-id"); err != nil {
		return err
	}

	if err = e.store.AddAnswers(ctx, *questionID, fs.Args()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "added answers to question %d\n", *questionID)

	return err
}

func runRemoveQuestion(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "id of the question")
	answersRemoved := fs.Bool("answers-removed", false, "keep the answers table as is")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "id"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	if err = e.store.RemoveQuestion(ctx, *id, *answersRemoved); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "removed question %d\n", *id)

	return err
}

func runRemoveAnswer(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "id of the answer set")
	questionID := fs.Int64("question-id", 0, "id of the question")
	questionRemoved := fs.Bool("question-removed", false, "do not offer to remove the question")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := noArgs(fs); err != nil {
		return err
	}

	err := e.store.RemoveAnswer(ctx, quiz.AnswerRemoval{
		AnswerID:               *id,
		QuestionID:             *questionID,
		QuestionAlreadyRemoved: *questionRemoved,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, "removed answers")

	return err
}

func runUpdateQuestion(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "id of the question")
	text := fs.String("text", "", "new question text")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "id", "text"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	if err = e.store.UpdateQuestion(ctx, *id, *text); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "updated question %d\n", *id)

	return err
}

func runUpdateAnswers(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "id of the answer set")
	questionID := fs.Int64("question-id", 0, "id of the question")
	a := fs.String("a", "", "new correct answer")
	b := fs.String("b", "", "new answer b")
	c := fs.String("c", "", "new answer c")
	d := fs.String("d", "", "new answer d")
	match := fs.String("match", string(quiz.MatchByID), "column to match on: id or question_id")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	u := quiz.AnswerUpdate{MatchBy: quiz.MatchColumn(*match)}
	if given["id"] {
		u.ID = id
	}
	if given["question-id"] {
		u.QuestionID = questionID
	}
	if given["a"] {
		u.AnswerA = a
	}
	if given["b"] {
		u.AnswerB = b
	}
	if given["c"] {
		u.AnswerC = c
	}
	if given["d"] {
		u.AnswerD = d
	}

	if err = e.store.UpdateAnswers(ctx, u); err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, "updated answers")

	return err
}

func runGet(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "id of the question")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "id"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	q, err := e.store.GetQuestion(ctx, *id)
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s\n", q.ID, q.Text)

	answers, err := e.store.GetAnswers(ctx, *id)
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		b.WriteString("  (no answers)\n")
	case err != nil:
		return err
	default:
		for i, answer := range answers.Answers() {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s %c) %s\n", marker, 'a'+i, answer)
		}
	}
	_, err = io.WriteString(e.stdout, b.String())

	return err
}

func runDisplay(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	table := fs.String("table", "", "table to display")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "table"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	out, err := e.store.DisplayTable(ctx, *table)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, out)

	return err
}

func runClear(ctx context.Context, e *env, fs *flag.FlagSet, args []string) error {
	table := fs.String("table", "", "table to clear")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "table"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	if err = e.store.ClearTable(ctx, *table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "cleared %s\n", *table)

	return err
}

func runImport(ctx context.Context, e *env, fs *flag.FlagSet, args []string) (err error) {
	path := fs.String("file", "", "YAML file with questions and answers")
	given, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err = require(fs, given, "file"); err != nil {
		return err
	}
	if err = noArgs(fs); err != nil {
		return err
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("error opening quiz file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	qf, err := quizfile.Decode(f)
	if err != nil {
		return err
	}
	ids, err := quizfile.Import(ctx, e.store, qf)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "imported %d questions\n", len(ids))

	return err
}
