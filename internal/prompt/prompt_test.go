package prompt_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starquake/quizdb/internal/prompt"
	"github.com/starquake/quizdb/internal/quiz"
)

var _ quiz.Confirmer = (*prompt.Confirmer)(nil)

func TestConfirmer_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr error
		prompts int
	}{
		{name: "yes", input: "yes\n", want: true, prompts: 1},
		{name: "no", input: "no\n", want: false, prompts: 1},
		{name: "case and space", input: "  YeS \n", want: true, prompts: 1},
		{name: "retry until valid", input: "maybe\ny\nno\n", want: false, prompts: 3},
		{name: "no trailing newline", input: "yes", want: true, prompts: 1},
		{name: "end of input", input: "", wantErr: prompt.ErrNoAnswer, prompts: 1},
		{name: "end of input after invalid", input: "what\n", wantErr: prompt.ErrNoAnswer, prompts: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			c := prompt.NewConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(t.Context(), "Remove? ")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if n := strings.Count(out.String(), "Remove? "); n != tt.prompts {
				t.Errorf("prompted %d times, want %d; output %q", n, tt.prompts, out.String())
			}
		})
	}
}

func TestConfirmer_Confirm_Retry(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := prompt.NewConfirmer(strings.NewReader("sure\nyes\n"), &out)

	if _, err := c.Confirm(t.Context(), "Remove? "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Please answer 'Yes' or 'No'."; !strings.Contains(out.String(), want) {
		t.Errorf("output %q, want it to contain %q", out.String(), want)
	}
}

func TestConfirmer_Confirm_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	c := prompt.NewConfirmer(strings.NewReader("yes\n"), &bytes.Buffer{})
	if _, err := c.Confirm(ctx, "Remove? "); !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want %v", err, context.Canceled)
	}
}
