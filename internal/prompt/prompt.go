// Package prompt asks the user yes/no questions on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoAnswer is returned when the input ends before a yes or no was given.
var ErrNoAnswer = errors.New("no answer given")

// retryMessage is written after an answer that is neither yes nor no.
const retryMessage = "Please answer 'Yes' or 'No'."

// Confirmer reads yes/no answers line by line from an input.
type Confirmer struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConfirmer returns a Confirmer reading answers from in and writing prompts to out.
func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewScanner(in), out: out}
}

// Confirm writes message and reads lines until one is "yes" or "no", ignoring case and surrounding space.
func (c *Confirmer) Confirm(ctx context.Context, message string) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, fmt.Errorf("confirmation canceled: %w", err)
		}
		if _, err := io.WriteString(c.out, message); err != nil {
			return false, fmt.Errorf("error writing prompt: %w", err)
		}

		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return false, fmt.Errorf("error reading answer: %w", err)
			}

			return false, ErrNoAnswer
		}

		switch strings.ToLower(strings.TrimSpace(c.in.Text())) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}

		if _, err := fmt.Fprintln(c.out, retryMessage); err != nil {
			return false, fmt.Errorf("error writing prompt: %w", err)
		}
	}
}
