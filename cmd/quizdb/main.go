// Command quizdb manages the questions and answers of a quiz database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/starquake/quizdb/cmd/quizdb/app"
)

func main() {
	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
		if errors.Is(err, app.ErrUsage) || errors.Is(err, app.ErrUnknownCommand) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
