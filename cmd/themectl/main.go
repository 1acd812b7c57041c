// Command themectl resolves, validates and checks ownership of event page
// themes from fixture files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"themeforge/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		// Commands that already reported their failure return a bare ExitError.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
