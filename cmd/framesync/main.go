package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"framesync/internal/cli"
)

func main() {
	// A missing .env file is fine; flags and the real environment still apply.
	_ = godotenv.Load()

	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// ExitErrors have already written their diagnostics through the
		// formatter; anything else (flag parse errors, command errors)
		// still needs a line on stderr.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code == cli.ExitCommandError {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
