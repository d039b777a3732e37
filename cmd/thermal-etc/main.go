package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitError carries a specific process exit code. The message has already
// been shown to the user when it is returned.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it against args. It is separate
// from main so tests can drive the CLI without exiting the process.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(expandShortAliases(args))
	return cmd.ExecuteContext(ctx)
}
