package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// exitCancelled is the conventional exit status after SIGINT.
const exitCancelled = 130

// Main runs a command line with a context cancelled on SIGINT/SIGTERM and
// exits with its code. No arguments means help.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	// A run cut short by a signal never reports success.
	if ctx.Err() != nil && code == 0 {
		code = exitCancelled
	}

	stop()
	os.Exit(code)
}
