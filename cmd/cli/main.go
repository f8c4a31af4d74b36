package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/waitgate/internal/app"
	"github.com/vk/waitgate/internal/cli"
	"github.com/vk/waitgate/internal/execer"
)

// main is the entrypoint for the waitgate binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes. On a
	// successful gate the process image is replaced and neither run nor
	// main ever returns.
	if err := run(os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. All gate output goes to outW; stdout stays untouched for the
// command the gate hands over to.
func run(outW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	gate, err := app.NewApp(outW, config)
	if err != nil {
		return &cli.ExitError{Code: cli.CodeUsage, Message: err.Error()}
	}

	// A termination signal must interrupt an in-flight attempt or sleep
	// promptly; NotifyContext cancels the wait context for us.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gate.Run(ctx); err != nil {
		if errors.Is(err, execer.ErrExecFailed) {
			return &cli.ExitError{Code: cli.CodeExecFailed, Message: err.Error()}
		}
		return &cli.ExitError{Code: cli.CodeUnreachable, Message: err.Error()}
	}
	return nil
}
