package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/gdmcv/internal/app"
	"github.com/vk/gdmcv/internal/cli"
	"github.com/vk/gdmcv/internal/command"
)

// main is the entrypoint for the gdmcv application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:], command.NewExecExecutor()); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stdout, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string, executor command.Executor) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	gdmcvApp := app.NewApp(outW, appConfig, executor)
	res, err := gdmcvApp.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(outW, "Pipeline completed, final output file: %s\n", res.Layout.FilteredFasta)
	return nil
}
