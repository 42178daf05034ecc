package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/specialistvlad/burstmatrix/internal/app"
	"github.com/specialistvlad/burstmatrix/internal/cli"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/hcl_adapter"
	"github.com/specialistvlad/burstmatrix/internal/yaml_adapter"
)

// main is the entrypoint for the burstmatrix application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The loader reads from the OS root, so every path is made absolute.
	for i, p := range appConfig.WorkflowPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve workflow path %s: %w", p, err)
		}
		appConfig.WorkflowPaths[i] = abs
	}

	loader := config.NewLoader(osfs.New("/"), hcl_adapter.NewDecoder(), yaml_adapter.NewDecoder())
	burstmatrixApp, err := app.NewApp(outW, errW, appConfig, loader)
	if err != nil {
		return err
	}

	return burstmatrixApp.Run(ctx)
}
