package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/texlog/version"
)

// Exit status when the log reported at least one error. Warnings alone exit 0.
const exitErrorsFound = 2

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:           version.Name(),
		Usage:          "Extract errors and warnings from TeX logs",
		Version:        version.Version() + " " + version.Commit(),
		DefaultCommand: "analyze",
		Commands: []*cli.Command{
			analyzeCommand(),
			runCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		if errors.Is(err, errErrorsFound) {
			os.Exit(exitErrorsFound)
		}

		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
