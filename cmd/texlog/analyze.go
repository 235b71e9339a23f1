//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/texlog"
)

var errInvalidArgCount = errors.New("expected exactly one argument: log file path or \"-\" for stdin")

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Report the errors and warnings of an existing TeX log",
		ArgsUsage: "<file.log | ->",
		Flags:     commonFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			conf, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			source := cmd.Args().First()
			path := source

			if source == stdinArg {
				spooled, cleanup, err := spoolStdin(os.Stdin)
				if err != nil {
					return err
				}
				defer cleanup()

				path = spooled
				conf.options.Exists = existsInWorkdir
				// A spooled log has no companion bibliography log.
				conf.options.SkipBibliography = true
			} else if _, err := os.Stat(source); err != nil {
				return fmt.Errorf("cannot access %s: %w", source, err)
			}

			result, err := texlog.Analyze(path, conf.options)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return report(source, result, conf)
		},
	}
}
