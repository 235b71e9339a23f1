//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/texlog"
	"github.com/farcloser/texlog/internal/integration/texengine"
)

var errRunArgs = errors.New("expected exactly one argument: TeX document path")

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Compile a TeX document and report the errors and warnings of its log",
		ArgsUsage: "<file.tex>",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:    "engine",
				Aliases: []string{"e"},
				Usage:   "TeX engine to run (default: first found of " + strings.Join(texengine.Engines, ", ") + ")",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errRunArgs, cmd.NArg())
			}

			conf, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			texPath := cmd.Args().First()
			if _, err := os.Stat(texPath); err != nil {
				return fmt.Errorf("cannot access %s: %w", texPath, err)
			}

			logPath, err := texengine.Compile(ctx, cmd.String("engine"), texPath)
			if err != nil {
				return fmt.Errorf("compiling %s: %w", texPath, err)
			}

			result, err := texlog.Analyze(logPath, conf.options)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return report(logPath, result, conf)
		},
	}
}
