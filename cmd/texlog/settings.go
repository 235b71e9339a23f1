//nolint:wrapcheck
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/farcloser/texlog"
	"github.com/farcloser/texlog/internal/config"
	"github.com/farcloser/texlog/internal/markup"
)

// errErrorsFound makes the process exit with exitErrorsFound once the report is printed.
var errErrorsFound = errors.New("errors found in log")

const formatText = "text"

// commonFlags are shared by every command that prints a report.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Configuration file (default: $XDG_CONFIG_HOME/texlog/config)",
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "Message markup: auto, plain, ansi, html (default: from config, then auto)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, console, json, markdown",
			Value:   formatText,
		},
		&cli.IntFlag{
			Name:  "max-print-line",
			Usage: "Override the log wrap column detected from the engine banner",
		},
		&cli.StringSliceFlag{
			Name:    "skip",
			Aliases: []string{"s"},
			Usage:   "Suppress warnings containing this text (repeatable, added to the config skip list)",
		},
		&cli.BoolFlag{
			Name:  "no-bibliography",
			Usage: "Do not merge the companion BibTeX log",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"D"},
			Usage:   "Log analysis stages to stderr",
		},
	}
}

// settings is everything a command needs to analyze a log and print the report.
type settings struct {
	options     texlog.Options
	format      string
	renderer    markup.Renderer
	interactive bool
}

func loadSettings(cmd *cli.Command) (settings, error) {
	if cmd.Bool("debug") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return settings{}, err
	}

	opts := texlog.DefaultOptions()
	opts.Skip = append([]string(cfg.Skip()), cmd.StringSlice("skip")...)
	opts.SkipBibliography = cmd.Bool("no-bibliography")

	opts.LineWidth = cfg.MaxPrintLine
	if width := cmd.Int("max-print-line"); width > 0 {
		opts.LineWidth = width
	}

	colorName := cmd.String("color")
	if colorName == "" {
		colorName = cfg.Color
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int

	mode, err := markup.ParseMode(colorName, interactive)
	if err != nil {
		return settings{}, err
	}

	slog.Debug("settings.load", "skip", len(opts.Skip), "width", opts.LineWidth, "color", mode.String())

	return settings{
		options:     opts,
		format:      cmd.String("format"),
		renderer:    markup.NewRenderer(mode),
		interactive: interactive,
	}, nil
}

// report prints result and turns a log with errors into errErrorsFound.
func report(source string, result *texlog.Result, conf settings) error {
	if err := outputResult(os.Stdout, source, result, conf); err != nil {
		return err
	}

	if result.Errors > 0 {
		return errErrorsFound
	}

	return nil
}
