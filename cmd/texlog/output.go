//nolint:wrapcheck
package main

import (
	"fmt"
	"io"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/texlog"
	"github.com/farcloser/texlog/internal/output"
	"github.com/farcloser/texlog/internal/types"
)

func outputResult(w io.Writer, source string, result *texlog.Result, conf settings) error {
	if conf.format == formatText {
		return printText(w, result, conf)
	}

	formatter, err := format.GetFormatter(conf.format)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: source,
		Meta:   output.ResultToMap(result, conf.renderer),
	}

	return formatter.PrintAll([]*format.Data{data}, w)
}

// printText writes the classic report. When piped, it starts with "<line> <file>" of the first
// error so editors can jump to it.
func printText(w io.Writer, result *texlog.Result, conf settings) error {
	if !conf.interactive && result.ErrorFile != "" {
		if _, err := fmt.Fprintf(w, "%d %s\n", result.ErrorLine, result.ErrorFile); err != nil {
			return err
		}
	}

	for _, file := range result.Files() {
		if file != types.Root {
			if _, err := fmt.Fprintf(w, "Messages for file %s:\n", file); err != nil {
				return err
			}
		}

		for _, msg := range result.Messages[file] {
			if _, err := fmt.Fprintln(w, conf.renderer.Render(msg)); err != nil {
				return err
			}
		}
	}

	return nil
}
