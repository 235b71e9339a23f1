package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const stdinArg = "-"

// spoolStdin copies standard input to a temporary ".log" file so it can be analyzed like any other
// log. The returned cleanup removes it.
func spoolStdin(in io.Reader) (string, func(), error) {
	tmp, err := os.CreateTemp("", "texlog-*.log")
	if err != nil {
		return "", func() {}, fmt.Errorf("spooling stdin: %w", err)
	}

	cleanup := func() {
		_ = os.Remove(tmp.Name())
	}

	_, copyErr := io.Copy(tmp, in)
	if err := errors.Join(copyErr, tmp.Close()); err != nil {
		cleanup()

		return "", func() {}, fmt.Errorf("spooling stdin: %w", err)
	}

	return tmp.Name(), cleanup, nil
}

// existsInWorkdir resolves wrapped filenames of a spooled log against the working directory
// instead of the temporary directory.
func existsInWorkdir(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
