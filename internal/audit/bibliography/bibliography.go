// Package bibliography merges the diagnostics of a BibTeX log (.blg) into the message table,
// attributed to the database file being read when they were printed.
package bibliography

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/farcloser/texlog/internal/lines"
	"github.com/farcloser/texlog/internal/markup"
	"github.com/farcloser/texlog/internal/types"
)

// Extension of the companion bibliography log.
const Extension = ".blg"

//nolint:gochecknoglobals
var database = regexp.MustCompile(`^Database file #\d+: (.+)$`)

const (
	styleMarker = "The style file:"
	endMarker   = "You've used"
	reallocated = "Reallocated"
)

// CompanionPath derives the .blg path from a .log path.
func CompanionPath(logPath string) string {
	return strings.TrimSuffix(logPath, ".log") + Extension
}

// Merge reads the companion log at path, if there is one. It reports whether a file was read.
func Merge(path string, table *types.MessageTable, counts *types.Counts) (bool, error) {
	file, err := os.Open(path) //nolint:gosec // companion of a user-specified log
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	slog.Debug("bibliography.Merge", "path", path)

	return true, MergeReader(file, path, table, counts)
}

// MergeReader scans a BibTeX log. Messages before the first database are attributed to source.
// Only the first database with problems is reported: the scan stops when a new database starts
// while the current one already has messages.
func MergeReader(r io.Reader, source string, table *types.MessageTable, counts *types.Counts) error {
	physical, err := lines.ReadPhysical(r)
	if err != nil {
		return err
	}

	printing := false
	bannered := false
	target := source

	for _, line := range physical {
		switch {
		case strings.TrimSpace(line) == "", strings.Contains(line, reallocated):
			continue
		case strings.HasPrefix(line, styleMarker):
			printing = true

			continue
		case strings.HasPrefix(line, endMarker):
			return nil
		}

		if match := database.FindStringSubmatch(line); match != nil {
			if len(table.Messages(target)) > 0 {
				return nil
			}

			target = strings.TrimSpace(match[1])
			table.Ensure(target)

			continue
		}

		if !printing {
			continue
		}

		if !bannered {
			table.Append(target, markup.New(markup.Raw("BibTeX messages from "), markup.Tag(source, markup.Filename)))
			bannered = true
		}

		counts.Errors++

		if strings.HasPrefix(line, "Warning--") {
			table.Append(target, markup.MarkWarning(line))
		} else {
			table.Append(target, markup.MarkError(line))
		}
	}

	return nil
}
