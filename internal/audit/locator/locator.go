// Package locator finds the first TeX error, the source line it points at, and the context
// lines following it.
package locator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/farcloser/texlog/internal/markup"
	"github.com/farcloser/texlog/internal/types"
)

// CaptureBound caps the lines recorded after the first error.
const CaptureBound = 20

//nolint:gochecknoglobals
var lineReference = regexp.MustCompile(`^l\.(\d+)(?:\s(.*))?$`)

// Locator tracks the first error. Later errors are counted but never move the location.
type Locator struct {
	table     *types.MessageTable
	counts    *types.Counts
	location  types.ErrorLocation
	capture   int
	lineFound bool
}

// New returns a locator writing into table and counts.
func New(table *types.MessageTable, counts *types.Counts) *Locator {
	return &Locator{table: table, counts: counts}
}

// Found reports whether an error has been seen.
func (l *Locator) Found() bool {
	return l.location.Found
}

// Done reports whether the context capture for the first error is over.
func (l *Locator) Done() bool {
	return l.location.Found && l.capture == 0
}

// Location returns the first error's position.
func (l *Locator) Location() types.ErrorLocation {
	return l.location
}

// Triggers reports whether line starts an error: either TeX's "!" or the file:line:error form
// for the file currently on top of the stack.
func Triggers(line, top string) bool {
	if strings.HasPrefix(line, "!") {
		return true
	}

	return top != types.Root && strings.HasPrefix(line, top+":")
}

// Feed processes a content line read while top was the current file.
func (l *Locator) Feed(line, top string) {
	trigger := Triggers(line, top)

	if trigger {
		l.counts.Errors++

		if !l.location.Found {
			l.location = types.ErrorLocation{File: top, Found: true}
			l.table.Append(top, markup.MarkError(line))
			l.capture = 1

			return
		}

		// A second error ends the capture for the first one.
		if l.capture > 0 {
			l.capture = CaptureBound
		}
	}

	if l.capture == 0 {
		return
	}

	msg := markup.New(markup.Raw(line))

	switch {
	case trigger:
		msg = markup.MarkError(line)
	case l.capture < CaptureBound && !l.lineFound:
		if ref := lineReference.FindStringSubmatch(line); ref != nil {
			if n, err := strconv.Atoi(ref[1]); err == nil {
				l.location.Line = n
				l.location.Source = ref[2]
				l.lineFound = true
				msg = markup.New(markup.Tag("l."+ref[1], markup.LineNumber), markup.Raw(strings.TrimPrefix(line, "l."+ref[1])))
			}
		}
	}

	l.table.Append(l.location.File, msg)

	l.capture++
	if l.capture > CaptureBound {
		l.capture = 0
	}
}
