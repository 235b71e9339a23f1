// Package warning assembles warnings, joining the continuation lines TeX packages emit.
package warning

import (
	"regexp"

	"github.com/farcloser/texlog/internal/lines"
	"github.com/farcloser/texlog/internal/markup"
	"github.com/farcloser/texlog/internal/types"
)

//nolint:gochecknoglobals
var indented = regexp.MustCompile(`^\s{2,}`)

// Collector records warnings that survive the skip list.
type Collector struct {
	skip   types.SkipList
	table  *types.MessageTable
	counts *types.Counts
}

// New returns a collector writing into table and counts.
func New(skip types.SkipList, table *types.MessageTable, counts *types.Counts) *Collector {
	return &Collector{skip: skip, table: table, counts: counts}
}

// Header consumes the continuation lines following a warning header and records the combined
// message under file. The first line that does not continue the warning is pushed back.
// It returns false when the skip list suppressed the warning.
func (c *Collector) Header(header string, name string, cursor *lines.Cursor, file string) bool {
	message := header

	if name != "" {
		prefix := regexp.MustCompile(`^\(` + regexp.QuoteMeta(name) + `\)\s{2,}`)

		for {
			line, ok := cursor.Next()
			if !ok {
				break
			}

			rest, continues := continuation(line.Text, prefix)
			if !continues {
				cursor.Pushback()

				break
			}

			message += " " + rest
		}
	}

	return c.Single(message, file)
}

// Single records a one-line warning under file.
func (c *Collector) Single(message string, file string) bool {
	if c.skip.Matches(message) {
		return false
	}

	c.counts.Warnings++
	c.table.Append(file, markup.MarkWarning(message))

	return true
}

func continuation(text string, prefix *regexp.Regexp) (string, bool) {
	if loc := prefix.FindStringIndex(text); loc != nil {
		return text[loc[1]:], true
	}

	if loc := indented.FindStringIndex(text); loc != nil {
		return text[loc[1]:], true
	}

	return "", false
}
