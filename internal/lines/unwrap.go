// Package lines turns raw TeX log text into logical lines: it undoes the engine's fixed-column
// hard wrapping, repairs invalid encoding, and offers a one-line lookahead cursor.
package lines

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const maxLineSize = 1024 * 1024 // 1MB

//nolint:gochecknoglobals
var (
	openPathPattern = regexp.MustCompile(`\(([^\s()]+)$`)
	pathHeadPattern = regexp.MustCompile(`^[^\s()]+`)
)

// Line is one logical line.
type Line struct {
	Number int    // first physical line, 1-based
	Raw    string // as read, possibly invalid UTF-8
	Text   string // repaired text
}

// Repaired reports whether the encoding had to be fixed.
func (l Line) Repaired() bool {
	return l.Raw != l.Text
}

// ReadPhysical splits r into physical lines, dropping line terminators.
func ReadPhysical(r io.Reader) ([]string, error) {
	var out []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		out = append(out, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	return out, nil
}

// Unwrapper reassembles logical lines from physical ones.
type Unwrapper struct {
	// Width is the column the engine hard-wraps at.
	Width int
	// Runes measures lines in characters instead of bytes.
	Runes bool
	// Dir resolves relative candidate paths. Defaults to the working directory.
	Dir string
	// Exists overrides the filesystem check, mostly for tests.
	Exists func(path string) bool

	repaired int
}

// RepairedLines returns how many logical lines needed an encoding repair so far.
func (u *Unwrapper) RepairedLines() int {
	return u.repaired
}

// Lines lazily yields logical lines. The sequence is single pass.
func (u *Unwrapper) Lines(physical []string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for idx := 0; idx < len(physical); {
			start := idx
			acc := physical[idx]
			last := physical[idx]
			idx++

			for u.length(last) == u.Width && idx < len(physical) {
				if u.pathEnds(acc, physical[idx]) {
					break
				}

				acc += physical[idx]
				last = physical[idx]
				idx++
			}

			if !yield(u.normalize(acc, start+1)) {
				return
			}
		}
	}
}

func (u *Unwrapper) length(s string) int {
	if u.Runes {
		return utf8.RuneCountInString(s)
	}

	return len(s)
}

// pathEnds reports whether acc ends with "(<path>" naming an existing file that extending with
// the head of next would break. Prose that happens to fill the line never satisfies it.
func (u *Unwrapper) pathEnds(acc, next string) bool {
	match := openPathPattern.FindStringSubmatch(acc)
	if match == nil {
		return false
	}

	candidate := match[1]
	if !u.exists(candidate) {
		return false
	}

	return !u.exists(candidate + pathHeadPattern.FindString(next))
}

func (u *Unwrapper) exists(path string) bool {
	if u.Exists != nil {
		return u.Exists(path)
	}

	if !filepath.IsAbs(path) && u.Dir != "" {
		path = filepath.Join(u.Dir, path)
	}

	_, err := os.Stat(path)

	return err == nil
}

func (u *Unwrapper) normalize(raw string, number int) Line {
	line := Line{Number: number, Raw: raw, Text: raw}

	if utf8.ValidString(raw) {
		return line
	}

	repaired, _, err := transform.String(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		repaired = strings.ToValidUTF8(raw, string(utf8.RuneError))
	}

	line.Text = repaired
	u.repaired++

	slog.Warn("repaired invalid encoding", "line", number)

	return line
}
