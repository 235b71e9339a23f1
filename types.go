package texlog

import (
	"maps"
	"slices"

	"github.com/farcloser/texlog/internal/lines"
	"github.com/farcloser/texlog/internal/markup"
	"github.com/farcloser/texlog/internal/types"
)

// ErrUnsupportedRevision is returned when the log comes from an engine revision whose line
// wrapping texlog does not know. It is the only fatal analysis outcome.
var ErrUnsupportedRevision = lines.ErrUnsupportedRevision

// NotTeXMessage is the only message reported for input that is not a TeX log.
const NotTeXMessage = "This is probably not a TeX log file"

// Options configures the analysis.
type Options struct {
	// Skip suppresses every warning containing one of these substrings (case sensitive).
	Skip []string

	// LineWidth overrides the wrap column detected from the banner (0 = auto).
	// Setting it also bypasses the engine revision check.
	LineWidth int

	// Exists replaces the filesystem check used to disambiguate wrapped filenames.
	Exists func(path string) bool

	// SkipBibliography disables merging the companion .blg log.
	SkipBibliography bool
}

// DefaultOptions returns options detecting everything from the log itself.
func DefaultOptions() Options {
	return Options{}
}

// Result is the outcome of analyzing one log.
type Result struct {
	// ErrorFile is the file open when the first error occurred, empty when there was none.
	ErrorFile string
	// ErrorLine is the source line from the error's "l.<N>" context, 0 when unknown.
	ErrorLine int
	// ErrorSource is the source fragment following "l.<N>".
	ErrorSource string

	Errors   int
	Warnings int

	// Messages maps a file to its messages in detection order. The "" key holds the summary.
	// Empty for a clean log.
	Messages map[string][]markup.Text

	Engine        string
	LineWidth     int
	RepairedLines int
	// NotTeX is set when the input did not start with an engine banner.
	NotTeX bool
	// Bibliography is the companion log that was merged, if any.
	Bibliography string
}

// Clean reports whether neither errors nor warnings were found.
func (r *Result) Clean() bool {
	return r.Errors == 0 && r.Warnings == 0
}

// Files returns the message keys in print order: sorted, then reversed, so named files come
// last-to-first and the "" summary key is last.
func (r *Result) Files() []string {
	return types.PrintOrder(slices.Collect(maps.Keys(r.Messages)))
}
