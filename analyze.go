package texlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/texlog/internal/audit/bibliography"
	"github.com/farcloser/texlog/internal/audit/locator"
	"github.com/farcloser/texlog/internal/audit/warning"
	"github.com/farcloser/texlog/internal/classify"
	"github.com/farcloser/texlog/internal/filestack"
	"github.com/farcloser/texlog/internal/lines"
	"github.com/farcloser/texlog/internal/markup"
	"github.com/farcloser/texlog/internal/types"
)

/*
Usage:

result, err := texlog.Analyze("build/main.log", texlog.DefaultOptions())
if err != nil {
    // only unsupported engine revisions and I/O failures end up here
}

if result.ErrorFile != "" {
    fmt.Printf("%s:%d\n", result.ErrorFile, result.ErrorLine)
}

// Suppress noisy warnings
opts := texlog.DefaultOptions()
opts.Skip = []string{"Font shape", "Marginpar on page"}
result, err := texlog.Analyze("main.log", opts)

for _, file := range result.Files() {
    for _, msg := range result.Messages[file] {
        fmt.Println(msg.String())
    }
}

*/

const noPagesMessage = "No pages of output - is your text body empty?"

// Analyze parses the TeX log at path.
func Analyze(path string, opts Options) (*Result, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified logs
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer file.Close()

	return AnalyzeReader(file, path, opts)
}

// AnalyzeReader parses a TeX log read from r. path locates the companion .blg log and anchors
// relative filenames while unwrapping.
//
//nolint:funlen
func AnalyzeReader(r io.Reader, path string, opts Options) (*Result, error) {
	slog.Debug("texlog.Analyze", "path", path, "stage", "start")

	physical, err := lines.ReadPhysical(r)
	if err != nil {
		return nil, err
	}

	if len(physical) == 0 {
		return notTeX(), nil
	}

	banner, ok := lines.ParseBanner(physical[0])
	if !ok {
		slog.Debug("texlog.Analyze", "path", path, "stage", "no banner")

		return notTeX(), nil
	}

	width := opts.LineWidth
	if width <= 0 {
		if width, err = banner.Width(); err != nil {
			return nil, err
		}
	}

	unwrapper := &lines.Unwrapper{
		Width:  width,
		Runes:  banner.CountsRunes(),
		Dir:    filepath.Dir(path),
		Exists: opts.Exists,
	}

	cursor := lines.NewCursor(unwrapper.Lines(physical))
	defer cursor.Close()

	// The banner itself carries parentheses that are not files.
	cursor.Next()

	scan := newPass(types.SkipList(opts.Skip))
	scan.run(cursor)

	slog.Debug("texlog.Analyze", "path", path, "stage", "scanned", "errors", scan.counts.Errors, "warnings", scan.counts.Warnings)

	// The scan stops after the first error's context; the remainder is only searched for the
	// empty-document symptom.
	for _, line := range cursor.Rest() {
		if strings.HasPrefix(line.Text, "No pages of output.") {
			scan.warnings.Single(noPagesMessage, scan.stack.Top())

			break
		}
	}

	result := &Result{
		Engine:    banner.Engine,
		LineWidth: width,
	}

	if !opts.SkipBibliography {
		blg := bibliography.CompanionPath(path)

		merged, err := bibliography.Merge(blg, scan.table, &scan.counts)
		if err != nil {
			slog.Warn("skipping bibliography log", "path", blg, "error", err)
		}

		if merged {
			result.Bibliography = blg
		}
	}

	location := scan.locator.Location()
	if location.Found && location.File != types.Root {
		scan.table.Append(location.File, markup.New(
			markup.Raw("file: "), markup.Tag(location.File, markup.Filename),
		))
		scan.table.Append(location.File, markup.New(
			markup.Raw("line "), markup.Tag(fmt.Sprint(location.Line), markup.LineNumber),
			markup.Raw(": "+location.Source),
		))
	}

	result.Errors = scan.counts.Errors
	result.Warnings = scan.counts.Warnings
	result.RepairedLines = unwrapper.RepairedLines()
	result.Messages = map[string][]markup.Text{}

	if scan.counts.Clean() {
		slog.Debug("texlog.Analyze", "path", path, "stage", "clean")

		return result, nil
	}

	scan.table.Append(types.Root, scan.counts.Summary())
	scan.table.Prune()

	result.Messages = scan.table.Map()

	if location.Found {
		result.ErrorFile = location.File
		result.ErrorLine = location.Line
		result.ErrorSource = location.Source
	}

	return result, nil
}

func notTeX() *Result {
	return &Result{
		NotTeX: true,
		Messages: map[string][]markup.Text{
			types.Root: {markup.New(markup.Raw(NotTeXMessage))},
		},
	}
}

// pass is the state of one forward scan over the main log.
type pass struct {
	table    *types.MessageTable
	counts   types.Counts
	stack    *filestack.Stack
	warnings *warning.Collector
	locator  *locator.Locator
}

func newPass(skip types.SkipList) *pass {
	scan := &pass{
		table: types.NewMessageTable(),
		stack: filestack.New(),
	}

	scan.warnings = warning.New(skip, scan.table, &scan.counts)
	scan.locator = locator.New(scan.table, &scan.counts)

	return scan
}

func (p *pass) run(cursor *lines.Cursor) {
	for {
		line, ok := cursor.Next()
		if !ok {
			return
		}

		class := classify.Line(line.Text)

		switch class.Kind {
		case classify.Blank, classify.Noise:
		case classify.WarningHeader:
			p.warnings.Header(line.Text, class.Name, cursor, p.stack.Top())
		case classify.Overfull, classify.MissingCharacter, classify.NoOutput:
			p.warnings.Single(line.Text, p.stack.Top())
		case classify.Statistics:
			skipIndented(cursor)
		case classify.Content:
			if !p.locator.Found() {
				p.stack.Track(line.Text, p.table)
			}

			p.locator.Feed(line.Text, p.stack.Top())

			if p.locator.Done() {
				return
			}
		}
	}
}

// skipIndented drops the engine statistics block: every following line starting with whitespace.
func skipIndented(cursor *lines.Cursor) {
	for {
		line, ok := cursor.Next()
		if !ok {
			return
		}

		if line.Text == "" || (line.Text[0] != ' ' && line.Text[0] != '\t') {
			cursor.Pushback()

			return
		}
	}
}
