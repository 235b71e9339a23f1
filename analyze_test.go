package texlog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const banner = "This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)"

func noFiles(string) bool { return false }

func analyze(t *testing.T, log string, opts Options) *Result {
	t.Helper()

	if opts.Exists == nil {
		opts.Exists = noFiles
	}

	path := filepath.Join(t.TempDir(), "main.log")

	result, err := AnalyzeReader(strings.NewReader(log), path, opts)
	if err != nil {
		t.Fatalf("AnalyzeReader returned error: %v", err)
	}

	return result
}

func messages(result *Result, file string) []string {
	out := make([]string, 0, len(result.Messages[file]))
	for _, msg := range result.Messages[file] {
		out = append(out, msg.String())
	}

	return out
}

func logOf(body ...string) string {
	return banner + "\n" + strings.Join(body, "\n") + "\n"
}

func TestAnalyze_NotATeXLog(t *testing.T) {
	result := analyze(t, "Hello, this is a grocery list\n(eggs)\n", DefaultOptions())

	if !result.NotTeX || result.ErrorFile != "" || result.ErrorLine != 0 {
		t.Fatalf("result = %+v", result)
	}
	if got := messages(result, ""); len(got) != 1 || got[0] != NotTeXMessage {
		t.Fatalf("messages = %q", got)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("Messages has %d keys, want only the root", len(result.Messages))
	}
}

func TestAnalyze_EmptyInputIsNotATeXLog(t *testing.T) {
	if result := analyze(t, "", DefaultOptions()); !result.NotTeX {
		t.Fatalf("empty input was accepted as a TeX log")
	}
}

func TestAnalyze_CleanLog(t *testing.T) {
	result := analyze(t, logOf(
		"entering extended mode",
		"(./main.tex",
		"LaTeX2e <2023-06-01> patch level 1",
		"(/usr/share/texmf/tex/latex/base/article.cls",
		"Document Class: article 2023/05/17 v1.4n Standard LaTeX document class",
		"File: size10.clo 2023/05/17 v1.4n Standard LaTeX file (size option)",
		")",
		"LaTeX Font Info:    Trying to load font information for OT1+cmr on input line 3.",
		"[1{/var/lib/texmf/fonts/map/pdftex/updmap/pdftex.map}] (./main.aux) )",
		"Output written on main.pdf (1 page, 12345 bytes).",
	), DefaultOptions())

	if !result.Clean() || len(result.Messages) != 0 || result.ErrorFile != "" {
		t.Fatalf("clean log produced %+v", result)
	}
}

func TestAnalyze_OverfullBox(t *testing.T) {
	result := analyze(t, logOf(
		"(./main.tex",
		`Overfull \hbox (15.0pt too wide) in paragraph at lines 10--11`,
		`[]\OT1/cmr/m/n/10 text`,
		"",
		")",
	), DefaultOptions())

	if result.Warnings != 1 || result.Errors != 0 {
		t.Fatalf("counts = %d errors %d warnings", result.Errors, result.Warnings)
	}

	got := messages(result, "./main.tex")
	if len(got) != 1 || !strings.HasPrefix(got[0], `Overfull \hbox`) {
		t.Fatalf("./main.tex messages = %q", got)
	}
	if summary := messages(result, ""); len(summary) != 1 || summary[0] != "1 warning" {
		t.Fatalf("summary = %q", summary)
	}
	if result.ErrorFile != "" {
		t.Fatalf("ErrorFile = %q for a warning-only log", result.ErrorFile)
	}
}

func TestAnalyze_FirstErrorLocation(t *testing.T) {
	result := analyze(t, logOf(
		"(./main.tex",
		"(./chapter.tex",
		"! Undefined control sequence.",
		`l.42 \foo`,
		"          bar",
		"! Missing $ inserted.",
		"<inserted text>",
		"l.57 x^2",
	), DefaultOptions())

	if result.ErrorLine != 42 || result.ErrorFile != "./chapter.tex" || result.ErrorSource != `\foo` {
		t.Fatalf("location = %q:%d %q", result.ErrorFile, result.ErrorLine, result.ErrorSource)
	}
	if result.Errors != 2 {
		t.Fatalf("Errors = %d, want 2", result.Errors)
	}

	got := messages(result, "./chapter.tex")
	if got[0] != "! Undefined control sequence." {
		t.Fatalf("first message = %q", got[0])
	}
	if got[len(got)-2] != "file: ./chapter.tex" || got[len(got)-1] != `line 42: \foo` {
		t.Fatalf("trailer = %q", got[len(got)-2:])
	}
	if summary := messages(result, ""); summary[0] != "2 errors" {
		t.Fatalf("summary = %q", summary)
	}
	if _, ok := result.Messages["./main.tex"]; ok {
		t.Fatalf("empty ./main.tex entry was not pruned")
	}
}

func TestAnalyze_FileStackFreezesAtFirstError(t *testing.T) {
	result := analyze(t, logOf(
		"(./main.tex",
		"./main.tex:7: Undefined control sequence.",
		"l.7 \\oops",
		") (./later.tex",
		"Overfull \\hbox (1.0pt too wide) in paragraph at lines 1--2",
	), DefaultOptions())

	if result.ErrorFile != "./main.tex" || result.ErrorLine != 7 {
		t.Fatalf("location = %q:%d", result.ErrorFile, result.ErrorLine)
	}
	if _, ok := result.Messages["./later.tex"]; ok {
		t.Fatalf("files opened after the error must not be tracked")
	}
	if got := messages(result, "./main.tex"); !strings.HasPrefix(got[len(got)-3], "Overfull") {
		t.Fatalf("warning after the error not attributed to the error file: %q", got)
	}
}

func TestAnalyze_MultiLineWarning(t *testing.T) {
	result := analyze(t, logOf(
		"(./main.tex",
		"Package natbib Warning: Citation `knuth84' on page 1 undefined",
		"    on input line 12.",
		"(natbib)                Check your bibliography.",
		"",
		")",
	), DefaultOptions())

	got := messages(result, "./main.tex")
	if len(got) != 1 {
		t.Fatalf("got %d messages, want one combined warning: %q", len(got), got)
	}

	want := "Package natbib Warning: Citation `knuth84' on page 1 undefined on input line 12. Check your bibliography."
	if got[0] != want {
		t.Fatalf("message = %q, want %q", got[0], want)
	}
	if result.Warnings != 1 {
		t.Fatalf("Warnings = %d, want 1", result.Warnings)
	}
}

func TestAnalyze_SkipList(t *testing.T) {
	log := logOf(
		"(./main.tex",
		"LaTeX Font Warning: Font shape `OT1/cmr/bx/sc' undefined",
		"(Font)              using `OT1/cmr/bx/n' instead on input line 5.",
		"LaTeX Warning: Reference `fig:a' on page 1 undefined on input line 7.",
		")",
	)

	opts := DefaultOptions()
	opts.Skip = []string{"instead on input"}

	result := analyze(t, log, opts)

	if result.Warnings != 1 {
		t.Fatalf("Warnings = %d, want 1", result.Warnings)
	}

	for _, msg := range messages(result, "./main.tex") {
		if strings.Contains(msg, "Font shape") {
			t.Fatalf("suppressed warning recorded: %q", msg)
		}
	}

	opts.Skip = []string{"INSTEAD ON INPUT"}
	if result := analyze(t, log, opts); result.Warnings != 2 {
		t.Fatalf("skip list must be case sensitive, Warnings = %d", result.Warnings)
	}
}

func TestAnalyze_StatisticsBlockIsDropped(t *testing.T) {
	result := analyze(t, logOf(
		"(./main.tex )",
		"Here is how much of TeX's memory you used:",
		" 3 strings out of 478287",
		" 50 string characters out of 5849324",
		"     (mutable) words of memory out of 5000000",
		"! Emergency stop.",
	), DefaultOptions())

	if result.Errors != 1 {
		t.Fatalf("Errors = %d, want 1", result.Errors)
	}

	for _, msg := range messages(result, "") {
		if strings.Contains(msg, "strings out of") {
			t.Fatalf("statistics leaked into messages: %q", msg)
		}
	}
}

func TestAnalyze_NoPagesOfOutput(t *testing.T) {
	result := analyze(t, logOf(
		"(./main.tex",
		")",
		"No pages of output.",
	), DefaultOptions())

	if result.Warnings != 1 {
		t.Fatalf("Warnings = %d, want 1", result.Warnings)
	}
	if got := messages(result, ""); got[0] != "No pages of output." {
		t.Fatalf("messages = %q", got)
	}
}

func TestAnalyze_NoPagesAfterErrorCapture(t *testing.T) {
	body := []string{"(./main.tex", "! Undefined control sequence.", `l.3 \x`}
	for i := range 30 {
		body = append(body, fmt.Sprintf("context line %d", i))
	}

	body = append(body, "No pages of output.")

	result := analyze(t, logOf(body...), DefaultOptions())

	if result.Warnings != 1 {
		t.Fatalf("Warnings = %d, want the synthetic no-output warning", result.Warnings)
	}

	got := messages(result, "./main.tex")

	found := false
	for _, msg := range got {
		if msg == noPagesMessage {
			found = true
		}
	}

	if !found {
		t.Fatalf("synthetic warning missing from %q", got)
	}
}

func TestAnalyze_InvalidEncoding(t *testing.T) {
	var sink bytes.Buffer

	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&sink, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	result := analyze(t, logOf(
		"(./main.tex",
		"Overfull \\hbox in paragraph with caf\xe9",
		"LaTeX Warning: \xff\xfe broken",
		")",
	), DefaultOptions())

	if result.RepairedLines != 2 {
		t.Fatalf("RepairedLines = %d, want 2", result.RepairedLines)
	}
	if n := strings.Count(sink.String(), "repaired invalid encoding"); n != 2 {
		t.Fatalf("side channel notices = %d, want 2:\n%s", n, sink.String())
	}
	if result.Warnings != 2 {
		t.Fatalf("Warnings = %d, want 2", result.Warnings)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	log := logOf(
		"(./main.tex",
		"Package hyperref Warning: Token not allowed",
		"(hyperref)                removing `math shift'.",
		"! Undefined control sequence.",
		`l.9 \broken`,
	)

	first := analyze(t, log, DefaultOptions())
	second := analyze(t, log, DefaultOptions())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestAnalyze_UnsupportedRevision(t *testing.T) {
	log := "This is LuaTeX, Version beta-0.80.0 (rev 5238)\n(./main.tex)\n"

	_, err := AnalyzeReader(strings.NewReader(log), "main.log", Options{Exists: noFiles})
	if !errors.Is(err, ErrUnsupportedRevision) {
		t.Fatalf("err = %v, want ErrUnsupportedRevision", err)
	}

	// An explicit width means the operator vouches for it.
	if _, err := AnalyzeReader(strings.NewReader(log), "main.log", Options{LineWidth: 80, Exists: noFiles}); err != nil {
		t.Fatalf("explicit width still failed: %v", err)
	}
}

func TestAnalyze_WrappedFilename(t *testing.T) {
	long := "(./" + strings.Repeat("d", 40) + "/" + strings.Repeat("f", 50) + ".tex"
	first, second := long[:79], long[79:]

	result := analyze(t, logOf(
		first,
		second,
		"! Undefined control sequence.",
		"l.1 \\x",
	), Options{Exists: func(p string) bool { return p == long[1:] }})

	if result.ErrorFile != long[1:] {
		t.Fatalf("ErrorFile = %q, want the reassembled %q", result.ErrorFile, long[1:])
	}
}

func TestAnalyze_BibliographyMerge(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "main.log")
	blgPath := filepath.Join(dir, "main.blg")

	if err := os.WriteFile(logPath, []byte(logOf("(./main.tex )")), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	blg := strings.Join([]string{
		"This is BibTeX, Version 0.99d (TeX Live 2023)",
		"The style file: plain.bst",
		"Database file #1: refs.bib",
		"I was expecting a `,' or a `}'---line 3 of file refs.bib",
		"Database file #2: other.bib",
		"Warning--empty journal in x",
		"You've used 1 entry,",
	}, "\n")

	if err := os.WriteFile(blgPath, []byte(blg), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result, err := Analyze(logPath, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Bibliography != blgPath {
		t.Fatalf("Bibliography = %q, want %q", result.Bibliography, blgPath)
	}
	if got := messages(result, "refs.bib"); len(got) != 2 {
		t.Fatalf("refs.bib messages = %q", got)
	}
	if _, ok := result.Messages["other.bib"]; ok {
		t.Fatalf("second database reported")
	}
	if result.Errors != 1 {
		t.Fatalf("Errors = %d, want 1", result.Errors)
	}

	opts := DefaultOptions()
	opts.SkipBibliography = true

	result, err = Analyze(logPath, opts)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if !result.Clean() {
		t.Fatalf("bibliography merged despite SkipBibliography")
	}
}

func TestResult_Files(t *testing.T) {
	result := analyze(t, logOf(
		"(./a.tex",
		"Overfull \\hbox in paragraph",
		") (./b.tex",
		"Overfull \\hbox in paragraph",
		")",
	), DefaultOptions())

	got := result.Files()
	want := []string{"./b.tex", "./a.tex", ""}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Files() = %q, want %q", got, want)
	}
}
