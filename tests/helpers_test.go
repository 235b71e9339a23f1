package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// exitErrorsFound is the status texlog exits with when the log reported errors.
const exitErrorsFound = 2

const banner = "This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)\n"

// Logs used across tests. Each starts with a pdfTeX banner so lines wrap at 79.
const (
	cleanLog = banner + `entering extended mode
(./main.tex
LaTeX2e <2022-11-01>
(/usr/share/texlive/texmf-dist/tex/latex/base/article.cls
Document Class: article 2022/07/02 v1.4n Standard LaTeX document class
) [1] (./main.aux) )
Output written on main.pdf (1 page, 12345 bytes).
`

	warningLog = banner + `(./main.tex
LaTeX Warning: Citation ` + "`knuth84'" + ` on page 1 undefined on input line 12.

Overfull \hbox (12.0pt too wide) in paragraph at lines 20--22
[]\OT1/cmr/m/n/10 Some text|

Package hyperref Warning: Token not allowed in a PDF string (Unicode):
(hyperref)                removing ` + "`\\textbf'" + ` on input line 30.

) [1]
Output written on main.pdf (1 page, 12345 bytes).
`

	errorLog = banner + `(./main.tex
(./chapter.tex
./chapter.tex:7: Undefined control sequence.
l.7 \foo
        
The control sequence at the end of the top line
of your error message was never \def'ed.

)
LaTeX Warning: There were undefined references.
)
`

	noPagesLog = banner + `(./main.tex )
No pages of output.
Transcript written on main.log.
`
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output does not contain a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectFirstLine returns a comparator verifying the first line of output.
func expectFirstLine(line string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		first, _, _ := strings.Cut(stdout, "\n")
		if first != line {
			testing.Log(fmt.Sprintf("expected first line %q, got %q in output:\n%s", line, first, stdout))
			testing.Fail()
		}
	}
}

// expectOrder returns a comparator verifying that the substrings appear in this order.
func expectOrder(substrs ...string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		rest := stdout

		for _, substr := range substrs {
			idx := strings.Index(rest, substr)
			if idx < 0 {
				testing.Log(fmt.Sprintf("expected %q (in order %q) not found in output:\n%s", substr, substrs, stdout))
				testing.Fail()

				return
			}

			rest = rest[idx+len(substr):]
		}
	}
}

// saveLog stores content as a log in the test's temporary directory and remembers its path.
func saveLog(content string, name string) func(data test.Data, helpers test.Helpers) {
	return func(data test.Data, _ test.Helpers) {
		data.Labels().Set("log", data.Temp().Save(content, name))
	}
}
