// Package markup tags message fragments with a semantic category and renders them
// to plain text, ANSI escapes or HTML at the output boundary.
package markup

import (
	"regexp"
	"strings"
)

// Category classifies a fragment for rendering.
type Category int

const (
	None Category = iota
	Error
	LineNumber
	Filename
	Warning
)

func (c Category) String() string {
	switch c {
	case None:
		return "none"
	case Error:
		return "error"
	case LineNumber:
		return "line-number"
	case Filename:
		return "filename"
	case Warning:
		return "warning"
	}

	return "unknown"
}

// Fragment is a piece of text with its category.
type Fragment struct {
	Text     string
	Category Category
}

// Text is an ordered sequence of fragments forming one message.
type Text []Fragment

// Tag annotates text with a category.
func Tag(text string, category Category) Fragment {
	return Fragment{Text: text, Category: category}
}

// Raw is an untagged fragment.
func Raw(text string) Fragment {
	return Fragment{Text: text}
}

// New assembles a message from fragments, dropping empty ones.
func New(fragments ...Fragment) Text {
	out := make(Text, 0, len(fragments))

	for _, f := range fragments {
		if f.Text != "" {
			out = append(out, f)
		}
	}

	return out
}

// String returns the message without any markup.
func (t Text) String() string {
	var sb strings.Builder

	for _, f := range t {
		sb.WriteString(f.Text)
	}

	return sb.String()
}

//nolint:gochecknoglobals
var warningWord = regexp.MustCompile(`[wW]arning|Overfull \\[hv]box|Underfull \\[hv]box|Missing character|No pages of output`)

// MarkWarning tags the first warning keyword found in line.
func MarkWarning(line string) Text {
	loc := warningWord.FindStringIndex(line)
	if loc == nil {
		return New(Raw(line))
	}

	return New(
		Raw(line[:loc[0]]),
		Tag(line[loc[0]:loc[1]], Warning),
		Raw(line[loc[1]:]),
	)
}

// MarkError tags a whole line as an error.
func MarkError(line string) Text {
	return New(Tag(line, Error))
}
