// Package classify sorts a logical log line into the category that decides where it is routed.
package classify

import (
	"regexp"
	"strings"
)

// Kind is the category of a line.
type Kind int

const (
	Content Kind = iota
	Blank
	Noise
	WarningHeader
	Overfull
	MissingCharacter
	NoOutput
	Statistics
)

func (k Kind) String() string {
	switch k {
	case Content:
		return "content"
	case Blank:
		return "blank"
	case Noise:
		return "noise"
	case WarningHeader:
		return "warning-header"
	case Overfull:
		return "overfull"
	case MissingCharacter:
		return "missing-character"
	case NoOutput:
		return "no-output"
	case Statistics:
		return "statistics"
	}

	return "unknown"
}

// IsWarning reports whether the kind is recorded as a warning.
func (k Kind) IsWarning() bool {
	return k == WarningHeader || k == Overfull || k == MissingCharacter || k == NoOutput
}

// Class is the outcome of classifying a line.
type Class struct {
	Kind Kind
	// Name is the package, class or category named by a warning header, used to match
	// "(name)" continuation prefixes. Empty for plain "LaTeX Warning:".
	Name string
}

//nolint:gochecknoglobals
var (
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^LaTeX Font Info:`),
		regexp.MustCompile(`^\s*\(Font\)`),
		regexp.MustCompile(`^File: `),
	}
	warningHeader = regexp.MustCompile(`^(?:Class|Package|LaTeX|\S+ LaTeX)(?: (\S+))? [wW]arning:`)
)

// Line classifies one logical line. First match wins.
func Line(text string) Class {
	switch {
	case strings.TrimSpace(text) == "":
		return Class{Kind: Blank}
	case isNoise(text):
		return Class{Kind: Noise}
	}

	if match := warningHeader.FindStringSubmatch(text); match != nil {
		return Class{Kind: WarningHeader, Name: match[1]}
	}

	switch {
	case strings.HasPrefix(text, `Overfull \hbox`):
		return Class{Kind: Overfull}
	case strings.HasPrefix(text, "Missing character:"):
		return Class{Kind: MissingCharacter}
	case strings.HasPrefix(text, "No pages of output"):
		return Class{Kind: NoOutput}
	case strings.HasPrefix(text, "Here is how much of "):
		return Class{Kind: Statistics}
	}

	return Class{Kind: Content}
}

func isNoise(text string) bool {
	for _, pattern := range noisePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	return false
}
