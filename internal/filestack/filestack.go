// Package filestack follows which input file TeX is reading from the parentheses it prints.
package filestack

import (
	"regexp"

	"github.com/farcloser/texlog/internal/types"
)

//nolint:gochecknoglobals
var (
	// A parenthesized run without whitespace is either inline metadata like "(ext4)" or a file
	// opened and closed in place; neither changes the nesting.
	emptyParens = regexp.MustCompile(`\(\)`)
	inlineParen = regexp.MustCompile(`\([^\s()]*\)`)
	token       = regexp.MustCompile(`\(([^\s()]+)|\)`)
)

// Stack is the ordered set of open files, innermost last. The root sentinel is never popped.
type Stack struct {
	files []string
}

// New returns a stack holding only the root.
func New() *Stack {
	return &Stack{files: []string{types.Root}}
}

// Top returns the innermost open file, or the root.
func (s *Stack) Top() string {
	return s.files[len(s.files)-1]
}

// Depth returns the number of open files, root excluded.
func (s *Stack) Depth() int {
	return len(s.files) - 1
}

// Push opens file.
func (s *Stack) Push(file string) {
	s.files = append(s.files, file)
}

// Pop closes the innermost file. It is a no-op when only the root remains.
func (s *Stack) Pop() {
	if len(s.files) > 1 {
		s.files = s.files[:len(s.files)-1]
	}
}

// Track scans a content line, pushing "(name" tokens and popping on ")".
// Every opened file gets an entry in table.
func (s *Stack) Track(line string, table *types.MessageTable) {
	line = emptyParens.ReplaceAllString(line, "")
	line = inlineParen.ReplaceAllString(line, "")

	for _, match := range token.FindAllStringSubmatch(line, -1) {
		if match[0] == ")" {
			s.Pop()

			continue
		}

		s.Push(match[1])
		table.Ensure(match[1])
	}
}
