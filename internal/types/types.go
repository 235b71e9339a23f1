package types

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/farcloser/texlog/internal/markup"
)

// Root is the message table key for global messages and the bottom of the file stack.
const Root = ""

// MessageTable maps a file name to the ordered messages attributed to it.
// Keys are created on first reference; messages keep detection order.
type MessageTable struct {
	entries map[string][]markup.Text
}

// NewMessageTable returns an empty table.
func NewMessageTable() *MessageTable {
	return &MessageTable{entries: make(map[string][]markup.Text)}
}

// Ensure creates the entry for file if it does not exist yet.
func (m *MessageTable) Ensure(file string) {
	if _, ok := m.entries[file]; !ok {
		m.entries[file] = nil
	}
}

// Append records a message under file.
func (m *MessageTable) Append(file string, msg markup.Text) {
	m.entries[file] = append(m.entries[file], msg)
}

// Messages returns the messages recorded under file.
func (m *MessageTable) Messages(file string) []markup.Text {
	return m.entries[file]
}

// Has reports whether file has an entry, empty or not.
func (m *MessageTable) Has(file string) bool {
	_, ok := m.entries[file]

	return ok
}

// Len returns the number of keys.
func (m *MessageTable) Len() int {
	return len(m.entries)
}

// Prune drops every key without messages.
func (m *MessageTable) Prune() {
	for file, msgs := range m.entries {
		if len(msgs) == 0 {
			delete(m.entries, file)
		}
	}
}

// Keys returns the keys sorted lexicographically then reversed, which is the print order:
// named files last-to-first, then the root key.
func (m *MessageTable) Keys() []string {
	return PrintOrder(slices.Collect(maps.Keys(m.entries)))
}

// Map returns the table contents.
func (m *MessageTable) Map() map[string][]markup.Text {
	return maps.Clone(m.entries)
}

// PrintOrder sorts keys lexicographically and reverses them in place.
func PrintOrder(keys []string) []string {
	slices.Sort(keys)
	slices.Reverse(keys)

	return keys
}

// Counts tallies errors and warnings. Both only ever grow.
type Counts struct {
	Errors   int
	Warnings int
}

// Clean reports whether nothing was found.
func (c Counts) Clean() bool {
	return c.Errors == 0 && c.Warnings == 0
}

// Summary renders "<n> error[s] <n> warning[s]", omitting zero parts.
func (c Counts) Summary() markup.Text {
	var parts []markup.Fragment

	if c.Errors > 0 {
		parts = append(parts, markup.Tag(plural(c.Errors, "error"), markup.Error))
	}

	if c.Warnings > 0 {
		if len(parts) > 0 {
			parts = append(parts, markup.Raw(" "))
		}

		parts = append(parts, markup.Tag(plural(c.Warnings, "warning"), markup.Warning))
	}

	return markup.New(parts...)
}

func plural(n int, noun string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + noun
	}

	return strconv.Itoa(n) + " " + noun + "s"
}

// ErrorLocation is the first error's position. Set at most once per run.
type ErrorLocation struct {
	File   string
	Line   int
	Source string
	Found  bool
}

// SkipList holds substrings suppressing any warning that contains one of them.
type SkipList []string

// Matches reports whether msg contains any entry. Case sensitive.
func (s SkipList) Matches(msg string) bool {
	for _, entry := range s {
		if entry != "" && strings.Contains(msg, entry) {
			return true
		}
	}

	return false
}
