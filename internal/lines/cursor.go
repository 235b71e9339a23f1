package lines

import "iter"

// Cursor consumes a line sequence destructively with a single line of pushback.
type Cursor struct {
	next    func() (Line, bool)
	stop    func()
	last    Line
	hasLast bool
	pending bool
}

// NewCursor pulls from seq. Close must be called once the cursor is no longer needed.
func NewCursor(seq iter.Seq[Line]) *Cursor {
	next, stop := iter.Pull(seq)

	return &Cursor{next: next, stop: stop}
}

// Next returns the next line, or false at end of input.
func (c *Cursor) Next() (Line, bool) {
	if c.pending {
		c.pending = false

		return c.last, true
	}

	line, ok := c.next()
	if !ok {
		c.hasLast = false

		return Line{}, false
	}

	c.last = line
	c.hasLast = true

	return line, true
}

// Pushback un-consumes the line last returned by Next. Only one line can be pending.
func (c *Cursor) Pushback() {
	if c.hasLast {
		c.pending = true
	}
}

// Peek returns the next line without consuming it.
func (c *Cursor) Peek() (Line, bool) {
	line, ok := c.Next()
	if ok {
		c.Pushback()
	}

	return line, ok
}

// Rest drains every remaining line.
func (c *Cursor) Rest() []Line {
	var out []Line

	for {
		line, ok := c.Next()
		if !ok {
			return out
		}

		out = append(out, line)
	}
}

// Close releases the underlying sequence.
func (c *Cursor) Close() {
	c.stop()
}
