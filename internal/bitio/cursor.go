// Package bitio supplies the forward and reverse byte cursors and the
// MSB/LSB bit readers that every format decoder builds its state
// machine on top of.
package bitio

import (
	"errors"

	"github.com/xadcore/decomp/internal/bufview"
)

// ErrUnderflow is returned when a cursor or bit reader is asked for
// more bytes or bits than remain in its declared window.
var ErrUnderflow = errors.New("bitio: stream underflow")

// Direction selects whether a Cursor walks its window forward from
// the start or backward from the end.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Cursor walks a sub-range of a bufview.View one byte at a time,
// either forward (increasing offsets) or in reverse (decreasing
// offsets, last byte first). LZW4-style streams are always read
// forward; the reverse direction exists for formats whose bitstream
// is appended to a block tail-first, a layout several XPK sub-formats
// share with the canonical Huffman table that precedes it.
type Cursor struct {
	view  bufview.View
	pos   int
	start int
	end   int
	dir   Direction
}

// NewForward returns a Cursor that reads the range [start, end) of v
// starting at start and advancing toward end.
func NewForward(v bufview.View, start, end int) *Cursor {
	return &Cursor{view: v, pos: start, start: start, end: end, dir: Forward}
}

// NewReverse returns a Cursor that reads the range [start, end) of v
// starting at end and walking backward toward start.
func NewReverse(v bufview.View, start, end int) *Cursor {
	return &Cursor{view: v, pos: end, start: start, end: end, dir: Reverse}
}

// ReadByte consumes and returns the next byte in the cursor's
// direction of travel.
func (c *Cursor) ReadByte() (byte, error) {
	if c.dir == Forward {
		if c.pos >= c.end {
			return 0, ErrUnderflow
		}
		b, err := c.view.Byte(c.pos)
		if err != nil {
			return 0, err
		}
		c.pos++
		return b, nil
	}
	if c.pos <= c.start {
		return 0, ErrUnderflow
	}
	c.pos--
	return c.view.Byte(c.pos)
}

// Pos reports the cursor's current offset into the underlying view.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining reports how many bytes are left to read.
func (c *Cursor) Remaining() int {
	if c.dir == Forward {
		return c.end - c.pos
	}
	return c.pos - c.start
}
