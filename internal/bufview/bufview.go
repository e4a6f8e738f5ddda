// Package bufview gives format decoders a bounds-checked, read-only
// view over a packed buffer. Every multi-byte accessor returns an
// error instead of panicking when the read would run off the end,
// so a truncated or hostile input surfaces as a normal decompression
// error rather than a runtime panic.
package bufview

import "errors"

// ErrShortBuffer is returned whenever a read would extend past the
// end of the view.
var ErrShortBuffer = errors.New("bufview: short buffer")

// View is a cheap, copyable handle onto a byte slice. Values are
// passed by value; the underlying slice is never mutated.
type View struct {
	b []byte
}

// New wraps b. The slice is not copied.
func New(b []byte) View {
	return View{b: b}
}

// Size returns the number of bytes in the view.
func (v View) Size() int {
	return len(v.b)
}

// Bytes returns the underlying slice. Callers must not mutate it.
func (v View) Bytes() []byte {
	return v.b
}

// Byte returns the byte at offset i.
func (v View) Byte(i int) (byte, error) {
	if i < 0 || i >= len(v.b) {
		return 0, ErrShortBuffer
	}
	return v.b[i], nil
}

// Slice returns the half-open range [start, end) as a sub-view.
func (v View) Slice(start, end int) (View, error) {
	if start < 0 || end < start || end > len(v.b) {
		return View{}, ErrShortBuffer
	}
	return View{b: v.b[start:end]}, nil
}

// ReadBE16 reads a big-endian 16-bit word at offset o.
func (v View) ReadBE16(o int) (uint16, error) {
	if o < 0 || o+2 > len(v.b) {
		return 0, ErrShortBuffer
	}
	return uint16(v.b[o])<<8 | uint16(v.b[o+1]), nil
}

// ReadBE32 reads a big-endian 32-bit word at offset o.
func (v View) ReadBE32(o int) (uint32, error) {
	if o < 0 || o+4 > len(v.b) {
		return 0, ErrShortBuffer
	}
	return uint32(v.b[o])<<24 | uint32(v.b[o+1])<<16 | uint32(v.b[o+2])<<8 | uint32(v.b[o+3]), nil
}

// ReadLE16 reads a little-endian 16-bit word at offset o.
func (v View) ReadLE16(o int) (uint16, error) {
	if o < 0 || o+2 > len(v.b) {
		return 0, ErrShortBuffer
	}
	return uint16(v.b[o]) | uint16(v.b[o+1])<<8, nil
}

// ReadLE32 reads a little-endian 32-bit word at offset o.
func (v View) ReadLE32(o int) (uint32, error) {
	if o < 0 || o+4 > len(v.b) {
		return 0, ErrShortBuffer
	}
	return uint32(v.b[o]) | uint32(v.b[o+1])<<8 | uint32(v.b[o+2])<<16 | uint32(v.b[o+3])<<24, nil
}
