// Package lzw4 decodes the XPK "LZW4" sub-format: a single-bit
// literal/back-reference flag stream with 16-bit big-endian distances
// and an 8-bit count biased by 3. The control bit and the
// distance/count fields are drawn through a 32-bit-refill MSB bit
// reader; literal bytes are read directly off the underlying cursor,
// independent of whatever the bit reader's accumulator has already
// buffered ahead.
package lzw4

import (
	"errors"

	"github.com/xadcore/decomp/internal/bitio"
	"github.com/xadcore/decomp/internal/bufview"
	"github.com/xadcore/decomp/internal/outstream"
	"github.com/xadcore/decomp/internal/registry"
)

// FourCC is the XPK inner four-character code this package handles.
const FourCC = 0x4c5a5734 // "LZW4"

// ErrTerminatedEarly is returned when the distance-zero end marker
// appears before the raw buffer has been filled.
var ErrTerminatedEarly = errors.New("lzw4: stream terminated before raw size reached")

func init() {
	registry.RegisterXPKInner(registry.Descriptor{
		Name:   "LZW4",
		Detect: func(header uint32) bool { return header == FourCC },
		New: func(payload []byte) (registry.Decoder, error) {
			return New(payload), nil
		},
	})
}

// Decoder holds an LZW4 payload. LZW4 carries no framing of its own:
// the raw size is whatever the caller's buffer declares, and decoding
// runs until that buffer is full or the stream signals end-of-data.
type Decoder struct {
	view bufview.View
}

// New wraps payload. LZW4 has no header to validate up front.
func New(payload []byte) *Decoder {
	return &Decoder{view: bufview.New(payload)}
}

// RawSize implements registry.Decoder: LZW4 declares no size of its own.
func (d *Decoder) RawSize() int { return -1 }

// SizeExact implements registry.Decoder; meaningless since RawSize is -1.
func (d *Decoder) SizeExact() bool { return false }

// Decompress implements registry.Decoder.
func (d *Decoder) Decompress(raw []byte, verify bool) error {
	cur := bitio.NewForward(d.view, 0, d.view.Size())
	br := bitio.NewBitReader(cur, bitio.MSB, bitio.Refill4)
	out := outstream.New(raw, len(raw))

	for !out.Done() {
		ctrl, err := br.ReadBit()
		if err != nil {
			return err
		}
		if ctrl == 0 {
			lit, err := cur.ReadByte()
			if err != nil {
				return err
			}
			if err := out.WriteByte(lit); err != nil {
				return err
			}
			continue
		}
		d16, err := br.ReadBits(16)
		if err != nil {
			return err
		}
		if d16 == 0 {
			return ErrTerminatedEarly
		}
		distance := int(65536 - d16)
		countField, err := br.ReadBits(8)
		if err != nil {
			return err
		}
		count := int(countField) + 3
		if err := out.Copy(distance, count); err != nil {
			return err
		}
	}
	return nil
}
