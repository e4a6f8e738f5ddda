// Package lzbs decodes the XPK "LZBS" sub-format: a byte-aligned LZ77
// variant where one control byte's bits select literal or match for
// each of the following eight tokens, and matches are a fixed-width
// 16-bit little-endian distance followed by a one-byte length biased
// by 3, rather than a bit-packed code. It gives the back-reference primitives in outstream a
// second, independent caller alongside LZW4.
package lzbs

import (
	"github.com/xadcore/decomp/internal/bufview"
	"github.com/xadcore/decomp/internal/outstream"
	"github.com/xadcore/decomp/internal/registry"
)

// FourCC is the XPK inner four-character code this package handles.
const FourCC = 0x4c5a4253 // "LZBS"

func init() {
	registry.RegisterXPKInner(registry.Descriptor{
		Name:   "LZBS",
		Detect: func(header uint32) bool { return header == FourCC },
		New: func(payload []byte) (registry.Decoder, error) {
			return New(payload), nil
		},
	})
}

// Decoder holds an LZBS payload. Like LZW4, LZBS carries no framing
// of its own; decoding runs until the caller's raw buffer is full.
type Decoder struct {
	view bufview.View
}

// New wraps payload.
func New(payload []byte) *Decoder {
	return &Decoder{view: bufview.New(payload)}
}

// RawSize implements registry.Decoder: LZBS declares no size of its own.
func (d *Decoder) RawSize() int { return -1 }

// SizeExact implements registry.Decoder; meaningless since RawSize is -1.
func (d *Decoder) SizeExact() bool { return false }

// Decompress implements registry.Decoder.
func (d *Decoder) Decompress(raw []byte, verify bool) error {
	out := outstream.New(raw, len(raw))
	pos := 0

	readByte := func() (byte, error) {
		b, err := d.view.Byte(pos)
		if err != nil {
			return 0, err
		}
		pos++
		return b, nil
	}

	for !out.Done() {
		ctrl, err := readByte()
		if err != nil {
			return err
		}
		for bit := 7; bit >= 0 && !out.Done(); bit-- {
			if ctrl&(1<<uint(bit)) == 0 {
				b, err := readByte()
				if err != nil {
					return err
				}
				if err := out.WriteByte(b); err != nil {
					return err
				}
				continue
			}
			lo, err := readByte()
			if err != nil {
				return err
			}
			hi, err := readByte()
			if err != nil {
				return err
			}
			distance := int(lo) | int(hi)<<8
			lenByte, err := readByte()
			if err != nil {
				return err
			}
			length := int(lenByte) + 3
			if err := out.Copy(distance, length); err != nil {
				return err
			}
		}
	}
	return nil
}
