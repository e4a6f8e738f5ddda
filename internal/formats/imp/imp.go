// Package imp decodes the standalone IMP wrapper. IMP shares MMCMP's
// framing philosophy of a small fixed header in front of a single
// compressed payload, but instead of MMCMP's block table it wraps
// exactly one Huffman-coded block in HFMN's own framing, giving the
// canonical Huffman decoder a second, independent caller distinct
// from the XPK-inner HFMN format.
package imp

import (
	"errors"

	"github.com/xadcore/decomp/internal/bufview"
	"github.com/xadcore/decomp/internal/formats/hfmn"
	"github.com/xadcore/decomp/internal/registry"
)

const (
	magicIMP  = 0x494d5021 // "IMP!"
	magicATN  = 0x41544e21 // "ATN!"
	headerLen = 12
)

var (
	ErrShortHeader  = errors.New("imp: buffer too small for header")
	ErrSizeMismatch = errors.New("imp: declared raw size disagrees with inner block")
)

func init() {
	detect := func(header uint32) bool { return header == magicIMP || header == magicATN }
	registry.RegisterStandalone(registry.Descriptor{
		Name:   "IMP",
		Detect: detect,
		New: func(packed []byte) (registry.Decoder, error) {
			return New(packed)
		},
	})
}

// Decoder holds a parsed IMP buffer: its own 12-byte preamble plus a
// delegate HFMN decoder over the remaining bytes.
type Decoder struct {
	rawSize    int
	packedSize int
	inner      *hfmn.Decoder
}

// New parses the IMP preamble (magic, declared raw size, declared
// packed size) and the HFMN-framed block that follows it.
func New(packed []byte) (*Decoder, error) {
	v := bufview.New(packed)
	magic, err := v.ReadBE32(0)
	if err != nil || (magic != magicIMP && magic != magicATN) {
		return nil, ErrShortHeader
	}
	rawSize, err := v.ReadLE32(4)
	if err != nil {
		return nil, ErrShortHeader
	}
	packedSize, err := v.ReadLE32(8)
	if err != nil {
		return nil, ErrShortHeader
	}
	if headerLen > v.Size() {
		return nil, ErrShortHeader
	}
	inner, err := hfmn.New(v.Bytes()[headerLen:])
	if err != nil {
		return nil, err
	}
	if int(rawSize) != inner.RawSize() {
		return nil, ErrSizeMismatch
	}
	return &Decoder{rawSize: int(rawSize), packedSize: int(packedSize), inner: inner}, nil
}

// RawSize implements registry.Decoder.
func (d *Decoder) RawSize() int { return d.rawSize }

// SizeExact implements registry.Decoder.
func (d *Decoder) SizeExact() bool { return true }

// Decompress implements registry.Decoder.
func (d *Decoder) Decompress(raw []byte, verify bool) error {
	return d.inner.Decompress(raw, verify)
}

// PackedSize returns IMP's self-declared packed size, read from its
// own preamble rather than recomputed from the inner block.
func (d *Decoder) PackedSize() int { return d.packedSize }
