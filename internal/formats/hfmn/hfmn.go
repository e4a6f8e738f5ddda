// Package hfmn decodes the XPK "HFMN" sub-format: a canonical Huffman
// code whose table is built incrementally from a depth-first walk
// description rather than a plain array of code lengths.
package hfmn

import (
	"errors"

	"github.com/xadcore/decomp/internal/bitio"
	"github.com/xadcore/decomp/internal/bufview"
	"github.com/xadcore/decomp/internal/huffman"
	"github.com/xadcore/decomp/internal/outstream"
	"github.com/xadcore/decomp/internal/registry"
)

// FourCC is the XPK inner four-character code this package handles.
const FourCC = 0x48464d4e // "HFMN"

var (
	ErrShortHeader  = errors.New("hfmn: buffer too small for header")
	ErrBadHeaderLen = errors.New("hfmn: header size not a multiple of 4")
	ErrZeroRawSize  = errors.New("hfmn: declared raw size is zero")
	ErrEmptyTable   = errors.New("hfmn: code table is empty")
)

func init() {
	registry.RegisterXPKInner(registry.Descriptor{
		Name:   "HFMN",
		Detect: func(header uint32) bool { return header == FourCC },
		New: func(payload []byte) (registry.Decoder, error) {
			return New(payload)
		},
	})
}

// Decoder holds a parsed HFMN buffer ready to decompress.
type Decoder struct {
	view    bufview.View
	hdrSize int
	rawSize int
	payload int // offset where the Huffman-coded payload begins
}

// New parses the HFMN framing (header-size word and raw-size word)
// without reading the code table or any payload bits; Decompress
// builds the table.
func New(packed []byte) (*Decoder, error) {
	v := bufview.New(packed)
	word, err := v.ReadBE16(0)
	if err != nil {
		return nil, ErrShortHeader
	}
	// Only the low 9 bits carry the header size; the top 7 bits are
	// ignored on purpose, not validated, matching the reference
	// decoder this format is modelled on.
	hdrSize := int(word & 0x1ff)
	if hdrSize%4 != 0 {
		return nil, ErrBadHeaderLen
	}
	rawWord, err := v.ReadBE16(hdrSize + 2)
	if err != nil {
		return nil, ErrShortHeader
	}
	if rawWord == 0 {
		return nil, ErrZeroRawSize
	}
	payloadStart := hdrSize + 4
	if payloadStart > v.Size() {
		return nil, ErrShortHeader
	}
	return &Decoder{view: v, hdrSize: hdrSize, rawSize: int(rawWord), payload: payloadStart}, nil
}

// RawSize implements registry.Decoder.
func (d *Decoder) RawSize() int { return d.rawSize }

// SizeExact implements registry.Decoder: HFMN validates its declared
// raw size up front, so the caller's buffer must match it exactly.
func (d *Decoder) SizeExact() bool { return true }

func (d *Decoder) buildTable() (*huffman.Decoder, error) {
	cur := bitio.NewForward(d.view, 2, d.hdrSize)
	br := bitio.NewBitReader(cur, bitio.MSB, bitio.Refill1)

	tree := huffman.New()
	codeBits := uint(1)
	code := uint32(1)
	for {
		bit, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		if bit == 0 {
			lit, err := br.ReadBits(8)
			if err != nil {
				return nil, err
			}
			if err := tree.Insert(int(codeBits), code, uint16(lit)); err != nil {
				return nil, err
			}
			for codeBits > 0 && code&1 == 0 {
				code >>= 1
				codeBits--
			}
			if codeBits == 0 {
				break
			}
			code--
		} else {
			code = code<<1 | 1
			codeBits++
		}
	}
	if tree.Empty() {
		return nil, ErrEmptyTable
	}
	return tree, nil
}

// Decompress implements registry.Decoder.
func (d *Decoder) Decompress(raw []byte, verify bool) error {
	tree, err := d.buildTable()
	if err != nil {
		return err
	}

	cur := bitio.NewForward(d.view, d.payload, d.view.Size())
	br := bitio.NewBitReader(cur, bitio.MSB, bitio.Refill1)

	out := outstream.New(raw, d.rawSize)
	for !out.Done() {
		v, err := tree.Decode(br.ReadBit)
		if err != nil {
			return err
		}
		if err := out.WriteByte(byte(v)); err != nil {
			return err
		}
	}
	return nil
}
