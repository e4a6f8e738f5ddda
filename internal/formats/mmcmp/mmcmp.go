// Package mmcmp decodes the standalone MMCMP container: a
// block-oriented, mixed-endian bitstream originally used to compress
// PCM sample data, with per-block adaptive bit-width symbol coding
// and an optional per-block rotate-XOR checksum.
package mmcmp

import (
	"errors"
	"math/bits"

	"github.com/xadcore/decomp/internal/bitio"
	"github.com/xadcore/decomp/internal/bufview"
	"github.com/xadcore/decomp/internal/registry"
)

// Magic is the 8-byte standalone signature 'ziRC' + 'ONia'.
const (
	magicLo uint32 = 0x7a695243 // "ziRC"
	magicHi uint32 = 0x4f4e6961 // "ONia"
)

var (
	threshold8 = [8]uint32{1, 3, 7, 15, 30, 60, 120, 248}
	extra8     = [8]uint{3, 3, 3, 3, 2, 1, 0, 0}

	threshold16 = [16]uint32{1, 3, 7, 15, 30, 60, 120, 240, 496, 1008, 2032, 4080, 8176, 16368, 32752, 65520}
	extra16     = [16]uint{4, 4, 4, 4, 3, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

const (
	flagCompressed = 1 << 0
	flagDelta      = 1 << 1
	flag16Bit      = 1 << 2
	flagStereo     = 1 << 8
	flagAbs16      = 1 << 9
	flagBigEndian  = 1 << 10
)

var (
	ErrBadMagic        = errors.New("mmcmp: bad magic")
	ErrShortHeader     = errors.New("mmcmp: buffer too small for header")
	ErrSubBlockOverrun = errors.New("mmcmp: ran off the last sub-block")
	ErrBitCountRange   = errors.New("mmcmp: bit count out of range")
	ErrPackTableIndex  = errors.New("mmcmp: pack table index out of range")
	ErrChecksum        = errors.New("mmcmp: block checksum mismatch")
)

func init() {
	registry.RegisterStandalone(registry.Descriptor{
		Name: "MMCMP",
		Detect: func(header uint32) bool {
			return header == magicLo
		},
		New: func(packed []byte) (registry.Decoder, error) {
			return New(packed)
		},
	})
}

type subBlock struct {
	offset int
	length int
}

type block struct {
	unpackedSize   int
	packedSize     int
	checksum       uint32
	flags          uint16
	packTableSize  int
	initialBitCnt  int
	subBlocks      []subBlock
	packTableStart int
	bitstreamStart int
	bitstreamEnd   int
}

// Decoder holds a parsed MMCMP buffer.
type Decoder struct {
	view    bufview.View
	rawSize int
	blocks  []block
}

// New parses the MMCMP outer header and block table.
func New(packed []byte) (*Decoder, error) {
	v := bufview.New(packed)

	lo, err := v.ReadBE32(0)
	if err != nil || lo != magicLo {
		return nil, ErrBadMagic
	}
	hi, err := v.ReadBE32(4)
	if err != nil || hi != magicHi {
		return nil, ErrBadMagic
	}
	blockCount, err := v.ReadLE16(12)
	if err != nil {
		return nil, ErrShortHeader
	}
	rawSize, err := v.ReadLE32(14)
	if err != nil {
		return nil, ErrShortHeader
	}
	blockTableOff, err := v.ReadLE32(18)
	if err != nil {
		return nil, ErrShortHeader
	}

	d := &Decoder{view: v, rawSize: int(rawSize)}
	for i := 0; i < int(blockCount); i++ {
		addr32, err := v.ReadLE32(int(blockTableOff) + i*4)
		if err != nil {
			return nil, ErrShortHeader
		}
		addr := int(addr32)
		b, err := parseBlock(v, addr)
		if err != nil {
			return nil, err
		}
		d.blocks = append(d.blocks, b)
	}
	return d, nil
}

func parseBlock(v bufview.View, addr int) (block, error) {
	unpackedSize, err := v.ReadLE32(addr + 0)
	if err != nil {
		return block{}, ErrShortHeader
	}
	packedSize, err := v.ReadLE32(addr + 4)
	if err != nil {
		return block{}, ErrShortHeader
	}
	checksum, err := v.ReadLE32(addr + 8)
	if err != nil {
		return block{}, ErrShortHeader
	}
	subBlockCount, err := v.ReadLE16(addr + 12)
	if err != nil {
		return block{}, ErrShortHeader
	}
	flags, err := v.ReadLE16(addr + 14)
	if err != nil {
		return block{}, ErrShortHeader
	}
	packTableSize, err := v.ReadLE16(addr + 16)
	if err != nil {
		return block{}, ErrShortHeader
	}
	initialBitCount, err := v.ReadLE16(addr + 18)
	if err != nil {
		return block{}, ErrShortHeader
	}

	b := block{
		unpackedSize:  int(unpackedSize),
		packedSize:    int(packedSize),
		checksum:      checksum,
		flags:         flags,
		packTableSize: int(packTableSize),
		initialBitCnt: int(initialBitCount),
	}

	descOff := addr + 20
	for i := 0; i < int(subBlockCount); i++ {
		off, err := v.ReadLE32(descOff + i*8)
		if err != nil {
			return block{}, ErrShortHeader
		}
		length, err := v.ReadLE32(descOff + i*8 + 4)
		if err != nil {
			return block{}, ErrShortHeader
		}
		b.subBlocks = append(b.subBlocks, subBlock{offset: int(off), length: int(length)})
	}

	b.packTableStart = descOff + int(subBlockCount)*8
	b.bitstreamStart = b.packTableStart + b.packTableSize
	b.bitstreamEnd = b.bitstreamStart + b.packedSize
	return b, nil
}

// PackedSize returns the smallest prefix of the packed buffer that
// contains every block's bytes, per the block-table scan formula.
func (d *Decoder) PackedSize() int {
	max := 0
	for _, b := range d.blocks {
		end := b.bitstreamEnd
		if end > max {
			max = end
		}
	}
	return max
}

// RawSize implements registry.Decoder.
func (d *Decoder) RawSize() int { return d.rawSize }

// SizeExact implements registry.Decoder: MMCMP tolerates a larger
// caller buffer since blocks may leave unwritten gaps.
func (d *Decoder) SizeExact() bool { return false }

// sink advances through a block's sub-blocks as bytes are written,
// mirroring the "output cursor within each block" described for
// MMCMP: once a sub-block is exhausted the next descriptor is
// consumed, and running off the last one is a decompression error.
type sink struct {
	raw     []byte
	subs    []subBlock
	idx     int
	written int
	cs      uint32
	verify  bool
}

func newSink(raw []byte, subs []subBlock, verify bool) (*sink, error) {
	if len(subs) == 0 {
		return nil, ErrSubBlockOverrun
	}
	return &sink{raw: raw, subs: subs, verify: verify}, nil
}

func (s *sink) writeByte(b byte) error {
	for s.written >= s.subs[s.idx].length {
		s.idx++
		if s.idx >= len(s.subs) {
			return ErrSubBlockOverrun
		}
		s.written = 0
	}
	pos := s.subs[s.idx].offset + s.written
	if pos < 0 || pos >= len(s.raw) {
		return ErrSubBlockOverrun
	}
	s.raw[pos] = b
	s.written++
	if s.verify {
		s.cs ^= uint32(b)
		s.cs = bits.RotateLeft32(s.cs, 1)
	}
	return nil
}

// Decompress implements registry.Decoder.
func (d *Decoder) Decompress(raw []byte, verify bool) error {
	n := d.rawSize
	if n > len(raw) {
		n = len(raw)
	}
	for i := 0; i < n; i++ {
		raw[i] = 0
	}
	for _, b := range d.blocks {
		if err := d.decodeBlock(raw, b, verify); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeBlock(raw []byte, b block, verify bool) error {
	s, err := newSink(raw, b.subBlocks, verify)
	if err != nil {
		return err
	}

	if b.flags&flagCompressed == 0 {
		for i := 0; i < b.packedSize; i++ {
			c, err := d.view.Byte(b.bitstreamStart + i)
			if err != nil {
				return err
			}
			if err := s.writeByte(c); err != nil {
				return err
			}
		}
	} else {
		packTable, err := d.view.Slice(b.packTableStart, b.packTableStart+b.packTableSize)
		if err != nil {
			return err
		}
		cur := bitio.NewForward(d.view, b.bitstreamStart, b.bitstreamEnd)
		br := bitio.NewBitReader(cur, bitio.LSB, bitio.Refill1)

		if b.flags&flag16Bit != 0 {
			if err := decode16(br, b, packTable, s); err != nil {
				return err
			}
		} else {
			if err := decode8(br, b, packTable, s); err != nil {
				return err
			}
		}
	}

	if verify && b.checksum != 0 {
		if s.cs != b.checksum {
			return ErrChecksum
		}
	}
	return nil
}

func decode8(br *bitio.BitReader, b block, packTable bufview.View, s *sink) error {
	bitCount := b.initialBitCnt
	if bitCount < 0 || bitCount > 7 {
		return ErrBitCountRange
	}
	var accum [2]byte
	ch := 0
	for produced := 0; produced < b.unpackedSize; {
		raw, err := br.ReadBits(uint(bitCount + 1))
		if err != nil {
			return err
		}
		v := raw
		if v >= threshold8[bitCount] {
			extra, err := br.ReadBits(extra8[bitCount])
			if err != nil {
				return err
			}
			newBitCount := int(extra) + int((v-threshold8[bitCount])<<extra8[bitCount])
			if newBitCount != bitCount {
				bitCount = newBitCount & 7
				continue
			}
			three, err := br.ReadBits(3)
			if err != nil {
				return err
			}
			v = 0xf8 | three
			if v == 0xff {
				term, err := br.ReadBit()
				if err != nil {
					return err
				}
				if term == 1 {
					return nil
				}
				// term == 0: fall through with v == 0xff unchanged,
				// which almost always fails the table-bounds check
				// below unless the pack table happens to be full.
			}
		}
		if int(v) >= b.packTableSize {
			return ErrPackTableIndex
		}
		sym, err := packTable.Byte(int(v))
		if err != nil {
			return err
		}
		out := sym
		if b.flags&flagDelta != 0 {
			accum[ch] += sym
			out = accum[ch]
		}
		if err := s.writeByte(out); err != nil {
			return err
		}
		produced++
		if b.flags&flagStereo != 0 {
			ch ^= 1
		}
	}
	return nil
}

func decode16(br *bitio.BitReader, b block, packTable bufview.View, s *sink) error {
	bitCount := b.initialBitCnt
	if bitCount < 0 || bitCount > 15 {
		return ErrBitCountRange
	}
	var accum [2]int16
	ch := 0
	for produced := 0; produced < b.unpackedSize; {
		raw, err := br.ReadBits(uint(bitCount + 1))
		if err != nil {
			return err
		}
		v := raw
		if v >= threshold16[bitCount] {
			extra, err := br.ReadBits(extra16[bitCount])
			if err != nil {
				return err
			}
			newBitCount := int(extra) + int((v-threshold16[bitCount])<<extra16[bitCount])
			if newBitCount != bitCount {
				bitCount = newBitCount & 15
				continue
			}
			three, err := br.ReadBits(3)
			if err != nil {
				return err
			}
			v = 0xfff8 | three
			if v == 0xffff {
				term, err := br.ReadBit()
				if err != nil {
					return err
				}
				if term == 1 {
					return nil
				}
			}
		}

		var signed int32
		if v&1 != 0 {
			signed = -int32(v) - 1
		} else {
			signed = int32(v)
		}
		signed >>= 1

		var sample int16
		if b.flags&flagDelta != 0 {
			accum[ch] += int16(signed)
			sample = accum[ch]
		} else {
			sample = int16(signed)
		}
		u := uint16(sample)
		if b.flags&flagAbs16 != 0 {
			u ^= 0x8000
		}
		var first, second byte
		if b.flags&flagBigEndian != 0 {
			first, second = byte(u>>8), byte(u)
		} else {
			first, second = byte(u), byte(u>>8)
		}
		if err := s.writeByte(first); err != nil {
			return err
		}
		if err := s.writeByte(second); err != nil {
			return err
		}
		produced += 2
		if b.flags&flagStereo != 0 {
			ch ^= 1
		}
	}
	return nil
}
