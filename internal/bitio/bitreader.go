package bitio

// Polarity selects which end of the accumulator new bits are drawn
// from: MSB readers hand out the most significant unconsumed bit
// first, LSB readers the least significant.
type Polarity int

const (
	MSB Polarity = iota
	LSB
)

// RefillWidth is the number of bytes pulled from the underlying
// cursor on each refill. HFMN and MMCMP refill one byte at a time;
// LZW4 refills four bytes at once and interprets them as a single
// big-endian word.
type RefillWidth int

const (
	Refill1 RefillWidth = 1
	Refill2 RefillWidth = 2
	Refill4 RefillWidth = 4
)

// BitReader pulls individual bits from a Cursor through a small
// accumulator. It is a plain struct, not a closure: its state
// (accumulator contents and valid-bit count) is fully inspectable,
// which keeps the format decoders that embed one easy to reason
// about and to reset between passes (HFMN rebuilds its reader between
// the table-construction and payload-decoding phases).
type BitReader struct {
	cursor   *Cursor
	polarity Polarity
	width    RefillWidth
	acc      uint64
	bits     uint
}

// NewBitReader creates a reader drawing from c.
func NewBitReader(c *Cursor, p Polarity, w RefillWidth) *BitReader {
	return &BitReader{cursor: c, polarity: p, width: w}
}

// Reset rebinds the reader to a new cursor and clears the
// accumulator, discarding any partially consumed byte.
func (r *BitReader) Reset(c *Cursor) {
	r.cursor = c
	r.acc = 0
	r.bits = 0
}

func (r *BitReader) refill() error {
	for i := 0; i < int(r.width); i++ {
		b, err := r.cursor.ReadByte()
		if err != nil {
			return err
		}
		if r.polarity == MSB {
			r.acc = r.acc<<8 | uint64(b)
		} else {
			r.acc |= uint64(b) << r.bits
		}
		r.bits += 8
	}
	return nil
}

// ReadBits draws the next n bits (0 < n <= 32) from the stream,
// refilling the accumulator from the cursor as needed. The
// accumulator is kept at 64 bits so that a multi-byte refill never
// clobbers bits left over from a previous, narrower draw (up to 31
// leftover bits plus a 32-bit refill still fits in 64 bits).
func (r *BitReader) ReadBits(n uint) (uint32, error) {
	for r.bits < n {
		if err := r.refill(); err != nil {
			return 0, err
		}
	}
	var out uint64
	mask := uint64(1)<<n - 1
	if r.polarity == MSB {
		shift := r.bits - n
		out = (r.acc >> shift) & mask
		r.bits -= n
		r.acc &= uint64(1)<<r.bits - 1
	} else {
		out = r.acc & mask
		r.acc >>= n
		r.bits -= n
	}
	return uint32(out), nil
}

// ReadBit draws a single bit.
func (r *BitReader) ReadBit() (int, error) {
	v, err := r.ReadBits(1)
	return int(v), err
}
