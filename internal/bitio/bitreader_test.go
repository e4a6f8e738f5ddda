package bitio

import (
	"testing"

	"github.com/xadcore/decomp/internal/bufview"
)

// TestReadBitsAcrossMultiByteRefillWithLeftoverBits is a regression
// test for a 32-bit refill clobbering bits left over in the
// accumulator from a previous, narrower draw. With a 4-byte refill
// width, reading down to a handful of leftover bits and then asking
// for 16 more forces a fresh 32-bit refill while old bits are still
// live; the accumulator must keep all of them, not just the
// newly-read word.
func TestReadBitsAcrossMultiByteRefillWithLeftoverBits(t *testing.T) {
	// 8 bytes: first word is all 1s, so draining it to 7 leftover bits
	// leaves an unambiguous "1111111"; second word supplies the rest
	// of a 20-bit draw.
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0xaa, 0x55, 0x00, 0x00}
	v := bufview.New(buf)
	cur := NewForward(v, 0, v.Size())
	br := NewBitReader(cur, MSB, Refill4)

	// Drain the first word down to 7 leftover bits (32 - 25 = 7), all 1s.
	if _, err := br.ReadBits(25); err != nil {
		t.Fatalf("ReadBits(25): %v", err)
	}
	// Now ask for 20 bits: 7 leftover ones + 13 from a fresh 32-bit
	// refill. A 32-bit accumulator would clobber the 7 leftover bits
	// when the refill shifts them out; the top 7 bits of the 20-bit
	// result must still be the original all-ones leftover.
	got, err := br.ReadBits(20)
	if err != nil {
		t.Fatalf("ReadBits(20): %v", err)
	}
	top7 := got >> 13
	if top7 != 0x7f {
		t.Fatalf("top 7 leftover bits = %#x, want 0x7f (leftover bits corrupted by refill)", top7)
	}
}

func TestReadBitsLSB(t *testing.T) {
	buf := []byte{0b1011_0010}
	v := bufview.New(buf)
	cur := NewForward(v, 0, v.Size())
	br := NewBitReader(cur, LSB, Refill1)

	first, err := br.ReadBits(4)
	if err != nil {
		t.Fatalf("ReadBits(4): %v", err)
	}
	if first != 0b0010 {
		t.Fatalf("first nibble = %#x, want 0x2", first)
	}
	second, err := br.ReadBits(4)
	if err != nil {
		t.Fatalf("ReadBits(4): %v", err)
	}
	if second != 0b1011 {
		t.Fatalf("second nibble = %#x, want 0xb", second)
	}
}

func TestReadBitsMSB(t *testing.T) {
	buf := []byte{0b1011_0010}
	v := bufview.New(buf)
	cur := NewForward(v, 0, v.Size())
	br := NewBitReader(cur, MSB, Refill1)

	first, err := br.ReadBits(4)
	if err != nil {
		t.Fatalf("ReadBits(4): %v", err)
	}
	if first != 0b1011 {
		t.Fatalf("first nibble = %#x, want 0xb", first)
	}
	second, err := br.ReadBits(4)
	if err != nil {
		t.Fatalf("ReadBits(4): %v", err)
	}
	if second != 0b0010 {
		t.Fatalf("second nibble = %#x, want 0x2", second)
	}
}

func TestReadBitsUnderflow(t *testing.T) {
	buf := []byte{0xff}
	v := bufview.New(buf)
	cur := NewForward(v, 0, v.Size())
	br := NewBitReader(cur, MSB, Refill1)
	if _, err := br.ReadBits(16); err != ErrUnderflow {
		t.Fatalf("err = %v, want ErrUnderflow", err)
	}
}

func TestResetClearsAccumulator(t *testing.T) {
	buf := []byte{0xff, 0x00}
	v := bufview.New(buf)
	cur := NewForward(v, 0, 1)
	br := NewBitReader(cur, MSB, Refill1)
	if _, err := br.ReadBits(4); err != nil {
		t.Fatalf("ReadBits(4): %v", err)
	}

	cur2 := NewForward(v, 1, 2)
	br.Reset(cur2)
	got, err := br.ReadBits(8)
	if err != nil {
		t.Fatalf("ReadBits(8) after reset: %v", err)
	}
	if got != 0x00 {
		t.Fatalf("got = %#x, want 0x00 (stale accumulator bits leaked across Reset)", got)
	}
}

func TestReverseCursorUnderflow(t *testing.T) {
	buf := []byte{0x01, 0x02}
	v := bufview.New(buf)
	cur := NewReverse(v, 0, 2)
	if b, err := cur.ReadByte(); err != nil || b != 0x02 {
		t.Fatalf("ReadByte = %v, %v, want 0x02, nil", b, err)
	}
	if b, err := cur.ReadByte(); err != nil || b != 0x01 {
		t.Fatalf("ReadByte = %v, %v, want 0x01, nil", b, err)
	}
	if _, err := cur.ReadByte(); err != ErrUnderflow {
		t.Fatalf("err = %v, want ErrUnderflow", err)
	}
}
