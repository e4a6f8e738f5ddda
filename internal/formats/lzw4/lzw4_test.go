package lzw4

import (
	"bytes"
	"testing"
)

func TestDecompressLiteralsThenBackref(t *testing.T) {
	// The first four bytes are the initial 32-bit refill that the
	// bit reader draws its ctrl/distance/count bits from: 0x1F packs
	// three 0 ctrl bits (literal 'A', 'B', 'C') followed by a 1 ctrl
	// bit (back-reference) and the top 4 bits of the 16-bit distance
	// field; 0xFF and the top nibble of 0xF0 complete a distance field
	// of all-ones (d16=0xFFFF, distance=65536-0xFFFF=1); the bottom
	// nibble of 0xF0 plus 0x00 supply an all-zero 8-bit count field
	// (count=0+3=3). The literal bytes 'A','B','C' are NOT part of
	// this bit-packed word at all: they're read directly off the
	// cursor, which the initial refill has already advanced past, so
	// they occupy the tape positions right after it.
	packed := []byte{0x1f, 0xff, 0xf0, 0x00, 0x41, 0x42, 0x43}
	d := New(packed)
	raw := make([]byte, 6)
	if err := d.Decompress(raw, false); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	want := []byte("ABCCCC")
	if !bytes.Equal(raw, want) {
		t.Fatalf("raw = %q, want %q", raw, want)
	}
}

func TestDecompressRejectsEarlyTermination(t *testing.T) {
	// control bit 1, then d=0 (end marker) before the 4-byte buffer fills.
	packed := []byte{0x80, 0x00, 0x00, 0x00}
	d := New(packed)
	raw := make([]byte, 4)
	if err := d.Decompress(raw, false); err != ErrTerminatedEarly {
		t.Fatalf("err = %v, want ErrTerminatedEarly", err)
	}
}
