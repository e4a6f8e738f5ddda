package xpk

import (
	"bytes"
	"testing"
)

func buildContainer(inner4cc uint32, flags byte, checksum uint16, payload []byte) []byte {
	buf := make([]byte, preambleLen+len(payload))
	put32 := func(off int, v uint32) {
		buf[off] = byte(v >> 24)
		buf[off+1] = byte(v >> 16)
		buf[off+2] = byte(v >> 8)
		buf[off+3] = byte(v)
	}
	put16 := func(off int, v uint16) {
		buf[off] = byte(v >> 8)
		buf[off+1] = byte(v)
	}
	put32(0, magic)
	put32(4, uint32(preambleLen+len(payload)))
	put32(8, inner4cc)
	buf[12] = flags
	buf[13] = 0
	put16(14, checksum)
	copy(buf[preambleLen:], payload)
	return buf
}

func TestIsContainer(t *testing.T) {
	packed := buildContainer(0x48464d4e, 0, 0, []byte("payload"))
	if !IsContainer(packed) {
		t.Fatal("IsContainer = false, want true")
	}
	if IsContainer([]byte("not an xpk container")) {
		t.Fatal("IsContainer = true for non-XPK buffer")
	}
	if IsContainer(packed[:preambleLen-1]) {
		t.Fatal("IsContainer = true for a truncated preamble")
	}
}

func TestUnwrap(t *testing.T) {
	packed := buildContainer(0x48464d4e, 0, 0, []byte("payload"))
	h, payload, err := Unwrap(packed)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if h.Inner4CC != 0x48464d4e {
		t.Fatalf("Inner4CC = %#x, want 0x48464d4e", h.Inner4CC)
	}
	if !bytes.Equal(payload, []byte("payload")) {
		t.Fatalf("payload = %q, want %q", payload, "payload")
	}
}

func TestUnwrapRejectsBadMagic(t *testing.T) {
	if _, _, err := Unwrap([]byte("not xpk at all!!!!")); err != ErrNotContainer {
		t.Fatalf("err = %v, want ErrNotContainer", err)
	}
}

func TestUnwrapRejectsBadSize(t *testing.T) {
	packed := buildContainer(0x48464d4e, 0, 0, []byte("payload"))
	// Corrupt the declared packed-size field to point past the buffer.
	packed[4], packed[5], packed[6], packed[7] = 0xff, 0xff, 0xff, 0xff
	if _, _, err := Unwrap(packed); err != ErrBadSize {
		t.Fatalf("err = %v, want ErrBadSize", err)
	}
}

func TestVerifyChecksum(t *testing.T) {
	payload := []byte("payload")
	checksum := Checksum(payload)
	packed := buildContainer(0x48464d4e, FlagChecksum, checksum, payload)
	h, got, err := Unwrap(packed)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !VerifyChecksum(h, got) {
		t.Fatal("VerifyChecksum = false, want true")
	}
	h.Checksum++
	if VerifyChecksum(h, got) {
		t.Fatal("VerifyChecksum = true for a mismatched checksum")
	}
}
