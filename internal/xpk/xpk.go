// Package xpk parses the XPK outer container: the 'XPKF' magic, a
// big-endian packed-size, the inner four-character code selecting a
// sub-format, a 1-byte flags field, a 1-byte sub-version, a 2-byte
// header checksum, 16 reserved bytes (32 bytes total), and the
// payload handed to that sub-format's decoder.
package xpk

import (
	"math/bits"

	"github.com/xadcore/decomp/internal/bufview"
)

const (
	magic       = 0x58504B46 // "XPKF"
	preambleLen = 32
	// FlagChecksum marks the container as carrying a verifiable
	// rotate-XOR checksum of the payload bytes.
	FlagChecksum = 1 << 0
)

// Header is the parsed outer-container preamble.
type Header struct {
	Inner4CC   uint32
	Flags      byte
	SubVersion byte
	Checksum   uint16
}

// IsContainer reports whether b begins with the XPK outer magic and
// is long enough to hold a preamble.
func IsContainer(b []byte) bool {
	if len(b) < preambleLen {
		return false
	}
	v := bufview.New(b)
	m, err := v.ReadBE32(0)
	return err == nil && m == magic
}

// Unwrap parses the outer container in packed and returns its header
// together with the payload slice the inner format decodes.
func Unwrap(packed []byte) (Header, []byte, error) {
	v := bufview.New(packed)
	m, err := v.ReadBE32(0)
	if err != nil || m != magic {
		return Header{}, nil, ErrNotContainer
	}
	packedSize, err := v.ReadBE32(4)
	if err != nil {
		return Header{}, nil, ErrTruncated
	}
	inner4cc, err := v.ReadBE32(8)
	if err != nil {
		return Header{}, nil, ErrTruncated
	}
	flags, err := v.Byte(12)
	if err != nil {
		return Header{}, nil, ErrTruncated
	}
	subVersion, err := v.Byte(13)
	if err != nil {
		return Header{}, nil, ErrTruncated
	}
	checksum, err := v.ReadBE16(14)
	if err != nil {
		return Header{}, nil, ErrTruncated
	}
	if int(packedSize) < preambleLen || int(packedSize) > v.Size() {
		return Header{}, nil, ErrBadSize
	}
	payload, err := v.Slice(preambleLen, int(packedSize))
	if err != nil {
		return Header{}, nil, ErrTruncated
	}
	h := Header{Inner4CC: inner4cc, Flags: flags, SubVersion: subVersion, Checksum: checksum}
	return h, payload.Bytes(), nil
}

// VerifyChecksum recomputes the rotate-XOR checksum of payload and
// compares it against h.Checksum. Callers should only call this when
// h.Flags&FlagChecksum is set; formats that don't set the flag carry
// no meaningful checksum value.
func VerifyChecksum(h Header, payload []byte) bool {
	return Checksum(payload) == h.Checksum
}

// Checksum computes the running rotate-XOR checksum used by the
// outer container (rotate first, then XOR in the byte: the reverse
// order of MMCMP's per-block XOR-then-rotate checksum, narrowed to 16 bits since the outer header's checksum
// field is only 2 bytes wide).
func Checksum(data []byte) uint16 {
	var c uint16
	for _, b := range data {
		c = bits.RotateLeft16(c, 1) ^ uint16(b)
	}
	return c
}
