// Package decomp identifies and decompresses the format family
// documented in the XPK and MMCMP archive lineage: three XPK
// sub-formats (HFMN canonical Huffman, LZW4 a 16-bit-distance LZ77
// variant, and LZBS a byte-aligned control-bit LZ77 variant), plus
// two standalone formats (MMCMP's block-oriented PCM delta codec, and
// IMP, a thin wrapper around a single HFMN block). Callers never
// import the format packages directly: Decompress and the other
// package-level helpers below identify a buffer, build the matching decoder from
// the registry, and run it.
package decomp

import (
	"github.com/cockroachdb/errors"

	_ "github.com/xadcore/decomp/internal/formats/hfmn"
	_ "github.com/xadcore/decomp/internal/formats/imp"
	_ "github.com/xadcore/decomp/internal/formats/lzbs"
	_ "github.com/xadcore/decomp/internal/formats/lzw4"
	_ "github.com/xadcore/decomp/internal/formats/mmcmp"
	"github.com/xadcore/decomp/internal/registry"
	"github.com/xadcore/decomp/internal/xpk"
)

// packedSizer is implemented by the decoders (MMCMP, IMP) that carry
// a self-declared packed size. Formats that only know "keep decoding
// until the raw buffer is full" (HFMN, LZW4, LZBS) don't implement it.
type packedSizer interface {
	PackedSize() int
}

// identify walks packed through any chain of XPK outer containers
// (bounded by maxDepth) and returns the name and constructed decoder
// for whatever standalone or XPK-inner format it eventually finds.
//
// The chain is modeled as explicit iteration over a depth counter,
// not recursive calls, so the bound is easy to audit: each trip
// through the loop either returns, errors, or strictly increments
// depth.
func identify(packed []byte, maxDepth int) (name string, dec registry.Decoder, err error) {
	return identifyVerify(packed, maxDepth, false)
}

func identifyVerify(packed []byte, maxDepth int, verify bool) (name string, dec registry.Decoder, err error) {
	cur := packed
	depth := 0
	for {
		if xpk.IsContainer(cur) {
			depth++
			if depth > maxDepth {
				return "", nil, errors.Wrapf(ErrRecursionLimit, "depth %d exceeds max %d", depth, maxDepth)
			}
			header, payload, uerr := xpk.Unwrap(cur)
			if uerr != nil {
				return "", nil, errors.Wrapf(ErrInvalidFormat, "xpk: %v", uerr)
			}
			if verify && header.Flags&xpk.FlagChecksum != 0 && !xpk.VerifyChecksum(header, payload) {
				return "", nil, ErrVerification
			}
			desc, ok := registry.LookupXPKInner(header.Inner4CC)
			if !ok {
				return "", nil, ErrUnknownFormat
			}
			if desc.Recursive {
				cur = payload
				continue
			}
			d, nerr := desc.New(payload)
			if nerr != nil {
				return "", nil, errors.Wrapf(ErrInvalidFormat, "%s: %v", desc.Name, nerr)
			}
			return desc.Name, d, nil
		}

		header, herr := bigEndianHeader(cur)
		if herr != nil {
			return "", nil, ErrUnknownFormat
		}
		desc, ok := registry.LookupStandalone(header)
		if !ok {
			return "", nil, ErrUnknownFormat
		}
		d, nerr := desc.New(cur)
		if nerr != nil {
			return "", nil, errors.Wrapf(ErrInvalidFormat, "%s: %v", desc.Name, nerr)
		}
		return desc.Name, d, nil
	}
}

func bigEndianHeader(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, ErrUnknownFormat
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// checkRawSize enforces the raw-buffer-length rule a decoder
// declares: exactly RawSize for formats with SizeExact, at least
// RawSize for formats that merely report a lower bound, and no
// constraint at all for formats (RawSize() < 0) that carry no
// self-declared size.
func checkRawSize(dec registry.Decoder, raw []byte) error {
	want := dec.RawSize()
	if want < 0 {
		return nil
	}
	if dec.SizeExact() {
		if len(raw) != want {
			return errors.Wrapf(ErrRawSizeMismatch, "want exactly %d bytes, got %d", want, len(raw))
		}
		return nil
	}
	if len(raw) < want {
		return errors.Wrapf(ErrRawSizeMismatch, "want at least %d bytes, got %d", want, len(raw))
	}
	return nil
}

// Decompress identifies packed, validates raw's length against the
// detected format's own framing, and decodes into raw. When
// opts.Verify is set and the format carries a checksum, a mismatch
// reports ErrVerification instead of returning the (still-written)
// decoded bytes silently.
func Decompress(packed, raw []byte, opts Options) error {
	_, dec, err := identifyVerify(packed, opts.depth(), opts.Verify)
	if err != nil {
		return err
	}
	if err := checkRawSize(dec, raw); err != nil {
		return err
	}
	if err := dec.Decompress(raw, opts.Verify); err != nil {
		return errors.Wrapf(ErrDecompression, "%v", err)
	}
	return nil
}

// PackedSize reports how many bytes of packed a format actually
// consumes, for the formats that declare it (MMCMP and IMP). HFMN,
// LZW4, and LZBS decode until the raw buffer is full without ever
// recording how much packed input that took, so PackedSize reports
// ErrPackedSizeUnsupported for them rather than guessing.
func PackedSize(packed []byte) (int, error) {
	_, dec, err := identify(packed, DefaultMaxRecursionDepth)
	if err != nil {
		return 0, err
	}
	ps, ok := dec.(packedSizer)
	if !ok {
		return 0, ErrPackedSizeUnsupported
	}
	return ps.PackedSize(), nil
}

// DetectedFormat reports the name of the format packed would decode
// with (the innermost format's name, for an XPK chain), without
// decoding anything.
func DetectedFormat(packed []byte) (string, bool) {
	name, _, err := identify(packed, DefaultMaxRecursionDepth)
	if err != nil {
		return "", false
	}
	return name, true
}
