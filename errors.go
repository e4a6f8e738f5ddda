package decomp

import "errors"

var (
	// ErrUnknownFormat is returned when a packed buffer matches
	// neither a registered standalone magic nor an XPK container.
	ErrUnknownFormat = errors.New("decomp: unrecognized format")

	// ErrInvalidFormat is returned when a buffer is recognized but its
	// framing (header fields, declared sizes, sub-format code) does
	// not parse.
	ErrInvalidFormat = errors.New("decomp: invalid format framing")

	// ErrDecompression is returned when a format's own decode step
	// fails partway through, for example a back-reference that runs
	// off the start of the output buffer or a Huffman code with no
	// matching leaf.
	ErrDecompression = errors.New("decomp: decompression failed")

	// ErrVerification is returned when Options.Verify is set and a
	// format's own checksum does not match its decoded output.
	ErrVerification = errors.New("decomp: checksum verification failed")

	// ErrRecursionLimit is returned when an XPK chain nests deeper
	// than Options.MaxRecursionDepth.
	ErrRecursionLimit = errors.New("decomp: XPK chain exceeds recursion limit")

	// ErrRawSizeMismatch is returned when the caller's raw buffer
	// length disagrees with what the format requires: wrong length
	// for a format with SizeExact, or too short for one without.
	ErrRawSizeMismatch = errors.New("decomp: raw buffer size mismatch")

	// ErrPackedSizeUnsupported is returned by PackedSize for formats
	// that carry no self-declared packed size (HFMN, LZW4, and LZBS
	// all decode until the raw buffer is full rather than recording
	// how many packed bytes that took).
	ErrPackedSizeUnsupported = errors.New("decomp: format does not declare a packed size")
)
