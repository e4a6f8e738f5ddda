package xpk

import "errors"

var (
	// ErrNotContainer is returned by Unwrap when packed does not begin
	// with the 'XPKF' magic.
	ErrNotContainer = errors.New("xpk: not an XPK container")
	// ErrTruncated is returned when the preamble runs past the end of
	// the supplied buffer.
	ErrTruncated = errors.New("xpk: truncated preamble")
	// ErrBadSize is returned when the declared packed size is smaller
	// than the preamble or larger than the buffer actually supplied.
	ErrBadSize = errors.New("xpk: packed size out of range")
)
