// Package registry is the format dispatch table: a pair of
// init-populated, read-only-after-init slices mapping a detected
// header (a standalone magic, or an XPK inner four-character code) to
// a constructor for the matching decoder. Every format package
// registers itself from an init() function, so the registries are
// fully populated before any goroutine can observe them and are never
// mutated afterward, the same "build once, read concurrently" shape
// as image.RegisterFormat in the standard library.
package registry

// Decoder is implemented by every format-specific decoder.
type Decoder interface {
	// RawSize reports the format's self-declared raw size, or -1 if
	// the format carries no such framing and the caller's raw buffer
	// length is authoritative instead.
	RawSize() int

	// SizeExact reports whether the caller's raw buffer must have a
	// length exactly equal to RawSize (true for formats that
	// validate their declared size up front), as opposed to merely
	// large enough (false for formats tolerant of trailing padding).
	// Meaningless when RawSize is -1.
	SizeExact() bool

	// Decompress writes the decompressed bytes into raw, which the
	// facade has already validated against RawSize/SizeExact.
	Decompress(raw []byte, verify bool) error
}

// Constructor builds a Decoder from a format's payload bytes: the
// full packed buffer for a standalone format, or the inner payload
// (past the XPK outer preamble) for an XPK sub-format.
type Constructor func(payload []byte) (Decoder, error)

// Descriptor binds a detector to a constructor.
type Descriptor struct {
	Name      string
	Detect    func(header uint32) bool
	New       Constructor
	Recursive bool // true if this format's own payload may itself be an XPK container
}

var (
	standalone []Descriptor
	xpkInner   []Descriptor
)

// RegisterStandalone adds d to the registry consulted for buffers
// that do not begin with the XPK outer magic.
func RegisterStandalone(d Descriptor) {
	standalone = append(standalone, d)
}

// RegisterXPKInner adds d to the registry consulted for the inner
// four-character code carried by an XPK outer container.
func RegisterXPKInner(d Descriptor) {
	xpkInner = append(xpkInner, d)
}

// LookupStandalone returns the first registered standalone descriptor
// whose Detect reports true for header, if any.
func LookupStandalone(header uint32) (Descriptor, bool) {
	for _, d := range standalone {
		if d.Detect(header) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// LookupXPKInner returns the first registered XPK-inner descriptor
// whose Detect reports true for the inner four-character code.
func LookupXPKInner(fourCC uint32) (Descriptor, bool) {
	for _, d := range xpkInner {
		if d.Detect(fourCC) {
			return d, true
		}
	}
	return Descriptor{}, false
}
