package xpk

import (
	"errors"

	"github.com/xadcore/decomp/internal/registry"
)

// ChainFourCC is the inner four-character code a container uses when
// its payload is itself another XPK outer container rather than
// format-specific compressed data. The facade recognises the
// Recursive flag on this descriptor and loops back into Unwrap
// instead of constructing a decoder, which is how XPK's nested
// sub-library chaining is expressed without recursive function calls.
const ChainFourCC = 0x58504B43 // "XPKC"

func init() {
	registry.RegisterXPKInner(registry.Descriptor{
		Name:      "chain",
		Detect:    func(header uint32) bool { return header == ChainFourCC },
		Recursive: true,
		New: func(payload []byte) (registry.Decoder, error) {
			return nil, errors.New("xpk: chain format has no terminal decoder")
		},
	})
}
