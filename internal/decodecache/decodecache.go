// Package decodecache is an optional, admission-controlled cache for
// expensive decode results, generalizing the block-stepper caching in
// decompressioncache into a one-shot "decode once, remember by
// content hash" shape: callers hash their own packed buffer, ask the
// cache for that key, and supply a decode closure that only runs on a
// miss. Unlike decompressioncache's incremental checkpoint stepping
// (built for io.ReaderAt over a single, still-being-read archive),
// this cache keys whole decoded outputs by content so the same packed
// buffer decoded from two different call sites shares one entry.
//
// The facade's Decompress/PackedSize/DetectedFormat functions never
// use this cache themselves, so that package stays a pure function of
// (packed, options); Cache is exposed for callers who decode the same
// buffers repeatedly and want to pay the decode cost once.
package decodecache

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// Cache wraps a size-bounded, frequency-admission-controlled LFU
// store. Unlike tinylfu.T itself, Cache is safe for concurrent use:
// every call locks around the single shared instance, matching the
// coarse, whole-store locking decompressioncache uses around its own
// bigcache handle.
type Cache struct {
	mu  sync.Mutex
	lfu *tinylfu.T
}

// New creates a Cache able to admit approximately size entries. The
// TinyLFU sketch is sized at 10x samples per the package's own
// defaults, matching the ratio in its README.
func New(size int) *Cache {
	return &Cache{lfu: tinylfu.New(size, size*10)}
}

// Key hashes a packed buffer into the identifier Get expects.
// xxhash gives a cheap, well-distributed 64-bit digest, the same
// hash family the teacher module already depends on.
func Key(packed []byte) uint64 {
	return xxhash.Sum64(packed)
}

// Get returns the cached decode of key, running decode and storing
// its result on a miss. A decode error is never cached, so a
// transient failure doesn't poison future lookups of the same key.
func (c *Cache) Get(key uint64, decode func() ([]byte, error)) ([]byte, error) {
	k := strconv.FormatUint(key, 36)

	c.mu.Lock()
	if v, ok := c.lfu.Get(k); ok {
		c.mu.Unlock()
		return v.([]byte), nil
	}
	c.mu.Unlock()

	out, err := decode()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lfu.Add(k, out)
	c.mu.Unlock()
	return out, nil
}
