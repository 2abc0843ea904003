package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Calculator produces digest sinks for streaming content hashes.
// This abstraction allows for different checksum algorithms.
type Calculator interface {
	// NewDigest returns a fresh sink for one stream of content.
	NewDigest() Digest
}

// Digest accumulates streamed bytes and reports their hex-encoded hash.
// Write never returns an error.
type Digest interface {
	io.Writer

	// Sum returns the hex digest of everything written so far.
	Sum() string
}

// SHA256 implements Calculator using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple
// goroutines. Using value semantics (pass by value) eliminates heap
// allocations.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
// Returns by value to avoid heap allocation (SHA256 is a zero-size type).
func New() SHA256 {
	return SHA256{}
}

// NewDigest returns a streaming SHA-256 sink.
func (c SHA256) NewDigest() Digest {
	return &sha256Digest{h: sha256.New()}
}

// Calculate computes the hex digest of a byte slice in one call.
func (c SHA256) Calculate(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

type sha256Digest struct {
	h hash.Hash
}

func (d *sha256Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

func (d *sha256Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Verify SHA256 implements the interface at compile time
var _ Calculator = SHA256{}
