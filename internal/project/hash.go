package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 value, same layout as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by parts in the given order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	h.Write(content[:])
	for _, d := range parts {
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashString is the digest of s.
func HashString(s string) Digest { return sha256.Sum256([]byte(s)) }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }
