package project

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// Digest is a SHA-256 content hash.
type Digest [32]byte

// HashBytes hashes data.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// HashFile hashes the contents of path.
func HashFile(path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, err
	}
	return HashBytes(data), nil
}

// HashString hashes s.
func HashString(s string) Digest {
	return HashBytes([]byte(s))
}

// Combine computes H(content || part1 || part2 ...). Callers pass parts in a
// deterministic order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports whether d is the zero digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Hex is the lowercase hex encoding.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Short is the first 12 hex digits.
func (d Digest) Short() string {
	return d.Hex()[:12]
}
