package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// CacheSchemaVersion salts every fingerprint. Bump it whenever the encoding
// of a cached value changes.
const CacheSchemaVersion = "hdrcost.v1"

// Fingerprint is the hex SHA-256 identity of a cacheable operation.
type Fingerprint string

// NewFingerprint hashes the operation name, the schema salt and the ordered
// arguments. Each part is length-prefixed so ("ab", "c") and ("a", "bc")
// differ.
func NewFingerprint(op string, args ...string) Fingerprint {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte

	write := func(s string) {
		n := binary.PutUvarint(buf[:], uint64(len(s)))
		_, _ = h.Write(buf[:n])
		_, _ = h.Write([]byte(s))
	}

	write(op)
	write(CacheSchemaVersion)
	for _, arg := range args {
		write(arg)
	}

	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Shard returns the directory prefix the entry is stored under.
func (f Fingerprint) Shard() string {
	if f == "" {
		return ""
	}
	return string(f[:1])
}

func (f Fingerprint) String() string {
	return string(f)
}
