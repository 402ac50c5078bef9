package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"firerules/internal/analysis"
)

// Digest is a SHA-256 sum.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// CacheKey hashes the normalized file content together with every analysis
// option that changes the diagnostics: H(schema || depth || policy || builtins || content).
func CacheKey(content []byte, opts analysis.Options) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	_, _ = h.Write(buf[:2])
	binary.LittleEndian.PutUint64(buf[:], uint64(opts.MaxDepth))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(opts.Policy.String()))
	_, _ = h.Write([]byte{0})
	for _, name := range opts.Builtins {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0xff})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
