package objects

import (
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/multiformats/go-multihash"
)

// DefaultHash is the multihash function name used when none is configured.
const DefaultHash = "sha2-256"

// supportedHashes are the multihash names accepted for object identity.
var supportedHashes = []string{"sha1", "sha2-256", "sha2-512", "sha3-256", "blake3"}

// Hasher derives object identities. An identity is the lowercase hex of the
// raw digest, so it stays compatible with plain sha256 checksums.
type Hasher struct {
	name   string
	code   uint64
	length int
}

// NewHasher returns a hasher for the given multihash function name.
func NewHasher(name string) (*Hasher, error) {
	if name == "" {
		name = DefaultHash
	}
	if !slices.Contains(supportedHashes, name) {
		return nil, fmt.Errorf("unsupported hash function %q (supported: %v)", name, supportedHashes)
	}
	code, ok := multihash.Names[name]
	if !ok {
		return nil, fmt.Errorf("hash function %q not registered", name)
	}
	h := &Hasher{name: name, code: code}
	probe, err := h.Sum(nil)
	if err != nil {
		return nil, err
	}
	h.length = len(probe)
	return h, nil
}

// Name returns the multihash function name.
func (h *Hasher) Name() string { return h.name }

// Sum returns the hex identity of data.
func (h *Hasher) Sum(data []byte) (string, error) {
	mh, err := multihash.Sum(data, h.code, -1)
	if err != nil {
		return "", fmt.Errorf("multihash %s: %w", h.name, err)
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return "", fmt.Errorf("decode multihash: %w", err)
	}
	return hex.EncodeToString(decoded.Digest), nil
}

// Valid reports whether id has the shape of an identity produced by h.
func (h *Hasher) Valid(id string) bool {
	if len(id) != h.length {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
