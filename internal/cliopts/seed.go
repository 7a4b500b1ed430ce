package cliopts

import (
	"crypto/rand"
	"encoding/hex"
)

// SeedSize is the width of a randquik key in bytes.
const SeedSize = 32

// DecodeSeed turns a -s argument into a 32-byte key. Per spec.md §6, a
// string shorter than 64 hex characters is zero-padded on the right; a
// string longer than that is truncated to the first 32 bytes it decodes
// to. Any non-hex character is a SeedFormat error.
func DecodeSeed(s string) ([SeedSize]byte, error) {
	var key [SeedSize]byte

	raw, err := hex.DecodeString(s)
	if err != nil {
		return key, newErr(SeedFormat, "seed must be a hex string", err)
	}

	copy(key[:], raw)
	return key, nil
}

// GenerateSeed reads a fresh 32-byte key from the OS entropy source.
func GenerateSeed() ([SeedSize]byte, error) {
	var key [SeedSize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return key, newErr(SeedEntropy, "failed to read OS entropy", err)
	}
	return key, nil
}
