// Package fingerprint computes the password fingerprint stored in the history
// database.
//
// The format is hex(base64(sha512(password))), lowercase, which is what the
// legacy PHP system wrote as bin2hex(base64_encode(hash('sha512', $p, true))).
// Existing rows only match if this stays bit-for-bit identical.
package fingerprint

import (
	"crypto"
	_ "crypto/sha512" // registers SHA-512 with crypto.Hash
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrNoFingerprint means no fingerprint could be computed; callers skip the
// history check and record instead of failing validation.
var ErrNoFingerprint = errors.New("password fingerprint unavailable")

// Hasher computes fingerprints with a configurable digest.
type Hasher struct {
	hash crypto.Hash
}

// New returns the legacy-compatible SHA-512 hasher.
func New() *Hasher {
	return &Hasher{hash: crypto.SHA512}
}

// NewWithHash returns a hasher over h. Unavailable hashes yield ErrNoFingerprint.
func NewWithHash(h crypto.Hash) *Hasher {
	return &Hasher{hash: h}
}

// Fingerprint returns the history fingerprint of password's UTF-8 bytes.
func (h *Hasher) Fingerprint(password string) (string, error) {
	if !h.hash.Available() {
		return "", fmt.Errorf("%w: digest %d not linked", ErrNoFingerprint, h.hash)
	}

	d := h.hash.New()
	d.Write([]byte(password))
	sum := d.Sum(nil)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(encoded, sum)
	return hex.EncodeToString(encoded), nil
}

var legacy = New()

// Of returns the SHA-512 history fingerprint of password.
func Of(password string) (string, error) {
	return legacy.Fingerprint(password)
}
