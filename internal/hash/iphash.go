// Package hash anonymizes client addresses before they are persisted. Raw IPs
// never reach the database; only a keyed digest does, so stored metadata
// cannot be joined back to an address without the pepper.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// IPHasher produces a stable HMAC-SHA256 digest of a client IP.
type IPHasher struct {
	pepper []byte
}

// NewIPHasher builds a hasher keyed with pepper. An empty pepper disables
// hashing entirely; Hash then returns "" and nothing is stored.
func NewIPHasher(pepper string) *IPHasher {
	return &IPHasher{pepper: []byte(pepper)}
}

func (h *IPHasher) Hash(ip string) string {
	if len(h.pepper) == 0 || ip == "" {
		return ""
	}
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(ip))
	return hex.EncodeToString(mac.Sum(nil))
}
