// Package ecpoint validates whether pubkey-shaped byte strings are real
// secp256k1 points, the test every detector past the cascade's burn-key gate
// relies on to tell a real signer's key apart from data parked in pubkey
// position.
package ecpoint

import (
	"github.com/btcsuite/btcd/btcec/v2"
)

// IsValid reports whether data parses as a valid compressed (33-byte) or
// uncompressed (65-byte) secp256k1 public key, i.e. an actual point on the
// curve rather than arbitrary bytes with the right length and prefix.
func IsValid(data []byte) bool {
	switch len(data) {
	case 33:
		if data[0] != 0x02 && data[0] != 0x03 {
			return false
		}
	case 65:
		if data[0] != 0x04 {
			return false
		}
	default:
		return false
	}
	_, err := btcec.ParsePubKey(data)
	return err == nil
}

// HasDuplicates reports whether any pubkey (by exact byte content) appears
// more than once across the given groups of pubkeys — wallets that reuse a
// multisig signer key across several P2MS outputs in the same transaction
// are a known bug fingerprint, not a protocol signal.
func HasDuplicates(groups [][][]byte) bool {
	seen := make(map[string]struct{})
	for _, group := range groups {
		for _, pk := range group {
			key := string(pk)
			if _, ok := seen[key]; ok {
				return true
			}
			seen[key] = struct{}{}
		}
	}
	return false
}

// AllValid reports whether every pubkey across every group is a valid EC
// point and the groups are non-empty.
func AllValid(groups [][][]byte) bool {
	any := false
	for _, group := range groups {
		for _, pk := range group {
			any = true
			if !IsValid(pk) {
				return false
			}
		}
	}
	return any
}

// AnyInvalid reports whether at least one pubkey across the groups fails EC
// point validation.
func AnyInvalid(groups [][][]byte) bool {
	for _, group := range groups {
		for _, pk := range group {
			if !IsValid(pk) {
				return true
			}
		}
	}
	return false
}
