// Package stamps decodes Bitcoin Stamps carrier transactions: burn-key
// gated 1-of-3 P2MS outputs carrying ARC4-obfuscated chunked payloads,
// optionally transported inside a Counterparty envelope.
package stamps

import (
	"bytes"
	"strings"
)

// burnKeys are the five canonical 33-byte compressed pubkeys that gate
// Stamps claim eligibility: a burn key parked at pubkey position 2 of a
// 1-of-3 multisig output marks it as carrying Stamps data rather than a
// real co-signer.
var burnKeys = [][]byte{
	repeated(0x02, 0x22),
	repeated(0x03, 0x33),
	repeated(0x02, 0x02),
	repeated(0x03, 0x03),
	repeatedTail(0x03, 0x03, 0x01),
}

func repeated(prefix, fill byte) []byte {
	b := make([]byte, 33)
	b[0] = prefix
	for i := 1; i < 33; i++ {
		b[i] = fill
	}
	return b
}

func repeatedTail(prefix, fill, tail byte) []byte {
	b := repeated(prefix, fill)
	b[32] = tail
	return b
}

// IsBurnKey reports whether pubkey matches one of the five canonical
// Stamps burn keys exactly.
func IsBurnKey(pubkey []byte) bool {
	for _, bk := range burnKeys {
		if bytes.Equal(pubkey, bk) {
			return true
		}
	}
	return false
}

// signatureVariants are the Stamps marker strings, checked in this fixed
// priority order: the first variant with any match in a buffer wins, using
// that variant's own lowest offset.
var signatureVariants = []string{"stamp:", "STAMP:", "stamps:", "STAMPS:"}

// FindSignature returns the offset and matched literal of the
// highest-priority Stamps signature variant present in data, or
// ok=false if none are present.
func FindSignature(data []byte) (offset int, sig string, ok bool) {
	s := string(data)
	for _, variant := range signatureVariants {
		if idx := strings.Index(s, variant); idx >= 0 {
			return idx, variant, true
		}
	}
	return 0, "", false
}

// ContainsCounterpartyMarker reports whether data contains the literal
// "CNTRPRTY" marker anywhere.
func ContainsCounterpartyMarker(data []byte) bool {
	return bytes.Contains(data, []byte("CNTRPRTY"))
}
