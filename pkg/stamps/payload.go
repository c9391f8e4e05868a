package stamps

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// dataURIPrefixes are stripped from the start of a recovered payload
// before further processing.
var dataURIPrefixes = []string{";base64,", ";base64"}

func stripDataURI(s string) string {
	if idx := strings.Index(s, "data:"); idx == 0 {
		for _, marker := range dataURIPrefixes {
			if mi := strings.Index(s, marker); mi >= 0 {
				return s[mi+len(marker):]
			}
		}
	}
	return s
}

// ExtractPayload implements the shared "payload extraction after signature
// match" rule: given the decoded buffer, the matched signature literal and
// its offset, recover the raw payload bytes.
func ExtractPayload(decoded []byte, sigOffset int, sig string) []byte {
	sigLen := len(sig)

	switch {
	case sigOffset == 0:
		rest := string(decoded[sigLen:])
		return []byte(stripDataURI(rest))

	case sigOffset == 2:
		if sigOffset+sigLen <= len(decoded) {
			total := int(decoded[0])<<8 | int(decoded[1])
			end := sigOffset + total
			if end > len(decoded) {
				end = len(decoded)
			}
			if total >= sigLen && end >= sigOffset+sigLen {
				return decoded[sigOffset+sigLen : end]
			}
		}
		return decoded[sigOffset+sigLen:]

	default:
		// Counterparty-transported case: treat every byte as a Latin-1
		// code point, strip any data-URI prefix, then keep only base64
		// alphabet characters.
		rest := string(decoded[sigOffset+sigLen:])
		rest = stripDataURI(rest)
		return cleanBase64(rest)
	}
}

func cleanBase64(s string) []byte {
	var filtered []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '+' || c == '/' || c == '=' {
			filtered = append(filtered, c)
		}
	}
	if last := bytes.LastIndexByte(filtered, '='); last >= 0 {
		filtered = filtered[:last+1]
	}
	// Collapse all but the trailing up-to-two '=' characters: concatenated
	// base64 segments from multiple chunks accumulate stray intermediate
	// padding.
	trimmed := bytes.TrimRight(filtered, "=")
	pad := len(filtered) - len(trimmed)
	if pad > 2 {
		pad = 2
	}
	trimmed = bytes.ReplaceAll(trimmed, []byte("="), nil)
	out := make([]byte, 0, len(trimmed)+pad)
	out = append(out, trimmed...)
	for i := 0; i < pad; i++ {
		out = append(out, '=')
	}
	return out
}

// LenientBase64Decode attempts a padding-tolerant base64 decode, trying
// standard and then raw (no-padding) encodings.
func LenientBase64Decode(data []byte) ([]byte, bool) {
	if decoded, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
		return decoded, true
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(string(data), "=")); err == nil {
		return decoded, true
	}
	return nil, false
}
