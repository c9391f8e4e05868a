// Package ppk decodes PPk carrier transactions: data gated behind a fixed
// marker pubkey at P2MS position 2, using either an RT TLV scheme, a
// registration encoding, or a loose free-text message encoding.
package ppk

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"carrierscope/pkg/extract"
	"carrierscope/pkg/types"
)

var markerPubkey = mustDecodeHex("0320a0de360cc2ae8672db7d557086a4e7c8eca062c0a5a4ba9922dee0aacf3e12")

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// HasMarker reports whether a P2MS output's pubkey position 2 equals the
// PPk marker pubkey.
func HasMarker(pubkeys [][]byte) bool {
	return len(pubkeys) > 2 && bytes.Equal(pubkeys[2], markerPubkey)
}

// Detect implements the PPk detector across every marked P2MS output's
// concatenated extracted data.
func Detect(outputs []types.P2MSOutput) (*types.PPk, bool) {
	var marked []types.P2MSOutput
	for _, o := range outputs {
		if HasMarker(o.Pubkeys) {
			marked = append(marked, o)
		}
	}
	if len(marked) == 0 {
		return nil, false
	}

	var concat []byte
	for _, o := range marked {
		concat = append(concat, extract.ConcatAll(o.Pubkeys)...)
	}

	if payload, contentType, ok := tryRT(concat); ok {
		return &types.PPk{Variant: "Profile", ContentType: contentType, Payload: payload}, true
	}
	if isRegistration(concat) {
		return &types.PPk{Variant: "Registration", ContentType: "application/json", Payload: concat}, true
	}
	if isMessage(concat) {
		return &types.PPk{Variant: "Message", ContentType: "text/plain", Payload: concat}, true
	}

	return &types.PPk{Variant: "Unknown", ContentType: "application/octet-stream", Payload: concat}, true
}

// tryRT scans for the RT TLV tag [0x52 0x54][L:1][JSON:L] anywhere in data.
func tryRT(data []byte) ([]byte, string, bool) {
	for i := 0; i+3 <= len(data); i++ {
		if data[i] != 0x52 || data[i+1] != 0x54 {
			continue
		}
		l := int(data[i+2])
		start := i + 3
		if start+l > len(data) {
			continue
		}
		payload := data[start : start+l]
		return payload, "application/json", true
	}
	return nil, "", false
}

func isRegistration(data []byte) bool {
	s := string(data)
	return strings.Contains(s, "\"") && strings.Contains(s, "}") && containsQuotedDecimal(s)
}

func containsQuotedDecimal(s string) bool {
	inQuote := false
	digits := 0
	for _, c := range s {
		switch {
		case c == '"':
			if inQuote && digits > 0 {
				return true
			}
			inQuote = !inQuote
			digits = 0
		case c >= '0' && c <= '9' && inQuote:
			digits++
		default:
			if inQuote {
				digits = 0
			}
		}
	}
	return false
}

func isMessage(data []byte) bool {
	s := string(data)
	if strings.Contains(s, "PPk") || strings.Contains(s, "ppk") {
		return true
	}
	if len(data) == 0 {
		return false
	}
	printable := 0
	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			printable++
		}
	}
	return float64(printable)/float64(len(data)) >= 0.8
}

// Odin constructs the `ppk:<block_height>.<tx_index>/<dss>` ODIN
// identifier from caller-supplied block context. The decoder never
// fabricates a block height; callers without that context simply omit the
// identifier.
func Odin(blockHeight, txIndex int, dss string) string {
	return fmt.Sprintf("ppk:%d.%d/%s", blockHeight, txIndex, dss)
}
