package counterparty

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"carrierscope/pkg/types"
)

const legacyIssuanceCutoffTimestamp = 1230768000 // 2009-01-01, the earliest plausible post-genesis unix time

// ParseSend parses a Counterparty Send (message type 0) body: 8-byte BE
// asset ID, 8-byte BE quantity.
func ParseSend(body []byte) (*types.CPSend, bool) {
	if len(body) < 16 {
		return nil, false
	}
	assetID := binary.BigEndian.Uint64(body[0:8])
	qty := binary.BigEndian.Uint64(body[8:16])
	return &types.CPSend{
		AssetID:  assetID,
		Asset:    AssetName(assetID),
		Quantity: qty,
	}, true
}

// ParseBroadcast parses a Counterparty Broadcast (message type 30) body:
// 4-byte BE timestamp, 8-byte BE f64 value, 4-byte BE fee_fraction_int,
// remainder UTF-8 text.
func ParseBroadcast(body []byte) (*types.CPBroadcast, bool) {
	if len(body) < 16 {
		return nil, false
	}
	ts := binary.BigEndian.Uint32(body[0:4])
	bits := binary.BigEndian.Uint64(body[4:12])
	value := float64frombits(bits)
	fee := binary.BigEndian.Uint32(body[12:16])
	text := body[16:]
	return &types.CPBroadcast{
		Timestamp:   ts,
		Value:       value,
		FeeFraction: fee,
		Text:        string(text),
	}, true
}

// ParseIssuance discriminates and parses a Counterparty Issuance
// (message types 20/21/22) body. Format depends on payload length and on
// the content of bytes 17 and 18; the historical block-height cutoff used by the reference implementation
// is not available to a decoder that only sees one transaction, so the
// discrimination relies entirely on byte-content heuristics.
func ParseIssuance(body []byte) (*types.CPIssuance, bool) {
	switch {
	case len(body) >= 26 && body[17] <= 1 && body[18] <= 1:
		modern, modernOK := parseModernIssuance(body)
		legacy, legacyOK := parseLegacyIssuance(body)
		switch {
		case modernOK && !legacyOK:
			return modern, true
		case legacyOK && !modernOK:
			return legacy, true
		case modernOK && legacyOK:
			return pickIssuanceFormat(modern, legacy, body), true
		default:
			return nil, false
		}
	case len(body) >= 26:
		return parseLegacyIssuance(body)
	case len(body) >= 19:
		return parseModernIssuance(body)
	case len(body) >= 17:
		return parseVeryEarlyIssuance(body)
	default:
		return nil, false
	}
}

func pickIssuanceFormat(modern, legacy *types.CPIssuance, body []byte) *types.CPIssuance {
	modernDescValid := utf8.ValidString(modern.Description) && !allZero(descPrefix(modern.Description))
	legacyDescValid := utf8.ValidString(legacy.Description) && !allZero(descPrefix(legacy.Description))

	if modernDescValid && !legacyDescValid {
		return modern
	}
	if legacyDescValid && !modernDescValid {
		return legacy
	}

	// Tiebreak: bytes 18-21 form a plausible post-2009 unix timestamp under
	// the legacy call_date field layout.
	if len(body) >= 22 {
		callDate := uint32FromBE(body[18:22])
		if callDate >= legacyIssuanceCutoffTimestamp {
			return legacy
		}
	}
	// Neither description validates unambiguously: default to legacy.
	return legacy
}

// descPrefix returns up to the first 6 bytes of a description string, the
// slice the ambiguous-26-byte discrimination checks for all-zero bytes.
func descPrefix(desc string) []byte {
	b := []byte(desc)
	if len(b) > 6 {
		b = b[:6]
	}
	return b
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func uint32FromBE(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// parseModernIssuance: Q asset_id, Q quantity, bool divisible, bool lock,
// bool reset, <description>.
func parseModernIssuance(body []byte) (*types.CPIssuance, bool) {
	if len(body) < 19 {
		return nil, false
	}
	assetID := binary.BigEndian.Uint64(body[0:8])
	qty := binary.BigEndian.Uint64(body[8:16])
	divisible := body[16] != 0
	lock := body[17] != 0
	reset := body[18] != 0
	desc := ""
	if len(body) > 19 {
		desc = string(body[19:])
	}
	return &types.CPIssuance{
		AssetID:     assetID,
		Asset:       AssetName(assetID),
		Quantity:    qty,
		Divisible:   divisible,
		Lock:        lock,
		Reset:       reset,
		Description: desc,
		Layout:      "modern",
	}, true
}

// parseLegacyIssuance: Q asset_id, Q quantity, bool divisible, bool
// callable, I call_date, f call_price, <description>.
func parseLegacyIssuance(body []byte) (*types.CPIssuance, bool) {
	if len(body) < 26 {
		return nil, false
	}
	assetID := binary.BigEndian.Uint64(body[0:8])
	qty := binary.BigEndian.Uint64(body[8:16])
	divisible := body[16] != 0
	callable := body[17] != 0
	callDate := binary.BigEndian.Uint32(body[18:22])
	callPrice := float32frombits(binary.BigEndian.Uint32(body[22:26]))
	desc := ""
	if len(body) > 26 {
		desc = string(body[26:])
	}
	return &types.CPIssuance{
		AssetID:     assetID,
		Asset:       AssetName(assetID),
		Quantity:    qty,
		Divisible:   divisible,
		Callable:    callable,
		CallDate:    callDate,
		CallPrice:   callPrice,
		Description: desc,
		Layout:      "legacy",
	}, true
}

// parseVeryEarlyIssuance: Q asset_id, Q quantity, bool divisible, no
// description field at all.
func parseVeryEarlyIssuance(body []byte) (*types.CPIssuance, bool) {
	if len(body) < 17 {
		return nil, false
	}
	assetID := binary.BigEndian.Uint64(body[0:8])
	qty := binary.BigEndian.Uint64(body[8:16])
	divisible := body[16] != 0
	return &types.CPIssuance{
		AssetID:   assetID,
		Asset:     AssetName(assetID),
		Quantity:  qty,
		Divisible: divisible,
		Layout:    "very-early",
	}, true
}

func float64frombits(bits uint64) float64 {
	return math.Float64frombits(bits)
}

func float32frombits(bits uint32) float32 {
	return math.Float32frombits(bits)
}
