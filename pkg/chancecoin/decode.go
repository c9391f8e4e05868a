// Package chancecoin decodes Chancecoin carrier transactions: unencrypted,
// length-prefixed data at P2MS pubkey position 1, marked with the ASCII
// literal "CHANCECO".
package chancecoin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"carrierscope/pkg/extract"
	"carrierscope/pkg/types"
)

const marker = "CHANCECO"

// Detect implements the Chancecoin detector: concatenates the
// length-prefixed data at pubkey position 1 of every P2MS output (sorted
// by vout) and requires the result to begin with the CHANCECO marker.
func Detect(outputs []types.P2MSOutput) (*types.Chancecoin, bool) {
	sorted := make([]types.P2MSOutput, len(outputs))
	copy(sorted, outputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Vout < sorted[j].Vout })

	var concat []byte
	for _, o := range sorted {
		data, ok := extract.LengthPrefixed(o.Pubkeys)
		if !ok {
			continue
		}
		concat = append(concat, data...)
	}

	if !bytes.HasPrefix(concat, []byte(marker)) {
		return nil, false
	}

	rest := concat[len(marker):]
	if len(rest) < 4 {
		return nil, false
	}
	msgID := binary.BigEndian.Uint32(rest[0:4])
	payload := rest[4:]

	result := &types.Chancecoin{
		MessageType: msgID,
		MessageName: messageTypeName(msgID),
		Payload:     payload,
	}

	if msgID == diceBetMessageID {
		if bet, chance, payout, ok := parseDiceBet(payload); ok {
			result.Bet = &bet
			result.Chance = &chance
			result.Payout = &payout
		}
	}

	return result, true
}

const diceBetMessageID = 40

// parseDiceBet parses a DiceBet body: 8-byte BE bet amount, 8-byte BE
// float64 chance (percent), 8-byte BE float64 payout multiplier.
func parseDiceBet(body []byte) (bet uint64, chance, payout float64, ok bool) {
	if len(body) < 24 {
		return 0, 0, 0, false
	}
	bet = binary.BigEndian.Uint64(body[0:8])
	chance = math.Float64frombits(binary.BigEndian.Uint64(body[8:16]))
	payout = math.Float64frombits(binary.BigEndian.Uint64(body[16:24]))
	return bet, chance, payout, true
}

func messageTypeName(id uint32) string {
	switch id {
	case 0:
		return "Send"
	case 10:
		return "Order"
	case 11:
		return "BTCPay"
	case 20:
		return "Roll"
	case diceBetMessageID:
		return "DiceBet"
	case 41:
		return "PokerBet"
	case 70:
		return "Cancel"
	default:
		return fmt.Sprintf("Unknown(%d)", id)
	}
}
