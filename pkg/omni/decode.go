// Package omni decodes Omni Layer (Class B) carrier transactions: packets
// obfuscated with a SHA-256 keystream derived from the sending address,
// spread two-per-output across P2MS pubkey positions 1 and 2.
package omni

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"carrierscope/pkg/extract"
	"carrierscope/pkg/types"
)

// ExodusAddress is the canonical Omni Layer Exodus address. Its presence as
// a P2PKH output in the transaction is the exclusive transport signal that
// gates Omni detection.
const ExodusAddress = "1EXoDusjGwvnjZUyKkxZ4UHEf77z6A5S4P"

type sequencedPacket struct {
	seq  byte
	data []byte
}

// Detect implements the Omni Layer detector. hasExodusOutput must be true
// (computed by the caller from the transaction's output addresses) or
// Detect declines immediately. sender is the resolved source address (the
// input address with the largest summed value).
func Detect(hasExodusOutput bool, sender string, outputs []types.P2MSOutput) (*types.Omni, bool) {
	if !hasExodusOutput || sender == "" {
		return nil, false
	}

	var rawPackets [][]byte
	for _, o := range outputs {
		rawPackets = append(rawPackets, extract.OmniPackets(o.Pubkeys)...)
	}
	if len(rawPackets) == 0 {
		return nil, false
	}

	var accepted []sequencedPacket
	chainStart := sha256.Sum256([]byte(sender))

	for _, packet := range rawPackets {
		if seq, payload, ok := deobfuscate(packet, chainStart); ok {
			accepted = append(accepted, sequencedPacket{seq, payload})
		}
	}
	if len(accepted) == 0 {
		return nil, false
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].seq < accepted[j].seq })

	var message []byte
	for _, p := range accepted {
		message = append(message, p.data...)
	}
	if len(message) < 4 {
		return nil, false
	}

	version := uint16(message[0])<<8 | uint16(message[1])
	msgType := uint16(message[2])<<8 | uint16(message[3])
	payload := message[4:]

	return &types.Omni{
		MessageType: msgType,
		MessageName: messageTypeName(msgType),
		Version:     version,
		Sender:      sender,
		Packets:     len(accepted),
		Payload:     payload,
	}, true
}

// deobfuscate brute-forces the sequence number s in 1..255 for a single
// 31-byte packet: the keystream is sha256 applied s-1 more times to
// chainStart (itself sha256 of the sender's ASCII bytes), hex-uppercased
// between iterations, and the candidate is accepted iff XORing the
// keystream's first 31 bytes into the packet yields a first byte equal to
// s.
func deobfuscate(packet []byte, chainStart [32]byte) (byte, []byte, bool) {
	if len(packet) != 31 {
		return 0, nil, false
	}

	digest := chainStart
	for s := 1; s <= 255; s++ {
		candidate := make([]byte, 31)
		for i := 0; i < 31; i++ {
			candidate[i] = packet[i] ^ digest[i]
		}
		if candidate[0] == byte(s) {
			return byte(s), candidate[1:], true
		}
		hexUpper := strings.ToUpper(hex.EncodeToString(digest[:]))
		digest = sha256.Sum256([]byte(hexUpper))
	}
	return 0, nil, false
}

func messageTypeName(id uint16) string {
	switch id {
	case 0:
		return "SimpleSend"
	case 3:
		return "SendToOwners"
	case 50:
		return "CreatePropertyFixed"
	case 51:
		return "CreatePropertyVariable"
	case 55:
		return "CreatePropertyManual"
	case 65:
		return "CloseCrowdsale"
	case 20:
		return "Grant"
	case 21:
		return "Revoke"
	case 22:
		return "ChangeIssuer"
	case 25:
		return "EnableFreezing"
	case 26:
		return "DisableFreezing"
	case 185:
		return "FreezeProperty"
	case 186:
		return "UnfreezeProperty"
	default:
		return fmt.Sprintf("Unknown(%d)", id)
	}
}
