package counterparty

import (
	"encoding/binary"
	"sort"

	"carrierscope/pkg/crypto"
	"carrierscope/pkg/stamps"
	"carrierscope/pkg/types"
)

const counterpartyMarker = "CNTRPRTY"

// rawChunk returns the bytes extracted for a claiming output, before ARC4
// decryption, per the per-M/N extractor table: 62 bytes from pubkey
// positions 0/1 for 1-of-3/2-of-3/3-of-3 outputs, or the raw bytes of
// pubkey position 1 for 1-of-2/2-of-2 outputs.
func rawChunk(o types.P2MSOutput) ([]byte, bool) {
	switch {
	case o.TotalPubkeys == 3 && len(o.Pubkeys) >= 2:
		a, aok := positionBytes(o.Pubkeys[0])
		b, bok := positionBytes(o.Pubkeys[1])
		if !aok || !bok {
			return nil, false
		}
		out := make([]byte, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return out, true
	case o.TotalPubkeys == 2 && len(o.Pubkeys) >= 2:
		return o.Pubkeys[1], true
	default:
		return nil, false
	}
}

func positionBytes(pubkey []byte) ([]byte, bool) {
	if len(pubkey) != 33 {
		return nil, false
	}
	return pubkey[1:32], true
}

// claimants returns every P2MS output shaped for Counterparty extraction
// (1-of-2, 2-of-2, 1-of-3, 2-of-3, or 3-of-3), sorted by vout.
func claimants(outputs []types.P2MSOutput) []types.P2MSOutput {
	var out []types.P2MSOutput
	for _, o := range outputs {
		if o.TotalPubkeys != 2 && o.TotalPubkeys != 3 {
			continue
		}
		if _, ok := rawChunk(o); ok {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vout < out[j].Vout })
	return out
}

// Detect implements the Counterparty detector's chunked ARC4 decryption
// scheme. It returns a Stamps result instead when the decrypted stream
// turns out to be Stamps-over-Counterparty transport.
func Detect(arcKey []byte, outputs []types.P2MSOutput) (*types.CounterpartyMessage, *types.BitcoinStamps, bool) {
	claiming := claimants(outputs)
	if len(claiming) == 0 {
		return nil, nil, false
	}

	var concat []byte
	for i, o := range claiming {
		raw, ok := rawChunk(o)
		if !ok {
			return nil, nil, false
		}
		decrypted := crypto.Decode(arcKey, raw)
		if len(decrypted) < 1 {
			return nil, nil, false
		}
		l := int(decrypted[0])
		if 1+l > len(decrypted) {
			return nil, nil, false
		}
		data := decrypted[1 : 1+l]
		if i == 0 {
			concat = append(concat, data...)
		} else {
			concat = append(concat, stripMarker(data)...)
		}
	}

	markerOffset, ok := markerPosition(concat)
	if !ok {
		return nil, nil, false
	}

	if stampsResult, ok := stamps.ReentryCandidate(concat); ok {
		return nil, stampsResult, true
	}

	msg := parseMessage(concat[markerOffset:])
	return msg, nil, true
}

func stripMarker(data []byte) []byte {
	if len(data) >= len(counterpartyMarker) && string(data[:len(counterpartyMarker)]) == counterpartyMarker {
		return data[len(counterpartyMarker):]
	}
	return data
}

// markerPosition reports whether the CNTRPRTY marker sits at offset 0 or 1.
func markerPosition(data []byte) (int, bool) {
	if len(data) >= len(counterpartyMarker) && string(data[:len(counterpartyMarker)]) == counterpartyMarker {
		return 0, true
	}
	if len(data) >= 1+len(counterpartyMarker) && string(data[1:1+len(counterpartyMarker)]) == counterpartyMarker {
		return 1, true
	}
	return 0, false
}

// parseMessage reads the CNTRPRTY-prefixed stream: an 8-byte marker, then a
// 4-byte big-endian message type (falling back to a single byte if the
// stream is too short), then dispatches to the matching body parser.
func parseMessage(stream []byte) *types.CounterpartyMessage {
	rest := stream[len(counterpartyMarker):]

	var typeID uint32
	var body []byte
	if len(rest) >= 4 {
		typeID = binary.BigEndian.Uint32(rest[0:4])
		body = rest[4:]
	} else if len(rest) >= 1 {
		typeID = uint32(rest[0])
		body = rest[1:]
	} else {
		typeID = 0
		body = nil
	}

	msg := &types.CounterpartyMessage{
		MessageType:   MessageTypeName(typeID),
		MessageTypeID: typeID,
	}

	switch typeID {
	case 0:
		if send, ok := ParseSend(body); ok {
			msg.Send = send
			return msg
		}
	case 30:
		if bc, ok := ParseBroadcast(body); ok {
			msg.Broadcast = bc
			return msg
		}
	case 20, 21, 22:
		if iss, ok := ParseIssuance(body); ok {
			msg.Issuance = iss
			return msg
		}
	}

	msg.Raw = body
	return msg
}
