// Package extract implements the byte-slice payload extractors shared by
// the detector cascade: the various ways carrier protocols spread data
// across the pubkey positions of a P2MS output.
package extract

// Chunk62 recovers the 62-byte Stamps/Counterparty-3-of-N chunk from a
// P2MS output's first two pubkey positions: each contributes bytes [1:32]
// (drops the leading 0x02/0x03 prefix byte and the trailing byte), for 31
// bytes apiece.
func Chunk62(pubkeys [][]byte) ([]byte, bool) {
	if len(pubkeys) < 2 {
		return nil, false
	}
	a, ok := slice31(pubkeys[0])
	if !ok {
		return nil, false
	}
	b, ok := slice31(pubkeys[1])
	if !ok {
		return nil, false
	}
	out := make([]byte, 0, 62)
	out = append(out, a...)
	out = append(out, b...)
	return out, true
}

func slice31(pubkey []byte) ([]byte, bool) {
	if len(pubkey) != 33 {
		return nil, false
	}
	return pubkey[1:32], true
}

// LengthPrefixed recovers data from a P2MS output's second pubkey position
// (index 1), interpreted as a one-byte length L followed by L bytes of
// data (Counterparty 1-of-2/2-of-2, Chancecoin).
func LengthPrefixed(pubkeys [][]byte) ([]byte, bool) {
	if len(pubkeys) < 2 {
		return nil, false
	}
	pos := pubkeys[1]
	if len(pos) < 1 {
		return nil, false
	}
	l := int(pos[0])
	if 1+l > len(pos) {
		return nil, false
	}
	return pos[1 : 1+l], true
}

// OmniPackets recovers the two raw 31-byte Omni Class B packets from a
// P2MS output's pubkey positions 1 and 2: each contributes bytes [1:32].
func OmniPackets(pubkeys [][]byte) [][]byte {
	var packets [][]byte
	for _, idx := range []int{1, 2} {
		if idx >= len(pubkeys) {
			continue
		}
		if p, ok := slice31(pubkeys[idx]); ok {
			packets = append(packets, append([]byte(nil), p...))
		}
	}
	return packets
}

// ConcatAll concatenates every byte of every pubkey position, in order —
// the generic DataStorage extractor.
func ConcatAll(pubkeys [][]byte) []byte {
	var out []byte
	for _, pk := range pubkeys {
		out = append(out, pk...)
	}
	return out
}
