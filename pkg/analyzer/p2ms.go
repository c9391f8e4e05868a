package analyzer

// MultisigInfo holds the recovered (M, N, pubkeys) of a P2MS output.
//
// Pubkeys are kept in script order; a "pubkey" position need not actually
// hold a valid EC point — carrier protocols routinely park arbitrary data
// where a real pubkey would go. Downstream consumers decide validity.
type MultisigInfo struct {
	RequiredSigs int
	TotalPubkeys int
	Pubkeys      [][]byte
	Nonstandard  bool
}

// ParseP2MS attempts to recover M-of-N multisig metadata from a scriptPubKey.
//
// It tries the standard template first (OP_M <pubkey>* OP_N OP_CHECKMULTISIG,
// every pubkey push either 33 or 65 bytes). Failing that, and only if the
// script still ends in OP_CHECKMULTISIG (0xAE), it falls back to a lenient
// walk that accepts arbitrary short pushes in pubkey position — this is what
// lets Stamps/Counterparty/Chancecoin/PPk data show up as "nonstandard"
// multisig in the first place.
func ParseP2MS(script []byte) (MultisigInfo, bool) {
	if info, ok := parseStandardP2MS(script); ok {
		return info, true
	}
	return parseLenientP2MS(script)
}

func isSmallInt(op byte) (int, bool) {
	if op >= 0x51 && op <= 0x60 {
		return int(op) - 0x50, true
	}
	return 0, false
}

// parseStandardP2MS requires every position to be a proper 33/65-byte EC
// point push and the opcode stream to be exactly OP_M, N pushes, OP_N,
// OP_CHECKMULTISIG with nothing else.
func parseStandardP2MS(script []byte) (MultisigInfo, bool) {
	if len(script) < 3 || script[len(script)-1] != 0xae {
		return MultisigInfo{}, false
	}
	m, ok := isSmallInt(script[0])
	if !ok {
		return MultisigInfo{}, false
	}

	i := 1
	var pubkeys [][]byte
	for i < len(script)-2 {
		op := script[i]
		if op != 0x21 && op != 0x41 {
			return MultisigInfo{}, false
		}
		n := int(op)
		i++
		if i+n > len(script) {
			return MultisigInfo{}, false
		}
		pubkeys = append(pubkeys, script[i:i+n])
		i += n
	}

	if i != len(script)-2 {
		return MultisigInfo{}, false
	}
	n, ok := isSmallInt(script[i])
	if !ok || n != len(pubkeys) {
		return MultisigInfo{}, false
	}
	if m < 1 || n < m || n > 20 {
		return MultisigInfo{}, false
	}

	return MultisigInfo{
		RequiredSigs: m,
		TotalPubkeys: n,
		Pubkeys:      pubkeys,
	}, true
}

// parseLenientP2MS walks a nonstandard-but-P2MS-shaped script: optional
// leading small-int M, then any mix of EC-point-shaped pushes (33/65 bytes
// with a valid leading byte) and arbitrary short pushes (<66 bytes), ending
// in a small-int N followed by OP_CHECKMULTISIG. Data-carrying protocols
// exploit exactly this leniency in Bitcoin Core's own script interpreter.
func parseLenientP2MS(script []byte) (MultisigInfo, bool) {
	if len(script) < 2 || script[len(script)-1] != 0xae {
		return MultisigInfo{}, false
	}

	i := 0
	m := 0
	if mm, ok := isSmallInt(script[0]); ok {
		m = mm
		i = 1
	}

	var positions [][]byte
	// Walk pushes up to (but not including) the final two bytes (N, OP_CHECKMULTISIG).
	for i < len(script)-2 {
		op := script[i]
		i++

		var pushLen int
		switch {
		case op >= 0x01 && op <= 0x4b:
			pushLen = int(op)
		case op == 0x4c:
			if i >= len(script) {
				return MultisigInfo{}, false
			}
			pushLen = int(script[i])
			i++
		case op == 0x4d:
			if i+1 >= len(script) {
				return MultisigInfo{}, false
			}
			pushLen = int(script[i]) | int(script[i+1])<<8
			i += 2
		default:
			// Non-push opcode in the middle of the walk: not P2MS-shaped.
			return MultisigInfo{}, false
		}

		if pushLen >= 66 || i+pushLen > len(script) {
			return MultisigInfo{}, false
		}
		positions = append(positions, script[i:i+pushLen])
		i += pushLen
	}

	if i != len(script)-2 {
		return MultisigInfo{}, false
	}
	n, ok := isSmallInt(script[i])
	if !ok {
		return MultisigInfo{}, false
	}
	if m == 0 {
		m = 1
	}
	if n == 0 || len(positions) == 0 {
		return MultisigInfo{}, false
	}

	return MultisigInfo{
		RequiredSigs: m,
		TotalPubkeys: n,
		Pubkeys:      positions,
		Nonstandard:  true,
	}, true
}

// IsPubkeyShaped reports whether a pushed element looks like a compressed or
// uncompressed EC point by length and leading byte (does not validate the
// point is actually on the curve; see pkg/ecpoint for that).
func IsPubkeyShaped(data []byte) bool {
	switch len(data) {
	case 33:
		return data[0] == 0x02 || data[0] == 0x03
	case 65:
		return data[0] == 0x04
	default:
		return false
	}
}
