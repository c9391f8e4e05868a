package analyzer

import "testing"

func pubkeyPush(prefix byte) []byte {
	b := make([]byte, 33)
	b[0] = prefix
	return b
}

func standard1of3Script() []byte {
	script := []byte{0x51} // OP_1
	for i := 0; i < 3; i++ {
		pk := pubkeyPush(0x02)
		script = append(script, 0x21)
		script = append(script, pk...)
	}
	script = append(script, 0x53, 0xae) // OP_3 OP_CHECKMULTISIG
	return script
}

func TestParseP2MSStandardRecoversMOfN(t *testing.T) {
	info, ok := ParseP2MS(standard1of3Script())
	if !ok {
		t.Fatalf("expected a standard P2MS match")
	}
	if info.RequiredSigs != 1 || info.TotalPubkeys != 3 || len(info.Pubkeys) != 3 {
		t.Fatalf("unexpected multisig info: %+v", info)
	}
	if info.Nonstandard {
		t.Fatalf("expected the standard template to not be flagged nonstandard")
	}
}

func TestParseP2MSStandardRejectsNonPubkeySizedPush(t *testing.T) {
	script := []byte{0x51, 0x05, 1, 2, 3, 4, 5, 0x51, 0xae}
	if _, ok := parseStandardP2MS(script); ok {
		t.Fatalf("expected the standard parser to reject a non-33/65-byte push")
	}
}

func TestParseP2MSLenientAcceptsArbitraryShortPush(t *testing.T) {
	arbitraryData := []byte("arbitrary-carrier-payload-bytes")
	script := []byte{0x51, 0x21}
	script = append(script, pubkeyPush(0x02)...)
	script = append(script, byte(len(arbitraryData)))
	script = append(script, arbitraryData...)
	script = append(script, 0x52, 0xae) // OP_2 OP_CHECKMULTISIG

	info, ok := ParseP2MS(script)
	if !ok {
		t.Fatalf("expected the lenient walk to accept a short non-pubkey push")
	}
	if !info.Nonstandard {
		t.Fatalf("expected Nonstandard to be set for the lenient match")
	}
	if len(info.Pubkeys) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(info.Pubkeys))
	}
}

func TestParseP2MSRejectsScriptNotEndingInCheckMultisig(t *testing.T) {
	script := []byte{0x51, 0x21}
	script = append(script, pubkeyPush(0x02)...)
	script = append(script, 0x51, 0xac) // OP_1 OP_CHECKSIG, not multisig
	if _, ok := ParseP2MS(script); ok {
		t.Fatalf("expected rejection of a script not ending in OP_CHECKMULTISIG")
	}
}

func TestIsPubkeyShapedAcceptsCompressedAndUncompressed(t *testing.T) {
	if !IsPubkeyShaped(pubkeyPush(0x02)) {
		t.Fatalf("expected a 33-byte 0x02-prefixed push to be pubkey-shaped")
	}
	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04
	if !IsPubkeyShaped(uncompressed) {
		t.Fatalf("expected a 65-byte 0x04-prefixed push to be pubkey-shaped")
	}
}

func TestIsPubkeyShapedRejectsWrongLengthOrPrefix(t *testing.T) {
	if IsPubkeyShaped(make([]byte, 10)) {
		t.Fatalf("expected rejection of a short buffer")
	}
	wrongPrefix := pubkeyPush(0x05)
	if IsPubkeyShaped(wrongPrefix) {
		t.Fatalf("expected rejection of an invalid prefix byte")
	}
}
