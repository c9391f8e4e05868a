package stamps

import (
	"bytes"

	"carrierscope/pkg/crypto"
	"carrierscope/pkg/types"
	"testing"
)

func buildChunk62Pubkeys(plaintext []byte, arcKey []byte) [][]byte {
	if len(plaintext) != 62 {
		panic("test plaintext must be exactly 62 bytes")
	}
	cipher := crypto.Decode(arcKey, plaintext) // ARC4 is symmetric.
	pk0 := make([]byte, 33)
	pk0[0] = 0x02
	copy(pk0[1:32], cipher[:31])
	pk1 := make([]byte, 33)
	pk1[0] = 0x03
	copy(pk1[1:32], cipher[31:62])
	return [][]byte{pk0, pk1}
}

func padTo(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = 'A'
	}
	return out
}

func TestDetectPureStampsClassicPNG(t *testing.T) {
	arcKey := bytes.Repeat([]byte{0x07}, 32)
	// "stamp:" + base64 PNG magic bytes, padded to 62 bytes.
	plaintext := padTo("stamp:iVBORw0KGgo", 62)
	pubkeys := buildChunk62Pubkeys(plaintext, arcKey)
	pubkeys = append(pubkeys, burnKeys[0])

	outputs := []types.P2MSOutput{
		{Vout: 0, RequiredSigs: 1, TotalPubkeys: 3, Pubkeys: pubkeys},
	}

	result, ok := Detect(arcKey, outputs)
	if !ok {
		t.Fatalf("expected Stamps to claim the transaction")
	}
	if result.Transport != types.StampsTransportPure {
		t.Fatalf("expected Pure transport, got %s", result.Transport)
	}
}

func TestDetectDeclinesWithoutBurnKey(t *testing.T) {
	arcKey := bytes.Repeat([]byte{0x07}, 32)
	plaintext := padTo("stamp:hello", 62)
	pubkeys := buildChunk62Pubkeys(plaintext, arcKey)
	notBurn := make([]byte, 33)
	notBurn[0] = 0x02
	notBurn[1] = 0x55
	pubkeys = append(pubkeys, notBurn)

	outputs := []types.P2MSOutput{
		{Vout: 0, RequiredSigs: 1, TotalPubkeys: 3, Pubkeys: pubkeys},
	}

	if _, ok := Detect(arcKey, outputs); ok {
		t.Fatalf("expected decline without a canonical burn key at position 2")
	}
}

func TestDetectFallsBackToUnknownWithBurnKeyButNoSignature(t *testing.T) {
	arcKey := bytes.Repeat([]byte{0x07}, 32)
	plaintext := padTo("no marker present here at all, just filler", 62)
	pubkeys := buildChunk62Pubkeys(plaintext, arcKey)
	pubkeys = append(pubkeys, burnKeys[0])

	outputs := []types.P2MSOutput{
		{Vout: 0, RequiredSigs: 1, TotalPubkeys: 3, Pubkeys: pubkeys},
	}

	result, ok := Detect(arcKey, outputs)
	if !ok {
		t.Fatalf("expected burn-key-only fallback to still claim")
	}
	if result.Variant != "Unknown" {
		t.Fatalf("expected Unknown variant, got %s", result.Variant)
	}
}

// Path A must decline (falling through to Unknown) whenever the
// decoded stream also contains a CNTRPRTY marker.
func TestDetectPureRejectsWhenCounterpartyMarkerPresent(t *testing.T) {
	arcKey := bytes.Repeat([]byte{0x07}, 32)
	plaintext := padTo("stamp:CNTRPRTYhello", 62)
	pubkeys := buildChunk62Pubkeys(plaintext, arcKey)
	pubkeys = append(pubkeys, burnKeys[0])

	outputs := []types.P2MSOutput{
		{Vout: 0, RequiredSigs: 1, TotalPubkeys: 3, Pubkeys: pubkeys},
	}

	result, ok := Detect(arcKey, outputs)
	if !ok {
		t.Fatalf("expected a result (falls through to Path B or Unknown)")
	}
	if result.Transport == types.StampsTransportPure && result.Variant != "Unknown" {
		t.Fatalf("Path A must not claim a payload containing the CNTRPRTY marker")
	}
}

func TestClaimantsRequiresExactly1of3WithBurnKey(t *testing.T) {
	pk := func(prefix byte) []byte {
		b := make([]byte, 33)
		b[0] = prefix
		return b
	}
	outputs := []types.P2MSOutput{
		{Vout: 0, RequiredSigs: 2, TotalPubkeys: 3, Pubkeys: [][]byte{pk(0x02), pk(0x02), burnKeys[0]}},
		{Vout: 1, RequiredSigs: 1, TotalPubkeys: 3, Pubkeys: [][]byte{pk(0x02), pk(0x02), burnKeys[0]}},
	}
	claiming := claimants(outputs)
	if len(claiming) != 1 || claiming[0].Vout != 1 {
		t.Fatalf("expected only the 1-of-3 output to qualify, got %+v", claiming)
	}
}
