package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestARC4KeyDecodesFullLengthHex(t *testing.T) {
	hexTxid := strings.Repeat("ab", 32)
	key := ARC4Key(hexTxid)
	if key == nil {
		t.Fatalf("expected a 32-byte key, got nil")
	}
	if len(key) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(key))
	}
	for _, b := range key {
		if b != 0xab {
			t.Fatalf("expected every byte to be 0xab, got %#x", b)
		}
	}
}

func TestARC4KeyRejectsWrongLength(t *testing.T) {
	if key := ARC4Key("abcd"); key != nil {
		t.Fatalf("expected nil for short hex, got %v", key)
	}
	if key := ARC4Key(strings.Repeat("zz", 32)); key != nil {
		t.Fatalf("expected nil for non-hex input, got %v", key)
	}
}

// ARC4 must be an involution: decrypting twice with the same key
// recovers the original input.
func TestARC4IsInvolution(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	inputs := [][]byte{
		[]byte("a"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte{0x00}, 62),
		bytes.Repeat([]byte{0xFF}, 1),
	}
	for _, in := range inputs {
		once := Decode(key, in)
		twice := Decode(key, once)
		if !bytes.Equal(twice, in) {
			t.Fatalf("ARC4 not an involution for %x: got %x", in, twice)
		}
	}
}

func TestDecodeRejectsEmptyKeyOrData(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 32)
	if out := Decode(nil, []byte("x")); out != nil {
		t.Fatalf("expected nil for empty key, got %v", out)
	}
	if out := Decode(key, nil); out != nil {
		t.Fatalf("expected nil for empty data, got %v", out)
	}
}

func TestDecodeChunksRekeysEachChunkIndependently(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	chunk := bytes.Repeat([]byte{0x00}, 10)
	chunks := [][]byte{chunk, chunk}
	out := DecodeChunks(key, chunks)
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(out))
	}
	if !bytes.Equal(out[0], out[1]) {
		t.Fatalf("expected identical chunks to decode identically when independently re-keyed: %x vs %x", out[0], out[1])
	}
}
