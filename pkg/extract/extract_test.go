package extract

import (
	"bytes"
	"testing"
)

func pubkey(prefix byte, fill byte) []byte {
	b := make([]byte, 33)
	b[0] = prefix
	for i := 1; i < 33; i++ {
		b[i] = fill
	}
	return b
}

func TestChunk62DropsPrefixAndLastByte(t *testing.T) {
	a := pubkey(0x02, 0xAA)
	b := pubkey(0x03, 0xBB)
	chunk, ok := Chunk62([][]byte{a, b})
	if !ok {
		t.Fatalf("expected ok")
	}
	if len(chunk) != 62 {
		t.Fatalf("expected 62 bytes, got %d", len(chunk))
	}
	if !bytes.Equal(chunk[:31], bytes.Repeat([]byte{0xAA}, 31)) {
		t.Fatalf("expected first 31 bytes to be the fill byte of pubkey a")
	}
	if !bytes.Equal(chunk[31:], bytes.Repeat([]byte{0xBB}, 31)) {
		t.Fatalf("expected second 31 bytes to be the fill byte of pubkey b")
	}
}

func TestChunk62RejectsWrongLengthPubkeys(t *testing.T) {
	short := []byte{0x02, 0x01}
	if _, ok := Chunk62([][]byte{short, short}); ok {
		t.Fatalf("expected Chunk62 to reject undersized pubkeys")
	}
	if _, ok := Chunk62([][]byte{pubkey(0x02, 0x01)}); ok {
		t.Fatalf("expected Chunk62 to reject fewer than 2 positions")
	}
}

func TestLengthPrefixedReadsFromPositionOne(t *testing.T) {
	pos0 := pubkey(0x02, 0x00)
	pos1 := append([]byte{5, 'h', 'e', 'l', 'l', 'o'}, bytes.Repeat([]byte{0}, 27)...)
	data, ok := LengthPrefixed([][]byte{pos0, pos1})
	if !ok {
		t.Fatalf("expected ok")
	}
	if string(data) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", data)
	}
}

func TestLengthPrefixedRejectsOverrunLength(t *testing.T) {
	pos0 := pubkey(0x02, 0x00)
	pos1 := []byte{200, 1, 2, 3}
	if _, ok := LengthPrefixed([][]byte{pos0, pos1}); ok {
		t.Fatalf("expected rejection when declared length exceeds available bytes")
	}
}

func TestOmniPacketsRecoversTwo31ByteSlices(t *testing.T) {
	p0 := pubkey(0x02, 0x00)
	p1 := pubkey(0x02, 0x11)
	p2 := pubkey(0x03, 0x22)
	packets := OmniPackets([][]byte{p0, p1, p2})
	if len(packets) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(packets))
	}
	if len(packets[0]) != 31 || len(packets[1]) != 31 {
		t.Fatalf("expected 31-byte packets, got %d and %d", len(packets[0]), len(packets[1]))
	}
	if !bytes.Equal(packets[0], bytes.Repeat([]byte{0x11}, 31)) {
		t.Fatalf("unexpected packet 0 content: %x", packets[0])
	}
}

func TestOmniPacketsMissingPositionsAreSkipped(t *testing.T) {
	p0 := pubkey(0x02, 0x00)
	packets := OmniPackets([][]byte{p0})
	if len(packets) != 0 {
		t.Fatalf("expected no packets when positions 1/2 are absent, got %d", len(packets))
	}
}

func TestConcatAllPreservesOrder(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	out := ConcatAll([][]byte{a, b})
	if !bytes.Equal(out, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected concat order: %v", out)
	}
}

// Concatenating per-output extractions in vout order must equal
// extracting from the whole set at once.
func TestChunk62AssociativeAcrossOutputs(t *testing.T) {
	out1 := [][]byte{pubkey(0x02, 0x01), pubkey(0x03, 0x02)}
	out2 := [][]byte{pubkey(0x02, 0x03), pubkey(0x03, 0x04)}

	c1, _ := Chunk62(out1)
	c2, _ := Chunk62(out2)
	whole := append(append([]byte{}, c1...), c2...)

	var stepwise []byte
	for _, o := range [][][]byte{out1, out2} {
		c, ok := Chunk62(o)
		if !ok {
			t.Fatalf("expected ok")
		}
		stepwise = append(stepwise, c...)
	}
	if !bytes.Equal(whole, stepwise) {
		t.Fatalf("expected associative concatenation")
	}
}
