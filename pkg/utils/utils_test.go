package utils

import (
	"bytes"
	"testing"
)

func TestCompactSizeRoundTripsAcrossAllRanges(t *testing.T) {
	values := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteCompactSize(&buf, v); err != nil {
			t.Fatalf("WriteCompactSize(%d): %v", v, err)
		}
		got, err := ReadCompactSize(&buf)
		if err != nil {
			t.Fatalf("ReadCompactSize(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("expected round-trip of %d, got %d", v, got)
		}
	}
}

func TestDoubleSHA256KnownVector(t *testing.T) {
	// SHA256(SHA256("")) is a well-known constant used throughout Bitcoin tooling.
	const want = "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"
	got := DoubleSHA256(nil)
	if len(got) != 32 {
		t.Fatalf("expected a 32-byte digest, got %d bytes", len(got))
	}
	if hexGot := hexEncode(got); hexGot != want {
		t.Fatalf("expected %s, got %s", want, hexGot)
	}
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}

func TestReverseBytes(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	got := ReverseBytes(in)
	want := []byte{4, 3, 2, 1}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestHexToBytesRejectsOddLength(t *testing.T) {
	if _, err := HexToBytes("abc"); err == nil {
		t.Fatalf("expected an error for odd-length hex")
	}
}

func TestHexToBytesDecodesValidHex(t *testing.T) {
	got, err := HexToBytes("deadbeef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestXORDecodeIsInvolution(t *testing.T) {
	key := []byte{0x01, 0x02, 0x03}
	data := []byte("some plaintext bytes of any length")
	once := XORDecode(data, key)
	twice := XORDecode(once, key)
	if !bytes.Equal(twice, data) {
		t.Fatalf("expected XOR decode to be an involution")
	}
}

func TestXORDecodeNoopOnZeroKey(t *testing.T) {
	data := []byte("unchanged")
	got := XORDecode(data, []byte{0, 0, 0})
	if !bytes.Equal(got, data) {
		t.Fatalf("expected an all-zero key to leave data unchanged")
	}
}

func TestReadBitcoinVarIntSingleByte(t *testing.T) {
	buf := bytes.NewReader([]byte{0x05})
	got, err := ReadBitcoinVarInt(buf)
	if err != nil || got != 5 {
		t.Fatalf("expected 5, got %d err=%v", got, err)
	}
}

func TestReadBitcoinVarIntMultiByte(t *testing.T) {
	// 0x81 0x00: continuation byte 0x01 (+1 per the encoding's carry rule),
	// then a final byte of 0x00, yielding ((1+1)<<7)|0 == 256.
	buf := bytes.NewReader([]byte{0x81, 0x00})
	got, err := ReadBitcoinVarInt(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 256 {
		t.Fatalf("expected 256, got %d", got)
	}
}

func TestDecompressAmountZero(t *testing.T) {
	if got := DecompressAmount(0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestDecompressAmountOneBitcoin(t *testing.T) {
	// Per Bitcoin Core's serialize.h scheme, compressed value 9 decompresses
	// to exactly one bitcoin (100,000,000 satoshis).
	if got := DecompressAmount(9); got != 100000000 {
		t.Fatalf("expected 100000000, got %d", got)
	}
}
