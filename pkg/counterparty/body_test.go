package counterparty

import (
	"encoding/binary"
	"math"
	"testing"
)

func beUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func TestParseSend(t *testing.T) {
	body := append(beUint64(1), beUint64(100000000)...)
	send, ok := ParseSend(body)
	if !ok {
		t.Fatalf("expected ok")
	}
	if send.Asset != "XCP" || send.Quantity != 100000000 {
		t.Fatalf("unexpected send body: %+v", send)
	}
}

func TestParseSendRejectsShortBody(t *testing.T) {
	if _, ok := ParseSend([]byte{0x01, 0x02}); ok {
		t.Fatalf("expected rejection of undersized body")
	}
}

func TestParseBroadcast(t *testing.T) {
	body := make([]byte, 0, 24)
	body = append(body, 0x00, 0x00, 0x00, 0x01) // timestamp
	valBits := math.Float64bits(1.5)
	vb := make([]byte, 8)
	binary.BigEndian.PutUint64(vb, valBits)
	body = append(body, vb...)
	body = append(body, 0x00, 0x00, 0x00, 0x05) // fee_fraction_int
	body = append(body, []byte("hello")...)

	bc, ok := ParseBroadcast(body)
	if !ok {
		t.Fatalf("expected ok")
	}
	if bc.Timestamp != 1 || bc.Value != 1.5 || bc.FeeFraction != 5 || bc.Text != "hello" {
		t.Fatalf("unexpected broadcast body: %+v", bc)
	}
}

// A 26-byte Issuance body with lock/reset bytes <= 1 and a non-empty
// ASCII description at offset 19 must parse as modern, not legacy.
func TestParseIssuancePrefersModernOnAmbiguous26ByteBody(t *testing.T) {
	body := make([]byte, 26)
	binary.BigEndian.PutUint64(body[0:8], 1)          // asset id
	binary.BigEndian.PutUint64(body[8:16], 1000)      // quantity
	body[16] = 1                                      // divisible
	body[17] = 0                                      // lock
	body[18] = 1                                      // reset
	copy(body[19:26], []byte("MYCOIN!"))

	iss, ok := ParseIssuance(body)
	if !ok {
		t.Fatalf("expected ok")
	}
	if iss.Layout != "modern" {
		t.Fatalf("expected modern layout, got %s (desc=%q)", iss.Layout, iss.Description)
	}
	if iss.Description != "MYCOIN!" {
		t.Fatalf("unexpected description: %q", iss.Description)
	}
}

func TestParseIssuanceLegacyWhenByte17Above1(t *testing.T) {
	body := make([]byte, 30)
	binary.BigEndian.PutUint64(body[0:8], 2)
	binary.BigEndian.PutUint64(body[8:16], 5000)
	body[16] = 1
	body[17] = 5 // not boolean-shaped: forces legacy
	binary.BigEndian.PutUint32(body[18:22], 1700000000)
	binary.BigEndian.PutUint32(body[22:26], math.Float32bits(2.5))
	copy(body[26:30], []byte("desc"))

	iss, ok := ParseIssuance(body)
	if !ok {
		t.Fatalf("expected ok")
	}
	if iss.Layout != "legacy" {
		t.Fatalf("expected legacy layout, got %s", iss.Layout)
	}
}

func TestParseIssuanceModernForShortBody(t *testing.T) {
	body := make([]byte, 20)
	binary.BigEndian.PutUint64(body[0:8], 1)
	binary.BigEndian.PutUint64(body[8:16], 10)
	body[16] = 0
	body[17] = 0
	body[18] = 0
	body[19] = 'X'

	iss, ok := ParseIssuance(body)
	if !ok || iss.Layout != "modern" {
		t.Fatalf("expected modern layout for 20-byte body, got %+v ok=%v", iss, ok)
	}
}

func TestParseIssuanceVeryEarlyForShortestBody(t *testing.T) {
	body := make([]byte, 17)
	binary.BigEndian.PutUint64(body[0:8], 1)
	binary.BigEndian.PutUint64(body[8:16], 10)
	body[16] = 1

	iss, ok := ParseIssuance(body)
	if !ok || iss.Layout != "very-early" {
		t.Fatalf("expected very-early layout, got %+v ok=%v", iss, ok)
	}
	if iss.Description != "" {
		t.Fatalf("expected no description in very-early layout")
	}
}

func TestParseIssuanceRejectsTooShortBody(t *testing.T) {
	if _, ok := ParseIssuance(make([]byte, 10)); ok {
		t.Fatalf("expected rejection of a body shorter than 17 bytes")
	}
}
