package analyzer

import "testing"

func TestClassifyOutputScriptRecognizesStandardTemplates(t *testing.T) {
	cases := []struct {
		name   string
		script []byte
		want   string
	}{
		{"p2pkh", append(append([]byte{0x76, 0xa9, 0x14}, make([]byte, 20)...), 0x88, 0xac), "p2pkh"},
		{"p2sh", append(append([]byte{0xa9, 0x14}, make([]byte, 20)...), 0x87), "p2sh"},
		{"p2wpkh", append([]byte{0x00, 0x14}, make([]byte, 20)...), "p2wpkh"},
		{"p2wsh", append([]byte{0x00, 0x20}, make([]byte, 32)...), "p2wsh"},
		{"p2tr", append([]byte{0x51, 0x20}, make([]byte, 32)...), "p2tr"},
		{"op_return", []byte{0x6a, 0x04, 1, 2, 3, 4}, "op_return"},
		{"empty", []byte{}, "unknown"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyOutputScript(c.script)
			if got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestClassifyOutputScriptRecognizesP2PK(t *testing.T) {
	script := append([]byte{0x21}, pubkeyPush(0x02)...)
	script = append(script, 0xac)
	if got := ClassifyOutputScript(script); got != "p2pk" {
		t.Fatalf("expected p2pk, got %s", got)
	}
}

func TestClassifyOutputScriptFallsBackToP2MS(t *testing.T) {
	if got := ClassifyOutputScript(standard1of3Script()); got != "p2ms" {
		t.Fatalf("expected p2ms, got %s", got)
	}
}

func TestClassifyInputScriptP2TRKeypath(t *testing.T) {
	prevout := append([]byte{0x51, 0x20}, make([]byte, 32)...)
	witness := [][]byte{make([]byte, 64)}
	got := ClassifyInputScript(nil, witness, prevout)
	if got != "p2tr_keypath" {
		t.Fatalf("expected p2tr_keypath, got %s", got)
	}
}

func TestClassifyInputScriptP2WPKH(t *testing.T) {
	prevout := append([]byte{0x00, 0x14}, make([]byte, 20)...)
	witness := [][]byte{make([]byte, 72), make([]byte, 33)}
	got := ClassifyInputScript(nil, witness, prevout)
	if got != "p2wpkh" {
		t.Fatalf("expected p2wpkh, got %s", got)
	}
}

func TestClassifyInputScriptLegacyP2PKH(t *testing.T) {
	prevout := append(append([]byte{0x76, 0xa9, 0x14}, make([]byte, 20)...), 0x88, 0xac)
	scriptSig := []byte{0x47} // non-empty, arbitrary signature push marker
	got := ClassifyInputScript(scriptSig, nil, prevout)
	if got != "p2pkh" {
		t.Fatalf("expected p2pkh, got %s", got)
	}
}

func TestClassifyInputScriptUnknownWhenNothingMatches(t *testing.T) {
	got := ClassifyInputScript(nil, nil, []byte{})
	if got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestDisassembleScriptFormatsPushesAndOpcodes(t *testing.T) {
	script := []byte{0x51, 0x02, 0xAB, 0xCD, 0xae}
	got := DisassembleScript(script)
	want := "OP_1 OP_PUSHBYTES_2 abcd OP_CHECKMULTISIG"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDisassembleScriptEmptyYieldsEmptyString(t *testing.T) {
	if got := DisassembleScript(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestParseOpReturnConcatenatesMultiplePushes(t *testing.T) {
	script := []byte{0x6a, 0x02, 'h', 'i', 0x03, '!', '!', '!'}
	dataHex, dataUtf8, protocol := ParseOpReturn(script)
	if dataHex != "6869212121" {
		t.Fatalf("expected concatenated hex %q, got %q", "6869212121", dataHex)
	}
	if dataUtf8 == nil || *dataUtf8 != "hi!!!" {
		t.Fatalf("expected decoded utf8 %q, got %v", "hi!!!", dataUtf8)
	}
	if protocol != "unknown" {
		t.Fatalf("expected unknown protocol, got %s", protocol)
	}
}

func TestParseOpReturnDetectsOmniMarker(t *testing.T) {
	script := append([]byte{0x6a, 0x04}, []byte{0x6f, 0x6d, 0x6e, 0x69}...)
	_, _, protocol := ParseOpReturn(script)
	if protocol != "omni" {
		t.Fatalf("expected omni protocol tag, got %s", protocol)
	}
}

func TestParseOpReturnRejectsNonOpReturnScript(t *testing.T) {
	dataHex, dataUtf8, protocol := ParseOpReturn([]byte{0x76, 0xa9})
	if dataHex != "" || dataUtf8 != nil || protocol != "unknown" {
		t.Fatalf("expected empty result for a non-OP_RETURN script, got hex=%q utf8=%v proto=%s", dataHex, dataUtf8, protocol)
	}
}
