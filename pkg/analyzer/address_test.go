package analyzer

import "testing"

func TestGetAddressFromScriptP2PKHMainnet(t *testing.T) {
	script := append(append([]byte{0x76, 0xa9, 0x14}, make([]byte, 20)...), 0x88, 0xac)
	addr := GetAddressFromScript(script, "mainnet")
	if addr == nil {
		t.Fatalf("expected a derived address")
	}
	if (*addr)[0] != '1' {
		t.Fatalf("expected a mainnet P2PKH address starting with '1', got %q", *addr)
	}
}

func TestGetAddressFromScriptP2SHTestnet(t *testing.T) {
	script := append(append([]byte{0xa9, 0x14}, make([]byte, 20)...), 0x87)
	addr := GetAddressFromScript(script, "testnet")
	if addr == nil {
		t.Fatalf("expected a derived address")
	}
}

func TestGetAddressFromScriptReturnsNilForOpReturn(t *testing.T) {
	script := []byte{0x6a, 0x04, 1, 2, 3, 4}
	if addr := GetAddressFromScript(script, "mainnet"); addr != nil {
		t.Fatalf("expected nil for an OP_RETURN script, got %q", *addr)
	}
}

func TestGetAddressFromScriptReturnsNilForUnknown(t *testing.T) {
	if addr := GetAddressFromScript(nil, "mainnet"); addr != nil {
		t.Fatalf("expected nil for an unrecognized script, got %q", *addr)
	}
}
