// Package crypto implements the ARC4 pseudonymizing layer that several
// carrier protocols (Bitcoin Stamps, Counterparty) apply to data parked in
// P2MS pubkey positions, keyed off the spending transaction's own first
// input's previous outpoint.
package crypto

// ARC4Key derives the 32-byte stream-cipher key used to de-obfuscate P2MS
// pubkey payloads: the raw bytes of the hex-decoded, display-order txid of
// the transaction's first input's previous output. Returns nil if the
// supplied hex string does not decode to exactly 32 bytes.
func ARC4Key(prevTxidHex string) []byte {
	if len(prevTxidHex) != 64 {
		return nil
	}
	key := make([]byte, 32)
	for i := 0; i < 32; i++ {
		hi, ok1 := hexNibble(prevTxidHex[i*2])
		lo, ok2 := hexNibble(prevTxidHex[i*2+1])
		if !ok1 || !ok2 {
			return nil
		}
		key[i] = hi<<4 | lo
	}
	return key
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ARC4 is a textbook RC4 keystream generator, applied symmetrically:
// decoding and encoding a buffer are the same XOR operation against the
// same running keystream.
type ARC4 struct {
	s    [256]byte
	i, j byte
}

// NewARC4 initializes the RC4 state (key scheduling algorithm) from key.
// Returns nil, false if key is empty or longer than 256 bytes.
func NewARC4(key []byte) (*ARC4, bool) {
	if len(key) == 0 || len(key) > 256 {
		return nil, false
	}
	c := &ARC4{}
	for i := 0; i < 256; i++ {
		c.s[i] = byte(i)
	}
	var j byte
	for i := 0; i < 256; i++ {
		j = j + c.s[i] + key[i%len(key)]
		c.s[i], c.s[j] = c.s[j], c.s[i]
	}
	return c, true
}

// XORKeyStream XORs src with the next len(src) bytes of the keystream,
// writing the result into dst. dst and src may overlap exactly.
func (c *ARC4) XORKeyStream(dst, src []byte) {
	for k, b := range src {
		c.i++
		c.j += c.s[c.i]
		c.s[c.i], c.s[c.j] = c.s[c.j], c.s[c.i]
		dst[k] = b ^ c.s[c.s[c.i]+c.s[c.j]]
	}
}

// Decode applies ARC4 keyed by key to data and returns the result, or nil
// if key is not exactly 32 bytes or data is empty. ARC4 is symmetric: the
// same call encodes or decodes depending on which side data is coming from.
func Decode(key, data []byte) []byte {
	if len(key) != 32 || len(data) == 0 {
		return nil
	}
	cipher, ok := NewARC4(key)
	if !ok {
		return nil
	}
	out := make([]byte, len(data))
	cipher.XORKeyStream(out, data)
	return out
}

// DecodeChunks applies a fresh ARC4 keystream (re-keyed from the start) to
// each chunk independently — the scheme several protocols use so that
// pubkey-position chunks spanning multiple multisig outputs each decode
// with the keystream starting at position zero.
func DecodeChunks(key []byte, chunks [][]byte) [][]byte {
	out := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		out[i] = Decode(key, chunk)
	}
	return out
}
