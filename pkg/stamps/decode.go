package stamps

import (
	"sort"

	"carrierscope/pkg/crypto"
	"carrierscope/pkg/extract"
	"carrierscope/pkg/types"
)

// claimants returns every P2MS output eligible for Stamps consideration:
// exactly 1-of-3 with a burn key at pubkey position 2.
func claimants(outputs []types.P2MSOutput) []types.P2MSOutput {
	var out []types.P2MSOutput
	for _, o := range outputs {
		if o.RequiredSigs != 1 || o.TotalPubkeys != 3 || len(o.Pubkeys) != 3 {
			continue
		}
		if IsBurnKey(o.Pubkeys[2]) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vout < out[j].Vout })
	return out
}

// Detect implements the Bitcoin Stamps detector: Path A (pure) then Path B
// (Counterparty-transported), falling back to a burn-key-only Unknown
// verdict if burn keys are present but no payload can be recovered.
func Detect(arcKey []byte, outputs []types.P2MSOutput) (*types.BitcoinStamps, bool) {
	claiming := claimants(outputs)
	if len(claiming) == 0 {
		return nil, false
	}

	if result, ok := tryPure(arcKey, claiming); ok {
		return result, true
	}
	if result, ok := tryCounterpartyTransported(arcKey, claiming); ok {
		return result, true
	}

	return &types.BitcoinStamps{
		Variant:   "Unknown",
		Transport: types.StampsTransportPure,
	}, true
}

// tryPure implements Path A: concatenate each claiming output's 62-byte
// chunk, ARC4-decrypt the whole, and look for a bare signature variant.
func tryPure(arcKey []byte, claiming []types.P2MSOutput) (*types.BitcoinStamps, bool) {
	var concat []byte
	for _, o := range claiming {
		chunk, ok := extract.Chunk62(o.Pubkeys)
		if !ok {
			return nil, false
		}
		concat = append(concat, chunk...)
	}

	decoded := crypto.Decode(arcKey, concat)
	if decoded == nil {
		return nil, false
	}
	if ContainsCounterpartyMarker(decoded) {
		return nil, false
	}

	offset, sig, ok := FindSignature(decoded)
	if !ok {
		return nil, false
	}

	payload := ExtractPayload(decoded, offset, sig)
	return finish(payload, offset, types.StampsTransportPure), true
}

// tryCounterpartyTransported implements Path B: decrypt each claiming
// output's 62-byte chunk individually, strip the per-chunk length prefix
// and CNTRPRTY marker, then require both the marker and a signature in the
// concatenated result.
func tryCounterpartyTransported(arcKey []byte, claiming []types.P2MSOutput) (*types.BitcoinStamps, bool) {
	var concat []byte
	for i, o := range claiming {
		chunk, ok := extract.Chunk62(o.Pubkeys)
		if !ok {
			return nil, false
		}
		decoded := crypto.Decode(arcKey, chunk)
		if len(decoded) < 1 {
			return nil, false
		}
		l := int(decoded[0])
		if 1+l > len(decoded) {
			return nil, false
		}
		data := decoded[1 : 1+l]

		if i == 0 {
			concat = append(concat, data...)
		} else {
			concat = append(concat, stripLeadingMarker(data)...)
		}
	}

	if !ContainsCounterpartyMarker(concat) {
		return nil, false
	}
	offset, sig, ok := FindSignature(concat)
	if !ok {
		return nil, false
	}

	payload := ExtractPayload(concat, offset, sig)
	return finish(payload, offset, types.StampsTransportCounterparty), true
}

func stripLeadingMarker(data []byte) []byte {
	const marker = "CNTRPRTY"
	if len(data) >= len(marker) && string(data[:len(marker)]) == marker {
		return data[len(marker):]
	}
	return data
}

func finish(payload []byte, sigOffset int, transport types.StampsTransport) *types.BitcoinStamps {
	raw := payload
	if decoded, ok := LenientBase64Decode(payload); ok {
		raw = decoded
	}
	classification := Classify(raw)
	return &types.BitcoinStamps{
		Payload:      raw,
		Variant:      classification.Variant,
		ContentType:  classification.ContentType,
		Transport:    transport,
		SignatureOff: sigOffset,
	}
}

// ReentryCandidate is used by the Counterparty detector to hand a decrypted
// Counterparty stream back to Stamps when it also contains a Stamps
// signature (Stamps-over-Counterparty transport).
func ReentryCandidate(decryptedStream []byte) (*types.BitcoinStamps, bool) {
	if !ContainsCounterpartyMarker(decryptedStream) {
		return nil, false
	}
	offset, sig, ok := FindSignature(decryptedStream)
	if !ok {
		return nil, false
	}
	payload := ExtractPayload(decryptedStream, offset, sig)
	return finish(payload, offset, types.StampsTransportCounterparty), true
}
