// Package detect wires the individual protocol packages together into the
// fixed-priority detector cascade.
package detect

import (
	"carrierscope/pkg/ecpoint"
	"carrierscope/pkg/types"
)

const dustThresholdSats = 1000
const highOutputCountThreshold = 5

func pubkeyGroups(outputs []types.P2MSOutput) [][][]byte {
	groups := make([][][]byte, len(outputs))
	for i, o := range outputs {
		groups[i] = o.Pubkeys
	}
	return groups
}

// DetectLikelyDataStorage implements the "looks like a carrier, no magic
// matched" heuristic: invalid EC points, unusually many P2MS outputs, or
// uniformly dust-valued outputs.
func DetectLikelyDataStorage(outputs []types.P2MSOutput, amounts []int64) (*types.LikelyDataStorage, bool) {
	groups := pubkeyGroups(outputs)

	if ecpoint.AnyInvalid(groups) {
		return &types.LikelyDataStorage{
			Variant: "InvalidECPoint",
			Details: "one or more pubkey positions fail secp256k1 point validation",
		}, true
	}

	if len(outputs) >= highOutputCountThreshold && ecpoint.AllValid(groups) {
		return &types.LikelyDataStorage{
			Variant: "HighOutputCount",
			Details: "five or more P2MS outputs, all valid EC points",
		}, true
	}

	if len(amounts) > 0 && ecpoint.AllValid(groups) {
		allDust := true
		for _, amt := range amounts {
			if amt > dustThresholdSats {
				allDust = false
				break
			}
		}
		if allDust {
			return &types.LikelyDataStorage{
				Variant: "DustAmount",
				Details: "every P2MS output is at or below the dust threshold",
			}, true
		}
	}

	return nil, false
}

// DetectLikelyLegitimateMultisig is the cascade's final fallback: every
// pubkey across every P2MS output is a valid EC point.
func DetectLikelyLegitimateMultisig(outputs []types.P2MSOutput) (*types.LikelyLegitimateMultisig, bool) {
	groups := pubkeyGroups(outputs)
	if !ecpoint.AllValid(groups) {
		return nil, false
	}
	return &types.LikelyLegitimateMultisig{
		HasDuplicates: ecpoint.HasDuplicates(groups),
	}, true
}
