// Package spend analyses the spendability of P2MS outputs once a protocol
// has been (or has not been) attributed to a transaction.
package spend

import (
	"carrierscope/pkg/ecpoint"
	"carrierscope/pkg/stamps"
	"carrierscope/pkg/types"
)

// classifyPubkey assigns one PubkeyRole per position: a canonical Stamps
// burn key, an invalid EC point, or a real usable key.
func classifyPubkey(pubkey []byte) types.PubkeyRole {
	if stamps.IsBurnKey(pubkey) {
		return types.PubkeyRoleBurnKey
	}
	if !ecpoint.IsValid(pubkey) {
		return types.PubkeyRoleInvalidPoint
	}
	return types.PubkeyRoleRealKey
}

// Analyze classifies every P2MS output's pubkeys and derives a per-output
// spendability verdict, given the protocol the cascade attributed.
func Analyze(protocol types.DecodedProtocol, outputs []types.P2MSOutput) []types.OutputSpendability {
	results := make([]types.OutputSpendability, 0, len(outputs))
	for _, o := range outputs {
		roles := make([]types.PubkeyRole, len(o.Pubkeys))
		for i, pk := range o.Pubkeys {
			roles[i] = classifyPubkey(pk)
		}
		results = append(results, types.OutputSpendability{
			Vout:      o.Vout,
			Roles:     roles,
			Spendable: spendable(protocol, roles),
		})
	}
	return results
}

func spendable(protocol types.DecodedProtocol, roles []types.PubkeyRole) bool {
	hasBurn := false
	hasReal := false
	allReal := len(roles) > 0
	for _, r := range roles {
		switch r {
		case types.PubkeyRoleBurnKey:
			hasBurn = true
			allReal = false
		case types.PubkeyRoleRealKey:
			hasReal = true
		case types.PubkeyRoleInvalidPoint:
			allReal = false
		}
	}

	switch protocol.Kind {
	case types.ProtocolBitcoinStamps:
		if protocol.BitcoinStamps != nil && protocol.BitcoinStamps.Transport == types.StampsTransportPure {
			return false
		}
		return hasReal && !hasBurn
	case types.ProtocolCounterparty, types.ProtocolOmni, types.ProtocolChancecoin:
		return allReal
	default:
		return allReal
	}
}
