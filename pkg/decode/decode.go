// Package decode wires the script extractor, ARC4 primitive, and detector
// cascade together into the single entrypoint that turns a deserialized
// transaction into a DecodeResult.
package decode

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/wire"

	"carrierscope/pkg/analyzer"
	"carrierscope/pkg/crypto"
	"carrierscope/pkg/detect"
	"carrierscope/pkg/omni"
	"carrierscope/pkg/spend"
	"carrierscope/pkg/types"
)

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// Prevout is the minimal previous-output context the decoder needs per
// spent input: its value and scriptPubkey.
type Prevout struct {
	ValueSats   int64
	ScriptBytes []byte
}

// Decode classifies every output of tx, derives the ARC4 key from the
// first input's previous outpoint, runs the detector cascade, and analyses
// spendability. prevouts maps each input's previous outpoint to the output
// it spends; a nil or incomplete map degrades Omni sender resolution but
// never fails the decode.
func Decode(tx *wire.MsgTx, network string, prevouts map[wire.OutPoint]Prevout) types.DecodeResult {
	txid := tx.TxHash().String()

	if len(tx.TxIn) == 0 {
		return types.DecodeResult{
			Txid: txid,
			Ok:   false,
			Error: &types.ErrorInfo{
				Code:    "NO_INPUTS",
				Message: "transaction has no inputs to derive an ARC4 key from",
			},
		}
	}

	arcKey := crypto.ARC4Key(tx.TxIn[0].PreviousOutPoint.Hash.String())

	parsedOutputs, p2msOutputs, amounts := classifyOutputs(tx, network)
	hasExodus := hasExodusOutput(parsedOutputs)
	sender := resolveOmniSender(tx, network, prevouts)

	protocol := detect.Run(detect.Context{
		Txid:            txid,
		ArcKey:          arcKey,
		Outputs:         p2msOutputs,
		Amounts:         amounts,
		HasExodusOutput: hasExodus,
		OmniSender:      sender,
	})

	spendability := spend.Analyze(protocol, p2msOutputs)

	nonstandard := 0
	for _, o := range parsedOutputs {
		if o.Multisig != nil && o.Multisig.Nonstandard {
			nonstandard++
		}
	}
	warnings := analyzer.GenerateCarrierWarnings(nonstandard)

	return types.DecodeResult{
		Txid:         txid,
		Ok:           true,
		Protocol:     &protocol,
		Spendability: spendability,
		Warnings:     warnings,
	}
}

func classifyOutputs(tx *wire.MsgTx, network string) ([]types.ParsedOutput, []types.P2MSOutput, map[uint32]int64) {
	var parsed []types.ParsedOutput
	var p2ms []types.P2MSOutput
	amounts := make(map[uint32]int64)

	for i, out := range tx.TxOut {
		vout := uint32(i)
		amounts[vout] = out.Value
		scriptType := analyzer.ClassifyOutputScript(out.PkScript)

		po := types.ParsedOutput{
			Vout:        vout,
			AmountSats:  out.Value,
			ScriptType:  scriptType,
			ScriptBytes: out.PkScript,
		}

		switch scriptType {
		case "p2ms":
			if info, ok := analyzer.ParseP2MS(out.PkScript); ok {
				hexPubkeys := make([]string, len(info.Pubkeys))
				for j, pk := range info.Pubkeys {
					hexPubkeys[j] = hex.EncodeToString(pk)
				}
				po.Multisig = &types.MultisigMeta{
					RequiredSigs: info.RequiredSigs,
					TotalPubkeys: info.TotalPubkeys,
					Pubkeys:      hexPubkeys,
					Nonstandard:  info.Nonstandard,
				}
				p2ms = append(p2ms, types.P2MSOutput{
					Vout:         vout,
					RequiredSigs: info.RequiredSigs,
					TotalPubkeys: info.TotalPubkeys,
					Pubkeys:      info.Pubkeys,
				})
			}
		case "op_return":
			if dataHex, _, _ := analyzer.ParseOpReturn(out.PkScript); dataHex != "" {
				if data, err := hexDecode(dataHex); err == nil {
					po.OpReturn = &types.OpReturnMeta{Data: data}
				}
			}
		default:
			if addr := analyzer.GetAddressFromScript(out.PkScript, network); addr != nil {
				po.Address = addr
			}
		}

		parsed = append(parsed, po)
	}

	return parsed, p2ms, amounts
}

func hasExodusOutput(outputs []types.ParsedOutput) bool {
	for _, o := range outputs {
		if o.Address != nil && *o.Address == omni.ExodusAddress {
			return true
		}
	}
	return false
}

// resolveOmniSender groups every input by its previous output's address,
// sums satoshi values per address, and returns the address with the
// largest total — the Omni convention for identifying a transaction's
// source address. Equal totals resolve to the lexicographically smallest
// address.
func resolveOmniSender(tx *wire.MsgTx, network string, prevouts map[wire.OutPoint]Prevout) string {
	if prevouts == nil {
		return ""
	}
	totals := make(map[string]int64)
	for _, in := range tx.TxIn {
		prevout, ok := prevouts[in.PreviousOutPoint]
		if !ok {
			continue
		}
		addr := analyzer.GetAddressFromScript(prevout.ScriptBytes, network)
		if addr == nil {
			continue
		}
		totals[*addr] += prevout.ValueSats
	}

	best := ""
	var bestTotal int64 = -1
	for addr, total := range totals {
		if total > bestTotal || (total == bestTotal && addr < best) {
			best = addr
			bestTotal = total
		}
	}
	return best
}
