package detect

import (
	"carrierscope/pkg/chancecoin"
	"carrierscope/pkg/counterparty"
	"carrierscope/pkg/datastorage"
	"carrierscope/pkg/log"
	"carrierscope/pkg/omni"
	"carrierscope/pkg/ppk"
	"carrierscope/pkg/stamps"
	"carrierscope/pkg/types"
)

// Log is the DTCT subsystem logger used by the cascade.
var Log = log.DTCT

// Context bundles everything the cascade needs to evaluate a single
// transaction, independent of how the caller obtained it (live RPC or an
// offline fixture).
type Context struct {
	Txid            string
	ArcKey          []byte
	Outputs         []types.P2MSOutput
	Amounts         map[uint32]int64
	HasExodusOutput bool
	OmniSender      string
}

// Run evaluates the fixed-priority detector cascade:
// Omni -> Chancecoin -> Bitcoin Stamps -> Counterparty -> PPk ->
// DataStorage -> LikelyDataStorage -> LikelyLegitimateMultisig -> None.
//
// A transaction with no P2MS outputs at all short-circuits to None before
// any detector runs.
func Run(ctx Context) types.DecodedProtocol {
	if len(ctx.Outputs) == 0 {
		Log.Debugf("%s: no P2MS outputs, declining cascade", ctx.Txid)
		return types.None()
	}

	if result, ok := omni.Detect(ctx.HasExodusOutput, ctx.OmniSender, ctx.Outputs); ok {
		Log.Infof("%s: claimed by omni", ctx.Txid)
		return types.DecodedProtocol{Kind: types.ProtocolOmni, Omni: result}
	}

	if result, ok := chancecoin.Detect(ctx.Outputs); ok {
		Log.Infof("%s: claimed by chancecoin", ctx.Txid)
		return types.DecodedProtocol{Kind: types.ProtocolChancecoin, Chancecoin: result}
	}

	if result, ok := stamps.Detect(ctx.ArcKey, ctx.Outputs); ok {
		Log.Infof("%s: claimed by bitcoin stamps (transport=%s)", ctx.Txid, result.Transport)
		return types.DecodedProtocol{Kind: types.ProtocolBitcoinStamps, BitcoinStamps: result}
	}

	if cpMsg, stampsResult, ok := counterparty.Detect(ctx.ArcKey, ctx.Outputs); ok {
		if stampsResult != nil {
			Log.Infof("%s: claimed by bitcoin stamps (counterparty re-entry)", ctx.Txid)
			return types.DecodedProtocol{Kind: types.ProtocolBitcoinStamps, BitcoinStamps: stampsResult}
		}
		Log.Infof("%s: claimed by counterparty (%s)", ctx.Txid, cpMsg.MessageType)
		return types.DecodedProtocol{Kind: types.ProtocolCounterparty, Counterparty: cpMsg}
	}

	if result, ok := ppk.Detect(ctx.Outputs); ok {
		Log.Infof("%s: claimed by ppk (%s)", ctx.Txid, result.Variant)
		return types.DecodedProtocol{Kind: types.ProtocolPPk, PPk: result}
	}

	if result, ok := datastorage.Detect(ctx.Txid, ctx.Outputs); ok {
		Log.Infof("%s: claimed by data storage (%s)", ctx.Txid, result.Pattern)
		return types.DecodedProtocol{Kind: types.ProtocolDataStorage, DataStorage: result}
	}

	amounts := make([]int64, 0, len(ctx.Outputs))
	for _, o := range ctx.Outputs {
		amounts = append(amounts, ctx.Amounts[o.Vout])
	}
	if result, ok := DetectLikelyDataStorage(ctx.Outputs, amounts); ok {
		Log.Debugf("%s: likely data storage (%s)", ctx.Txid, result.Variant)
		return types.DecodedProtocol{Kind: types.ProtocolLikelyDataStorage, LikelyDataStorage: result}
	}

	if result, ok := DetectLikelyLegitimateMultisig(ctx.Outputs); ok {
		Log.Debugf("%s: likely legitimate multisig", ctx.Txid)
		return types.DecodedProtocol{Kind: types.ProtocolLikelyLegitimateMultisig, LikelyLegitimateMultisig: result}
	}

	Log.Debugf("%s: no detector claimed this transaction", ctx.Txid)
	return types.None()
}
