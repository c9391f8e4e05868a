// Package counterparty decodes Counterparty protocol transactions: chunked
// ARC4-encrypted data spread across P2MS pubkey positions, prefixed with a
// CNTRPRTY marker and a numeric message type.
package counterparty

import "fmt"

// MessageTypeName maps a Counterparty message type ID to its canonical
// name. IDs 20, 21, and 22 all denote Issuance (legacy, subasset, and
// modern encodings of the same message family).
func MessageTypeName(id uint32) string {
	switch id {
	case 0:
		return "Send"
	case 2:
		return "EnhancedSend"
	case 3:
		return "Mpma"
	case 4:
		return "Sweep"
	case 10:
		return "Order"
	case 11:
		return "BtcPay"
	case 12:
		return "Dispenser"
	case 20, 21, 22:
		return "Issuance"
	case 30:
		return "Broadcast"
	case 40:
		return "Bet"
	case 50:
		return "Dividend"
	case 60:
		return "Burn"
	case 70:
		return "Cancel"
	case 80:
		return "Rps"
	case 81:
		return "RpsResolve"
	case 90:
		return "FairMinter"
	case 91:
		return "FairMint"
	case 100:
		return "Utxo"
	case 101:
		return "Attach"
	case 102:
		return "Detach"
	case 110:
		return "Destroy"
	default:
		return fmt.Sprintf("Unknown(%d)", id)
	}
}

// AssetName resolves a Counterparty asset ID to its display name. 0 and 1
// are the two protocol-reserved assets; everything else renders generically
// since no ledger is consulted.
func AssetName(id uint64) string {
	switch id {
	case 0:
		return "BTC"
	case 1:
		return "XCP"
	default:
		return fmt.Sprintf("ASSET_%d", id)
	}
}

// IsDivisibleAsset always reports true: determining real divisibility
// requires consulting a running Counterparty asset ledger, which this
// decoder does not have access to.
func IsDivisibleAsset(assetID uint64) bool {
	return true
}
