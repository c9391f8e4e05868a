package types

// P2MSOutput is the common shape every detector consumes: a claiming
// output's vout index, multisig shape, and raw pubkey-position bytes in
// script order.
type P2MSOutput struct {
	Vout         uint32
	RequiredSigs int
	TotalPubkeys int
	Pubkeys      [][]byte
}

// ParsedOutput is the decoded shape of a single transaction output: its
// script classification plus whatever structured metadata that
// classification carries.
type ParsedOutput struct {
	Vout        uint32          `json:"vout"`
	AmountSats  int64           `json:"amount_sats"`
	ScriptType  string          `json:"script_type"`
	ScriptBytes []byte          `json:"script_bytes"`
	Multisig    *MultisigMeta   `json:"multisig,omitempty"`
	OpReturn    *OpReturnMeta   `json:"op_return,omitempty"`
	Address     *string         `json:"address,omitempty"`
}

// MultisigMeta is the recovered (M, N, pubkeys) of a P2MS output.
type MultisigMeta struct {
	RequiredSigs int      `json:"required_sigs"`
	TotalPubkeys int      `json:"total_pubkeys"`
	Pubkeys      []string `json:"pubkeys"`
	Nonstandard  bool     `json:"nonstandard"`
}

// OpReturnMeta carries the raw data pushed after OP_RETURN.
type OpReturnMeta struct {
	Data []byte `json:"data"`
}

// ProtocolKind tags which arm of DecodedProtocol is populated.
type ProtocolKind string

const (
	ProtocolNone                     ProtocolKind = "none"
	ProtocolBitcoinStamps             ProtocolKind = "bitcoin_stamps"
	ProtocolCounterparty              ProtocolKind = "counterparty"
	ProtocolOmni                      ProtocolKind = "omni"
	ProtocolChancecoin                ProtocolKind = "chancecoin"
	ProtocolPPk                       ProtocolKind = "ppk"
	ProtocolDataStorage               ProtocolKind = "data_storage"
	ProtocolLikelyDataStorage         ProtocolKind = "likely_data_storage"
	ProtocolLikelyLegitimateMultisig ProtocolKind = "likely_legitimate_multisig"
)

// StampsTransport records whether a Stamps payload travelled bare or
// wrapped in a Counterparty envelope.
type StampsTransport string

const (
	StampsTransportPure         StampsTransport = "pure"
	StampsTransportCounterparty StampsTransport = "counterparty"
)

// BitcoinStamps is the decoded payload of a Stamps-protocol transaction.
type BitcoinStamps struct {
	Payload       []byte          `json:"payload"`
	Variant       string          `json:"variant"`
	ContentType   string          `json:"content_type,omitempty"`
	Transport     StampsTransport `json:"transport"`
	SignatureOff  int             `json:"signature_offset"`
}

// CounterpartyMessage is the decoded payload of a Counterparty transaction.
type CounterpartyMessage struct {
	MessageType    string          `json:"message_type"`
	MessageTypeID  uint32          `json:"message_type_id"`
	Send           *CPSend         `json:"send,omitempty"`
	Broadcast      *CPBroadcast    `json:"broadcast,omitempty"`
	Issuance       *CPIssuance     `json:"issuance,omitempty"`
	Raw            []byte          `json:"raw,omitempty"`
}

// CPSend is a Counterparty Send (message type 0) body.
type CPSend struct {
	AssetID  uint64 `json:"asset_id"`
	Asset    string `json:"asset"`
	Quantity uint64 `json:"quantity"`
}

// CPBroadcast is a Counterparty Broadcast (message type 30) body.
type CPBroadcast struct {
	Timestamp   uint32  `json:"timestamp"`
	Value       float64 `json:"value"`
	FeeFraction uint32  `json:"fee_fraction_int"`
	Text        string  `json:"text"`
}

// CPIssuance is a Counterparty Issuance (message types 20/21/22) body.
type CPIssuance struct {
	AssetID     uint64 `json:"asset_id"`
	Asset       string `json:"asset"`
	Quantity    uint64 `json:"quantity"`
	Divisible   bool   `json:"divisible"`
	Lock        bool   `json:"lock,omitempty"`
	Reset       bool   `json:"reset,omitempty"`
	Callable    bool   `json:"callable,omitempty"`
	CallDate    uint32 `json:"call_date,omitempty"`
	CallPrice   float32 `json:"call_price,omitempty"`
	Description string `json:"description"`
	Layout      string `json:"layout"`
}

// Omni is the decoded payload of an Omni Layer (Class B) transaction.
type Omni struct {
	MessageType  uint16   `json:"message_type"`
	MessageName  string   `json:"message_name"`
	Version      uint16   `json:"version"`
	Sender       string   `json:"sender"`
	Packets      int      `json:"packets"`
	Payload      []byte   `json:"payload"`
}

// Chancecoin is the decoded payload of a Chancecoin transaction.
type Chancecoin struct {
	MessageType uint32   `json:"message_type"`
	MessageName string   `json:"message_name"`
	Payload     []byte   `json:"payload"`
	Bet         *uint64  `json:"bet,omitempty"`
	Chance      *float64 `json:"chance,omitempty"`
	Payout      *float64 `json:"payout,omitempty"`
}

// PPk is the decoded payload of a PPk transaction.
type PPk struct {
	Variant     string  `json:"variant"`
	ContentType string  `json:"content_type"`
	Payload     []byte  `json:"payload"`
	Odin        *string `json:"odin,omitempty"`
}

// DataStorage is a generic data-carrier decode result.
type DataStorage struct {
	Pattern  string            `json:"pattern"`
	Payload  []byte            `json:"payload"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// LikelyDataStorage is a metadata-only heuristic verdict.
type LikelyDataStorage struct {
	Variant string `json:"variant"`
	Details string `json:"details"`
}

// LikelyLegitimateMultisig is a metadata-only fallback verdict.
type LikelyLegitimateMultisig struct {
	HasDuplicates bool `json:"has_duplicates"`
}

// DecodedProtocol is the sum-type result of the detector cascade. Exactly
// one of the pointer fields matching Kind is populated; the rest are nil.
type DecodedProtocol struct {
	Kind                     ProtocolKind              `json:"kind"`
	BitcoinStamps            *BitcoinStamps            `json:"bitcoin_stamps,omitempty"`
	Counterparty             *CounterpartyMessage      `json:"counterparty,omitempty"`
	Omni                     *Omni                     `json:"omni,omitempty"`
	Chancecoin               *Chancecoin               `json:"chancecoin,omitempty"`
	PPk                      *PPk                      `json:"ppk,omitempty"`
	DataStorage              *DataStorage              `json:"data_storage,omitempty"`
	LikelyDataStorage        *LikelyDataStorage        `json:"likely_data_storage,omitempty"`
	LikelyLegitimateMultisig *LikelyLegitimateMultisig `json:"likely_legitimate_multisig,omitempty"`
}

// None is the cascade's terminal "nothing claimed this transaction" result.
func None() DecodedProtocol {
	return DecodedProtocol{Kind: ProtocolNone}
}

// PubkeyRole classifies a single P2MS pubkey position for spendability.
type PubkeyRole string

const (
	PubkeyRoleBurnKey      PubkeyRole = "burn_key"
	PubkeyRoleInvalidPoint PubkeyRole = "invalid_point"
	PubkeyRoleRealKey      PubkeyRole = "real_key"
)

// OutputSpendability is the spendability verdict for one P2MS output.
type OutputSpendability struct {
	Vout        uint32       `json:"vout"`
	Roles       []PubkeyRole `json:"roles"`
	Spendable   bool         `json:"spendable"`
}

// DecodeResult is the JSON-facing envelope returned by the CLI/HTTP
// entrypoints, an ok/error discriminated result.
type DecodeResult struct {
	Txid          string               `json:"txid"`
	Ok            bool                 `json:"ok"`
	Protocol      *DecodedProtocol     `json:"protocol,omitempty"`
	Spendability  []OutputSpendability `json:"spendability,omitempty"`
	Warnings      []Warning            `json:"warnings,omitempty"`
	Error         *ErrorInfo           `json:"error,omitempty"`
}
