// Package nhz holds genesis-critical constants shared across the node:
// the epoch origin, the transaction id alphabet, and the fork heights that
// gate wire-format and validation changes. These must be honored bit-exactly.
package nhz

import "time"

// GenesisTime is the fixed instant from which epoch time is measured.
var GenesisTime = time.Date(2014, time.March, 22, 22, 22, 22, 0, time.UTC)

// IDAlphabet is the base36 alphabet used when rendering ids for display.
const IDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	// MaxNumberOfTransactions bounds the transactions carried by a single block.
	MaxNumberOfTransactions = 255
	// MaxPayloadLength bounds the serialized size of a block's transaction payload.
	MaxPayloadLength = MaxNumberOfTransactions * 160

	// OneNhz is the number of atomic units (NQT) in one NHZ.
	OneNhz int64 = 1e8
	// MaxBalanceNhz is the maximum whole-NHZ balance the ledger can represent.
	MaxBalanceNhz int64 = 1e9

	// MinHubEffectiveBalance is the minimum effective balance, in whole NHZ,
	// an account must hold for its hallmark to carry positive peer weight.
	MinHubEffectiveBalance int64 = 10000

	// MaxDeadlineMinutes bounds a transaction's deadline field.
	MaxDeadlineMinutes = 1440
)

// Fork heights gate specific schema and validation changes. Each name
// matches the legacy constant it replaces; preserve bit-exactly.
const (
	TransparentForgingBlock1 = 21000
	TransparentForgingBlock2 = 40000
	TransparentForgingBlock3 = 62000
	TransparentForgingBlock4 = 62500
	TransparentForgingBlock5 = 62900
	TransparentForgingBlock6 = 63080
	TransparentForgingBlock7 = 67000

	NQTBlock = 73000

	FractionalBlock = 145000

	AssetExchangeBlock = 164000

	ReferencedTransactionFullHashBlock = 194000

	// HashCollisionGrandfatherHeight is the single historical block height
	// at which check_transaction_hashes tolerates one hash collision
	// instead of rejecting it. No further justification is recorded for
	// this constant; it is preserved verbatim, not generalized.
	HashCollisionGrandfatherHeight = 58294
)
