package mempool

import "github.com/nhzcoin/nhz/pkg/eventbus"

// Event kinds emitted by the pool, named after spec.md §4.5-§4.7's listener
// events. Payloads are always []*transaction.Transaction.
const (
	AddedUnconfirmed eventbus.Kind = iota
	AddedDoubleSpending
	RemovedUnconfirmed
	AddedConfirmed
)
