// Package mempool implements the unconfirmed transaction pool and its
// admission pipeline described in spec.md §4.5-§4.7: the unconfirmed,
// double-spending, and non-broadcast sets, the replay-hash index, and the
// block apply/undo hooks that keep them consistent with the canonical
// ledger. It is grounded on the teacher's pkg/core/mempool.Pool — a
// sorted-slice mempool guarded by a single lock with an event-subscription
// side channel — generalized to the shared chain-wide lock spec.md §5
// requires (admission must serialize against block processing, not just
// against other admissions).
package mempool

import (
	"sync"

	"github.com/nhzcoin/nhz/pkg/chain"
	"github.com/nhzcoin/nhz/pkg/epoch"
	"github.com/nhzcoin/nhz/pkg/eventbus"
	"github.com/nhzcoin/nhz/pkg/nhz"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

// maxFutureSkewSeconds is the clock-gate tolerance from spec.md §4.5 step 1.
const maxFutureSkewSeconds = 15

// Pool holds the node's unconfirmed transactions and their derived
// indices. All of its mutating operations must run under ChainLock, the
// same mutex block processing holds, per spec.md §5 and §9 ("the chain
// mutex becomes an explicit mutex field, not an ambient monitor").
type Pool struct {
	// ChainLock is the process-wide chain mutex, shared with the owner's
	// block-apply path. It is exported so a Node can acquire it directly
	// around its own block processing, exactly mirroring the source's
	// single "blockchain monitor".
	ChainLock *sync.RWMutex

	store    chain.Store
	accounts chain.AccountView
	bus      *eventbus.Bus

	unconfirmed    map[int64]*transaction.Transaction
	doubleSpending map[int64]*transaction.Transaction
	nonBroadcast   map[int64]*transaction.Transaction
	txHashes       map[[32]byte]transaction.HashInfo
}

// New returns an empty Pool. lock is the shared chain-wide mutex; store and
// accounts are the external ledger collaborators from spec.md §1; bus
// receives the pool's lifecycle events.
func New(lock *sync.RWMutex, store chain.Store, accounts chain.AccountView, bus *eventbus.Bus) *Pool {
	return &Pool{
		ChainLock:      lock,
		store:          store,
		accounts:       accounts,
		bus:            bus,
		unconfirmed:    make(map[int64]*transaction.Transaction),
		doubleSpending: make(map[int64]*transaction.Transaction),
		nonBroadcast:   make(map[int64]*transaction.Transaction),
		txHashes:       make(map[[32]byte]transaction.HashInfo),
	}
}

// GetUnconfirmedTransactions returns a snapshot of the unconfirmed set.
func (p *Pool) GetUnconfirmedTransactions() []*transaction.Transaction {
	p.ChainLock.RLock()
	defer p.ChainLock.RUnlock()
	out := make([]*transaction.Transaction, 0, len(p.unconfirmed))
	for _, tx := range p.unconfirmed {
		out = append(out, tx)
	}
	return out
}

// ContainsUnconfirmed reports whether id is currently in the unconfirmed
// set.
func (p *Pool) ContainsUnconfirmed(id int64) bool {
	p.ChainLock.RLock()
	defer p.ChainLock.RUnlock()
	_, ok := p.unconfirmed[id]
	return ok
}

// DoubleSpendingCount returns the current size of the double-spending set,
// for metrics reporting.
func (p *Pool) DoubleSpendingCount() int {
	p.ChainLock.RLock()
	defer p.ChainLock.RUnlock()
	return len(p.doubleSpending)
}

// Broadcaster fans a batch of transactions out to the network as a single
// processTransactions request. It is the pool's only outbound dependency
// on the gossip layer (spec.md §4.5).
type Broadcaster func([]*transaction.Transaction)

// ProcessTransactions runs the admission pipeline from spec.md §4.5 over
// txs in order. When sendToPeers is true and broadcast is non-nil, newly
// admitted transactions that weren't already locally originated are fanned
// out as a single request after the loop completes.
func (p *Pool) ProcessTransactions(txs []*transaction.Transaction, sendToPeers bool, broadcast Broadcaster) (added, doubleSpent []*transaction.Transaction) {
	now := epoch.Now()

	for _, tx := range txs {
		if !clockGateOK(tx, now) {
			continue
		}

		outcome := p.admitOne(tx)
		switch outcome {
		case outcomeAdded:
			added = append(added, tx)
		case outcomeDoubleSpent:
			doubleSpent = append(doubleSpent, tx)
		case outcomeRejected:
			// dropped silently, per spec.md §4.5 step 2.
		}
	}

	if sendToPeers && broadcast != nil && len(added) > 0 {
		var toRelay []*transaction.Transaction
		p.ChainLock.RLock()
		for _, tx := range added {
			if _, local := p.nonBroadcast[tx.ID()]; !local {
				toRelay = append(toRelay, tx)
			}
		}
		p.ChainLock.RUnlock()
		if len(toRelay) > 0 {
			broadcast(toRelay)
		}
	}

	if len(added) > 0 {
		p.bus.Emit(AddedUnconfirmed, added)
	}
	if len(doubleSpent) > 0 {
		p.bus.Emit(AddedDoubleSpending, doubleSpent)
	}
	return added, doubleSpent
}

type admitOutcome int

const (
	outcomeRejected admitOutcome = iota
	outcomeAdded
	outcomeDoubleSpent
)

// clockGateOK implements spec.md §4.5 step 1, outside the chain lock.
func clockGateOK(tx *transaction.Transaction, now uint32) bool {
	if tx.Timestamp > now+maxFutureSkewSeconds {
		return false
	}
	if tx.ExpirationTime() < now {
		return false
	}
	if tx.Deadline > nhz.MaxDeadlineMinutes {
		return false
	}
	return true
}

// admitOne runs spec.md §4.5 step 2 under the chain lock for a single
// transaction.
func (p *Pool) admitOne(tx *transaction.Transaction) admitOutcome {
	p.ChainLock.Lock()
	defer p.ChainLock.Unlock()

	id := tx.ID()
	if p.store.HasTransaction(id) {
		return outcomeRejected
	}
	if _, ok := p.unconfirmed[id]; ok {
		return outcomeRejected
	}
	if _, ok := p.doubleSpending[id]; ok {
		return outcomeRejected
	}

	ctx := transaction.FormatContext{Height: p.store.Height()}
	if !tx.VerifySignature(ctx) {
		return outcomeRejected
	}
	if err := transaction.ValidateAttachment(tx, p.store.Height()); err != nil {
		return outcomeRejected
	}

	if _, replay := p.txHashes[tx.Hash()]; replay {
		return outcomeRejected
	}

	if p.accounts.ApplyUnconfirmed(tx) {
		p.unconfirmed[id] = tx
		return outcomeAdded
	}
	p.doubleSpending[id] = tx
	return outcomeDoubleSpent
}

// Broadcast runs the admission pipeline for a single locally originated
// transaction and, regardless of the outcome, adds it to the non-broadcast
// set so the rebroadcast worker keeps retrying until the network echoes it
// back or it expires (spec.md §4.5).
func (p *Pool) Broadcast(tx *transaction.Transaction, broadcast Broadcaster) {
	p.ProcessTransactions([]*transaction.Transaction{tx}, true, broadcast)
	p.ChainLock.Lock()
	p.nonBroadcast[tx.ID()] = tx
	p.ChainLock.Unlock()
}
