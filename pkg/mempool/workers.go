package mempool

import (
	"github.com/nhzcoin/nhz/pkg/epoch"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

// ExpireUnconfirmed implements spec.md §4.7's expiration sweep: under the
// chain lock, drop any unconfirmed transaction that has either gone stale
// against its own attachment validation or passed its deadline, restoring
// the sender's unconfirmed balance for each.
func (p *Pool) ExpireUnconfirmed() {
	now := epoch.Now()

	p.ChainLock.Lock()
	var removed []*transaction.Transaction
	height := p.store.Height()
	for id, tx := range p.unconfirmed {
		if tx.ExpirationTime() < now || transaction.ValidateAttachment(tx, height) != nil {
			delete(p.unconfirmed, id)
			p.accounts.UndoUnconfirmed(tx)
			removed = append(removed, tx)
		}
	}
	p.ChainLock.Unlock()

	if len(removed) > 0 {
		p.bus.Emit(RemovedUnconfirmed, removed)
	}
}

// RebroadcastBatch implements spec.md §4.7's rebroadcast worker: it prunes
// the non-broadcast set of anything already confirmed, expired, or
// attachment-invalid, and returns the subset old enough (more than 30s
// since origination) to include in this round's processTransactions
// request. The caller is responsible for actually sending the batch via
// send_to_some_peers.
func (p *Pool) RebroadcastBatch() []*transaction.Transaction {
	now := epoch.Now()

	p.ChainLock.Lock()
	defer p.ChainLock.Unlock()

	height := p.store.Height()
	var toSend []*transaction.Transaction
	for id, tx := range p.nonBroadcast {
		if p.store.HasTransaction(id) || tx.ExpirationTime() < now || transaction.ValidateAttachment(tx, height) != nil {
			delete(p.nonBroadcast, id)
			continue
		}
		if tx.Timestamp < now-30 {
			toSend = append(toSend, tx)
		}
	}
	return toSend
}

// IngestPeerTransactions implements process_peer_transactions from spec.md
// §4.7's pull-unconfirmed worker: it's ProcessTransactions with
// sendToPeers always false, since transactions pulled from a peer must not
// immediately bounce back out to the network.
func (p *Pool) IngestPeerTransactions(txs []*transaction.Transaction) (added, doubleSpent []*transaction.Transaction) {
	return p.ProcessTransactions(txs, false, nil)
}
