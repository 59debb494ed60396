package mempool

import (
	"github.com/nhzcoin/nhz/pkg/chain"
	"github.com/nhzcoin/nhz/pkg/nhz"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

// Apply implements spec.md §4.6 apply(block): runs the block's own ledger
// effects, debits any transaction that bypassed pool admission, records
// each transaction's hash in the replay index, and purges entries the new
// block timestamp has aged out.
func (p *Pool) Apply(block *chain.Block) error {
	if block.Apply != nil {
		if err := block.Apply(); err != nil {
			return err
		}
	}

	p.ChainLock.Lock()
	defer p.ChainLock.Unlock()

	for _, tx := range block.Transactions {
		id := tx.ID()
		_, inUnconfirmed := p.unconfirmed[id]
		_, inDoubleSpending := p.doubleSpending[id]
		if !inUnconfirmed && !inDoubleSpending {
			p.accounts.ApplyUnconfirmed(tx)
		}
		if applier, ok := any(tx).(chain.BlockLedgerApplier); ok {
			if err := applier.Apply(); err != nil {
				return err
			}
		}
		p.txHashes[tx.Hash()] = transaction.HashInfo{
			TransactionID: id,
			Expiration:    tx.ExpirationTime(),
		}
	}

	for h, info := range p.txHashes {
		if info.Expiration < block.Timestamp {
			delete(p.txHashes, h)
		}
	}
	return nil
}

// Undo implements spec.md §4.6 undo(block): removes each transaction's
// hash from the replay index only if it still points at that transaction
// (guarding against hash reuse by a newer transaction), reinserts the
// transaction into the unconfirmed set, and runs its ledger undo.
func (p *Pool) Undo(block *chain.Block) error {
	if block.Undo != nil {
		if err := block.Undo(); err != nil {
			return err
		}
	}

	p.ChainLock.Lock()
	for _, tx := range block.Transactions {
		if info, ok := p.txHashes[tx.Hash()]; ok && info.TransactionID == tx.ID() {
			delete(p.txHashes, tx.Hash())
		}
		p.unconfirmed[tx.ID()] = tx
		if applier, ok := any(tx).(chain.BlockLedgerApplier); ok {
			_ = applier.Undo()
		}
	}
	p.ChainLock.Unlock()

	if len(block.Transactions) > 0 {
		p.bus.Emit(AddedUnconfirmed, block.Transactions)
	}
	return nil
}

// CheckTransactionHashes implements spec.md §4.6 check_transaction_hashes:
// on receipt of a candidate block it speculatively inserts each
// transaction's hash into the replay index with put-if-absent semantics,
// treating any collision as a duplicate except at the single grandfathered
// height nhz.HashCollisionGrandfatherHeight, where the first collision is
// ignored verbatim per spec.md §9's open question. If a duplicate is
// found, every hash this call itself inserted is backed out before
// returning, since a rejected block must not leave partial state behind;
// on a clean block the inserted hashes stay committed.
func (p *Pool) CheckTransactionHashes(block *chain.Block) *transaction.Transaction {
	p.ChainLock.Lock()
	defer p.ChainLock.Unlock()

	var inserted []*transaction.Transaction
	var duplicate *transaction.Transaction
	graceUsed := false

	for _, tx := range block.Transactions {
		h := tx.Hash()
		if _, exists := p.txHashes[h]; exists {
			if block.Height == nhz.HashCollisionGrandfatherHeight && !graceUsed {
				graceUsed = true
				continue
			}
			duplicate = tx
			break
		}
		p.txHashes[h] = transaction.HashInfo{TransactionID: tx.ID(), Expiration: tx.ExpirationTime()}
		inserted = append(inserted, tx)
	}

	if duplicate != nil {
		for _, tx := range inserted {
			delete(p.txHashes, tx.Hash())
		}
	}
	return duplicate
}

// UpdateUnconfirmedTransactions implements spec.md §4.6
// update_unconfirmed_transactions: removes each of the block's
// transactions from the unconfirmed set, and from the double-spending set,
// now that they're confirmed. The double-spending removal closes a gap
// spec.md §8 rules out ("no id is simultaneously in unconfirmed,
// double_spending, and confirmed storage") that the Java original left
// unaddressed (TransactionProcessorImpl.updateUnconfirmedTransactions's
// own "TODO: Remove from double-spending transactions").
func (p *Pool) UpdateUnconfirmedTransactions(block *chain.Block) {
	p.ChainLock.Lock()
	var removed []*transaction.Transaction
	for _, tx := range block.Transactions {
		if _, ok := p.unconfirmed[tx.ID()]; ok {
			delete(p.unconfirmed, tx.ID())
			removed = append(removed, tx)
		}
		delete(p.doubleSpending, tx.ID())
	}
	p.ChainLock.Unlock()

	if len(removed) > 0 {
		p.bus.Emit(RemovedUnconfirmed, removed)
		p.bus.Emit(AddedConfirmed, removed)
	}
}
