package mempool

import (
	"crypto/ed25519"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/nhzcoin/nhz/pkg/crypto"
	"github.com/nhzcoin/nhz/pkg/epoch"
	"github.com/nhzcoin/nhz/pkg/eventbus"
	"github.com/nhzcoin/nhz/pkg/transaction"
	"github.com/stretchr/testify/require"
)

// keypairFor derives a deterministic Ed25519 keypair from a single seed
// byte, so tests can address "the sender" by that byte while signing with
// a real key.
func keypairFor(sender byte) (ed25519.PrivateKey, [32]byte) {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = sender
	priv := ed25519.NewKeyFromSeed(seed)
	var pk [32]byte
	copy(pk[:], priv.Public().(ed25519.PublicKey))
	return priv, pk
}

// accountKey derives the stub account id from a sender public key.
func accountKey(pub [32]byte) int64 {
	return int64(binary.LittleEndian.Uint64(pub[:8]))
}

// storeStub is a minimal chain.Store for pool tests.
type storeStub struct {
	mu        sync.Mutex
	confirmed map[int64]bool
	height    uint32
	blockTime uint32
}

func newStoreStub() *storeStub {
	return &storeStub{confirmed: make(map[int64]bool)}
}

func (s *storeStub) HasTransaction(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed[id]
}
func (s *storeStub) Height() uint32        { return s.height }
func (s *storeStub) BlockTimestamp() uint32 { return s.blockTime }

// accountsStub is a minimal chain.AccountView: every sender starts with
// balance, and ApplyUnconfirmed debits it.
type accountsStub struct {
	mu       sync.Mutex
	balances map[int64]int64
}

func newAccountsStub(balance int64, senders ...int64) *accountsStub {
	a := &accountsStub{balances: make(map[int64]int64)}
	for _, s := range senders {
		a.balances[s] = balance
	}
	return a
}

func senderID(tx *transaction.Transaction) int64 {
	return accountKey(tx.SenderPublicKey)
}

func (a *accountsStub) EffectiveBalance(accountID int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balances[accountID]
}
func (a *accountsStub) UnconfirmedBalance(accountID int64) int64 {
	return a.EffectiveBalance(accountID)
}
func (a *accountsStub) ApplyUnconfirmed(tx *transaction.Transaction) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := senderID(tx)
	cost := tx.Amount + tx.Fee
	if a.balances[id] < cost {
		return false
	}
	a.balances[id] -= cost
	return true
}
func (a *accountsStub) UndoUnconfirmed(tx *transaction.Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balances[senderID(tx)] += tx.Amount + tx.Fee
}

func mustTx(t *testing.T, sender byte, nonce byte, amount, fee int64, timestamp uint32, deadline uint16) *transaction.Transaction {
	t.Helper()
	priv, pk := keypairFor(sender)

	attachment := []byte{nonce} // vary signed bytes across calls so hashes differ

	unsigned, err := transaction.New(transaction.FormatContext{}, 1, 0, timestamp, deadline, pk, 0, amount, fee, 0, nil, [64]byte{}, attachment)
	require.NoError(t, err)
	sigBytes := crypto.Sign(priv, unsigned.SignedBytes(transaction.FormatContext{}))
	var sig [64]byte
	copy(sig[:], sigBytes)

	tx, err := transaction.New(transaction.FormatContext{}, 1, 0, timestamp, deadline, pk, 0, amount, fee, 0, nil, sig, attachment)
	require.NoError(t, err)
	return tx
}

func newTestPool(balance int64, sender byte) (*Pool, *storeStub, *accountsStub) {
	_, pk := keypairFor(sender)
	store := newStoreStub()
	accounts := newAccountsStub(balance, accountKey(pk))
	lock := &sync.RWMutex{}
	pool := New(lock, store, accounts, eventbus.New())
	return pool, store, accounts
}

func TestReplayRejection(t *testing.T) {
	pool, _, _ := newTestPool(1000, 1)
	now := epoch.Now()
	tx := mustTx(t, 1, 1, 10, 1, now, 10)

	added, _ := pool.ProcessTransactions([]*transaction.Transaction{tx}, false, nil)
	require.Len(t, added, 1)

	// Simulate confirmation: hash enters the replay index via Apply, and
	// UpdateUnconfirmedTransactions takes the transaction out of the
	// unconfirmed set, so only the replay index can reject the resubmission.
	block := blockOf(tx, now)
	require.NoError(t, pool.Apply(&block))
	pool.UpdateUnconfirmedTransactions(&block)

	// Re-submitting a transaction with the same signed bytes must be
	// dropped as a replay, not re-admitted or double-spent.
	tx2 := mustTx(t, 1, 1, 10, 1, now, 10)
	added2, doubleSpent2 := pool.ProcessTransactions([]*transaction.Transaction{tx2}, false, nil)
	require.Empty(t, added2)
	require.Empty(t, doubleSpent2)
}

func TestDoubleSpendPool(t *testing.T) {
	pool, _, _ := newTestPool(100, 1)
	now := epoch.Now()
	a := mustTx(t, 1, 1, 80, 1, now, 10)
	b := mustTx(t, 1, 2, 80, 1, now, 10)

	addedA, dsA := pool.ProcessTransactions([]*transaction.Transaction{a}, false, nil)
	require.Len(t, addedA, 1)
	require.Empty(t, dsA)

	addedB, dsB := pool.ProcessTransactions([]*transaction.Transaction{b}, false, nil)
	require.Empty(t, addedB)
	require.Len(t, dsB, 1)

	require.True(t, pool.ContainsUnconfirmed(a.ID()))
	require.False(t, pool.ContainsUnconfirmed(b.ID()))
}

func TestUpdateUnconfirmedTransactionsClearsDoubleSpending(t *testing.T) {
	pool, _, _ := newTestPool(100, 1)
	now := epoch.Now()
	a := mustTx(t, 1, 1, 80, 1, now, 10)
	b := mustTx(t, 1, 2, 80, 1, now, 10)

	addedA, _ := pool.ProcessTransactions([]*transaction.Transaction{a}, false, nil)
	require.Len(t, addedA, 1)
	_, dsB := pool.ProcessTransactions([]*transaction.Transaction{b}, false, nil)
	require.Len(t, dsB, 1)

	require.Equal(t, 1, pool.DoubleSpendingCount())

	// b is later confirmed in a block (e.g. forged by another node that
	// accepted it); updating for that block must clear it out of
	// double_spending so it doesn't sit there forever alongside confirmed
	// storage, violating spec.md's "no id simultaneously in unconfirmed,
	// double_spending, and confirmed" invariant.
	block := blockOf(b, now)
	pool.UpdateUnconfirmedTransactions(&block)

	require.Equal(t, 0, pool.DoubleSpendingCount())
}

func TestExpirationSweep(t *testing.T) {
	pool, _, accounts := newTestPool(1000, 1)
	now := epoch.Now()
	tx := mustTx(t, 1, 1, 10, 1, now, 1) // expires at now+60

	added, _ := pool.ProcessTransactions([]*transaction.Transaction{tx}, false, nil)
	require.Len(t, added, 1)
	_, pk := keypairFor(1)
	acctID := accountKey(pk)
	balanceAfterAdd := accounts.EffectiveBalance(acctID)

	// Force the sweep to see it as expired by rewinding the transaction's
	// own expiration relative to "now": simulate by checking against a
	// pool whose store height hasn't changed but whose clock we can't
	// rewind, so directly exercise ExpireUnconfirmed's removal path using
	// a transaction already past its deadline.
	pastTx := mustTx(t, 1, 2, 5, 1, now-120, 1) // timestamp+deadline*60 < now
	pool.ChainLock.Lock()
	require.True(t, accounts.ApplyUnconfirmed(pastTx))
	pool.unconfirmed[pastTx.ID()] = pastTx
	pool.ChainLock.Unlock()

	pool.ExpireUnconfirmed()

	require.False(t, pool.ContainsUnconfirmed(pastTx.ID()))
	require.True(t, pool.ContainsUnconfirmed(tx.ID()))
	require.Equal(t, balanceAfterAdd, accounts.EffectiveBalance(acctID))
}

func TestBlockApplyUndoSymmetry(t *testing.T) {
	pool, store, _ := newTestPool(1000, 1)
	now := epoch.Now()
	a := mustTx(t, 1, 1, 10, 1, now, 10)
	b := mustTx(t, 1, 2, 10, 1, now, 10)
	c := mustTx(t, 1, 3, 10, 1, now, 10)

	for _, tx := range []*transaction.Transaction{a, b, c} {
		added, _ := pool.ProcessTransactions([]*transaction.Transaction{tx}, false, nil)
		require.Len(t, added, 1)
	}

	block := blockOf2(a, b)
	block.Height = 1
	block.Timestamp = now

	require.NoError(t, pool.Apply(&block))
	pool.UpdateUnconfirmedTransactions(&block)
	store.confirmed[a.ID()] = true
	store.confirmed[b.ID()] = true

	require.False(t, pool.ContainsUnconfirmed(a.ID()))
	require.False(t, pool.ContainsUnconfirmed(b.ID()))
	require.True(t, pool.ContainsUnconfirmed(c.ID()))

	require.NoError(t, pool.Undo(&block))
	require.True(t, pool.ContainsUnconfirmed(a.ID()))
	require.True(t, pool.ContainsUnconfirmed(b.ID()))
}

func TestHashCollisionGrandfather(t *testing.T) {
	pool, _, _ := newTestPool(1000, 1)
	now := epoch.Now()
	a := mustTx(t, 1, 1, 10, 1, now, 10)
	// Force an artificial hash collision by inserting a's hash ahead of time.
	pool.ChainLock.Lock()
	pool.txHashes[a.Hash()] = transaction.HashInfo{TransactionID: 999, Expiration: now + 600}
	pool.ChainLock.Unlock()

	grandfathered := blockOf(a, now)
	grandfathered.Height = 58294
	dup := pool.CheckTransactionHashes(&grandfathered)
	require.Nil(t, dup)

	ordinary := blockOf(a, now)
	ordinary.Height = 58295
	dup2 := pool.CheckTransactionHashes(&ordinary)
	require.NotNil(t, dup2)
	require.Equal(t, a.ID(), dup2.ID())

	// The check must not leave any residue in the replay index beyond the
	// pre-existing collided entry.
	pool.ChainLock.RLock()
	_, stillThere := pool.txHashes[a.Hash()]
	pool.ChainLock.RUnlock()
	require.True(t, stillThere)
}

func TestCheckTransactionHashesCommitsOnCleanBlock(t *testing.T) {
	pool, _, _ := newTestPool(1000, 1)
	now := epoch.Now()
	a := mustTx(t, 1, 1, 10, 1, now, 10)
	b := mustTx(t, 1, 2, 10, 1, now, 10)

	block := blockOf2(a, b)
	block.Height = 1

	dup := pool.CheckTransactionHashes(&block)
	require.Nil(t, dup)

	// A clean block (no duplicate found) must commit its hash inserts, not
	// back them out.
	pool.ChainLock.RLock()
	_, aThere := pool.txHashes[a.Hash()]
	_, bThere := pool.txHashes[b.Hash()]
	pool.ChainLock.RUnlock()
	require.True(t, aThere)
	require.True(t, bThere)
}
