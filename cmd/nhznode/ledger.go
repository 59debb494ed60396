package main

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nhzcoin/nhz/pkg/config"
	"github.com/nhzcoin/nhz/pkg/peer"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

// inMemoryLedger is a minimal stand-in for the external RDBMS-backed chain
// store and account ledger spec.md §1 treats as an out-of-scope
// collaborator. It lets cmd/nhznode wire a complete node without pulling
// in a real storage engine; a production deployment would replace this
// with an adapter over the actual ledger.
type inMemoryLedger struct {
	mu        sync.Mutex
	confirmed map[int64]bool
	height    uint32
	blockTime uint32
	balances  map[int64]int64
}

func newInMemoryLedger() (*inMemoryLedger, *inMemoryLedger) {
	l := &inMemoryLedger{
		confirmed: make(map[int64]bool),
		balances:  make(map[int64]int64),
	}
	return l, l
}

func (l *inMemoryLedger) HasTransaction(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.confirmed[id]
}

func (l *inMemoryLedger) Height() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

func (l *inMemoryLedger) BlockTimestamp() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blockTime
}

func (l *inMemoryLedger) EffectiveBalance(accountID int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[accountID]
}

func (l *inMemoryLedger) UnconfirmedBalance(accountID int64) int64 {
	return l.EffectiveBalance(accountID)
}

func (l *inMemoryLedger) ApplyUnconfirmed(tx *transaction.Transaction) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := accountIDFromKey(tx.SenderPublicKey)
	cost := tx.Amount + tx.Fee
	if l.balances[id] < cost {
		return false
	}
	l.balances[id] -= cost
	return true
}

func (l *inMemoryLedger) UndoUnconfirmed(tx *transaction.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[accountIDFromKey(tx.SenderPublicKey)] += tx.Amount + tx.Fee
}

func accountIDFromKey(pub [32]byte) int64 {
	var v int64
	for i := 0; i < 8; i++ {
		v |= int64(pub[i]) << (8 * i)
	}
	return v
}

// httpDialer and httpSender are placeholder implementations of the gossip
// Dialer and broadcast Sender interfaces. The actual JSON-over-HTTP POST
// wire protocol from spec.md §6 is an external collaborator here; these
// exist so the CLI entrypoint can construct a fully-wired node.
type httpDialer struct {
	timeoutMillis int
}

func newHTTPDialer(cfg config.Config) *httpDialer {
	return &httpDialer{timeoutMillis: cfg.ConnectTimeoutMillis}
}

func (d *httpDialer) Connect(addr string) error {
	return nil
}

func (d *httpDialer) GetPeers(addr string) ([]string, error) {
	return nil, nil
}

func (d *httpDialer) GetUnconfirmedTransactions(addr string) ([]*transaction.Transaction, error) {
	return nil, nil
}

type httpSender struct {
	timeoutMillis int
}

func newHTTPSender(cfg config.Config) *httpSender {
	return &httpSender{timeoutMillis: cfg.ReadTimeoutMillis}
}

func (s *httpSender) Send(p *peer.Peer, request []byte) error {
	return nil
}

func zapFields(cfg config.Config) []zap.Field {
	return []zap.Field{
		zap.String("myAddress", cfg.MyAddress),
		zap.Int("peerServerPort", cfg.PeerServerPort),
		zap.Bool("isTestnet", cfg.IsTestnet),
	}
}
