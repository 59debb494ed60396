// Package node wires every subsystem into a single root value, per
// spec.md §9's redesign note: the chain mutex, transaction pool, peer
// registry, gossip workers, and scheduler are explicit fields owned here
// instead of process-wide singletons.
package node

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhzcoin/nhz/pkg/broadcast"
	"github.com/nhzcoin/nhz/pkg/chain"
	"github.com/nhzcoin/nhz/pkg/config"
	"github.com/nhzcoin/nhz/pkg/eventbus"
	"github.com/nhzcoin/nhz/pkg/gossip"
	"github.com/nhzcoin/nhz/pkg/mempool"
	"github.com/nhzcoin/nhz/pkg/metrics"
	"github.com/nhzcoin/nhz/pkg/peer"
	"github.com/nhzcoin/nhz/pkg/peerstore"
	"github.com/nhzcoin/nhz/pkg/scheduler"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

// Node is the root value a running process constructs exactly once. The
// chain mutex (ChainLock) is shared, by reference, between the mempool and
// whatever block-apply code drives the chain.
type Node struct {
	Config Config
	Log    *zap.Logger

	ChainLock *sync.RWMutex
	Bus       *eventbus.Bus
	Store     chain.Store
	Accounts  chain.AccountView
	Pool      *mempool.Pool
	Registry  *peer.Registry
	Gossip    *gossip.Workers
	Scheduler *scheduler.Scheduler
	Sender    broadcast.Sender
	Dialer    gossip.Dialer

	peerDB *peerstore.BoltStore
}

// Config is the subset of config.Config the node needs to construct its
// subsystems, including the self address the peer registry requires at
// construction.
type Config struct {
	SelfAddress                     string
	MaxNumberOfConnectedPublicPeers int
	PullThreshold                   int64
	PushThreshold                   int64
	EnableHallmarkProtection        bool
	SendToPeersLimit                int
	UsePeersDb                      bool
	PeersDbPath                     string
}

// FromFileConfig projects a loaded config.Config into the node's own
// Config shape.
func FromFileConfig(c config.Config) Config {
	return Config{
		SelfAddress:                     c.MyAddress,
		MaxNumberOfConnectedPublicPeers: c.MaxNumberOfConnectedPublicPeers,
		PullThreshold:                   c.PullThreshold,
		PushThreshold:                   c.PushThreshold,
		EnableHallmarkProtection:        c.EnableHallmarkProtection,
		SendToPeersLimit:                c.SendToPeersLimit,
		UsePeersDb:                      c.UsePeersDb,
		PeersDbPath:                     c.PeersDbPath,
	}
}

// New constructs a Node. store and accounts are the external chain
// collaborators (spec.md's "only the interfaces the core consumes ... are
// specified"); dialer drives gossip's outbound connections and sender
// delivers broadcast fan-out requests.
func New(cfg Config, log *zap.Logger, store chain.Store, accounts chain.AccountView, dialer gossip.Dialer, sender broadcast.Sender) (*Node, error) {
	n := &Node{
		Config:    cfg,
		Log:       log,
		ChainLock: &sync.RWMutex{},
		Bus:       eventbus.New(),
		Store:     store,
		Accounts:  accounts,
		Scheduler: scheduler.New(log),
		Sender:    sender,
		Dialer:    dialer,
	}
	n.Pool = mempool.New(n.ChainLock, store, accounts, n.Bus)
	n.Registry = peer.New(cfg.SelfAddress, n.Bus, accountWeightAdapter{accounts})

	var persist peerstore.PeerPersister
	if cfg.UsePeersDb {
		db, err := peerstore.Open(cfg.PeersDbPath)
		if err != nil {
			return nil, err
		}
		n.peerDB = db
		persist = db
	}
	n.Gossip = gossip.New(n.Registry, dialer, persist, cfg.MaxNumberOfConnectedPublicPeers, cfg.PullThreshold)

	return n, nil
}

// accountWeightAdapter narrows chain.AccountView down to the single method
// the peer registry needs for hallmark-weight recomputation.
type accountWeightAdapter struct {
	accounts chain.AccountView
}

func (a accountWeightAdapter) EffectiveBalance(accountID int64) int64 {
	return a.accounts.EffectiveBalance(accountID)
}

// Start registers the gossip workers, the mempool's periodic workers, and
// starts the scheduler. Call once during process startup, after New.
func (n *Node) Start() {
	n.Gossip.Register(n.Scheduler)
	n.Scheduler.Register("mempool.expire", time.Second, n.expireUnconfirmedTick)
	n.Scheduler.Register("mempool.pullUnconfirmed", 5*time.Second, n.pullUnconfirmedTick)
	n.Scheduler.Register("mempool.rebroadcast", time.Minute, n.rebroadcastTick)
	n.Scheduler.Start()
}

func (n *Node) expireUnconfirmedTick() error {
	n.Pool.ExpireUnconfirmed()
	return nil
}

// pullUnconfirmedTick implements spec.md §4.7's pull-unconfirmed worker: it
// asks one connected, pull-threshold-eligible peer for its unconfirmed
// transactions and feeds whatever comes back into the admission pipeline
// via IngestPeerTransactions, which never re-broadcasts what it pulled.
func (n *Node) pullUnconfirmedTick() error {
	source := n.Registry.GetAnyPeer(peer.Connected, true, n.Config.PullThreshold, time.Now().UnixMilli())
	if source == nil {
		return nil
	}
	txs, err := n.Dialer.GetUnconfirmedTransactions(source.Address)
	if err != nil || len(txs) == 0 {
		return nil
	}
	n.Pool.IngestPeerTransactions(txs)
	return nil
}

func (n *Node) rebroadcastTick() error {
	batch := n.Pool.RebroadcastBatch()
	if len(batch) == 0 {
		return nil
	}
	n.Log.Debug("rebroadcasting unconfirmed transactions", zap.Int("count", len(batch)))

	ctx := transaction.FormatContext{Height: n.Store.Height()}
	var request []byte
	for _, tx := range batch {
		encoded, err := tx.EncodeBinary(ctx)
		if err != nil {
			continue
		}
		request = append(request, encoded...)
	}
	successes := n.sendToSomePeers(request)
	metrics.AddBroadcastSuccesses(successes)
	return nil
}

// sendToSomePeers fans a pre-serialized request out to the peer registry
// via the configured broadcast.Sender, applying this node's hallmark
// protection and fan-out limit settings.
func (n *Node) sendToSomePeers(request []byte) int {
	if n.Sender == nil {
		return 0
	}
	return broadcast.SendToSomePeers(n.Registry, n.Sender, request, broadcast.Options{
		HallmarkProtection: n.Config.EnableHallmarkProtection,
		PushThreshold:      n.Config.PushThreshold,
		Limit:              n.Config.SendToPeersLimit,
	}, time.Now().UnixMilli())
}

// Shutdown stops the scheduler and releases the peer-set database, if one
// was opened.
func (n *Node) Shutdown(grace time.Duration) {
	n.Scheduler.Shutdown(grace)
	if n.peerDB != nil {
		n.peerDB.Close()
	}
}

// RefreshMetrics pushes the node's current observable state into the
// process-wide prometheus gauges. Intended to be called periodically by
// the process entrypoint.
func (n *Node) RefreshMetrics() {
	peers := n.Registry.GetAllPeers()
	connected, blacklisted := 0, 0
	now := time.Now().UnixMilli()
	for _, p := range peers {
		if p.State() == peer.Connected {
			connected++
		}
		if p.IsBlacklisted(now) {
			blacklisted++
		}
	}
	metrics.SetKnownPeers(len(peers))
	metrics.SetConnectedPeers(connected)
	metrics.SetBlacklistedPeers(blacklisted)
	metrics.SetUnconfirmedTransactions(len(n.Pool.GetUnconfirmedTransactions()))
	metrics.SetDoubleSpendingTransactions(n.Pool.DoubleSpendingCount())
	metrics.SetChainHeight(n.Store.Height())
}
