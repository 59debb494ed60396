// Package gossip wires the peer registry's periodic maintenance workers
// (un-blacklist sweep, opportunistic connect, peer discovery) onto the
// scheduler, per spec.md §4.3. It follows the teacher's
// DefaultDiscovery.run loop (pkg/network/discovery.go) in spirit — a small
// set of goroutines driving a shared pool — but expressed as scheduler
// tasks instead of a dedicated channel-select loop, since spec.md specifies
// fixed periods rather than a worker-pool request queue.
package gossip

import (
	"math/rand"
	"time"

	"github.com/nhzcoin/nhz/pkg/peer"
	"github.com/nhzcoin/nhz/pkg/peerstore"
	"github.com/nhzcoin/nhz/pkg/scheduler"
	"github.com/nhzcoin/nhz/pkg/transaction"
)

const (
	unblacklistPeriod = time.Second
	connectPeriod     = 5 * time.Second
	discoveryPeriod   = 5 * time.Second
)

// Dialer is this node's outbound connection surface, implemented by the
// peer-to-peer transport (not specified here — see spec.md's Non-goals).
// GetUnconfirmedTransactions backs spec.md §4.7's pull-unconfirmed worker;
// it is declared here rather than in pkg/mempool since it shares the same
// request/response transport as Connect and GetPeers.
type Dialer interface {
	Connect(addr string) error
	GetPeers(addr string) ([]string, error)
	GetUnconfirmedTransactions(addr string) ([]*transaction.Transaction, error)
}

// Workers holds the state the three gossip tasks close over.
type Workers struct {
	registry *peer.Registry
	dialer   Dialer
	persist  peerstore.PeerPersister // nil disables peer-set persistence

	maxConnectedPeers int
	pullThreshold     int64
	nowMillis         func() int64
}

// New constructs the gossip worker set. persist may be nil to disable
// peer-set persistence (spec.md §4.9's usePeersDb=false case).
func New(registry *peer.Registry, dialer Dialer, persist peerstore.PeerPersister, maxConnectedPeers int, pullThreshold int64) *Workers {
	return &Workers{
		registry:          registry,
		dialer:            dialer,
		persist:           persist,
		maxConnectedPeers: maxConnectedPeers,
		pullThreshold:     pullThreshold,
		nowMillis:         func() int64 { return time.Now().UnixMilli() },
	}
}

// Register adds all three gossip tasks to sched. Call before sched.Start.
func (w *Workers) Register(sched *scheduler.Scheduler) {
	sched.Register("gossip.unblacklist", unblacklistPeriod, w.unblacklistTick)
	sched.Register("gossip.connect", connectPeriod, w.connectTick)
	sched.Register("gossip.discovery", discoveryPeriod, w.discoveryTick)
}

func (w *Workers) unblacklistTick() error {
	w.registry.SweepUnblacklist(w.nowMillis())
	return nil
}

func (w *Workers) connectedCount() int {
	n := 0
	for _, p := range w.registry.GetAllPeers() {
		if p.State() == peer.Connected {
			n++
		}
	}
	return n
}

// connectTick attempts one opportunistic connection when below the target
// connected-peer count, per spec.md §4.3's connect worker.
func (w *Workers) connectTick() error {
	if w.connectedCount() >= w.maxConnectedPeers {
		return nil
	}
	state := peer.NonConnected
	if rand.Intn(2) == 1 {
		state = peer.Disconnected
	}
	return w.attemptConnectFromState(state)
}

// attemptConnectFromState picks a candidate peer in state and tries to
// connect to it, split out from connectTick so the connect/fail outcome is
// testable without depending on the coin flip.
func (w *Workers) attemptConnectFromState(state peer.State) error {
	p := w.registry.GetAnyPeer(state, false, 0, w.nowMillis())
	if p == nil {
		return nil
	}
	if err := w.dialer.Connect(p.Address); err != nil {
		p.SetState(peer.Disconnected)
		return nil
	}
	p.SetState(peer.Connected)
	return nil
}

// discoveryTick asks one connected peer for its peer list and admits every
// address returned, then, if peer-set persistence is enabled, replaces the
// persisted set with the live registry's addresses (see syncPersistence).
func (w *Workers) discoveryTick() error {
	target := w.registry.GetAnyPeer(peer.Connected, true, w.pullThreshold, w.nowMillis())
	if target == nil {
		return nil
	}
	addrs, err := w.dialer.GetPeers(target.Address)
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		w.registry.AddPeer(a)
	}

	if w.persist == nil {
		return nil
	}
	return w.syncPersistence()
}

// syncPersistence replaces the persisted peer set with the current live
// set, per spec.md §4.9's "diff the live set against the persisted set and
// apply inserts/deletes" — a wholesale rewrite reaches the same end state
// as an insert/delete diff, since Save always replaces the bucket's full
// contents.
func (w *Workers) syncPersistence() error {
	live := w.registry.GetAllPeers()
	liveAddrs := make([]string, 0, len(live))
	for _, p := range live {
		liveAddrs = append(liveAddrs, p.Address)
	}
	return w.persist.Save(liveAddrs)
}
