package peer

import (
	"math/rand"
	"sync"

	"github.com/nhzcoin/nhz/pkg/eventbus"
	"github.com/nhzcoin/nhz/pkg/nhz"
)

// AccountWeightSource resolves a hallmark-bound account's effective weight,
// per spec.md §4.2: min(effective_balance/ONE_NHZ, hallmark.weight_factor).
// chain.AccountView.EffectiveBalance already returns whole-NHZ units, so no
// further division happens here.
type AccountWeightSource interface {
	EffectiveBalance(accountID int64) int64
}

// Registry is the concurrent peer set keyed by normalized address,
// generalizing the teacher's DefaultDiscovery (pkg/network/discovery.go)
// connection-pool bookkeeping into spec.md §4.1's weighted peer directory.
type Registry struct {
	self string

	mu    sync.RWMutex
	peers map[string]*Peer

	bus      *eventbus.Bus
	accounts AccountWeightSource

	rng   *rand.Rand
	rngMu sync.Mutex
}

// New constructs an empty registry. self is this node's own normalized
// address, used to reject self-connection attempts.
func New(self string, bus *eventbus.Bus, accounts AccountWeightSource) *Registry {
	return &Registry{
		self:     self,
		peers:    make(map[string]*Peer),
		bus:      bus,
		accounts: accounts,
		rng:      rand.New(rand.NewSource(1)),
	}
}

// AddPeer normalizes announced (see NormalizeAddress), constructs a new record if
// absent, and emits NEW_PEER. Returns nil if the address is unroutable or
// equal to self.
func (r *Registry) AddPeer(announced string) *Peer {
	addr, err := NormalizeAddress(announced)
	if err != nil || addr == r.self {
		return nil
	}

	r.mu.Lock()
	if existing, ok := r.peers[addr]; ok {
		r.mu.Unlock()
		return existing
	}
	p := newPeer(addr)
	r.peers[addr] = p
	r.mu.Unlock()

	r.bus.Emit(EventNewPeer, p)
	return p
}

// GetPeer looks a peer up by its normalized address.
func (r *Registry) GetPeer(addr string) *Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.peers[addr]
}

// RemovePeer atomically deletes p from the registry and emits REMOVE.
func (r *Registry) RemovePeer(p *Peer) *Peer {
	r.mu.Lock()
	removed, ok := r.peers[p.Address]
	if ok {
		delete(r.peers, p.Address)
	}
	r.mu.Unlock()
	if ok {
		r.bus.Emit(EventRemove, removed)
	}
	return removed
}

// GetAllPeers returns a read-only snapshot of every registered peer.
func (r *Registry) GetAllPeers() []*Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Peer, 0, len(r.peers))
	for _, p := range r.peers {
		out = append(out, p)
	}
	return out
}

// GetAnyPeer performs weighted-random selection among peers in state,
// not blacklisted, with ShareAddr set, and — when applyPullThreshold holds
// — weight >= pullThreshold. A weight of 0 is treated as 1. Returns nil if
// no peer qualifies.
func (r *Registry) GetAnyPeer(state State, applyPullThreshold bool, pullThreshold int64, nowMillis int64) *Peer {
	r.mu.RLock()
	candidates := make([]*Peer, 0, len(r.peers))
	weights := make([]int64, 0, len(r.peers))
	var total int64
	for _, p := range r.peers {
		if p.State() != state || p.IsBlacklisted(nowMillis) || !p.ShareAddr {
			continue
		}
		w := p.Weight()
		if w == 0 {
			w = 1
		}
		if applyPullThreshold && w < pullThreshold {
			continue
		}
		candidates = append(candidates, p)
		weights = append(weights, w)
		total += w
	}
	r.mu.RUnlock()

	if len(candidates) == 0 || total <= 0 {
		return nil
	}

	r.rngMu.Lock()
	roll := r.rng.Int63n(total)
	r.rngMu.Unlock()

	var cumulative int64
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// RecomputeWeight recomputes p's effective weight from its hallmark's
// bound account balance and emits WEIGHT if it changed.
func (r *Registry) RecomputeWeight(p *Peer) {
	account, weightFactor, ok := p.HallmarkWeightFactor()
	if !ok {
		if p.Weight() != 0 {
			p.SetWeight(0)
			r.bus.Emit(EventWeight, p)
		}
		return
	}
	accountID := accountIDFromKey(account)
	balance := r.accounts.EffectiveBalance(accountID)
	var weight int64
	if balance >= nhz.MinHubEffectiveBalance {
		weight = min64(balance, weightFactor)
	}
	if weight < 0 {
		weight = 0
	}
	if p.Weight() != weight {
		p.SetWeight(weight)
		r.bus.Emit(EventWeight, p)
	}
}

// OnAccountBalanceChanged re-emits WEIGHT for every peer whose hallmark is
// bound to accountID, per spec.md §4.2's subscription requirement.
func (r *Registry) OnAccountBalanceChanged(accountID int64) {
	for _, p := range r.GetAllPeers() {
		if acct, ok := p.HallmarkAccount(); ok && accountIDFromKey(acct) == accountID {
			before := p.Weight()
			r.RecomputeWeight(p)
			if p.Weight() == before {
				// RecomputeWeight only emits on a change; emit here otherwise.
				r.bus.Emit(EventWeight, p)
			}
		}
	}
}

// SweepUnblacklist clears the blacklist flag on any peer whose deadline has
// passed and emits UNBLACKLIST for each.
func (r *Registry) SweepUnblacklist(nowMillis int64) {
	for _, p := range r.GetAllPeers() {
		if p.UnblacklistIfExpired(nowMillis) {
			r.bus.Emit(EventUnblacklist, p)
		}
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// accountIDFromKey mirrors the account-id derivation convention used
// elsewhere in this module (the low 8 bytes of an account's public key,
// little-endian) so hallmark binding and pool accounting agree on what
// identifies an account.
func accountIDFromKey(pub [32]byte) int64 {
	var v int64
	for i := 0; i < 8; i++ {
		v |= int64(pub[i]) << (8 * i)
	}
	return v
}
