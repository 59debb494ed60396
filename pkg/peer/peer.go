package peer

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/nhzcoin/nhz/pkg/hallmark"
)

// State is a peer's connection lifecycle state.
type State int

const (
	NonConnected State = iota
	Connecting
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case NonConnected:
		return "non-connected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Peer is a remote node's record, keyed by its normalized address in the
// registry. Interior mutable fields (state, blacklist, hallmark, weight)
// are serialized by a per-peer lock and the traffic counters are updated
// atomically, matching spec.md §4.1's "mutation of a peer's interior state
// is serialized per-peer" invariant; the registry's outer map may be read
// and written independently.
type Peer struct {
	Address          string
	AnnouncedAddress string

	Application string
	Version     string
	Platform    string
	ShareAddr   bool

	mu               sync.RWMutex
	state            State
	blacklistedUntil int64 // epoch millis; 0 means not blacklisted
	hallmark         *hallmark.Hallmark
	weight           int64

	bytesSent     uint64
	bytesReceived uint64
}

// newPeer constructs a Peer in NonConnected state for the given normalized
// address.
func newPeer(address string) *Peer {
	return &Peer{Address: address, state: NonConnected, ShareAddr: true}
}

func (p *Peer) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Peer) SetState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// Blacklist marks the peer blacklisted until untilMillis.
func (p *Peer) Blacklist(untilMillis int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blacklistedUntil = untilMillis
}

// IsBlacklisted reports whether nowMillis is still within the blacklist
// window.
func (p *Peer) IsBlacklisted(nowMillis int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.blacklistedUntil > nowMillis
}

// UnblacklistIfExpired clears the blacklist flag if nowMillis has reached
// or passed the deadline, reporting whether it did so.
func (p *Peer) UnblacklistIfExpired(nowMillis int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.blacklistedUntil != 0 && p.blacklistedUntil <= nowMillis {
		p.blacklistedUntil = 0
		return true
	}
	return false
}

// SetHallmark installs a parsed hallmark after checking it is bound to this
// peer's actual host; an unbound or invalid hallmark is dropped and the
// weight reset to 0, per spec.md §4.2.
func (p *Peer) SetHallmark(h *hallmark.Hallmark) {
	host, _, err := net.SplitHostPort(p.Address)
	if err != nil {
		host = p.Address
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if h != nil && h.Valid(host) {
		p.hallmark = h
	} else {
		p.hallmark = nil
		p.weight = 0
	}
}

func (p *Peer) Hallmark() *hallmark.Hallmark {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hallmark
}

// Weight returns the peer's last-computed effective weight.
func (p *Peer) Weight() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.weight
}

// SetWeight updates the peer's effective weight, typically recomputed in
// response to an account-balance change event.
func (p *Peer) SetWeight(w int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weight = w
}

// HallmarkAccount returns the account public key the peer's hallmark is
// bound to, and whether one is set.
func (p *Peer) HallmarkAccount() ([32]byte, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.hallmark == nil {
		return [32]byte{}, false
	}
	return p.hallmark.AccountPublicKey, true
}

// HallmarkWeightFactor atomically returns the account public key and weight
// factor of the peer's current hallmark, and whether one is set. Callers
// that need both fields together must use this rather than HallmarkAccount
// followed by Hallmark, since a hallmark can be replaced or cleared between
// two separately-locked calls.
func (p *Peer) HallmarkWeightFactor() ([32]byte, int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.hallmark == nil {
		return [32]byte{}, 0, false
	}
	return p.hallmark.AccountPublicKey, p.hallmark.WeightFactor, true
}

func (p *Peer) AddBytesSent(n uint64)     { atomic.AddUint64(&p.bytesSent, n) }
func (p *Peer) AddBytesReceived(n uint64) { atomic.AddUint64(&p.bytesReceived, n) }
func (p *Peer) BytesSent() uint64         { return atomic.LoadUint64(&p.bytesSent) }
func (p *Peer) BytesReceived() uint64     { return atomic.LoadUint64(&p.bytesReceived) }
