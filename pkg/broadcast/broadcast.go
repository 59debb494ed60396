// Package broadcast implements spec.md §4.4's send_to_some_peers fan-out:
// a best-effort, bounded-parallelism push of a single serialized request to
// enough eligible peers to reach a success target. Grounded on the
// teacher's fixed-size worker pool idiom
// (pkg/network/discovery.go's maxWorkers goroutines over a work channel),
// generalized from connection dialing to request sending.
package broadcast

import (
	"sync"

	"github.com/nhzcoin/nhz/pkg/peer"
)

const workerPoolSize = 10

// Sender delivers a single serialized request to a peer, returning an
// error on any failure (timeout, transport error, protocol violation).
type Sender interface {
	Send(p *peer.Peer, request []byte) error
}

// Options configures a single fan-out call.
type Options struct {
	// PushThreshold is the minimum peer weight required to receive a send
	// when hallmark protection is enabled.
	PushThreshold int64
	// HallmarkProtection gates the PushThreshold check; when false, every
	// non-blacklisted, connected peer is eligible regardless of weight.
	HallmarkProtection bool
	// Limit is the number of successful sends to stop at.
	Limit int
}

// SendToSomePeers serializes request once (the caller passes the already-
// serialized bytes) and fans it out to registry's eligible peers via
// sender, stopping once Limit successes are reached. It is best-effort:
// individual send failures are logged by the caller-supplied sender and
// simply don't count as a success here.
func SendToSomePeers(registry *peer.Registry, sender Sender, request []byte, opts Options, nowMillis int64) int {
	eligible := eligiblePeers(registry, opts, nowMillis)

	var successes int
	var mu sync.Mutex

	for start := 0; start < len(eligible) && successes < opts.Limit; {
		size := opts.Limit - successes
		if size > workerPoolSize {
			size = workerPoolSize
		}
		end := start + size
		if end > len(eligible) {
			end = len(eligible)
		}
		batch := eligible[start:end]
		start = end

		var wg sync.WaitGroup
		for _, p := range batch {
			wg.Add(1)
			go func(p *peer.Peer) {
				defer wg.Done()
				if err := sender.Send(p, request); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(p)
		}
		wg.Wait()

		if successes >= opts.Limit {
			break
		}
	}

	return successes
}

func eligiblePeers(registry *peer.Registry, opts Options, nowMillis int64) []*peer.Peer {
	var out []*peer.Peer
	for _, p := range registry.GetAllPeers() {
		if p.IsBlacklisted(nowMillis) {
			continue
		}
		if p.State() != peer.Connected {
			continue
		}
		if opts.HallmarkProtection && p.Weight() < opts.PushThreshold {
			continue
		}
		out = append(out, p)
	}
	return out
}
