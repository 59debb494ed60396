// Package metrics exposes the node's prometheus gauges, grounded on the
// teacher's pkg/network/prometheus.go init-and-register pattern, retargeted
// from P2P command histograms to this system's pool/peer/chain
// observables (spec.md's added §4.10).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	connectedPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nhz",
		Name:      "peers_connected",
		Help:      "Number of connected peers.",
	})

	knownPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nhz",
		Name:      "peers_known",
		Help:      "Number of peers in the registry, connected or not.",
	})

	blacklistedPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nhz",
		Name:      "peers_blacklisted",
		Help:      "Number of currently blacklisted peers.",
	})

	unconfirmedTransactions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nhz",
		Name:      "mempool_unconfirmed",
		Help:      "Number of transactions currently unconfirmed.",
	})

	doubleSpendingTransactions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nhz",
		Name:      "mempool_double_spending",
		Help:      "Number of transactions currently held in the double-spending set.",
	})

	chainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nhz",
		Name:      "chain_height",
		Help:      "Current block height of the local chain store.",
	})

	broadcastSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nhz",
		Name:      "broadcast_successes_total",
		Help:      "Total number of successful send_to_some_peers deliveries.",
	})
)

func init() {
	prometheus.MustRegister(
		connectedPeers,
		knownPeers,
		blacklistedPeers,
		unconfirmedTransactions,
		doubleSpendingTransactions,
		chainHeight,
		broadcastSuccesses,
	)
}

func SetConnectedPeers(n int)          { connectedPeers.Set(float64(n)) }
func SetKnownPeers(n int)              { knownPeers.Set(float64(n)) }
func SetBlacklistedPeers(n int)        { blacklistedPeers.Set(float64(n)) }
func SetUnconfirmedTransactions(n int) { unconfirmedTransactions.Set(float64(n)) }
func SetDoubleSpendingTransactions(n int) {
	doubleSpendingTransactions.Set(float64(n))
}
func SetChainHeight(h uint32)   { chainHeight.Set(float64(h)) }
func AddBroadcastSuccesses(n int) { broadcastSuccesses.Add(float64(n)) }
