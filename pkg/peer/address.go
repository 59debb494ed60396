// Package peer implements the remote-peer record and the concurrent
// registry described in spec.md §4/§4.1: address normalization, admission,
// weighted random selection, and blacklisting. It follows the teacher's
// discovery.go/peer.go channel-and-map idiom (pkg/network), generalized to
// carry hallmark weight instead of neo-go's capability list.
package peer

import (
	"fmt"
	"net"
	"strconv"
)

// NormalizeAddress puts host:port into a canonical "host:port" form,
// rejecting literal loopback, link-local, and any-local (unspecified) IP
// addresses — per spec.md §3's invariant that no such address is ever
// admitted. It does no DNS lookup.
func NormalizeAddress(hostport string) (string, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", fmt.Errorf("peer: invalid address %q: %w", hostport, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("peer: invalid port in %q", hostport)
	}

	// Only literal IPs are checked here; a bare hostname (including
	// "localhost") passes through unchecked.
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return "", fmt.Errorf("peer: address %q is loopback/link-local/any-local", hostport)
		}
	}

	return net.JoinHostPort(host, portStr), nil
}
