package peer

import "github.com/nhzcoin/nhz/pkg/eventbus"

const (
	EventNewPeer eventbus.Kind = iota + 100
	EventRemove
	EventWeight
	EventUnblacklist
)
