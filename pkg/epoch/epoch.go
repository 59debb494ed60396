// Package epoch converts between wall-clock instants and the uint32
// epoch-second counter the wire protocol and transaction timestamps use,
// measured from the network's fixed genesis instant.
package epoch

import (
	"time"

	"github.com/nhzcoin/nhz/pkg/nhz"
)

// Now returns the current wall-clock instant as epoch-seconds.
func Now() uint32 {
	return FromTime(time.Now())
}

// FromTime converts t to epoch-seconds. Instants before genesis are clamped
// to 0.
func FromTime(t time.Time) uint32 {
	d := t.UTC().Sub(nhz.GenesisTime)
	if d < 0 {
		return 0
	}
	return uint32(d / time.Second)
}

// ToTime converts epoch-seconds back to a wall-clock instant.
func ToTime(e uint32) time.Time {
	return nhz.GenesisTime.Add(time.Duration(e) * time.Second)
}
