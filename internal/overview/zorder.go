package overview

import (
	"cmp"
	"slices"
)

// ZKey is what elevation ordering looks at for one surface.
type ZKey struct {
	Minimized bool
	// Raised marks surfaces with a non-normal role (overlay, floating);
	// they stack above every peer.
	Raised bool
	// LastActivated is an increasing activation stamp; 0 means never.
	LastActivated uint64
	// Serial is the creation order, used to break ties.
	Serial uint64
}

func (k ZKey) band() int {
	switch {
	case k.Minimized:
		return 0
	case k.Raised:
		return 2
	default:
		return 1
	}
}

// AssignZOrder returns one elevation per key, 0 being the lowest.
// Minimized surfaces take the lowest band and raised ones the highest.
// Within a band the most recently activated surface is highest; equal
// stamps are ordered by creation, the earlier surface above.
func AssignZOrder(keys []ZKey) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	// Descending elevation: band, then recency, then creation order.
	slices.SortStableFunc(idx, func(a, b int) int {
		ka, kb := keys[a], keys[b]
		if c := cmp.Compare(kb.band(), ka.band()); c != 0 {
			return c
		}
		if c := cmp.Compare(kb.LastActivated, ka.LastActivated); c != 0 {
			return c
		}
		return cmp.Compare(ka.Serial, kb.Serial)
	})
	z := make([]int, len(keys))
	for rank, i := range idx {
		z[i] = len(keys) - 1 - rank
	}
	return z
}
