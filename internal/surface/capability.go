package surface

import "strings"

// Capability is one condition a surface must meet before it may receive
// focus.
type Capability uint8

const (
	CapMapped Capability = 1 << iota
	CapUnminimized
	CapHasContainer

	CapFull = CapMapped | CapUnminimized | CapHasContainer
)

func (c Capability) String() string {
	var parts []string
	if c&CapMapped != 0 {
		parts = append(parts, "mapped")
	}
	if c&CapUnminimized != 0 {
		parts = append(parts, "unminimized")
	}
	if c&CapHasContainer != 0 {
		parts = append(parts, "container")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ActivationTracker gates focus on the full capability set.
type ActivationTracker struct {
	bits Capability
}

// Full reports whether every capability is present.
func (a *ActivationTracker) Full() bool {
	return a.bits == CapFull
}

// Bits returns the raw capability set.
func (a *ActivationTracker) Bits() Capability {
	return a.bits
}

// Set updates one capability. It returns +1 when the set just became full,
// -1 when it just stopped being full and 0 otherwise.
func (a *ActivationTracker) Set(c Capability, on bool) int {
	was := a.Full()
	if on {
		a.bits |= c
	} else {
		a.bits &^= c
	}
	switch now := a.Full(); {
	case now && !was:
		return 1
	case !now && was:
		return -1
	default:
		return 0
	}
}
