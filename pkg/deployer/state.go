// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployer

// State is the lifecycle position of a contract-creation transaction.
type State int

const (
	Unsubmitted State = iota
	Broadcast
	Pending
	Confirmed
	// Abandoned means the confirmation deadline elapsed. The transaction may
	// still be mined and has to be reconciled by hand.
	Abandoned
)

func (s State) String() string {
	switch s {
	case Unsubmitted:
		return "unsubmitted"
	case Broadcast:
		return "broadcast"
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Confirmed || s == Abandoned
}
