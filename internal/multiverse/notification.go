package multiverse

import (
	"github.com/google/uuid"

	"github.com/roach88/causality/internal/causal"
	"github.com/roach88/causality/internal/paradox"
	"github.com/roach88/causality/internal/universe"
)

// Notification is the closed set of outward messages. Consumers are
// read-only observers; nothing mutates simulation state through this
// channel.
type Notification interface {
	isNotification()
}

// NodeStateChanged reports one applied propagation change.
type NodeStateChanged struct {
	Node     causal.NodeID
	NewState causal.State
	Exists   bool
}

// ParadoxTierChanged reports one tier threshold crossing.
type ParadoxTierChanged struct {
	From paradox.Tier
	To   paradox.Tier
}

// UniverseSwitched reports a completed universe transition, including the
// position the player resolved to in the target geometry.
type UniverseSwitched struct {
	From universe.Kind
	To   universe.Kind
	Pos  universe.Pos
}

func (NodeStateChanged) isNotification()   {}
func (ParadoxTierChanged) isNotification() {}
func (UniverseSwitched) isNotification()   {}

// Event is one queued notification, stamped with the level-attempt token
// and the frame that produced it.
type Event struct {
	Attempt uuid.UUID
	Frame   int64
	Notification
}
