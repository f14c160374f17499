package universe

import "github.com/roach88/causality/internal/causal"

// Persistence says how an entity relates to its counterparts in the other
// universes.
type Persistence string

const (
	// PersistenceAnchored entities exist in all three universes with
	// causal-linked counterparts created at spawn time.
	PersistenceAnchored Persistence = "anchored"

	// PersistenceVariant entities exist in all universes but may diverge
	// in state; counterparts are independent nodes.
	PersistenceVariant Persistence = "variant"

	// PersistenceExclusive entities are bound to exactly one home
	// universe; Exclusive edges prevent them elsewhere.
	PersistenceExclusive Persistence = "exclusive"
)

// Valid reports whether p is a known persistence kind.
func (p Persistence) Valid() bool {
	switch p {
	case PersistenceAnchored, PersistenceVariant, PersistenceExclusive:
		return true
	}
	return false
}

// Entity is one object living in a universe. Exists mirrors the backing
// causal node and is refreshed by SyncExistence; entities never write to
// the graph.
type Entity struct {
	ID          string
	Pos         Pos
	Persistence Persistence
	Exists      bool
	State       causal.State
	NodeID      causal.NodeID
}
