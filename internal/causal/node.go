package causal

// NodeID uniquely identifies a node across ALL universes. Level loading
// enforces global uniqueness; a per-universe id scheme would break
// cross-universe edges.
type NodeID string

// State is an opaque comparable token. The graph never interprets state
// values beyond equality and the inverse table below; gameplay assigns
// meaning.
type State string

// Well-known state tokens. Levels may introduce others; unknown tokens are
// their own inverse.
const (
	StateExists    State = "exists"
	StateDestroyed State = "destroyed"
	StateActive    State = "active"
	StateInactive  State = "inactive"
	StateOpen      State = "open"
	StateClosed    State = "closed"
	StateOn        State = "on"
	StateOff       State = "off"
)

var inverses = map[State]State{
	StateExists:    StateDestroyed,
	StateDestroyed: StateExists,
	StateActive:    StateInactive,
	StateInactive:  StateActive,
	StateOpen:      StateClosed,
	StateClosed:    StateOpen,
	StateOn:        StateOff,
	StateOff:       StateOn,
}

// InverseOf returns the categorical inverse of a state token.
// Tokens without a listed inverse invert to themselves.
func InverseOf(s State) State {
	if inv, ok := inverses[s]; ok {
		return inv
	}
	return s
}

// existenceBearing reports whether a state token asserts existence on its
// own. For such tokens the existence flag follows the state; for all others
// the flag is left untouched by state changes.
func existenceBearing(s State) bool {
	return s == StateExists || s == StateDestroyed
}

// Handle addresses a node in the graph arena. A handle is invalidated when
// its node is removed; it is never reused within one graph lifetime.
type Handle int

// InvalidHandle is returned by lookups that find nothing.
const InvalidHandle Handle = -1

// Node is the per-entity causal record.
//
// Nodes are owned by the Graph; entities hold the NodeID and read state and
// existence through graph queries each frame. Entities never mutate edges
// directly.
type Node struct {
	// ID is globally unique.
	ID NodeID

	// EntityID back-references the owning entity record.
	EntityID string

	// Universe names the universe the node's entity lives in. Opaque to this
	// package; the coordinator assigns it.
	Universe string

	// State is the current state token.
	State State

	// Exists is the existence flag. An entity never outlives or outruns this
	// flag.
	Exists bool

	// ConditionMet is the separately tracked condition Conditional edges
	// read, fresh, at propagation time. Gameplay toggles it between frames.
	ConditionMet bool

	// Prevented marks existence prevention by an Exclusive edge. A prevented
	// node cannot spawn until the preventing source reverts.
	Prevented bool

	// PreventedBy records the source node holding the prevention.
	PreventedBy NodeID
}

// Edge is a directed causal dependency from Source (cause) to Target
// (effect). Both endpoints are registered before the edge is added.
type Edge struct {
	Source NodeID
	Target NodeID
	Op     Operator

	// Metadata carries level-authored annotations the engine itself does not
	// interpret. Preserved through snapshots.
	Metadata map[string]string

	src  Handle
	dst  Handle
	dead bool
}
