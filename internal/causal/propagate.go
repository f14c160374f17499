package causal

// DefaultCascadeIncrement is the paradox charge per applied Cascade hop when
// neither the edge nor the graph configures one.
const DefaultCascadeIncrement = 5.0

// Change records one applied transition during a propagation pass.
// The origin change has an empty Source and Operator.
type Change struct {
	Node      NodeID
	OldState  State
	NewState  State
	OldExists bool
	NewExists bool
	Source    NodeID
	Operator  Kind
}

// Contribution is a paradox contribution raised during a pass. The graph
// never mutates the paradox scalar itself; the coordinator feeds
// contributions to the paradox manager after the pass.
type Contribution struct {
	Source NodeID
	Amount float64
	Reason string
}

// Contribution reasons.
const (
	ReasonContradiction = "contradiction"
	ReasonCascadeHop    = "cascade_hop"
	ReasonDepthExceeded = "depth_exceeded"
)

// Contradiction records existence asserted and denied for one node through
// different paths within a single pass.
type Contradiction struct {
	Node       NodeID
	AssertedBy NodeID
	DeniedBy   NodeID
	Weight     float64
}

// Result captures everything one propagation pass did.
type Result struct {
	Origin         NodeID
	Changes        []Change
	Contributions  []Contribution
	Contradictions []Contradiction

	// CycleDetected is set when the step bound aborted remaining
	// propagation. The pass still completes normally; the overflow degrades
	// into a paradox contribution rather than an error.
	CycleDetected bool

	// Steps counts applied changes, the unit the bound is checked against.
	Steps int

	// Path lists applied (source, target) edges in application order, for
	// visualization and tests.
	Path [][2]NodeID
}

// existence assertion recorded while a pass runs.
type assertion struct {
	value  bool
	via    NodeID
	weight float64
}

// WithCascadeIncrement overrides the default per-hop Cascade charge for
// edges that do not carry their own.
func WithCascadeIncrement(inc float64) Option {
	return func(g *Graph) { g.cascadeIncrement = inc }
}

// PropagateChange applies a state change to a node and runs one bounded
// breadth-first pass over effect edges.
//
// Each visited edge evaluates its operator against the source's CURRENT
// state, so multi-edge paths see upstream changes from the same pass. A
// candidate is applied only if it differs from the target's current value;
// converged graphs therefore do not oscillate, and a 2-cycle settles without
// hitting the bound. Every applied change re-enqueues the target's effect
// edges for the next frontier.
//
// Once applied changes exceed the bound (default: live node count), the
// remaining queue is dropped, CycleDetected is set, and a depth-exceeded
// contribution is recorded. The pass never errors for cycles.
func (g *Graph) PropagateChange(id NodeID, newState State) (*Result, error) {
	h, ok := g.index[id]
	if !ok {
		return nil, NewUnknownNodeError(id)
	}

	res := &Result{Origin: id}
	assertions := make(map[Handle][]assertion)

	bound := g.maxDepth
	if bound <= 0 {
		bound = len(g.index)
	}
	if bound < 1 {
		bound = 1
	}

	origin := &g.nodes[h]
	candExists := origin.Exists
	if existenceBearing(newState) {
		candExists = newState == StateExists
	}
	if origin.State == newState && origin.Exists == candExists {
		// Idempotent: nothing to do, nothing to re-enqueue.
		g.lastPass = res
		return res, nil
	}

	res.Changes = append(res.Changes, Change{
		Node:      id,
		OldState:  origin.State,
		NewState:  newState,
		OldExists: origin.Exists,
		NewExists: candExists,
	})
	origin.State = newState
	origin.Exists = candExists
	res.Steps++

	// Frontier of effect edges to evaluate, FIFO.
	queue := append([]int(nil), g.out[h]...)

	for len(queue) > 0 {
		if res.Steps > bound {
			res.CycleDetected = true
			res.Contributions = append(res.Contributions, Contribution{
				Source: id,
				Amount: weightHeavy,
				Reason: ReasonDepthExceeded,
			})
			g.logger.Warn("propagation depth exceeded", "origin", id, "steps", res.Steps, "bound", bound)
			break
		}

		ei := queue[0]
		queue = queue[1:]
		e := &g.edges[ei]
		if e.dead || !g.alive[e.src] || !g.alive[e.dst] {
			continue
		}

		src := g.nodes[e.src]
		tgt := &g.nodes[e.dst]
		applied := g.evaluateEdge(e, src, tgt, res, assertions)
		if applied {
			res.Steps++
			res.Path = append(res.Path, [2]NodeID{e.Source, e.Target})
			queue = append(queue, g.out[e.dst]...)
		}
	}

	g.recordContradictions(res, assertions)
	g.lastPass = res

	g.logger.Debug("propagation complete",
		"origin", id,
		"changes", len(res.Changes),
		"contradictions", len(res.Contradictions),
		"cycle", res.CycleDetected,
	)
	return res, nil
}

// evaluateEdge applies one operator and reports whether the target changed.
func (g *Graph) evaluateEdge(e *Edge, src Node, tgt *Node, res *Result, assertions map[Handle][]assertion) bool {
	candState := tgt.State
	candExists := tgt.Exists
	candPrevented := tgt.Prevented
	candPreventedBy := tgt.PreventedBy
	var hopCharge float64

	switch op := e.Op.(type) {
	case Echo:
		candState = src.State
		candExists = src.Exists

	case Inverse:
		candState = InverseOf(src.State)
		if existenceBearing(candState) {
			candExists = candState == StateExists
		}

	case Conditional:
		// Re-read the tracked condition fresh; never cached.
		if !tgt.ConditionMet {
			return false
		}
		candState = src.State
		candExists = src.Exists

	case Exclusive:
		if !op.covers(tgt.Universe) {
			return false
		}
		if src.Exists {
			candExists = false
			candPrevented = true
			candPreventedBy = src.ID
		} else if tgt.PreventedBy == src.ID {
			candExists = true
			candPrevented = false
			candPreventedBy = ""
		}

	case Cascade:
		candState = src.State
		candExists = src.Exists
		hopCharge = op.Increment
		if hopCharge <= 0 {
			hopCharge = g.cascadeIncrement
		}
		if hopCharge <= 0 {
			hopCharge = DefaultCascadeIncrement
		}

	default:
		// Closed union; a new operator must be handled above.
		g.logger.Error("unhandled operator", "kind", e.Op.Kind())
		return false
	}

	// Record existence assertions for the contradiction scan whenever the
	// candidate takes a stance on existence, applied or not.
	if candExists != tgt.Exists || candPrevented != tgt.Prevented || existenceBearing(candState) {
		assertions[e.dst] = append(assertions[e.dst], assertion{
			value:  candExists,
			via:    e.Source,
			weight: contradictionWeight(e.Op),
		})
	}

	if candState == tgt.State && candExists == tgt.Exists && candPrevented == tgt.Prevented {
		return false
	}

	res.Changes = append(res.Changes, Change{
		Node:      tgt.ID,
		OldState:  tgt.State,
		NewState:  candState,
		OldExists: tgt.Exists,
		NewExists: candExists,
		Source:    e.Source,
		Operator:  e.Op.Kind(),
	})
	tgt.State = candState
	tgt.Exists = candExists
	tgt.Prevented = candPrevented
	tgt.PreventedBy = candPreventedBy

	if hopCharge > 0 {
		res.Contributions = append(res.Contributions, Contribution{
			Source: e.Source,
			Amount: hopCharge,
			Reason: ReasonCascadeHop,
		})
	}
	return true
}

// recordContradictions turns conflicting existence assertions into
// contradictions and paradox contributions. The heaviest operator involved
// sets the weight.
func (g *Graph) recordContradictions(res *Result, assertions map[Handle][]assertion) {
	// Iterate nodes in arena order for deterministic output.
	for h := range g.nodes {
		as, ok := assertions[Handle(h)]
		if !ok || len(as) < 2 {
			continue
		}
		var assertedBy, deniedBy NodeID
		var sawTrue, sawFalse bool
		var weight float64
		for _, a := range as {
			if a.value {
				sawTrue = true
				assertedBy = a.via
			} else {
				sawFalse = true
				deniedBy = a.via
			}
			if a.weight > weight {
				weight = a.weight
			}
		}
		if !sawTrue || !sawFalse {
			continue
		}
		node := g.nodes[h].ID
		res.Contradictions = append(res.Contradictions, Contradiction{
			Node:       node,
			AssertedBy: assertedBy,
			DeniedBy:   deniedBy,
			Weight:     weight,
		})
		res.Contributions = append(res.Contributions, Contribution{
			Source: node,
			Amount: weight,
			Reason: ReasonContradiction,
		})
	}
}

// CheckParadoxes returns the contradictions found by the last propagation
// pass. Non-mutating; used for diagnostics and test assertions.
func (g *Graph) CheckParadoxes() []Contradiction {
	if g.lastPass == nil {
		return nil
	}
	out := make([]Contradiction, len(g.lastPass.Contradictions))
	copy(out, g.lastPass.Contradictions)
	return out
}

// LastPass returns the result of the most recent propagation pass, or nil.
func (g *Graph) LastPass() *Result {
	return g.lastPass
}
