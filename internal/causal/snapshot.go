package causal

// NodeSnapshot is the flat per-node record exposed to the persistence
// collaborator. Prevention fields ride along so a restored graph resumes
// with Exclusive locks intact.
type NodeSnapshot struct {
	ID          string `json:"id"`
	EntityID    string `json:"entity_id,omitempty"`
	Universe    string `json:"universe,omitempty"`
	State       string `json:"state"`
	Exists      bool   `json:"exists"`
	Condition   bool   `json:"condition,omitempty"`
	Prevented   bool   `json:"prevented,omitempty"`
	PreventedBy string `json:"prevented_by,omitempty"`
}

// EdgeSnapshot is the flat per-edge record. Operator is the Kind name;
// Universes and Increment carry the Exclusive and Cascade payloads.
type EdgeSnapshot struct {
	Source    string            `json:"source"`
	Target    string            `json:"target"`
	Operator  string            `json:"operator"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Universes []string          `json:"universes,omitempty"`
	Increment float64           `json:"increment,omitempty"`
}

// GraphSnapshot is the graph portion of a level snapshot. Ordering is
// deterministic: nodes in registration order, edges in insertion order.
type GraphSnapshot struct {
	Nodes []NodeSnapshot `json:"nodes"`
	Edges []EdgeSnapshot `json:"edges"`
}

// Snapshot exports the live graph.
func (g *Graph) Snapshot() GraphSnapshot {
	var snap GraphSnapshot
	for h := range g.nodes {
		if !g.alive[h] {
			continue
		}
		n := g.nodes[h]
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:          string(n.ID),
			EntityID:    n.EntityID,
			Universe:    n.Universe,
			State:       string(n.State),
			Exists:      n.Exists,
			Condition:   n.ConditionMet,
			Prevented:   n.Prevented,
			PreventedBy: string(n.PreventedBy),
		})
	}
	for i := range g.edges {
		e := &g.edges[i]
		if e.dead {
			continue
		}
		es := EdgeSnapshot{
			Source:   string(e.Source),
			Target:   string(e.Target),
			Operator: string(e.Op.Kind()),
			Metadata: e.Metadata,
		}
		switch op := e.Op.(type) {
		case Exclusive:
			es.Universes = op.Universes
		case Cascade:
			es.Increment = op.Increment
		}
		snap.Edges = append(snap.Edges, es)
	}
	return snap
}

// DecodeOperator builds an operator from its snapshot representation.
// An operator name unknown to this build fails with UnsupportedOperator;
// edges are never dropped silently.
func DecodeOperator(name string, universes []string, increment float64) (Operator, error) {
	switch Kind(name) {
	case KindEcho:
		return Echo{}, nil
	case KindInverse:
		return Inverse{}, nil
	case KindConditional:
		return Conditional{}, nil
	case KindExclusive:
		return Exclusive{Universes: universes}, nil
	case KindCascade:
		return Cascade{Increment: increment}, nil
	default:
		return nil, NewUnsupportedOperatorError(name)
	}
}

// Restore rebuilds the graph from a snapshot. The receiver must be empty;
// duplicate ids and dangling edges fail exactly as live registration does.
func (g *Graph) Restore(snap GraphSnapshot) error {
	for _, ns := range snap.Nodes {
		_, err := g.RegisterNode(Node{
			ID:           NodeID(ns.ID),
			EntityID:     ns.EntityID,
			Universe:     ns.Universe,
			State:        State(ns.State),
			Exists:       ns.Exists,
			ConditionMet: ns.Condition,
			Prevented:    ns.Prevented,
			PreventedBy:  NodeID(ns.PreventedBy),
		})
		if err != nil {
			return err
		}
	}
	for _, es := range snap.Edges {
		op, err := DecodeOperator(es.Operator, es.Universes, es.Increment)
		if err != nil {
			return err
		}
		if err := g.AddDependency(NodeID(es.Source), NodeID(es.Target), op, es.Metadata); err != nil {
			return err
		}
	}
	return nil
}
