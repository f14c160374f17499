package causal

import (
	"fmt"
	"io"
	"log/slog"
)

// Graph owns every causal node and edge across all universes.
//
// Nodes live in an arena addressed by Handle; removal invalidates the handle
// instead of requiring reference-cycle cleanup. Edge lists preserve
// insertion order so queries, visualization, and replay are deterministic.
//
// The graph is mutated only through its declared operations and only from
// the coordinator's single logical thread; no locking is needed.
type Graph struct {
	nodes []Node
	alive []bool
	index map[NodeID]Handle

	edges []Edge
	// out and in hold edge indices per node handle, in insertion order.
	out [][]int
	in  [][]int

	// maxDepth caps BFS steps per pass. 0 means "live node count at the start
	// of the pass".
	maxDepth int

	// cascadeIncrement is the per-hop charge for Cascade edges without their
	// own. 0 falls back to DefaultCascadeIncrement.
	cascadeIncrement float64

	lastPass *Result

	logger *slog.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithMaxDepth overrides the propagation step bound. The default bound is
// the total node count at the start of each pass.
func WithMaxDepth(n int) Option {
	return func(g *Graph) { g.maxDepth = n }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// NewGraph creates an empty graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		index:  make(map[NodeID]Handle),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Clear empties the graph, keeping its configuration. Used on level
// reload before restoring a snapshot.
func (g *Graph) Clear() {
	g.nodes = nil
	g.alive = nil
	g.index = make(map[NodeID]Handle)
	g.edges = nil
	g.out = nil
	g.in = nil
	g.lastPass = nil
}

// RegisterNode adds a node to the graph.
// Fails with a DuplicateNode error if the id is already registered, never
// silently merging.
func (g *Graph) RegisterNode(n Node) (Handle, error) {
	if n.ID == "" {
		return InvalidHandle, &GraphError{Code: ErrCodeUnknownNode, Message: "empty node id"}
	}
	if _, ok := g.index[n.ID]; ok {
		return InvalidHandle, NewDuplicateNodeError(n.ID)
	}

	h := Handle(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.alive = append(g.alive, true)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.index[n.ID] = h

	g.logger.Debug("node registered", "node", n.ID, "universe", n.Universe, "state", n.State)
	return h, nil
}

// RemoveNode removes a node and every edge touching it. The node's handle is
// invalidated; edges are tombstoned in place so surviving edge order is
// unchanged.
//
// Used for permanent causal removal; normal destruction only flips the
// existence flag.
func (g *Graph) RemoveNode(id NodeID) error {
	h, ok := g.index[id]
	if !ok {
		return NewUnknownNodeError(id)
	}

	for _, ei := range g.out[h] {
		g.edges[ei].dead = true
	}
	for _, ei := range g.in[h] {
		g.edges[ei].dead = true
	}
	g.out[h] = nil
	g.in[h] = nil
	g.alive[h] = false
	delete(g.index, id)

	g.logger.Debug("node removed", "node", id)
	return nil
}

// AddDependency adds a directed edge from cause to effect.
//
// Both endpoints must already be registered (UnknownNode otherwise). A
// direct self-loop is rejected; multi-node cycles are permitted and bounded
// at propagation time instead.
func (g *Graph) AddDependency(from, to NodeID, op Operator, metadata map[string]string) error {
	src, ok := g.index[from]
	if !ok {
		return NewUnknownNodeError(from)
	}
	dst, ok := g.index[to]
	if !ok {
		return NewUnknownNodeError(to)
	}
	if from == to {
		return NewSelfLoopError(from)
	}

	ei := len(g.edges)
	g.edges = append(g.edges, Edge{
		Source:   from,
		Target:   to,
		Op:       op,
		Metadata: metadata,
		src:      src,
		dst:      dst,
	})
	g.out[src] = append(g.out[src], ei)
	g.in[dst] = append(g.in[dst], ei)

	g.logger.Debug("dependency added", "from", from, "to", to, "operator", op.Kind())
	return nil
}

// RemoveDependency removes every edge from one node to another.
// Returns UnknownNode if either endpoint is unregistered.
func (g *Graph) RemoveDependency(from, to NodeID) error {
	if _, ok := g.index[from]; !ok {
		return NewUnknownNodeError(from)
	}
	if _, ok := g.index[to]; !ok {
		return NewUnknownNodeError(to)
	}
	for i := range g.edges {
		e := &g.edges[i]
		if !e.dead && e.Source == from && e.Target == to {
			e.dead = true
		}
	}
	return nil
}

// Lookup returns the handle for an id, or InvalidHandle if unregistered.
func (g *Graph) Lookup(id NodeID) Handle {
	h, ok := g.index[id]
	if !ok {
		return InvalidHandle
	}
	return h
}

// Node returns a copy of the node for an id.
func (g *Graph) Node(id NodeID) (Node, error) {
	h, ok := g.index[id]
	if !ok {
		return Node{}, NewUnknownNodeError(id)
	}
	return g.nodes[h], nil
}

// SetCondition updates a node's tracked condition. Conditional edges read
// the flag fresh during the next propagation pass.
func (g *Graph) SetCondition(id NodeID, met bool) error {
	h, ok := g.index[id]
	if !ok {
		return NewUnknownNodeError(id)
	}
	g.nodes[h].ConditionMet = met
	return nil
}

// GetDependents returns the effect edges leaving a node, in insertion order.
// Pure query; the returned slice is a copy.
func (g *Graph) GetDependents(id NodeID) ([]Edge, error) {
	h, ok := g.index[id]
	if !ok {
		return nil, NewUnknownNodeError(id)
	}
	return g.collectEdges(g.out[h]), nil
}

// GetDependencies returns the dependency edges entering a node, in insertion
// order. Pure query; the returned slice is a copy.
func (g *Graph) GetDependencies(id NodeID) ([]Edge, error) {
	h, ok := g.index[id]
	if !ok {
		return nil, NewUnknownNodeError(id)
	}
	return g.collectEdges(g.in[h]), nil
}

func (g *Graph) collectEdges(indices []int) []Edge {
	edges := make([]Edge, 0, len(indices))
	for _, ei := range indices {
		if g.edges[ei].dead {
			continue
		}
		edges = append(edges, g.edges[ei])
	}
	return edges
}

// Edges returns every live edge in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for i := range g.edges {
		if g.edges[i].dead {
			continue
		}
		edges = append(edges, g.edges[i])
	}
	return edges
}

// Nodes returns a copy of every live node in registration order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for h := range g.nodes {
		if !g.alive[h] {
			continue
		}
		nodes = append(nodes, g.nodes[h])
	}
	return nodes
}

// Len returns the live node count.
func (g *Graph) Len() int {
	return len(g.index)
}

// CanSpawn reports whether a node may come into existence. A spawn attempt
// for a node held existence-prevented by an Exclusive edge fails with an
// ExistencePrevented error.
func (g *Graph) CanSpawn(id NodeID) error {
	h, ok := g.index[id]
	if !ok {
		return NewUnknownNodeError(id)
	}
	n := g.nodes[h]
	if n.Prevented {
		return NewExistencePreventedError(id, n.PreventedBy)
	}
	return nil
}

// Validate scans the whole graph for structural issues: edges referencing
// removed nodes and empty ids. Level loading treats any issue as fatal.
func (g *Graph) Validate() []string {
	var issues []string
	for i := range g.edges {
		e := &g.edges[i]
		if e.dead {
			continue
		}
		if _, ok := g.index[e.Source]; !ok {
			issues = append(issues, fmt.Sprintf("edge %s -> %s: source not registered", e.Source, e.Target))
		}
		if _, ok := g.index[e.Target]; !ok {
			issues = append(issues, fmt.Sprintf("edge %s -> %s: target not registered", e.Source, e.Target))
		}
	}
	return issues
}
