package level

import (
	"log/slog"

	"github.com/roach88/causality/internal/causal"
	"github.com/roach88/causality/internal/multiverse"
	"github.com/roach88/causality/internal/paradox"
	"github.com/roach88/causality/internal/universe"
)

type builder struct {
	logger      *slog.Logger
	graphOpts   []causal.Option
	paradoxOpts []paradox.Option
	coordOpts   []multiverse.Option
}

// BuildOption configures Build.
type BuildOption func(*builder)

// WithLogger attaches a structured logger to every component built.
func WithLogger(l *slog.Logger) BuildOption {
	return func(b *builder) { b.logger = l }
}

// WithGraphOptions forwards options to the causal graph.
func WithGraphOptions(opts ...causal.Option) BuildOption {
	return func(b *builder) { b.graphOpts = append(b.graphOpts, opts...) }
}

// WithParadoxOptions forwards options to the paradox manager.
func WithParadoxOptions(opts ...paradox.Option) BuildOption {
	return func(b *builder) { b.paradoxOpts = append(b.paradoxOpts, opts...) }
}

// WithCoordinatorOptions forwards options to the coordinator.
func WithCoordinatorOptions(opts ...multiverse.Option) BuildOption {
	return func(b *builder) { b.coordOpts = append(b.coordOpts, opts...) }
}

// Build validates the level and assembles a ready coordinator: graph
// registered, containers populated, player placed. Validation failures and
// unhostable geometry fail here; a built level runs without load-class
// errors.
func Build(l *Level, opts ...BuildOption) (*multiverse.Coordinator, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	if errs := l.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	graphOpts := b.graphOpts
	paradoxOpts := b.paradoxOpts
	coordOpts := b.coordOpts
	if b.logger != nil {
		graphOpts = append(graphOpts, causal.WithLogger(b.logger))
		paradoxOpts = append(paradoxOpts, paradox.WithLogger(b.logger))
		coordOpts = append(coordOpts, multiverse.WithLogger(b.logger))
	}

	graph := causal.NewGraph(graphOpts...)
	nodes := make(map[string]NodeDef, len(l.Nodes))
	for _, n := range l.Nodes {
		nodes[n.ID] = n
		_, err := graph.RegisterNode(causal.Node{
			ID:           causal.NodeID(n.ID),
			EntityID:     n.Entity,
			Universe:     n.Universe,
			State:        causal.State(n.State),
			Exists:       n.nodeExists(),
			ConditionMet: n.Condition,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, e := range l.Edges {
		op, err := causal.DecodeOperator(e.Operator, e.Universes, e.Increment)
		if err != nil {
			return nil, err
		}
		if err := graph.AddDependency(causal.NodeID(e.Source), causal.NodeID(e.Target), op, e.Metadata); err != nil {
			return nil, err
		}
	}

	worlds := make(map[universe.Kind]*universe.Container, len(universe.Order()))
	var worldOpts []universe.Option
	if b.logger != nil {
		worldOpts = append(worldOpts, universe.WithLogger(b.logger))
	}
	for _, k := range universe.Order() {
		grid, err := universe.ParseRows(l.Worlds[string(k)].Geometry)
		if err != nil {
			return nil, err
		}
		worlds[k] = universe.NewContainer(k, grid, worldOpts...)
	}

	for _, s := range l.Spawns {
		exists := true
		var state causal.State
		if s.Node != "" {
			n := nodes[s.Node]
			exists = n.nodeExists()
			state = causal.State(n.State)
		}
		err := worlds[universe.Kind(s.Universe)].Spawn(universe.Entity{
			ID:          s.Entity,
			Pos:         s.Pos,
			Persistence: universe.Persistence(s.Persistence),
			Exists:      exists,
			State:       state,
			NodeID:      causal.NodeID(s.Node),
		}, graph)
		if err != nil {
			return nil, err
		}
	}

	coordOpts = append(coordOpts,
		multiverse.WithStartingUniverse(universe.Kind(l.Start.Universe)),
		multiverse.WithStartingPosition(l.Start.Pos),
	)
	coord, err := multiverse.New(graph, paradox.NewManager(paradoxOpts...), worlds, coordOpts...)
	if err != nil {
		return nil, err
	}

	// Switchability sweep: every walkable cell, the start, and every spawn
	// position (spawns need not be walkable) must be hostable in all three
	// universes, so runtime relocation cannot fail.
	positions := []universe.Pos{l.Start.Pos}
	for _, s := range l.Spawns {
		positions = append(positions, s.Pos)
	}
	if err := coord.ValidateSwitchability(positions); err != nil {
		return nil, err
	}
	return coord, nil
}
