package multiverse

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/causality/internal/causal"
	"github.com/roach88/causality/internal/paradox"
	"github.com/roach88/causality/internal/universe"
)

// DefaultSwitchCooldown is the minimum simulated seconds between universe
// switches.
const DefaultSwitchCooldown = 0.5

// SnapshotVersion is the layout version this build writes and reads.
const SnapshotVersion = 1

type action struct {
	node  causal.NodeID
	state causal.State
}

// Coordinator owns the three universes, the shared player position, and
// the per-frame simulation cycle. It is the single writer for the causal
// graph and the paradox manager; everything reaches them through its
// operations on one logical thread.
type Coordinator struct {
	graph  *causal.Graph
	pm     *paradox.Manager
	worlds map[universe.Kind]*universe.Container

	active universe.Kind
	player universe.Pos

	cooldown    float64
	sinceSwitch float64
	// pending holds a validated switch waiting for the next frame start.
	pending *universe.Kind

	actions []action
	events  []Event

	frame   int64
	attempt uuid.UUID
	token   func() (uuid.UUID, error)

	initialGraph  causal.GraphSnapshot
	initialActive universe.Kind
	initialPlayer universe.Pos

	logger *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCooldown overrides the switch cooldown in simulated seconds.
func WithCooldown(seconds float64) Option {
	return func(c *Coordinator) { c.cooldown = seconds }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithTokenSource replaces the attempt-token generator. Tests use a fixed
// source for reproducible events.
func WithTokenSource(fn func() (uuid.UUID, error)) Option {
	return func(c *Coordinator) { c.token = fn }
}

// WithStartingUniverse sets the universe active at frame zero.
func WithStartingUniverse(k universe.Kind) Option {
	return func(c *Coordinator) { c.active = k }
}

// WithStartingPosition sets the player's initial tile.
func WithStartingPosition(p universe.Pos) Option {
	return func(c *Coordinator) { c.player = p }
}

// New creates a coordinator over exactly the three universe containers.
// The starting position is resolved against the starting universe's
// geometry; unhostable geometry fails here, at load, not mid-run.
func New(g *causal.Graph, pm *paradox.Manager, worlds map[universe.Kind]*universe.Container, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		graph:    g,
		pm:       pm,
		worlds:   worlds,
		active:   universe.KindPrime,
		cooldown: DefaultSwitchCooldown,
		token:    uuid.NewV7,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, k := range universe.Order() {
		if _, ok := worlds[k]; !ok {
			return nil, NewUnknownUniverseError(k)
		}
	}
	if _, ok := worlds[c.active]; !ok {
		return nil, NewUnknownUniverseError(c.active)
	}

	resolved, err := c.worlds[c.active].Place(c.player)
	if err != nil {
		return nil, err
	}
	c.player = resolved
	// First switch is allowed immediately.
	c.sinceSwitch = c.cooldown

	c.attempt, err = c.token()
	if err != nil {
		return nil, err
	}

	c.initialGraph = g.Snapshot()
	c.initialActive = c.active
	c.initialPlayer = c.player
	c.syncWorlds()
	return c, nil
}

// ValidateSwitchability checks that every walkable cell of every universe,
// plus the given positions, resolves to a hostable cell in every universe.
// Level loading runs this so a LEVEL_DESIGN error surfaces before play,
// never during: any cell the player can reach is guaranteed a relocation
// target everywhere.
func (c *Coordinator) ValidateSwitchability(positions []universe.Pos) error {
	sweep := append([]universe.Pos(nil), positions...)
	for _, k := range universe.Order() {
		grid := c.worlds[k].Grid()
		for y := 0; y < grid.Height(); y++ {
			for x := 0; x < grid.Width(); x++ {
				p := universe.Pos{X: x, Y: y}
				if grid.Walkable(p) {
					sweep = append(sweep, p)
				}
			}
		}
	}
	for _, k := range universe.Order() {
		for _, p := range sweep {
			if _, err := c.worlds[k].Place(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// RequestSwitch validates and queues a universe switch. The switch is not
// applied here; it takes effect at the start of the next frame so no
// observer sees a half-propagated graph through the wrong universe.
func (c *Coordinator) RequestSwitch(target universe.Kind) error {
	if _, ok := c.worlds[target]; !ok {
		return NewUnknownUniverseError(target)
	}
	if target == c.active {
		return NewSameUniverseError(target)
	}
	if c.sinceSwitch < c.cooldown {
		return NewOnCooldownError(target, c.cooldown-c.sinceSwitch)
	}
	c.pending = &target
	return nil
}

// EnqueueChange queues an entity state change for the next frame's
// propagation. The node must exist now; a typo'd id fails at enqueue, not
// silently mid-frame.
func (c *Coordinator) EnqueueChange(node causal.NodeID, state causal.State) error {
	if _, err := c.graph.Node(node); err != nil {
		return err
	}
	c.actions = append(c.actions, action{node: node, state: state})
	return nil
}

// Step advances the simulation by dt seconds. Ordering is fixed: deferred
// switch, queued actions through propagation, passive decay, one tier
// evaluation, entity bookkeeping.
func (c *Coordinator) Step(dt float64) error {
	c.frame++
	c.sinceSwitch += dt

	if c.pending != nil {
		target := *c.pending
		c.pending = nil
		if err := c.applySwitch(target); err != nil {
			return err
		}
	}

	acts := c.actions
	c.actions = nil
	for _, a := range acts {
		res, err := c.graph.PropagateChange(a.node, a.state)
		if err != nil {
			// The node was removed between enqueue and drain. Drop the
			// action; the frame still completes.
			c.logger.Warn("dropping queued change",
				"node", string(a.node),
				"error", err)
			continue
		}
		for _, ch := range res.Changes {
			c.emit(NodeStateChanged{Node: ch.Node, NewState: ch.NewState, Exists: ch.NewExists})
		}
		for _, contrib := range res.Contributions {
			if _, err := c.pm.Add(contrib.Amount, string(contrib.Source)); err != nil {
				c.logger.Warn("paradox contribution rejected",
					"source", string(contrib.Source),
					"error", err)
			}
		}
		if res.CycleDetected {
			c.logger.Warn("propagation capped",
				"origin", string(a.node),
				"steps", res.Steps)
		}
	}

	c.pm.Decay(dt)

	// Exactly one tier evaluation for the whole frame, however many
	// changes were drained.
	if change, crossed := c.pm.EvaluateTier(); crossed {
		c.emit(ParadoxTierChanged{From: change.From, To: change.To})
	}

	c.syncWorlds()
	return nil
}

func (c *Coordinator) applySwitch(target universe.Kind) error {
	from := c.active
	resolved, err := c.worlds[target].Place(c.player)
	if err != nil {
		// Geometry was validated at load; reaching this is a defect.
		return err
	}
	c.active = target
	c.player = resolved
	c.sinceSwitch = 0
	c.emit(UniverseSwitched{From: from, To: target, Pos: resolved})
	c.logger.Info("universe switched",
		"from", string(from),
		"to", string(target),
		"pos", resolved.String())
	return nil
}

func (c *Coordinator) emit(n Notification) {
	c.events = append(c.events, Event{Attempt: c.attempt, Frame: c.frame, Notification: n})
}

func (c *Coordinator) syncWorlds() {
	// Non-active universes have no frame loop of their own; this lazy
	// pass is the only thing keeping their entities current.
	for _, k := range universe.Order() {
		c.worlds[k].SyncExistence(c.graph)
	}
}

// PollNotifications drains the outbound queue in emission order.
func (c *Coordinator) PollNotifications() []Event {
	ev := c.events
	c.events = nil
	return ev
}

// SetPlayerPosition moves the player within the active universe,
// relocating off solid cells the same way a switch does.
func (c *Coordinator) SetPlayerPosition(p universe.Pos) error {
	resolved, err := c.worlds[c.active].Place(p)
	if err != nil {
		return err
	}
	c.player = resolved
	return nil
}

// ActiveUniverse returns the currently active universe kind.
func (c *Coordinator) ActiveUniverse() universe.Kind { return c.active }

// Player returns the shared player position.
func (c *Coordinator) Player() universe.Pos { return c.player }

// World returns the container for kind.
func (c *Coordinator) World(k universe.Kind) (*universe.Container, error) {
	w, ok := c.worlds[k]
	if !ok {
		return nil, NewUnknownUniverseError(k)
	}
	return w, nil
}

// Graph returns the causal graph for read access.
func (c *Coordinator) Graph() *causal.Graph { return c.graph }

// Paradox returns the paradox manager for read access.
func (c *Coordinator) Paradox() *paradox.Manager { return c.pm }

// Frame returns the number of completed frames.
func (c *Coordinator) Frame() int64 { return c.frame }

// Attempt returns the current level-attempt token.
func (c *Coordinator) Attempt() uuid.UUID { return c.attempt }

// Annihilated reports the end-of-attempt condition surfaced by the
// paradox manager.
func (c *Coordinator) Annihilated() bool { return c.pm.Annihilated() }

// Snapshot is the versioned persistence shape for a whole attempt.
type Snapshot struct {
	Version        int                  `json:"version"`
	ActiveUniverse string               `json:"active_universe"`
	Player         universe.Pos         `json:"player"`
	Graph          causal.GraphSnapshot `json:"graph"`
	Paradox        paradox.Snapshot     `json:"paradox"`
}

// Snapshot exports the current simulation state.
func (c *Coordinator) Snapshot() Snapshot {
	return Snapshot{
		Version:        SnapshotVersion,
		ActiveUniverse: string(c.active),
		Player:         c.player,
		Graph:          c.graph.Snapshot(),
		Paradox:        c.pm.Snapshot(),
	}
}

// RestoreSnapshot replaces the simulation state with snap. A version
// mismatch or an operator unknown to this build fails without partial
// application of the graph.
func (c *Coordinator) RestoreSnapshot(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return NewUnsupportedVersionError(snap.Version)
	}
	kind := universe.Kind(snap.ActiveUniverse)
	if _, ok := c.worlds[kind]; !ok {
		return NewUnknownUniverseError(kind)
	}

	staged := causal.NewGraph()
	if err := staged.Restore(snap.Graph); err != nil {
		return err
	}
	c.graph.Clear()
	if err := c.graph.Restore(snap.Graph); err != nil {
		return err
	}
	c.pm.Restore(snap.Paradox)
	c.active = kind
	c.player = snap.Player
	c.pending = nil
	c.actions = nil
	c.events = nil
	c.sinceSwitch = c.cooldown
	c.syncWorlds()
	return nil
}

// Reset returns the simulation to its load-time state under a fresh
// attempt token. Used on level reload.
func (c *Coordinator) Reset() error {
	c.graph.Clear()
	if err := c.graph.Restore(c.initialGraph); err != nil {
		return err
	}
	c.pm.Reset()
	c.active = c.initialActive
	c.player = c.initialPlayer
	c.pending = nil
	c.actions = nil
	c.events = nil
	c.frame = 0
	c.sinceSwitch = c.cooldown

	token, err := c.token()
	if err != nil {
		return err
	}
	c.attempt = token
	c.syncWorlds()
	return nil
}
