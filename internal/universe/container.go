package universe

import (
	"io"
	"log/slog"

	"github.com/roach88/causality/internal/causal"
)

// Container is one universe: its geometry plus the entities in it.
// Single-writer, mutated only by the coordinator.
type Container struct {
	kind     Kind
	grid     *Grid
	entities map[string]*Entity
	// order preserves spawn order for deterministic iteration.
	order  []string
	logger *slog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// NewContainer creates an empty universe over the given geometry.
func NewContainer(kind Kind, grid *Grid, opts ...Option) *Container {
	c := &Container{
		kind:     kind,
		grid:     grid,
		entities: make(map[string]*Entity),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns which universe this container is.
func (c *Container) Kind() Kind { return c.kind }

// Grid returns the static geometry.
func (c *Container) Grid() *Grid { return c.grid }

// Spawn places an entity. When the entity is backed by a causal node, an
// Exclusive prevention on that node rejects the spawn before any state
// changes. The spawn position must be in bounds; it need not be open,
// scenery is allowed to sit on solid tiles.
func (c *Container) Spawn(e Entity, g *causal.Graph) error {
	if _, ok := c.entities[e.ID]; ok {
		return NewDuplicateEntityError(c.kind, e.ID)
	}
	if !c.grid.InBounds(e.Pos) {
		err := NewOutOfBoundsError(c.kind, e.Pos)
		err.EntityID = e.ID
		return err
	}
	if e.NodeID != "" && g != nil {
		if err := g.CanSpawn(e.NodeID); err != nil {
			return err
		}
	}
	ent := e
	c.entities[e.ID] = &ent
	c.order = append(c.order, e.ID)
	c.logger.Debug("entity spawned",
		"universe", string(c.kind),
		"entity", e.ID,
		"node", string(e.NodeID),
		"pos", e.Pos.String())
	return nil
}

// Remove deletes an entity from the container. The backing causal node,
// if any, is the coordinator's to clean up.
func (c *Container) Remove(id string) error {
	if _, ok := c.entities[id]; !ok {
		return NewUnknownEntityError(c.kind, id)
	}
	delete(c.entities, id)
	for i, eid := range c.order {
		if eid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entity returns a copy of the named entity.
func (c *Container) Entity(id string) (Entity, error) {
	e, ok := c.entities[id]
	if !ok {
		return Entity{}, NewUnknownEntityError(c.kind, id)
	}
	return *e, nil
}

// Entities returns copies of all entities in spawn order.
func (c *Container) Entities() []Entity {
	out := make([]Entity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.entities[id])
	}
	return out
}

// Len returns the number of entities.
func (c *Container) Len() int { return len(c.entities) }

// SyncExistence refreshes each node-backed entity from the graph and
// returns the ids whose existence or state changed. Containers for
// non-active universes are synced lazily with this same call; nothing
// else keeps them current.
func (c *Container) SyncExistence(g *causal.Graph) []string {
	var changed []string
	for _, id := range c.order {
		e := c.entities[id]
		if e.NodeID == "" {
			continue
		}
		n, err := g.Node(e.NodeID)
		if err != nil {
			continue
		}
		if e.Exists != n.Exists || e.State != n.State {
			e.Exists = n.Exists
			e.State = n.State
			changed = append(changed, id)
		}
	}
	return changed
}

// Place resolves pos to a hostable cell: pos itself when walkable,
// otherwise the deterministic ring relocation. Exhausting the radius is a
// LEVEL_DESIGN error.
func (c *Container) Place(pos Pos) (Pos, error) {
	if !c.grid.InBounds(pos) {
		return Pos{}, NewOutOfBoundsError(c.kind, pos)
	}
	resolved, ok := c.grid.FindValidCell(pos)
	if !ok {
		return Pos{}, NewLevelDesignError(c.kind, pos)
	}
	return resolved, nil
}
