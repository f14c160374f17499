package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOrchard(t *testing.T) *Level {
	t.Helper()
	l, err := Parse([]byte(orchardYAML))
	require.NoError(t, err)
	return l
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_CleanLevel(t *testing.T) {
	assert.Empty(t, parseOrchard(t).Validate())
}

func TestValidate_SchemaViolations(t *testing.T) {
	l := parseOrchard(t)
	l.Nodes[0].State = "haunted"
	l.Edges[0].Operator = "entangle"

	errs := l.Validate()
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, ErrSchemaViolation, e.Code)
	}
}

func TestValidate_MissingUniverseBlock(t *testing.T) {
	l := parseOrchard(t)
	delete(l.Worlds, "fracture")

	assert.Contains(t, codes(l.Validate()), ErrSchemaViolation)
}

func TestValidate_DuplicateNode(t *testing.T) {
	l := parseOrchard(t)
	l.Nodes = append(l.Nodes, l.Nodes[0])

	assert.Contains(t, codes(l.Validate()), ErrDuplicateNode)
}

func TestValidate_DanglingEdge(t *testing.T) {
	l := parseOrchard(t)
	l.Edges[0].Target = "missing"

	assert.Contains(t, codes(l.Validate()), ErrDanglingEdge)
}

func TestValidate_SelfLoop(t *testing.T) {
	l := parseOrchard(t)
	l.Edges[0].Target = l.Edges[0].Source

	assert.Contains(t, codes(l.Validate()), ErrSelfLoop)
}

func TestValidate_BadGeometry(t *testing.T) {
	l := parseOrchard(t)
	l.Worlds["echo"] = UniverseDef{Geometry: []string{".....", "..."}}

	assert.Contains(t, codes(l.Validate()), ErrBadGeometry)
}

func TestValidate_SpawnViolations(t *testing.T) {
	l := parseOrchard(t)
	l.Spawns = append(l.Spawns, SpawnDef{
		Entity:      "tree",
		Universe:    "prime",
		Pos:         l.Spawns[0].Pos,
		Persistence: "variant",
	})
	got := codes(l.Validate())
	assert.Contains(t, got, ErrDuplicateSpawn)

	l = parseOrchard(t)
	l.Spawns[0].Node = "missing"
	assert.Contains(t, codes(l.Validate()), ErrBadSpawnNode)

	// Spawn universe must match the node's home universe.
	l = parseOrchard(t)
	l.Spawns[0].Universe = "echo"
	assert.Contains(t, codes(l.Validate()), ErrBadSpawnNode)
}

func TestValidate_CascadeMustFollowUniverseOrder(t *testing.T) {
	l := parseOrchard(t)
	l.Nodes = append(l.Nodes, NodeDef{ID: "rift_fracture", Universe: "fracture", State: "exists"})

	// prime -> fracture skips echo in the cyclic ordering.
	l.Edges = append(l.Edges, EdgeDef{Source: "tree_prime", Target: "rift_fracture", Operator: "cascade"})
	assert.Contains(t, codes(l.Validate()), ErrCascadeOrder)

	// prime -> echo is the ordering's next hop.
	l = parseOrchard(t)
	l.Edges = append(l.Edges, EdgeDef{Source: "tree_prime", Target: "bridge_echo", Operator: "cascade"})
	assert.Empty(t, l.Validate())
}

func TestValidate_AnchoredNeedsAllCounterparts(t *testing.T) {
	l := parseOrchard(t)
	l.Spawns[0].Persistence = "anchored"

	assert.Contains(t, codes(l.Validate()), ErrAnchoredIncomplete)
}

func TestValidate_ExclusiveNeedsHomeBinding(t *testing.T) {
	l := parseOrchard(t)
	l.Nodes = append(l.Nodes, NodeDef{ID: "key_prime", Entity: "key", Universe: "prime", State: "exists"},
		NodeDef{ID: "key_echo", Entity: "key", Universe: "echo", State: "exists"})
	l.Spawns = append(l.Spawns,
		SpawnDef{Entity: "key", Universe: "prime", Pos: l.Spawns[0].Pos, Persistence: "exclusive", Node: "key_prime"},
		SpawnDef{Entity: "key", Universe: "echo", Pos: l.Spawns[0].Pos, Persistence: "exclusive", Node: "key_echo"},
	)

	assert.Contains(t, codes(l.Validate()), ErrExclusiveHomes)

	// An exclusive edge between the counterparts binds the home.
	l.Edges = append(l.Edges, EdgeDef{Source: "key_prime", Target: "key_echo", Operator: "exclusive", Universes: []string{"echo"}})
	assert.NotContains(t, codes(l.Validate()), ErrExclusiveHomes)
}
