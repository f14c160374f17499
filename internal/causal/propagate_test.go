package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph registers the given nodes and wires edges in order.
func buildGraph(t *testing.T, nodes []Node, edges [][3]any) *Graph {
	t.Helper()
	g := NewGraph()
	for _, n := range nodes {
		_, err := g.RegisterNode(n)
		require.NoError(t, err)
	}
	for _, e := range edges {
		require.NoError(t, g.AddDependency(e[0].(NodeID), e[1].(NodeID), e[2].(Operator), nil))
	}
	return g
}

// Felling the tree removes the bridge it sustains, in one pass, with no
// paradox.
func TestPropagate_EchoExistence(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("tree", StateExists), newNode("bridge", StateExists)},
		[][3]any{{NodeID("tree"), NodeID("bridge"), Echo{}}},
	)

	res, err := g.PropagateChange("tree", StateDestroyed)
	require.NoError(t, err)

	require.Len(t, res.Changes, 2)
	assert.Equal(t, NodeID("tree"), res.Changes[0].Node)
	assert.Equal(t, NodeID("bridge"), res.Changes[1].Node)
	assert.False(t, res.Changes[1].NewExists)

	bridge, err := g.Node("bridge")
	require.NoError(t, err)
	assert.False(t, bridge.Exists)
	assert.Equal(t, StateDestroyed, bridge.State)

	assert.Empty(t, res.Contributions, "clean echo carries zero paradox")
	assert.Empty(t, g.CheckParadoxes())
	assert.False(t, res.CycleDetected)
}

// Igniting torch A extinguishes its inverse-linked twin in the same pass.
func TestPropagate_InverseTorches(t *testing.T) {
	torchA := newNode("torch_a", StateOff)
	torchB := newNode("torch_b", StateOn)
	g := buildGraph(t,
		[]Node{torchA, torchB},
		[][3]any{{NodeID("torch_a"), NodeID("torch_b"), Inverse{}}},
	)

	res, err := g.PropagateChange("torch_a", StateOn)
	require.NoError(t, err)
	require.Len(t, res.Changes, 2)

	b, err := g.Node("torch_b")
	require.NoError(t, err)
	assert.Equal(t, StateOff, b.State)
	assert.True(t, b.Exists, "inverse of a non-existence state leaves existence alone")
	assert.Empty(t, res.Contributions)
}

// Collecting key A prevents its counterparts; a later spawn attempt fails.
func TestPropagate_ExclusivePreventsCounterparts(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("key_a", StateExists), newNode("key_b", StateExists), newNode("key_c", StateExists)},
		[][3]any{
			{NodeID("key_a"), NodeID("key_b"), Exclusive{Universes: []string{"echo"}}},
			{NodeID("key_a"), NodeID("key_c"), Exclusive{Universes: []string{"fracture"}}},
		},
	)

	res, err := g.PropagateChange("key_a", StateActive)
	require.NoError(t, err)
	require.Len(t, res.Changes, 3)

	for _, id := range []NodeID{"key_b", "key_c"} {
		n, err := g.Node(id)
		require.NoError(t, err)
		assert.False(t, n.Exists, "%s must be prevented", id)
		assert.True(t, n.Prevented)
		assert.Equal(t, NodeID("key_a"), n.PreventedBy)

		spawnErr := g.CanSpawn(id)
		require.Error(t, spawnErr)
		assert.True(t, IsExistencePrevented(spawnErr))
	}
}

// The binding list limits which counterparts the prevention reaches: a
// target declaring a universe outside it is untouched.
func TestPropagate_ExclusiveScopedByUniverseList(t *testing.T) {
	g := buildGraph(t,
		[]Node{
			newNode("key_a", StateExists),
			{ID: "key_b", Universe: "echo", State: StateExists, Exists: true},
			{ID: "key_c", Universe: "fracture", State: StateExists, Exists: true},
		},
		[][3]any{
			{NodeID("key_a"), NodeID("key_b"), Exclusive{Universes: []string{"echo"}}},
			{NodeID("key_a"), NodeID("key_c"), Exclusive{Universes: []string{"echo"}}},
		},
	)

	_, err := g.PropagateChange("key_a", StateActive)
	require.NoError(t, err)

	b, err := g.Node("key_b")
	require.NoError(t, err)
	assert.True(t, b.Prevented)

	c, err := g.Node("key_c")
	require.NoError(t, err)
	assert.False(t, c.Prevented, "fracture is outside the binding list")
	assert.True(t, c.Exists)
	assert.NoError(t, g.CanSpawn("key_c"))
}

// Prevention holds only until the source's existence reverts.
func TestPropagate_ExclusiveRevertsWithSource(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("key_a", StateExists), newNode("key_b", StateExists)},
		[][3]any{{NodeID("key_a"), NodeID("key_b"), Exclusive{}}},
	)

	_, err := g.PropagateChange("key_a", StateActive)
	require.NoError(t, err)
	require.Error(t, g.CanSpawn("key_b"))

	_, err = g.PropagateChange("key_a", StateDestroyed)
	require.NoError(t, err)

	assert.NoError(t, g.CanSpawn("key_b"))
	b, err := g.Node("key_b")
	require.NoError(t, err)
	assert.True(t, b.Exists)
	assert.False(t, b.Prevented)
}

// A converged 2-cycle settles without tripping the bound: the second leg
// computes a candidate equal to the current value and stops.
func TestPropagate_TwoCycleConverges(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateExists), newNode("b", StateExists)},
		[][3]any{
			{NodeID("a"), NodeID("b"), Echo{}},
			{NodeID("b"), NodeID("a"), Echo{}},
		},
	)

	res, err := g.PropagateChange("a", StateDestroyed)
	require.NoError(t, err)

	assert.False(t, res.CycleDetected)
	assert.LessOrEqual(t, res.Steps, 2*g.Len(), "2-cycle converges within 2N steps")
	require.Len(t, res.Changes, 2)
	assert.Empty(t, res.Contributions)
}

// An odd inverse ring never converges; the step bound caps it and degrades
// the overflow into a paradox contribution instead of looping forever.
func TestPropagate_OddInverseRingHitsBound(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateOff), newNode("b", StateOff), newNode("c", StateOff)},
		[][3]any{
			{NodeID("a"), NodeID("b"), Inverse{}},
			{NodeID("b"), NodeID("c"), Inverse{}},
			{NodeID("c"), NodeID("a"), Inverse{}},
		},
	)

	res, err := g.PropagateChange("a", StateOn)
	require.NoError(t, err)

	assert.True(t, res.CycleDetected)
	require.NotEmpty(t, res.Contributions)
	last := res.Contributions[len(res.Contributions)-1]
	assert.Equal(t, ReasonDepthExceeded, last.Reason)
	assert.Equal(t, NodeID("a"), last.Source)
}

func TestPropagate_IdempotentChangeIsNoop(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateExists), newNode("b", StateExists)},
		[][3]any{{NodeID("a"), NodeID("b"), Echo{}}},
	)

	res, err := g.PropagateChange("a", StateExists)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Zero(t, res.Steps)
}

func TestPropagate_UnknownOrigin(t *testing.T) {
	g := NewGraph()
	_, err := g.PropagateChange("ghost", StateExists)
	require.Error(t, err)
	assert.True(t, IsUnknownNode(err))
}

// The tracked condition gates the edge and is read fresh each pass.
func TestPropagate_ConditionalReadFresh(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("lever", StateOff), newNode("gate", StateClosed)},
		[][3]any{{NodeID("lever"), NodeID("gate"), Conditional{}}},
	)

	res, err := g.PropagateChange("lever", StateOn)
	require.NoError(t, err)
	require.Len(t, res.Changes, 1, "condition unmet: only the origin changes")

	gate, err := g.Node("gate")
	require.NoError(t, err)
	assert.Equal(t, StateClosed, gate.State)

	require.NoError(t, g.SetCondition("gate", true))
	res, err = g.PropagateChange("lever", StateOff)
	require.NoError(t, err)
	require.Len(t, res.Changes, 2)

	gate, err = g.Node("gate")
	require.NoError(t, err)
	assert.Equal(t, StateOff, gate.State)
}

// Every applied Cascade hop charges its increment.
func TestPropagate_CascadeChargesPerHop(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("stone_prime", StateInactive), newNode("stone_echo", StateInactive), newNode("stone_fracture", StateInactive)},
		[][3]any{
			{NodeID("stone_prime"), NodeID("stone_echo"), Cascade{}},
			{NodeID("stone_echo"), NodeID("stone_fracture"), Cascade{Increment: 2.5}},
		},
	)

	res, err := g.PropagateChange("stone_prime", StateActive)
	require.NoError(t, err)
	require.Len(t, res.Changes, 3)

	require.Len(t, res.Contributions, 2)
	assert.Equal(t, ReasonCascadeHop, res.Contributions[0].Reason)
	assert.Equal(t, DefaultCascadeIncrement, res.Contributions[0].Amount)
	assert.Equal(t, 2.5, res.Contributions[1].Amount, "edge increment wins over the default")
}

func TestPropagate_CascadeIncrementOption(t *testing.T) {
	g := NewGraph(WithCascadeIncrement(1.0))
	for _, id := range []NodeID{"a", "b"} {
		_, err := g.RegisterNode(newNode(id, StateInactive))
		require.NoError(t, err)
	}
	require.NoError(t, g.AddDependency("a", "b", Cascade{}, nil))

	res, err := g.PropagateChange("a", StateActive)
	require.NoError(t, err)
	require.Len(t, res.Contributions, 1)
	assert.Equal(t, 1.0, res.Contributions[0].Amount)
}

// Existence asserted through one path and denied through another in the
// same pass is a contradiction, weighted by the heaviest operator involved.
func TestPropagate_ContradictionLightOperators(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateExists), newNode("b", StateOn), newNode("c", StateExists)},
		[][3]any{
			{NodeID("a"), NodeID("c"), Echo{}},    // denies c on destruction
			{NodeID("a"), NodeID("b"), Inverse{}}, // flips b to exists
			{NodeID("b"), NodeID("c"), Echo{}},    // re-asserts c
		},
	)

	res, err := g.PropagateChange("a", StateDestroyed)
	require.NoError(t, err)

	contradictions := g.CheckParadoxes()
	require.Len(t, contradictions, 1)
	assert.Equal(t, NodeID("c"), contradictions[0].Node)
	assert.Equal(t, weightLight, contradictions[0].Weight)

	var found bool
	for _, c := range res.Contributions {
		if c.Reason == ReasonContradiction {
			found = true
			assert.Equal(t, NodeID("c"), c.Source)
			assert.Equal(t, weightLight, c.Amount)
		}
	}
	assert.True(t, found, "contradiction must raise a contribution")
}

func TestPropagate_ContradictionHeavyOperators(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateExists), newNode("b", StateOn), newNode("c", StateExists)},
		[][3]any{
			{NodeID("a"), NodeID("c"), Cascade{}},
			{NodeID("a"), NodeID("b"), Inverse{}},
			{NodeID("b"), NodeID("c"), Echo{}},
		},
	)

	_, err := g.PropagateChange("a", StateDestroyed)
	require.NoError(t, err)

	contradictions := g.CheckParadoxes()
	require.Len(t, contradictions, 1)
	assert.Equal(t, weightHeavy, contradictions[0].Weight,
		"cascade contradictions weigh more than echo/inverse ones")
}

func TestPropagate_ChainAppliesInOrder(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateExists), newNode("b", StateExists), newNode("c", StateExists), newNode("d", StateExists)},
		[][3]any{
			{NodeID("a"), NodeID("b"), Echo{}},
			{NodeID("b"), NodeID("c"), Echo{}},
			{NodeID("c"), NodeID("d"), Echo{}},
		},
	)

	res, err := g.PropagateChange("a", StateDestroyed)
	require.NoError(t, err)

	require.Len(t, res.Path, 3)
	assert.Equal(t, [2]NodeID{"a", "b"}, res.Path[0])
	assert.Equal(t, [2]NodeID{"b", "c"}, res.Path[1])
	assert.Equal(t, [2]NodeID{"c", "d"}, res.Path[2])
	assert.False(t, res.CycleDetected)
}

func TestGraph_Visual(t *testing.T) {
	g := buildGraph(t,
		[]Node{newNode("a", StateExists), newNode("b", StateExists)},
		[][3]any{{NodeID("a"), NodeID("b"), Echo{}}},
	)
	_, err := g.PropagateChange("a", StateDestroyed)
	require.NoError(t, err)

	v := g.Visual()
	require.Len(t, v.Nodes, 2)
	require.Len(t, v.Edges, 1)
	assert.Equal(t, "echo", v.Edges[0].Operator)
	require.Len(t, v.LastPropagation, 1)
	assert.Equal(t, [2]NodeID{"a", "b"}, v.LastPropagation[0])
}
