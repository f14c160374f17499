package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	g := NewGraph()
	_, err := g.RegisterNode(Node{ID: "tree", EntityID: "ent-tree", Universe: "prime", State: StateExists, Exists: true})
	require.NoError(t, err)
	_, err = g.RegisterNode(Node{ID: "bridge", Universe: "echo", State: StateExists, Exists: true, ConditionMet: true})
	require.NoError(t, err)
	_, err = g.RegisterNode(Node{ID: "key", Universe: "fracture", State: StateExists, Exists: false, Prevented: true, PreventedBy: "tree"})
	require.NoError(t, err)

	require.NoError(t, g.AddDependency("tree", "bridge", Echo{}, map[string]string{"note": "span"}))
	require.NoError(t, g.AddDependency("tree", "key", Exclusive{Universes: []string{"fracture"}}, nil))
	require.NoError(t, g.AddDependency("bridge", "key", Cascade{Increment: 3}, nil))

	snap := g.Snapshot()
	require.Len(t, snap.Nodes, 3)
	require.Len(t, snap.Edges, 3)
	assert.Equal(t, "echo", snap.Edges[0].Operator)
	assert.Equal(t, []string{"fracture"}, snap.Edges[1].Universes)
	assert.Equal(t, 3.0, snap.Edges[2].Increment)

	restored := NewGraph()
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, g.Nodes(), restored.Nodes())
	require.Len(t, restored.Edges(), 3)

	key, err := restored.Node("key")
	require.NoError(t, err)
	assert.True(t, key.Prevented)
	assert.Equal(t, NodeID("tree"), key.PreventedBy)
	assert.True(t, IsExistencePrevented(restored.CanSpawn("key")))
}

func TestSnapshot_SkipsRemovedNodes(t *testing.T) {
	g := NewGraph()
	for _, id := range []NodeID{"a", "b"} {
		_, err := g.RegisterNode(newNode(id, StateExists))
		require.NoError(t, err)
	}
	require.NoError(t, g.AddDependency("a", "b", Echo{}, nil))
	require.NoError(t, g.RemoveNode("b"))

	snap := g.Snapshot()
	require.Len(t, snap.Nodes, 1)
	assert.Empty(t, snap.Edges)
}

func TestDecodeOperator(t *testing.T) {
	op, err := DecodeOperator("echo", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, KindEcho, op.Kind())

	op, err = DecodeOperator("exclusive", []string{"echo", "fracture"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "fracture"}, op.(Exclusive).Universes)

	op, err = DecodeOperator("cascade", nil, 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, op.(Cascade).Increment)
}

// A snapshot carrying an operator this build does not know must fail, not
// silently drop the edge.
func TestRestore_UnsupportedOperator(t *testing.T) {
	snap := GraphSnapshot{
		Nodes: []NodeSnapshot{
			{ID: "a", State: "exists", Exists: true},
			{ID: "b", State: "exists", Exists: true},
		},
		Edges: []EdgeSnapshot{
			{Source: "a", Target: "b", Operator: "entangle"},
		},
	}

	err := NewGraph().Restore(snap)
	require.Error(t, err)
	assert.True(t, IsUnsupportedOperator(err))
}

func TestRestore_RejectsMalformed(t *testing.T) {
	dup := GraphSnapshot{Nodes: []NodeSnapshot{
		{ID: "a", State: "exists", Exists: true},
		{ID: "a", State: "exists", Exists: true},
	}}
	err := NewGraph().Restore(dup)
	assert.True(t, IsDuplicateNode(err))

	dangling := GraphSnapshot{
		Nodes: []NodeSnapshot{{ID: "a", State: "exists", Exists: true}},
		Edges: []EdgeSnapshot{{Source: "a", Target: "ghost", Operator: "echo"}},
	}
	err = NewGraph().Restore(dangling)
	assert.True(t, IsUnknownNode(err))
}
