package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_FelledTree(t *testing.T) {
	sc := loadFelledTree(t)
	require.NoError(t, RunWithGolden(t, sc))
}

func TestBuildSnapshot_Shape(t *testing.T) {
	sc := loadFelledTree(t)
	res, err := Run(sc)
	require.NoError(t, err)

	snap := buildSnapshot(res)
	assert.Equal(t, "felled-tree", snap.Scenario)
	assert.Equal(t, int64(2), snap.Frames)
	require.Len(t, snap.Trace, 3)
	assert.Equal(t, "node_state_changed", snap.Trace[0]["type"])
	assert.Equal(t, int64(1), snap.Trace[0]["frame"])
	assert.Equal(t, "universe_switched", snap.Trace[2]["type"])
	assert.Equal(t, "echo", snap.Final["active_universe"])
}
