package paradox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Add(t *testing.T) {
	m := NewManager()

	applied, err := m.Add(12.5, "torch")
	require.NoError(t, err)
	assert.Equal(t, 12.5, applied)
	assert.Equal(t, 12.5, m.Scalar())
	assert.Equal(t, map[string]float64{"torch": 12.5}, m.Ledger())
}

func TestManager_Add_RejectsNonPositive(t *testing.T) {
	m := NewManager()

	_, err := m.Add(0, "x")
	assert.True(t, IsInvalidAmount(err))

	_, err = m.Add(-3, "x")
	assert.True(t, IsInvalidAmount(err))

	assert.Equal(t, 0.0, m.Scalar())
	assert.Empty(t, m.Ledger())
}

// Contributions past 100 clamp; the ledger records what was applied, not
// what was asked for.
func TestManager_Add_ClampsAndLedgersAppliedAmount(t *testing.T) {
	m := NewManager()

	applied, err := m.Add(40, "x")
	require.NoError(t, err)
	assert.Equal(t, 40.0, applied)

	applied, err = m.Add(70, "y")
	require.NoError(t, err)
	assert.Equal(t, 60.0, applied)

	assert.Equal(t, 100.0, m.Scalar())
	assert.Equal(t, map[string]float64{"x": 40, "y": 60}, m.Ledger())

	change, crossed := m.EvaluateTier()
	require.True(t, crossed)
	assert.Equal(t, TierAnnihilation, change.To)
	assert.True(t, m.Annihilated())
}

func TestManager_Reduce_FloorsAtZero(t *testing.T) {
	m := NewManager()
	_, err := m.Add(10, "x")
	require.NoError(t, err)

	require.NoError(t, m.Reduce(25, "stabilizer"))
	assert.Equal(t, 0.0, m.Scalar())

	assert.True(t, IsInvalidAmount(m.Reduce(0, "noop")))
}

func TestManager_EvaluateTier_OncePerCrossing(t *testing.T) {
	m := NewManager()
	_, err := m.Add(30, "x")
	require.NoError(t, err)

	change, crossed := m.EvaluateTier()
	require.True(t, crossed)
	assert.Equal(t, TierChange{From: TierStable, To: TierUnstable}, change)

	// Idling inside the tier must not re-fire.
	_, crossed = m.EvaluateTier()
	assert.False(t, crossed)

	_, err = m.Add(5, "x")
	require.NoError(t, err)
	_, crossed = m.EvaluateTier()
	assert.False(t, crossed)
}

func TestManager_EvaluateTier_MultiTierJump(t *testing.T) {
	m := NewManager()
	_, err := m.Add(60, "spike")
	require.NoError(t, err)

	change, crossed := m.EvaluateTier()
	require.True(t, crossed)
	assert.Equal(t, TierChange{From: TierStable, To: TierCritical}, change)
}

func TestManager_EvaluateTier_Falling(t *testing.T) {
	m := NewManager()
	_, err := m.Add(60, "x")
	require.NoError(t, err)
	_, _ = m.EvaluateTier()

	require.NoError(t, m.Reduce(40, "cleanse"))
	change, crossed := m.EvaluateTier()
	require.True(t, crossed)
	assert.Equal(t, TierChange{From: TierCritical, To: TierStable}, change)
}

func TestManager_Decay_WaitsForQuietWindow(t *testing.T) {
	m := NewManager()
	_, err := m.Add(10, "x")
	require.NoError(t, err)

	m.Decay(1.0)
	assert.Equal(t, 10.0, m.Scalar(), "inside the quiet window")

	m.Decay(1.0)
	assert.Equal(t, 10.0, m.Scalar(), "window exactly elapsed, no post-window time yet")

	m.Decay(1.0)
	assert.Equal(t, 9.5, m.Scalar(), "0.5/s applies past the window")

	// A fresh contribution resets the window.
	_, err = m.Add(1, "x")
	require.NoError(t, err)
	m.Decay(1.0)
	assert.Equal(t, 10.5, m.Scalar())
}

// A frame that straddles the window boundary decays only the time spent
// past it, not the whole dt.
func TestManager_Decay_CrossingFramePartialCharge(t *testing.T) {
	m := NewManager()
	_, err := m.Add(10, "x")
	require.NoError(t, err)

	m.Decay(2.5)
	assert.Equal(t, 9.75, m.Scalar())
}

func TestManager_Decay_SuspendedAtCollapse(t *testing.T) {
	m := NewManager()
	_, err := m.Add(80, "x")
	require.NoError(t, err)

	m.Decay(10)
	assert.Equal(t, 80.0, m.Scalar())
}

func TestManager_Consume(t *testing.T) {
	m := NewManager()
	_, err := m.Add(30, "x")
	require.NoError(t, err)

	require.NoError(t, m.Consume(20, "rewind"))
	assert.Equal(t, 10.0, m.Scalar())

	err = m.Consume(15, "rewind")
	assert.True(t, IsInsufficientParadox(err))
	assert.Equal(t, 10.0, m.Scalar())

	assert.True(t, IsInvalidAmount(m.Consume(-1, "bad")))
}

// Annihilation is terminal even if the scalar later drops below 100.
func TestManager_Annihilated_Latches(t *testing.T) {
	m := NewManager()
	_, err := m.Add(100, "x")
	require.NoError(t, err)
	require.True(t, m.Annihilated())

	require.NoError(t, m.Reduce(50, "too-late"))
	assert.True(t, m.Annihilated())
}

func TestManager_RecentSources(t *testing.T) {
	m := NewManager()
	for _, src := range []string{"a", "b", "c"} {
		_, err := m.Add(1, src)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"c", "b"}, m.RecentSources(2))
	assert.Equal(t, []string{"c", "b", "a"}, m.RecentSources(10))
	assert.Nil(t, m.RecentSources(0))
}

func TestManager_Reset(t *testing.T) {
	m := NewManager()
	_, err := m.Add(100, "x")
	require.NoError(t, err)
	_, _ = m.EvaluateTier()

	m.Reset()

	assert.Equal(t, 0.0, m.Scalar())
	assert.Equal(t, TierStable, m.CurrentTier())
	assert.False(t, m.Annihilated())
	assert.Empty(t, m.Ledger())
}

func TestManager_SnapshotRestore(t *testing.T) {
	m := NewManager()
	_, err := m.Add(42, "x")
	require.NoError(t, err)
	_, err = m.Add(10, "y")
	require.NoError(t, err)

	snap := m.Snapshot()

	restored := NewManager()
	restored.Restore(snap)

	assert.Equal(t, 52.0, restored.Scalar())
	assert.Equal(t, map[string]float64{"x": 42, "y": 10}, restored.Ledger())
	assert.Equal(t, TierCritical, restored.CurrentTier())
	assert.False(t, restored.Annihilated())
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		scalar float64
		want   Tier
	}{
		{0, TierStable},
		{25, TierStable},
		{25.1, TierUnstable},
		{50, TierUnstable},
		{50.1, TierCritical},
		{75, TierCritical},
		{75.1, TierCollapse},
		{99.9, TierCollapse},
		{100, TierAnnihilation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.scalar), "scalar %g", tt.scalar)
	}
}
