package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/causality/internal/harness"
	"github.com/roach88/causality/internal/store"
)

func seedJournal(t *testing.T) string {
	t.Helper()

	sc, err := harness.Parse([]byte(felledTreeScenarioYAML))
	require.NoError(t, err)
	res, err := harness.Run(sc)
	require.NoError(t, err)

	journal := filepath.Join(t.TempDir(), "journal.db")
	db, err := store.Open(journal)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Save(context.Background(), "orchard", res.Attempt, res.Frames, res.Final)
	require.NoError(t, err)
	return journal
}

func TestSnapshotList(t *testing.T) {
	journal := seedJournal(t)

	out, err := execute(t, "snapshot", "--journal", journal, "list", "orchard")
	require.NoError(t, err)
	assert.Contains(t, out, "frame 2")
	assert.Contains(t, out, "echo")
}

func TestSnapshotList_EmptyLevel(t *testing.T) {
	journal := seedJournal(t)

	out, err := execute(t, "snapshot", "--journal", journal, "list", "unknown")
	require.NoError(t, err)
	assert.Contains(t, out, "no snapshots")
}

func TestSnapshotShow(t *testing.T) {
	journal := seedJournal(t)

	out, err := execute(t, "snapshot", "--journal", journal, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"active_universe": "echo"`)
}

func TestSnapshotShow_NotFound(t *testing.T) {
	journal := seedJournal(t)

	_, err := execute(t, "snapshot", "--journal", journal, "show", "999")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSnapshotShow_BadID(t *testing.T) {
	journal := seedJournal(t)

	_, err := execute(t, "snapshot", "--journal", journal, "show", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
