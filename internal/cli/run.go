package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/causality/internal/harness"
	"github.com/roach88/causality/internal/store"
)

// RunResult summarizes a completed scenario run.
type RunResult struct {
	Scenario       string         `json:"scenario"`
	Attempt        string         `json:"attempt"`
	Frames         int64          `json:"frames"`
	Events         map[string]int `json:"events,omitempty"`
	ActiveUniverse string         `json:"active_universe"`
	ParadoxScalar  float64        `json:"paradox_scalar"`
	SnapshotID     int64          `json:"snapshot_id,omitempty"`
}

func (r RunResult) String() string {
	return fmt.Sprintf("✓ %s: %d frame(s), final universe %s, paradox %.1f",
		r.Scenario, r.Frames, r.ActiveUniverse, r.ParadoxScalar)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scripted scenario and evaluate its assertions",
		Long: `Run a scripted scenario against its level and evaluate the declared
assertions. With --journal the final snapshot is appended to the
snapshot database under the scenario's level name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], journalPath, cmd)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "sqlite database to append the final snapshot to")

	return cmd
}

func runScenario(opts *RootOptions, path, journalPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sc, err := harness.LoadFile(path)
	if err != nil {
		_ = formatter.Error("LOAD", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	formatter.VerboseLog("Running scenario %q (%d step(s))", sc.Name, len(sc.Steps))

	res, err := harness.Run(sc)
	if err != nil {
		_ = formatter.Error("SCENARIO", err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed", err)
	}

	counts := make(map[string]int)
	for _, ev := range res.Events {
		counts[harness.EventType(ev)]++
	}

	out := RunResult{
		Scenario:       res.Scenario,
		Attempt:        res.Attempt,
		Frames:         res.Frames,
		Events:         counts,
		ActiveUniverse: res.Final.ActiveUniverse,
		ParadoxScalar:  res.Final.Paradox.Scalar,
	}

	if journalPath != "" {
		id, err := saveRunSnapshot(cmd, journalPath, sc.Level.Name, res)
		if err != nil {
			_ = formatter.Error("JOURNAL", err.Error(), nil)
			return WrapExitError(ExitCommandError, "journal snapshot", err)
		}
		out.SnapshotID = id
		formatter.VerboseLog("Snapshot %d saved to %s", id, journalPath)
	}

	return formatter.Success(out)
}

func saveRunSnapshot(cmd *cobra.Command, journalPath, levelName string, res *harness.Result) (int64, error) {
	db, err := store.Open(journalPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return db.Save(cmd.Context(), levelName, res.Attempt, res.Frames, res.Final)
}
