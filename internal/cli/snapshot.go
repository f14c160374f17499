package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/causality/internal/store"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect the snapshot journal",
		Long:  "List and show snapshots recorded by scenario runs with --journal.",
	}

	cmd.PersistentFlags().StringVar(&journalPath, "journal", "causality.db", "sqlite journal database")

	cmd.AddCommand(newSnapshotListCommand(rootOpts, &journalPath))
	cmd.AddCommand(newSnapshotShowCommand(rootOpts, &journalPath))

	return cmd
}

// snapshotSummary is the per-entry shape of snapshot list output.
type snapshotSummary struct {
	ID             int64  `json:"id"`
	Level          string `json:"level"`
	Attempt        string `json:"attempt"`
	Frame          int64  `json:"frame"`
	ActiveUniverse string `json:"active_universe"`
}

func newSnapshotListCommand(rootOpts *RootOptions, journalPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "list <level>",
		Short:         "List journal entries for a level",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			db, err := store.Open(*journalPath)
			if err != nil {
				_ = formatter.Error("JOURNAL", err.Error(), nil)
				return WrapExitError(ExitCommandError, "open journal", err)
			}
			defer db.Close()

			recs, err := db.List(cmd.Context(), args[0])
			if err != nil {
				_ = formatter.Error("JOURNAL", err.Error(), nil)
				return WrapExitError(ExitCommandError, "list snapshots", err)
			}

			summaries := make([]snapshotSummary, len(recs))
			for i, rec := range recs {
				summaries[i] = snapshotSummary{
					ID:             rec.ID,
					Level:          rec.Level,
					Attempt:        rec.Attempt,
					Frame:          rec.Frame,
					ActiveUniverse: rec.Data.ActiveUniverse,
				}
			}

			if formatter.Format == "json" {
				return formatter.Success(summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintf(formatter.Writer, "no snapshots for level %q\n", args[0])
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(formatter.Writer, "%d\tframe %d\t%s\t%s\n", s.ID, s.Frame, s.ActiveUniverse, s.Attempt)
			}
			return nil
		},
	}
}

func newSnapshotShowCommand(rootOpts *RootOptions, journalPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one journal entry in full",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				_ = formatter.Error("BAD_ID", fmt.Sprintf("snapshot id %q is not a number", args[0]), nil)
				return WrapExitError(ExitCommandError, "parse snapshot id", err)
			}

			db, err := store.Open(*journalPath)
			if err != nil {
				_ = formatter.Error("JOURNAL", err.Error(), nil)
				return WrapExitError(ExitCommandError, "open journal", err)
			}
			defer db.Close()

			rec, err := db.Load(cmd.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				_ = formatter.Error("NOT_FOUND", fmt.Sprintf("snapshot %d not found", id), nil)
				return WrapExitError(ExitFailure, "snapshot lookup", err)
			}
			if err != nil {
				_ = formatter.Error("JOURNAL", err.Error(), nil)
				return WrapExitError(ExitCommandError, "load snapshot", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(rec)
			}

			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return WrapExitError(ExitCommandError, "encode snapshot", err)
			}
			fmt.Fprintln(formatter.Writer, string(data))
			return nil
		},
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
