package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/procdiff/procdiff/internal/eventlog"
	"github.com/procdiff/procdiff/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Database string
	Name     string
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <log.csv>",
		Short: "Store a CSV event log in the event-log database",
		Long: `Normalize and store a CSV event log under a name, so later compare
runs can reference it without re-parsing the file.

Example:
  procdiff ingest --db logs.db --name before ./before.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite event-log store (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name to store the log under (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// IngestReport summarizes a stored log.
type IngestReport struct {
	Name   string `json:"name"`
	Events int    `json:"events"`
	Cases  int    `json:"cases"`
}

func (r IngestReport) String() string {
	return fmt.Sprintf("stored log %q: %d events across %d cases", r.Name, r.Events, r.Cases)
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening log file", err)
	}
	defer f.Close()

	log, err := eventlog.ReadCSV(f, filepath.Base(path))
	if err != nil {
		return WrapExitError(ExitFailure, "parsing log file", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing store", "error", closeErr)
		}
	}()

	if err := st.AppendLog(cmd.Context(), opts.Name, log); err != nil {
		return WrapExitError(ExitCommandError, "storing log", err)
	}

	slog.Info("log stored", "name", opts.Name, "events", len(log.Events))
	return formatter.Success(IngestReport{
		Name:   opts.Name,
		Events: len(log.Events),
		Cases:  log.CaseCount(),
	})
}
