package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procdiff/procdiff/internal/store"
)

// LogsOptions holds flags for the logs command.
type LogsOptions struct {
	*RootOptions
	Database string
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "logs",
		Short:         "List event logs stored in the database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite event-log store (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// LogsReport lists the stored logs.
type LogsReport struct {
	Logs []store.LogInfo `json:"logs"`
}

func (r LogsReport) String() string {
	if len(r.Logs) == 0 {
		return "no logs stored"
	}
	var sb strings.Builder
	for _, info := range r.Logs {
		fmt.Fprintf(&sb, "%s: %d events (created %s)\n", info.Name, info.Events, info.CreatedAt)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func runLogs(opts *LogsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer st.Close()

	infos, err := st.ListLogs(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "listing logs", err)
	}
	return formatter.Success(LogsReport{Logs: infos})
}
