package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procdiff/procdiff/internal/manifest"
)

// MineOptions holds flags for the mine command.
type MineOptions struct {
	*RootOptions
	CSV      string
	Database string
	Log      string
}

// NewMineCommand creates the mine command, a debugging aid that shows the
// discovered model of a single log.
func NewMineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Discover and summarize the process model of one event log",
		Long: `Mine the directly-follows model of a single event log and print its
activities and edges with observed frequencies.

Examples:
  procdiff mine --csv before.csv
  procdiff mine --db logs.db --log before`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMine(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CSV, "csv", "", "CSV event log to mine")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite event-log store")
	cmd.Flags().StringVar(&opts.Log, "log", "", "stored log name")

	return cmd
}

// ActivityReport is one mined activity with its occurrence count.
type ActivityReport struct {
	ID        string `json:"id"`
	Frequency int64  `json:"frequency"`
}

// EdgeReport is one directly-follows relation with its observation count.
type EdgeReport struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Frequency int64  `json:"frequency"`
}

// MineReport summarizes a discovered model.
type MineReport struct {
	Source     string           `json:"source"`
	Activities []ActivityReport `json:"activities"`
	Edges      []EdgeReport     `json:"edges"`
}

func (r MineReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "model of %s: %d activities, %d edges\n", r.Source, len(r.Activities), len(r.Edges))
	for _, a := range r.Activities {
		fmt.Fprintf(&sb, "  %s (%d)\n", a.ID, a.Frequency)
	}
	for _, e := range r.Edges {
		fmt.Fprintf(&sb, "  %s -> %s (%d)\n", e.Source, e.Target, e.Frequency)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func runMine(opts *MineOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	src, err := mineSource(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid mine setup", err)
	}

	m, err := discoverSource(cmd.Context(), src)
	if err != nil {
		return WrapExitError(ExitFailure, "model discovery failed", err)
	}

	report := MineReport{Source: sourceLabel(src)}
	for _, id := range m.Activities() {
		f, _ := m.Frequency(id)
		report.Activities = append(report.Activities, ActivityReport{ID: id, Frequency: f})
	}
	for _, k := range m.Edges() {
		f, _ := m.EdgeFrequency(k.Source, k.Target)
		report.Edges = append(report.Edges, EdgeReport{Source: k.Source, Target: k.Target, Frequency: f})
	}
	return formatter.Success(report)
}

func mineSource(opts *MineOptions) (manifest.Source, error) {
	switch {
	case opts.CSV != "" && opts.Database == "":
		return manifest.Source{CSV: opts.CSV}, nil
	case opts.CSV == "" && opts.Database != "" && opts.Log != "":
		return manifest.Source{Store: opts.Database, Log: opts.Log}, nil
	default:
		return manifest.Source{}, errors.New("provide either --csv, or --db with --log")
	}
}
