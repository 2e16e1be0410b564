package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/procdiff/procdiff/internal/config"
	"github.com/procdiff/procdiff/internal/diff"
	"github.com/procdiff/procdiff/internal/export"
	"github.com/procdiff/procdiff/internal/manifest"
	"github.com/procdiff/procdiff/internal/render"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	FirstCSV     string
	SecondCSV    string
	Database     string
	FirstLog     string
	SecondLog    string
	ConfigPath   string
	Threshold    float64
	Significance string
	OutComplete  string
	OutFiltered  string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare [manifest.cue]",
		Short: "Compare two event logs and render the annotated diff model",
		Long: `Mine a process model from each of two event logs, merge them into one
provenance-labeled diff model, and write two Graphviz DOT files: the
complete diff and a filtered view keeping only significant edges.

Sources come from a CUE manifest or from flags. Settings resolve in
order: built-in defaults, then --config, then the manifest, then flags.

Examples:
  procdiff compare ./compare.cue
  procdiff compare --first-csv before.csv --second-csv after.csv
  procdiff compare --db logs.db --first-log before --second-log after --threshold 0.8`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FirstCSV, "first-csv", "", "CSV event log for the first model")
	cmd.Flags().StringVar(&opts.SecondCSV, "second-csv", "", "CSV event log for the second model")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite event-log store holding named logs")
	cmd.Flags().StringVar(&opts.FirstLog, "first-log", "", "stored log name for the first model")
	cmd.Flags().StringVar(&opts.SecondLog, "second-log", "", "stored log name for the second model")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML config file with defaults")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", diff.DefaultThreshold, "significance cutoff in [0,1] for the filtered view")
	cmd.Flags().StringVar(&opts.Significance, "significance", "", "significance measure (relative|dependency)")
	cmd.Flags().StringVar(&opts.OutComplete, "out-complete", "diff_complete.dot", "output path of the complete diff")
	cmd.Flags().StringVar(&opts.OutFiltered, "out-filtered", "diff_filtered.dot", "output path of the filtered diff")

	return cmd
}

// OriginCounts tallies graph elements per provenance class.
type OriginCounts struct {
	Total      int `json:"total"`
	Common     int `json:"common"`
	FirstOnly  int `json:"first_only"`
	SecondOnly int `json:"second_only"`
}

// CompareReport is the run summary printed after a comparison.
type CompareReport struct {
	RunID         string       `json:"run_id"`
	Threshold     float64      `json:"threshold"`
	Significance  string       `json:"significance"`
	Nodes         OriginCounts `json:"nodes"`
	Edges         OriginCounts `json:"edges"`
	FilteredNodes int          `json:"filtered_nodes"`
	FilteredEdges int          `json:"filtered_edges"`
	CompletePath  string       `json:"complete_path"`
	FilteredPath  string       `json:"filtered_path"`
}

func (r CompareReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s\n", r.RunID)
	fmt.Fprintf(&sb, "nodes: %d total (%d common, %d first-only, %d second-only)\n",
		r.Nodes.Total, r.Nodes.Common, r.Nodes.FirstOnly, r.Nodes.SecondOnly)
	fmt.Fprintf(&sb, "edges: %d total (%d common, %d first-only, %d second-only)\n",
		r.Edges.Total, r.Edges.Common, r.Edges.FirstOnly, r.Edges.SecondOnly)
	fmt.Fprintf(&sb, "filtered (threshold %v, %s): %d nodes, %d edges kept\n",
		r.Threshold, r.Significance, r.FilteredNodes, r.FilteredEdges)
	fmt.Fprintf(&sb, "wrote %s and %s", r.CompletePath, r.FilteredPath)
	return sb.String()
}

func runCompare(opts *CompareOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, first, second, err := resolveSettings(opts, args, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid comparison setup", err)
	}

	slog.Debug("discovering models",
		"first", sourceLabel(first), "second", sourceLabel(second))
	m1, m2, err := discoverBoth(cmd.Context(), first, second)
	if err != nil {
		return WrapExitError(ExitFailure, "model discovery failed", err)
	}
	slog.Debug("models discovered",
		"first_nodes", m1.NodeCount(), "first_edges", m1.EdgeCount(),
		"second_nodes", m2.NodeCount(), "second_edges", m2.EdgeCount())

	d, err := diff.Build(m1, m2)
	if err != nil {
		return WrapExitError(ExitFailure, "building diff model failed", err)
	}

	filtered, err := diff.Filter(d, cfg.Threshold, cfg.SignificanceFunc())
	if err != nil {
		return WrapExitError(ExitCommandError, "filtering diff model failed", err)
	}

	completeDesc, err := export.Describe(d, cfg.Palette)
	if err != nil {
		return WrapExitError(ExitFailure, "exporting complete diff failed", err)
	}
	filteredDesc, err := export.Describe(filtered, cfg.Palette)
	if err != nil {
		return WrapExitError(ExitFailure, "exporting filtered diff failed", err)
	}

	if err := render.WriteFile(opts.OutComplete, completeDesc, render.Options{Name: "ProcessDiff"}); err != nil {
		return WrapExitError(ExitCommandError, "writing complete diff failed", err)
	}
	if err := render.WriteFile(opts.OutFiltered, filteredDesc, render.Options{Name: "ProcessDiffFiltered"}); err != nil {
		return WrapExitError(ExitCommandError, "writing filtered diff failed", err)
	}

	report := buildReport(d, filtered, cfg, opts)
	slog.Info("comparison complete", "run_id", report.RunID,
		"nodes", report.Nodes.Total, "edges", report.Edges.Total)
	return formatter.Success(report)
}

// resolveSettings merges defaults, config file, manifest, and flags into the
// effective configuration and the two log sources.
func resolveSettings(opts *CompareOptions, args []string, cmd *cobra.Command) (config.Config, manifest.Source, manifest.Source, error) {
	cfg := config.Default()
	var first, second manifest.Source

	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, first, second, err
		}
		cfg = loaded
	}

	if len(args) == 1 {
		m, err := manifest.Load(args[0])
		if err != nil {
			return cfg, first, second, err
		}
		first, second = m.First, m.Second
		if m.Threshold != nil {
			cfg.Threshold = *m.Threshold
		}
		if m.Significance != "" {
			cfg.Significance = m.Significance
		}
		if m.Palette.Common != "" {
			cfg.Palette.Common = m.Palette.Common
		}
		if m.Palette.First != "" {
			cfg.Palette.First = m.Palette.First
		}
		if m.Palette.Second != "" {
			cfg.Palette.Second = m.Palette.Second
		}
		if m.Output.Complete != "" && !cmd.Flags().Changed("out-complete") {
			opts.OutComplete = m.Output.Complete
		}
		if m.Output.Filtered != "" && !cmd.Flags().Changed("out-filtered") {
			opts.OutFiltered = m.Output.Filtered
		}
	} else {
		var err error
		first, second, err = sourcesFromFlags(opts)
		if err != nil {
			return cfg, first, second, err
		}
	}

	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = opts.Threshold
	}
	if opts.Significance != "" {
		cfg.Significance = opts.Significance
	}

	if err := cfg.Validate(); err != nil {
		return cfg, first, second, err
	}
	return cfg, first, second, nil
}

// sourcesFromFlags derives the two sources when no manifest is given.
func sourcesFromFlags(opts *CompareOptions) (manifest.Source, manifest.Source, error) {
	var first, second manifest.Source

	switch {
	case opts.FirstCSV != "" && opts.SecondCSV != "":
		first = manifest.Source{CSV: opts.FirstCSV}
		second = manifest.Source{CSV: opts.SecondCSV}
	case opts.Database != "" && opts.FirstLog != "" && opts.SecondLog != "":
		first = manifest.Source{Store: opts.Database, Log: opts.FirstLog}
		second = manifest.Source{Store: opts.Database, Log: opts.SecondLog}
	default:
		return first, second, errors.New("provide a manifest, or --first-csv/--second-csv, or --db with --first-log/--second-log")
	}
	return first, second, nil
}

func sourceLabel(src manifest.Source) string {
	if src.CSV != "" {
		return src.CSV
	}
	return src.Store + "#" + src.Log
}

func buildReport(d, filtered *diff.Model, cfg config.Config, opts *CompareOptions) CompareReport {
	nodeCounts, edgeCounts := d.CountByOrigin()
	return CompareReport{
		RunID:        uuid.Must(uuid.NewV7()).String(),
		Threshold:    cfg.Threshold,
		Significance: cfg.Significance,
		Nodes: OriginCounts{
			Total:      len(d.Nodes),
			Common:     nodeCounts[diff.OriginCommon],
			FirstOnly:  nodeCounts[diff.OriginFirstOnly],
			SecondOnly: nodeCounts[diff.OriginSecondOnly],
		},
		Edges: OriginCounts{
			Total:      len(d.Edges),
			Common:     edgeCounts[diff.OriginCommon],
			FirstOnly:  edgeCounts[diff.OriginFirstOnly],
			SecondOnly: edgeCounts[diff.OriginSecondOnly],
		},
		FilteredNodes: len(filtered.Nodes),
		FilteredEdges: len(filtered.Edges),
		CompletePath:  opts.OutComplete,
		FilteredPath:  opts.OutFiltered,
	}
}
