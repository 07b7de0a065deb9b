package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/config"
	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/model"
	"github.com/groblegark/ktrace/internal/resolve"
	"github.com/groblegark/ktrace/internal/store/sqlite"
)

var (
	tracePath  string
	jsonOutput bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kt <command>",
	Short: "Analyze kernel/memcpy activity in a GPU profiler trace",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

// resolveTracePath picks the trace to open: the --trace flag, then
// KTRACE_TRACE, then the active entry in the trace registry.
func resolveTracePath() (string, error) {
	if tracePath != "" {
		return tracePath, nil
	}
	if cfg.TracePath != "" {
		return cfg.TracePath, nil
	}
	if p := activeTracePath(); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no trace given; use --trace, set KTRACE_TRACE, or run 'kt trace use <name>'")
}

// openStore opens the resolved trace read-only. Callers must Close it on
// every exit path.
func openStore(ctx context.Context) (*sqlite.TraceStore, string, error) {
	path, err := resolveTracePath()
	if err != nil {
		return nil, "", err
	}
	s, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

// windowParams collects the window/filter flags shared by analysis commands.
func windowParams(cmd *cobra.Command) (engine.Params, error) {
	t1, _ := cmd.Flags().GetFloat64("t1")
	t2, _ := cmd.Flags().GetFloat64("t2")
	minBytes, _ := cmd.Flags().GetInt64("min-bytes")

	p := engine.Params{
		Window: model.Window{StartMS: t1, EndMS: t2},
		Filter: model.Filter{MinBytes: minBytes},
		Resolve: resolve.Options{
			SuspiciousMinBytes: cfg.SuspiciousMinBytes,
			NearZeroMS:         cfg.NearZeroMS,
		},
	}
	if cmd.Flags().Changed("device") {
		device, _ := cmd.Flags().GetInt64("device")
		p.Filter.Device = &device
	}
	return p, p.Window.Validate()
}

// addWindowFlags registers the window/filter flags on an analysis command.
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("t1", 0, "window start (ms from trace start)")
	cmd.Flags().Float64("t2", 0, "window end (ms from trace start)")
	cmd.Flags().Int64("device", 0, "restrict to one device")
	cmd.Flags().Int64("min-bytes", 0, "exclude transfers below this size from pair/timing output")
	_ = cmd.MarkFlagRequired("t1")
	_ = cmd.MarkFlagRequired("t2")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tracePath, "trace", "", "path to the profiler SQLite export")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(kernelsCmd)
	rootCmd.AddCommand(memcpysCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(timingCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	// Log to stderr so table output stays pipeable.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
