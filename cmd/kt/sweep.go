package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/events"
	"github.com/groblegark/ktrace/internal/model"
	"github.com/groblegark/ktrace/internal/resolve"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Analyze the whole trace in fixed-width windows",
	Long: `Partition the trace into fixed-width windows and run the full analysis on
each, writing one artifact set per window. Windows are independent and run
across a worker pool sharing only the read-only trace handle.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetFloat64("width")
		workers, _ := cmd.Flags().GetInt("workers")
		outDir, _ := cmd.Flags().GetString("out")
		minBytes, _ := cmd.Flags().GetInt64("min-bytes")
		withJSONL, _ := cmd.Flags().GetBool("jsonl")
		if outDir == "" {
			outDir = cfg.ExportDir
		}
		if workers <= 0 {
			workers = runtime.NumCPU()
		}

		p := engine.Params{
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

		s, tracePath, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		reports, err := engine.Sweep(cmd.Context(), s, p, width, workers)
		if err != nil {
			return err
		}

		publisher, err := newPublisher()
		if err != nil {
			return err
		}
		defer publisher.Close()

		written := 0
		for _, report := range reports {
			if report.Empty() {
				continue
			}
			if err := exportReport(cmd.Context(), report, outDir, withJSONL, publisher); err != nil {
				return err
			}
			if err := publisher.Publish(cmd.Context(), events.TopicWindowAnalyzed,
				events.NewWindowAnalyzed(tracePath, report)); err != nil {
				slog.Warn("failed to publish event", "topic", events.TopicWindowAnalyzed, "error", err)
			}
			written++
		}

		if err := publisher.Publish(cmd.Context(), events.TopicSweepCompleted, events.SweepCompleted{
			Trace:   tracePath,
			Windows: written,
			WidthMS: width,
		}); err != nil {
			slog.Warn("failed to publish event", "topic", events.TopicSweepCompleted, "error", err)
		}

		fmt.Printf("swept %d windows (%d with events) -> %s\n", len(reports), written, outDir)
		return nil
	},
}

func init() {
	sweepCmd.Flags().Float64("width", 100, "window width in ms")
	sweepCmd.Flags().Int("workers", 0, "parallel workers (default: number of CPUs)")
	sweepCmd.Flags().String("out", "", "output directory (default KTRACE_EXPORT_DIR)")
	sweepCmd.Flags().Int64("min-bytes", 0, "exclude transfers below this size from pair/timing output")
	sweepCmd.Flags().Int64("device", 0, "restrict to one device")
	sweepCmd.Flags().Bool("jsonl", false, "also write each report as JSONL")
}
