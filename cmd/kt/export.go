package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/events"
	"github.com/groblegark/ktrace/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the window's kernel, memcpy, and pair/timing tables as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := windowParams(cmd)
		if err != nil {
			return err
		}
		outDir, _ := cmd.Flags().GetString("out")
		withJSONL, _ := cmd.Flags().GetBool("jsonl")
		if outDir == "" {
			outDir = cfg.ExportDir
		}

		s, tracePath, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := engine.Analyze(cmd.Context(), s, p)
		if err != nil {
			return err
		}

		publisher, err := newPublisher()
		if err != nil {
			return err
		}
		defer publisher.Close()

		if err := exportReport(cmd.Context(), report, outDir, withJSONL, publisher); err != nil {
			return err
		}

		if err := publisher.Publish(cmd.Context(), events.TopicWindowAnalyzed,
			events.NewWindowAnalyzed(tracePath, report)); err != nil {
			slog.Warn("failed to publish event", "topic", events.TopicWindowAnalyzed, "error", err)
		}

		fmt.Printf("%d kernels, %d memcpys, %d pairs -> %s\n",
			len(report.Kernels), len(report.Memcpys), len(report.Pairs), outDir)
		return nil
	},
}

// exportReport writes one report's artifacts to the local directory and, when
// an S3 bucket is configured, uploads the same set there.
func exportReport(ctx context.Context, report *engine.Report, outDir string, withJSONL bool, publisher events.Publisher) error {
	destinations := []export.Destination{export.NewDirDestination(outDir)}
	if cfg.S3Bucket != "" {
		s3dest, err := export.NewS3Destination(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return err
		}
		destinations = append(destinations, s3dest)
	}

	for _, d := range destinations {
		if err := export.WriteReport(ctx, report, d); err != nil {
			return err
		}
		if withJSONL {
			data, err := export.JSONLBytes(report)
			if err != nil {
				return err
			}
			name := "report_" + export.WindowTag(report) + ".jsonl"
			if err := d.Write(ctx, name, data); err != nil {
				return err
			}
		}
	}

	if err := publisher.Publish(ctx, events.TopicExportWritten, events.ExportWritten{
		RunID:    report.RunID,
		Location: outDir,
	}); err != nil {
		slog.Warn("failed to publish event", "topic", events.TopicExportWritten, "error", err)
	}
	return nil
}

// newPublisher returns a NATS publisher when KTRACE_NATS_URL is set, and a
// no-op otherwise.
func newPublisher() (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

func init() {
	addWindowFlags(exportCmd)
	exportCmd.Flags().String("out", "", "output directory (default KTRACE_EXPORT_DIR)")
	exportCmd.Flags().Bool("jsonl", false, "also write the full report as JSONL")
}
