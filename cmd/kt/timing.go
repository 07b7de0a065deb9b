package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/model"
)

var timingCmd = &cobra.Command{
	Use:   "timing",
	Short: "Show end-to-end transfer timing (CPU call vs GPU DMA)",
	Long: `Join each memory copy with the CPU-side call that requested it and break the
transfer down into launch overhead (call start to DMA start), DMA time, and
sync wait (DMA end to call return). Copies without a traced CPU call are
reported with zero overhead and flagged host_call_unavailable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := windowParams(cmd)
		if err != nil {
			return err
		}

		s, _, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := engine.Analyze(cmd.Context(), s, p)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(report.Timings)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DMA_START_MS\tDIR\tSIZE\tE2E_US\tOVERHEAD_US\tDMA_US\tSYNC_US\tBW_GBPS\tFLAGS")
		for _, t := range report.Timings {
			bw := ""
			if t.BandwidthGBps != nil {
				bw = fmt.Sprintf("%.2f", *t.BandwidthGBps)
			}
			fmt.Fprintf(w, "%.3f\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
				t.DMAStartMS,
				t.Memcpy.Direction,
				model.FormatBytes(t.Memcpy.Bytes),
				t.E2EMS*1000,
				t.LaunchOverheadMS*1000,
				t.TransferMS*1000,
				t.SyncWaitMS*1000,
				bw,
				flagsCell(t.Flags),
			)
		}
		w.Flush()
		fmt.Printf("\n%d transfers in %s\n", len(report.Timings), p.Window)
		return nil
	},
}

func init() {
	addWindowFlags(timingCmd)
}
