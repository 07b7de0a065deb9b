package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate transfer timing per copy direction",
	Args:  cobra.NoArgs,
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
		summaries := engine.Summarize(report.Timings)

		if jsonOutput {
			return printJSON(summaries)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DIRECTION\tCOUNT\tTOTAL_SIZE\tDMA_MS\tOVERHEAD_MS\tSYNC_MS\tMEAN_BW_GBPS")
		for _, ds := range summaries {
			bw := ""
			if ds.MeanBandwidthGBps != nil {
				bw = fmt.Sprintf("%.1f", *ds.MeanBandwidthGBps)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
				ds.Direction,
				ds.Count,
				model.FormatBytes(ds.Bytes),
				ds.TransferMS,
				ds.LaunchOverheadMS,
				ds.SyncWaitMS,
				bw,
			)
		}
		w.Flush()
		fmt.Printf("\n%d transfers in %s\n", len(report.Timings), p.Window)
		return nil
	},
}

func init() {
	addWindowFlags(summaryCmd)
}
