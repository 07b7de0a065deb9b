package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/model"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Show which kernels ran before and after each memcpy",
	Long: `For each memory copy in the window, show the nearest same-device kernel
that finished before the copy started and the nearest one that started after
it ended, revealing the data flow between compute operations.`,
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
			return printJSON(report.Pairs)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MEMCPY_MS\tDUR_US\tSIZE\tDIR\tGAP_BEFORE_US\tGAP_AFTER_US\tPREV_KERNEL\tNEXT_KERNEL\tFLAGS")
		for _, pr := range report.Pairs {
			m := pr.Memcpy
			prev, next := "", ""
			if pr.Preceding != nil {
				prev = truncate(pr.Preceding.ShortName(), 30)
			}
			if pr.Following != nil {
				next = truncate(pr.Following.ShortName(), 30)
			}
			fmt.Fprintf(w, "%.3f\t%.1f\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				m.StartMS,
				m.DurationMS()*1000,
				model.FormatBytes(m.Bytes),
				m.Direction,
				gapUS(pr.GapBeforeMS),
				gapUS(pr.GapAfterMS),
				prev,
				next,
				flagsCell(pr.Flags),
			)
		}
		w.Flush()
		fmt.Printf("\n%d pairs in %s (%d kernels, %d memcpys)\n",
			len(report.Pairs), p.Window, len(report.Kernels), len(report.Memcpys))
		return nil
	},
}

func gapUS(ms *float64) string {
	if ms == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *ms*1000)
}

func init() {
	addWindowFlags(pairsCmd)
}
