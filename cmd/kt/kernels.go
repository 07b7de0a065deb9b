package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List kernel executions in a time window",
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

		kernels, err := s.ReadKernels(cmd.Context(), p.Window, p.Filter)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(kernels)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "START_MS\tEND_MS\tDUR_MS\tDEV\tSTREAM\tGRID\tBLOCK\tNAME")
		for _, k := range kernels {
			fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%d\t%d\t%s\t%s\t%s\n",
				k.StartMS,
				k.EndMS,
				k.DurationMS(),
				k.DeviceID,
				k.StreamID,
				k.Grid,
				k.Block,
				truncate(k.ShortName(), 48),
			)
		}
		w.Flush()
		fmt.Printf("\n%d kernels in %s\n", len(kernels), p.Window)
		return nil
	},
}

func init() {
	addWindowFlags(kernelsCmd)
}
