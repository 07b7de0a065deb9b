package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/model"
)

var memcpysCmd = &cobra.Command{
	Use:   "memcpys",
	Short: "List memory copies in a time window",
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

		// The raw listing ignores min-bytes so sync-signal copies stay visible.
		memcpys, err := s.ReadMemcpys(cmd.Context(), p.Window, p.Filter)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(memcpys)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "START_MS\tEND_MS\tDUR_MS\tDIR\tSIZE\tDEV\tSTREAM\tSRC\tDST")
		for _, m := range memcpys {
			fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%s\t%s\t%d\t%d\t%s\t%s\n",
				m.StartMS,
				m.EndMS,
				m.DurationMS(),
				m.Direction,
				model.FormatBytes(m.Bytes),
				m.DeviceID,
				m.StreamID,
				m.SrcKind,
				m.DstKind,
			)
		}
		w.Flush()
		fmt.Printf("\n%d memcpys in %s\n", len(memcpys), p.Window)
		return nil
	},
}

func init() {
	addWindowFlags(memcpysCmd)
}
