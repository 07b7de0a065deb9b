package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/groblegark/ktrace/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print analysis events as they are published",
	Long: `Subscribe to ktrace events on NATS (KTRACE_NATS_URL) and print each one as
it arrives. Useful while a sweep runs elsewhere, or to feed a live renderer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")

		if cfg.NATSURL == "" {
			return fmt.Errorf("KTRACE_NATS_URL is not set")
		}

		sub, err := events.NewNATSSubscriber(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(os.Stderr, "watching %s on %s\n", topic, cfg.NATSURL)
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Println(string(msg))
			}
		}
	},
}

func init() {
	watchCmd.Flags().String("topic", "ktrace.>", "NATS subject to subscribe to")
}
