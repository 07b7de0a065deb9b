package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Manage named trace exports",
}

var traceAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add or update a named trace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		label, _ := cmd.Flags().GetString("label")

		cfg, err := loadTracesConfig()
		if err != nil {
			return err
		}
		cfg.Traces[name] = Trace{Path: path, Label: label}
		if err := saveTracesConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("trace %q added (%s)\n", name, path)
		return nil
	},
}

var traceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadTracesConfig()
		if err != nil {
			return err
		}
		if _, ok := cfg.Traces[name]; !ok {
			return fmt.Errorf("trace %q not found", name)
		}
		delete(cfg.Traces, name)
		if cfg.Active == name {
			cfg.Active = ""
		}
		if err := saveTracesConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("trace %q removed\n", name)
		return nil
	},
}

var traceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all traces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTracesConfig()
		if err != nil {
			return err
		}
		if len(cfg.Traces) == 0 {
			fmt.Println("no traces registered")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tPATH\tLABEL")
		for name, t := range cfg.Traces {
			marker := "  "
			if name == cfg.Active {
				marker = "* "
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\n", marker, name, t.Path, t.Label)
		}
		return w.Flush()
	},
}

var traceUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadTracesConfig()
		if err != nil {
			return err
		}
		if _, ok := cfg.Traces[name]; !ok {
			return fmt.Errorf("trace %q not found", name)
		}
		cfg.Active = name
		if err := saveTracesConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("active trace set to %q\n", name)
		return nil
	},
}

var traceShowCmd = &cobra.Command{
	Use:   "show [<name>]",
	Short: "Show details for a trace (defaults to active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTracesConfig()
		if err != nil {
			return err
		}

		name := cfg.Active
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no active trace; specify a name or run 'kt trace use <name>'")
		}

		t, ok := cfg.Traces[name]
		if !ok {
			return fmt.Errorf("trace %q not found", name)
		}

		active := ""
		if name == cfg.Active {
			active = " (active)"
		}
		fmt.Printf("Name:   %s%s\n", name, active)
		fmt.Printf("Path:   %s\n", t.Path)
		if t.Label != "" {
			fmt.Printf("Label:  %s\n", t.Label)
		}
		return nil
	},
}

func init() {
	traceAddCmd.Flags().String("label", "", "free-form description of the trace")

	traceCmd.AddCommand(traceAddCmd)
	traceCmd.AddCommand(traceRemoveCmd)
	traceCmd.AddCommand(traceListCmd)
	traceCmd.AddCommand(traceUseCmd)
	traceCmd.AddCommand(traceShowCmd)
}
