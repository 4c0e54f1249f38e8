package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbscan/internal/routes"
)

var routesVerbose bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Inspect triangular route tables",
}

var routesValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that a route table parses and every cycle closes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := routes.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if routesVerbose {
			for _, r := range table {
				fmt.Fprintf(out, "%-20s %s %s, %s %s, %s %s\n", r.ID,
					r.Legs[0].Side, r.Legs[0].Instrument,
					r.Legs[1].Side, r.Legs[1].Instrument,
					r.Legs[2].Side, r.Legs[2].Instrument)
			}
		}
		fmt.Fprintf(out, "%s: %d routes ok\n", args[0], len(table))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.AddCommand(routesValidateCmd)
	routesValidateCmd.Flags().BoolVar(&routesVerbose, "verbose", false, "List every route")
}
