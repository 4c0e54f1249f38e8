package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"arbscan/internal/infra/log"
	"arbscan/internal/sink"
	"arbscan/internal/strategy"
)

var onceFormat string

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single pass and print the ranked opportunities",
	Long: `Collect one snapshot, analyze it, publish the report to the enabled sinks
and print the top opportunities.

Examples:
  arbscan once
  arbscan once --format json`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
	onceCmd.Flags().StringVar(&onceFormat, "format", "table", "Output format (table|json)")
}

func runOnce(cmd *cobra.Command, _ []string) error {
	if onceFormat != "table" && onceFormat != "json" {
		return fmt.Errorf("unknown format %q", onceFormat)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := log.NewLogger(cfg)
	scanner, cleanup, err := newRunner(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	rep, err := scanner.RunOnce(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if onceFormat == "json" {
		b, err := sink.Encode(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
	return printTable(out, rep)
}

func printTable(out io.Writer, rep strategy.Report) error {
	fmt.Fprintf(out, "%d opportunities from %d quotes on %d exchanges\n\n", len(rep.All), rep.Stats.Quotes, rep.Stats.Exchanges)
	if len(rep.Top) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tKIND\tWHAT\tWHERE\tPROFIT %\tNET")
	for i, o := range rep.Top {
		switch v := o.(type) {
		case strategy.DirectOpportunity:
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f\t%.4f\n", i+1, v.Kind(), v.Instrument, v.Direction, v.SpreadPercent, v.NetProfit)
		case strategy.TriangularOpportunity:
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f\t%.4f\n", i+1, v.Kind(), v.RouteID, v.Exchange, v.ProfitPercent, v.NetProfitLoss)
		}
	}
	return w.Flush()
}
