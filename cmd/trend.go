package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Weekly net WAPP trend",
	Long:  "Groups the filtered working set by revised week and prints the weekly totals in chronological order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		aggs := analytics.GroupBy(ws.Filtered, analytics.ByWeek)

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return outputAggregates("Week", aggs, format, output,
			func(a analytics.Aggregate) string { return formatWeek(a.Week) })
	},
}

func init() {
	addDataFlags(trendCmd)
	f := trendCmd.Flags()
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	rootCmd.AddCommand(trendCmd)
}
